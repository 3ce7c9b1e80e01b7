package action

import (
	"slices"

	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/geo"
	"github.com/matzehuels/mapgraph/pkg/graph"
)

// Params carries the arguments of any registered action. Each action reads
// only the fields it needs.
type Params struct {
	Entity   entity.ID   `json:"entity,omitempty"`
	Line     entity.ID   `json:"line,omitempty"`
	Point    entity.ID   `json:"point,omitempty"`
	Relation entity.ID   `json:"relation,omitempty"`
	IDs      []entity.ID `json:"ids,omitempty"`
	Lines    []entity.ID `json:"lines,omitempty"`
	Edge     []entity.ID `json:"edge,omitempty"`
	NewID    entity.ID   `json:"new_id,omitempty"`

	Index   int   `json:"index,omitempty"`
	Indexes []int `json:"indexes,omitempty"`

	Tags   entity.Tags   `json:"tags,omitempty"`
	Member *MemberParams `json:"member,omitempty"`
	Loc    *[2]float64   `json:"loc,omitempty"` // lon, lat

	OldPreset     string `json:"old_preset,omitempty"`
	NewPreset     string `json:"new_preset,omitempty"`
	SkipDefaults  bool   `json:"skip_defaults,omitempty"`
	AllowUntagged bool   `json:"allow_untagged,omitempty"`

	MaxAngle float64  `json:"max_angle,omitempty"`
	T        *float64 `json:"t,omitempty"`
}

// MemberParams is the wire form of a relation member.
type MemberParams struct {
	ID   entity.ID   `json:"id,omitempty"`
	Role string      `json:"role,omitempty"`
	Kind entity.Kind `json:"kind,omitempty"`
}

// Step is one named action in a script.
type Step struct {
	Action string `json:"action"`
	Params
}

// SchemaSource resolves tag schemas by id. The preset catalog implements it.
type SchemaSource interface {
	Schema(id string) (Schema, bool)
}

// Env holds the collaborators actions need beyond their parameters.
type Env struct {
	Projection geo.Projection
	Minter     entity.Minter
	Schemas    SchemaSource
}

type builder func(p Params, env Env) (Action, error)

var registry = map[string]builder{
	"add_vertex":      buildAddVertex,
	"add_midpoint":    buildAddMidpoint,
	"change_tags":     buildChangeTags,
	"change_preset":   buildChangePreset,
	"change_member":   buildChangeMember,
	"copy_entities":   buildCopyEntities,
	"delete_member":   buildDeleteMember,
	"delete_members":  buildDeleteMembers,
	"delete_node":     buildDeleteNode,
	"delete_line":     buildDeleteLine,
	"delete_relation": buildDeleteRelation,
	"delete_multiple": buildDeleteMultiple,
	"disconnect":      buildDisconnect,
	"circularize":     buildCircularize,
}

// Names returns the registered action names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build constructs the named action. It validates that the parameters the
// action requires are present; whether the referenced entities exist is only
// known when the action is applied.
func Build(name string, p Params, env Env) (Action, error) {
	b, ok := registry[name]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidAction, "unknown action %q", name)
	}
	return b(p, env)
}

// BuildSequence builds every step and composes them with Sequence.
func BuildSequence(steps []Step, env Env) (Action, error) {
	actions := make([]Action, len(steps))
	for i, s := range steps {
		a, err := Build(s.Action, s.Params, env)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidAction, err, "step %d", i+1)
		}
		actions[i] = a
	}
	return Sequence(actions...), nil
}

// Partial applies a transitionable action at a fixed t. It keeps the
// wrapped action's Disabled check.
type Partial struct {
	Action Transitionable
	T      float64
}

// Apply implements Action.
func (p Partial) Apply(g *graph.Graph) (*graph.Graph, error) {
	return p.Action.ApplyAt(g, p.T)
}

// Disabled implements Disabler.
func (p Partial) Disabled(g *graph.Graph) Reason {
	if d, ok := p.Action.(Disabler); ok {
		return d.Disabled(g)
	}
	return Enabled
}

func require(field string, ids ...entity.ID) error {
	for _, id := range ids {
		if id == "" {
			return errs.New(errs.ErrCodeInvalidInput, "missing %s", field)
		}
		if err := errs.ValidateID(string(id)); err != nil {
			return err
		}
	}
	return nil
}

func buildAddVertex(p Params, _ Env) (Action, error) {
	if err := require("line", p.Line); err != nil {
		return nil, err
	}
	if err := require("point", p.Point); err != nil {
		return nil, err
	}
	return AddVertex{Line: p.Line, Point: p.Point, Index: p.Index}, nil
}

func buildAddMidpoint(p Params, env Env) (Action, error) {
	if len(p.Edge) != 2 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "edge needs exactly two point ids")
	}
	if err := require("edge", p.Edge...); err != nil {
		return nil, err
	}
	edge := [2]entity.ID{p.Edge[0], p.Edge[1]}
	return Func(func(g *graph.Graph) (*graph.Graph, error) {
		var loc geo.Loc
		if p.Loc != nil {
			loc = geo.Loc{Lon: p.Loc[0], Lat: p.Loc[1]}
		} else {
			a, err := g.Point(edge[0])
			if err != nil {
				return nil, err
			}
			b, err := g.Point(edge[1])
			if err != nil {
				return nil, err
			}
			loc = geo.InterpLoc(a.Loc, b.Loc, 0.5)
		}

		var pt *entity.Point
		switch {
		case p.Point == "":
			pt = entity.NewPoint(minterFor(env.Minter, g).Next(entity.KindPoint), loc, nil)
		case g.HasEntity(p.Point):
			existing, err := g.Point(p.Point)
			if err != nil {
				return nil, err
			}
			pt = existing
		default:
			pt = entity.NewPoint(p.Point, loc, nil)
		}
		return AddMidpoint{Midpoint: Midpoint{Loc: loc, Edge: edge}, Point: pt}.Apply(g)
	}), nil
}

func buildChangeTags(p Params, _ Env) (Action, error) {
	if err := require("entity", p.Entity); err != nil {
		return nil, err
	}
	return ChangeTags{Entity: p.Entity, Tags: p.Tags.Clone()}, nil
}

func buildChangePreset(p Params, env Env) (Action, error) {
	if err := require("entity", p.Entity); err != nil {
		return nil, err
	}
	a := ChangePreset{Entity: p.Entity, SkipDefaults: p.SkipDefaults}
	var err error
	if a.Old, err = lookupSchema(env, p.OldPreset); err != nil {
		return nil, err
	}
	if a.New, err = lookupSchema(env, p.NewPreset); err != nil {
		return nil, err
	}
	return a, nil
}

func lookupSchema(env Env, id string) (Schema, error) {
	if id == "" {
		return nil, nil
	}
	if env.Schemas == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "preset %q requested but no presets are loaded", id)
	}
	s, ok := env.Schemas.Schema(id)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown preset %q", id)
	}
	return s, nil
}

func buildChangeMember(p Params, _ Env) (Action, error) {
	if err := require("relation", p.Relation); err != nil {
		return nil, err
	}
	if p.Member == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "missing member")
	}
	if p.Member.Kind != "" && !p.Member.Kind.Valid() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown member kind %q", p.Member.Kind)
	}
	m := entity.Member{ID: p.Member.ID, Role: p.Member.Role, Kind: p.Member.Kind}
	return ChangeMember{Relation: p.Relation, Member: m, Index: p.Index}, nil
}

func buildCopyEntities(p Params, env Env) (Action, error) {
	if len(p.IDs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "missing ids")
	}
	if err := require("ids", p.IDs...); err != nil {
		return nil, err
	}
	return CopyEntities{IDs: slices.Clone(p.IDs), Minter: env.Minter}, nil
}

func buildDeleteMember(p Params, _ Env) (Action, error) {
	if err := require("relation", p.Relation); err != nil {
		return nil, err
	}
	return DeleteMember{Relation: p.Relation, Index: p.Index}, nil
}

func buildDeleteMembers(p Params, _ Env) (Action, error) {
	if err := require("relation", p.Relation); err != nil {
		return nil, err
	}
	return DeleteMembers{Relation: p.Relation, Indexes: slices.Clone(p.Indexes)}, nil
}

func buildDeleteNode(p Params, _ Env) (Action, error) {
	if err := require("point", p.Point); err != nil {
		return nil, err
	}
	return DeleteNode{Point: p.Point}, nil
}

func buildDeleteLine(p Params, _ Env) (Action, error) {
	if err := require("line", p.Line); err != nil {
		return nil, err
	}
	return DeleteLine{Line: p.Line}, nil
}

func buildDeleteRelation(p Params, _ Env) (Action, error) {
	if err := require("relation", p.Relation); err != nil {
		return nil, err
	}
	return DeleteRelation{Relation: p.Relation, AllowUntaggedMembers: p.AllowUntagged}, nil
}

func buildDeleteMultiple(p Params, _ Env) (Action, error) {
	if err := require("ids", p.IDs...); err != nil {
		return nil, err
	}
	return DeleteMultiple{IDs: slices.Clone(p.IDs)}, nil
}

func buildDisconnect(p Params, env Env) (Action, error) {
	if err := require("point", p.Point); err != nil {
		return nil, err
	}
	if err := require("lines", p.Lines...); err != nil {
		return nil, err
	}
	if p.NewID != "" {
		if err := errs.ValidateID(string(p.NewID)); err != nil {
			return nil, err
		}
	}
	return NewDisconnect(p.Point, DisconnectOptions{Lines: p.Lines, NewID: p.NewID, Minter: env.Minter}), nil
}

func buildCircularize(p Params, env Env) (Action, error) {
	if err := require("line", p.Line); err != nil {
		return nil, err
	}
	if p.MaxAngle != 0 && (p.MaxAngle < MinMaxAngle || p.MaxAngle > 180) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "max angle %v out of range [%d, 180]", p.MaxAngle, MinMaxAngle)
	}
	c := NewCircularize(p.Line, env.Projection, CircularizeOptions{MaxAngle: p.MaxAngle, Minter: env.Minter})
	if p.T != nil {
		return Partial{Action: c, T: *p.T}, nil
	}
	return c, nil
}
