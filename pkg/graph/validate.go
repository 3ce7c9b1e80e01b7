package graph

import (
	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

// Validate checks referential integrity and structure.
//
// It returns the first problem found, visiting entities in id order:
//   - NOT_FOUND when a line references a missing point or a relation
//     references a missing member
//   - DEGENERATE when a line has fewer than two distinct points or a
//     relation has no members
//   - INVALID_FORMAT when a member's declared kind disagrees with the entity
//     it resolves to
//
// Snapshots returned by actions always validate if their input did.
func (g *Graph) Validate() error {
	for _, e := range g.Entities() {
		switch e := e.(type) {
		case *entity.Line:
			for _, id := range e.Points {
				if _, err := g.Point(id); err != nil {
					return errs.Wrap(errs.ErrCodeNotFound, err, "line %s references missing point %s", e.ID, id)
				}
			}
			if e.IsDegenerate() {
				return errs.New(errs.ErrCodeDegenerate, "line %s has fewer than two distinct points", e.ID)
			}
		case *entity.Relation:
			for _, m := range e.Members {
				member, err := g.Entity(m.ID)
				if err != nil {
					return errs.Wrap(errs.ErrCodeNotFound, err, "relation %s references missing member %s", e.ID, m.ID)
				}
				if m.Kind != "" && member.Kind() != m.Kind {
					return errs.New(errs.ErrCodeInvalidFormat, "relation %s member %s is a %s, not a %s", e.ID, m.ID, member.Kind(), m.Kind)
				}
			}
			if e.IsDegenerate() {
				return errs.New(errs.ErrCodeDegenerate, "relation %s has no members", e.ID)
			}
		}
	}
	return nil
}
