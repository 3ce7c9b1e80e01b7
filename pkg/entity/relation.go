package entity

import (
	"slices"

	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

// Member is one entry of a relation.
type Member struct {
	ID   ID
	Role string
	Kind Kind
}

// Relation is an ordered collection of references to other entities.
type Relation struct {
	ID      ID
	Members []Member
	Tags    Tags
}

// NewRelation returns a relation with private copies of members and tags.
func NewRelation(id ID, members []Member, tags Tags) *Relation {
	return &Relation{ID: id, Members: slices.Clone(members), Tags: tags.Clone()}
}

func (r *Relation) EntityID() ID     { return r.ID }
func (r *Relation) Kind() Kind       { return KindRelation }
func (r *Relation) EntityTags() Tags { return r.Tags }

// WithTags implements Entity.
func (r *Relation) WithTags(tags Tags) Entity {
	return &Relation{ID: r.ID, Members: r.Members, Tags: tags.Clone()}
}

// WithMembers returns a copy of r holding members.
func (r *Relation) WithMembers(members []Member) *Relation {
	return &Relation{ID: r.ID, Members: slices.Clone(members), Tags: r.Tags}
}

// IsDegenerate reports whether the relation has no members.
func (r *Relation) IsDegenerate() bool {
	return len(r.Members) == 0
}

// IsMultipolygon reports whether the relation is tagged type=multipolygon.
func (r *Relation) IsMultipolygon() bool {
	return r.Tags["type"] == "multipolygon"
}

// MemberIDs returns the distinct member ids in first-seen order.
func (r *Relation) MemberIDs() []ID {
	ids := make([]ID, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.ID
	}
	return uniqIDs(ids)
}

// HasMember reports whether any member references id.
func (r *Relation) HasMember(id ID) bool {
	return slices.ContainsFunc(r.Members, func(m Member) bool { return m.ID == id })
}

// RemoveMember drops the member at index.
func (r *Relation) RemoveMember(index int) (*Relation, error) {
	if index < 0 || index >= len(r.Members) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "relation %s: member index %d out of range", r.ID, index)
	}
	members := slices.Clone(r.Members)
	return &Relation{ID: r.ID, Members: slices.Delete(members, index, index+1), Tags: r.Tags}, nil
}

// RemoveMembersWithID drops every member referencing id.
func (r *Relation) RemoveMembersWithID(id ID) *Relation {
	members := make([]Member, 0, len(r.Members))
	for _, m := range r.Members {
		if m.ID != id {
			members = append(members, m)
		}
	}
	return &Relation{ID: r.ID, Members: members, Tags: r.Tags}
}

// UpdateMember overwrites the member at index. Zero fields of m keep the
// current member's value, so a caller can change only a role.
func (r *Relation) UpdateMember(m Member, index int) (*Relation, error) {
	if index < 0 || index >= len(r.Members) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "relation %s: member index %d out of range", r.ID, index)
	}
	members := slices.Clone(r.Members)
	cur := members[index]
	if m.ID != "" {
		cur.ID = m.ID
	}
	if m.Role != "" {
		cur.Role = m.Role
	}
	if m.Kind != "" {
		cur.Kind = m.Kind
	}
	members[index] = cur
	return &Relation{ID: r.ID, Members: members, Tags: r.Tags}, nil
}
