package entity

import "fmt"

// Copier deep-copies entities out of a resolver under freshly minted ids.
//
// A point copies itself. A line copies itself and then each point it
// references. A relation copies itself and then each member. The copy table
// is keyed by the original id and is filled before recursing, so shared
// children are copied once and reference cycles between relations terminate.
type Copier struct {
	resolver Resolver
	minter   Minter
	copies   map[ID]Entity
	order    []ID
}

// NewCopier returns a Copier reading from r and naming copies with m.
func NewCopier(r Resolver, m Minter) *Copier {
	return &Copier{resolver: r, minter: m, copies: make(map[ID]Entity)}
}

// Copy copies the entity id and everything it references, returning the
// copy of id itself.
func (c *Copier) Copy(id ID) (Entity, error) {
	if cp, ok := c.copies[id]; ok {
		return cp, nil
	}
	e, err := c.resolver.Entity(id)
	if err != nil {
		return nil, err
	}

	switch e := e.(type) {
	case *Point:
		cp := e.WithID(c.minter.Next(KindPoint))
		c.record(id, cp)
		return cp, nil

	case *Line:
		newID := c.minter.Next(KindLine)
		c.record(id, &Line{ID: newID, Tags: e.Tags.Clone()})
		points := make([]ID, len(e.Points))
		for i, pid := range e.Points {
			child, err := c.Copy(pid)
			if err != nil {
				return nil, err
			}
			points[i] = child.EntityID()
		}
		cp := &Line{ID: newID, Points: points, Tags: e.Tags.Clone()}
		c.copies[id] = cp
		return cp, nil

	case *Relation:
		newID := c.minter.Next(KindRelation)
		c.record(id, &Relation{ID: newID, Tags: e.Tags.Clone()})
		members := make([]Member, len(e.Members))
		for i, m := range e.Members {
			child, err := c.Copy(m.ID)
			if err != nil {
				return nil, err
			}
			members[i] = Member{ID: child.EntityID(), Role: m.Role, Kind: m.Kind}
		}
		cp := &Relation{ID: newID, Members: members, Tags: e.Tags.Clone()}
		c.copies[id] = cp
		return cp, nil
	}
	return nil, fmt.Errorf("copy %s: unsupported entity type %T", id, e)
}

func (c *Copier) record(id ID, e Entity) {
	c.copies[id] = e
	c.order = append(c.order, id)
}

// Copies returns the finished copies in the order they were first reached.
func (c *Copier) Copies() []Entity {
	out := make([]Entity, len(c.order))
	for i, id := range c.order {
		out[i] = c.copies[id]
	}
	return out
}

// Mapping returns the old id to new id table.
func (c *Copier) Mapping() map[ID]ID {
	out := make(map[ID]ID, len(c.copies))
	for old, cp := range c.copies {
		out[old] = cp.EntityID()
	}
	return out
}
