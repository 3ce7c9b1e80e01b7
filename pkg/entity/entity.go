package entity

import (
	"maps"
	"slices"
	"strings"
)

// ID identifies an entity within a graph.
type ID string

// Kind names the three entity types.
type Kind string

const (
	KindPoint    Kind = "point"
	KindLine     Kind = "line"
	KindRelation Kind = "relation"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPoint, KindLine, KindRelation:
		return true
	}
	return false
}

// Prefix returns the single-letter identifier prefix used when minting ids
// of this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindPoint:
		return "n"
	case KindLine:
		return "w"
	case KindRelation:
		return "r"
	}
	return "e"
}

// Entity is implemented by *Point, *Line and *Relation.
type Entity interface {
	EntityID() ID
	Kind() Kind
	EntityTags() Tags
	// WithTags returns a copy of the entity carrying tags instead of its own.
	WithTags(tags Tags) Entity
}

// Tags is an entity's key/value mapping.
type Tags map[string]string

// Clone returns a copy of t. The copy of a nil map is an empty map.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	maps.Copy(out, t)
	return out
}

// Equal reports whether t and o hold the same pairs. Nil and empty are equal.
func (t Tags) Equal(o Tags) bool {
	return maps.Equal(t, o)
}

// Keys returns the tag keys in sorted order.
func (t Tags) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// HasInteresting reports whether any tag carries meaning beyond
// bookkeeping (attribution, source or import metadata).
func (t Tags) HasInteresting() bool {
	for k := range t {
		if IsInterestingKey(k) {
			return true
		}
	}
	return false
}

// IsInterestingKey reports whether a tag key carries meaning of its own.
func IsInterestingKey(key string) bool {
	switch key {
	case "attribution", "created_by", "source", "odbl":
		return false
	}
	for _, prefix := range []string{"source:", "source_ref", "tiger:"} {
		if strings.HasPrefix(key, prefix) {
			return false
		}
	}
	return true
}

// Resolver looks up entities by id. *graph.Graph implements it.
type Resolver interface {
	Entity(id ID) (Entity, error)
}

func cloneIDs(ids []ID) []ID {
	if ids == nil {
		return nil
	}
	return slices.Clone(ids)
}

// dedupeConsecutive drops ids equal to their predecessor.
func dedupeConsecutive(ids []ID) []ID {
	out := ids[:0:0]
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		out = append(out, id)
	}
	return out
}

// uniqIDs returns the distinct ids in first-seen order.
func uniqIDs(ids []ID) []ID {
	seen := make(map[ID]bool, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
