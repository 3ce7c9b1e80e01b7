// Package preset provides a tag schema catalog loaded from TOML.
//
// A [Preset] describes one kind of feature: the tags that identify it, the
// geometries it may be drawn as, and default values for optional keys.
// Presets implement [action.Schema], so a [Catalog] can be handed to the
// action registry as its schema source:
//
//	cat, err := preset.LoadFile("presets.toml")
//	env := action.Env{Schemas: cat}
//	a, err := action.Build("change_preset", action.Params{
//		Entity: "n1", OldPreset: "amenity/bench", NewPreset: "leisure/picnic_table",
//	}, env)
//
// # File Format
//
//	[[preset]]
//	id = "amenity/bench"
//	name = "Bench"
//	geometry = ["point", "vertex", "line"]
//	tags = { amenity = "bench" }
//	defaults = { backrest = "yes" }
//
// A tag value of "*" matches any value. When such a key is added it is set
// to "yes" unless the entity already carries it.
//
// [Default] returns a small built-in catalog used when no file is configured.
package preset
