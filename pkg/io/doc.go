// Package io provides JSON and YAML import and export for map graphs.
//
// # Format
//
// A snapshot has three optional top-level arrays:
//
//	{
//	  "points": [
//	    {"id": "n1", "loc": [13.40, 52.52]},
//	    {"id": "n2", "loc": [13.41, 52.52], "tags": {"barrier": "gate"}}
//	  ],
//	  "lines": [
//	    {"id": "w1", "points": ["n1", "n2"], "tags": {"highway": "path"}}
//	  ],
//	  "relations": [
//	    {"id": "r1", "members": [{"id": "w1", "role": "outer", "kind": "line"}]}
//	  ]
//	}
//
// Locations are [lon, lat] pairs. A member without a kind takes the kind of
// the entity it references when that entity is in the same document.
//
// The YAML form uses the same keys.
//
// An optional "parents" object keeps the order in which lines came to share
// a point (and relations a member) when that order is not id order:
//
//	"parents": {"lines": {"n1": ["w9", "w1"]}}
//
// Decoding a document rebuilds parent lists in id order and then applies
// these, so actions that depend on parent order behave the same after a
// round trip.
//
// # Import
//
// [ReadJSON] and [ReadYAML] decode from any io.Reader; [Import] reads a file
// and picks the encoding from its extension (.yaml and .yml are YAML, anything
// else is JSON):
//
//	g, err := io.Import("map.json")
//
// Imports reject duplicate ids and malformed locations with INVALID_FORMAT
// errors, and dangling references with NOT_FOUND errors.
//
// # Export
//
// [WriteJSON], [WriteYAML] and [Export] write entities sorted by id, so the
// same graph always encodes to the same bytes. [Marshal] is the compact JSON
// form used by snapshot stores.
package io
