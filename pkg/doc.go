// Package pkg provides the core libraries for mapgraph map editing.
//
// # Overview
//
// mapgraph models map data as an immutable graph of points, lines and
// relations, and edits it with pure actions: every action takes a snapshot
// and returns a new one, leaving the input untouched. The pkg directory is
// organized into three main areas:
//
//  1. Model - entities, the snapshot graph and planar geometry
//  2. Editing - the action library, tag presets and the undo history
//  3. Persistence and output - file formats, snapshot stores and DOT views
//
// # Architecture
//
// The typical data flow through mapgraph:
//
//	JSON/YAML file or stored session
//	         ↓
//	    [io] / [store] package (decode snapshot)
//	         ↓
//	    [action] package (pure edits, cascades, availability checks)
//	         ↓
//	    [history] package (undo/redo stack)
//	         ↓
//	    [io] / [store] / [render/dot] (encode, persist, visualize)
//
// # Quick Start
//
// Delete a point and undo it:
//
//	g, _ := io.Import("city.json")
//	h := history.New(g, history.Options{})
//	a, _ := action.Build("delete_node", action.Params{Point: "n1"}, action.Env{})
//	res, _ := h.Perform(ctx, "delete_node", a)
//	fmt.Println(res.Changes.Deleted)
//	h.Undo(ctx)
//
// # Main Packages
//
// ## Model
//
// [entity] - Points, lines and relations, tag maps and id minting.
// Entities are values; every change produces a new entity.
//
// [graph] - The snapshot: entities keyed by id plus derived parent indexes,
// stored as a shared base layer with a small per-snapshot delta.
//
// [geo] - Locations, planar vectors, projections and polygon helpers used
// by geometric actions.
//
// ## Editing
//
// [action] - The edit library (add, delete, disconnect, circularize, tag
// and member changes) and a registry that builds actions by name.
//
// [preset] - A tag preset catalog read from TOML, used by change_preset.
//
// [history] - An undoable stack of snapshots, safe for concurrent use.
//
// ## Persistence and Output
//
// [io] - JSON and YAML encodings of a snapshot.
//
// [store] - Key-value snapshot stores (file, SQLite, Redis, MongoDB) and
// session persistence of whole histories.
//
// [render/dot] - Graphviz views for debugging.
//
// ## Support
//
// [errors] - Coded errors shared by library, CLI and HTTP API.
//
// [observability] - Hook interfaces for metrics and logging.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/action/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Store tests against Redis and MongoDB run when MAPGRAPH_TEST_REDIS and
// MAPGRAPH_TEST_MONGO point at live servers.
//
// [entity]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/entity
// [graph]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/graph
// [geo]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/geo
// [action]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/action
// [preset]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/preset
// [history]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/history
// [io]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/io
// [store]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/store
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/render/dot
// [errors]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mapgraph/pkg/buildinfo
package pkg
