// Package history keeps an ordered stack of graph snapshots with undo and
// redo.
//
// Every performed action pushes the graph it produced; undo and redo move a
// cursor over the stack without recomputing anything. Performing an action
// after an undo discards the snapshots above the cursor. Since snapshots
// share structure, keeping many of them is cheap.
//
//	h := history.New(g, history.Options{})
//	if _, err := h.Perform(ctx, "delete_node", action.DeleteNode{Point: "n1"}); err != nil {
//	    return err
//	}
//	h.Undo(ctx)
//
// A History is safe for concurrent use.
package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapgraph/pkg/action"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
	"github.com/matzehuels/mapgraph/pkg/observability"
)

// BaseName annotates the snapshot a history starts from.
const BaseName = "base"

// Snapshot is one entry of the stack.
type Snapshot struct {
	Graph *graph.Graph
	Name  string
	Time  time.Time
}

// Options configures a History.
type Options struct {
	// Limit caps the number of snapshots kept, oldest first. Zero keeps all.
	Limit int
	// Strict refuses actions whose Disabled check reports a reason.
	Strict bool
	Logger *log.Logger
}

// Result describes the snapshot reached by Perform, Undo or Redo. Index and
// Changes are taken under the same lock as the move, so concurrent callers
// never see each other's edits.
type Result struct {
	Graph *graph.Graph
	// Name is the action performed, undone or redone.
	Name  string
	Index int
	// Changes is the difference from the snapshot left to the one reached.
	Changes graph.Changes
}

// History is an undoable sequence of snapshots.
type History struct {
	mu        sync.RWMutex
	snapshots []Snapshot
	index     int
	opts      Options
	logger    *log.Logger
}

// New starts a history at g. A nil g starts from an empty graph.
func New(g *graph.Graph, opts Options) *History {
	if g == nil {
		g = graph.Empty()
	}
	return Restore([]Snapshot{{Graph: g, Name: BaseName, Time: time.Now()}}, 0, opts)
}

// Restore rebuilds a history from saved snapshots and a cursor. The cursor
// is clamped to the stack.
func Restore(snapshots []Snapshot, index int, opts Options) *History {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if len(snapshots) == 0 {
		snapshots = []Snapshot{{Graph: graph.Empty(), Name: BaseName, Time: time.Now()}}
	}
	return &History{
		snapshots: slices.Clone(snapshots),
		index:     min(max(index, 0), len(snapshots)-1),
		opts:      opts,
		logger:    logger,
	}
}

// Graph returns the snapshot at the cursor.
func (h *History) Graph() *graph.Graph {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshots[h.index].Graph
}

// Current returns the annotated snapshot at the cursor.
func (h *History) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshots[h.index]
}

// Perform applies a to the current snapshot and pushes the result. On error
// the history is unchanged.
func (h *History) Perform(ctx context.Context, name string, a action.Action) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeTimeout, err, "perform %s", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cur := h.snapshots[h.index].Graph
	if h.opts.Strict {
		if d, ok := a.(action.Disabler); ok {
			if reason := d.Disabled(cur); reason != action.Enabled {
				return Result{}, errs.New(errs.ErrCodeInvalidAction, "%s is disabled: %s", name, reason)
			}
		}
	}

	hooks := observability.Actions()
	hooks.OnActionStart(ctx, name, cur.Len())
	start := time.Now()
	next, err := a.Apply(cur)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnActionComplete(ctx, name, cur.Len(), elapsed, err)
		h.logger.Debug("action failed", "action", name, "err", err)
		return Result{}, err
	}
	hooks.OnActionComplete(ctx, name, next.Len(), elapsed, nil)

	h.snapshots = append(h.snapshots[:h.index+1], Snapshot{Graph: next, Name: name, Time: time.Now()})
	if h.opts.Limit > 0 && len(h.snapshots) > h.opts.Limit {
		drop := len(h.snapshots) - h.opts.Limit
		h.snapshots = slices.Clone(h.snapshots[drop:])
	}
	h.index = len(h.snapshots) - 1

	h.logger.Debug("performed action",
		"action", name,
		"entities", next.Len(),
		"duration", elapsed)
	return Result{Graph: next, Name: name, Index: h.index, Changes: graph.Diff(cur, next)}, nil
}

// Undo moves the cursor back one snapshot. The result names the action
// undone.
func (h *History) Undo(ctx context.Context) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return Result{}, errs.New(errs.ErrCodeInvalidAction, "nothing to undo")
	}
	left := h.snapshots[h.index]
	h.index--
	observability.Actions().OnUndo(ctx, h.index)
	h.logger.Debug("undo", "action", left.Name, "index", h.index)
	return h.result(left.Graph, left.Name), nil
}

// Redo moves the cursor forward one snapshot.
func (h *History) Redo(ctx context.Context) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == len(h.snapshots)-1 {
		return Result{}, errs.New(errs.ErrCodeInvalidAction, "nothing to redo")
	}
	left := h.snapshots[h.index].Graph
	h.index++
	name := h.snapshots[h.index].Name
	observability.Actions().OnRedo(ctx, h.index)
	h.logger.Debug("redo", "action", name, "index", h.index)
	return h.result(left, name), nil
}

// result reports the move from left to the cursor. Callers hold h.mu.
func (h *History) result(left *graph.Graph, name string) Result {
	cur := h.snapshots[h.index].Graph
	return Result{Graph: cur, Name: name, Index: h.index, Changes: graph.Diff(left, cur)}
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index > 0
}

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index < len(h.snapshots)-1
}

// Len returns the number of snapshots, including those above the cursor.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.snapshots)
}

// Index returns the cursor position.
func (h *History) Index() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index
}

// Snapshots returns a copy of the stack and the cursor.
func (h *History) Snapshots() ([]Snapshot, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.snapshots), h.index
}

// Changes reports what the snapshot at the cursor changed relative to the
// one below it. The base snapshot reports no changes.
func (h *History) Changes() graph.Changes {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.index == 0 {
		return graph.Changes{}
	}
	return graph.Diff(h.snapshots[h.index-1].Graph, h.snapshots[h.index].Graph)
}
