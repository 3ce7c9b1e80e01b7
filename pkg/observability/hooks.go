// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through the registered hooks; the
// defaults do nothing. Register custom implementations once at startup:
//
//	func main() {
//	    observability.SetActionHooks(&myActionHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Actions().OnActionStart(ctx, name, g.Len())
//	// ... apply ...
//	observability.Actions().OnActionComplete(ctx, name, g.Len(), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ActionHooks receives events from the edit history.
type ActionHooks interface {
	OnActionStart(ctx context.Context, name string, entities int)
	OnActionComplete(ctx context.Context, name string, entities int, duration time.Duration, err error)

	// OnUndo and OnRedo report the history cursor after the move.
	OnUndo(ctx context.Context, index int)
	OnRedo(ctx context.Context, index int)
}

// StoreHooks receives events from snapshot stores.
type StoreHooks interface {
	OnStoreHit(ctx context.Context, backend string)
	OnStoreMiss(ctx context.Context, backend string)
	OnStoreSet(ctx context.Context, backend string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopActionHooks is a no-op implementation of ActionHooks.
type NoopActionHooks struct{}

func (NoopActionHooks) OnActionStart(context.Context, string, int) {}
func (NoopActionHooks) OnActionComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopActionHooks) OnUndo(context.Context, int) {}
func (NoopActionHooks) OnRedo(context.Context, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)      {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)     {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	actionHooks ActionHooks = NoopActionHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetActionHooks registers custom action hooks. Nil is ignored.
func SetActionHooks(h ActionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		actionHooks = h
	}
}

// SetStoreHooks registers custom store hooks. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Actions returns the registered action hooks.
func Actions() ActionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return actionHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	actionHooks = NoopActionHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
