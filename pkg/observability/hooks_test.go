package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	a := NoopActionHooks{}
	a.OnActionStart(ctx, "delete_node", 10)
	a.OnActionComplete(ctx, "delete_node", 9, time.Millisecond, nil)
	a.OnUndo(ctx, 0)
	a.OnRedo(ctx, 1)

	s := NoopStoreHooks{}
	s.OnStoreHit(ctx, "file")
	s.OnStoreMiss(ctx, "redis")
	s.OnStoreSet(ctx, "mongo", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/actions")
	h.OnResponse(ctx, "POST", "/actions", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Actions().(NoopActionHooks); !ok {
		t.Error("Actions() should return NoopActionHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customActions := &testActionHooks{}
	SetActionHooks(customActions)
	if Actions() != customActions {
		t.Error("SetActionHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Actions().(NoopActionHooks); !ok {
		t.Error("Reset() should restore NoopActionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testActionHooks{}
	SetActionHooks(custom)
	SetActionHooks(nil)
	if Actions() != custom {
		t.Error("SetActionHooks(nil) should be ignored")
	}
}

type testActionHooks struct{ NoopActionHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
