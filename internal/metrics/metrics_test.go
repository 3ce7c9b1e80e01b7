package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/mapgraph/pkg/observability"
)

func TestCollector_Actions(t *testing.T) {
	c := NewCollector("test")
	ctx := context.Background()

	c.OnActionComplete(ctx, "delete_node", 41, time.Millisecond, nil)
	c.OnActionComplete(ctx, "delete_node", 42, time.Millisecond, errors.New("boom"))
	c.OnUndo(ctx, 0)

	if got := testutil.ToFloat64(c.actions.WithLabelValues("delete_node", "ok")); got != 1 {
		t.Errorf("ok actions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.actions.WithLabelValues("delete_node", "error")); got != 1 {
		t.Errorf("failed actions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.entities); got != 41 {
		t.Errorf("graph_entities = %v, want 41 from the last successful action", got)
	}
	if got := testutil.ToFloat64(c.cursorMoves.WithLabelValues("undo")); got != 1 {
		t.Errorf("undo moves = %v, want 1", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.OnStoreSet(context.Background(), "file", 128)
	c.OnResponse(context.Background(), "GET", "/graph", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`test_store_written_bytes_total{backend="file"} 128`,
		`test_http_requests_total{method="GET",route="/graph",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollector_Register(t *testing.T) {
	defer observability.Reset()
	c := NewCollector("test")
	c.Register()
	if observability.Actions() != c || observability.Store() != c || observability.HTTP() != c {
		t.Error("Register() should install the collector for every hook kind")
	}
}
