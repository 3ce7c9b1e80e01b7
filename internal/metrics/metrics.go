// Package metrics exports Prometheus metrics for the observability hooks.
//
// A Collector implements every hook interface of pkg/observability and owns
// its own registry, so creating several collectors (as tests do) never
// collides with the global Prometheus registry:
//
//	c := metrics.NewCollector("mapgraph")
//	c.Register()
//	r.Handle("/metrics", c.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mapgraph/pkg/observability"
)

// Collector holds the Prometheus metrics of one process.
type Collector struct {
	registry *prometheus.Registry

	actions        *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	entities       prometheus.Gauge
	cursorMoves    *prometheus.CounterVec

	storeOps   *prometheus.CounterVec
	storeBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metrics carry the namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions performed, by action and outcome.",
		}, []string{"action", "status"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent applying actions.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"action"}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_entities",
			Help:      "Entities in the most recently produced snapshot.",
		}),
		cursorMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_moves_total",
			Help:      "Undo and redo operations.",
		}, []string{"direction"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Store lookups and writes, by backend and result.",
		}, []string{"backend", "result"}),
		storeBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_written_bytes_total",
			Help:      "Bytes written to the store.",
		}, []string{"backend"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	c.registry.MustRegister(
		c.actions, c.actionDuration, c.entities, c.cursorMoves,
		c.storeOps, c.storeBytes,
		c.httpRequests, c.httpDuration,
		collectors.NewGoCollector(),
	)
	return c
}

// Register installs c as the process-wide action, store and HTTP hooks.
func (c *Collector) Register() {
	observability.SetActionHooks(c)
	observability.SetStoreHooks(c)
	observability.SetHTTPHooks(c)
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) OnActionStart(context.Context, string, int) {}

func (c *Collector) OnActionComplete(_ context.Context, name string, entities int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		c.entities.Set(float64(entities))
	}
	c.actions.WithLabelValues(name, status).Inc()
	c.actionDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (c *Collector) OnUndo(context.Context, int) { c.cursorMoves.WithLabelValues("undo").Inc() }
func (c *Collector) OnRedo(context.Context, int) { c.cursorMoves.WithLabelValues("redo").Inc() }

func (c *Collector) OnStoreHit(_ context.Context, backend string) {
	c.storeOps.WithLabelValues(backend, "hit").Inc()
}

func (c *Collector) OnStoreMiss(_ context.Context, backend string) {
	c.storeOps.WithLabelValues(backend, "miss").Inc()
}

func (c *Collector) OnStoreSet(_ context.Context, backend string, size int) {
	c.storeOps.WithLabelValues(backend, "set").Inc()
	c.storeBytes.WithLabelValues(backend).Add(float64(size))
}

func (c *Collector) OnRequest(context.Context, string, string) {}

func (c *Collector) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.ActionHooks = (*Collector)(nil)
	_ observability.StoreHooks  = (*Collector)(nil)
	_ observability.HTTPHooks   = (*Collector)(nil)
)
