// Package telemetry provides lightweight metrics for the claims service
// using only standard library constructs: counters, gauges, duration
// histograms, and a Prometheus text exposition endpoint. The insight
// pipeline records per-kind generation latency and failure counts here.
package telemetry

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// DefaultBuckets are histogram bucket upper bounds in seconds.
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Counter is a monotonically increasing metric.
type Counter struct {
	mu     sync.Mutex
	values map[string]float64 // label string -> value
}

func newCounter() *Counter {
	return &Counter{values: make(map[string]float64)}
}

// Inc increments the counter for the given label set.
func (c *Counter) Inc(labels string) {
	c.Add(labels, 1)
}

// Add adds v to the counter for the given label set.
func (c *Counter) Add(labels string, v float64) {
	c.mu.Lock()
	c.values[labels] += v
	c.mu.Unlock()
}

// Value returns the current value for the given label set.
func (c *Counter) Value(labels string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[labels]
}

// Histogram is a Prometheus-style histogram with cumulative buckets.
type Histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  map[string][]uint64 // label string -> per-bucket counts
	sums    map[string]float64
	totals  map[string]uint64
}

func newHistogram(buckets []float64) *Histogram {
	return &Histogram{
		buckets: buckets,
		counts:  make(map[string][]uint64),
		sums:    make(map[string]float64),
		totals:  make(map[string]uint64),
	}
}

// Observe records a single observation in seconds.
func (h *Histogram) Observe(labels string, v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	counts, ok := h.counts[labels]
	if !ok {
		counts = make([]uint64, len(h.buckets))
		h.counts[labels] = counts
	}
	for i, ub := range h.buckets {
		if v <= ub {
			counts[i]++
		}
	}
	h.sums[labels] += v
	h.totals[labels]++
}

// Count returns the number of observations for the given label set.
func (h *Histogram) Count(labels string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totals[labels]
}

// Registry holds all metrics for the service.
type Registry struct {
	service string

	mu         sync.Mutex
	counters   map[string]*Counter
	histograms map[string]*Histogram
}

// NewRegistry creates a metric registry for the named service.
func NewRegistry(service string) *Registry {
	return &Registry{
		service:    service,
		counters:   make(map[string]*Counter),
		histograms: make(map[string]*Histogram),
	}
}

// Counter returns (creating if needed) the named counter.
func (r *Registry) Counter(name string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[name]
	if !ok {
		c = newCounter()
		r.counters[name] = c
	}
	return c
}

// Histogram returns (creating if needed) the named histogram.
func (r *Registry) Histogram(name string) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histograms[name]
	if !ok {
		h = newHistogram(DefaultBuckets)
		r.histograms[name] = h
	}
	return h
}

// Labels formats key=value pairs into a canonical Prometheus label string.
// Keys are sorted so the same set always yields the same series.
func Labels(kv ...string) string {
	if len(kv) == 0 || len(kv)%2 != 0 {
		return ""
	}
	pairs := make([]string, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%s=%q", kv[i], kv[i+1]))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// RecordInsight records one insight generation: its kind, duration, and
// whether it fell back.
func (r *Registry) RecordInsight(kind string, d time.Duration, failed bool) {
	labels := Labels("kind", kind)
	r.Histogram("insight_generation_seconds").Observe(labels, d.Seconds())
	if failed {
		r.Counter("insight_failures_total").Inc(labels)
	} else {
		r.Counter("insight_success_total").Inc(labels)
	}
}

// Expose writes all metrics in Prometheus text exposition format.
func (r *Registry) Expose() string {
	r.mu.Lock()
	counterNames := make([]string, 0, len(r.counters))
	for name := range r.counters {
		counterNames = append(counterNames, name)
	}
	histNames := make([]string, 0, len(r.histograms))
	for name := range r.histograms {
		histNames = append(histNames, name)
	}
	r.mu.Unlock()
	sort.Strings(counterNames)
	sort.Strings(histNames)

	var b strings.Builder
	for _, name := range counterNames {
		c := r.Counter(name)
		fmt.Fprintf(&b, "# TYPE %s counter\n", name)
		c.mu.Lock()
		labelSets := make([]string, 0, len(c.values))
		for ls := range c.values {
			labelSets = append(labelSets, ls)
		}
		sort.Strings(labelSets)
		for _, ls := range labelSets {
			if ls == "" {
				fmt.Fprintf(&b, "%s %g\n", name, c.values[ls])
			} else {
				fmt.Fprintf(&b, "%s{%s} %g\n", name, ls, c.values[ls])
			}
		}
		c.mu.Unlock()
	}

	for _, name := range histNames {
		h := r.Histogram(name)
		fmt.Fprintf(&b, "# TYPE %s histogram\n", name)
		h.mu.Lock()
		labelSets := make([]string, 0, len(h.counts))
		for ls := range h.counts {
			labelSets = append(labelSets, ls)
		}
		sort.Strings(labelSets)
		for _, ls := range labelSets {
			counts := h.counts[ls]
			for i, ub := range h.buckets {
				le := Labels("le", fmt.Sprintf("%g", ub))
				joined := le
				if ls != "" {
					joined = ls + "," + le
				}
				fmt.Fprintf(&b, "%s_bucket{%s} %d\n", name, joined, counts[i])
			}
			inf := `le="+Inf"`
			if ls != "" {
				inf = ls + "," + inf
			}
			fmt.Fprintf(&b, "%s_bucket{%s} %d\n", name, inf, h.totals[ls])
			if ls == "" {
				fmt.Fprintf(&b, "%s_sum %g\n", name, h.sums[ls])
				fmt.Fprintf(&b, "%s_count %d\n", name, h.totals[ls])
			} else {
				fmt.Fprintf(&b, "%s_sum{%s} %g\n", name, ls, h.sums[ls])
				fmt.Fprintf(&b, "%s_count{%s} %d\n", name, ls, h.totals[ls])
			}
		}
		h.mu.Unlock()
	}

	return b.String()
}

// Handler returns an echo handler serving the Prometheus text endpoint.
func (r *Registry) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, r.Expose())
	}
}

// Middleware records request counts and durations per method and path.
func (r *Registry) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			labels := Labels(
				"method", c.Request().Method,
				"path", c.Path(),
				"status", fmt.Sprintf("%d", c.Response().Status),
			)
			r.Counter("http_requests_total").Inc(labels)
			r.Histogram("http_request_duration_seconds").Observe(labels, time.Since(start).Seconds())
			return err
		}
	}
}
