package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var durationBucketsMs = []float64{100, 250, 500, 1000, 2000, 3000, 5000, 10000, 30000, 60000}

type workflowMetrics struct {
	started   atomic.Uint64
	completed atomic.Uint64
	aborted   atomic.Uint64
	duration  *histogram
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*workflowMetrics{}

	storageWriteFailures atomic.Uint64
)

func forKind(kind string) *workflowMetrics {
	registryMu.RLock()
	m, ok := registry[kind]
	registryMu.RUnlock()
	if ok {
		return m
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if m, ok := registry[kind]; ok {
		return m
	}
	m = &workflowMetrics{duration: newHistogram(durationBucketsMs)}
	registry[kind] = m
	return m
}

// IncWorkflowStarted counts a run entering Pending.
func IncWorkflowStarted(kind string) {
	forKind(kind).started.Add(1)
}

// IncWorkflowCompleted counts a run reaching Completed.
func IncWorkflowCompleted(kind string) {
	forKind(kind).completed.Add(1)
}

// IncWorkflowAborted counts a run returned to Idle without a result.
func IncWorkflowAborted(kind string) {
	forKind(kind).aborted.Add(1)
}

// ObserveWorkflowDurationMs records a run duration in milliseconds.
func ObserveWorkflowDurationMs(kind string, value float64) {
	if value < 0 {
		value = 0
	}
	forKind(kind).duration.Observe(value)
}

// IncStorageWriteFailed counts a failed write to the persistence medium.
func IncStorageWriteFailed() {
	storageWriteFailures.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	registryMu.RLock()
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	registryMu.RUnlock()
	sort.Strings(kinds)

	var buf bytes.Buffer
	writeCounterFamily(&buf, "workflow_started_total", "Total workflow runs started", kinds, func(m *workflowMetrics) uint64 { return m.started.Load() })
	writeCounterFamily(&buf, "workflow_completed_total", "Total workflow runs completed", kinds, func(m *workflowMetrics) uint64 { return m.completed.Load() })
	writeCounterFamily(&buf, "workflow_aborted_total", "Total workflow runs aborted", kinds, func(m *workflowMetrics) uint64 { return m.aborted.Load() })

	fmt.Fprintf(&buf, "# HELP workflow_duration_ms Workflow run duration in milliseconds\n")
	fmt.Fprintf(&buf, "# TYPE workflow_duration_ms histogram\n")
	for _, k := range kinds {
		writeHistogram(&buf, "workflow_duration_ms", k, forKind(k).duration.Snapshot())
	}

	fmt.Fprintf(&buf, "# HELP storage_write_failures_total Failed writes to the persistence medium\n")
	fmt.Fprintf(&buf, "# TYPE storage_write_failures_total counter\n")
	fmt.Fprintf(&buf, "storage_write_failures_total %d\n", storageWriteFailures.Load())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds value to the first bucket that holds it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounterFamily(buf *bytes.Buffer, name, help string, kinds []string, value func(*workflowMetrics) uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, k := range kinds {
		fmt.Fprintf(buf, "%s{kind=%q} %d\n", name, k, value(forKind(k)))
	}
}

func writeHistogram(buf *bytes.Buffer, name, kind string, snap histogramSnapshot) {
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{kind=%q,le=\"%s\"} %d\n", name, kind, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{kind=%q,le=\"+Inf\"} %d\n", name, kind, snap.count)
	fmt.Fprintf(buf, "%s_sum{kind=%q} %s\n", name, kind, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count{kind=%q} %d\n", name, kind, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
