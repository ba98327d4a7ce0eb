package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	orgAnalysisTotal      atomic.Uint64
	orgAnalysisFallback   atomic.Uint64
	routingTotal          atomic.Uint64
	routingHardFallback   atomic.Uint64
	routingSoftFallback   atomic.Uint64
	styleSamplesTotal     atomic.Uint64
	styleMergesTotal      atomic.Uint64
	styleMirrorsTotal     atomic.Uint64
	styleFailuresTotal    atomic.Uint64
	completionFailedTotal atomic.Uint64

	completionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncOrgAnalysis counts an organization analysis; fallback marks a degraded result.
func IncOrgAnalysis(fallback bool) {
	orgAnalysisTotal.Add(1)
	if fallback {
		orgAnalysisFallback.Add(1)
	}
}

// IncRouting counts a routing recommendation by fallback tier ("", "hard" or "soft").
func IncRouting(tier string) {
	routingTotal.Add(1)
	switch tier {
	case "hard":
		routingHardFallback.Add(1)
	case "soft":
		routingSoftFallback.Add(1)
	}
}

// IncStyleSample counts an analyzed writing sample; merged reports whether it was folded into an existing profile.
func IncStyleSample(merged bool) {
	styleSamplesTotal.Add(1)
	if merged {
		styleMergesTotal.Add(1)
	}
}

// IncStyleMirror counts a mirrored rewrite.
func IncStyleMirror() {
	styleMirrorsTotal.Add(1)
}

// IncStyleFailure counts a style operation that surfaced an error.
func IncStyleFailure() {
	styleFailuresTotal.Add(1)
}

// IncCompletionFailed counts completion calls that returned a non-2xx or unreadable body.
func IncCompletionFailed() {
	completionFailedTotal.Add(1)
}

// ObserveCompletionDurationMs records a completion round-trip in milliseconds.
func ObserveCompletionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	completionDuration.Observe(value)
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
	var buf bytes.Buffer
	writeCounter(&buf, "org_analysis_total", "Organization analyses run", orgAnalysisTotal.Load())
	writeCounter(&buf, "org_analysis_fallback_total", "Organization analyses that returned the fallback model", orgAnalysisFallback.Load())
	writeCounter(&buf, "org_routing_total", "Routing recommendations generated", routingTotal.Load())
	writeCounter(&buf, "org_routing_hard_fallback_total", "Routing recommendations degraded to the hard fallback", routingHardFallback.Load())
	writeCounter(&buf, "org_routing_soft_fallback_total", "Routing recommendations degraded to the heuristic path", routingSoftFallback.Load())
	writeCounter(&buf, "style_samples_total", "Writing samples analyzed", styleSamplesTotal.Load())
	writeCounter(&buf, "style_merges_total", "Writing samples merged into an existing profile", styleMergesTotal.Load())
	writeCounter(&buf, "style_mirrors_total", "Texts rewritten to match a profile", styleMirrorsTotal.Load())
	writeCounter(&buf, "style_failures_total", "Style operations that surfaced an error", styleFailuresTotal.Load())
	writeCounter(&buf, "completion_failed_total", "Completion calls with a non-2xx or unreadable response", completionFailedTotal.Load())
	writeHistogram(&buf, "completion_duration_ms", "Completion round-trip in milliseconds", completionDuration.Snapshot())
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

// Observe records value in the first bucket whose bound covers it; Render accumulates.
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

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
