package observability

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// IntentStats summarizes routing latency for one intent over the
// rolling window.
type IntentStats struct {
	Intent      string  `json:"intent"`
	Samples     int     `json:"samples"`
	LastMS      float64 `json:"last_ms"`
	AvgMS       float64 `json:"avg_ms"`
	P50MS       float64 `json:"p50_ms"`
	P95MS       float64 `json:"p95_ms"`
	P99MS       float64 `json:"p99_ms"`
	TargetP95MS float64 `json:"target_p95_ms,omitempty"`
}

// RouteIndicator is a named counter surfaced alongside latency stats,
// e.g. sampler failures or workflow rejections.
type RouteIndicator struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RouteSnapshot is one point-in-time view of the rolling window,
// served by the diagnostics endpoint.
type RouteSnapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	WindowSize  int              `json:"window_size"`
	Intents     []IntentStats    `json:"intents"`
	Indicators  []RouteIndicator `json:"indicators,omitempty"`
}

// RouteWindow keeps a fixed-size ring of latency samples per intent.
// Unlike the Prometheus histogram it supports exact quantiles over the
// recent window, which is what the diagnostics endpoint wants.
type RouteWindow struct {
	mu         sync.RWMutex
	maxSamples int
	intents    map[string]*latencyRing
	indicators map[string]int
}

type latencyRing struct {
	values []float64
	next   int
	filled bool
	last   float64
}

func NewRouteWindow(maxSamples int) *RouteWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &RouteWindow{
		maxSamples: maxSamples,
		intents:    make(map[string]*latencyRing),
		indicators: make(map[string]int),
	}
}

// Observe records one routed command's latency under its intent.
func (w *RouteWindow) Observe(intent string, ms float64) {
	if intent == "" || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	ring, ok := w.intents[intent]
	if !ok {
		ring = &latencyRing{
			values: make([]float64, w.maxSamples),
		}
		w.intents[intent] = ring
	}
	ring.values[ring.next] = ms
	ring.last = ms
	ring.next++
	if ring.next >= len(ring.values) {
		ring.next = 0
		ring.filled = true
	}
}

// ObserveIndicator bumps a named event counter.
func (w *RouteWindow) ObserveIndicator(name string) {
	if w == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.indicators[name]++
}

// Snapshot renders window stats sorted by intent name.
func (w *RouteWindow) Snapshot() RouteSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	intents := make([]IntentStats, 0, len(w.intents))
	keys := make([]string, 0, len(w.intents))
	for intent := range w.intents {
		keys = append(keys, intent)
	}
	sort.Strings(keys)

	for _, intent := range keys {
		ring := w.intents[intent]
		if ring == nil {
			continue
		}
		n := ring.next
		if ring.filled {
			n = len(ring.values)
		}
		if n <= 0 {
			continue
		}
		samples := make([]float64, n)
		copy(samples, ring.values[:n])
		sort.Float64s(samples)

		sum := 0.0
		for _, v := range samples {
			sum += v
		}

		intents = append(intents, IntentStats{
			Intent:      intent,
			Samples:     n,
			LastMS:      round2(ring.last),
			AvgMS:       round2(sum / float64(n)),
			P50MS:       round2(quantile(samples, 0.50)),
			P95MS:       round2(quantile(samples, 0.95)),
			P99MS:       round2(quantile(samples, 0.99)),
			TargetP95MS: intentTargetP95MS(intent),
		})
	}

	indicators := make([]RouteIndicator, 0, len(w.indicators))
	indicatorKeys := make([]string, 0, len(w.indicators))
	for name := range w.indicators {
		indicatorKeys = append(indicatorKeys, name)
	}
	sort.Strings(indicatorKeys)
	for _, name := range indicatorKeys {
		count := w.indicators[name]
		if count <= 0 {
			continue
		}
		indicators = append(indicators, RouteIndicator{
			Name:  name,
			Count: count,
		})
	}

	return RouteSnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  w.maxSamples,
		Intents:     intents,
		Indicators:  indicators,
	}
}

// Reset clears all samples and indicators.
func (w *RouteWindow) Reset() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.intents = make(map[string]*latencyRing)
	w.indicators = make(map[string]int)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Intents that shell out to the window manager or spawn processes get
// looser targets than pure in-memory routing.
func intentTargetP95MS(intent string) float64 {
	switch intent {
	case "app_summary", "tab_list", "tab_switch", "tab_close", "tab_query":
		return 2500
	case "open_app", "open_site", "search", "close_app":
		return 1000
	case "workflow_start", "workflow_turn":
		return 1000
	case "time", "date", "forget", "help":
		return 50
	default:
		return 0
	}
}
