// Package metrics keeps lightweight in-process counters, gauges and latency
// histograms for the admin endpoints. Samples are bounded so a long-lived
// process never grows without limit.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// maxSamples bounds the values retained per histogram; older samples are
// dropped first.
const maxSamples = 1000

// HistogramSummary describes the retained samples of one histogram.
type HistogramSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// Snapshot is a point-in-time copy of every metric, shaped for JSON.
type Snapshot struct {
	UptimeSeconds float64                     `json:"uptime_seconds"`
	Counters      map[string]int64            `json:"counters,omitempty"`
	Gauges        map[string]float64          `json:"gauges,omitempty"`
	Histograms    map[string]HistogramSummary `json:"histograms,omitempty"`
}

// Collector accumulates metrics from concurrent request handlers.
type Collector struct {
	started time.Time

	mu         sync.Mutex
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
}

func NewCollector() *Collector {
	return &Collector{
		started:    time.Now(),
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

// Inc adds one to the named counter.
func (c *Collector) Inc(name string) {
	c.Add(name, 1)
}

// Add adds delta to the named counter.
func (c *Collector) Add(name string, delta int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.counters[name] += delta
	c.mu.Unlock()
}

// SetGauge records the current value of the named gauge.
func (c *Collector) SetGauge(name string, value float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.gauges[name] = value
	c.mu.Unlock()
}

// Observe appends one sample to the named histogram, evicting the oldest
// sample once the cap is reached.
func (c *Collector) Observe(name string, value float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	samples := append(c.histograms[name], value)
	if len(samples) > maxSamples {
		samples = samples[len(samples)-maxSamples:]
	}
	c.histograms[name] = samples
	c.mu.Unlock()
}

// Time records the elapsed milliseconds since start into the named histogram.
func (c *Collector) Time(name string, start time.Time) {
	c.Observe(name, float64(time.Since(start))/float64(time.Millisecond))
}

// Uptime reports how long the collector has been running.
func (c *Collector) Uptime() time.Duration {
	if c == nil {
		return 0
	}
	return time.Since(c.started)
}

// Snapshot copies every metric under the lock.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.started).Seconds(),
		Counters:      make(map[string]int64, len(c.counters)),
		Gauges:        make(map[string]float64, len(c.gauges)),
		Histograms:    make(map[string]HistogramSummary, len(c.histograms)),
	}
	for name, value := range c.counters {
		snap.Counters[name] = value
	}
	for name, value := range c.gauges {
		snap.Gauges[name] = value
	}
	for name, samples := range c.histograms {
		snap.Histograms[name] = summarize(samples)
	}
	return snap
}

func summarize(samples []float64) HistogramSummary {
	if len(samples) == 0 {
		return HistogramSummary{}
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return HistogramSummary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Avg:   sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
	}
}

// percentile interpolates linearly between the two nearest sorted samples.
func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := float64(p) / 100 * float64(len(sorted)-1)
	lower := int(index)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*frac
}
