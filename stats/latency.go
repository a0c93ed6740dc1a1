package stats

import (
	"sync"

	"github.com/montanaflynn/stats"
)

// LatencyRecorder is a Handler aggregating batch completion latencies. It
// answers mean and percentile queries over everything recorded so far.
type LatencyRecorder struct {
	mu       sync.Mutex
	samples  []float64 // milliseconds
	failures int
}

// NewLatencyRecorder returns an empty recorder.
func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{}
}

// HandleBatch records BatchEnd events; other events are ignored.
func (r *LatencyRecorder) HandleBatch(s BatchStats) {
	end, ok := s.(*BatchEnd)
	if !ok {
		return
	}
	ms := float64(end.EndTime.Sub(end.BeginTime).Microseconds()) / 1000
	r.mu.Lock()
	r.samples = append(r.samples, ms)
	if end.Err != nil {
		r.failures++
	}
	r.mu.Unlock()
}

// Count returns the number of batches recorded.
func (r *LatencyRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Failures returns the number of batches that resolved with an error.
func (r *LatencyRecorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// Mean returns the mean batch latency in milliseconds, or 0 with no
// samples.
func (r *LatencyRecorder) Mean() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return 0
	}
	m, err := stats.Mean(r.samples)
	if err != nil {
		return 0
	}
	return m
}

// Percentile returns the p-th percentile batch latency in milliseconds, or
// 0 with no samples.
func (r *LatencyRecorder) Percentile(p float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return 0
	}
	v, err := stats.Percentile(r.samples, p)
	if err != nil {
		return 0
	}
	return v
}
