package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func endEvent(d time.Duration, err error) *BatchEnd {
	begin := time.Unix(0, 0)
	return &BatchEnd{BeginTime: begin, EndTime: begin.Add(d), Err: err}
}

func TestLatencyRecorderAggregates(t *testing.T) {
	r := NewLatencyRecorder()
	r.HandleBatch(endEvent(10*time.Millisecond, nil))
	r.HandleBatch(endEvent(20*time.Millisecond, nil))
	r.HandleBatch(endEvent(30*time.Millisecond, errors.New("reset")))

	assert.Equal(t, 3, r.Count())
	assert.Equal(t, 1, r.Failures())
	assert.InDelta(t, 20, r.Mean(), 0.01)
	assert.InDelta(t, 30, r.Percentile(100), 0.01)
	assert.GreaterOrEqual(t, r.Percentile(99), r.Percentile(50))
}

func TestLatencyRecorderIgnoresOtherEvents(t *testing.T) {
	r := NewLatencyRecorder()
	r.HandleBatch(&BatchBegin{BeginTime: time.Now(), NumOps: 2})
	r.HandleBatch(&ConnBegin{})
	r.HandleBatch(&ConnEnd{})
	assert.Equal(t, 0, r.Count())
}

func TestLatencyRecorderEmpty(t *testing.T) {
	r := NewLatencyRecorder()
	assert.Zero(t, r.Mean())
	assert.Zero(t, r.Percentile(50))
}
