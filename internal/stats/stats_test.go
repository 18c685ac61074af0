package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecordsTurns(t *testing.T) {
	c := NewCollector()
	c.RecordTurn(120, 200*time.Millisecond)
	c.RecordTurn(80, 400*time.Millisecond)
	c.RecordError()

	s := c.Collect()
	assert.Equal(t, int64(2), s.TurnCount)
	assert.Equal(t, int64(200), s.TokenCount)
	assert.Equal(t, int64(1), s.ErrorCount)
	assert.InDelta(t, 300.0, s.AvgLatencyMs, 0.1)
}

func TestCollectorEmptySession(t *testing.T) {
	s := NewCollector().Collect()
	assert.Zero(t, s.TurnCount)
	assert.Zero(t, s.AvgLatencyMs)
}
