// Package stats tracks per-session usage for Footman.
package stats

import (
	"sync"
	"time"
)

// Collector accumulates turn metrics over one chat session.
type Collector struct {
	mu            sync.Mutex
	startTime     time.Time
	turnCount     int64
	tokenCount    int64
	errorCount    int64
	totalDuration time.Duration
}

// NewCollector creates a new session collector.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Summary represents session usage at a point in time.
type Summary struct {
	Uptime       string  `json:"uptime"`
	TurnCount    int64   `json:"turn_count"`
	TokenCount   int64   `json:"token_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// RecordTurn records a completed conversation turn. tokens may be zero
// when the transport did not report usage.
func (c *Collector) RecordTurn(tokens int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turnCount++
	c.tokenCount += int64(tokens)
	c.totalDuration += duration
}

// RecordError records a failed turn.
func (c *Collector) RecordError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

// Collect returns the current session summary.
func (c *Collector) Collect() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	avgLatency := float64(0)
	if c.turnCount > 0 {
		avgLatency = float64(c.totalDuration.Milliseconds()) / float64(c.turnCount)
	}
	return &Summary{
		Uptime:       time.Since(c.startTime).Round(time.Second).String(),
		TurnCount:    c.turnCount,
		TokenCount:   c.tokenCount,
		ErrorCount:   c.errorCount,
		AvgLatencyMs: avgLatency,
	}
}

// StartTime returns when the session started.
func (c *Collector) StartTime() time.Time {
	return c.startTime
}
