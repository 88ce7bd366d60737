// Day loop driving the simulation on a wall-clock interval.
package engine

import (
	"log/slog"
	"time"
)

// Engine advances the simulation one day per tick.
type Engine struct {
	Day      uint64        // Current day counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = one day per Interval, 0 = paused
	Interval time.Duration // Base day interval
	Running  bool

	// OnDay runs after the day counter advances.
	OnDay func(day uint64)
}

// NewEngine creates an engine with default pacing.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the day loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "day", e.Day, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Day++
		if e.OnDay != nil {
			e.OnDay(e.Day)
		}

		// Sleep for the remainder of the interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "day", e.Day)
}

// Stop halts the day loop after the current day completes.
func (e *Engine) Stop() {
	e.Running = false
}
