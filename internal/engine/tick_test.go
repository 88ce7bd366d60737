package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineDefaults(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 1.0, e.Speed)
	assert.Equal(t, time.Second, e.Interval)
	assert.Zero(t, e.Day)
	assert.False(t, e.Running)
}

func TestEngineRunsDaysAndStops(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond

	var days []uint64
	done := make(chan struct{})
	e.OnDay = func(day uint64) {
		days = append(days, day)
		if day >= 3 {
			e.Stop()
		}
	}

	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}

	require.GreaterOrEqual(t, len(days), 3)
	for i, d := range days {
		assert.Equal(t, uint64(i+1), d, "days advance monotonically from 1")
	}
	assert.False(t, e.Running)
}
