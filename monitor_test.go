package vecmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecmem/memory"
)

func TestMonitor_ReportsPressure(t *testing.T) {
	planner := New(WithEnvProbe(containerProbe(1 << 30)))

	m := NewMonitor(planner, 5*time.Millisecond, func() uint64 {
		return 4 << 30 // far above the 1GB limit
	})

	got := make(chan memory.Pressure, 1)
	m.OnPressure(func(p memory.Pressure) {
		select {
		case got <- p:
		default:
		}
	})

	require.NoError(t, m.Start(context.Background()))
	defer m.Close()

	select {
	case p := <-got:
		assert.Equal(t, memory.PressureCritical, p.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("no pressure check within timeout")
	}
}

func TestMonitor_StartTwice(t *testing.T) {
	planner := New(WithEnvProbe(containerProbe(1 << 30)))
	m := NewMonitor(planner, time.Minute, func() uint64 { return 0 })

	require.NoError(t, m.Start(context.Background()))
	defer m.Close()

	assert.ErrorIs(t, m.Start(context.Background()), ErrMonitorStarted)
}

func TestMonitor_InvalidInterval(t *testing.T) {
	planner := New(WithEnvProbe(containerProbe(1 << 30)))
	m := NewMonitor(planner, 0, func() uint64 { return 0 })

	assert.ErrorIs(t, m.Start(context.Background()), ErrInvalidInterval)
}

func TestMonitor_CloseIdempotent(t *testing.T) {
	planner := New(WithEnvProbe(containerProbe(1 << 30)))
	m := NewMonitor(planner, time.Minute, func() uint64 { return 0 })

	require.NoError(t, m.Start(context.Background()))
	m.Close()
	m.Close()

	// A closed monitor can be restarted.
	require.NoError(t, m.Start(context.Background()))
	m.Close()
}

func TestMonitor_ContextCancelStopsLoop(t *testing.T) {
	planner := New(WithEnvProbe(containerProbe(1 << 30)))
	m := NewMonitor(planner, time.Millisecond, func() uint64 { return 0 })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	cancel()

	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor loop did not stop on context cancel")
	}
	m.Close()
}
