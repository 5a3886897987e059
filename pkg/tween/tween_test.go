package tween

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerCompletes(t *testing.T) {
	r := NewRunner()
	var ks []float64
	var result error = ErrStopped
	r.Start(context.Background(), Spec{
		Duration:   100 * time.Millisecond,
		OnUpdate:   func(k float64) { ks = append(ks, k) },
		OnComplete: func(err error) { result = err },
	})

	r.Update(50 * time.Millisecond)
	assert.Equal(t, 1, r.Len())
	r.Update(60 * time.Millisecond)
	assert.Equal(t, 0, r.Len())

	require.Len(t, ks, 2)
	assert.InDelta(t, 0.5, ks[0], 1e-9)
	assert.Equal(t, 1.0, ks[1])
	assert.NoError(t, result)
}

func TestRunnerCancelledContext(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	var result error
	updates := 0
	r.Start(ctx, Spec{
		Duration:   time.Second,
		OnUpdate:   func(float64) { updates++ },
		OnComplete: func(err error) { result = err },
	})

	r.Update(10 * time.Millisecond)
	cancel()
	r.Update(10 * time.Millisecond)

	assert.Equal(t, 1, updates)
	assert.ErrorIs(t, result, context.Canceled)
	assert.Zero(t, r.Len())
}

func TestHandleStop(t *testing.T) {
	r := NewRunner()
	var result error
	calls := 0
	h := r.Start(context.Background(), Spec{
		Duration:   time.Second,
		OnComplete: func(err error) { result = err; calls++ },
	})
	h.Stop()
	h.Stop()
	r.Update(time.Second)

	assert.True(t, h.Done())
	assert.ErrorIs(t, result, ErrStopped)
	assert.Equal(t, 1, calls)
}

func TestZeroDuration(t *testing.T) {
	r := NewRunner()
	var got float64
	r.Start(context.Background(), Spec{OnUpdate: func(k float64) { got = k }})
	r.Update(0)
	assert.Equal(t, 1.0, got)
	assert.Zero(t, r.Len())
}

func TestExponentialOut(t *testing.T) {
	assert.Equal(t, 0.0, ExponentialOut(0))
	assert.Equal(t, 1.0, ExponentialOut(1))
	assert.Greater(t, ExponentialOut(0.5), 0.5)
}

func TestStartFromCallback(t *testing.T) {
	r := NewRunner()
	chained := false
	r.Start(context.Background(), Spec{
		OnComplete: func(error) {
			r.Start(context.Background(), Spec{OnComplete: func(error) { chained = true }})
		},
	})
	r.Update(0)
	assert.Equal(t, 1, r.Len())
	r.Update(0)
	assert.True(t, chained)
}
