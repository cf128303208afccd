package animator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	values []float64
	ends   int
	// detach removes the recorder from the animator when it ends.
	detach bool
}

func (r *recorder) OnAnimationUpdate(a *ValueAnimator) {
	r.values = append(r.values, a.AnimatedValue())
}

func (r *recorder) OnAnimationEnd(a *ValueAnimator) {
	r.ends++
	if r.detach {
		a.RemoveUpdateListener(r)
		a.RemoveEndListener(r)
	}
}

func TestSetCurrentFraction(t *testing.T) {
	a := New().SetEasing(nil)
	r := new(recorder)
	a.AddUpdateListener(r)

	a.SetCurrentFraction(0.25)
	a.SetCurrentFraction(-1)
	a.SetCurrentFraction(2)

	assert.Equal(t, []float64{0.25, 0, 1}, r.values)
	assert.Equal(t, 1.0, a.AnimatedFraction())
}

func TestEasingApplied(t *testing.T) {
	a := New()
	a.SetCurrentFraction(0.5)
	assert.InDelta(t, 0.5, a.AnimatedValue(), 1e-12)

	a.SetEasing(func(t float64) float64 { return t * t })
	a.SetCurrentFraction(0.5)
	assert.InDelta(t, 0.25, a.AnimatedValue(), 1e-12)
	assert.InDelta(t, 0.5, a.AnimatedFraction(), 1e-12)
}

func TestEnd(t *testing.T) {
	a := New()
	r := &recorder{detach: true}
	a.AddUpdateListener(r)
	a.AddEndListener(r)

	a.End()
	a.End()

	assert.Equal(t, []float64{1}, r.values)
	assert.Equal(t, 1, r.ends)
	updates, ends := a.Listeners()
	assert.Zero(t, updates)
	assert.Zero(t, ends)
}

func TestRemoveListenerByIdentity(t *testing.T) {
	a := New()
	r1, r2 := new(recorder), new(recorder)
	a.AddUpdateListener(r1)
	a.AddUpdateListener(r2)
	a.RemoveUpdateListener(r1)

	a.SetCurrentFraction(1)
	assert.Empty(t, r1.values)
	assert.Len(t, r2.values, 1)
}

func TestRun(t *testing.T) {
	a := New().SetDuration(30 * time.Millisecond).SetFrameInterval(time.Millisecond)
	r := &recorder{detach: true}
	a.AddUpdateListener(r)
	a.AddEndListener(r)

	require.NoError(t, a.Run(context.Background()))

	require.NotEmpty(t, r.values)
	assert.Equal(t, 0.0, r.values[0])
	assert.Equal(t, 1.0, r.values[len(r.values)-1])
	for i := 1; i < len(r.values); i++ {
		assert.GreaterOrEqual(t, r.values[i], r.values[i-1])
	}
	assert.Equal(t, 1, r.ends)
	assert.False(t, a.IsRunning())
}

func TestRunZeroDuration(t *testing.T) {
	a := New().SetDuration(0)
	r := new(recorder)
	a.AddUpdateListener(r)
	a.AddEndListener(r)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, []float64{0, 1}, r.values)
	assert.Equal(t, 1, r.ends)
}

func TestRunCancelled(t *testing.T) {
	a := New().SetDuration(time.Hour)
	r := &recorder{detach: true}
	a.AddEndListener(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, r.ends)
	assert.Less(t, a.AnimatedFraction(), 1.0)
}

func TestRunTwice(t *testing.T) {
	a := New().SetDuration(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, a.IsRunning, time.Second, time.Millisecond)
	assert.ErrorIs(t, a.Run(ctx), ErrRunning)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEasingByName(t *testing.T) {
	for _, name := range EasingNames() {
		e, err := EasingByName(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 0, e(0), 1e-9, name)
		assert.InDelta(t, 1, e(1), 1e-9, name)
	}

	e, err := EasingByName("")
	require.NoError(t, err)
	assert.InDelta(t, AccelerateDecelerate(0.3), e(0.3), 1e-12)

	_, err = EasingByName("wobble")
	assert.Error(t, err)
}
