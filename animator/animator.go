// Package animator provides a value animator that drives a value from 0 to 1
// over a fixed duration and notifies listeners on every frame.
package animator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matt-g-everett/clusteranim/util"
)

const (
	// DefaultDuration is the duration of a newly created ValueAnimator.
	DefaultDuration = 300 * time.Millisecond
	// DefaultFrameInterval is roughly 60 frames per second.
	DefaultFrameInterval = 16 * time.Millisecond
)

// ErrRunning is returned by Run when the animator is already running.
var ErrRunning = errors.New("animator: already running")

// An UpdateListener is notified every time the animated value changes.
type UpdateListener interface {
	OnAnimationUpdate(a *ValueAnimator)
}

// An EndListener is notified when an animation ends, either because it
// reached its final value or because it was cancelled.
type EndListener interface {
	OnAnimationEnd(a *ValueAnimator)
}

// ValueAnimator animates a value from 0 to 1.
type ValueAnimator struct {
	mu            sync.Mutex
	duration      time.Duration
	frameInterval time.Duration
	easing        Easing

	fraction float64
	value    float64
	running  bool
	ended    bool

	updates []UpdateListener
	ends    []EndListener
}

// New creates a ValueAnimator with the default duration, frame interval and
// easing.
func New() *ValueAnimator {
	a := new(ValueAnimator)
	a.duration = DefaultDuration
	a.frameInterval = DefaultFrameInterval
	a.easing = AccelerateDecelerate
	return a
}

// SetDuration sets the length of the animation. Non-positive durations end
// the animation on its first frame.
func (a *ValueAnimator) SetDuration(d time.Duration) *ValueAnimator {
	a.mu.Lock()
	a.duration = d
	a.mu.Unlock()
	return a
}

// Duration returns the length of the animation.
func (a *ValueAnimator) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

// SetFrameInterval sets the time between frames when running.
func (a *ValueAnimator) SetFrameInterval(d time.Duration) *ValueAnimator {
	if d <= 0 {
		d = DefaultFrameInterval
	}
	a.mu.Lock()
	a.frameInterval = d
	a.mu.Unlock()
	return a
}

// SetEasing sets the easing applied to the elapsed fraction. A nil easing
// is linear.
func (a *ValueAnimator) SetEasing(e Easing) *ValueAnimator {
	if e == nil {
		e = func(t float64) float64 { return t }
	}
	a.mu.Lock()
	a.easing = e
	a.mu.Unlock()
	return a
}

// AnimatedValue returns the current eased value.
func (a *ValueAnimator) AnimatedValue() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// AnimatedFraction returns the current elapsed fraction before easing.
func (a *ValueAnimator) AnimatedFraction() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fraction
}

// IsRunning reports whether Run is in progress.
func (a *ValueAnimator) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// AddUpdateListener registers l for value updates.
func (a *ValueAnimator) AddUpdateListener(l UpdateListener) {
	a.mu.Lock()
	a.updates = append(a.updates, l)
	a.mu.Unlock()
}

// RemoveUpdateListener removes the first registration of l.
func (a *ValueAnimator) RemoveUpdateListener(l UpdateListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, u := range a.updates {
		if u == l {
			a.updates = append(a.updates[:i:i], a.updates[i+1:]...)
			return
		}
	}
}

// AddEndListener registers l for the end of the animation.
func (a *ValueAnimator) AddEndListener(l EndListener) {
	a.mu.Lock()
	a.ends = append(a.ends, l)
	a.mu.Unlock()
}

// RemoveEndListener removes the first registration of l.
func (a *ValueAnimator) RemoveEndListener(l EndListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, e := range a.ends {
		if e == l {
			a.ends = append(a.ends[:i:i], a.ends[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of registered update and end listeners.
func (a *ValueAnimator) Listeners() (updates, ends int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.updates), len(a.ends)
}

// SetCurrentFraction moves the animation to fraction f, clamped to [0, 1],
// and notifies the update listeners.
func (a *ValueAnimator) SetCurrentFraction(f float64) {
	a.mu.Lock()
	a.setFraction(f)
	a.ended = false
	a.mu.Unlock()
	a.dispatchUpdate()
}

// End moves the animation to its final value, notifies the update listeners
// and then the end listeners. Calling End on an animation that has already
// ended does nothing.
func (a *ValueAnimator) End() {
	a.mu.Lock()
	if a.ended {
		a.mu.Unlock()
		return
	}
	a.setFraction(1)
	a.mu.Unlock()
	a.dispatchUpdate()
	a.finish()
}

// Run plays the animation from the start, blocking until it ends. If ctx is
// cancelled first, the end listeners are still notified and ctx.Err() is
// returned.
func (a *ValueAnimator) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrRunning
	}
	a.running = true
	a.ended = false
	duration := a.duration
	interval := a.frameInterval
	a.setFraction(0)
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.dispatchUpdate()
	if duration <= 0 {
		a.End()
		return nil
	}

	start := time.Now()
	frameTimer := time.NewTicker(interval)
	defer frameTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			a.finish()
			return ctx.Err()
		case now := <-frameTimer.C:
			fraction := float64(now.Sub(start)) / float64(duration)
			if fraction >= 1 {
				a.End()
				return nil
			}
			a.mu.Lock()
			a.setFraction(fraction)
			a.mu.Unlock()
			a.dispatchUpdate()
		}
	}
}

// setFraction must be called with a.mu held.
func (a *ValueAnimator) setFraction(f float64) {
	a.fraction = util.Clamp01(f)
	a.value = a.easing(a.fraction)
}

func (a *ValueAnimator) finish() {
	a.mu.Lock()
	if a.ended {
		a.mu.Unlock()
		return
	}
	a.ended = true
	ends := append([]EndListener(nil), a.ends...)
	a.mu.Unlock()

	for _, l := range ends {
		l.OnAnimationEnd(a)
	}
}

func (a *ValueAnimator) dispatchUpdate() {
	a.mu.Lock()
	updates := append([]UpdateListener(nil), a.updates...)
	a.mu.Unlock()

	for _, l := range updates {
		l.OnAnimationUpdate(a)
	}
}
