// Package cluster animates markers as they join and leave map clusters.
//
// Every animation moves each marker along a straight line in latitude and
// longitude from a start point to a target point as the animator's value goes
// from 0 to 1.
package cluster

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/matt-g-everett/clusteranim/animator"
	"github.com/matt-g-everett/clusteranim/geo"
	"github.com/matt-g-everett/clusteranim/metrics"
)

// ErrInvalidArgument is returned when an animation is requested with no
// markers or with a target count that does not match the marker count.
var ErrInvalidArgument = errors.New("cluster: invalid argument")

// Animation shapes.
const (
	ShapePointToBunch = "pointToBunch"
	ShapeBunchToPoint = "bunchToPoint"
	ShapePointToPoint = "pointToPoint"
)

// A Marker is a map object whose position can be animated.
type Marker interface {
	Geometry() geo.Point
	SetGeometry(geo.Point) error
}

// An Option configures an animation.
type Option func(*options)

type options struct {
	log      *slog.Logger
	animator *animator.ValueAnimator
}

// WithLogger sets the logger used to report marker update failures.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithAnimator attaches the animation to an existing animator instead of
// creating a new one.
func WithAnimator(a *animator.ValueAnimator) Option {
	return func(o *options) { o.animator = a }
}

// PointToBunch fans markers out from the centre of to, each towards its own
// point in to.
func PointToBunch(markers []Marker, to []geo.Point, opts ...Option) (*animator.ValueAnimator, error) {
	if err := checkBunch(markers, to); err != nil {
		return nil, err
	}
	return PointToBunchAround(markers, to, geo.CalcCenter(to), opts...)
}

// PointToBunchAround fans markers out from center, each towards its own
// point in to.
func PointToBunchAround(markers []Marker, to []geo.Point, center geo.Point, opts ...Option) (*animator.ValueAnimator, error) {
	if err := checkBunch(markers, to); err != nil {
		return nil, err
	}

	from := make([]geo.Point, len(markers))
	for i := range from {
		from[i] = center
	}
	return newSession(ShapePointToBunch, markers, from, append([]geo.Point(nil), to...), opts).attach(), nil
}

// BunchToPoint gathers markers from where they are now into the single point to.
func BunchToPoint(markers []Marker, to geo.Point, opts ...Option) (*animator.ValueAnimator, error) {
	if len(markers) == 0 {
		return nil, fmt.Errorf("%w: no markers", ErrInvalidArgument)
	}

	from := make([]geo.Point, len(markers))
	targets := make([]geo.Point, len(markers))
	for i, m := range markers {
		from[i] = m.Geometry()
		targets[i] = to
	}
	return newSession(ShapeBunchToPoint, markers, from, targets, opts).attach(), nil
}

// PointToPoint moves marker from where it is now to to.
func PointToPoint(marker Marker, to geo.Point, opts ...Option) *animator.ValueAnimator {
	markers := []Marker{marker}
	return newSession(ShapePointToPoint, markers, []geo.Point{marker.Geometry()}, []geo.Point{to}, opts).attach()
}

func checkBunch(markers []Marker, to []geo.Point) error {
	if len(markers) == 0 {
		return fmt.Errorf("%w: no markers", ErrInvalidArgument)
	}
	if len(to) != len(markers) {
		return fmt.Errorf("%w: %d markers but %d points", ErrInvalidArgument, len(markers), len(to))
	}
	return nil
}

// session moves markers[i] from from[i] to to[i] for the lifetime of one
// animation.
type session struct {
	shape    string
	markers  []Marker
	from     []geo.Point
	to       []geo.Point
	log      *slog.Logger
	animator *animator.ValueAnimator
}

func newSession(shape string, markers []Marker, from, to []geo.Point, opts []Option) *session {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.animator == nil {
		o.animator = animator.New()
	}

	s := new(session)
	s.shape = shape
	s.markers = append([]Marker(nil), markers...)
	s.from = from
	s.to = to
	s.log = o.log
	s.animator = o.animator
	return s
}

func (s *session) attach() *animator.ValueAnimator {
	s.animator.AddUpdateListener(s)
	s.animator.AddEndListener(s)
	metrics.AnimationsCreated.WithLabelValues(s.shape).Inc()
	return s.animator
}

// OnAnimationUpdate moves every marker to its interpolated position.
func (s *session) OnAnimationUpdate(a *animator.ValueAnimator) {
	t := a.AnimatedValue()
	for i, m := range s.markers {
		s.updateGeometry(i, m, geo.Lerp(s.from[i], s.to[i], t))
	}
}

// OnAnimationEnd detaches the session from the animator.
func (s *session) OnAnimationEnd(a *animator.ValueAnimator) {
	a.RemoveUpdateListener(s)
	a.RemoveEndListener(s)
	metrics.AnimationsEnded.WithLabelValues(s.shape).Inc()
}

// updateGeometry moves one marker. A failure is logged and dropped so the
// remaining markers still move.
func (s *session) updateGeometry(i int, m Marker, p geo.Point) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(i, p, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := m.SetGeometry(p); err != nil {
		s.fail(i, p, err)
	}
}

func (s *session) fail(i int, p geo.Point, err error) {
	metrics.MarkerUpdateFailures.Inc()
	s.log.Warn("marker update failed",
		slog.String("shape", s.shape),
		slog.Int("marker", i),
		slog.Float64("lat", p.Latitude),
		slog.Float64("lon", p.Longitude),
		slog.Any("error", err),
	)
}
