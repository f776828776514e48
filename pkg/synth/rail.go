package synth

import (
	"slices"

	"github.com/railsmith/railsmith/pkg/errors"
)

// Rail is an ordered sequence of control points of one color, interpreted
// as a continuous path. A valid rail has at least two points with strictly
// increasing time; a single-point rail is degenerate and is treated as
// equivalent to a Note by the conversion operations in pkg/rails.
type Rail struct {
	Type   NoteType
	Points []Point
}

// NewRail validates and constructs a rail. It rejects rails with fewer than
// two points, duplicate timestamps, or time regressions, naming the
// offending time in the error.
func NewRail(t NoteType, points []Point) (Rail, error) {
	if len(points) < 2 {
		return Rail{}, errors.New(errors.ErrCodeMalformedRail,
			"%s rail needs at least 2 points, got %d", t, len(points))
	}
	for i := 1; i < len(points); i++ {
		switch {
		case points[i].T == points[i-1].T:
			return Rail{}, errors.New(errors.ErrCodeMalformedRail,
				"%s rail has duplicate time %v at index %d", t, points[i].T, i)
		case points[i].T < points[i-1].T:
			return Rail{}, errors.New(errors.ErrCodeMalformedRail,
				"%s rail time regresses from %v to %v at index %d", t, points[i-1].T, points[i].T, i)
		}
	}
	return Rail{Type: t, Points: slices.Clone(points)}, nil
}

// Start returns the first control point.
func (r Rail) Start() Point { return r.Points[0] }

// End returns the last control point.
func (r Rail) End() Point { return r.Points[len(r.Points)-1] }

// Duration returns the time span covered by the rail in measures.
func (r Rail) Duration() float64 { return r.End().T - r.Start().T }

// Degenerate reports whether the rail has fewer than two points.
func (r Rail) Degenerate() bool { return len(r.Points) < 2 }

// Clone returns a deep copy of the rail.
func (r Rail) Clone() Rail {
	return Rail{Type: r.Type, Points: slices.Clone(r.Points)}
}

// Centroid returns the mean (x, y, t) of the control points.
func (r Rail) Centroid() Point {
	var c Point
	for _, p := range r.Points {
		c.X += p.X
		c.Y += p.Y
		c.T += p.T
	}
	n := float64(len(r.Points))
	return Point{X: c.X / n, Y: c.Y / n, T: c.T / n}
}
