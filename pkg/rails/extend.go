package rails

import (
	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// Shorten trims distance measures from the end of a rail (from the start
// for negative distance), interpolating a new endpoint on the existing
// path. Trimming at least the rail's whole duration collapses it to a
// degenerate single-point rail at the surviving end.
func Shorten(rail synth.Rail, distance float64, mode InterpMode) (synth.Rail, error) {
	if err := errors.ValidateFinite("shorten", "distance", distance); err != nil {
		return synth.Rail{}, err
	}
	if rail.Degenerate() || distance == 0 {
		return rail.Clone(), nil
	}

	if distance > 0 {
		if rail.Duration() <= distance {
			return synth.Rail{Type: rail.Type, Points: []synth.Point{rail.Start()}}, nil
		}
		cut := rail.End().T - distance
		var points []synth.Point
		for _, p := range rail.Points {
			if p.T < cut {
				points = append(points, p)
			}
		}
		points = append(points, PositionAt(rail, cut, mode))
		return synth.Rail{Type: rail.Type, Points: points}, nil
	}

	if rail.Duration() <= -distance {
		return synth.Rail{Type: rail.Type, Points: []synth.Point{rail.End()}}, nil
	}
	cut := rail.Start().T - distance // distance is negative
	points := []synth.Point{PositionAt(rail, cut, mode)}
	for _, p := range rail.Points {
		if p.T > cut {
			points = append(points, p)
		}
	}
	return synth.Rail{Type: rail.Type, Points: points}, nil
}

// ExtendLevel appends a level section of the given duration at the end of
// the rail (at the start for negative distance): the new endpoint copies
// the boundary position, shifted only in time. A degenerate single-point
// rail becomes a proper two-point rail.
func ExtendLevel(rail synth.Rail, distance float64) (synth.Rail, error) {
	if err := errors.ValidateFinite("extend-level", "distance", distance); err != nil {
		return synth.Rail{}, err
	}
	if distance == 0 {
		return rail.Clone(), nil
	}
	points := clonePoints(rail.Points)
	if distance > 0 {
		end := rail.End()
		end.T += distance
		points = append(points, end)
	} else {
		start := rail.Start()
		start.T += distance
		points = append([]synth.Point{start}, points...)
	}
	return synth.Rail{Type: rail.Type, Points: points}, nil
}

// ExtendStraight appends a straight section continuing the direction of
// the rail's last segment (first segment for negative distance). Degenerate
// rails have no direction and are returned unchanged.
func ExtendStraight(rail synth.Rail, distance float64) (synth.Rail, error) {
	if err := errors.ValidateFinite("extend-straight", "distance", distance); err != nil {
		return synth.Rail{}, err
	}
	if rail.Degenerate() || distance == 0 {
		return rail.Clone(), nil
	}
	points := clonePoints(rail.Points)
	n := len(points)
	if distance > 0 {
		delta := points[n-1].Sub(points[n-2])
		f := distance / delta.T
		points = append(points, synth.Point{
			X: points[n-1].X + delta.X*f,
			Y: points[n-1].Y + delta.Y*f,
			T: points[n-1].T + distance,
		})
	} else {
		delta := points[0].Sub(points[1])
		f := distance / delta.T
		points = append([]synth.Point{{
			X: points[0].X + delta.X*f,
			Y: points[0].Y + delta.Y*f,
			T: points[0].T + distance,
		}}, points...)
	}
	return synth.Rail{Type: rail.Type, Points: points}, nil
}
