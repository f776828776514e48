// Package geom implements the geometric transform primitives: rotation,
// scaling, mirroring, outsetting and translation of whole point groups
// about a resolved pivot.
//
// All functions are pure: they never modify their input slices and are safe
// to call with empty input. Transforms operate on a whole group at once so
// rounding behavior is uniform across the group.
package geom

import (
	"strings"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// PivotMode selects how the reference point of a transform is derived.
type PivotMode string

// Pivot modes.
const (
	// PivotGrid is the fixed grid origin (0, 0).
	PivotGrid PivotMode = "grid"
	// PivotPoint is a user-supplied coordinate.
	PivotPoint PivotMode = "point"
	// PivotRailStart resolves to the first point, per rail.
	PivotRailStart PivotMode = "rail-start"
	// PivotRailEnd resolves to the last point, per rail.
	PivotRailEnd PivotMode = "rail-end"
	// PivotCentroid resolves to the mean position of the group.
	PivotCentroid PivotMode = "centroid"
)

// Pivot is a pivot specification. At is only meaningful for PivotPoint.
type Pivot struct {
	Mode PivotMode
	At   synth.Point
}

// PerRail reports whether the pivot must be re-resolved for each rail
// rather than once for the whole selection.
func (pv Pivot) PerRail() bool {
	return pv.Mode == PivotRailStart || pv.Mode == PivotRailEnd
}

// Resolve computes the pivot coordinate for a point set: the whole group
// for grid/point/centroid pivots, a single rail's points for rail-relative
// pivots. Resolution happens once per operation invocation, before any
// point is moved, so transforms cannot observe their own output.
func (pv Pivot) Resolve(points []synth.Point) (synth.Point, error) {
	switch pv.Mode {
	case PivotGrid, "":
		return synth.Point{}, nil
	case PivotPoint:
		return pv.At, nil
	case PivotCentroid:
		if len(points) == 0 {
			return synth.Point{}, nil
		}
		var c synth.Point
		for _, p := range points {
			c.X += p.X
			c.Y += p.Y
			c.T += p.T
		}
		n := float64(len(points))
		return synth.Point{X: c.X / n, Y: c.Y / n, T: c.T / n}, nil
	case PivotRailStart:
		if len(points) == 0 {
			return synth.Point{}, nil
		}
		return points[0], nil
	case PivotRailEnd:
		if len(points) == 0 {
			return synth.Point{}, nil
		}
		return points[len(points)-1], nil
	}
	return synth.Point{}, errors.New(errors.ErrCodeInvalidPivot, "unknown pivot mode %q", pv.Mode)
}

// ParsePivot parses a pivot specification string: "grid", "rail-start",
// "rail-end", "centroid", or an explicit "x,y[,t]" coordinate.
func ParsePivot(val string) (Pivot, error) {
	switch strings.TrimSpace(val) {
	case "", "grid":
		return Pivot{Mode: PivotGrid}, nil
	case "rail-start":
		return Pivot{Mode: PivotRailStart}, nil
	case "rail-end":
		return Pivot{Mode: PivotRailEnd}, nil
	case "centroid":
		return Pivot{Mode: PivotCentroid}, nil
	}
	parts := strings.Split(val, ",")
	if len(parts) == 2 {
		parts = append(parts, "0")
	}
	if len(parts) != 3 {
		return Pivot{}, errors.New(errors.ErrCodeInvalidPivot, "pivot must be grid, rail-start, rail-end, centroid or x,y[,t]: %q", val)
	}
	x, err := errors.ParseNumber(parts[0])
	if err != nil {
		return Pivot{}, errors.Wrap(errors.ErrCodeInvalidPivot, err, "pivot x")
	}
	y, err := errors.ParseNumber(parts[1])
	if err != nil {
		return Pivot{}, errors.Wrap(errors.ErrCodeInvalidPivot, err, "pivot y")
	}
	t, err := errors.ParseNumber(parts[2])
	if err != nil {
		return Pivot{}, errors.Wrap(errors.ErrCodeInvalidPivot, err, "pivot t")
	}
	return Pivot{Mode: PivotPoint, At: synth.Point{X: x, Y: y, T: t}}, nil
}
