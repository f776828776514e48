package rails

import (
	"math"
	"sort"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// InterpMode selects the interpolation used when resampling a rail.
type InterpMode string

// Interpolation modes.
const (
	// InterpLinear is piecewise-linear interpolation between control points.
	InterpLinear InterpMode = "linear"
	// InterpSmooth is a cubic Hermite curve through the control points with
	// averaged-slope tangents, matching the editor's rail rendering.
	InterpSmooth InterpMode = "smooth"
)

// ParseInterpMode resolves an interpolation mode name.
func ParseInterpMode(name string) (InterpMode, error) {
	switch InterpMode(name) {
	case InterpLinear, InterpSmooth:
		return InterpMode(name), nil
	case "":
		return InterpLinear, nil
	}
	return "", errors.New(errors.ErrCodeInvalidParameter, "unknown interpolation mode %q", name)
}

// timeEpsilon tolerates float error when a requested time sits on the
// boundary of the rail's span. Both ends are inclusive.
const timeEpsilon = 1e-9

// Resample interpolates the rail's (x, y) path at each requested time and
// returns the resulting rail. Interpolation is exact at existing control
// points. Requested times outside the rail's time span are rejected with
// EXTRAPOLATION; resampling never extrapolates.
//
// The requested times must be strictly increasing, since they become the
// new rail's control point times.
func Resample(rail synth.Rail, newTimes []float64, mode InterpMode) (synth.Rail, error) {
	if rail.Degenerate() {
		return synth.Rail{}, errors.New(errors.ErrCodeMalformedRail,
			"cannot resample a rail with %d points", len(rail.Points))
	}
	start, end := rail.Start().T, rail.End().T
	for _, t := range newTimes {
		if t < start-timeEpsilon || t > end+timeEpsilon {
			return synth.Rail{}, errors.New(errors.ErrCodeExtrapolation,
				"time %v outside rail span [%v, %v]", t, start, end)
		}
	}

	points := make([]synth.Point, len(newTimes))
	for i, t := range newTimes {
		points[i] = PositionAt(rail, t, mode)
	}
	return synth.NewRail(rail.Type, points)
}

// PositionAt evaluates the rail's path at time t, which must already be
// inside the rail's span. Exact control point times return the control
// point itself.
func PositionAt(rail synth.Rail, t float64, mode InterpMode) synth.Point {
	pts := rail.Points
	// Clamp to span; Resample validated bounds, direct callers get edge
	// points for out-of-span times.
	if t <= pts[0].T {
		return pts[0]
	}
	if t >= pts[len(pts)-1].T {
		return pts[len(pts)-1]
	}
	// seg is the first control point with time >= t.
	seg := sort.Search(len(pts), func(i int) bool { return pts[i].T >= t })
	if pts[seg].T == t {
		return pts[seg]
	}
	switch mode {
	case InterpSmooth:
		x := hermiteAt(pts, seg-1, t, func(p synth.Point) float64 { return p.X })
		y := hermiteAt(pts, seg-1, t, func(p synth.Point) float64 { return p.Y })
		return synth.Point{X: x, Y: y, T: t}
	default:
		a, b := pts[seg-1], pts[seg]
		f := (t - a.T) / (b.T - a.T)
		return synth.Point{
			X: a.X + (b.X-a.X)*f,
			Y: a.Y + (b.Y-a.Y)*f,
			T: t,
		}
	}
}

// hermiteAt evaluates a cubic Hermite segment between control points i and
// i+1 for one coordinate. Tangents are the average of adjacent segment
// slopes (one-sided at the rail ends), which mirrors how the editor smooths
// rail curves.
func hermiteAt(pts []synth.Point, i int, t float64, coord func(synth.Point) float64) float64 {
	h := pts[i+1].T - pts[i].T
	u := (t - pts[i].T) / h

	slope := func(a, b int) float64 {
		return (coord(pts[b]) - coord(pts[a])) / (pts[b].T - pts[a].T)
	}
	m0 := slope(i, i+1)
	if i > 0 {
		m0 = (slope(i-1, i) + slope(i, i+1)) / 2
	}
	m1 := slope(i, i+1)
	if i+2 < len(pts) {
		m1 = (slope(i, i+1) + slope(i+1, i+2)) / 2
	}

	u2, u3 := u*u, u*u*u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	return h00*coord(pts[i]) + h10*h*m0 + h01*coord(pts[i+1]) + h11*h*m1
}

// ResampleInterval places control points every interval measures along the
// rail, clamping the final point to the rail end. A negative interval
// spaces points from the end backwards. Existing geometry is interpolated
// with the given mode.
func ResampleInterval(rail synth.Rail, interval float64, mode InterpMode) (synth.Rail, error) {
	if err := errors.ValidateFinite("resample-interval", "interval", interval); err != nil {
		return synth.Rail{}, err
	}
	if interval == 0 {
		return synth.Rail{}, errors.New(errors.ErrCodeInvalidParameter,
			"resample-interval: parameter \"interval\" must be non-zero")
	}
	if rail.Degenerate() {
		return rail.Clone(), nil
	}
	times := boundedRange(rail.Start().T, rail.End().T, interval)
	return Resample(rail, times, mode)
}

// boundedRange returns times from start to end spaced by step, always
// including both endpoints exactly. Negative steps space from the end.
func boundedRange(start, end, step float64) []float64 {
	if step < 0 {
		rev := boundedRange(0, end-start, -step)
		out := make([]float64, len(rev))
		for i, v := range rev {
			out[len(rev)-1-i] = end - v
		}
		return out
	}
	var out []float64
	for t := start; t < end-timeEpsilon; t += step {
		out = append(out, t)
	}
	// Clamp the final position to the end instead of overshooting.
	if len(out) > 0 && math.Abs(out[len(out)-1]-end) < timeEpsilon {
		out[len(out)-1] = end
		return out
	}
	return append(out, end)
}
