package geom

import (
	"math"

	"github.com/railsmith/railsmith/pkg/synth"
)

// pivotEpsilon is the XY distance below which a point is considered to sit
// exactly on the pivot. Outset leaves such points unchanged because the
// outward direction is undefined there.
const pivotEpsilon = 1e-5

// Rotate rotates the XY positions of points counterclockwise by angleDeg
// about the pivot coordinate. Time is unaffected. Rotating by -angleDeg
// inverts the operation up to floating-point tolerance.
func Rotate(points []synth.Point, angleDeg float64, pivot synth.Point) []synth.Point {
	if len(points) == 0 {
		return nil
	}
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make([]synth.Point, len(points))
	for i, p := range points {
		dx, dy := p.X-pivot.X, p.Y-pivot.Y
		out[i] = synth.Point{
			X: pivot.X + dx*cos - dy*sin,
			Y: pivot.Y + dx*sin + dy*cos,
			T: p.T,
		}
	}
	return out
}

// Scale scales points about the pivot with independent spatial and time
// factors. A factor of 0 collapses that axis onto the pivot coordinate; it
// is degenerate but never an error. A negative time factor reverses the
// element order so rails stay stored in ascending time.
func Scale(points []synth.Point, fx, fy, ft float64, pivot synth.Point) []synth.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]synth.Point, len(points))
	for i, p := range points {
		out[i] = synth.Point{
			X: pivot.X + (p.X-pivot.X)*fx,
			Y: pivot.Y + (p.Y-pivot.Y)*fy,
			T: pivot.T + (p.T-pivot.T)*ft,
		}
	}
	if ft < 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Mirror reflects points across the line through pivot at axisAngleDeg
// (0 = horizontal axis, 90 = vertical). The reflection is applied as a
// single matrix rather than a scale-rotate decomposition to avoid
// compounding floating error. Mirroring twice about the same axis is the
// identity.
func Mirror(points []synth.Point, axisAngleDeg float64, pivot synth.Point) []synth.Point {
	if len(points) == 0 {
		return nil
	}
	rad := 2 * axisAngleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	out := make([]synth.Point, len(points))
	for i, p := range points {
		dx, dy := p.X-pivot.X, p.Y-pivot.Y
		out[i] = synth.Point{
			X: pivot.X + dx*cos + dy*sin,
			Y: pivot.Y + dx*sin - dy*cos,
			T: p.T,
		}
	}
	return out
}

// Outset moves each point directly away from the pivot by a fixed
// Euclidean XY distance (toward it for negative distance). Points within
// pivotEpsilon of the pivot are left unchanged: the direction is undefined
// there, which is documented behavior rather than an error.
func Outset(points []synth.Point, distance float64, pivot synth.Point) []synth.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]synth.Point, len(points))
	for i, p := range points {
		dx, dy := p.X-pivot.X, p.Y-pivot.Y
		r := math.Hypot(dx, dy)
		if r < pivotEpsilon {
			out[i] = p
			continue
		}
		out[i] = synth.Point{
			X: p.X + dx/r*distance,
			Y: p.Y + dy/r*distance,
			T: p.T,
		}
	}
	return out
}

// Offset translates points by (dx, dy, dt). No pivot is involved.
func Offset(points []synth.Point, dx, dy, dt float64) []synth.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]synth.Point, len(points))
	for i, p := range points {
		out[i] = synth.Point{X: p.X + dx, Y: p.Y + dy, T: p.T + dt}
	}
	return out
}
