package geom

import (
	"math"

	"github.com/railsmith/railsmith/pkg/synth"
)

// Wall transforms mirror the point transforms but additionally maintain the
// wall's own rotation angle and, for mirroring, substitute the mirrored
// wall type. Positions are rotation centers (see synth.Wall), so moving the
// stored point moves the visual identically.

func wallPoints(walls []synth.Wall) []synth.Point {
	points := make([]synth.Point, len(walls))
	for i, w := range walls {
		points[i] = w.P
	}
	return points
}

func withPoints(walls []synth.Wall, points []synth.Point) []synth.Wall {
	out := make([]synth.Wall, len(walls))
	for i, w := range walls {
		w.P = points[i]
		out[i] = w
	}
	return out
}

// RotateWalls rotates wall centers about the pivot and adds the angle to
// each wall's own rotation. Crouch walls keep their rotation; the game
// renders them unrotated.
func RotateWalls(walls []synth.Wall, angleDeg float64, pivot synth.Point) []synth.Wall {
	if len(walls) == 0 {
		return nil
	}
	out := withPoints(walls, Rotate(wallPoints(walls), angleDeg, pivot))
	for i := range out {
		if out[i].Type != synth.WallCrouch {
			out[i].Rotation += angleDeg
		}
	}
	return out
}

// ScaleWalls scales wall centers about the pivot. Mirroring exactly one of
// the X/Y axes swaps each wall for its mirrored type and negates its
// rotation; mirroring Y additionally turns the wall by 180 degrees.
// Mirroring both axes is a point reflection and needs neither.
func ScaleWalls(walls []synth.Wall, fx, fy, ft float64, pivot synth.Point) []synth.Wall {
	if len(walls) == 0 {
		return nil
	}
	scaled := Scale(wallPoints(walls), fx, fy, ft, pivot)
	src := walls
	if ft < 0 {
		// Scale reversed the point order; reorder the wall records to match.
		src = make([]synth.Wall, len(walls))
		for i := range walls {
			src[i] = walls[len(walls)-1-i]
		}
	}
	out := withPoints(src, scaled)
	mirrorX, mirrorY := fx < 0, fy < 0
	for i := range out {
		if mirrorX != mirrorY {
			out[i].Type = out[i].Type.MirrorType()
			out[i].Rotation = -out[i].Rotation
		}
		if mirrorY {
			out[i].Rotation += 180
		}
	}
	return out
}

// MirrorWalls reflects wall centers across the line through pivot at
// axisAngleDeg, swaps each wall for its mirrored type, and reflects the
// wall's own rotation about the axis. Crouch walls keep their rotation.
func MirrorWalls(walls []synth.Wall, axisAngleDeg float64, pivot synth.Point) []synth.Wall {
	if len(walls) == 0 {
		return nil
	}
	out := withPoints(walls, Mirror(wallPoints(walls), axisAngleDeg, pivot))
	for i := range out {
		out[i].Type = out[i].Type.MirrorType()
		if out[i].Type != synth.WallCrouch {
			out[i].Rotation = 2*axisAngleDeg - out[i].Rotation
		}
	}
	return out
}

// OutsetWalls moves wall centers radially from the pivot. Rotation and type
// are untouched.
func OutsetWalls(walls []synth.Wall, distance float64, pivot synth.Point) []synth.Wall {
	if len(walls) == 0 {
		return nil
	}
	return withPoints(walls, Outset(wallPoints(walls), distance, pivot))
}

// OffsetWalls translates wall centers. When relative is true the XY delta
// is rotated into each wall's own frame first, so "up" means the wall's up
// rather than the grid's.
func OffsetWalls(walls []synth.Wall, dx, dy, dt float64, relative bool) []synth.Wall {
	if len(walls) == 0 {
		return nil
	}
	out := make([]synth.Wall, len(walls))
	for i, w := range walls {
		wx, wy := dx, dy
		if relative {
			rad := w.Rotation * math.Pi / 180
			sin, cos := math.Sin(rad), math.Cos(rad)
			wx = dx*cos - dy*sin
			wy = dx*sin + dy*cos
		}
		w.P = synth.Point{X: w.P.X + wx, Y: w.P.Y + wy, T: w.P.T + dt}
		out[i] = w
	}
	return out
}
