// Package pattern generates rails and note layouts from parametric
// descriptions. Generators return fresh data and never touch their
// inputs, matching the rest of the toolbox.
package pattern

import (
	"math"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// AngleToXY converts an angle in degrees to a unit vector. 0 degrees
// points along +X, 90 along +Y.
func AngleToXY(deg float64) (x, y float64) {
	rad := deg * math.Pi / 180
	return math.Cos(rad), math.Sin(rad)
}

// Options parametrizes the spiral and zigzag generators.
type Options struct {
	// Count is the number of control points to emit, at least 2.
	Count int
	// AngleStep is the angular advance per point in degrees. Its sign
	// picks the winding direction. Only spirals use it.
	AngleStep float64
	// StartAngle is the angle of the first point in degrees.
	StartAngle float64
	// Radius is the distance from the center at the first point. A zero
	// radius degenerates to a straight rail, which is not an error.
	Radius float64
	// RadiusEnd, when non-nil, varies the radius linearly from Radius at
	// the first point to *RadiusEnd at the last.
	RadiusEnd *float64
	// CenterX and CenterY place the pattern on the grid.
	CenterX, CenterY float64
	// StartTime and Duration span the pattern in time, in measures.
	// Duration must be positive.
	StartTime, Duration float64
	// Type is the hand the generated rail belongs to.
	Type synth.NoteType
}

func (o Options) validate(op string) error {
	if err := errors.ValidateCount(op, "count", o.Count, 4096); err != nil {
		return err
	}
	if o.Count < 2 {
		return errors.New(errors.ErrCodeInvalidParameter,
			"%s needs at least 2 points, got %d", op, o.Count)
	}
	checks := map[string]float64{
		"angle_step": o.AngleStep, "start_angle": o.StartAngle,
		"radius": o.Radius, "center_x": o.CenterX, "center_y": o.CenterY,
		"start_time": o.StartTime, "duration": o.Duration,
	}
	for name, v := range checks {
		if err := errors.ValidateFinite(op, name, v); err != nil {
			return err
		}
	}
	if o.RadiusEnd != nil {
		if err := errors.ValidateFinite(op, "radius_end", *o.RadiusEnd); err != nil {
			return err
		}
	}
	if err := errors.ValidatePositive(op, "duration", o.Duration); err != nil {
		return err
	}
	if !o.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidParameter, "%s: unknown note type %d", op, o.Type)
	}
	return nil
}

// radiusAt interpolates the radius linearly across the pattern.
func (o Options) radiusAt(f float64) float64 {
	if o.RadiusEnd == nil {
		return o.Radius
	}
	return o.Radius + (*o.RadiusEnd-o.Radius)*f
}

// Spiral generates a single rail winding around the center. Each point
// advances AngleStep degrees from the last; a negative step winds the
// other way.
func Spiral(opts Options) (synth.Rail, error) {
	if err := opts.validate("spiral"); err != nil {
		return synth.Rail{}, err
	}
	points := make([]synth.Point, opts.Count)
	for i := range points {
		f := float64(i) / float64(opts.Count-1)
		dx, dy := AngleToXY(opts.StartAngle + opts.AngleStep*float64(i))
		r := opts.radiusAt(f)
		points[i] = synth.Point{
			X: opts.CenterX + dx*r,
			Y: opts.CenterY + dy*r,
			T: opts.StartTime + opts.Duration*f,
		}
	}
	return synth.NewRail(opts.Type, points)
}

// Zigzag generates a single rail alternating between two sides of the
// center, half a turn apart. It is the two-point-per-cycle case of the
// spiral parametrization, so AngleStep is ignored.
func Zigzag(opts Options) (synth.Rail, error) {
	if err := opts.validate("zigzag"); err != nil {
		return synth.Rail{}, err
	}
	points := make([]synth.Point, opts.Count)
	for i := range points {
		f := float64(i) / float64(opts.Count-1)
		angle := opts.StartAngle
		if i%2 == 1 {
			angle += 180
		}
		dx, dy := AngleToXY(angle)
		r := opts.radiusAt(f)
		points[i] = synth.Point{
			X: opts.CenterX + dx*r,
			Y: opts.CenterY + dy*r,
			T: opts.StartTime + opts.Duration*f,
		}
	}
	return synth.NewRail(opts.Type, points)
}

// Spikes inserts alternating perpendicular offset points between the
// existing control points of a rail. Each original segment gains
// frequency extra points, pushed amplitude units off the segment and
// alternating sides along the rail. The original control points survive
// unchanged, so the rail still passes through every position it did
// before.
func Spikes(rail synth.Rail, amplitude float64, frequency int) (synth.Rail, error) {
	if rail.Degenerate() {
		return synth.Rail{}, errors.New(errors.ErrCodeMalformedRail,
			"spikes needs a rail with at least 2 points, got %d", len(rail.Points))
	}
	if err := errors.ValidateFinite("spikes", "amplitude", amplitude); err != nil {
		return synth.Rail{}, err
	}
	if err := errors.ValidateCount("spikes", "frequency", frequency, 64); err != nil {
		return synth.Rail{}, err
	}

	pts := rail.Points
	out := make([]synth.Point, 0, len(pts)+(len(pts)-1)*frequency)
	side := 1.0
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		out = append(out, a)

		// Perpendicular to the segment in XY. Vertical-in-time segments
		// have no direction, so spikes go along +X.
		px, py := 1.0, 0.0
		if dx, dy := b.X-a.X, b.Y-a.Y; dx != 0 || dy != 0 {
			n := math.Hypot(dx, dy)
			px, py = -dy/n, dx/n
		}

		for k := 1; k <= frequency; k++ {
			f := float64(k) / float64(frequency+1)
			out = append(out, synth.Point{
				X: a.X + (b.X-a.X)*f + px*amplitude*side,
				Y: a.Y + (b.Y-a.Y)*f + py*amplitude*side,
				T: a.T + (b.T-a.T)*f,
			})
			side = -side
		}
	}
	out = append(out, pts[len(pts)-1])
	return synth.NewRail(rail.Type, out)
}
