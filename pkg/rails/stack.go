package rails

import (
	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/geom"
	"github.com/railsmith/railsmith/pkg/synth"
)

// SpacingMode selects how stack pivots are distributed along the guide
// rail.
type SpacingMode string

// Spacing modes.
const (
	// SpacingEven distributes pivots evenly in time.
	SpacingEven SpacingMode = "even"
	// SpacingArclength distributes pivots evenly along the rail's XY
	// arclength, so tight curves receive as many copies as straight runs.
	SpacingArclength SpacingMode = "arclength"
)

// ParseSpacingMode resolves a spacing mode name.
func ParseSpacingMode(name string) (SpacingMode, error) {
	switch SpacingMode(name) {
	case SpacingEven, SpacingArclength:
		return SpacingMode(name), nil
	case "":
		return SpacingEven, nil
	}
	return "", errors.New(errors.ErrCodeInvalidParameter, "unknown spacing mode %q", name)
}

// Step is the per-copy transform delta applied when stacking. The parts
// compose in a fixed order per step: scale, rotate, offset, outset.
// A zero scale factor means 1 (axis untouched), so a partially filled
// step leaves the unset parts alone.
type Step struct {
	ScaleX  float64 `json:"scale_x,omitempty"`
	ScaleY  float64 `json:"scale_y,omitempty"`
	ScaleT  float64 `json:"scale_t,omitempty"`
	Rotate  float64 `json:"rotate,omitempty"` // degrees per step
	OffsetX float64 `json:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty"`
	OffsetT float64 `json:"offset_t,omitempty"` // time shift per step, in measures
	Outset  float64 `json:"outset,omitempty"`   // radial distance per step
}

// DefaultStep returns a step whose every part is a no-op, with the scale
// factors spelled out as 1. Callers set only the parts they want from
// here.
func DefaultStep() Step {
	return Step{ScaleX: 1, ScaleY: 1, ScaleT: 1}
}

// normalized maps unset (zero) scale factors to 1.
func (s Step) normalized() Step {
	if s.ScaleX == 0 {
		s.ScaleX = 1
	}
	if s.ScaleY == 0 {
		s.ScaleY = 1
	}
	if s.ScaleT == 0 {
		s.ScaleT = 1
	}
	return s
}

// scales reports whether the step carries a scaling component.
func (s Step) scales() bool {
	return s.ScaleX != 1 || s.ScaleY != 1 || s.ScaleT != 1
}

// validate rejects non-finite step parameters up front so a bad step fails
// before any copy is produced.
func (s Step) validate() error {
	checks := map[string]float64{
		"scale_x": s.ScaleX, "scale_y": s.ScaleY, "scale_t": s.ScaleT,
		"rotate": s.Rotate, "offset_x": s.OffsetX, "offset_y": s.OffsetY,
		"offset_t": s.OffsetT, "outset": s.Outset,
	}
	for name, v := range checks {
		if err := errors.ValidateFinite("stack", name, v); err != nil {
			return err
		}
	}
	return nil
}

// Stack produces count transformed copies of a seed selection along a
// guide rail and returns a snapshot holding only the copies. Copy i has
// the step delta applied i times; the pivot for each application is the
// ORIGINAL guide rail evaluated at the i-th spacing parameter, never a
// previously generated copy, so time drift cannot compound across steps.
func Stack(seed *synth.Snapshot, guide synth.Rail, count int, step Step, spacing SpacingMode) (*synth.Snapshot, error) {
	if err := errors.ValidateCount("stack", "count", count, 4096); err != nil {
		return nil, err
	}
	if guide.Degenerate() {
		return nil, errors.New(errors.ErrCodeMalformedRail,
			"stack guide rail needs at least 2 points, got %d", len(guide.Points))
	}
	step = step.normalized()
	if err := step.validate(); err != nil {
		return nil, err
	}

	pivots, err := stackPivots(guide, count, spacing)
	if err != nil {
		return nil, err
	}

	out := synth.NewSnapshot(seed.BPM)
	working := seed.Clone()
	for i := 0; i < count; i++ {
		working = applyStep(working, step, pivots[i])
		out = out.Merge(working)
	}
	return out, nil
}

// stackPivots evaluates the guide rail at count parameters in (0, 1],
// spaced evenly in time or in arclength.
func stackPivots(guide synth.Rail, count int, spacing SpacingMode) ([]synth.Point, error) {
	pivots := make([]synth.Point, count)
	switch spacing {
	case SpacingArclength:
		total, cumulative := arclengths(guide)
		if total == 0 {
			// Zero-length path (all points stacked in XY): fall back to
			// even time spacing.
			return stackPivots(guide, count, SpacingEven)
		}
		for i := range pivots {
			target := total * float64(i+1) / float64(count)
			pivots[i] = pointAtArclength(guide, cumulative, target)
		}
	case SpacingEven, "":
		start, end := guide.Start().T, guide.End().T
		for i := range pivots {
			t := start + (end-start)*float64(i+1)/float64(count)
			pivots[i] = PositionAt(guide, t, InterpLinear)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown spacing mode %q", spacing)
	}
	return pivots, nil
}

// arclengths returns the total XY arclength of the rail and the cumulative
// length at each control point.
func arclengths(rail synth.Rail) (total float64, cumulative []float64) {
	cumulative = make([]float64, len(rail.Points))
	for i := 1; i < len(rail.Points); i++ {
		total += rail.Points[i].DistXY(rail.Points[i-1])
		cumulative[i] = total
	}
	return total, cumulative
}

// pointAtArclength walks the rail's segments to the point at the given
// arclength from the start.
func pointAtArclength(rail synth.Rail, cumulative []float64, target float64) synth.Point {
	pts := rail.Points
	for i := 1; i < len(pts); i++ {
		if cumulative[i] < target {
			continue
		}
		segLen := cumulative[i] - cumulative[i-1]
		if segLen == 0 {
			return pts[i]
		}
		f := (target - cumulative[i-1]) / segLen
		return synth.Point{
			X: pts[i-1].X + (pts[i].X-pts[i-1].X)*f,
			Y: pts[i-1].Y + (pts[i].Y-pts[i-1].Y)*f,
			T: pts[i-1].T + (pts[i].T-pts[i-1].T)*f,
		}
	}
	return pts[len(pts)-1]
}

// applyStep applies one step delta to every group of a snapshot about the
// given pivot, in the fixed scale-rotate-offset-outset order.
func applyStep(s *synth.Snapshot, step Step, pivot synth.Point) *synth.Snapshot {
	out := synth.NewSnapshot(s.BPM)

	points := func(in []synth.Point) []synth.Point {
		p := in
		if step.scales() {
			p = geom.Scale(p, step.ScaleX, step.ScaleY, step.ScaleT, pivot)
		}
		if step.Rotate != 0 {
			p = geom.Rotate(p, step.Rotate, pivot)
		}
		p = geom.Offset(p, step.OffsetX, step.OffsetY, step.OffsetT)
		if step.Outset != 0 {
			p = geom.Outset(p, step.Outset, pivot)
		}
		return p
	}

	for t, notes := range s.Notes {
		raw := make([]synth.Point, len(notes))
		for i, n := range notes {
			raw[i] = n.P
		}
		moved := points(raw)
		group := make([]synth.Note, len(notes))
		for i := range notes {
			group[i] = synth.Note{Type: t, P: moved[i]}
		}
		out.Notes[t] = group
	}
	for t, group := range s.Rails {
		moved := make([]synth.Rail, len(group))
		for i, r := range group {
			moved[i] = synth.Rail{Type: t, Points: points(r.Points)}
		}
		out.Rails[t] = moved
	}
	if len(s.Walls) > 0 {
		walls := s.Walls
		if step.scales() {
			walls = geom.ScaleWalls(walls, step.ScaleX, step.ScaleY, step.ScaleT, pivot)
		}
		if step.Rotate != 0 {
			walls = geom.RotateWalls(walls, step.Rotate, pivot)
		}
		walls = geom.OffsetWalls(walls, step.OffsetX, step.OffsetY, step.OffsetT, false)
		if step.Outset != 0 {
			walls = geom.OutsetWalls(walls, step.Outset, pivot)
		}
		out.Walls = walls
	}
	return out
}
