package pipeline

import (
	"math"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/geom"
	"github.com/railsmith/railsmith/pkg/rails"
	"github.com/railsmith/railsmith/pkg/synth"
)

// =============================================================================
// Geometric Operations
// =============================================================================

type pointTransform func([]synth.Point, synth.Point) []synth.Point
type wallTransform func([]synth.Wall, synth.Point) []synth.Wall

// applyGeometry runs one geometric transform over a snapshot's selected
// groups. Groups outside the filter are carried over untouched. Group
// iteration order does not matter: no group's result depends on another.
//
// Pivot resolution happens once for the whole selection, except for
// rail-relative pivots, which re-resolve per object (per rail, per note,
// per wall).
func applyGeometry(s *synth.Snapshot, inv Invocation, points pointTransform, walls wallTransform) (*synth.Snapshot, error) {
	out := s.Clone()
	sel := inv.Filter

	groupPivot, err := resolveGroupPivot(s, inv)
	if err != nil {
		return nil, err
	}

	if sel.HasKind(synth.KindNotes) {
		for t, group := range out.Notes {
			if !sel.HasType(t) || len(group) == 0 {
				continue
			}
			if inv.Pivot.PerRail() {
				// A lone note is its own reference object.
				for i := range group {
					pv, err := inv.Pivot.Resolve([]synth.Point{group[i].P})
					if err != nil {
						return nil, err
					}
					group[i].P = points([]synth.Point{group[i].P}, pv)[0]
				}
				continue
			}
			pts := make([]synth.Point, len(group))
			for i, n := range group {
				pts[i] = n.P
			}
			moved := points(pts, groupPivot)
			for i := range group {
				group[i].P = moved[i]
			}
		}
	}

	if sel.HasKind(synth.KindRails) {
		for t, group := range out.Rails {
			if !sel.HasType(t) {
				continue
			}
			for i, r := range group {
				pv := groupPivot
				if inv.Pivot.PerRail() {
					if pv, err = inv.Pivot.Resolve(r.Points); err != nil {
						return nil, err
					}
				}
				group[i].Points = points(r.Points, pv)
			}
		}
	}

	if sel.HasKind(synth.KindWalls) && len(out.Walls) > 0 {
		if inv.Pivot.PerRail() {
			for i, w := range out.Walls {
				pv, err := inv.Pivot.Resolve([]synth.Point{w.P})
				if err != nil {
					return nil, err
				}
				out.Walls[i] = walls([]synth.Wall{w}, pv)[0]
			}
		} else {
			out.Walls = walls(out.Walls, groupPivot)
		}
	}

	return out.Sorted(), nil
}

// resolveGroupPivot resolves the shared pivot for an invocation. Centroid
// pivots average every selected point of the current state; grid and
// explicit pivots need no points at all. Rail-relative pivots resolve per
// object and are not handled here.
func resolveGroupPivot(s *synth.Snapshot, inv Invocation) (synth.Point, error) {
	if inv.Pivot.PerRail() {
		return synth.Point{}, nil
	}
	if inv.Pivot.Mode != geom.PivotCentroid {
		return inv.Pivot.Resolve(nil)
	}
	sel := inv.Filter
	var pts []synth.Point
	if sel.HasKind(synth.KindNotes) {
		for t, group := range s.Notes {
			if !sel.HasType(t) {
				continue
			}
			for _, n := range group {
				pts = append(pts, n.P)
			}
		}
	}
	if sel.HasKind(synth.KindRails) {
		for t, group := range s.Rails {
			if !sel.HasType(t) {
				continue
			}
			for _, r := range group {
				pts = append(pts, r.Points...)
			}
		}
	}
	if sel.HasKind(synth.KindWalls) {
		for _, w := range s.Walls {
			pts = append(pts, w.P)
		}
	}
	return inv.Pivot.Resolve(pts)
}

func applyRotate(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	if err := errors.ValidateFinite(OpRotate, "angle", inv.Args.Angle); err != nil {
		return nil, err
	}
	return applyGeometry(s, inv,
		func(pts []synth.Point, pv synth.Point) []synth.Point {
			return geom.Rotate(pts, inv.Args.Angle, pv)
		},
		func(ws []synth.Wall, pv synth.Point) []synth.Wall {
			return geom.RotateWalls(ws, inv.Args.Angle, pv)
		})
}

func applyScale(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	for name, v := range map[string]float64{"fx": inv.Args.FX, "fy": inv.Args.FY, "ft": inv.Args.FT} {
		if err := errors.ValidateFinite(OpScale, name, v); err != nil {
			return nil, err
		}
	}
	return applyGeometry(s, inv,
		func(pts []synth.Point, pv synth.Point) []synth.Point {
			return geom.Scale(pts, inv.Args.FX, inv.Args.FY, inv.Args.FT, pv)
		},
		func(ws []synth.Wall, pv synth.Point) []synth.Wall {
			return geom.ScaleWalls(ws, inv.Args.FX, inv.Args.FY, inv.Args.FT, pv)
		})
}

func applyMirror(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	if err := errors.ValidateFinite(OpMirror, "angle", inv.Args.Angle); err != nil {
		return nil, err
	}
	return applyGeometry(s, inv,
		func(pts []synth.Point, pv synth.Point) []synth.Point {
			return geom.Mirror(pts, inv.Args.Angle, pv)
		},
		func(ws []synth.Wall, pv synth.Point) []synth.Wall {
			return geom.MirrorWalls(ws, inv.Args.Angle, pv)
		})
}

func applyOutset(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	if err := errors.ValidateFinite(OpOutset, "distance", inv.Args.Distance); err != nil {
		return nil, err
	}
	return applyGeometry(s, inv,
		func(pts []synth.Point, pv synth.Point) []synth.Point {
			return geom.Outset(pts, inv.Args.Distance, pv)
		},
		func(ws []synth.Wall, pv synth.Point) []synth.Wall {
			return geom.OutsetWalls(ws, inv.Args.Distance, pv)
		})
}

func applyOffset(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	for name, v := range map[string]float64{"dx": inv.Args.DX, "dy": inv.Args.DY, "dt": inv.Args.DT} {
		if err := errors.ValidateFinite(OpOffset, name, v); err != nil {
			return nil, err
		}
	}
	return applyGeometry(s, inv,
		func(pts []synth.Point, pv synth.Point) []synth.Point {
			return geom.Offset(pts, inv.Args.DX, inv.Args.DY, inv.Args.DT)
		},
		func(ws []synth.Wall, pv synth.Point) []synth.Wall {
			return geom.OffsetWalls(ws, inv.Args.DX, inv.Args.DY, inv.Args.DT, inv.Args.Relative)
		})
}

// =============================================================================
// Rail Topology Operations
// =============================================================================

func applyMergeRails(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	// Zero is allowed: it joins only rails whose endpoints touch.
	if err := errors.ValidateNonNegative(OpMergeRails, "max_gap", inv.Args.MaxGap); err != nil {
		return nil, err
	}
	if !inv.Filter.HasKind(synth.KindRails) {
		return s.Clone(), nil
	}
	out := s.Clone()
	for t, group := range out.Rails {
		if !inv.Filter.HasType(t) {
			continue
		}
		out.Rails[t] = rails.MergeGroup(group, inv.Args.MaxGap)
	}
	return out, nil
}

func applyConnectNotes(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	if err := errors.ValidatePositive(OpConnectNotes, "max_interval", inv.Args.MaxInterval); err != nil {
		return nil, err
	}
	if !inv.Filter.HasKind(synth.KindNotes) {
		return s.Clone(), nil
	}
	out := s.Clone()
	for t, group := range out.Notes {
		if !inv.Filter.HasType(t) {
			continue
		}
		chained, remaining := rails.ConnectNotes(group, inv.Args.MaxInterval)
		out.Notes[t] = remaining
		out.Rails[t] = append(out.Rails[t], chained...)
	}
	return out.Sorted(), nil
}

func applySplitAtNotes(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	if !inv.Filter.HasKind(synth.KindRails) {
		return s.Clone(), nil
	}
	out := s.Clone()
	for t, group := range out.Rails {
		if !inv.Filter.HasType(t) {
			continue
		}
		split, remaining := rails.SplitAtNotes(group, out.Notes[t])
		out.Rails[t] = split
		out.Notes[t] = remaining
	}
	return out.Sorted(), nil
}

func applyRailsToNotes(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	if !inv.Filter.HasKind(synth.KindRails) {
		return s.Clone(), nil
	}
	out := s.Clone()
	for t, group := range out.Rails {
		if !inv.Filter.HasType(t) {
			continue
		}
		kept, notes := rails.RailsToNotes(group, inv.Args.KeepRails)
		out.Rails[t] = kept
		out.Notes[t] = append(out.Notes[t], notes...)
	}
	return out.Sorted(), nil
}

func applyStack(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	guide, ok := guideRail(s, inv.Filter)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stack needs at least one selected rail as guide")
	}
	seed := s.Filter(inv.Filter)
	copies, err := rails.Stack(seed, guide, inv.Args.Count, inv.Args.Step, inv.Args.Spacing)
	if err != nil {
		return nil, err
	}
	return s.Merge(copies), nil
}

// guideRail picks the earliest-starting selected rail as the stacking
// guide.
func guideRail(s *synth.Snapshot, sel synth.Selection) (synth.Rail, bool) {
	var best synth.Rail
	found := false
	for t, group := range s.Rails {
		if !sel.HasType(t) {
			continue
		}
		for _, r := range group {
			if !found || r.Start().T < best.Start().T {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// =============================================================================
// Color Cycling
// =============================================================================

// applyCycleColors rotates group membership among the selected note
// types: each group's notes and rails move to the next selected type, in
// canonical type order, shifted by Args.Shift. This is the one operation
// that works across groups; the mapping is computed from the original
// groups in a single pass, so no object moves twice.
func applyCycleColors(s *synth.Snapshot, inv Invocation) (*synth.Snapshot, error) {
	cycle := make([]synth.NoteType, 0, len(synth.NoteTypes))
	for _, t := range synth.NoteTypes {
		if inv.Filter.HasType(t) {
			cycle = append(cycle, t)
		}
	}
	if len(cycle) < 2 {
		return s.Clone(), nil
	}
	shift := inv.Args.Shift
	if shift == 0 {
		shift = 1
	}
	n := len(cycle)
	dest := make(map[synth.NoteType]synth.NoteType, n)
	for i, t := range cycle {
		dest[t] = cycle[((i+shift)%n+n)%n]
	}

	out := s.Clone()
	for _, t := range cycle {
		out.Notes[t] = nil
		out.Rails[t] = nil
	}
	for from, to := range dest {
		for _, note := range s.Notes[from] {
			note.Type = to
			out.Notes[to] = append(out.Notes[to], note)
		}
		for _, r := range s.Rails[from] {
			moved := r.Clone()
			moved.Type = to
			out.Rails[to] = append(out.Rails[to], moved)
		}
	}
	return out.Sorted(), nil
}

// =============================================================================
// Result Validation
// =============================================================================

// checkFinite rejects a snapshot containing non-finite coordinates,
// naming the operation, the offending axis and, where the mapping is
// direct, the parameter that feeds it. Scale factors large enough to
// overflow are the usual culprit.
func checkFinite(s *synth.Snapshot, op string) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
	fail := func(axis string) error {
		if param := finiteParam(op, axis); param != "" {
			return errors.New(errors.ErrCodeInvalidParameter,
				"operation %q parameter %q produced a non-finite %s coordinate", op, param, axis)
		}
		return errors.New(errors.ErrCodeInvalidParameter,
			"operation %q produced a non-finite %s coordinate", op, axis)
	}
	check := func(p synth.Point) error {
		switch {
		case bad(p.X):
			return fail("x")
		case bad(p.Y):
			return fail("y")
		case bad(p.T):
			return fail("t")
		}
		return nil
	}
	for _, group := range s.Notes {
		for _, n := range group {
			if err := check(n.P); err != nil {
				return err
			}
		}
	}
	for _, group := range s.Rails {
		for _, r := range group {
			for _, p := range r.Points {
				if err := check(p); err != nil {
					return err
				}
			}
		}
	}
	for _, w := range s.Walls {
		if err := check(w.P); err != nil {
			return err
		}
		if bad(w.Rotation) {
			return fail("rotation")
		}
	}
	return nil
}

// finiteParam maps an operation and the axis it corrupted back to the
// argument that feeds that axis, for the operations where the mapping is
// one-to-one. Empty means no single parameter is responsible.
func finiteParam(op, axis string) string {
	switch op {
	case OpScale:
		return map[string]string{"x": "fx", "y": "fy", "t": "ft"}[axis]
	case OpOffset:
		return map[string]string{"x": "dx", "y": "dy", "t": "dt"}[axis]
	case OpRotate, OpMirror:
		if axis != "t" {
			return "angle"
		}
	case OpOutset:
		if axis != "t" {
			return "distance"
		}
	}
	return ""
}
