// Package rails implements the rail topology engine: merging, splitting,
// resampling, note/rail conversion, and stacking of patterns along a
// rail's parametrization.
//
// Every operation is a pure function over value types from pkg/synth.
// Precondition failures return typed errors from pkg/errors; the package
// never retries, logs, or swallows an error.
package rails

import (
	"math"
	"slices"
	"sort"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// Merge accuracy: endpoints closer than these in time and grid position are
// treated as the same point and deduplicated when rails are joined.
const (
	MergeAccuracyBeat = 1.0 / 64
	MergeAccuracyGrid = 1.0 / 8
)

// Merge concatenates two rails of the same color into one.
//
// The time gap between a's last point and b's first point must be at most
// maxGap, otherwise GAP_TOO_LARGE is returned. Overlapping time ranges are
// rejected with OVERLAP rather than auto-resolved. Both failures are
// recoverable: the caller may retry with a larger gap or keep the rails
// separate.
//
// When the joint endpoints coincide within merge accuracy, a's last point
// is dropped so the merged rail keeps strictly increasing times; b's
// coordinates win at the seam. Merge is associative on gap-compatible
// triples.
func Merge(a, b synth.Rail, maxGap float64) (synth.Rail, error) {
	if a.Type != b.Type {
		return synth.Rail{}, errors.New(errors.ErrCodeInvalidInput,
			"cannot merge %s rail with %s rail", a.Type, b.Type)
	}
	if err := errors.ValidateFinite("merge", "max_gap", maxGap); err != nil {
		return synth.Rail{}, err
	}
	gap := b.Start().T - a.End().T
	if gap < -MergeAccuracyBeat {
		return synth.Rail{}, errors.New(errors.ErrCodeOverlap,
			"%s rails overlap: second starts at %v before first ends at %v", a.Type, b.Start().T, a.End().T)
	}
	if gap > maxGap {
		return synth.Rail{}, errors.New(errors.ErrCodeGapTooLarge,
			"%s rail gap %v exceeds max gap %v", a.Type, gap, maxGap)
	}

	head := a.Points
	if math.Abs(gap) <= MergeAccuracyBeat {
		head = head[:len(head)-1]
	}
	points := make([]synth.Point, 0, len(head)+len(b.Points))
	points = append(points, head...)
	points = append(points, b.Points...)
	return synth.Rail{Type: a.Type, Points: points}, nil
}

// MergeGroup joins consecutive rails of one group whose gaps are within
// maxInterval, scanning in time order. Rails too far apart, or overlapping,
// are left separate; the operation never fails. This is the group-level
// batch form of Merge.
func MergeGroup(group []synth.Rail, maxInterval float64) []synth.Rail {
	if len(group) == 0 {
		return nil
	}
	sorted := make([]synth.Rail, len(group))
	for i, r := range group {
		sorted[i] = r.Clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start().T < sorted[j].Start().T
	})

	out := []synth.Rail{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		merged, err := Merge(*last, r, maxInterval)
		if err != nil {
			out = append(out, r)
			continue
		}
		*last = merged
	}
	return out
}

// MergeSequential joins rails whose endpoints coincide within merge
// accuracy, the zero-configuration variant used as a pre-processing step.
func MergeSequential(group []synth.Rail) []synth.Rail {
	return MergeGroup(group, MergeAccuracyBeat)
}

// clonePoints is a small helper for operations that slice into rails.
func clonePoints(points []synth.Point) []synth.Point {
	return slices.Clone(points)
}
