package rails

import (
	"sort"

	"github.com/railsmith/railsmith/pkg/synth"
)

// Split partitions a rail into two at the first control point with time at
// or after atTime. The split point is shared: it ends the first rail and
// starts the second.
//
// Splitting at or before the first point, at the last point, or past the
// last point is a no-op returning the original rail as the sole result
// (either side would otherwise be a degenerate single point). This is a
// documented edge case, not an error.
func Split(rail synth.Rail, atTime float64) []synth.Rail {
	idx := -1
	for i, p := range rail.Points {
		if p.T >= atTime {
			idx = i
			break
		}
	}
	if idx <= 0 || idx == len(rail.Points)-1 {
		return []synth.Rail{rail.Clone()}
	}
	return []synth.Rail{
		{Type: rail.Type, Points: clonePoints(rail.Points[:idx+1])},
		{Type: rail.Type, Points: clonePoints(rail.Points[idx:])},
	}
}

// SplitAtNotes splits the rails of one group at every single note that
// falls strictly inside a rail's time span. Each such note becomes the
// shared boundary control point of the two halves: its position replaces
// the interpolated rail position so mappers can nudge the seam by moving
// the note. Consumed notes are removed; notes outside any rail pass
// through.
func SplitAtNotes(group []synth.Rail, notes []synth.Note) ([]synth.Rail, []synth.Note) {
	remaining := make([]synth.Note, 0, len(notes))
	work := make([]synth.Rail, 0, len(group))
	for _, r := range group {
		work = append(work, r.Clone())
	}
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].Start().T < work[j].Start().T
	})

	for _, n := range notes {
		split := false
		for i := 0; i < len(work); i++ {
			r := work[i]
			if n.P.T <= r.Start().T || n.P.T >= r.End().T {
				continue
			}
			first, second := splitAtPoint(r, n.P)
			work[i] = first
			work = append(work, synth.Rail{})
			copy(work[i+2:], work[i+1:])
			work[i+1] = second
			split = true
			break
		}
		if !split {
			remaining = append(remaining, n)
		}
	}
	return work, remaining
}

// splitAtPoint cuts a rail at boundary.T, using the boundary point itself
// as the shared seam. Control points at exactly boundary.T are replaced.
func splitAtPoint(rail synth.Rail, boundary synth.Point) (first, second synth.Rail) {
	var before, after []synth.Point
	for _, p := range rail.Points {
		switch {
		case p.T < boundary.T:
			before = append(before, p)
		case p.T > boundary.T:
			after = append(after, p)
		}
	}
	firstPoints := append(clonePoints(before), boundary)
	secondPoints := append([]synth.Point{boundary}, after...)
	return synth.Rail{Type: rail.Type, Points: firstPoints},
		synth.Rail{Type: rail.Type, Points: secondPoints}
}
