package pattern

import (
	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// Parallel doubles single-handed content onto the other hand, shifted
// sideways by distance. Existing left content is copied to the right
// hand at +distance and right content to the left at -distance; single
// and both-hand content is split across both hands at half the distance
// each and then removed. A negative distance produces crossovers.
// Walls are untouched.
func Parallel(s *synth.Snapshot, distance float64) (*synth.Snapshot, error) {
	if err := errors.ValidateFinite("parallel", "distance", distance); err != nil {
		return nil, err
	}

	out := synth.NewSnapshot(s.BPM)
	out.Walls = append(out.Walls, s.Walls...)

	half := distance / 2
	// Destination hand, source group, and sideways shift for every copy.
	copies := []struct {
		dst, src synth.NoteType
		shift    float64
	}{
		{synth.NoteLeft, synth.NoteLeft, 0},
		{synth.NoteLeft, synth.NoteRight, -distance},
		{synth.NoteLeft, synth.NoteSingle, -half},
		{synth.NoteLeft, synth.NoteBoth, -half},
		{synth.NoteRight, synth.NoteRight, 0},
		{synth.NoteRight, synth.NoteLeft, distance},
		{synth.NoteRight, synth.NoteSingle, half},
		{synth.NoteRight, synth.NoteBoth, half},
	}

	for _, c := range copies {
		for _, n := range s.Notes[c.src] {
			p := n.P
			p.X += c.shift
			out.Notes[c.dst] = append(out.Notes[c.dst], synth.Note{Type: c.dst, P: p})
		}
		for _, r := range s.Rails[c.src] {
			moved := r.Clone()
			moved.Type = c.dst
			for i := range moved.Points {
				moved.Points[i].X += c.shift
			}
			out.Rails[c.dst] = append(out.Rails[c.dst], moved)
		}
	}
	return out.Sorted(), nil
}
