package rails

import (
	"sort"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// NotesToRail builds a rail directly from notes of one color, ordered by
// time. Fewer than two notes, mixed colors, or duplicate times fail with
// the corresponding typed error; on success the notes become the rail's
// control points verbatim, so RailToNotes inverts the conversion exactly.
func NotesToRail(notes []synth.Note) (synth.Rail, error) {
	if len(notes) < 2 {
		return synth.Rail{}, errors.New(errors.ErrCodeMalformedRail,
			"need at least 2 notes to form a rail, got %d", len(notes))
	}
	t := notes[0].Type
	points := make([]synth.Point, len(notes))
	for i, n := range notes {
		if n.Type != t {
			return synth.Rail{}, errors.New(errors.ErrCodeInvalidInput,
				"cannot build a rail from mixed note types %s and %s", t, n.Type)
		}
		points[i] = n.P
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].T < points[j].T })
	return synth.NewRail(t, points)
}

// RailToNotes explodes a rail into one note per control point. It always
// succeeds, including for degenerate single-point rails.
func RailToNotes(rail synth.Rail) []synth.Note {
	notes := make([]synth.Note, len(rail.Points))
	for i, p := range rail.Points {
		notes[i] = synth.Note{Type: rail.Type, P: p}
	}
	return notes
}

// ConnectNotes chains single notes of one group into rails: consecutive
// notes no further apart than maxInterval become control points of one
// rail. Chained notes are consumed; isolated notes are returned unchanged.
func ConnectNotes(notes []synth.Note, maxInterval float64) ([]synth.Rail, []synth.Note) {
	if len(notes) == 0 {
		return nil, nil
	}
	sorted := make([]synth.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].P.T < sorted[j].P.T })

	var rails []synth.Rail
	var singles []synth.Note
	chain := []synth.Note{sorted[0]}
	flush := func() {
		if len(chain) >= 2 {
			if r, err := NotesToRail(chain); err == nil {
				rails = append(rails, r)
				chain = nil
				return
			}
		}
		singles = append(singles, chain...)
		chain = nil
	}
	for _, n := range sorted[1:] {
		if n.P.T-chain[len(chain)-1].P.T > maxInterval+MergeAccuracyBeat {
			flush()
		}
		chain = append(chain, n)
	}
	flush()
	return rails, singles
}

// RailsToNotes explodes every rail of a group into single notes. With
// keepRail the rails survive and only interior and end control points are
// emitted as notes, so the rail head is not doubled by a note.
func RailsToNotes(group []synth.Rail, keepRail bool) ([]synth.Rail, []synth.Note) {
	var rails []synth.Rail
	var notes []synth.Note
	for _, r := range group {
		exploded := RailToNotes(r)
		if keepRail {
			rails = append(rails, r.Clone())
			exploded = exploded[1:]
		}
		notes = append(notes, exploded...)
	}
	return rails, notes
}
