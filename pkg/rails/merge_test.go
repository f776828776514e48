package rails

import (
	"testing"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

func mustRail(t *testing.T, nt synth.NoteType, points ...synth.Point) synth.Rail {
	t.Helper()
	r, err := synth.NewRail(nt, points)
	if err != nil {
		t.Fatalf("NewRail: %v", err)
	}
	return r
}

func TestMerge(t *testing.T) {
	a := mustRail(t, synth.NoteRight, synth.Point{T: 0}, synth.Point{X: 1, T: 1})
	b := mustRail(t, synth.NoteRight, synth.Point{X: 2, T: 1.5}, synth.Point{X: 3, T: 2})

	// Gap is 0.5: allowed at max gap 0.5, rejected at 0.1.
	merged, err := Merge(a, b, 0.5)
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if len(merged.Points) != 4 {
		t.Errorf("merged points = %d, want 4", len(merged.Points))
	}
	if merged.Start().T != 0 || merged.End().T != 2 {
		t.Errorf("merged span = [%v, %v], want [0, 2]", merged.Start().T, merged.End().T)
	}

	_, err = Merge(a, b, 0.1)
	if !errors.Is(err, errors.ErrCodeGapTooLarge) {
		t.Errorf("error = %v, want GAP_TOO_LARGE", err)
	}
}

func TestMergeOverlap(t *testing.T) {
	a := mustRail(t, synth.NoteRight, synth.Point{T: 0}, synth.Point{T: 1})
	b := mustRail(t, synth.NoteRight, synth.Point{T: 0.5}, synth.Point{T: 2})

	_, err := Merge(a, b, 10)
	if !errors.Is(err, errors.ErrCodeOverlap) {
		t.Errorf("error = %v, want OVERLAP", err)
	}
}

func TestMergeMixedTypes(t *testing.T) {
	a := mustRail(t, synth.NoteRight, synth.Point{T: 0}, synth.Point{T: 1})
	b := mustRail(t, synth.NoteLeft, synth.Point{T: 2}, synth.Point{T: 3})

	if _, err := Merge(a, b, 10); err == nil {
		t.Error("mixed types should fail")
	}
}

func TestMergeSeamDeduplication(t *testing.T) {
	// Coincident endpoints within merge accuracy: a's last point drops
	// and b's coordinates win at the seam.
	a := mustRail(t, synth.NoteRight, synth.Point{T: 0}, synth.Point{X: 1, Y: 1, T: 1})
	b := mustRail(t, synth.NoteRight, synth.Point{X: 1.05, Y: 1.05, T: 1}, synth.Point{X: 2, T: 2})

	merged, err := Merge(a, b, 1)
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if len(merged.Points) != 3 {
		t.Fatalf("merged points = %d, want 3 (seam deduplicated)", len(merged.Points))
	}
	if merged.Points[1].X != 1.05 {
		t.Errorf("seam x = %v, want 1.05 (second rail wins)", merged.Points[1].X)
	}
}

func TestMergeAssociativity(t *testing.T) {
	a := mustRail(t, synth.NoteRight, synth.Point{T: 0}, synth.Point{T: 1})
	b := mustRail(t, synth.NoteRight, synth.Point{X: 1, T: 1.2}, synth.Point{X: 1, T: 2})
	c := mustRail(t, synth.NoteRight, synth.Point{X: 2, T: 2.2}, synth.Point{X: 2, T: 3})

	ab, err := Merge(a, b, 0.5)
	if err != nil {
		t.Fatalf("Merge(a, b): %v", err)
	}
	abc1, err := Merge(ab, c, 0.5)
	if err != nil {
		t.Fatalf("Merge(ab, c): %v", err)
	}

	bc, err := Merge(b, c, 0.5)
	if err != nil {
		t.Fatalf("Merge(b, c): %v", err)
	}
	abc2, err := Merge(a, bc, 0.5)
	if err != nil {
		t.Fatalf("Merge(a, bc): %v", err)
	}

	if len(abc1.Points) != len(abc2.Points) {
		t.Fatalf("groupings differ: %d vs %d points", len(abc1.Points), len(abc2.Points))
	}
	for i := range abc1.Points {
		if abc1.Points[i] != abc2.Points[i] {
			t.Errorf("point %d differs: %v vs %v", i, abc1.Points[i], abc2.Points[i])
		}
	}
}

func TestMergeGroup(t *testing.T) {
	group := []synth.Rail{
		// Supplied out of time order on purpose.
		mustRail(t, synth.NoteRight, synth.Point{T: 3}, synth.Point{T: 4}),
		mustRail(t, synth.NoteRight, synth.Point{T: 0}, synth.Point{T: 1}),
		mustRail(t, synth.NoteRight, synth.Point{T: 1.2}, synth.Point{T: 2}),
	}

	// 0->1 and 1.2->2 merge (gap 0.2); the rail at 3 stays separate
	// (gap 1.0).
	out := MergeGroup(group, 0.5)
	if len(out) != 2 {
		t.Fatalf("MergeGroup = %d rails, want 2", len(out))
	}
	if out[0].Start().T != 0 || out[0].End().T != 2 {
		t.Errorf("first rail span = [%v, %v], want [0, 2]", out[0].Start().T, out[0].End().T)
	}

	if MergeGroup(nil, 1) != nil {
		t.Error("empty group should return nil")
	}
}
