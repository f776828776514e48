package rails

import (
	"testing"

	"github.com/railsmith/railsmith/pkg/synth"
)

func TestShorten(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, T: 0},
		synth.Point{X: 2, T: 2},
	)

	// Trim half a measure from the end.
	out, err := Shorten(rail, 0.5, InterpLinear)
	if err != nil {
		t.Fatalf("Shorten error: %v", err)
	}
	if out.End().T != 1.5 || out.End().X != 1.5 {
		t.Errorf("end = %v, want (1.5, 0, 1.5)", out.End())
	}

	// Negative distance trims from the start.
	out, err = Shorten(rail, -0.5, InterpLinear)
	if err != nil {
		t.Fatalf("Shorten error: %v", err)
	}
	if out.Start().T != 0.5 || out.End().T != 2 {
		t.Errorf("span = [%v, %v], want [0.5, 2]", out.Start().T, out.End().T)
	}

	// Trimming the whole duration collapses to the surviving end.
	out, err = Shorten(rail, 5, InterpLinear)
	if err != nil {
		t.Fatalf("Shorten error: %v", err)
	}
	if len(out.Points) != 1 || out.Points[0] != rail.Start() {
		t.Errorf("collapsed rail = %+v, want single point at start", out.Points)
	}

	// Zero distance is a no-op.
	out, err = Shorten(rail, 0, InterpLinear)
	if err != nil || len(out.Points) != 2 {
		t.Errorf("no-op shorten changed the rail: %+v, %v", out.Points, err)
	}
}

func TestExtendLevel(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 1, Y: 2, T: 0},
		synth.Point{X: 3, Y: 4, T: 1},
	)

	out, err := ExtendLevel(rail, 0.5)
	if err != nil {
		t.Fatalf("ExtendLevel error: %v", err)
	}
	end := out.End()
	if end.X != 3 || end.Y != 4 || end.T != 1.5 {
		t.Errorf("end = %v, want (3, 4, 1.5)", end)
	}

	out, err = ExtendLevel(rail, -0.5)
	if err != nil {
		t.Fatalf("ExtendLevel error: %v", err)
	}
	start := out.Start()
	if start.X != 1 || start.Y != 2 || start.T != -0.5 {
		t.Errorf("start = %v, want (1, 2, -0.5)", start)
	}
}

func TestExtendStraight(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, Y: 0, T: 0},
		synth.Point{X: 1, Y: 2, T: 1},
	)

	// Continue the last segment's direction for half a measure.
	out, err := ExtendStraight(rail, 0.5)
	if err != nil {
		t.Fatalf("ExtendStraight error: %v", err)
	}
	end := out.End()
	if end.X != 1.5 || end.Y != 3 || end.T != 1.5 {
		t.Errorf("end = %v, want (1.5, 3, 1.5)", end)
	}

	// Negative distance continues the first segment backwards.
	out, err = ExtendStraight(rail, -0.5)
	if err != nil {
		t.Fatalf("ExtendStraight error: %v", err)
	}
	start := out.Start()
	if start.X != -0.5 || start.Y != -1 || start.T != -0.5 {
		t.Errorf("start = %v, want (-0.5, -1, -0.5)", start)
	}
}

func TestExtendStraightDegenerate(t *testing.T) {
	rail := synth.Rail{Type: synth.NoteRight, Points: []synth.Point{{T: 0}}}
	out, err := ExtendStraight(rail, 1)
	if err != nil {
		t.Fatalf("ExtendStraight error: %v", err)
	}
	if len(out.Points) != 1 {
		t.Error("degenerate rail has no direction to extend")
	}

	// ExtendLevel can grow a degenerate rail into a proper one.
	out, err = ExtendLevel(rail, 1)
	if err != nil {
		t.Fatalf("ExtendLevel error: %v", err)
	}
	if len(out.Points) != 2 {
		t.Errorf("points = %d, want 2", len(out.Points))
	}
}
