package rails

import (
	"math"
	"testing"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

func TestParseInterpMode(t *testing.T) {
	tests := []struct {
		input   string
		want    InterpMode
		wantErr bool
	}{
		{"linear", InterpLinear, false},
		{"smooth", InterpSmooth, false},
		{"", InterpLinear, false},
		{"bezier", "", true},
	}

	for _, tt := range tests {
		got, err := ParseInterpMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseInterpMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseInterpMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResampleExactAtControlPoints(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, Y: 0, T: 0},
		synth.Point{X: 1, Y: 3, T: 1},
		synth.Point{X: 2, Y: 0, T: 2},
	)

	for _, mode := range []InterpMode{InterpLinear, InterpSmooth} {
		out, err := Resample(rail, []float64{0, 1, 2}, mode)
		if err != nil {
			t.Fatalf("%v: Resample error: %v", mode, err)
		}
		for i, p := range out.Points {
			if p != rail.Points[i] {
				t.Errorf("%v: point %d = %v, want exact control point %v", mode, i, p, rail.Points[i])
			}
		}
	}
}

func TestResampleLinearMidpoint(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, Y: 0, T: 0},
		synth.Point{X: 2, Y: 4, T: 2},
	)
	out, err := Resample(rail, []float64{0, 1, 2}, InterpLinear)
	if err != nil {
		t.Fatalf("Resample error: %v", err)
	}
	mid := out.Points[1]
	if mid.X != 1 || mid.Y != 2 || mid.T != 1 {
		t.Errorf("midpoint = %v, want (1, 2, 1)", mid)
	}
}

func TestResampleRejectsExtrapolation(t *testing.T) {
	rail := mustRail(t, synth.NoteRight, synth.Point{T: 1}, synth.Point{T: 2})

	for _, times := range [][]float64{{0.5, 1.5}, {1.5, 2.5}} {
		_, err := Resample(rail, times, InterpLinear)
		if !errors.Is(err, errors.ErrCodeExtrapolation) {
			t.Errorf("Resample(%v) error = %v, want EXTRAPOLATION", times, err)
		}
	}

	// Both span boundaries are inclusive.
	if _, err := Resample(rail, []float64{1, 2}, InterpLinear); err != nil {
		t.Errorf("boundary times should be allowed: %v", err)
	}
}

func TestResampleInterval(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, T: 0},
		synth.Point{X: 4, T: 1},
	)

	out, err := ResampleInterval(rail, 0.25, InterpLinear)
	if err != nil {
		t.Fatalf("ResampleInterval error: %v", err)
	}
	if len(out.Points) != 5 {
		t.Fatalf("points = %d, want 5", len(out.Points))
	}
	if out.Start().T != 0 || out.End().T != 1 {
		t.Errorf("span = [%v, %v], want [0, 1]", out.Start().T, out.End().T)
	}

	// An interval that does not divide the span still ends exactly at
	// the rail end.
	out, err = ResampleInterval(rail, 0.3, InterpLinear)
	if err != nil {
		t.Fatalf("ResampleInterval error: %v", err)
	}
	if out.End().T != 1 {
		t.Errorf("end = %v, want clamped to 1", out.End().T)
	}

	if _, err := ResampleInterval(rail, 0, InterpLinear); err == nil {
		t.Error("zero interval should fail")
	}
}

func TestResampleIntervalNegative(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{T: 0},
		synth.Point{T: 1},
	)
	out, err := ResampleInterval(rail, -0.3, InterpLinear)
	if err != nil {
		t.Fatalf("ResampleInterval error: %v", err)
	}
	// Spacing anchors at the end: 0, 0.1, 0.4, 0.7, 1.
	want := []float64{0, 0.1, 0.4, 0.7, 1}
	if len(out.Points) != len(want) {
		t.Fatalf("points = %d, want %d", len(out.Points), len(want))
	}
	for i, p := range out.Points {
		if math.Abs(p.T-want[i]) > 1e-9 {
			t.Errorf("point %d time = %v, want %v", i, p.T, want[i])
		}
	}
}

func TestPositionAtSmoothStaysNearPath(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, Y: 0, T: 0},
		synth.Point{X: 1, Y: 1, T: 1},
		synth.Point{X: 2, Y: 0, T: 2},
	)
	p := PositionAt(rail, 0.5, InterpSmooth)
	if p.T != 0.5 {
		t.Errorf("T = %v, want 0.5", p.T)
	}
	// Smooth interpolation differs from linear but stays bounded.
	if p.Y < 0 || p.Y > 1.5 {
		t.Errorf("Y = %v, outside plausible range", p.Y)
	}
}

func TestPositionAtClampsOutside(t *testing.T) {
	rail := mustRail(t, synth.NoteRight,
		synth.Point{X: 0, T: 1},
		synth.Point{X: 2, T: 2},
	)
	if p := PositionAt(rail, 0, InterpLinear); p != rail.Start() {
		t.Errorf("before span = %v, want start", p)
	}
	if p := PositionAt(rail, 9, InterpLinear); p != rail.End() {
		t.Errorf("after span = %v, want end", p)
	}
}
