package geom

import (
	"math"
	"testing"

	"github.com/railsmith/railsmith/pkg/synth"
)

func TestRotateWalls(t *testing.T) {
	walls := []synth.Wall{
		{P: synth.Point{X: 1, Y: 0, T: 1}, Type: synth.WallSquare, Rotation: 10},
		{P: synth.Point{X: 2, Y: 0, T: 2}, Type: synth.WallCrouch, Rotation: 10},
	}
	out := RotateWalls(walls, 90, synth.Point{})

	if math.Abs(out[0].P.X) > eps || math.Abs(out[0].P.Y-1) > eps {
		t.Errorf("center = %v, want (0, 1)", out[0].P)
	}
	if out[0].Rotation != 100 {
		t.Errorf("rotation = %v, want 100", out[0].Rotation)
	}
	// Crouch walls never rotate.
	if out[1].Rotation != 10 {
		t.Errorf("crouch rotation = %v, want 10", out[1].Rotation)
	}
	// Input untouched.
	if walls[0].Rotation != 10 {
		t.Error("input mutated")
	}
}

func TestMirrorWallsSwapsType(t *testing.T) {
	walls := []synth.Wall{{P: synth.Point{X: 2, Y: 1}, Type: synth.WallLeft, Rotation: 30}}
	out := MirrorWalls(walls, 90, synth.Point{})

	if out[0].Type != synth.WallRight {
		t.Errorf("type = %v, want wall_right", out[0].Type)
	}
	if math.Abs(out[0].P.X+2) > eps || math.Abs(out[0].P.Y-1) > eps {
		t.Errorf("center = %v, want (-2, 1)", out[0].P)
	}
	// Rotation reflects about the axis: 2*90 - 30 = 150.
	if out[0].Rotation != 150 {
		t.Errorf("rotation = %v, want 150", out[0].Rotation)
	}
}

func TestMirrorWallsTwiceRestoresType(t *testing.T) {
	walls := []synth.Wall{{P: synth.Point{X: 1, Y: 2}, Type: synth.WallAngleLeft, Rotation: 15}}
	out := MirrorWalls(MirrorWalls(walls, 45, synth.Point{}), 45, synth.Point{})

	if out[0].Type != synth.WallAngleLeft {
		t.Errorf("type = %v, want angle_left back", out[0].Type)
	}
	if math.Abs(out[0].P.X-1) > eps || math.Abs(out[0].P.Y-2) > eps {
		t.Errorf("center = %v, want (1, 2)", out[0].P)
	}
	if math.Abs(out[0].Rotation-15) > eps {
		t.Errorf("rotation = %v, want 15", out[0].Rotation)
	}
}

func TestScaleWallsSingleAxisMirror(t *testing.T) {
	walls := []synth.Wall{{P: synth.Point{X: 2, Y: 1}, Type: synth.WallLeft, Rotation: 30}}

	// fx < 0 alone mirrors: type swaps, rotation negates.
	out := ScaleWalls(walls, -1, 1, 1, synth.Point{})
	if out[0].Type != synth.WallRight || out[0].Rotation != -30 {
		t.Errorf("fx<0: type = %v, rotation = %v", out[0].Type, out[0].Rotation)
	}

	// fy < 0 alone additionally turns 180.
	out = ScaleWalls(walls, 1, -1, 1, synth.Point{})
	if out[0].Type != synth.WallRight || out[0].Rotation != 150 {
		t.Errorf("fy<0: type = %v, rotation = %v, want wall_right, 150", out[0].Type, out[0].Rotation)
	}

	// Both negative is a point reflection: type and rotation survive.
	out = ScaleWalls(walls, -1, -1, 1, synth.Point{})
	if out[0].Type != synth.WallLeft || out[0].Rotation != 30 {
		t.Errorf("fx,fy<0: type = %v, rotation = %v", out[0].Type, out[0].Rotation)
	}
}

func TestScaleWallsNegativeTimeKeepsPairing(t *testing.T) {
	walls := []synth.Wall{
		{P: synth.Point{X: 1, T: 0}, Type: synth.WallLeft},
		{P: synth.Point{X: 2, T: 1}, Type: synth.WallRight},
	}
	out := ScaleWalls(walls, 1, 1, -1, synth.Point{})

	// Times reverse order; each wall keeps its own X and type.
	if out[0].Type != synth.WallRight || out[0].P.X != 2 || out[0].P.T != -1 {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].Type != synth.WallLeft || out[1].P.X != 1 || out[1].P.T != 0 {
		t.Errorf("out[1] = %+v", out[1])
	}
}

func TestOffsetWallsRelative(t *testing.T) {
	walls := []synth.Wall{{P: synth.Point{}, Type: synth.WallSquare, Rotation: 90}}

	// Absolute: delta applies in grid frame.
	out := OffsetWalls(walls, 1, 0, 0.5, false)
	if math.Abs(out[0].P.X-1) > eps || math.Abs(out[0].P.Y) > eps || out[0].P.T != 0.5 {
		t.Errorf("absolute offset = %v", out[0].P)
	}

	// Relative: a +X delta on a 90-degree wall moves it along +Y.
	out = OffsetWalls(walls, 1, 0, 0, true)
	if math.Abs(out[0].P.X) > eps || math.Abs(out[0].P.Y-1) > eps {
		t.Errorf("relative offset = %v, want (0, 1)", out[0].P)
	}
}

func TestOutsetWalls(t *testing.T) {
	walls := []synth.Wall{{P: synth.Point{X: 3, Y: 0}, Type: synth.WallCenter, Rotation: 45}}
	out := OutsetWalls(walls, 2, synth.Point{})
	if math.Abs(out[0].P.X-5) > eps {
		t.Errorf("center = %v, want x=5", out[0].P)
	}
	if out[0].Rotation != 45 || out[0].Type != synth.WallCenter {
		t.Error("outset must not touch rotation or type")
	}
}
