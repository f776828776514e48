package synth

import (
	"math"
	"testing"

	"github.com/railsmith/railsmith/pkg/errors"
)

func TestNewWallCenterShift(t *testing.T) {
	tests := []struct {
		name     string
		wallType WallType
		rotation float64
		// expected stored position for a wall serialized at the origin
		wantX, wantY float64
	}{
		{"left unrotated", WallLeft, 0, 1.5, 0},
		{"right unrotated", WallRight, 0, -1.5, 0},
		{"center unrotated", WallCenter, 0, 0, -1.5},
		{"crouch unrotated", WallCrouch, 0, 0, 2},
		{"square has no offset", WallSquare, 45, 0, 0},
		// Rotating a left wall 90 degrees turns its +X offset into +Y.
		{"left rotated 90", WallLeft, 90, 0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWall(Point{}, tt.wallType, tt.rotation)
			if err != nil {
				t.Fatalf("NewWall error: %v", err)
			}
			if math.Abs(w.P.X-tt.wantX) > 1e-9 || math.Abs(w.P.Y-tt.wantY) > 1e-9 {
				t.Errorf("center = (%v, %v), want (%v, %v)", w.P.X, w.P.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestWallOriginRoundTrip(t *testing.T) {
	for wt := range wallTable {
		for _, rot := range []float64{0, 30, 90, -45, 180} {
			origin := Point{X: 2, Y: -1, T: 4}
			w, err := NewWall(origin, wt, rot)
			if err != nil {
				t.Fatalf("NewWall(%v, %v) error: %v", wt, rot, err)
			}
			back := w.Origin()
			if math.Abs(back.X-origin.X) > 1e-9 || math.Abs(back.Y-origin.Y) > 1e-9 || back.T != origin.T {
				t.Errorf("%v at %v degrees: Origin() = %v, want %v", wt, rot, back, origin)
			}
		}
	}
}

func TestNewWallUnknownType(t *testing.T) {
	_, err := NewWall(Point{}, WallType(42), 0)
	if !errors.Is(err, errors.ErrCodeUnknownWallType) {
		t.Errorf("error = %v, want UNKNOWN_WALL_TYPE", err)
	}
}

func TestWallMirrorType(t *testing.T) {
	tests := []struct {
		in, want WallType
	}{
		{WallLeft, WallRight},
		{WallRight, WallLeft},
		{WallAngleLeft, WallAngleRight},
		{WallAngleRight, WallAngleLeft},
		{WallCenter, WallCenter},
		{WallSquare, WallSquare},
	}

	for _, tt := range tests {
		if got := tt.in.MirrorType(); got != tt.want {
			t.Errorf("%v.MirrorType() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWallSymmetry(t *testing.T) {
	if got := WallSquare.Symmetry(); got != 90 {
		t.Errorf("square symmetry = %v, want 90", got)
	}
	if got := WallTriangle.Symmetry(); got != 120 {
		t.Errorf("triangle symmetry = %v, want 120", got)
	}
	if got := WallLeft.Symmetry(); got != 360 {
		t.Errorf("left wall symmetry = %v, want 360", got)
	}
}

func TestParseWallType(t *testing.T) {
	got, err := ParseWallType("crouch")
	if err != nil || got != WallCrouch {
		t.Errorf("ParseWallType(crouch) = %v, %v", got, err)
	}
	if _, err := ParseWallType("pentagon"); err == nil {
		t.Error("unknown wall type name should fail")
	}
}
