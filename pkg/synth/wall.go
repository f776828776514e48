package synth

import (
	"math"

	"github.com/railsmith/railsmith/pkg/errors"
)

// WallType identifies an obstacle shape.
type WallType int

// Wall types, matching the wire ids used by the editor clipboard format.
const (
	WallLeft       WallType = 0
	WallRight      WallType = 1
	WallAngleLeft  WallType = 2
	WallAngleRight WallType = 3
	WallCenter     WallType = 4
	WallCrouch     WallType = 98
	WallSquare     WallType = 99
	WallTriangle   WallType = 100
)

// wallInfo carries the per-type constants: display name, the offset from
// the stored visual origin to the rotation center, the type to substitute
// under a single-axis mirror, and the rotational symmetry in degrees.
type wallInfo struct {
	name string
	// center offset in grid units, applied in the wall's own frame
	offX, offY float64
	mirror     WallType
	symmetry   float64
}

var wallTable = map[WallType]wallInfo{
	WallLeft:       {name: "wall_left", offX: 1.5, offY: 0, mirror: WallRight, symmetry: 360},
	WallRight:      {name: "wall_right", offX: -1.5, offY: 0, mirror: WallLeft, symmetry: 360},
	WallAngleLeft:  {name: "angle_left", offX: 1, offY: -1, mirror: WallAngleRight, symmetry: 360},
	WallAngleRight: {name: "angle_right", offX: -1, offY: -1, mirror: WallAngleLeft, symmetry: 360},
	WallCenter:     {name: "center", offX: 0, offY: -1.5, mirror: WallCenter, symmetry: 360},
	WallCrouch:     {name: "crouch", offX: 0, offY: 2, mirror: WallCrouch, symmetry: 360},
	WallSquare:     {name: "square", offX: 0, offY: 0, mirror: WallSquare, symmetry: 90},
	WallTriangle:   {name: "triangle", offX: 0, offY: 0, mirror: WallTriangle, symmetry: 120},
}

// String returns the lowercase name of the wall type.
func (t WallType) String() string {
	if info, ok := wallTable[t]; ok {
		return info.name
	}
	return "unknown"
}

// Valid reports whether t is a known wall type.
func (t WallType) Valid() bool {
	_, ok := wallTable[t]
	return ok
}

// MirrorType returns the wall type substituted when a wall is mirrored
// across a single axis. Symmetric shapes map to themselves.
func (t WallType) MirrorType() WallType {
	if info, ok := wallTable[t]; ok {
		return info.mirror
	}
	return t
}

// Symmetry returns the rotational symmetry of the shape in degrees
// (e.g. 90 for squares). Angles that differ by a multiple of the symmetry
// produce an identical visual.
func (t WallType) Symmetry() float64 {
	if info, ok := wallTable[t]; ok {
		return info.symmetry
	}
	return 360
}

// ParseWallType resolves a wall type name.
func ParseWallType(name string) (WallType, error) {
	for t, info := range wallTable {
		if info.name == name {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownWallType, "unknown wall type %q", name)
}

// Wall is an obstacle object. The stored position is the wall's rotation
// center, not its visual origin: NewWall applies the type-indexed center
// offset at construction and Origin reverses it symmetrically for
// serialization. Rotation is in degrees, counterclockwise.
type Wall struct {
	P        Point
	Type     WallType
	Rotation float64
}

// centerDelta returns the offset from visual origin to rotation center for
// the wall's type, rotated into the wall's frame.
func centerDelta(t WallType, rotation float64) (dx, dy float64, err error) {
	info, ok := wallTable[t]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeUnknownWallType, "unknown wall type id %d", t)
	}
	rad := rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return info.offX*cos - info.offY*sin, info.offX*sin + info.offY*cos, nil
}

// NewWall constructs a wall from its serialized visual origin, shifting the
// stored position to the rotation center. Unknown types fail with
// UNKNOWN_WALL_TYPE.
func NewWall(origin Point, t WallType, rotation float64) (Wall, error) {
	dx, dy, err := centerDelta(t, rotation)
	if err != nil {
		return Wall{}, err
	}
	return Wall{
		P:        Point{X: origin.X + dx, Y: origin.Y + dy, T: origin.T},
		Type:     t,
		Rotation: rotation,
	}, nil
}

// Origin returns the wall's serialized visual origin, reversing the
// rotation-center adjustment applied at construction.
func (w Wall) Origin() Point {
	dx, dy, err := centerDelta(w.Type, w.Rotation)
	if err != nil {
		// Walls are validated at construction; an unknown type here means
		// the value was built without NewWall. Return the stored position.
		return w.P
	}
	return Point{X: w.P.X - dx, Y: w.P.Y - dy, T: w.P.T}
}
