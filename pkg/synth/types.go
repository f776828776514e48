// Package synth defines the beatmap object model: notes, rails and walls in
// grid-coordinate space, grouped by color/type into a Snapshot.
//
// All coordinates use editor grid units for X/Y (+x = right, +y = up) and
// measures (beats) for time. Every entity is a value: operations construct
// new containers instead of mutating the caller's data, so pivot resolution
// downstream never observes partially transformed positions.
package synth

import (
	"math"

	"github.com/railsmith/railsmith/pkg/errors"
)

// Point is a single (x, y, t) position. X and Y are grid units, T is in
// measures. Immutable value; transforms return new points.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, T: p.T + q.T}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, T: p.T - q.T}
}

// DistXY returns the Euclidean XY-plane distance between p and q.
func (p Point) DistXY(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// NoteType identifies the color/hand of a note or rail.
type NoteType int

// Note types, in wire-id order.
const (
	NoteRight  NoteType = iota // right hand
	NoteLeft                   // left hand
	NoteSingle                 // single-hand special
	NoteBoth                   // two-hand special
)

// NoteTypes lists all note types in canonical (wire-id) order.
var NoteTypes = []NoteType{NoteRight, NoteLeft, NoteSingle, NoteBoth}

var noteTypeNames = map[NoteType]string{
	NoteRight:  "right",
	NoteLeft:   "left",
	NoteSingle: "single",
	NoteBoth:   "both",
}

// String returns the lowercase name of the note type.
func (t NoteType) String() string {
	if s, ok := noteTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether t is one of the enumerated note types.
func (t NoteType) Valid() bool {
	_, ok := noteTypeNames[t]
	return ok
}

// ParseNoteType resolves a type name ("right", "left", "single", "both").
func ParseNoteType(name string) (NoteType, error) {
	for t, s := range noteTypeNames {
		if s == name {
			return t, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown note type %q", name)
}

// Kind distinguishes the three object families a Snapshot partitions into.
type Kind string

// Object kinds.
const (
	KindNotes Kind = "notes"
	KindRails Kind = "rails"
	KindWalls Kind = "walls"
)

// Kinds lists all object kinds in canonical order.
var Kinds = []Kind{KindNotes, KindRails, KindWalls}

// Note is a single discrete hit object of one color.
type Note struct {
	Type NoteType
	P    Point
}

// Selection names the groups an operation applies to. The zero value
// selects everything; objects outside the selection pass through any
// transform unmodified.
type Selection struct {
	kinds map[Kind]bool
	types map[NoteType]bool
}

// SelectAll returns a selection covering every kind and type.
func SelectAll() Selection { return Selection{} }

// Select builds a selection from explicit kinds and note types. Empty
// slices mean "all" for that axis.
func Select(kinds []Kind, types []NoteType) Selection {
	s := Selection{}
	if len(kinds) > 0 {
		s.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	if len(types) > 0 {
		s.types = make(map[NoteType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
	return s
}

// KindList returns the selected kinds in canonical order. A nil result
// means every kind.
func (s Selection) KindList() []Kind {
	if s.kinds == nil {
		return nil
	}
	var out []Kind
	for _, k := range Kinds {
		if s.kinds[k] {
			out = append(out, k)
		}
	}
	return out
}

// TypeList returns the selected note types in canonical order. A nil
// result means every type.
func (s Selection) TypeList() []NoteType {
	if s.types == nil {
		return nil
	}
	var out []NoteType
	for _, t := range NoteTypes {
		if s.types[t] {
			out = append(out, t)
		}
	}
	return out
}

// HasKind reports whether the selection covers the given kind.
func (s Selection) HasKind(k Kind) bool {
	return s.kinds == nil || s.kinds[k]
}

// HasType reports whether the selection covers the given note type.
func (s Selection) HasType(t NoteType) bool {
	return s.types == nil || s.types[t]
}
