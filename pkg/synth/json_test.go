package synth

import (
	"strings"
	"testing"

	"github.com/railsmith/railsmith/pkg/errors"
)

const sampleJSON = `{
  "bpm": 120,
  "notes": {"right": [[1, 0, 0]], "left": [[-1, 1, 0.5]]},
  "rails": {"right": [[[0, 0, 0], [1, 1, 1]]]},
  "walls": [[0, 0, 2, 99, 45]]
}`

func TestReadSnapshot(t *testing.T) {
	s, err := ReadSnapshot(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadSnapshot error: %v", err)
	}
	if s.BPM != 120 {
		t.Errorf("BPM = %v, want 120", s.BPM)
	}
	if len(s.Notes[NoteRight]) != 1 || len(s.Notes[NoteLeft]) != 1 {
		t.Errorf("notes = %+v", s.Notes)
	}
	if len(s.Rails[NoteRight]) != 1 {
		t.Fatalf("rails = %+v", s.Rails)
	}
	if len(s.Walls) != 1 || s.Walls[0].Type != WallSquare || s.Walls[0].Rotation != 45 {
		t.Errorf("walls = %+v", s.Walls)
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errors.Code
	}{
		{
			name: "malformed json",
			json: `{"bpm":`,
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "wrong note columns",
			json: `{"bpm": 120, "notes": {"right": [[1, 0]]}}`,
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "wrong wall columns",
			json: `{"bpm": 120, "walls": [[0, 0, 0]]}`,
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "unknown wall type",
			json: `{"bpm": 120, "walls": [[0, 0, 0, 7, 0]]}`,
			code: errors.ErrCodeUnknownWallType,
		},
		{
			name: "rail time regression",
			json: `{"bpm": 120, "rails": {"right": [[[0, 0, 1], [0, 0, 0]]]}}`,
			code: errors.ErrCodeMalformedRail,
		},
		{
			name: "unknown note type name",
			json: `{"bpm": 120, "notes": {"purple": [[0, 0, 0]]}}`,
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tt.json))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v", got, tt.code)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := ReadSnapshot(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadSnapshot error: %v", err)
	}

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatalf("MarshalSnapshot error: %v", err)
	}
	back, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot error: %v", err)
	}

	if back.BPM != s.BPM {
		t.Errorf("BPM = %v, want %v", back.BPM, s.BPM)
	}
	if got, want := back.Count(), s.Count(); got != want {
		t.Errorf("Count = %+v, want %+v", got, want)
	}
	// Wall positions survive the origin/center conversion.
	if back.Walls[0] != s.Walls[0] {
		t.Errorf("wall = %+v, want %+v", back.Walls[0], s.Walls[0])
	}
}

func TestWriteSnapshotOmitsEmptyGroups(t *testing.T) {
	s := NewSnapshot(120)
	s.Notes[NoteRight] = []Note{{Type: NoteRight, P: Point{T: 0}}}

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatalf("MarshalSnapshot error: %v", err)
	}
	out := string(data)
	if strings.Contains(out, `"rails"`) || strings.Contains(out, `"walls"`) {
		t.Errorf("empty groups should be omitted: %s", out)
	}
}
