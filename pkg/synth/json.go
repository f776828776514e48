package synth

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/railsmith/railsmith/pkg/errors"
)

// file is the wire shape: a mapping from (object kind, color/type) to
// numeric arrays of fixed column width. Notes and rail points use 3 columns
// (x, y, t); walls use 5 (x, y, t, wall-type id, rotation degrees).
type file struct {
	BPM   float64                  `json:"bpm"`
	Notes map[string][][]float64   `json:"notes,omitempty"`
	Rails map[string][][][]float64 `json:"rails,omitempty"`
	Walls [][]float64              `json:"walls,omitempty"`
}

// ReadSnapshot decodes the wire-shape JSON from r into a validated
// Snapshot.
//
// It returns INVALID_FORMAT for malformed JSON or wrong column counts,
// MALFORMED_RAIL for rails violating time ordering, and UNKNOWN_WALL_TYPE
// for unrecognized wall type ids. Wall positions are shifted to their
// rotation centers on the way in; WriteSnapshot reverses the shift.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}

	out := NewSnapshot(f.BPM)
	for name, rows := range f.Notes {
		t, err := ParseNoteType(name)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			p, err := pointFromRow(row)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "notes/%s[%d]", name, i)
			}
			out.Notes[t] = append(out.Notes[t], Note{Type: t, P: p})
		}
	}
	for name, railRows := range f.Rails {
		t, err := ParseNoteType(name)
		if err != nil {
			return nil, err
		}
		for i, rows := range railRows {
			points := make([]Point, len(rows))
			for j, row := range rows {
				p, err := pointFromRow(row)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "rails/%s[%d][%d]", name, i, j)
				}
				points[j] = p
			}
			rail, err := NewRail(t, points)
			if err != nil {
				return nil, err
			}
			out.Rails[t] = append(out.Rails[t], rail)
		}
	}
	for i, row := range f.Walls {
		if len(row) != 5 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "walls[%d]: want 5 columns, got %d", i, len(row))
		}
		w, err := NewWall(Point{X: row[0], Y: row[1], T: row[2]}, WallType(row[3]), row[4])
		if err != nil {
			return nil, err
		}
		out.Walls = append(out.Walls, w)
	}
	out.sort()
	return out, nil
}

func pointFromRow(row []float64) (Point, error) {
	if len(row) != 3 {
		return Point{}, errors.New(errors.ErrCodeInvalidFormat, "want 3 columns, got %d", len(row))
	}
	return Point{X: row[0], Y: row[1], T: row[2]}, nil
}

// WriteSnapshot encodes a snapshot to the wire-shape JSON. Output group
// contents are sorted by time and wall positions are converted back to
// their visual origins, so ReadSnapshot(WriteSnapshot(s)) round-trips.
func WriteSnapshot(s *Snapshot, w io.Writer) error {
	sorted := s.Sorted()
	f := file{BPM: sorted.BPM}

	for _, t := range NoteTypes {
		notes := sorted.Notes[t]
		if len(notes) == 0 {
			continue
		}
		if f.Notes == nil {
			f.Notes = make(map[string][][]float64)
		}
		rows := make([][]float64, len(notes))
		for i, n := range notes {
			rows[i] = []float64{n.P.X, n.P.Y, n.P.T}
		}
		f.Notes[t.String()] = rows
	}
	for _, t := range NoteTypes {
		rails := sorted.Rails[t]
		if len(rails) == 0 {
			continue
		}
		if f.Rails == nil {
			f.Rails = make(map[string][][][]float64)
		}
		railRows := make([][][]float64, len(rails))
		for i, r := range rails {
			rows := make([][]float64, len(r.Points))
			for j, p := range r.Points {
				rows[j] = []float64{p.X, p.Y, p.T}
			}
			railRows[i] = rows
		}
		f.Rails[t.String()] = railRows
	}
	for _, wall := range sorted.Walls {
		origin := wall.Origin()
		f.Walls = append(f.Walls, []float64{origin.X, origin.Y, origin.T, float64(wall.Type), wall.Rotation})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// MarshalSnapshot returns the wire-shape JSON bytes for a snapshot.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot parses wire-shape JSON bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	return ReadSnapshot(bytes.NewReader(data))
}

// ImportFile reads a snapshot from a JSON file at path.
func ImportFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ExportFile writes a snapshot to a JSON file at path.
func ExportFile(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteSnapshot(s, f)
}
