package synth

import (
	"slices"
	"sort"
)

// Snapshot is the full editable set, partitioned by (kind, color/type) into
// independent groups. All methods treat the receiver as immutable and
// return fresh containers.
type Snapshot struct {
	BPM   float64
	Notes map[NoteType][]Note
	Rails map[NoteType][]Rail
	Walls []Wall
}

// NewSnapshot creates an empty snapshot at the given BPM.
func NewSnapshot(bpm float64) *Snapshot {
	return &Snapshot{
		BPM:   bpm,
		Notes: make(map[NoteType][]Note),
		Rails: make(map[NoteType][]Rail),
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot(s.BPM)
	for t, notes := range s.Notes {
		out.Notes[t] = slices.Clone(notes)
	}
	for t, rails := range s.Rails {
		cloned := make([]Rail, len(rails))
		for i, r := range rails {
			cloned[i] = r.Clone()
		}
		out.Rails[t] = cloned
	}
	out.Walls = slices.Clone(s.Walls)
	return out
}

// Filter returns a copy containing only the groups the selection covers.
func (s *Snapshot) Filter(sel Selection) *Snapshot {
	out := NewSnapshot(s.BPM)
	if sel.HasKind(KindNotes) {
		for t, notes := range s.Notes {
			if sel.HasType(t) {
				out.Notes[t] = slices.Clone(notes)
			}
		}
	}
	if sel.HasKind(KindRails) {
		for t, rails := range s.Rails {
			if !sel.HasType(t) {
				continue
			}
			cloned := make([]Rail, len(rails))
			for i, r := range rails {
				cloned[i] = r.Clone()
			}
			out.Rails[t] = cloned
		}
	}
	if sel.HasKind(KindWalls) {
		out.Walls = slices.Clone(s.Walls)
	}
	return out
}

// Merge returns a new snapshot combining the receiver with other. Group
// contents are concatenated and re-sorted by time; the receiver's BPM wins.
func (s *Snapshot) Merge(other *Snapshot) *Snapshot {
	out := s.Clone()
	for t, notes := range other.Notes {
		out.Notes[t] = append(out.Notes[t], notes...)
	}
	for t, rails := range other.Rails {
		for _, r := range rails {
			out.Rails[t] = append(out.Rails[t], r.Clone())
		}
	}
	out.Walls = append(out.Walls, other.Walls...)
	out.sort()
	return out
}

// sort orders every group by time so exports and group iteration are
// deterministic regardless of construction order.
func (s *Snapshot) sort() {
	for t := range s.Notes {
		sort.SliceStable(s.Notes[t], func(i, j int) bool {
			return s.Notes[t][i].P.T < s.Notes[t][j].P.T
		})
	}
	for t := range s.Rails {
		sort.SliceStable(s.Rails[t], func(i, j int) bool {
			return s.Rails[t][i].Start().T < s.Rails[t][j].Start().T
		})
	}
	sort.SliceStable(s.Walls, func(i, j int) bool {
		return s.Walls[i].P.T < s.Walls[j].P.T
	})
}

// Sorted returns a copy with every group ordered by time.
func (s *Snapshot) Sorted() *Snapshot {
	out := s.Clone()
	out.sort()
	return out
}

// Counts summarizes object counts per kind.
type Counts struct {
	Notes     int
	Rails     int
	RailNodes int
	Walls     int
}

// Count tallies the snapshot's contents.
func (s *Snapshot) Count() Counts {
	var c Counts
	for _, notes := range s.Notes {
		c.Notes += len(notes)
	}
	for _, rails := range s.Rails {
		c.Rails += len(rails)
		for _, r := range rails {
			c.RailNodes += len(r.Points)
		}
	}
	c.Walls = len(s.Walls)
	return c
}

// Empty reports whether the snapshot holds no objects.
func (s *Snapshot) Empty() bool {
	c := s.Count()
	return c.Notes == 0 && c.Rails == 0 && c.Walls == 0
}

// TimeSpan returns the earliest and latest time covered by any object.
// ok is false for an empty snapshot.
func (s *Snapshot) TimeSpan() (first, last float64, ok bool) {
	update := func(t float64) {
		if !ok {
			first, last, ok = t, t, true
			return
		}
		if t < first {
			first = t
		}
		if t > last {
			last = t
		}
	}
	for _, notes := range s.Notes {
		for _, n := range notes {
			update(n.P.T)
		}
	}
	for _, rails := range s.Rails {
		for _, r := range rails {
			update(r.Start().T)
			update(r.End().T)
		}
	}
	for _, w := range s.Walls {
		update(w.P.T)
	}
	return first, last, ok
}
