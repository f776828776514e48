package synth

import "testing"

func testSnapshot() *Snapshot {
	s := NewSnapshot(120)
	s.Notes[NoteRight] = []Note{
		{Type: NoteRight, P: Point{X: 1, T: 0}},
		{Type: NoteRight, P: Point{X: 2, T: 1}},
	}
	s.Notes[NoteLeft] = []Note{{Type: NoteLeft, P: Point{X: -1, T: 0.5}}}
	s.Rails[NoteRight] = []Rail{
		{Type: NoteRight, Points: []Point{{T: 0}, {X: 1, T: 1}}},
	}
	s.Walls = []Wall{{P: Point{T: 2}, Type: WallSquare}}
	return s
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := testSnapshot()
	c := s.Clone()

	c.Notes[NoteRight][0].P.X = 99
	c.Rails[NoteRight][0].Points[0].X = 99
	c.Walls[0].Rotation = 99

	if s.Notes[NoteRight][0].P.X == 99 {
		t.Error("clone aliases notes")
	}
	if s.Rails[NoteRight][0].Points[0].X == 99 {
		t.Error("clone aliases rail points")
	}
	if s.Walls[0].Rotation == 99 {
		t.Error("clone aliases walls")
	}
}

func TestSnapshotFilter(t *testing.T) {
	s := testSnapshot()

	byType := s.Filter(Select(nil, []NoteType{NoteLeft}))
	if len(byType.Notes[NoteRight]) != 0 || len(byType.Notes[NoteLeft]) != 1 {
		t.Errorf("type filter kept wrong notes: %+v", byType.Notes)
	}
	if len(byType.Rails[NoteRight]) != 0 {
		t.Error("type filter should drop right rails")
	}
	if len(byType.Walls) != 1 {
		t.Error("type filter should keep walls")
	}

	byKind := s.Filter(Select([]Kind{KindWalls}, nil))
	if c := byKind.Count(); c.Notes != 0 || c.Rails != 0 || c.Walls != 1 {
		t.Errorf("kind filter kept non-walls: %+v", c)
	}
}

func TestSnapshotMerge(t *testing.T) {
	a := NewSnapshot(120)
	a.Notes[NoteRight] = []Note{{Type: NoteRight, P: Point{T: 1}}}

	b := NewSnapshot(90)
	b.Notes[NoteRight] = []Note{{Type: NoteRight, P: Point{T: 0}}}
	b.Walls = []Wall{{P: Point{T: 0.5}, Type: WallSquare}}

	m := a.Merge(b)
	if m.BPM != 120 {
		t.Errorf("BPM = %v, receiver's should win", m.BPM)
	}
	if len(m.Notes[NoteRight]) != 2 {
		t.Fatalf("merged notes = %d, want 2", len(m.Notes[NoteRight]))
	}
	// Merge re-sorts by time.
	if m.Notes[NoteRight][0].P.T != 0 {
		t.Error("merged notes should be time-sorted")
	}
	if len(m.Walls) != 1 {
		t.Errorf("merged walls = %d, want 1", len(m.Walls))
	}
}

func TestSnapshotCount(t *testing.T) {
	c := testSnapshot().Count()
	if c.Notes != 3 {
		t.Errorf("Notes = %d, want 3", c.Notes)
	}
	if c.Rails != 1 {
		t.Errorf("Rails = %d, want 1", c.Rails)
	}
	if c.RailNodes != 2 {
		t.Errorf("RailNodes = %d, want 2", c.RailNodes)
	}
	if c.Walls != 1 {
		t.Errorf("Walls = %d, want 1", c.Walls)
	}
}

func TestSnapshotTimeSpan(t *testing.T) {
	first, last, ok := testSnapshot().TimeSpan()
	if !ok {
		t.Fatal("TimeSpan should find objects")
	}
	if first != 0 || last != 2 {
		t.Errorf("TimeSpan = (%v, %v), want (0, 2)", first, last)
	}

	if _, _, ok := NewSnapshot(120).TimeSpan(); ok {
		t.Error("empty snapshot should report no span")
	}
}

func TestSnapshotEmpty(t *testing.T) {
	if !NewSnapshot(120).Empty() {
		t.Error("fresh snapshot should be empty")
	}
	if testSnapshot().Empty() {
		t.Error("populated snapshot should not be empty")
	}
}

func TestSelection(t *testing.T) {
	all := SelectAll()
	if !all.HasKind(KindNotes) || !all.HasType(NoteBoth) {
		t.Error("zero selection should cover everything")
	}
	if all.KindList() != nil || all.TypeList() != nil {
		t.Error("zero selection lists should be nil")
	}

	sel := Select([]Kind{KindRails}, []NoteType{NoteLeft, NoteRight})
	if sel.HasKind(KindNotes) {
		t.Error("kind filtering broken")
	}
	if sel.HasType(NoteSingle) {
		t.Error("type filtering broken")
	}
	// Lists come back in canonical order regardless of input order.
	types := sel.TypeList()
	if len(types) != 2 || types[0] != NoteRight || types[1] != NoteLeft {
		t.Errorf("TypeList = %v, want [right left]", types)
	}
}
