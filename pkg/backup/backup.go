// Package backup persists snapshot versions so edits can be rolled back.
//
// Snapshots are stored as JSON blob files on disk, one per version, with
// a sqlite index carrying the metadata shown in listings (label, time,
// BPM, object counts). The index lets the CLI and the companion server
// list hundreds of versions without parsing any blob.
package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/synth"
)

// Entry is one stored snapshot version.
type Entry struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	BPM       float64   `json:"bpm"`
	Notes     int       `json:"notes"`
	Rails     int       `json:"rails"`
	Walls     int       `json:"walls"`
}

// Store is a directory-backed snapshot archive.
type Store struct {
	dir string
	db  *sql.DB
}

const schema = `
create table if not exists snapshots
  (
	  id text not null primary key,
	  label text,
	  created_at integer not null,
	  bpm real,
	  notes integer,
	  rails integer,
	  walls integer
  );
create index if not exists snapshots_created_at on snapshots(created_at);
`

// Open creates or opens a store in the given directory.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create backup dir")
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open backup index")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init backup index")
	}
	return &Store{dir: dir, db: db}, nil
}

// Close closes the index database.
func (st *Store) Close() error {
	return st.db.Close()
}

// Save stores a snapshot version and returns its entry. The label is
// free-form; the CLI passes the source file name.
func (st *Store) Save(ctx context.Context, label string, s *synth.Snapshot) (Entry, error) {
	data, err := synth.MarshalSnapshot(s)
	if err != nil {
		return Entry{}, err
	}

	counts := s.Count()
	entry := Entry{
		ID:        uuid.NewString(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
		BPM:       s.BPM,
		Notes:     counts.Notes,
		Rails:     counts.Rails,
		Walls:     counts.Walls,
	}

	if err := os.WriteFile(st.blobPath(entry.ID), data, 0644); err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "write backup blob")
	}
	_, err = st.db.ExecContext(ctx,
		"insert into snapshots(id, label, created_at, bpm, notes, rails, walls) values(?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.Label, entry.CreatedAt.Unix(), entry.BPM, entry.Notes, entry.Rails, entry.Walls)
	if err != nil {
		_ = os.Remove(st.blobPath(entry.ID))
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "index backup")
	}
	return entry, nil
}

// List returns all entries, newest first.
func (st *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := st.db.QueryContext(ctx,
		"select id, label, created_at, bpm, notes, rails, walls from snapshots order by created_at desc")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list backups")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Label, &created, &e.BPM, &e.Notes, &e.Rails, &e.Walls); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan backup entry")
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns a single entry by id.
func (st *Store) Get(ctx context.Context, id string) (Entry, error) {
	var e Entry
	var created int64
	err := st.db.QueryRowContext(ctx,
		"select id, label, created_at, bpm, notes, rails, walls from snapshots where id = ?", id).
		Scan(&e.ID, &e.Label, &created, &e.BPM, &e.Notes, &e.Rails, &e.Walls)
	if err == sql.ErrNoRows {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "backup %s not found", id)
	}
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "load backup entry")
	}
	e.CreatedAt = time.Unix(created, 0).UTC()
	return e, nil
}

// Load reads a stored snapshot back.
func (st *Store) Load(ctx context.Context, id string) (*synth.Snapshot, error) {
	if _, err := st.Get(ctx, id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(st.blobPath(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read backup blob")
	}
	return synth.UnmarshalSnapshot(data)
}

// Delete removes an entry and its blob.
func (st *Store) Delete(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, "delete from snapshots where id = ?", id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete backup entry")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeNotFound, "backup %s not found", id)
	}
	err = os.Remove(st.blobPath(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// blobPath is where a version's snapshot JSON lives.
func (st *Store) blobPath(id string) string {
	return filepath.Join(st.dir, id+".json")
}
