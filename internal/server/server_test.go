package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/railsmith/railsmith/pkg/backup"
	"github.com/railsmith/railsmith/pkg/cache"
	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/pipeline"
	"github.com/railsmith/railsmith/pkg/synth"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() failed: %v", err)
	}
	t.Cleanup(func() { fc.Close() })
	runner := pipeline.NewRunner(fc, nil, nil)
	return New(runner, nil, nil)
}

func testSnapshotJSON(t *testing.T) json.RawMessage {
	t.Helper()
	snap := synth.NewSnapshot(120)
	snap.Notes[synth.NoteRight] = []synth.Note{
		{Type: synth.NoteRight, P: synth.Point{X: 1, Y: 0, T: 0}},
	}
	data, err := synth.MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("MarshalSnapshot() failed: %v", err)
	}
	return data
}

func postTransform(t *testing.T, srv *Server, req transformRequest) (*httptest.ResponseRecorder, transformResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transform", bytes.NewReader(body)))

	var resp transformResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestTransform(t *testing.T) {
	srv := testServer(t)
	req := transformRequest{
		Snapshot: testSnapshotJSON(t),
		Ops: []pipeline.Invocation{
			{Op: "offset", Args: pipeline.Args{DX: 1}},
		},
	}

	rec, resp := postTransform(t, srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(resp.Completed) != 1 || resp.Completed[0] != "offset" {
		t.Errorf("Completed = %v, want [offset]", resp.Completed)
	}
	if resp.CacheHit {
		t.Error("first request should not be a cache hit")
	}

	snap, err := synth.UnmarshalSnapshot(resp.Snapshot)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot() failed: %v", err)
	}
	notes := snap.Notes[synth.NoteRight]
	if len(notes) != 1 {
		t.Fatalf("got %d right notes, want 1", len(notes))
	}
	if notes[0].P.X != 2 {
		t.Errorf("note X = %v, want 2", notes[0].P.X)
	}
}

func TestTransformCacheHit(t *testing.T) {
	srv := testServer(t)
	req := transformRequest{
		Snapshot: testSnapshotJSON(t),
		Ops: []pipeline.Invocation{
			{Op: "rotate", Args: pipeline.Args{Angle: 90}},
		},
	}

	_, first := postTransform(t, srv, req)
	if first.CacheHit {
		t.Fatal("first request should not be a cache hit")
	}

	rec, second := postTransform(t, srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !second.CacheHit {
		t.Error("identical second request should be a cache hit")
	}
	if !bytes.Equal(first.Snapshot, second.Snapshot) {
		t.Error("cached response should match the computed one")
	}
}

func TestTransformUnknownOp(t *testing.T) {
	srv := testServer(t)
	req := transformRequest{
		Snapshot: testSnapshotJSON(t),
		Ops:      []pipeline.Invocation{{Op: "teleport"}},
	}

	rec, resp := postTransform(t, srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if resp.Code != errors.ErrCodeInvalidOperation {
		t.Errorf("Code = %v, want %v", resp.Code, errors.ErrCodeInvalidOperation)
	}
	if len(resp.Completed) != 0 {
		t.Errorf("Completed = %v, want empty", resp.Completed)
	}
}

func TestTransformMalformedBody(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transform", bytes.NewReader([]byte("not json"))))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", resp.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestBackupsDisabled(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/backups", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBackups(t *testing.T) {
	store, err := backup.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := testServer(t)
	srv.Backups = store

	// Empty list first
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/backups", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var entries []backup.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}

	snap := synth.NewSnapshot(120)
	snap.Notes[synth.NoteLeft] = []synth.Note{
		{Type: synth.NoteLeft, P: synth.Point{X: -1, Y: 0, T: 0}},
	}
	entry, err := store.Save(context.Background(), "before stack", snap)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// Fetch it back over HTTP
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/backups/"+entry.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	got, err := synth.UnmarshalSnapshot(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalSnapshot() failed: %v", err)
	}
	if len(got.Notes[synth.NoteLeft]) != 1 {
		t.Errorf("got %d left notes, want 1", len(got.Notes[synth.NoteLeft]))
	}
}

func TestBackupNotFound(t *testing.T) {
	store, err := backup.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := testServer(t)
	srv.Backups = store

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/backups/no-such-id", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != errors.ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", resp.Code, errors.ErrCodeNotFound)
	}
}
