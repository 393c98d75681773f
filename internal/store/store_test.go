package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func sampleRuns() []Run {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []Run{
		{SessionID: "a", Player: "ann", Score: 40, Survived: 90 * time.Second, EndedAt: t0},
		{SessionID: "b", Player: "bob", Score: 60, Survived: 30 * time.Second, EndedAt: t0},
		{SessionID: "c", Player: "cy", Score: 40, Survived: 120 * time.Second, EndedAt: t0.Add(time.Minute)},
		{SessionID: "d", Player: "di", Score: 40, Survived: 90 * time.Second, EndedAt: t0.Add(-time.Minute)},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, r := range sampleRuns() {
		if err := s.SaveRun(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	// a second save of the same session is ignored
	if err := s.SaveRun(ctx, Run{SessionID: "a", Score: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(ctx, Run{}); !errors.Is(err, ErrInvalidRun) {
		t.Fatalf("empty session id: got %v", err)
	}

	got, err := s.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "c", "d", "a"}
	if len(got) != len(want) {
		t.Fatalf("leaderboard has %d runs, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].SessionID != id {
			t.Fatalf("rank %d = %s, want %s (all %+v)", i, got[i].SessionID, id, got)
		}
	}
	if got[3].Score != 40 {
		t.Fatalf("duplicate save overwrote the first run: %+v", got[3])
	}
	if got[1].Survived != 120*time.Second || got[1].Player != "cy" {
		t.Fatalf("fields lost in round trip: %+v", got[1])
	}

	top, err := s.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].SessionID != "b" {
		t.Fatalf("limit 2 = %+v", top)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func openSQLiteOrSkip(t *testing.T, path string) Store {
	t.Helper()
	s, err := OpenSQLite(path)
	if err != nil {
		t.Skipf("sqlite unavailable (cgo?): %v", err)
	}
	return s
}

func TestSQLiteStore(t *testing.T) {
	s := openSQLiteOrSkip(t, filepath.Join(t.TempDir(), "data", "runs.db"))
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteMigrationsApplyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s := openSQLiteOrSkip(t, path)
	if err := s.SaveRun(context.Background(), Run{SessionID: "x", Score: 5}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s = openSQLiteOrSkip(t, path)
	defer s.Close()
	got, err := s.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SessionID != "x" {
		t.Fatalf("data lost across reopen: %+v", got)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("_migrations has %d rows, want 2", n)
	}
}
