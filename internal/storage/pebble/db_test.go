package pebblestore

import (
	"errors"
	"testing"
	"time"
)

func newTestDB(t *testing.T, mode FsyncMode) *DB {
	t.Helper()
	db, err := Open(Options{
		DataDir:       t.TempDir(),
		Fsync:         mode,
		FsyncInterval: 2 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetGet(t *testing.T) {
	for _, mode := range []FsyncMode{FsyncModeAlways, FsyncModeInterval, FsyncModeNever} {
		db := newTestDB(t, mode)

		key := []byte("k1")
		val := []byte("v1")
		if err := db.Set(key, val); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, err := db.Get(key)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(got) != string(val) {
			t.Fatalf("got %q want %q", got, val)
		}
		if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(Options{DataDir: dir, Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = Open(Options{DataDir: dir, Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("after reopen got %q, %v", got, err)
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error without DataDir")
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t, FsyncModeAlways)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	var closed *DB
	if err := closed.Ping(); err == nil {
		t.Fatalf("expected error from nil db")
	}
}

func TestParseFsyncMode(t *testing.T) {
	tests := map[string]FsyncMode{
		"":         FsyncModeAlways,
		"always":   FsyncModeAlways,
		"interval": FsyncModeInterval,
		"never":    FsyncModeNever,
	}
	for in, want := range tests {
		got, err := ParseFsyncMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseFsyncMode(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}
