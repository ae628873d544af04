package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()
	key, err := store.Write(ctx, "/scans/abc/01.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "scans/abc/01.png" {
		t.Fatalf("key = %q, want scans/abc/01.png", key)
	}
	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !bytes.Equal(data, []byte("png-bytes")) {
		t.Fatalf("Read returned %q", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	for _, key := range []string{"", "..", "../etc/passwd", "scans/../../x"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()
	key, err := store.Write(ctx, "scans/abc/01.png", []byte("png"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Read(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read after Delete = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(store.BasePath(), "scans", "abc")); !os.IsNotExist(err) {
		t.Fatalf("empty scan directory should be removed, stat err = %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete of missing key returned error: %v", err)
	}
	if err := store.Delete(ctx, "../escape"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

func TestFileStoreReadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Read(context.Background(), "scans/missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
