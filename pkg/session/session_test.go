package session

import (
	"context"
	"errors"
	"testing"
)

func TestStaticToken(t *testing.T) {
	token, err := Static("secret").Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "secret" {
		t.Fatalf("expected token, got %q", token)
	}
}

func TestStaticTokenEmpty(t *testing.T) {
	if _, err := Static("").Token(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if _, err := store.Token(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken before save, got %v", err)
	}
	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	token, err := store.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("expected stored token, got %q", token)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := store.Token(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestFileStoreClearMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on missing token returned error: %v", err)
	}
}

func TestFileStoreSaveEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Save("  "); err == nil {
		t.Fatalf("expected error for blank token")
	}
}
