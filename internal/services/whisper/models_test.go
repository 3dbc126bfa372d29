package whisper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"xscribe/internal/services"
)

func TestModelPathRejectsUnknownSize(t *testing.T) {
	store := NewModelStore(t.TempDir())
	_, err := store.Path("enormous")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestEnsureDownloadsOnce(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("model-bytes"))
	}))
	defer server.Close()

	store := NewModelStore(t.TempDir(), WithBaseURL(server.URL+"/"))

	path, err := store.Ensure(context.Background(), "tiny")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	if string(data) != "model-bytes" {
		t.Fatalf("unexpected model contents %q", data)
	}

	if _, err := store.Ensure(context.Background(), "tiny"); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected a single download, got %d", requests)
	}
	if !store.Cached("tiny") {
		t.Fatal("expected model cached")
	}
}

func TestEnsureSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	store := NewModelStore(t.TempDir(), WithBaseURL(server.URL+"/"))
	_, err := store.Ensure(context.Background(), "tiny")
	if !errors.Is(err, services.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}
