package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"xscribe/internal/progress"
	"xscribe/internal/services/whisper"
	"xscribe/internal/supervisor"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunModelSetupDownloadsAndReportsReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("model-bytes"))
	}))
	defer server.Close()

	store := whisper.NewModelStore(t.TempDir(), whisper.WithBaseURL(server.URL+"/"))
	out := &lockedBuffer{}
	sup := supervisor.New()

	if err := runModelSetup(context.Background(), sup, store, "tiny", out,
		progress.WithWriter(out, false)); err != nil {
		t.Fatalf("runModelSetup: %v", err)
	}
	if !strings.Contains(out.String(), "Model ready:") {
		t.Fatalf("missing ready line:\n%s", out.String())
	}
	if !store.Cached("tiny") {
		t.Fatal("expected model cached")
	}

	out2 := &lockedBuffer{}
	if err := runModelSetup(context.Background(), sup, store, "tiny", out2,
		progress.WithWriter(out2, false)); err != nil {
		t.Fatalf("second runModelSetup: %v", err)
	}
	if !strings.Contains(out2.String(), "already cached") {
		t.Fatalf("expected cache hit message:\n%s", out2.String())
	}
}

func TestRunModelSetupSpinnerStoppedByInterrupt(t *testing.T) {
	canceled := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the download open until the interrupt path has run.
		<-canceled
		w.Write([]byte("model-bytes"))
	}))
	defer server.Close()

	store := whisper.NewModelStore(t.TempDir(), whisper.WithBaseURL(server.URL+"/"))
	out := &lockedBuffer{}
	sup := supervisor.New()

	done := make(chan error, 1)
	go func() {
		done <- runModelSetup(context.Background(), sup, store, "tiny", out,
			progress.WithWriter(out, false))
	}()

	// Wait for the spinner label, then cancel as the signal handler would.
	for out.String() == "" {
		time.Sleep(time.Millisecond)
	}
	sup.CancelAll()
	close(canceled)

	if err := <-done; err != nil {
		t.Fatalf("runModelSetup: %v", err)
	}
	if !strings.Contains(out.String(), "Interrupted") {
		t.Fatalf("expected interrupted line from supervisor:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Model ready:") {
		t.Fatalf("stopped spinner printed a second final line:\n%s", out.String())
	}
}
