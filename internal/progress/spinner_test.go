package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer serializes writes so the render goroutine and the test can share it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerRendersPercentageAndFinalLine(t *testing.T) {
	out := &syncBuffer{}
	s := New("Transcribing...", 10, WithWriter(out, true))
	s.Start()
	s.Update(5)
	time.Sleep(350 * time.Millisecond)
	s.Stop("✓ Transcription complete")

	text := out.String()
	if !strings.Contains(text, "Transcribing...") {
		t.Fatalf("expected label in output, got %q", text)
	}
	if !strings.Contains(text, "50%") {
		t.Fatalf("expected clamped percentage, got %q", text)
	}
	if !strings.HasSuffix(text, "\r\033[K✓ Transcription complete\n") {
		t.Fatalf("expected cleared final line, got %q", text)
	}
}

func TestSpinnerClampsOverflow(t *testing.T) {
	out := &syncBuffer{}
	s := New("Downloading...", 10, WithWriter(out, true))
	s.Start()
	s.Update(25)
	time.Sleep(250 * time.Millisecond)
	s.Stop("done")

	if strings.Contains(out.String(), "250%") {
		t.Fatalf("percentage not clamped: %q", out.String())
	}
	if !strings.Contains(out.String(), "100%") {
		t.Fatalf("expected 100%% cap, got %q", out.String())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	out := &syncBuffer{}
	s := New("working", 0, WithWriter(out, false))
	s.Start()
	s.Stop("final")
	s.Stop("final")

	if got := strings.Count(out.String(), "final"); got != 1 {
		t.Fatalf("expected one final line, got %d in %q", got, out.String())
	}
}

func TestSpinnerStopConcurrentWithStart(t *testing.T) {
	// The interrupt path may call Stop while the control thread is still
	// inside Start; neither call may deadlock or panic.
	for i := 0; i < 50; i++ {
		out := &syncBuffer{}
		s := New("racing", 10, WithWriter(out, true))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Start()
		}()
		go func() {
			defer wg.Done()
			s.Stop("Interrupted")
		}()

		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(2 * time.Second):
			t.Fatal("Start/Stop race deadlocked")
		}
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	out := &syncBuffer{}
	s := New("never started", 0, WithWriter(out, true))

	finished := make(chan struct{})
	go func() {
		s.Stop("interrupted")
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Stop deadlocked without Start")
	}
}
