// Package progress renders single-line spinner progress for long-running
// stages. Exactly one spinner is expected to be active at a time; the
// supervisor owns that registration.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const cadence = 100 * time.Millisecond

// Option configures a Spinner.
type Option func(*Spinner)

// WithWriter overrides the output writer; animated rendering is forced on or
// off with animate. Primarily for tests.
func WithWriter(w io.Writer, animate bool) Option {
	return func(s *Spinner) {
		s.writer = w
		s.animate = animate
	}
}

// Spinner animates a label with an optional percentage on one terminal line.
// Update records monotonic progress state with last-write-wins semantics;
// the render goroutine samples it at a fixed cadence.
type Spinner struct {
	label   string
	total   float64
	writer  io.Writer
	animate bool

	mu      sync.Mutex
	current float64
	started bool

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// New creates a spinner. A positive total enables percentage rendering;
// zero or negative totals produce an indeterminate indicator.
func New(label string, total float64, opts ...Option) *Spinner {
	s := &Spinner{
		label:   label,
		total:   total,
		writer:  os.Stdout,
		animate: isatty.IsTerminal(os.Stdout.Fd()),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins asynchronous rendering. When the output is not a terminal the
// label is printed once and no animation runs.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	if !s.animate {
		fmt.Fprintln(s.writer, s.label)
		close(s.done)
		return
	}
	go s.loop()
}

// Update records the current progress value.
func (s *Spinner) Update(value float64) {
	s.mu.Lock()
	s.current = value
	s.mu.Unlock()
}

// Stop halts rendering, clears the line, and leaves finalMessage as the
// persisted output. Safe to call more than once and from the signal path,
// which may race with Start.
func (s *Spinner) Stop(finalMessage string) {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
		}
		if s.animate {
			fmt.Fprintf(s.writer, "\r\033[K%s\n", finalMessage)
		} else {
			fmt.Fprintln(s.writer, finalMessage)
		}
	})
}

func (s *Spinner) loop() {
	defer close(s.done)
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.render(frames[frame%len(frames)])
			frame++
		}
	}
}

func (s *Spinner) render(frame string) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if s.total > 0 {
		pct := current / s.total * 100
		if pct > 100 {
			pct = 100
		}
		fmt.Fprintf(s.writer, "\r%s %s %.0f%%", frame, s.label, pct)
		return
	}
	fmt.Fprintf(s.writer, "\r%s %s", frame, s.label)
}
