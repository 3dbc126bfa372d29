// Package supervisor tracks the process-wide resources that must be released
// when an interrupt arrives: the active progress reporter and every live
// temp directory. Stages register through it instead of touching ambient
// globals; the signal path calls CancelAll.
package supervisor

import (
	"os"
	"sync"
)

// Reporter is the progress-rendering handle the supervisor can stop from the
// signal path.
type Reporter interface {
	Stop(finalMessage string)
}

// Supervisor is safe for concurrent use. All registrations are single atomic
// replace/append operations so the interrupt handler never observes partially
// constructed state.
type Supervisor struct {
	mu       sync.Mutex
	reporter Reporter
	tempDirs []string
	canceled bool
}

func New() *Supervisor {
	return &Supervisor{}
}

// SetReporter records the active progress reporter. Passing nil clears it.
// At most one reporter is active at a time; the caller replaces its own
// registration when a stage finishes.
func (s *Supervisor) SetReporter(r Reporter) {
	s.mu.Lock()
	s.reporter = r
	s.mu.Unlock()
}

// RegisterTempDir adds dir to the set of directories removed on cancellation.
func (s *Supervisor) RegisterTempDir(dir string) {
	if dir == "" {
		return
	}
	s.mu.Lock()
	s.tempDirs = append(s.tempDirs, dir)
	s.mu.Unlock()
}

// ReleaseTempDir drops dir from the registry after the caller has removed it.
func (s *Supervisor) ReleaseTempDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tempDirs[:0]
	for _, d := range s.tempDirs {
		if d != dir {
			kept = append(kept, d)
		}
	}
	s.tempDirs = kept
}

// TempDirs returns a snapshot of the registered directories.
func (s *Supervisor) TempDirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tempDirs...)
}

// CancelAll stops the active reporter with an interrupted line and
// force-removes every registered temp directory, ignoring removal errors.
// Idempotent; later calls are no-ops.
func (s *Supervisor) CancelAll() {
	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return
	}
	s.canceled = true
	reporter := s.reporter
	s.reporter = nil
	dirs := s.tempDirs
	s.tempDirs = nil
	s.mu.Unlock()

	if reporter != nil {
		reporter.Stop("Interrupted")
	}
	for _, dir := range dirs {
		_ = os.RemoveAll(dir)
	}
}
