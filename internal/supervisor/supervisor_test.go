package supervisor

import (
	"os"
	"path/filepath"
	"testing"
)

type recordingReporter struct {
	finals []string
}

func (r *recordingReporter) Stop(final string) {
	r.finals = append(r.finals, final)
}

func TestCancelAllStopsReporterAndRemovesTempDirs(t *testing.T) {
	sup := New()
	dir := filepath.Join(t.TempDir(), "work")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	sup.RegisterTempDir(dir)

	reporter := &recordingReporter{}
	sup.SetReporter(reporter)

	sup.CancelAll()

	if len(reporter.finals) != 1 || reporter.finals[0] != "Interrupted" {
		t.Fatalf("expected one interrupted stop, got %v", reporter.finals)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected temp dir removed, stat err=%v", err)
	}
}

func TestCancelAllIsIdempotent(t *testing.T) {
	sup := New()
	reporter := &recordingReporter{}
	sup.SetReporter(reporter)

	sup.CancelAll()
	sup.CancelAll()

	if len(reporter.finals) != 1 {
		t.Fatalf("expected a single stop, got %v", reporter.finals)
	}
}

func TestCancelAllWithNothingRegistered(t *testing.T) {
	New().CancelAll()
}

func TestReleaseTempDir(t *testing.T) {
	sup := New()
	sup.RegisterTempDir("/tmp/a")
	sup.RegisterTempDir("/tmp/b")
	sup.ReleaseTempDir("/tmp/a")

	dirs := sup.TempDirs()
	if len(dirs) != 1 || dirs[0] != "/tmp/b" {
		t.Fatalf("unexpected registry contents: %v", dirs)
	}
}
