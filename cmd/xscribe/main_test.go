package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xscribe/internal/services"
	"xscribe/internal/supervisor"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(supervisor.New())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	output, err := executeCommand(t)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(output, "path-or-url") {
		t.Fatalf("expected usage output, got:\n%s", output)
	}
}

func TestRootRejectsUnknownMode(t *testing.T) {
	_, err := executeCommand(t, "--mode", "podcast", "/tmp/anything.mp3")
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestRootRejectsOutputWithMultipleInputs(t *testing.T) {
	_, err := executeCommand(t, "-o", "out.md", "a.mp3", "b.mp3")
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestRootRejectsListWithLocalPath(t *testing.T) {
	_, err := executeCommand(t, "--list", "/tmp/file.mp3")
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("expected confirmation naming %s, got:\n%s", target, output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite init: %v", err)
	}
}
