// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The pipeline only needs the container duration, used to size progress
// percentages; everything here is best-effort and callers must tolerate an
// unknown duration.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Format Format `json:"format"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Duration string `json:"duration"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration in seconds and whether a
// usable value was present.
func (r Result) DurationSeconds() (float64, bool) {
	cleaned := strings.TrimSpace(r.Format.Duration)
	if cleaned == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

// Duration probes path and returns its duration in seconds. Any failure,
// including a missing binary or non-numeric output, degrades to (0, false).
func Duration(ctx context.Context, binary, path string) (float64, bool) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return 0, false
	}
	return result.DurationSeconds()
}
