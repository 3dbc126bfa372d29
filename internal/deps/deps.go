// Package deps reports the availability of the external tools and
// directories the pipeline depends on.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"xscribe/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the tool list for the given configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffprobe",
			Command:     cfg.Tools.FFprobeBinary,
			Description: "Media duration probing",
		},
		{
			Name:        "ffmpeg",
			Command:     cfg.Tools.FFmpegBinary,
			Description: "Audio decoding for the speech engine",
		},
		{
			Name:        "whisper-cli",
			Command:     cfg.Tools.WhisperBinary,
			Description: "Speech recognition engine",
		},
		{
			Name:        "yt-dlp",
			Command:     cfg.Tools.YtdlpBinary,
			Description: "Stream download and metadata extraction (URL inputs only)",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists (creating it when
// absent) and is readable/writable.
func CheckDirectoryAccess(name, path string) Status {
	status := Status{Name: name, Command: path}
	if strings.TrimSpace(path) == "" {
		status.Detail = "path not configured"
		return status
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0o755); err != nil {
				status.Detail = fmt.Sprintf("cannot create: %v", err)
				return status
			}
			status.Available = true
			status.Detail = "created"
			return status
		}
		status.Detail = fmt.Sprintf("stat: %v", err)
		return status
	}
	if !info.IsDir() {
		status.Detail = "not a directory"
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return status
	}
	status.Available = true
	status.Detail = "read/write ok"
	return status
}
