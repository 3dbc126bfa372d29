package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"xscribe/internal/fileutil"
	"xscribe/internal/logging"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout, stderr string, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps yt-dlp CLI interactions: media acquisition and the
// metadata-only extraction mode.
type Client struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Mode selects the format policy for acquisition.
type Mode string

const (
	ModeAudio Mode = "audio"
	ModeVideo Mode = "video"
)

// DownloadOptions control a single acquisition run.
type DownloadOptions struct {
	// DestDir receives the downloaded file. Required.
	DestDir string
	// Mode selects audio-first or video-first format policy.
	Mode Mode
	// AudioFormat optionally transcodes audio downloads (e.g. "mp3").
	// Ignored with a warning when Mode is ModeVideo.
	AudioFormat string
	// PlaylistItem pins the download to a single 1-based playlist entry.
	// Zero disables playlist expansion entirely.
	PlaylistItem int
	// CookiesFromBrowser names a browser whose cookies yt-dlp should reuse.
	CookiesFromBrowser string
}

// Download acquires url into opts.DestDir and returns the local file path.
// The destination is scanned for known media extensions afterwards; the most
// recently modified match wins.
func (c *Client) Download(ctx context.Context, url string, opts DownloadOptions) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("download: url required")
	}
	if strings.TrimSpace(opts.DestDir) == "" {
		return "", errors.New("download: destination directory required")
	}
	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return "", fmt.Errorf("download: create destination: %w", err)
	}

	args := c.buildDownloadArgs(url, opts)
	if _, stderr, err := c.exec.Run(ctx, c.binary, args); err != nil {
		diagnostic := strings.TrimSpace(stderr)
		if hint := remediationHint(url, diagnostic); hint != "" {
			return "", fmt.Errorf("yt-dlp: %w: %s (%s)", err, diagnostic, hint)
		}
		return "", fmt.Errorf("yt-dlp: %w: %s", err, diagnostic)
	}

	path, err := fileutil.NewestMediaFile(opts.DestDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", os.ErrNotExist
		}
		return "", fmt.Errorf("download: inspect destination: %w", err)
	}
	return path, nil
}

func (c *Client) buildDownloadArgs(url string, opts DownloadOptions) []string {
	args := []string{
		"-o", filepath.Join(opts.DestDir, "%(title).180B.%(ext)s"),
		"--restrict-filenames",
		"--no-warnings",
	}

	if opts.PlaylistItem > 0 {
		args = append(args, "--playlist-items", strconv.Itoa(opts.PlaylistItem))
	} else {
		args = append(args, "--no-playlist")
	}

	switch opts.Mode {
	case ModeVideo:
		args = append(args, "-f", "bestvideo*+bestaudio/best")
		if opts.AudioFormat != "" {
			c.logger.Warn("audio format ignored in video mode",
				logging.String("audio_format", opts.AudioFormat))
		}
	default:
		args = append(args, "-f", "bestaudio/best", "-x")
		if opts.AudioFormat != "" {
			args = append(args, "--audio-format", opts.AudioFormat)
		}
	}

	if opts.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", opts.CookiesFromBrowser)
	}

	return append(args, url)
}

// blockSignatures are stderr fragments that indicate YouTube is refusing the
// request rather than the media being absent.
var blockSignatures = []string{
	"Sign in to confirm you're not a bot",
	"Sign in to confirm your age",
	"HTTP Error 403",
	"This content isn't available",
}

func remediationHint(url, diagnostic string) string {
	if !strings.Contains(url, "youtube.com") && !strings.Contains(url, "youtu.be") {
		return ""
	}
	for _, signature := range blockSignatures {
		if strings.Contains(diagnostic, signature) {
			return "hint: update yt-dlp with 'yt-dlp -U', or retry with --cookies-from-browser to reuse a signed-in session"
		}
	}
	return ""
}
