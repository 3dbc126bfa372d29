package whisper

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"xscribe/internal/transcript"
)

// Config captures runtime settings for the engine.
type Config struct {
	// Binary is the whisper-cli executable.
	Binary string
	// BeamSize controls decode search width.
	BeamSize int
	// Threads pins the worker count; 0 lets the engine choose.
	Threads int
}

// Engine drives the external speech-recognition process and exposes its
// output as a lazy, single-pass segment stream.
type Engine struct {
	cfg   Config
	store *ModelStore
}

// NewEngine creates an engine backed by the given model store.
func NewEngine(cfg Config, store *ModelStore) (*Engine, error) {
	if strings.TrimSpace(cfg.Binary) == "" {
		return nil, errors.New("whisper binary required")
	}
	if store == nil {
		return nil, errors.New("model store required")
	}
	if cfg.BeamSize <= 0 {
		cfg.BeamSize = 5
	}
	return &Engine{cfg: cfg, store: store}, nil
}

// Options select per-run transcription behavior.
type Options struct {
	// Model is the size/quality selector (tiny, base, small, medium, large-v3).
	Model string
	// Language forces a language code; empty enables auto-detection.
	Language string
}

// Transcribe ensures the model is available, starts the engine against
// mediaPath, and returns the live segment stream. The returned stream must be
// consumed exactly once; it is not restartable.
func (e *Engine) Transcribe(ctx context.Context, mediaPath string, opts Options) (*Stream, error) {
	modelPath, err := e.store.Ensure(ctx, opts.Model)
	if err != nil {
		return nil, err
	}

	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = "auto"
	}

	args := []string{
		"-m", modelPath,
		"-f", mediaPath,
		"-l", language,
		"-bs", strconv.Itoa(e.cfg.BeamSize),
	}
	if e.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(e.cfg.Threads))
	}

	cmd := exec.CommandContext(ctx, e.cfg.Binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("whisper: pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("whisper: start: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{
		cmd:      cmd,
		scanner:  scanner,
		stderr:   stderr,
		language: language,
	}, nil
}

// Stream is the engine's segment output: finite, single-pass, consumed by
// repeated Next calls until ok is false.
type Stream struct {
	cmd      *exec.Cmd
	scanner  *bufio.Scanner
	stderr   *bytes.Buffer
	language string
	detected string
	waited   bool
	waitErr  error
}

// Next returns the next segment. ok is false once the stream is exhausted or
// failed; err carries the failure, if any. After ok=false the stream is dead.
func (s *Stream) Next() (segment transcript.Segment, ok bool, err error) {
	for s.scanner.Scan() {
		if parsed, matched := parseSegmentLine(s.scanner.Text()); matched {
			return parsed, true, nil
		}
	}

	if err := s.scanner.Err(); err != nil {
		s.wait()
		return transcript.Segment{}, false, fmt.Errorf("whisper: read output: %w", err)
	}
	if err := s.wait(); err != nil {
		return transcript.Segment{}, false, fmt.Errorf("whisper: %w: %s", err, stderrTail(s.stderr.String()))
	}
	return transcript.Segment{}, false, nil
}

// Language returns the effective language: the forced code when one was
// given, otherwise the engine's detected language once the stream has ended.
func (s *Stream) Language() string {
	if s.language != "" && s.language != "auto" {
		return s.language
	}
	if s.detected == "" {
		s.detected = parseDetectedLanguage(s.stderr.String())
	}
	if s.detected != "" {
		return s.detected
	}
	return "unknown"
}

func (s *Stream) wait() error {
	if !s.waited {
		s.waited = true
		s.waitErr = s.cmd.Wait()
	}
	return s.waitErr
}

func stderrTail(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
