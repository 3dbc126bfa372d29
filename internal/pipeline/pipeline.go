// Package pipeline orchestrates one input's journey from reference to
// transcript document: classification, candidate resolution, acquisition,
// duration probing, streamed transcription, and markdown rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"xscribe/internal/config"
	"xscribe/internal/fileutil"
	"xscribe/internal/logging"
	"xscribe/internal/media/ffprobe"
	"xscribe/internal/progress"
	"xscribe/internal/resolve"
	"xscribe/internal/services"
	"xscribe/internal/services/whisper"
	"xscribe/internal/services/ytdlp"
	"xscribe/internal/supervisor"
	"xscribe/internal/textutil"
	"xscribe/internal/transcript"
)

// InputKind classifies a raw CLI input string.
type InputKind int

const (
	// KindLocalPath is a filesystem path to existing (or absent) media.
	KindLocalPath InputKind = iota
	// KindRemoteReference is an http(s) URL that may reference zero, one,
	// or many playable assets.
	KindRemoteReference
)

// ClassifyInput decides whether an input is a local path or a remote
// reference. Only absolute http(s) URLs count as remote; everything else is
// treated as a path. Classification is immutable for the life of the item.
func ClassifyInput(input string) InputKind {
	parsed, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return KindLocalPath
	}
	if (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		return KindRemoteReference
	}
	return KindLocalPath
}

// Downloader acquires a remote URL into a destination directory and returns
// the local media file path.
type Downloader interface {
	Download(ctx context.Context, url string, opts ytdlp.DownloadOptions) (string, error)
}

// CandidateResolver expands a reference URL into ordered candidates and
// selects one by 1-based index.
type CandidateResolver interface {
	Resolve(ctx context.Context, referenceURL string) ([]resolve.Candidate, error)
	ResolveIndex(ctx context.Context, referenceURL string, index int) (string, error)
}

// SegmentStream is the engine's finite, single-pass segment sequence.
type SegmentStream interface {
	Next() (segment transcript.Segment, ok bool, err error)
	Language() string
}

// SpeechEngine starts a transcription run and hands back its live stream.
type SpeechEngine interface {
	Transcribe(ctx context.Context, mediaPath string, opts whisper.Options) (SegmentStream, error)
}

// DurationProber reports a media file's duration in seconds, best-effort.
type DurationProber func(ctx context.Context, path string) (float64, bool)

// Reporter is the progress handle a stage drives while it runs.
type Reporter interface {
	Start()
	Update(value float64)
	Stop(finalMessage string)
}

// ReporterFactory builds a reporter for a stage. total <= 0 requests an
// indeterminate indicator.
type ReporterFactory func(label string, total float64) Reporter

// Request describes one transcription item plus the per-invocation flags
// that shape it.
type Request struct {
	// Input is the raw path or URL as given on the command line.
	Input string
	// Model overrides the configured model size when non-empty.
	Model string
	// Language forces a language code; empty enables auto-detection.
	Language string
	// OutputPath pins the document destination; valid for single-input runs.
	OutputPath string
	// Mode selects the acquisition format policy.
	Mode ytdlp.Mode
	// AudioFormat optionally transcodes audio acquisitions.
	AudioFormat string
	// Item selects one candidate by 1-based index; zero disables selection.
	Item int
	// CookiesFromBrowser names a browser for the download tool's auth context.
	CookiesFromBrowser string
}

// Outcome summarizes a completed item.
type Outcome struct {
	// OutputPath is the written document; empty when NoSpeech is true.
	OutputPath string
	// Segments is the number of recognized segments.
	Segments int
	// Language is the effective language of the run.
	Language string
	// NoSpeech marks an empty-but-successful transcription. No document is
	// written for such runs.
	NoSpeech bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResolver replaces the candidate resolver.
func WithResolver(r CandidateResolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// WithDownloader replaces the acquisition client.
func WithDownloader(d Downloader) Option {
	return func(p *Pipeline) { p.downloader = d }
}

// WithEngine replaces the speech engine.
func WithEngine(e SpeechEngine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// WithProber replaces the duration probe.
func WithProber(probe DurationProber) Option {
	return func(p *Pipeline) { p.probe = probe }
}

// WithReporterFactory replaces progress reporter construction.
func WithReporterFactory(factory ReporterFactory) Option {
	return func(p *Pipeline) { p.newReporter = factory }
}

// WithOutput redirects user-facing status lines.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline runs items sequentially against a shared supervisor.
type Pipeline struct {
	cfg         *config.Config
	resolver    CandidateResolver
	downloader  Downloader
	engine      SpeechEngine
	probe       DurationProber
	supervisor  *supervisor.Supervisor
	newReporter ReporterFactory
	out         io.Writer
	logger      *slog.Logger
}

// New wires a pipeline from configuration. Options override individual
// collaborators, primarily for tests.
func New(cfg *config.Config, sup *supervisor.Supervisor, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config required")
	}
	if sup == nil {
		sup = supervisor.New()
	}

	p := &Pipeline{
		cfg:        cfg,
		supervisor: sup,
		out:        os.Stdout,
		logger:     logging.NewNop(),
	}
	p.newReporter = func(label string, total float64) Reporter {
		return progress.New(label, total)
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.downloader == nil || p.resolver == nil {
		client, err := ytdlp.New(cfg.Tools.YtdlpBinary,
			ytdlp.WithLogger(logging.NewComponentLogger(p.logger, "ytdlp")))
		if err != nil {
			return nil, err
		}
		if p.downloader == nil {
			p.downloader = client
		}
		if p.resolver == nil {
			resolveLogger := logging.NewComponentLogger(p.logger, "resolve")
			scanner := resolve.NewScanner(
				time.Duration(cfg.Resolver.HTTPTimeoutSeconds)*time.Second,
				cfg.Resolver.UserAgent,
				resolveLogger,
			)
			p.resolver = resolve.New(client, scanner, resolveLogger)
		}
	}
	if p.engine == nil {
		store := whisper.NewModelStore(cfg.ModelCacheDir())
		engine, err := whisper.NewEngine(whisper.Config{
			Binary:   cfg.Tools.WhisperBinary,
			BeamSize: cfg.Transcription.BeamSize,
			Threads:  cfg.Transcription.Threads,
		}, store)
		if err != nil {
			return nil, err
		}
		p.engine = engineAdapter{engine}
	}
	if p.probe == nil {
		binary := cfg.Tools.FFprobeBinary
		p.probe = func(ctx context.Context, path string) (float64, bool) {
			return ffprobe.Duration(ctx, binary, path)
		}
	}
	return p, nil
}

type engineAdapter struct {
	engine *whisper.Engine
}

func (a engineAdapter) Transcribe(ctx context.Context, mediaPath string, opts whisper.Options) (SegmentStream, error) {
	return a.engine.Transcribe(ctx, mediaPath, opts)
}

// ListCandidates resolves a reference URL without acquiring anything.
func (p *Pipeline) ListCandidates(ctx context.Context, referenceURL string) ([]resolve.Candidate, error) {
	if ClassifyInput(referenceURL) != KindRemoteReference {
		return nil, services.Wrap(services.ErrUsage, "resolve", "list",
			fmt.Sprintf("%q is not a URL", referenceURL), nil)
	}
	return p.resolver.Resolve(ctx, referenceURL)
}

// Run processes one item end to end and returns its outcome.
func (p *Pipeline) Run(ctx context.Context, req Request) (Outcome, error) {
	ctx = services.WithSource(ctx, req.Input)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)

	mediaPath, cleanup, err := p.acquire(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	defer cleanup()

	result, err := p.transcribe(ctx, mediaPath, req)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Segments: len(result.Segments), Language: result.Language}
	if result.Empty() {
		// Empty-but-successful runs never produce a zero-byte document.
		outcome.NoSpeech = true
		return outcome, nil
	}

	outputPath, err := p.outputPath(req, mediaPath)
	if err != nil {
		return Outcome{}, err
	}
	if err := transcript.WriteMarkdown(result, req.Input, transcript.DeriveTitle(mediaPath), outputPath); err != nil {
		return Outcome{}, err
	}
	outcome.OutputPath = outputPath
	logger.Info("transcript written",
		logging.String("output", outputPath),
		logging.Int("segments", len(result.Segments)),
		logging.String("language", result.Language))
	return outcome, nil
}

// acquire produces a local media path for the input. The returned cleanup
// releases any temp directory; it is a no-op for local inputs.
func (p *Pipeline) acquire(ctx context.Context, req Request) (string, func(), error) {
	ctx = services.WithStage(ctx, "acquire")
	logger := logging.WithContext(ctx, p.logger)
	noop := func() {}

	if ClassifyInput(req.Input) == KindLocalPath {
		if !fileutil.FileExists(req.Input) {
			return "", noop, services.Wrap(services.ErrNotFound, "acquire", "local",
				fmt.Sprintf("file %s does not exist", req.Input), nil)
		}
		return req.Input, noop, nil
	}

	target := req.Input
	if req.Item > 0 {
		resolved, err := p.resolver.ResolveIndex(ctx, req.Input, req.Item)
		if err != nil {
			return "", noop, err
		}
		logger.Info("candidate selected",
			logging.Int("index", req.Item), logging.String("url", resolved))
		target = resolved
	}

	tempDir := filepath.Join(os.TempDir(), "xscribe-"+uuid.NewString())
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", noop, fmt.Errorf("acquire: create temp directory: %w", err)
	}
	p.supervisor.RegisterTempDir(tempDir)
	cleanup := func() {
		fileutil.RemoveDirQuiet(tempDir)
		p.supervisor.ReleaseTempDir(tempDir)
	}

	reporter := p.newReporter("Downloading "+target, 0)
	p.supervisor.SetReporter(reporter)
	reporter.Start()

	downloadOpts := ytdlp.DownloadOptions{
		DestDir:            tempDir,
		Mode:               req.Mode,
		AudioFormat:        req.AudioFormat,
		CookiesFromBrowser: req.CookiesFromBrowser,
	}
	if req.Item > 0 && target == req.Input {
		// Selection resolved back to the reference page itself; pin the
		// playlist entry instead of disabling playlist expansion.
		downloadOpts.PlaylistItem = req.Item
	}

	path, err := p.downloader.Download(ctx, target, downloadOpts)
	if err != nil {
		reporter.Stop("Download failed")
		p.supervisor.SetReporter(nil)
		cleanup()
		if errors.Is(err, os.ErrNotExist) {
			return "", noop, services.Wrap(services.ErrNotFound, "acquire", "download",
				"downloaded file not found", nil)
		}
		return "", noop, services.Wrap(services.ErrExternalTool, "acquire", "download", target, err)
	}
	reporter.Stop("Downloaded " + filepath.Base(path))
	p.supervisor.SetReporter(nil)
	return path, cleanup, nil
}

// transcribe streams the engine's segments into a result. Any mid-stream
// failure discards accumulated segments so partial transcripts are never
// emitted.
func (p *Pipeline) transcribe(ctx context.Context, mediaPath string, req Request) (transcript.Result, error) {
	ctx = services.WithStage(ctx, "transcribe")
	logger := logging.WithContext(ctx, p.logger)

	duration, known := p.probe(ctx, mediaPath)
	if !known {
		logger.Debug("duration unknown, progress is indeterminate",
			logging.String("media", mediaPath))
		duration = 0
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Transcription.Model
	}
	stream, err := p.engine.Transcribe(ctx, mediaPath, whisper.Options{
		Model:    model,
		Language: req.Language,
	})
	if err != nil {
		return transcript.Result{}, services.Wrap(services.ErrEngine, "transcribe", "start",
			fmt.Sprintf("model %s", model), err)
	}

	reporter := p.newReporter("Transcribing "+filepath.Base(mediaPath), duration)
	p.supervisor.SetReporter(reporter)
	reporter.Start()

	var segments []transcript.Segment
	for {
		segment, ok, err := stream.Next()
		if err != nil {
			reporter.Stop("Transcription failed")
			p.supervisor.SetReporter(nil)
			return transcript.Result{}, services.Wrap(services.ErrEngine, "transcribe", "stream", mediaPath, err)
		}
		if !ok {
			break
		}
		segments = append(segments, segment)
		reporter.Update(segment.EndSeconds)
	}

	language := stream.Language()
	if len(segments) == 0 {
		reporter.Stop("No speech detected")
	} else {
		reporter.Stop(fmt.Sprintf("Transcription complete (language: %s)", language))
	}
	p.supervisor.SetReporter(nil)
	return transcript.Result{Segments: segments, Language: language}, nil
}

// outputPath derives the document destination: an explicit request path wins,
// otherwise the media stem lands in the configured output directory (or the
// working directory when none is configured).
func (p *Pipeline) outputPath(req Request, mediaPath string) (string, error) {
	if req.OutputPath != "" {
		if dir := filepath.Dir(req.OutputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create output directory: %w", err)
			}
		}
		return req.OutputPath, nil
	}

	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	stem = textutil.SanitizeFileName(stem)
	if stem == "" {
		stem = "transcription"
	}

	dir := p.cfg.Paths.OutputDir
	if dir == "" {
		dir = "."
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return filepath.Join(dir, stem+".md"), nil
}
