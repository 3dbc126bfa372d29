package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"xscribe/internal/logging"
	"xscribe/internal/services"
	"xscribe/internal/services/ytdlp"
)

// MetadataSource is the extraction tool's metadata-only mode.
type MetadataSource interface {
	Metadata(ctx context.Context, url string) ([]ytdlp.Entry, error)
}

// PageScanner produces playable URLs from a raw page fetch.
type PageScanner interface {
	Scan(ctx context.Context, pageURL string) []string
}

// Resolver turns one reference URL into an ordered, deduplicated candidate
// list. Results are never cached; every call resolves from scratch.
type Resolver struct {
	metadata MetadataSource
	scanner  PageScanner
	logger   *slog.Logger
}

// New constructs a resolver. scanner may be nil to disable the page scan.
func New(metadata MetadataSource, scanner PageScanner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{metadata: metadata, scanner: scanner, logger: logger}
}

// Resolve combines structured metadata with the heuristic page scan,
// deduplicates on canonical key, and reindexes 1..N. Structured entries are
// added first and always kept; a heuristic entry is discarded when its
// canonical key already appears among kept entries.
func (r *Resolver) Resolve(ctx context.Context, referenceURL string) ([]Candidate, error) {
	var candidates []Candidate

	entries, err := r.metadata.Metadata(ctx, referenceURL)
	if err != nil {
		// Metadata extraction failing does not doom resolution; the page
		// scan may still surface playable media.
		r.logger.Warn("metadata extraction failed", logging.String("url", referenceURL), logging.Error(err))
	}
	for _, entry := range entries {
		candidates = append(candidates, Candidate{
			Title:  entry.Title,
			ID:     entry.ID,
			URL:    entry.URL,
			Origin: OriginStructured,
		})
	}

	if r.scanner != nil {
		for _, found := range r.scanner.Scan(ctx, referenceURL) {
			candidates = append(candidates, Candidate{
				Title:  found,
				URL:    found,
				Origin: OriginHeuristic,
			})
		}
	}

	return Merge(candidates), nil
}

// Merge deduplicates candidates on canonical key, preserving order, and
// assigns contiguous 1-based indices. Idempotent: merging an already merged
// list never shrinks it further.
func Merge(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	merged := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		key := canonicalKey(candidate.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		candidate.Index = len(merged) + 1
		merged = append(merged, candidate)
	}
	return merged
}

// ResolveIndex re-runs resolution and returns the URL of the 1-based index
// selection. Indices outside 1..N fail with an out-of-range error.
func (r *Resolver) ResolveIndex(ctx context.Context, referenceURL string, index int) (string, error) {
	candidates, err := r.Resolve(ctx, referenceURL)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", services.Wrap(services.ErrNotFound, "resolve", "select", fmt.Sprintf("no playable candidates at %s", referenceURL), nil)
	}
	if index < 1 || index > len(candidates) {
		return "", services.Wrap(services.ErrOutOfRange, "resolve", "select",
			fmt.Sprintf("index %d outside 1..%d", index, len(candidates)), nil)
	}
	chosen := candidates[index-1]
	if chosen.URL == "" {
		return "", services.Wrap(services.ErrNotFound, "resolve", "select",
			fmt.Sprintf("candidate %d has no usable URL", index), nil)
	}
	return chosen.URL, nil
}
