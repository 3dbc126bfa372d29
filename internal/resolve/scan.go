package resolve

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"xscribe/internal/logging"
)

// maxScanBytes bounds how much of a page body the scanner reads.
const maxScanBytes = 4 << 20

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>\\)\]}]+`)

// Scanner performs the best-effort heuristic page scan. Every failure mode
// degrades to an empty result; the scan is an enrichment step, never fatal.
type Scanner struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewScanner builds a page scanner with a bounded request timeout.
func NewScanner(timeout time.Duration, userAgent string, logger *slog.Logger) *Scanner {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Scan fetches pageURL and returns the playable URL-shaped substrings found
// in the body, in discovery order. Fetch or read failures return nil.
func (s *Scanner) Scan(ctx context.Context, pageURL string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("page scan failed", logging.String("url", pageURL), logging.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("page scan skipped", logging.String("url", pageURL), logging.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScanBytes))
	if err != nil {
		return nil
	}
	return ExtractPlayableURLs(string(body))
}

// ExtractPlayableURLs scans decoded page text for URL-shaped substrings that
// pass the playability heuristic, preserving discovery order.
func ExtractPlayableURLs(body string) []string {
	// JSON-embedded URLs frequently escape their slashes.
	body = strings.ReplaceAll(body, `\/`, "/")

	var found []string
	for _, match := range urlPattern.FindAllString(body, -1) {
		cleaned := strings.TrimRight(match, ".,;:!?")
		if isPlayable(cleaned) {
			found = append(found, cleaned)
		}
	}
	return found
}
