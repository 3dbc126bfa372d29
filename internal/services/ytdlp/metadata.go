package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Entry is one media item described by the extraction mode.
type Entry struct {
	Title string
	ID    string
	URL   string
}

// metadataPayload mirrors the subset of yt-dlp's -J output the resolver needs.
// A playlist document nests the same shape under "entries".
type metadataPayload struct {
	Type       string            `json:"_type"`
	Title      string            `json:"title"`
	ID         string            `json:"id"`
	WebpageURL string            `json:"webpage_url"`
	URL        string            `json:"url"`
	Entries    []metadataPayload `json:"entries"`
}

// Metadata invokes the extraction mode against url and returns the described
// media items: one entry for a plain video, one per item for a playlist.
func (c *Client) Metadata(ctx context.Context, url string) ([]Entry, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("metadata: url required")
	}

	args := []string{"-J", "--flat-playlist", "--no-warnings", "--skip-download", url}
	stdout, stderr, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata: %w: %s", err, strings.TrimSpace(stderr))
	}

	var payload metadataPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return nil, fmt.Errorf("yt-dlp metadata: parse: %w", err)
	}

	if payload.Type == "playlist" || len(payload.Entries) > 0 {
		entries := make([]Entry, 0, len(payload.Entries))
		for _, item := range payload.Entries {
			if entry, ok := item.toEntry(); ok {
				entries = append(entries, entry)
			}
		}
		return entries, nil
	}

	if entry, ok := payload.toEntry(); ok {
		return []Entry{entry}, nil
	}
	return nil, nil
}

func (p metadataPayload) toEntry() (Entry, bool) {
	url := strings.TrimSpace(p.WebpageURL)
	if url == "" {
		url = strings.TrimSpace(p.URL)
	}
	if url == "" {
		return Entry{}, false
	}
	return Entry{
		Title: strings.TrimSpace(p.Title),
		ID:    strings.TrimSpace(p.ID),
		URL:   url,
	}, true
}
