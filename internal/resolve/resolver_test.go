package resolve

import (
	"context"
	"errors"
	"testing"

	"xscribe/internal/services"
	"xscribe/internal/services/ytdlp"
)

type stubMetadata struct {
	entries []ytdlp.Entry
	err     error
}

func (s stubMetadata) Metadata(context.Context, string) ([]ytdlp.Entry, error) {
	return s.entries, s.err
}

type stubScanner struct {
	urls []string
}

func (s stubScanner) Scan(context.Context, string) []string {
	return s.urls
}

func TestCanonicalKeyCollapsesYouTubeVariants(t *testing.T) {
	variants := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://m.youtube.com/shorts/dQw4w9WgXcQ",
	}
	for _, v := range variants {
		if got := canonicalKey(v); got != "youtube:dQw4w9WgXcQ" {
			t.Fatalf("canonicalKey(%q) = %q", v, got)
		}
	}
}

func TestCanonicalKeyHostPathFallback(t *testing.T) {
	a := canonicalKey("https://example.com/media/talk.mp4/")
	b := canonicalKey("https://EXAMPLE.com/media/talk.mp4?session=9")
	if a != b {
		t.Fatalf("expected query and trailing slash stripped: %q vs %q", a, b)
	}
	if a != "example.com/media/talk.mp4" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestIsPlayable(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/clip.mp4", true},
		{"https://cdn.example.com/stream/master.m3u8", true},
		{"https://cdn.example.com/dash/manifest?type=mpd", true},
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"https://vimeo.com/123456", true},
		{"https://vimeo.com/about", false},
		{"https://www.twitch.tv/videos/99", true},
		{"https://example.com/app.js", false},
		{"https://example.com/styles.css", false},
		{"https://example.com/logo.png", false},
		{"https://example.com/some/article", false},
		{"https://example.com/", false},
		{"https://example.com", false},
		{"not a url", false},
	}
	for _, tc := range cases {
		if got := isPlayable(tc.url); got != tc.want {
			t.Fatalf("isPlayable(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestExtractPlayableURLs(t *testing.T) {
	body := `<html><script src="https://example.com/app.js"></script>
	<a href="https://cdn.example.com/video/talk.mp4">watch</a>
	{"embed":"https:\/\/www.youtube.com\/watch?v=abc123"}
	plain text https://example.com/blog/post.
	</html>`

	urls := ExtractPlayableURLs(body)
	if len(urls) != 2 {
		t.Fatalf("expected 2 playable URLs, got %v", urls)
	}
	if urls[0] != "https://cdn.example.com/video/talk.mp4" {
		t.Fatalf("unexpected first URL %q", urls[0])
	}
	if urls[1] != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("expected escaped slashes unwound, got %q", urls[1])
	}
}

func TestResolveDeduplicatesStructuredOverHeuristic(t *testing.T) {
	resolver := New(
		stubMetadata{entries: []ytdlp.Entry{{Title: "A Talk", ID: "abc123", URL: "https://www.youtube.com/watch?v=abc123"}}},
		stubScanner{urls: []string{"https://youtu.be/abc123", "https://cdn.example.com/extra.mp4"}},
		nil,
	)

	candidates, err := resolver.Resolve(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected duplicate short-link dropped, got %+v", candidates)
	}
	if candidates[0].Origin != OriginStructured || candidates[0].Title != "A Talk" {
		t.Fatalf("expected structured entry kept first, got %+v", candidates[0])
	}
	if candidates[1].Origin != OriginHeuristic {
		t.Fatalf("expected heuristic survivor appended, got %+v", candidates[1])
	}
	for i, c := range candidates {
		if c.Index != i+1 {
			t.Fatalf("expected contiguous 1-based indices, got %+v", candidates)
		}
	}
}

func TestResolveSurvivesMetadataFailure(t *testing.T) {
	resolver := New(
		stubMetadata{err: errors.New("unsupported url")},
		stubScanner{urls: []string{"https://cdn.example.com/talk.mp4"}},
		nil,
	)
	candidates, err := resolver.Resolve(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Origin != OriginHeuristic {
		t.Fatalf("expected heuristic-only result, got %+v", candidates)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	input := []Candidate{
		{URL: "https://www.youtube.com/watch?v=one", Origin: OriginStructured},
		{URL: "https://youtu.be/one", Origin: OriginHeuristic},
		{URL: "https://example.com/a.mp4", Origin: OriginHeuristic},
		{URL: "https://example.com/a.mp4", Origin: OriginHeuristic},
	}
	once := Merge(input)
	twice := Merge(once)
	if len(once) != 2 || len(twice) != len(once) {
		t.Fatalf("merge not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestResolveIndexBounds(t *testing.T) {
	resolver := New(
		stubMetadata{entries: []ytdlp.Entry{
			{Title: "One", URL: "https://example.com/one.mp4"},
			{Title: "Two", URL: "https://example.com/two.mp4"},
		}},
		nil,
		nil,
	)

	for _, index := range []int{0, 3, -1} {
		_, err := resolver.ResolveIndex(context.Background(), "https://example.com", index)
		if !errors.Is(err, services.ErrOutOfRange) {
			t.Fatalf("index %d: expected ErrOutOfRange, got %v", index, err)
		}
	}

	url, err := resolver.ResolveIndex(context.Background(), "https://example.com", 2)
	if err != nil {
		t.Fatalf("ResolveIndex: %v", err)
	}
	if url != "https://example.com/two.mp4" {
		t.Fatalf("unexpected selection %q", url)
	}
}

func TestResolveIndexNoCandidates(t *testing.T) {
	resolver := New(stubMetadata{}, nil, nil)
	_, err := resolver.ResolveIndex(context.Background(), "https://example.com", 1)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
