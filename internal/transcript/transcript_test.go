package transcript

import (
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{2.5, "00:02"},
		{59.999, "00:59"},
		{60, "01:00"},
		{125.9, "02:05"},
		{3599.9, "59:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7325.7, "02:02:05"},
		{-5, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	result := Result{Segments: []Segment{
		{StartSeconds: 0.0, EndSeconds: 2.5, Text: "Hello"},
		{StartSeconds: 2.5, EndSeconds: 5.0, Text: "world"},
	}}
	doc := RenderMarkdown(result, "talk.mp3", DeriveTitle("talk.mp3"))

	if !strings.HasPrefix(doc, "# Talk\n\n") {
		t.Fatalf("missing derived title header: %q", doc)
	}
	if !strings.Contains(doc, "**Source:** `talk.mp3`") {
		t.Fatalf("missing source line: %q", doc)
	}
	first := strings.Index(doc, "**[00:00]** Hello")
	second := strings.Index(doc, "**[00:02]** world")
	if first < 0 || second < 0 {
		t.Fatalf("missing segment lines: %q", doc)
	}
	if second < first {
		t.Fatal("segment lines out of order")
	}
}

func TestRenderMarkdownFallsBackToGenericTitle(t *testing.T) {
	doc := RenderMarkdown(Result{}, "https://example.com/watch?v=abc", "")
	if !strings.HasPrefix(doc, "# Transcription\n\n") {
		t.Fatalf("expected generic title fallback: %q", doc)
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/tmp/some_lecture.video.mp4", "Some Lecture Video"},
		{"talk-about-go.mkv", "Talk About Go"},
		{"", "Transcription"},
		{"___", "Transcription"},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.in); got != tc.want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
