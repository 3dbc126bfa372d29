package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestScanExtractsPlayableURLsAndSendsUserAgent(t *testing.T) {
	const userAgent = "test-agent/1.0"
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`<html>
<script src="https://cdn.example.com/app.js"></script>
<a href="https://cdn.example.com/talks/keynote.mp4">video</a>
{"src":"https:\/\/media.example.com\/stream\/master.m3u8"}
<img src="https://cdn.example.com/poster.jpg">
</html>`))
	}))
	defer server.Close()

	scanner := NewScanner(5*time.Second, userAgent, nil)
	found := scanner.Scan(context.Background(), server.URL)

	if gotAgent != userAgent {
		t.Fatalf("User-Agent = %q, want %q", gotAgent, userAgent)
	}
	want := []string{
		"https://cdn.example.com/talks/keynote.mp4",
		"https://media.example.com/stream/master.m3u8",
	}
	if len(found) != len(want) {
		t.Fatalf("Scan = %v, want %v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Fatalf("Scan[%d] = %q, want %q", i, found[i], want[i])
		}
	}
}

func TestScanSkipsNonOKResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	if found := NewScanner(5*time.Second, "", nil).Scan(context.Background(), server.URL); found != nil {
		t.Fatalf("expected nil for non-200 response, got %v", found)
	}
}

func TestScanFetchFailureDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if found := NewScanner(time.Second, "", nil).Scan(context.Background(), server.URL); found != nil {
		t.Fatalf("expected nil for unreachable host, got %v", found)
	}
	if found := NewScanner(time.Second, "", nil).Scan(context.Background(), "://not-a-url"); found != nil {
		t.Fatalf("expected nil for malformed URL, got %v", found)
	}
}

func TestScanBoundsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("https://cdn.example.com/early.mp4 "))
		w.Write([]byte(strings.Repeat("x", maxScanBytes)))
		w.Write([]byte(" https://cdn.example.com/beyond-the-cap.mp4"))
	}))
	defer server.Close()

	found := NewScanner(5*time.Second, "", nil).Scan(context.Background(), server.URL)
	if len(found) != 1 || found[0] != "https://cdn.example.com/early.mp4" {
		t.Fatalf("expected only the URL inside the read cap, got %v", found)
	}
}
