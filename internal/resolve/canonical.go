package resolve

import (
	"net/url"
	"strings"
)

// youtubeHosts are the watch-page hosts whose video IDs we can recover.
var youtubeHosts = map[string]struct{}{
	"youtube.com":          {},
	"www.youtube.com":      {},
	"m.youtube.com":        {},
	"music.youtube.com":    {},
	"youtube-nocookie.com": {},
}

// canonicalKey derives the identity string used for candidate deduplication.
// YouTube watch/short-link/embed URLs collapse to "youtube:<id>" so the same
// video reached through youtube.com and youtu.be deduplicates; every other
// URL keys on host+path with the trailing slash stripped. The key is never
// shown to the user.
func canonicalKey(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return strings.TrimSpace(rawURL)
	}
	if id := youtubeVideoID(parsed); id != "" {
		return "youtube:" + id
	}
	host := strings.ToLower(parsed.Host)
	path := strings.TrimSuffix(parsed.Path, "/")
	return host + path
}

func youtubeVideoID(u *url.URL) string {
	host := strings.ToLower(u.Host)
	if host == "youtu.be" {
		return firstPathSegment(u.Path)
	}
	if _, ok := youtubeHosts[host]; !ok {
		return ""
	}
	path := u.Path
	switch {
	case path == "/watch":
		return u.Query().Get("v")
	case strings.HasPrefix(path, "/shorts/"):
		return firstPathSegment(strings.TrimPrefix(path, "/shorts"))
	case strings.HasPrefix(path, "/embed/"):
		return firstPathSegment(strings.TrimPrefix(path, "/embed"))
	case strings.HasPrefix(path, "/live/"):
		return firstPathSegment(strings.TrimPrefix(path, "/live"))
	}
	return ""
}

func firstPathSegment(path string) string {
	path = strings.Trim(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	return path
}
