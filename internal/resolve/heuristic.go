package resolve

import (
	"net/url"
	"path"
	"strings"
)

// mediaExtensions are container or stream formats accepted outright.
var mediaExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".webm": {},
	".mov":  {},
	".avi":  {},
	".flv":  {},
	".ts":   {},
	".m4a":  {},
	".mp3":  {},
	".aac":  {},
	".opus": {},
	".ogg":  {},
	".flac": {},
	".wav":  {},
	".m3u8": {},
	".mpd":  {},
}

// rejectedExtensions are page assets that are never playable media.
var rejectedExtensions = map[string]struct{}{
	".js":    {},
	".mjs":   {},
	".css":   {},
	".woff":  {},
	".woff2": {},
	".ttf":   {},
	".otf":   {},
	".eot":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".svg":   {},
	".webp":  {},
	".ico":   {},
	".avif":  {},
}

// isPlayable is the precision-over-recall filter for page-scanned URLs.
// Known media extensions pass; known asset extensions fail; everything else
// passes only for a short allow-list of embeddable video hosts or an obvious
// stream-manifest marker. Unknown hosts with no media extension are rejected
// because the result feeds automated selection.
func isPlayable(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	cleanPath := parsed.Path
	if cleanPath == "" || cleanPath == "/" {
		return false
	}

	ext := strings.ToLower(path.Ext(cleanPath))
	if _, ok := rejectedExtensions[ext]; ok {
		return false
	}
	if _, ok := mediaExtensions[ext]; ok {
		return true
	}

	if hasManifestMarker(parsed) {
		return true
	}
	return isEmbeddableHost(parsed)
}

func hasManifestMarker(u *url.URL) bool {
	for _, fragment := range []string{u.Path, u.RawQuery} {
		lowered := strings.ToLower(fragment)
		if strings.Contains(lowered, ".m3u8") || strings.Contains(lowered, ".mpd") || strings.Contains(lowered, "manifest") {
			return true
		}
	}
	return false
}

func isEmbeddableHost(u *url.URL) bool {
	host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	p := u.Path
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		return p == "/watch" && u.Query().Get("v") != "" ||
			strings.HasPrefix(p, "/shorts/") ||
			strings.HasPrefix(p, "/embed/") ||
			strings.HasPrefix(p, "/live/")
	case "youtu.be":
		return firstPathSegment(p) != ""
	case "vimeo.com":
		segment := firstPathSegment(p)
		return segment != "" && isDigits(segment)
	case "player.vimeo.com":
		return strings.HasPrefix(p, "/video/")
	case "dailymotion.com":
		return strings.HasPrefix(p, "/video/")
	case "twitch.tv":
		return strings.HasPrefix(p, "/videos/")
	case "streamable.com":
		return firstPathSegment(p) != ""
	case "rumble.com":
		return strings.HasPrefix(p, "/v")
	default:
		return false
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
