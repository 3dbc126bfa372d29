package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// mediaExtensions lists the container formats the download tool may leave
// behind. Lookup is by lowercased extension including the dot.
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
	".oga":  {},
	".flac": {},
	".wav":  {},
	".wma":  {},
	".m4v":  {},
	".3gp":  {},
}

// IsMediaFile reports whether the path carries a known media container extension.
func IsMediaFile(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// NewestMediaFile scans dir for files with a known media extension and
// returns the most recently modified match. Returns os.ErrNotExist when no
// file matches.
func NewestMediaFile(dir string) (string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var (
		newest     string
		newestTime time.Time
	)
	for _, item := range items {
		if item.IsDir() || !IsMediaFile(item.Name()) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, item.Name())
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", os.ErrNotExist
	}
	return newest, nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// RemoveDirQuiet removes dir recursively, ignoring all errors. Used on
// cleanup paths where failure is not actionable.
func RemoveDirQuiet(dir string) {
	if dir == "" {
		return
	}
	_ = os.RemoveAll(dir)
}
