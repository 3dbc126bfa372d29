package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderMarkdown produces the transcript document: a title header, a source
// attribution line, a separator, then one timestamped line per segment. An
// empty title falls back to "Transcription".
func RenderMarkdown(result Result, source, title string) string {
	if strings.TrimSpace(title) == "" {
		title = "Transcription"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Source:** `%s`\n\n", source)
	b.WriteString("---\n\n")
	for _, seg := range result.Segments {
		fmt.Fprintf(&b, "**[%s]** %s\n\n", FormatTimestamp(seg.StartSeconds), seg.Text)
	}
	return b.String()
}

// WriteMarkdown renders the transcript and writes it to outputPath.
func WriteMarkdown(result Result, source, title, outputPath string) error {
	if err := os.WriteFile(outputPath, []byte(RenderMarkdown(result, source, title)), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// DeriveTitle turns a file path or URL-derived name into a readable document
// title: separators collapse to spaces and words are title-cased.
func DeriveTitle(sourcePath string) string {
	if sourcePath == "" {
		return "Transcription"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Transcription"
	}
	return cases.Title(language.Und).String(title)
}
