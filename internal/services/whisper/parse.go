package whisper

import (
	"regexp"
	"strconv"
	"strings"

	"xscribe/internal/transcript"
)

// segmentPattern matches the engine's timestamped stdout lines:
//
//	[00:01:02.500 --> 00:01:05.000]   recognized text
var segmentPattern = regexp.MustCompile(`^\[(\d{2,}):(\d{2}):(\d{2})\.(\d{3}) --> (\d{2,}):(\d{2}):(\d{2})\.(\d{3})\]\s*(.*)$`)

var languagePattern = regexp.MustCompile(`auto-detected language: ([a-zA-Z]{2,3})`)

func parseSegmentLine(line string) (transcript.Segment, bool) {
	match := segmentPattern.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return transcript.Segment{}, false
	}
	start := timestampSeconds(match[1], match[2], match[3], match[4])
	end := timestampSeconds(match[5], match[6], match[7], match[8])
	return transcript.Segment{
		StartSeconds: start,
		EndSeconds:   end,
		Text:         strings.TrimSpace(match[9]),
	}, true
}

func timestampSeconds(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}

func parseDetectedLanguage(stderr string) string {
	match := languagePattern.FindStringSubmatch(stderr)
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1])
}
