// Package ytdlp wraps the yt-dlp CLI: media acquisition with an audio- or
// video-first format policy, and the metadata-only extraction mode the
// candidate resolver consumes.
//
// The contract with the tool is narrow: exit 0 and leave exactly one media
// file in the destination directory, or exit nonzero with diagnostic text on
// stderr. Known YouTube blocking signatures get an actionable remediation
// hint appended to the error text without changing its kind.
package ytdlp
