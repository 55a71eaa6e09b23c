package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSubtitles is returned when the downloader wrote no cue files.
	ErrNoSubtitles = errors.New("no subtitles available for this video")

	// ErrInvalidTimestamp is returned for timestamps not in HH:MM:SS form.
	ErrInvalidTimestamp = errors.New("invalid timestamp, expected HH:MM:SS")

	// ErrEmptyMediaURL is returned when the downloader resolved no playable URL.
	ErrEmptyMediaURL = errors.New("downloader returned no media URL")
)

// maxStderrRunes caps how much stderr ends up in a user-visible message.
const maxStderrRunes = 500

// ProcessError is a non-zero exit of an external process.
type ProcessError struct {
	Name     string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
	if detail := StderrSummary(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Is allows for error checking with errors.Is().
func (e *ProcessError) Is(target error) bool {
	_, ok := target.(*ProcessError)
	return ok
}

// StderrSummary reduces process stderr to the lines worth showing a caller.
// yt-dlp prefixes fatal lines with "ERROR:"; when present only those are kept.
func StderrSummary(stderr string) string {
	var errs []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			errs = append(errs, line)
		}
	}
	out := strings.TrimSpace(stderr)
	if len(errs) > 0 {
		out = strings.Join(errs, "; ")
	}
	return TruncateRunes(out, maxStderrRunes, "...")
}
