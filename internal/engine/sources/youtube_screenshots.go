package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// mediaFormat prefers a progressive mp4 so ffmpeg can seek a single URL.
const mediaFormat = "best[ext=mp4]/best"

var timestampRE = regexp.MustCompile(`^(\d{2}):([0-5]\d):([0-5]\d)$`)

// Screenshot is the outcome for one requested timestamp. Exactly one of
// Data and Err is set.
type Screenshot struct {
	Timestamp string
	Data      []byte
	MIMEType  string
	Err       error
}

// ParseTimestamp parses a strict HH:MM:SS offset.
func ParseTimestamp(s string) (time.Duration, error) {
	m := timestampRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%q: %w", s, engine.ErrInvalidTimestamp)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(sec)*time.Second, nil
}

// ResolveMediaURL asks yt-dlp for a directly playable media URL.
func ResolveMediaURL(ctx context.Context, videoURL string) (string, error) {
	res, err := engine.RetryProcess(ctx, engine.Process{
		Name: engine.Cfg.YtDlpPath,
		Args: []string{"-f", mediaFormat, "--get-url", "--no-playlist", "--no-warnings", "--", videoURL},
	})
	if err != nil {
		return "", fmt.Errorf("resolve media URL: %w", err)
	}
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", engine.ErrEmptyMediaURL
}

// CaptureScreenshots grabs one frame per timestamp, in request order.
// Invalid timestamps and failed extractions are reported per entry; only a
// failure to resolve the media URL fails the whole call.
func CaptureScreenshots(ctx context.Context, videoURL string, timestamps []string) ([]Screenshot, error) {
	if len(timestamps) == 0 {
		return nil, errors.New("at least one timestamp is required")
	}
	engine.IncrScreenshotRequest()

	shots := make([]Screenshot, len(timestamps))
	valid := 0
	for i, ts := range timestamps {
		shots[i].Timestamp = ts
		if _, err := ParseTimestamp(ts); err != nil {
			shots[i].Err = err
			engine.IncrFrameError()
			continue
		}
		valid++
	}
	if valid == 0 {
		return shots, nil
	}

	return engine.WithWorkspace("frames", func(dir string) ([]Screenshot, error) {
		mediaURL, err := ResolveMediaURL(ctx, videoURL)
		if err != nil {
			return nil, err
		}
		for i := range shots {
			if shots[i].Err != nil {
				continue
			}
			data, err := captureFrame(ctx, dir, mediaURL, i, strings.TrimSpace(shots[i].Timestamp))
			if err != nil {
				slog.Warn("youtube: frame capture failed",
					slog.String("timestamp", shots[i].Timestamp), slog.Any("error", err))
				shots[i].Err = err
				engine.IncrFrameError()
				continue
			}
			shots[i].Data = data
			shots[i].MIMEType = "image/jpeg"
			engine.IncrFrameCaptured()
		}
		return shots, nil
	})
}

// captureFrame runs ffmpeg to write a single JPEG frame at ts and reads it back.
func captureFrame(ctx context.Context, dir, mediaURL string, index int, ts string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("frame_%03d.jpg", index)
	_, err := engine.RunProcess(ctx, engine.Process{
		Name: engine.Cfg.FFmpegPath,
		Args: []string{
			"-hide_banner", "-loglevel", "error",
			"-ss", ts,
			"-i", mediaURL,
			"-frames:v", "1",
			"-q:v", "2",
			"-y", name,
		},
		Dir: dir,
	})
	if err != nil {
		return nil, fmt.Errorf("extract frame: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return nil, fmt.Errorf("no frame at %s (past the end of the video?)", ts)
	}
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return data, nil
}
