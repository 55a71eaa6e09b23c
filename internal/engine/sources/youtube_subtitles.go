package sources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// subtitleHeaderRule separates a file name from its cleaned text.
const subtitleHeaderRule = "===================="

// subtitleArgs builds the yt-dlp invocation that writes manual and automatic
// captions as VTT into the working directory without fetching media.
func subtitleArgs(videoURL string) []string {
	return []string{
		"--write-sub",
		"--write-auto-sub",
		"--sub-lang", strings.Join(engine.Cfg.SubLangs, ","),
		"--sub-format", "vtt",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"-o", "%(id)s.%(ext)s",
		"--", videoURL,
	}
}

// DownloadSubtitles fetches the captions of videoURL and returns the cleaned
// text of every downloaded track, each under a file name header.
func DownloadSubtitles(ctx context.Context, videoURL string) (string, error) {
	engine.IncrSubtitleDownload()

	text, err := engine.WithWorkspace("subs", func(dir string) (string, error) {
		_, err := engine.RunProcess(ctx, engine.Process{
			Name: engine.Cfg.YtDlpPath,
			Args: subtitleArgs(videoURL),
			Dir:  dir,
		})
		if err != nil {
			return "", fmt.Errorf("download subtitles: %w", err)
		}
		return readCueFiles(dir)
	})
	if err != nil {
		engine.IncrSubtitleError()
		return "", err
	}
	slog.Debug("youtube: subtitles downloaded",
		slog.String("id", extractVideoID(videoURL)), slog.Int("chars", len(text)))
	return text, nil
}

// readCueFiles cleans every regular file in dir, in name order.
func readCueFiles(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read workspace: %w", err)
	}

	var blocks []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), ".part") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", e.Name(), err)
		}
		blocks = append(blocks, e.Name()+"\n"+subtitleHeaderRule+"\n"+CleanCueText(string(data)))
	}
	if len(blocks) == 0 {
		return "", engine.ErrNoSubtitles
	}
	return strings.Join(blocks, "\n\n"), nil
}
