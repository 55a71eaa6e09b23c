package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// DefaultSearchResults is used when the caller gives no limit.
const DefaultSearchResults = 10

// SearchResult is the reduced shape returned to MCP clients.
type SearchResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Channel   string   `json:"channel,omitempty"`
	Duration  *float64 `json:"duration,omitempty"` // seconds
	ViewCount *int64   `json:"viewCount,omitempty"`
}

// ytdlpRecord is the subset of one --dump-json line we read.
type ytdlpRecord struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	WebpageURL string   `json:"webpage_url"`
	Channel    string   `json:"channel"`
	Uploader   string   `json:"uploader"`
	Duration   *float64 `json:"duration"`
	ViewCount  *float64 `json:"view_count"`
}

// SearchVideos searches YouTube through yt-dlp's ytsearch extractor.
// limit <= 0 yields an empty list without spawning a process; larger limits
// are clamped to Cfg.MaxSearchResults.
func SearchVideos(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		return []SearchResult{}, nil
	}
	if limit > engine.Cfg.MaxSearchResults {
		limit = engine.Cfg.MaxSearchResults
	}
	engine.IncrSearch()

	results, err := engine.WithWorkspace("search", func(dir string) ([]SearchResult, error) {
		res, err := engine.RetryProcess(ctx, engine.Process{
			Name: engine.Cfg.YtDlpPath,
			Args: searchArgs(query, limit),
			Dir:  dir,
		})
		if err != nil {
			return nil, fmt.Errorf("search videos: %w", err)
		}
		return ParseSearchOutput(res.Stdout, limit), nil
	})
	if err != nil {
		engine.IncrSearchError()
		return nil, err
	}
	return results, nil
}

func searchArgs(query string, limit int) []string {
	return []string{
		"ytsearch" + strconv.Itoa(limit) + ":" + query,
		"--flat-playlist",
		"--dump-json",
		"--no-download",
		"--no-warnings",
	}
}

// ParseSearchOutput maps newline-delimited yt-dlp JSON records to results.
// Blank, malformed and id-less lines are skipped; at most limit are returned.
func ParseSearchOutput(stdout []byte, limit int) []SearchResult {
	results := make([]SearchResult, 0, max(limit, 0))
	for _, line := range bytes.Split(stdout, []byte("\n")) {
		if len(results) >= limit {
			break
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec ytdlpRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			slog.Debug("youtube: skipping malformed search record", slog.Any("error", err))
			continue
		}
		if rec.ID == "" {
			continue
		}
		results = append(results, rec.toResult())
	}
	return results
}

func (r ytdlpRecord) toResult() SearchResult {
	out := SearchResult{
		ID:       r.ID,
		Title:    r.Title,
		URL:      r.WebpageURL,
		Channel:  r.Channel,
		Duration: r.Duration,
	}
	if out.URL == "" {
		out.URL = r.URL
	}
	if out.URL == "" {
		out.URL = watchURL(r.ID)
	}
	if out.Channel == "" {
		out.Channel = r.Uploader
	}
	if r.ViewCount != nil {
		v := int64(*r.ViewCount)
		out.ViewCount = &v
	}
	return out
}
