package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SubtitleDownloads  atomic.Int64
	SubtitleErrors     atomic.Int64
	SearchRequests     atomic.Int64
	SearchErrors       atomic.Int64
	ScreenshotRequests atomic.Int64
	FramesCaptured     atomic.Int64
	FrameErrors        atomic.Int64
	ProcessRuns        atomic.Int64
	ProcessFailures    atomic.Int64
	ProcessRetries     atomic.Int64
}

var metricKeys = []string{
	"subtitle_downloads", "subtitle_errors",
	"search_requests", "search_errors",
	"screenshot_requests", "frames_captured", "frame_errors",
	"process_runs", "process_failures", "process_retries",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"subtitle_downloads":  metrics.SubtitleDownloads.Load(),
		"subtitle_errors":     metrics.SubtitleErrors.Load(),
		"search_requests":     metrics.SearchRequests.Load(),
		"search_errors":       metrics.SearchErrors.Load(),
		"screenshot_requests": metrics.ScreenshotRequests.Load(),
		"frames_captured":     metrics.FramesCaptured.Load(),
		"frame_errors":        metrics.FrameErrors.Load(),
		"process_runs":        metrics.ProcessRuns.Load(),
		"process_failures":    metrics.ProcessFailures.Load(),
		"process_retries":     metrics.ProcessRetries.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrSubtitleDownload()  { metrics.SubtitleDownloads.Add(1) }
func IncrSubtitleError()     { metrics.SubtitleErrors.Add(1) }
func IncrSearch()            { metrics.SearchRequests.Add(1) }
func IncrSearchError()       { metrics.SearchErrors.Add(1) }
func IncrScreenshotRequest() { metrics.ScreenshotRequests.Add(1) }
func IncrFrameCaptured()     { metrics.FramesCaptured.Add(1) }
func IncrFrameError()        { metrics.FrameErrors.Add(1) }

// slowOperation is the threshold above which TrackOperation logs a warning.
const slowOperation = 5 * time.Second

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > slowOperation {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
