package engine

import (
	"os"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YtDlpPath        string        // downloader binary, resolved via PATH when bare
	FFmpegPath       string        // frame extractor binary
	SubLangs         []string      // passed to --sub-lang
	TempDir          string        // parent of per-call workspaces; "" = os.TempDir()
	MaxSearchResults int           // upper clamp for max_results
	ResolveRetries   int           // max tries for transient yt-dlp failures
	RetryInitialWait time.Duration // first backoff interval
	ProcessTimeout   time.Duration // 0 = no per-process timeout
	Runner           Runner        // nil = ExecRunner
}

// Defaults for zero-valued Config fields.
const (
	DefaultYtDlpPath        = "yt-dlp"
	DefaultFFmpegPath       = "ffmpeg"
	DefaultMaxSearchResults = 50
	DefaultResolveRetries   = 3
	DefaultRetryInitialWait = 500 * time.Millisecond
)

var cfg = withDefaults(Config{})

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = withDefaults(c)
	Cfg = &cfg
}

func withDefaults(c Config) Config {
	if c.YtDlpPath == "" {
		c.YtDlpPath = DefaultYtDlpPath
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = DefaultFFmpegPath
	}
	if len(c.SubLangs) == 0 {
		c.SubLangs = []string{"en"}
	}
	if c.MaxSearchResults <= 0 {
		c.MaxSearchResults = DefaultMaxSearchResults
	}
	if c.ResolveRetries <= 0 {
		c.ResolveRetries = DefaultResolveRetries
	}
	if c.RetryInitialWait <= 0 {
		c.RetryInitialWait = DefaultRetryInitialWait
	}
	if c.Runner == nil {
		c.Runner = ExecRunner{}
	}
	return c
}

// tempRoot returns the directory workspaces are created under.
func (c *Config) tempRoot() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}
