// go_youtube is a YouTube MCP server backed by yt-dlp and ffmpeg.
//
// Exposes three MCP tools: download_youtube_url, search_youtube_videos, get_screenshots.
// Both binaries must be installed, on PATH or at YTDLP_PATH / FFMPEG_PATH.
// Runs as stdio MCP server (default) or HTTP transport (MCP_TRANSPORT=http).
// Settings come from the environment, optionally seeded from a .env file.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/ytserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	// A missing .env is normal; the environment may already be set.
	envErr := godotenv.Load()
	initLogging()
	if envErr != nil {
		slog.Debug("no .env loaded", slog.Any("error", envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initEngine(ctx)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_youtube",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := run(ctx, server); err != nil && ctx.Err() == nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("server stopped", slog.String("metrics", strings.ReplaceAll(engine.FormatMetrics(), "\n", " ")))
}

func run(ctx context.Context, server *mcp.Server) error {
	mcpTransport := env.Str("MCP_TRANSPORT", "stdio")
	mcpPort := env.Str("MCP_PORT", "8893")
	if strings.EqualFold(mcpTransport, "http") {
		slog.Info("starting go_youtube", slog.String("transport", "http"), slog.String("port", mcpPort))
		return mcpserver.Run(server, mcpserver.Config{
			Name:         "go_youtube",
			Version:      version,
			Port:         mcpPort,
			WriteTimeout: 600 * time.Second,
			Metrics:      engine.FormatMetrics,
		})
	}
	// stdout carries the protocol; logs go to stderr.
	slog.Info("starting go_youtube", slog.String("transport", "stdio"))
	return server.Run(ctx, &mcp.StdioTransport{})
}

// initLogging installs a stderr text handler. LOG_LEVEL picks the level;
// a non-empty DEBUG forces debug.
func initLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.Str("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	if env.Str("DEBUG", "") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func initEngine(ctx context.Context) {
	engine.Init(engine.Config{
		YtDlpPath:        env.Str("YTDLP_PATH", engine.DefaultYtDlpPath),
		FFmpegPath:       env.Str("FFMPEG_PATH", engine.DefaultFFmpegPath),
		SubLangs:         env.List("SUB_LANGS", "en"),
		TempDir:          env.Str("TEMP_DIR", ""),
		MaxSearchResults: env.Int("MAX_SEARCH_RESULTS", engine.DefaultMaxSearchResults),
		ResolveRetries:   env.Int("RESOLVE_RETRIES", engine.DefaultResolveRetries),
		RetryInitialWait: env.Duration("RETRY_INITIAL_WAIT", engine.DefaultRetryInitialWait),
		ProcessTimeout:   env.Duration("PROCESS_TIMEOUT", 0),
	})

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	engine.DetectVersions(probeCtx)
}
