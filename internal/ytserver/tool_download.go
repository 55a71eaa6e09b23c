package ytserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DownloadInput struct {
	URL string `json:"url" jsonschema:"URL of the YouTube video"`
}

func registerDownload(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolDownload,
		Description: "Download YouTube subtitles from a URL and return them as plain text, with timing lines and caption markup removed. Use this to read or summarize what is said in a video.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input DownloadInput) (*mcp.CallToolResult, any, error) {
		url := strings.TrimSpace(input.URL)
		if url == "" {
			return toolutil.ErrorResult("url is required"), nil, nil
		}
		log := callLogger(ToolDownload)
		log.Info("download: start", slog.String("url", url))

		text, err := sources.DownloadSubtitles(ctx, url)
		if err != nil {
			log.Warn("download: failed", slog.Any("error", err))
			if errors.Is(err, engine.ErrNoSubtitles) {
				return toolutil.ErrorResult("No subtitles found for %s: the video has no English captions.", url), nil, nil
			}
			return toolutil.ErrorResult("Error downloading subtitles: %v", err), nil, nil
		}

		log.Info("download: done", slog.Int("chars", len(text)))
		return toolutil.TextResult(text), nil, nil
	})
}
