package ytserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ScreenshotsInput struct {
	URL        string   `json:"url" jsonschema:"URL of the YouTube video"`
	Timestamps []string `json:"timestamps" jsonschema:"Timestamps to capture, each in HH:MM:SS format (e.g. 00:01:30)"`
}

func registerScreenshots(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolScreenshots,
		Description: "Capture screenshots of a YouTube video at the given HH:MM:SS timestamps. Returns one JPEG image per timestamp in request order; a timestamp that cannot be captured is returned as a text entry explaining why.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ScreenshotsInput) (*mcp.CallToolResult, any, error) {
		url := strings.TrimSpace(input.URL)
		if url == "" {
			return toolutil.ErrorResult("url is required"), nil, nil
		}
		if len(input.Timestamps) == 0 {
			return toolutil.ErrorResult("timestamps must contain at least one HH:MM:SS value"), nil, nil
		}
		log := callLogger(ToolScreenshots)
		log.Info("screenshots: start", slog.String("url", url), slog.Int("timestamps", len(input.Timestamps)))

		shots, err := sources.CaptureScreenshots(ctx, url, input.Timestamps)
		if err != nil {
			log.Warn("screenshots: failed", slog.Any("error", err))
			return toolutil.ErrorResult("Error capturing screenshots: %v", err), nil, nil
		}

		res := &mcp.CallToolResult{Content: make([]mcp.Content, 0, len(shots))}
		captured := 0
		for _, s := range shots {
			if s.Err != nil {
				res.Content = append(res.Content, &mcp.TextContent{
					Text: fmt.Sprintf("Screenshot at %s failed: %v", s.Timestamp, s.Err),
				})
				continue
			}
			res.Content = append(res.Content, &mcp.ImageContent{Data: s.Data, MIMEType: s.MIMEType})
			captured++
		}
		res.IsError = captured == 0

		log.Info("screenshots: done", slog.Int("captured", captured), slog.Int("failed", len(shots)-captured))
		return res, nil, nil
	})
}
