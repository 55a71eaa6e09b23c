package ytserver

import (
	"context"
	"log/slog"
	"math"

	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SearchInput struct {
	Query      string   `json:"query" jsonschema:"Search query"`
	MaxResults *float64 `json:"max_results,omitempty" jsonschema:"Maximum number of results to return (default 10, fractions are truncated)"`
}

func registerSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Search YouTube videos. Returns a JSON array of results with id, title, url and, when known, channel, duration (seconds) and viewCount. Fast: metadata only, nothing is downloaded.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
		if input.Query == "" {
			return toolutil.ErrorResult("query is required"), nil, nil
		}
		limit := searchLimit(input.MaxResults)
		log := callLogger(ToolSearch)
		log.Info("search: start", slog.String("query", input.Query), slog.Int("limit", limit))

		results, err := sources.SearchVideos(ctx, input.Query, limit)
		if err != nil {
			log.Warn("search: failed", slog.Any("error", err))
			return toolutil.ErrorResult("Error searching videos: %v", err), nil, nil
		}

		log.Info("search: done", slog.Int("count", len(results)))
		res, err := toolutil.JSONResult(results)
		if err != nil {
			return toolutil.ErrorResult("Error encoding results: %v", err), nil, nil
		}
		return res, nil, nil
	})
}

// searchLimit truncates the requested count toward zero. Out of range values
// are pinned so the conversion stays defined; SearchVideos clamps further.
func searchLimit(v *float64) int {
	if v == nil {
		return sources.DefaultSearchResults
	}
	return int(math.Max(math.Min(*v, math.MaxInt32), math.MinInt32))
}
