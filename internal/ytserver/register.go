package ytserver

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names advertised to MCP clients.
const (
	ToolDownload    = "download_youtube_url"
	ToolSearch      = "search_youtube_videos"
	ToolScreenshots = "get_screenshots"
)

// RegisterTools registers all YouTube tools on the given MCP server:
// download_youtube_url, search_youtube_videos, get_screenshots.
func RegisterTools(server *mcp.Server) {
	registerDownload(server)
	registerSearch(server)
	registerScreenshots(server)
}

// callLogger tags every log line of one tool call with a fresh call id.
func callLogger(tool string) *slog.Logger {
	return slog.With(slog.String("tool", tool), slog.String("call_id", uuid.NewString()))
}
