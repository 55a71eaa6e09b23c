package sources

// YouTube support is split across files by responsibility:
//   youtube_cues.go        pure cue-file (VTT/SRT) cleaning
//   youtube_subtitles.go   subtitle download into a workspace via yt-dlp
//   youtube_search.go      ytsearch metadata dump and record mapping
//   youtube_screenshots.go media URL resolution and ffmpeg frame capture

import "regexp"

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// extractVideoID pulls the 11-char video ID from any YouTube URL format.
func extractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// watchURL returns the canonical watch page URL for a video ID.
func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
