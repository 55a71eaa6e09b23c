package sources

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// cueTimingRE matches VTT and SRT timing lines, with optional hours and
	// trailing cue settings ("align:start position:0%").
	cueTimingRE = regexp.MustCompile(`^(?:\d+:)?\d{2}:\d{2}[.,]\d{3}\s*-->\s*(?:\d+:)?\d{2}:\d{2}[.,]\d{3}`)
	cueIndexRE  = regexp.MustCompile(`^\d+$`)
	// cueTagRE matches cue markup only: <c.class>, </c>, <i>, <v Speaker>,
	// <lang en>, SRT <font ...>, and karaoke timestamps <00:00:01.000>.
	cueTagRE = regexp.MustCompile(`</?(?:c|i|b|u|v|lang|ruby|rt|font)(?:[.\s][^<>]*)?>|<(?:\d+:)?\d{2}:\d{2}[.,]\d{3}>`)
)

// cueBlockPrefixes start blocks that carry no caption text. They run until
// the next blank line.
var cueBlockPrefixes = []string{"WEBVTT", "NOTE", "STYLE", "REGION"}

// CleanCueText turns raw cue-file text into plain caption lines: headers,
// comment/style blocks, sequence numbers, timing lines and inline tags are
// removed, entities decoded, and consecutive repeats (rolling auto-captions)
// collapsed.
//
// Only text that looks like a cue file (a WEBVTT signature or timing lines)
// is stripped structurally; anything else is just normalized line by line.
// The output never looks like a cue file, so cleaning it again is a no-op.
func CleanCueText(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = normalizeCueLine(lines[i])
	}
	if !isCueFile(lines) {
		return joinDistinct(lines)
	}

	var texts []string
	inBlock := false
	blockStart := true
	for i, line := range lines {
		if line == "" {
			inBlock = false
			blockStart = true
			continue
		}
		if inBlock {
			continue
		}
		start := blockStart
		blockStart = false
		if start && hasCuePrefix(line, cueBlockPrefixes...) {
			inBlock = true
			continue
		}
		// Identifiers open a block and precede its timing line; a bare
		// number anywhere else is caption text.
		if cueTimingRE.MatchString(line) || (start && cueIndexRE.MatchString(line)) {
			continue
		}
		if start && i+1 < len(lines) && cueTimingRE.MatchString(lines[i+1]) {
			continue
		}

		text := normalizeCueLine(html.UnescapeString(cueTagRE.ReplaceAllString(line, "")))
		if cueTimingRE.MatchString(text) || hasCuePrefix(text, "WEBVTT") {
			continue
		}
		texts = append(texts, text)
	}
	return joinDistinct(texts)
}

// normalizeCueLine drops byte order marks and collapses all whitespace,
// including no-break spaces, to single spaces.
func normalizeCueLine(line string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(line, "\ufeff", "")), " ")
}

func isCueFile(lines []string) bool {
	first := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		if first && hasCuePrefix(line, "WEBVTT") {
			return true
		}
		first = false
		if cueTimingRE.MatchString(line) {
			return true
		}
	}
	return false
}

// joinDistinct joins non-empty lines, skipping consecutive repeats.
func joinDistinct(lines []string) string {
	out := make([]string, 0, len(lines))
	last := ""
	for _, line := range lines {
		if line == "" || line == last {
			continue
		}
		out = append(out, line)
		last = line
	}
	return strings.Join(out, "\n")
}

func hasCuePrefix(line string, prefixes ...string) bool {
	for _, p := range prefixes {
		if line == p || strings.HasPrefix(line, p+" ") {
			return true
		}
	}
	return false
}
