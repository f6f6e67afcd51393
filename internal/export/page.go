package export

import "github.com/mgpai22/lipisync/internal/align"

// Page returns lines[start:end] clamped to the slice bounds. The result
// shares the backing array with lines.
func Page(lines []align.Line, start, end int) []align.Line {
	start = max(start, 0)
	end = min(end, len(lines))
	if start >= end {
		return []align.Line{}
	}
	return lines[start:end]
}
