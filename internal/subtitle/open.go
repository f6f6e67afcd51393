package subtitle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Open reads a subtitle file, picking the parser from its extension.
// A trailing .xz is decompressed first, so episode.srt.xz reads as SRT.
func Open(path string) (*Subtitle, error) {
	name := strings.ToLower(path)
	compressed := strings.HasSuffix(name, ".xz")
	if compressed {
		name = strings.TrimSuffix(name, ".xz")
	}

	ext := filepath.Ext(name)
	format, ok := formatForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(string(format)), err)
	}
	defer func() {
		_ = file.Close()
	}()

	var r io.Reader = file
	if compressed {
		xr, err := xz.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		r = xr
	}
	return Read(r, format)
}

// parses subtitle content of the given format
func Read(r io.Reader, format Format) (*Subtitle, error) {
	var (
		cues []Cue
		err  error
	)
	switch format {
	case FormatSRT:
		cues, err = parseSRT(r)
	case FormatVTT:
		cues, err = parseVTT(r)
	case FormatASS:
		cues, err = parseASS(r)
	case FormatTTML:
		cues, err = parseTTML(r)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	if cues == nil {
		cues = []Cue{}
	}
	return &Subtitle{Cues: cues, Format: string(format)}, nil
}

func formatForExtension(ext string) (Format, bool) {
	switch ext {
	case ".srt":
		return FormatSRT, true
	case ".vtt":
		return FormatVTT, true
	case ".ass", ".ssa":
		return FormatASS, true
	case ".ttml", ".dfxp":
		return FormatTTML, true
	default:
		return "", false
	}
}

// guesses the category from bracketed sound descriptions and music notes
func classify(text string) Category {
	t := strings.TrimSpace(text)
	switch {
	case strings.ContainsAny(t, "♪♫"):
		return CategoryMusic
	case len(t) > 1 &&
		(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") ||
			strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")):
		return CategorySound
	default:
		return CategoryDialogue
	}
}
