package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "Lipisync Subtitles",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	case FormatTTML:
		return nil, fmt.Errorf("TTML is read-only: write srt, vtt, or ass instead")
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes sub to path in the format implied by the extension
func WriteFile(sub *Subtitle, path string) error {
	format, ok := formatForExtension(strings.ToLower(filepath.Ext(path)))
	if !ok {
		return fmt.Errorf("unsupported subtitle format: %s", filepath.Ext(path))
	}
	writer, err := NewWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(sub, path)
}

// writes the subtitle to an SRT file
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	for i, cue := range sub.Cues {
		// index (1-based)
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n",
			formatClock(cue.Start, ','),
			formatClock(cue.End, ','))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// writes the subtitle to a VTT file
func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, cue := range sub.Cues {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n",
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// writes the subtitle to an ASS file, restoring style, speaker and override tags
func (w *ASSWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	fmt.Fprintf(&sb, "Title: %s\n", w.Title)
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&sb, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize)

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range sub.Cues {
		style := cue.Meta[MetaStyle]
		if style == "" {
			style = "Default"
		}
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,%s,%s,0,0,0,,%s%s\n",
			formatASSTime(cue.Start),
			formatASSTime(cue.End),
			style,
			cue.Meta[MetaSpeaker],
			cue.Meta[MetaASSTags],
			escapeASSText(cue.Text))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// FormatTimestamp renders d as zero-padded HH:MM:SS.mmm. Negative
// durations, which only bounded chunk edits produce, get a leading '-'.
func FormatTimestamp(d time.Duration) string {
	return formatClock(d, '.')
}

func formatClock(d time.Duration, sep byte) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%s%02d:%02d:%02d%c%03d", sign, hours, minutes, seconds, sep, millis)
}

func formatASSTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
