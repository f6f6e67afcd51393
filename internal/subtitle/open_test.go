package subtitle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ulikunitz/xz"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestParseSRTFile(t *testing.T) {
	content := "\ufeff1\n" + `00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
[door slams]
`
	sub, err := Open(writeTemp(t, "test.srt", content))
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	if sub.Format != string(FormatSRT) {
		t.Errorf("expected format srt, got %s", sub.Format)
	}
	if len(sub.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(sub.Cues))
	}
	if sub.Cues[0].Start != 1*time.Second || sub.Cues[0].End != 4*time.Second {
		t.Errorf("cue 0: expected 1s-4s, got %v-%v", sub.Cues[0].Start, sub.Cues[0].End)
	}
	if sub.Cues[0].Text != "Hello, world!" {
		t.Errorf("cue 0: expected 'Hello, world!', got %q", sub.Cues[0].Text)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if sub.Cues[1].Text != expectedText {
		t.Errorf("cue 1: expected %q, got %q", expectedText, sub.Cues[1].Text)
	}
	if sub.Cues[1].End != 8200*time.Millisecond {
		t.Errorf("cue 1: expected end 8.2s, got %v", sub.Cues[1].End)
	}
	if sub.Cues[2].Category != CategorySound {
		t.Errorf("cue 2: expected sound category, got %s", sub.Cues[2].Category)
	}
}

func TestParseVTTFile(t *testing.T) {
	content := `WEBVTT

NOTE this block is ignored
still ignored

1
00:00:01.000 --> 00:00:04.000
Hello, world!

2
00:00:05.500 --> 00:00:08.200
♪ la la la ♪

00:10.000 --> 00:12.500
No cue identifier.
`
	sub, err := Open(writeTemp(t, "test.vtt", content))
	if err != nil {
		t.Fatalf("failed to open VTT file: %v", err)
	}

	if len(sub.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(sub.Cues))
	}
	if sub.Cues[0].Start != 1*time.Second {
		t.Errorf("cue 0: expected start 1s, got %v", sub.Cues[0].Start)
	}
	if sub.Cues[1].Category != CategoryMusic {
		t.Errorf("cue 1: expected music category, got %s", sub.Cues[1].Category)
	}
	if sub.Cues[2].Text != "No cue identifier." {
		t.Errorf("cue 2: expected 'No cue identifier.', got %q", sub.Cues[2].Text)
	}
	if sub.Cues[2].Start != 10*time.Second {
		t.Errorf("cue 2: expected start 10s, got %v", sub.Cues[2].Start)
	}
}

func TestParseASSFile(t *testing.T) {
	content := `[Script Info]
Title: Test Subtitles
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!
Dialogue: 0,0:00:05.50,0:00:08.20,Italic,Narrator,0,0,0,,{\pos(100,200)}This has positioning.
Dialogue: 0,0:00:10.00,0:00:12.50,Default,,0,0,0,,Line with\Nnewline.
`
	sub, err := Open(writeTemp(t, "test.ass", content))
	if err != nil {
		t.Fatalf("failed to open ASS file: %v", err)
	}

	if len(sub.Cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(sub.Cues))
	}
	if sub.Cues[0].Text != "Hello, world!" {
		t.Errorf("cue 0: expected 'Hello, world!', got %q", sub.Cues[0].Text)
	}
	if sub.Cues[1].Start != 5500*time.Millisecond {
		t.Errorf("cue 1: expected start 5.5s, got %v", sub.Cues[1].Start)
	}

	meta := sub.Cues[1].Meta
	if meta[MetaStyle] != "Italic" || meta[MetaSpeaker] != "Narrator" {
		t.Errorf("cue 1: expected Italic/Narrator meta, got %v", meta)
	}
	if meta[MetaASSTags] != `{\pos(100,200)}` {
		t.Errorf("cue 1: expected leading tags preserved, got %q", meta[MetaASSTags])
	}
	if sub.Cues[1].Text != "This has positioning." {
		t.Errorf("cue 1: expected tags stripped from text, got %q", sub.Cues[1].Text)
	}
	if sub.Cues[2].Text != "Line with\nnewline." {
		t.Errorf("cue 2: expected 'Line with\\nnewline.', got %q", sub.Cues[2].Text)
	}
}

func TestASSMissingFormatLine(t *testing.T) {
	content := "[Events]\nDialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello\n"
	if _, err := Open(writeTemp(t, "bad.ass", content)); err == nil {
		t.Error("expected error for Dialogue before Format line")
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open(writeTemp(t, "test.txt", "test"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected 'unsupported' in error, got: %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	cues := []Cue{
		{Start: -1500 * time.Millisecond, End: -200 * time.Millisecond, Text: "before the chunk"},
		{Start: 0, End: time.Second, Text: "first"},
		{Start: time.Second, End: 2500 * time.Millisecond, Text: ""},
		{Start: 3 * time.Second, End: 61*time.Minute + 4*time.Second, Text: "two\nlines"},
	}

	for _, ext := range []string{".srt", ".vtt"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+ext)
			if err := WriteFile(&Subtitle{Cues: cues}, path); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			sub, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if len(sub.Cues) != len(cues) {
				t.Fatalf("expected %d cues, got %d", len(cues), len(sub.Cues))
			}
			for i := range cues {
				got, want := sub.Cues[i], cues[i]
				if got.Start != want.Start || got.End != want.End || got.Text != want.Text {
					t.Errorf("cue %d: got %v-%v %q, want %v-%v %q",
						i, got.Start, got.End, got.Text, want.Start, want.End, want.Text)
				}
			}
		})
	}
}

func TestASSWriterRestoresMeta(t *testing.T) {
	cues := []Cue{{
		Start: time.Second,
		End:   2 * time.Second,
		Text:  "tagged\ntext",
		Meta: map[string]string{
			MetaStyle:   "Italic",
			MetaSpeaker: "Ann",
			MetaASSTags: `{\an8}`,
		},
	}}
	path := filepath.Join(t.TempDir(), "out.ass")
	if err := WriteFile(&Subtitle{Cues: cues}, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := `Dialogue: 0,0:00:01.00,0:00:02.00,Italic,Ann,0,0,0,,{\an8}tagged\Ntext`
	if !strings.Contains(string(out), want) {
		t.Errorf("expected %q in output, got:\n%s", want, out)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{time.Second, "00:00:01.000"},
		{Seconds(21.674), "00:00:21.674"},
		{2*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond, "02:03:04.005"},
		{-1500 * time.Millisecond, "-00:00:01.500"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenXZCompressed(t *testing.T) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter failed: %v", err)
	}
	if _, err := w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nPacked\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "episode.SRT.xz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sub, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if sub.Format != string(FormatSRT) || len(sub.Cues) != 1 || sub.Cues[0].Text != "Packed" {
		t.Errorf("unexpected subtitle: %+v", sub)
	}
}

func TestOpenCorruptXZ(t *testing.T) {
	path := writeTemp(t, "broken.vtt.xz", "not xz at all")
	if _, err := Open(path); err == nil {
		t.Error("expected error for corrupt xz stream")
	}
}
