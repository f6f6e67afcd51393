// Package media probes the video or audio a subtitle track is timed against.
package media

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// JSON output from ffprobe
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file, read with ffprobe
func Duration(path string) (time.Duration, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", path)
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(out string) (time.Duration, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Chunk is the slice of the media timeline a bounded target track covers.
// Cue times in the track are local: absolute time = Offset + local time.
type Chunk struct {
	Offset time.Duration
	Length time.Duration
}

// checks the chunk against the full media duration
func (c Chunk) Validate(mediaDuration time.Duration) error {
	if c.Offset < 0 {
		return fmt.Errorf("chunk offset %v is negative", c.Offset)
	}
	if c.Length < 0 {
		return fmt.Errorf("chunk length %v is negative", c.Length)
	}
	if mediaDuration > 0 && c.Offset >= mediaDuration {
		return fmt.Errorf(
			"chunk offset %v is past the end of the media (%v)",
			c.Offset,
			mediaDuration,
		)
	}
	if mediaDuration > 0 && c.Length > 0 && c.Offset+c.Length > mediaDuration {
		return fmt.Errorf(
			"chunk %v+%v runs past the end of the media (%v)",
			c.Offset,
			c.Length,
			mediaDuration,
		)
	}
	return nil
}

// converts a local cue time to the absolute media timeline
func (c Chunk) Absolute(local time.Duration) time.Duration {
	return c.Offset + local
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpeg", ".mpg", ".3gp":
		return true
	}
	return false
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav", ".aac", ".flac", ".ogg", ".m4a", ".wma", ".aiff":
		return true
	}
	return false
}

func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
