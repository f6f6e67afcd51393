package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lipisync/internal/media"
	"github.com/mgpai22/lipisync/internal/session"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

// a loaded target file and the session editing it
type workspace struct {
	path    string
	target  *subtitle.Subtitle
	session *session.Session
}

func openSubtitle(path string) (*subtitle.Subtitle, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file not found: %s", path)
	}
	sub, err := subtitle.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	return sub, nil
}

// chunkOptions builds the bounded-session option from the chunk flags and
// checks the chunk against --media when it is given.
func chunkOptions(cmd *cobra.Command) ([]session.Option, error) {
	if !cmd.Flags().Changed("chunk-offset") {
		return nil, nil
	}
	offset, _ := cmd.Flags().GetDuration("chunk-offset")
	length, _ := cmd.Flags().GetDuration("chunk-length")
	mediaPath, _ := cmd.Flags().GetString("media")

	chunk := media.Chunk{Offset: offset, Length: length}
	var mediaDuration time.Duration
	if mediaPath != "" {
		if !media.IsMediaFile(mediaPath) {
			return nil, fmt.Errorf("unsupported media file: %s", mediaPath)
		}
		d, err := media.Duration(mediaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to probe media: %w", err)
		}
		mediaDuration = d
	}
	if err := chunk.Validate(mediaDuration); err != nil {
		return nil, err
	}

	logger.Debugw("Editing media chunk",
		"offset", chunk.Offset,
		"length", chunk.Length,
		"media", mediaPath,
	)
	return []session.Option{session.WithChunk(chunk.Offset)}, nil
}

func loadWorkspace(cmd *cobra.Command, targetPath string, extra ...session.Option) (*workspace, error) {
	target, err := openSubtitle(targetPath)
	if err != nil {
		return nil, err
	}

	opts, err := chunkOptions(cmd)
	if err != nil {
		return nil, err
	}
	opts = append(opts, session.WithLogger(logger))
	opts = append(opts, extra...)
	sess := session.New(opts...)

	sourcePath, _ := cmd.Flags().GetString("source")
	if sourcePath != "" {
		source, err := openSubtitle(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		sess.ReplaceSource(source.Cues)
	}
	sess.ReplaceTarget(target.Cues)

	logger.Infow("Loaded tracks",
		"target", targetPath,
		"target_cues", len(target.Cues),
		"source", sourcePath,
		"lines", len(sess.Lines()),
	)

	return &workspace{path: targetPath, target: target, session: sess}, nil
}

// save writes the session's target track to --output, or back over the
// input file.
func (w *workspace) save(cmd *cobra.Command) (string, error) {
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = w.path
	}

	out := &subtitle.Subtitle{
		Cues:     w.session.Snapshot().Target,
		Language: w.target.Language,
		Format:   w.target.Format,
	}
	if err := subtitle.WriteFile(out, outputPath); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	logger.Infow("Wrote target track", "output", absOutput, "cues", len(out.Cues))
	return absOutput, nil
}

// parses "3,4,5" or "3-5" into indices
// parseIndices reads "4,5,6" or "4-6". A range must end below limit so a
// typo cannot expand into millions of indices.
func parseIndices(s string, limit int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid index range %q", part)
			}
			to, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || to < from {
				return nil, fmt.Errorf("invalid index range %q", part)
			}
			if to >= limit {
				return nil, fmt.Errorf("index range %q out of bounds (%d cues)", part, limit)
			}
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		out = append(out, i)
	}
	return out, nil
}

func parseScope(name string, index int) (session.Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return session.All(), nil
	case "before":
		return session.Before(index), nil
	case "after":
		return session.After(index), nil
	default:
		return session.Scope{}, fmt.Errorf("unknown scope %q: use all, before, or after", name)
	}
}
