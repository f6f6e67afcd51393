package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/lipisync/internal/align"
	"github.com/mgpai22/lipisync/internal/logging"
	"github.com/mgpai22/lipisync/internal/session"
)

// Drafter seeds a target track from its source: source-only lines get a
// target cue spanning their source cues, and every target cue without text
// gets a machine translation of the source text aligned with it.
type Drafter struct {
	Translator  Translator
	Concurrency int
	Logger      *logging.Logger
}

// DraftResult counts what Draft changed.
type DraftResult struct {
	Inserted   int
	Translated int
	Skipped    int
}

func (d *Drafter) logger() *logging.Logger {
	if d.Logger == nil {
		return logging.Nop()
	}
	return d.Logger
}

func (d *Drafter) Draft(ctx context.Context, s *session.Session) (DraftResult, error) {
	var res DraftResult
	if d.Translator == nil {
		return res, fmt.Errorf("translator is required")
	}

	res.Inserted, res.Skipped = d.insertMissing(s)

	items := pendingItems(s.Snapshot())
	if len(items) == 0 {
		d.logger().Infow("Nothing to translate", "inserted", res.Inserted)
		return res, nil
	}

	d.logger().Infow("Translating cues", "cues", len(items))

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := d.Translator.(ConcurrentTranslator); ok && d.Concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, d.Concurrency)
	} else {
		results, err = d.Translator.Translate(ctx, items)
	}
	if err != nil {
		return res, fmt.Errorf("translation failed: %w", err)
	}

	wanted := make(map[int]bool, len(items))
	for _, it := range items {
		wanted[it.Index] = true
	}
	for _, r := range results {
		if !wanted[r.Index] {
			d.logger().Warnw("Ignoring translation for unknown cue", "index", r.Index)
			continue
		}
		delete(wanted, r.Index)
		if _, err := s.SetText(r.Index, r.Text); err != nil {
			return res, err
		}
		res.Translated++
	}

	d.logger().Infow("Draft complete",
		"inserted", res.Inserted,
		"translated", res.Translated,
		"skipped", res.Skipped,
	)
	return res, nil
}

// insertMissing adds a target cue for every run of source cues that no
// target cue overlaps, including trailing source cues absorbed into the
// last paired line. Positions come from one snapshot and are applied back
// to front so earlier positions stay valid.
func (d *Drafter) insertMissing(s *session.Session) (inserted, skipped int) {
	type pending struct {
		position int
		src      session.SourceRange
	}

	var todo []pending
	base := 0
	for _, line := range s.Lines() {
		for _, run := range uncoveredRuns(line) {
			todo = append(todo, pending{base + run.before, run.src})
		}
		base += len(line.Target)
	}

	for i := len(todo) - 1; i >= 0; i-- {
		p := todo[i]
		if _, ok := s.InsertAt(p.position, &p.src); ok {
			inserted++
			continue
		}
		skipped++
		d.logger().Debugw("Could not insert cue for source cues",
			"position", p.position,
			"source_from", p.src.From,
			"source_to", p.src.To,
		)
	}
	return inserted, skipped
}

type sourceRun struct {
	src    session.SourceRange
	before int // target cues on the line starting before the run
}

func uncoveredRuns(line align.Line) []sourceRun {
	var runs []sourceRun
	open := false
	for _, it := range line.Source {
		covered := false
		for _, t := range line.Target {
			if align.OverlapRatio(it.Cue, t.Cue) > 0 {
				covered = true
				break
			}
		}
		if covered {
			open = false
			continue
		}
		before := 0
		for _, t := range line.Target {
			if t.Cue.Start < it.Cue.Start {
				before++
			}
		}
		if open && runs[len(runs)-1].before == before {
			runs[len(runs)-1].src.To = it.Index
			continue
		}
		runs = append(runs, sourceRun{
			src:    session.SourceRange{From: it.Index, To: it.Index},
			before: before,
		})
		open = true
	}
	return runs
}

// pendingItems lists every empty target cue that has source text to
// translate. A lone target cue on a line takes the whole line's source text.
func pendingItems(snap *session.Snapshot) []TranslationItem {
	var items []TranslationItem
	for _, line := range snap.Lines {
		for _, it := range line.Target {
			if strings.TrimSpace(it.Cue.Text) != "" {
				continue
			}
			text := line.SourceTextFor(it.Cue)
			if text == "" && len(line.Target) == 1 {
				text = line.SourceText()
			}
			if text == "" {
				continue
			}
			items = append(items, TranslationItem{Index: it.Index, Text: text})
		}
	}
	return items
}
