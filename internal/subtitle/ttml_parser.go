package subtitle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
)

// region a TTML paragraph is placed in
const MetaRegion = "region"

var (
	ttmlClockRegex  = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})(?:\.(\d+)|:(\d+(?:\.\d+)?))?$`)
	ttmlOffsetRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)(h|ms|m|s|f|t)$`)
)

// timing parameters declared on the <tt> root
type ttmlRates struct {
	frame float64
	tick  float64
}

// parseTTML reads the <p> elements of a TTML/DFXP document in document
// order. Times on enclosing <body>/<div> elements offset their children.
func parseTTML(r io.Reader) ([]Cue, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTML: %w", err)
	}

	rates := ttmlRates{frame: 30, tick: 1}
	if root := xmlquery.FindOne(doc, "//*[local-name()='tt']"); root != nil {
		if v, err := strconv.ParseFloat(ttmlAttr(root, "frameRate"), 64); err == nil && v > 0 {
			rates.frame = v
		}
		if v, err := strconv.ParseFloat(ttmlAttr(root, "tickRate"), 64); err == nil && v > 0 {
			rates.tick = v
		}
	}

	paragraphs, err := xmlquery.QueryAll(doc, "//*[local-name()='body']//*[local-name()='p']")
	if err != nil {
		return nil, fmt.Errorf("failed to query TTML paragraphs: %w", err)
	}

	var cues []Cue
	for i, p := range paragraphs {
		cue, err := ttmlCue(p, rates)
		if err != nil {
			return nil, fmt.Errorf("paragraph %d: %w", i+1, err)
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

func ttmlCue(p *xmlquery.Node, rates ttmlRates) (Cue, error) {
	var offset time.Duration
	for n := p.Parent; n != nil; n = n.Parent {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		if v := ttmlAttr(n, "begin"); v != "" {
			d, err := parseTTMLTime(v, rates)
			if err != nil {
				return Cue{}, err
			}
			offset += d
		}
	}

	begin := ttmlAttr(p, "begin")
	if begin == "" {
		return Cue{}, fmt.Errorf("missing begin time")
	}
	start, err := parseTTMLTime(begin, rates)
	if err != nil {
		return Cue{}, err
	}

	var end time.Duration
	switch {
	case ttmlAttr(p, "end") != "":
		end, err = parseTTMLTime(ttmlAttr(p, "end"), rates)
	case ttmlAttr(p, "dur") != "":
		var dur time.Duration
		dur, err = parseTTMLTime(ttmlAttr(p, "dur"), rates)
		end = start + dur
	default:
		err = fmt.Errorf("missing end time")
	}
	if err != nil {
		return Cue{}, err
	}

	cue := Cue{
		Start: offset + start,
		End:   offset + end,
		Text:  ttmlText(p),
	}
	cue.Category = classify(cue.Text)

	for key, attr := range map[string]string{
		MetaStyle:   "style",
		MetaRegion:  "region",
		MetaSpeaker: "agent",
	} {
		if v := ttmlAttr(p, attr); v != "" {
			if cue.Meta == nil {
				cue.Meta = make(map[string]string)
			}
			cue.Meta[key] = v
		}
	}
	return cue, nil
}

// ttmlAttr looks an attribute up by local name, ignoring its namespace
func ttmlAttr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

// ttmlText flattens a paragraph: <br/> becomes a line break and the
// whitespace of each line is collapsed.
func ttmlText(p *xmlquery.Node) string {
	var sb strings.Builder
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case xmlquery.TextNode, xmlquery.CharDataNode:
				sb.WriteString(strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(c.Data))
			case xmlquery.ElementNode:
				if c.Data == "br" {
					sb.WriteByte('\n')
					continue
				}
				walk(c)
			}
		}
	}
	walk(p)

	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

// parseTTMLTime reads a clock time (01:02:03.500, 01:02:03:12 with
// frames) or an offset time (1.5s, 500ms, 2m, 1h, 12f, 9000t).
func parseTTMLTime(expr string, rates ttmlRates) (time.Duration, error) {
	if m := ttmlClockRegex.FindStringSubmatch(expr); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		secs, _ := strconv.Atoi(m[3])
		total := float64(h*3600 + mins*60 + secs)
		switch {
		case m[4] != "":
			frac, _ := strconv.ParseFloat("0."+m[4], 64)
			total += frac
		case m[5] != "":
			frames, _ := strconv.ParseFloat(m[5], 64)
			total += frames / rates.frame
		}
		return Seconds(total), nil
	}

	if m := ttmlOffsetRegex.FindStringSubmatch(expr); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("malformed time %q: %w", expr, err)
		}
		switch m[2] {
		case "h":
			v *= 3600
		case "m":
			v *= 60
		case "ms":
			v /= 1000
		case "f":
			v /= rates.frame
		case "t":
			v /= rates.tick
		}
		return Seconds(v), nil
	}

	return 0, fmt.Errorf("malformed time %q", expr)
}
