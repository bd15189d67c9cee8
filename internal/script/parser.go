// Package script recovers structured AD narration entries from raw PDF page
// geometry. The input is unstructured 2D layout data (word boxes, underline
// strokes); the output is an ordered list of timecoded entries with narration
// and instruction text separated.
package script

import (
	"log/slog"
	"time"

	"github.com/adflow-io/adflow/internal/common"
	"github.com/adflow-io/adflow/internal/pdfgeom"
)

// Parser converts one PDF into script entries. A parser is cheap to construct
// and carries no state between Parse calls; each call builds its own word,
// underline, anchor and line lists from scratch.
type Parser struct {
	opts      Options
	collector *pdfgeom.Collector
}

// NewParser returns a parser with the given text-assembly options.
func NewParser(opts Options) *Parser {
	return &Parser{
		opts:      opts,
		collector: pdfgeom.NewCollector(),
	}
}

// Result is a complete parse outcome. Beyond the entries it carries the raw
// anchor count and the independently derived underlined text, which the
// validator compares against the entries to detect silent conversion loss.
type Result struct {
	Entries        []Entry       `json:"entries"`
	AnchorCount    int           `json:"anchor_count"`
	UnderlinedText string        `json:"-"`
	PageCount      int           `json:"page_count"`
	WordCount      int           `json:"word_count"`
	UnderlineCount int           `json:"underline_count"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// Parse reads the PDF at path and converts it. An unopenable file is a fatal
// error. A document without a single timecode anchor is not an error: it
// yields a result with zero entries, and the caller distinguishes "no AD
// content" from failure by the nil error.
func (p *Parser) Parse(path string) (*Result, error) {
	timer := common.NewNamedTimer("parse")

	geo, err := p.collector.Collect(path)
	if err != nil {
		return nil, err
	}

	res := p.ParseGeometry(geo)
	res.Elapsed = timer.Stop()

	slog.Info("parsed AD script",
		"file", path,
		"pages", res.PageCount,
		"anchors", res.AnchorCount,
		"entries", len(res.Entries),
		"elapsed", res.Elapsed)
	return res, nil
}

// ParseGeometry runs the conversion on already-collected geometry: detect
// anchors, group lines, assign regions, build entries, and derive the
// validation ground truth. It is a pure function of its input.
func (p *Parser) ParseGeometry(geo *pdfgeom.Geometry) *Result {
	anchors := DetectAnchors(geo.Words)
	lines := GroupLines(geo.Words, geo.Underlines)

	entries := make([]Entry, 0, len(anchors))
	for _, r := range assignRegions(anchors, lines) {
		entry, ok := buildEntry(r, len(entries)+1, p.opts)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	return &Result{
		Entries:        entries,
		AnchorCount:    len(anchors),
		UnderlinedText: underlinedText(lines),
		PageCount:      geo.PageCount,
		WordCount:      len(geo.Words),
		UnderlineCount: len(geo.Underlines),
	}
}
