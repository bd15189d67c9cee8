package pdfgeom

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// strokeSeg is a painted path segment in PDF device space.
type strokeSeg struct {
	x0, y0, x1, y1 float64
}

// strokeRect is a painted rectangle in PDF device space.
type strokeRect struct {
	x, y, w, h float64
}

var contentPageRe = regexp.MustCompile(`_page_(\d+)\.txt$`)

// collectUnderlines extracts each page's decoded content stream and scans it
// for horizontal strokes. Underlines in script PDFs are drawn either as
// stroked line segments or as very thin filled rectangles.
func (c *Collector) collectUnderlines(path string, dims []types.Dim) ([]UnderlineSegment, error) {
	tmpDir, err := os.MkdirTemp("", "adflow-content-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	if err := api.ExtractContentFile(path, tmpDir, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to extract page content from %q: %w", path, err)
	}

	files, err := filepath.Glob(filepath.Join(tmpDir, "*_page_*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted content: %w", err)
	}

	var underlines []UnderlineSegment
	for _, file := range files {
		m := contentPageRe.FindStringSubmatch(filepath.Base(file))
		if m == nil {
			continue
		}
		pageNum, _ := strconv.Atoi(m[1])

		data, err := os.ReadFile(file) //nolint:gosec // file path comes from our own temp dir listing
		if err != nil {
			slog.Warn("skipping unreadable content stream", "file", path, "page", pageNum, "error", err)
			continue
		}

		pageH := 792.0
		if pageNum-1 >= 0 && pageNum-1 < len(dims) {
			pageH = dims[pageNum-1].Height
		}

		segs, rects := scanPageStrokes(data)
		underlines = append(underlines, c.filterStrokes(segs, rects, pageNum-1, pageH)...)
	}
	return underlines, nil
}

// filterStrokes keeps near-horizontal segments and thin rectangles, mapping
// them into top-left page coordinates.
func (c *Collector) filterStrokes(segs []strokeSeg, rects []strokeRect, pageIdx int, pageH float64) []UnderlineSegment {
	var out []UnderlineSegment

	for _, s := range segs {
		if math.Abs(s.y1-s.y0) >= c.MaxStrokeSlope {
			continue
		}
		x0, x1 := s.x0, s.x1
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		out = append(out, UnderlineSegment{
			Page: pageIdx,
			Y:    pageH - (s.y0+s.y1)/2,
			X0:   x0,
			X1:   x1,
		})
	}

	for _, r := range rects {
		if math.Abs(r.h) >= c.MaxRectHeight {
			continue
		}
		x0, x1 := r.x, r.x+r.w
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		out = append(out, UnderlineSegment{
			Page: pageIdx,
			Y:    pageH - (r.y + r.h/2),
			X0:   x0,
			X1:   x1,
		})
	}
	return out
}
