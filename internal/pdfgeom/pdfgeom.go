// Package pdfgeom extracts the raw page geometry an AD script parse works on:
// word-level text boxes and horizontal underline strokes. Coordinates are
// normalized to a top-left origin (y grows downward) so that "below" always
// means a larger y, regardless of the PDF-native coordinate system.
package pdfgeom

import (
	"fmt"
	"log/slog"

	dpdf "github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// WordBox is one word on a page. X0/Y0 is the top-left corner, X1/Y1 the
// bottom-right corner; Y1 sits on the text baseline.
type WordBox struct {
	Page int     `json:"page"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Text string  `json:"text"`
}

// UnderlineSegment is one horizontal stroke, either a stroked path segment or
// a thin filled rectangle. Y is the stroke position, X0..X1 its extent.
type UnderlineSegment struct {
	Page int     `json:"page"`
	Y    float64 `json:"y"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
}

// Geometry is the flat, document-wide extraction result. Elements carry their
// 0-based page index; no other page structure is retained.
type Geometry struct {
	Words      []WordBox          `json:"words"`
	Underlines []UnderlineSegment `json:"underlines"`
	PageCount  int                `json:"page_count"`
}

// Collector reads word boxes and underline strokes from a PDF file.
type Collector struct {
	// MaxStrokeSlope is the endpoint y-delta below which a path segment
	// counts as horizontal.
	MaxStrokeSlope float64
	// MaxRectHeight is the height below which a filled rectangle counts as
	// an underline stroke rather than a box.
	MaxRectHeight float64
}

// NewCollector returns a collector with the stroke heuristics used by AD
// script PDFs.
func NewCollector() *Collector {
	return &Collector{
		MaxStrokeSlope: 1.0,
		MaxRectHeight:  2.0,
	}
}

// Collect extracts all word boxes and underline strokes from the PDF at path.
// An unopenable file is a fatal error with no partial result; a document with
// no text yields an empty (non-nil) Geometry.
func (c *Collector) Collect(path string) (*Geometry, error) {
	reader, err := dpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %q: %w", path, err)
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions of %q: %w", path, err)
	}

	geo := &Geometry{PageCount: reader.NumPage()}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		pageH := 792.0 // letter fallback
		if pageNum-1 < len(dims) {
			pageH = dims[pageNum-1].Height
		}

		words, err := collectPageWords(reader, pageNum, pageH)
		if err != nil {
			slog.Warn("skipping unreadable page", "file", path, "page", pageNum, "error", err)
			continue
		}
		geo.Words = append(geo.Words, words...)
	}

	underlines, err := c.collectUnderlines(path, dims)
	if err != nil {
		return nil, err
	}
	geo.Underlines = underlines

	slog.Debug("collected page geometry",
		"file", path,
		"pages", geo.PageCount,
		"words", len(geo.Words),
		"underlines", len(geo.Underlines))
	return geo, nil
}
