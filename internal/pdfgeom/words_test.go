package pdfgeom

import (
	"testing"

	dpdf "github.com/dslipak/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(s string, x, y, w, size float64) dpdf.Text {
	return dpdf.Text{Font: "F1", FontSize: size, X: x, Y: y, W: w, S: s}
}

func TestGroupIntoRows(t *testing.T) {
	texts := []dpdf.Text{
		run("가", 72, 700, 10, 10),
		run("나", 82, 700.4, 10, 10), // same baseline within tolerance
		run("다", 72, 680, 10, 10),   // next row down the page
		run(" ", 92, 700, 3, 10),    // whitespace runs are dropped
	}

	rows := groupIntoRows(texts)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 1)
	assert.Equal(t, "다", rows[1][0].S)
}

func TestGroupIntoRowsEmpty(t *testing.T) {
	assert.Nil(t, groupIntoRows(nil))
	assert.Nil(t, groupIntoRows([]dpdf.Text{run("  ", 0, 0, 1, 10)}))
}

func TestMergeRowWordsJoinsTightRuns(t *testing.T) {
	row := []dpdf.Text{
		run("0", 72, 700, 6, 12),
		run("0", 78, 700, 6, 12),
		run("1", 84, 700, 6, 12),
		run("5", 90, 700, 6, 12),
	}

	words := mergeRowWords(row, 0, 792)
	require.Len(t, words, 1)
	assert.Equal(t, "0015", words[0].Text)
	assert.Equal(t, 0, words[0].Page)
	assert.InDelta(t, 72, words[0].X0, 1e-9)
	assert.InDelta(t, 96, words[0].X1, 1e-9)
	assert.InDelta(t, 92, words[0].Y1, 1e-9) // baseline flipped into top-left space
	assert.InDelta(t, 80, words[0].Y0, 1e-9)
}

func TestMergeRowWordsSplitsAtGaps(t *testing.T) {
	row := []dpdf.Text{
		run("0015", 72, 700, 24, 12),
		run("남자가", 130, 700, 36, 12), // far beyond half an em
	}

	words := mergeRowWords(row, 1, 792)
	require.Len(t, words, 2)
	assert.Equal(t, "0015", words[0].Text)
	assert.Equal(t, "남자가", words[1].Text)
	assert.Equal(t, 1, words[1].Page)
}

func TestMergeRowWordsNormalizesText(t *testing.T) {
	// Decomposed Hangul (NFD) must come out composed.
	row := []dpdf.Text{run("한", 72, 700, 12, 12)}

	words := mergeRowWords(row, 0, 792)
	require.Len(t, words, 1)
	assert.Equal(t, "한", words[0].Text)
}

func TestMergeRowWordsUnsortedInput(t *testing.T) {
	row := []dpdf.Text{
		run("나", 84, 700, 12, 12),
		run("가", 72, 700, 12, 12),
	}

	words := mergeRowWords(row, 0, 792)
	require.Len(t, words, 1)
	assert.Equal(t, "가나", words[0].Text)
}
