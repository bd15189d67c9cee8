package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adflow-io/adflow/internal/script"
)

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"남자가 걸어간다", 7},
		{"남자가, 걸어간다!", 7},
		{"Hello 세계 123", 10},
		{"...", 0},
		{"", 0},
		{"(바로) 남자가", 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CountSyllables(tt.text), "text %q", tt.text)
	}
}

func TestCompareMatching(t *testing.T) {
	res := &script.Result{
		Entries: []script.Entry{
			{Index: 1, Text: "남자가 걸어간다"},
			{Index: 2, Text: "문이 닫힌다"},
		},
		AnchorCount:    2,
		UnderlinedText: "남자가 걸어간다 문이 닫힌다",
	}

	r := Compare(res)
	assert.True(t, r.Valid)
	assert.True(t, r.TimecodeMatch)
	assert.True(t, r.SyllableMatch)
	assert.Equal(t, 12, r.SyllableOriginal)
	assert.Equal(t, 12, r.SyllableConverted)
	assert.Zero(t, r.SyllableDeficit)
}

func TestCompareDetectsLostNarration(t *testing.T) {
	// The ground truth carries narration the entries are missing, the shape
	// a cross-page continuation loss produces.
	res := &script.Result{
		Entries: []script.Entry{
			{Index: 1, Text: "남자가 걸어간다"},
		},
		AnchorCount:    2,
		UnderlinedText: "남자가 걸어간다 이어지는 해설 문이 닫힌다",
	}

	r := Compare(res)
	assert.False(t, r.Valid)
	assert.False(t, r.TimecodeMatch)
	assert.False(t, r.SyllableMatch)
	assert.Less(t, r.SyllableConverted, r.SyllableOriginal)
	assert.Negative(t, r.SyllableDeficit)
}

func TestCompareEntries(t *testing.T) {
	original := []script.Entry{{Text: "남자가 걸어간다"}, {Text: "문이 닫힌다"}}
	converted := []script.Entry{{Text: "남자가 걸어간다"}, {Text: "문이 닫힌다"}}

	assert.True(t, CompareEntries(original, converted).Valid)

	converted[1].Text = "문이"
	r := CompareEntries(original, converted)
	assert.True(t, r.TimecodeMatch)
	assert.False(t, r.SyllableMatch)
	assert.False(t, r.Valid)
}

func TestSummary(t *testing.T) {
	r := Result{
		TimecodeOriginal: 10, TimecodeConverted: 10, TimecodeMatch: true,
		SyllableOriginal: 1234, SyllableConverted: 1234, SyllableMatch: true,
		Valid: true,
	}
	assert.Equal(t, "[검증] 타임코드: 10개 → 10개 ✓ | 음절수: 1,234 → 1,234 ✓", r.Summary())

	r = Result{
		TimecodeOriginal: 10, TimecodeConverted: 8,
		SyllableOriginal: 1234, SyllableConverted: 1200,
	}
	s := r.Summary()
	assert.Contains(t, s, "(-2개)")
	assert.Contains(t, s, "(-34)")
	assert.Contains(t, s, "⚠️")
}

func TestReportContents(t *testing.T) {
	r := Result{
		TimecodeOriginal: 3, TimecodeConverted: 2, TimecodeMatch: false,
		SyllableOriginal: 100, SyllableConverted: 90, SyllableMatch: false,
		Valid: false,
	}

	report := r.Report("/scripts/episode01.pdf", "/scripts/episode01.srt")
	assert.Contains(t, report, "ADFlow 검증 리포트")
	assert.Contains(t, report, "PDF 파일: episode01.pdf")
	assert.Contains(t, report, "SRT 파일: episode01.srt")
	assert.Contains(t, report, "차이: -1개")
	assert.Contains(t, report, "차이: -10 음절")
	assert.Contains(t, report, "전체 결과: ⚠️ 검증 실패")

	ok := Result{TimecodeMatch: true, SyllableMatch: true, Valid: true}
	assert.Contains(t, ok.Report("", ""), "전체 결과: ✓ 검증 통과")
	assert.NotContains(t, ok.Report("", ""), "PDF 파일")
}

func TestSaveReport(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "episode01.pdf")

	r := Result{TimecodeMatch: true, SyllableMatch: true, Valid: true}
	path, err := r.SaveReport(pdf, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "episode01_validation.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ADFlow 검증 리포트")
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, "/a/b/script_validation.txt", ReportPath("/a/b/script.pdf"))
}

func TestComma(t *testing.T) {
	assert.Equal(t, "0", comma(0))
	assert.Equal(t, "999", comma(999))
	assert.Equal(t, "1,000", comma(1000))
	assert.Equal(t, "1,234,567", comma(1234567))
	assert.Equal(t, "-12,345", comma(-12345))
}
