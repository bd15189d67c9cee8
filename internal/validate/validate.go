// Package validate checks a converted script against the source document it
// came from. The two checks are deliberately independent of the conversion
// path: the timecode count comes from the raw anchor scan and the syllable
// count from the full underlined-text walk, so conversion bugs that silently
// drop narration show up as mismatches instead of propagating unseen.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adflow-io/adflow/internal/script"
)

// syllableRe matches everything that is not a letter, digit, underscore or
// Hangul syllable. What survives the strip is what a narrator actually voices.
var syllableRe = regexp.MustCompile(`[^\w가-힣]`)

// CountSyllables returns the number of voiced characters in text: Hangul
// syllables, Latin letters and digits, with whitespace and punctuation
// ignored.
func CountSyllables(text string) int {
	return len([]rune(syllableRe.ReplaceAllString(text, "")))
}

// Result holds both checks of one validation run. A mismatch is advisory:
// some documents legitimately convert fewer entries than they have anchors
// (empty regions), and the caller decides how loudly to report it.
type Result struct {
	TimecodeOriginal  int  `json:"timecode_original"`
	TimecodeConverted int  `json:"timecode_converted"`
	TimecodeMatch     bool `json:"timecode_match"`

	SyllableOriginal  int  `json:"syllable_original"`
	SyllableConverted int  `json:"syllable_converted"`
	SyllableMatch     bool `json:"syllable_match"`
	// SyllableDeficit is converted minus original; negative means narration
	// was lost on the way to the entries.
	SyllableDeficit int `json:"syllable_deficit"`

	Valid bool `json:"valid"`
}

// Compare checks the entries of a parse result against the result's own
// independently derived ground truth.
func Compare(res *script.Result) Result {
	converted := 0
	for _, e := range res.Entries {
		converted += CountSyllables(e.Text)
	}

	r := Result{
		TimecodeOriginal:  res.AnchorCount,
		TimecodeConverted: len(res.Entries),
		SyllableOriginal:  CountSyllables(res.UnderlinedText),
		SyllableConverted: converted,
	}
	r.TimecodeMatch = r.TimecodeOriginal == r.TimecodeConverted
	r.SyllableMatch = r.SyllableOriginal == r.SyllableConverted
	r.SyllableDeficit = r.SyllableConverted - r.SyllableOriginal
	r.Valid = r.TimecodeMatch && r.SyllableMatch
	return r
}

// CompareEntries checks two entry lists against each other, for example a
// parsed PDF against a round-tripped SRT file.
func CompareEntries(original, converted []script.Entry) Result {
	r := Result{
		TimecodeOriginal:  len(original),
		TimecodeConverted: len(converted),
	}
	for _, e := range original {
		r.SyllableOriginal += CountSyllables(e.Text)
	}
	for _, e := range converted {
		r.SyllableConverted += CountSyllables(e.Text)
	}
	r.TimecodeMatch = r.TimecodeOriginal == r.TimecodeConverted
	r.SyllableMatch = r.SyllableOriginal == r.SyllableConverted
	r.SyllableDeficit = r.SyllableConverted - r.SyllableOriginal
	r.Valid = r.TimecodeMatch && r.SyllableMatch
	return r
}

// Summary renders the single-line form used in logs and progress output.
func (r Result) Summary() string {
	tcIcon, sylIcon := "✓", "✓"
	tcDiff, sylDiff := "", ""

	if !r.TimecodeMatch {
		tcIcon = "⚠️"
		tcDiff = fmt.Sprintf(" (%+d개)", r.TimecodeConverted-r.TimecodeOriginal)
	}
	if !r.SyllableMatch {
		sylIcon = "⚠️"
		sylDiff = fmt.Sprintf(" (%+d)", r.SyllableDeficit)
	}

	return fmt.Sprintf("[검증] 타임코드: %d개 → %d개%s %s | 음절수: %s → %s%s %s",
		r.TimecodeOriginal, r.TimecodeConverted, tcDiff, tcIcon,
		comma(r.SyllableOriginal), comma(r.SyllableConverted), sylDiff, sylIcon)
}

// Report renders the full validation report. The PDF and SRT paths are
// optional context lines; empty strings omit them.
func (r Result) Report(pdfPath, srtPath string) string {
	rule := strings.Repeat("=", 50)
	thin := strings.Repeat("-", 50)

	lines := []string{
		rule,
		"ADFlow 검증 리포트",
		rule,
		"",
		fmt.Sprintf("생성일시: %s", time.Now().Format("2006-01-02 15:04:05")),
	}

	if pdfPath != "" {
		lines = append(lines, fmt.Sprintf("PDF 파일: %s", filepath.Base(pdfPath)))
	}
	if srtPath != "" {
		lines = append(lines, fmt.Sprintf("SRT 파일: %s", filepath.Base(srtPath)))
	}

	lines = append(lines,
		"",
		thin,
		"",
		"[타임코드 검증]",
		fmt.Sprintf("  원본: %d개", r.TimecodeOriginal),
		fmt.Sprintf("  변환: %d개", r.TimecodeConverted),
	)
	if r.TimecodeMatch {
		lines = append(lines, "  결과: ✓ 일치")
	} else {
		lines = append(lines,
			fmt.Sprintf("  차이: %+d개", r.TimecodeConverted-r.TimecodeOriginal),
			"  결과: ⚠️ 불일치",
		)
	}

	lines = append(lines,
		"",
		"[음절수 검증]",
		fmt.Sprintf("  원본: %s 음절", comma(r.SyllableOriginal)),
		fmt.Sprintf("  변환: %s 음절", comma(r.SyllableConverted)),
	)
	if r.SyllableMatch {
		lines = append(lines, "  결과: ✓ 일치")
	} else {
		lines = append(lines,
			fmt.Sprintf("  차이: %+d 음절", r.SyllableDeficit),
			"  결과: ⚠️ 불일치",
		)
	}

	verdict := "✓ 검증 통과"
	if !r.Valid {
		verdict = "⚠️ 검증 실패"
	}
	lines = append(lines,
		"",
		thin,
		"",
		fmt.Sprintf("전체 결과: %s", verdict),
		"",
		rule,
	)

	return strings.Join(lines, "\n")
}

// SaveReport writes the rendered report next to the source PDF as
// <base>_validation.txt and returns the path it wrote.
func (r Result) SaveReport(pdfPath, srtPath string) (string, error) {
	path := ReportPath(pdfPath)
	if err := os.WriteFile(path, []byte(r.Report(pdfPath, srtPath)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write validation report: %w", err)
	}
	return path, nil
}

// ReportPath returns the report location for a given source PDF.
func ReportPath(pdfPath string) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(filepath.Dir(pdfPath), base+"_validation.txt")
}

// comma formats n with thousands separators.
func comma(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
