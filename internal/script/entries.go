package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adflow-io/adflow/internal/timecode"
)

// Entry is one converted script record: a timecode anchor plus the narration
// assigned to it. Entries are the sole contract consumed by the SRT
// generator, the exporters and the validator.
type Entry struct {
	Index       int    `json:"index"`
	RawTC       string `json:"raw_tc"`
	Timecode    string `json:"timecode"`
	TimecodeMS  int64  `json:"timecode_ms"`
	Instruction string `json:"instruction,omitempty"`
	Text        string `json:"text"`
}

// Options control how narration text is assembled from a region.
type Options struct {
	// RemoveSlashes replaces "/" pause marks with spaces.
	RemoveSlashes bool
	// RemovePeriods replaces "." with spaces for TTS engines that pause
	// too long on sentence ends.
	RemovePeriods bool
	// IncludeBrackets prefixes the narration with the region's instruction
	// text in parentheses.
	IncludeBrackets bool
}

// placeholderText seeds entries created through InsertAfter.
const placeholderText = "새 대본 텍스트"

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace folds every whitespace run into a single space and trims
// the ends. Applying it twice is the same as applying it once.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// buildEntry assembles the final record for one region. The boolean is false
// when the region has no narration text after cleaning; such regions (for
// example a bare stage direction) produce no entry at all.
func buildEntry(r region, index int, opts Options) (Entry, bool) {
	instruction := strings.Join(r.instructions, ", ")
	text := strings.Join(r.narration, " ")

	if opts.RemoveSlashes {
		text = strings.ReplaceAll(text, "/", " ")
	}
	if opts.RemovePeriods {
		text = strings.ReplaceAll(text, ".", " ")
	}
	if opts.IncludeBrackets && instruction != "" {
		text = fmt.Sprintf("(%s) %s", instruction, text)
	}

	text = CollapseWhitespace(text)
	if text == "" {
		return Entry{}, false
	}

	return Entry{
		Index:       index,
		RawTC:       r.anchor.Raw,
		Timecode:    r.anchor.TC.String(),
		TimecodeMS:  r.anchor.TC.Milliseconds(),
		Instruction: instruction,
		Text:        text,
	}, true
}

// Renumber reassigns contiguous 1-based indices. Every structural edit must
// end with a renumber pass: SRT sequence numbering downstream depends on
// indices being exactly 1..N.
func Renumber(entries []Entry) {
	for i := range entries {
		entries[i].Index = i + 1
	}
}

// InsertAfter inserts a placeholder entry after the 1-based position pos and
// returns the renumbered list. The new entry starts one second after its
// predecessor.
func InsertAfter(entries []Entry, pos int) ([]Entry, error) {
	if pos < 1 || pos > len(entries) {
		return nil, fmt.Errorf("insert position %d out of range 1..%d", pos, len(entries))
	}

	ms := entries[pos-1].TimecodeMS + 1000
	entry := Entry{
		RawTC:      timecode.Digits(ms),
		Timecode:   timecode.ToTimecode(ms, timecode.DefaultFPS),
		TimecodeMS: ms,
		Text:       placeholderText,
	}

	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entries[:pos]...)
	out = append(out, entry)
	out = append(out, entries[pos:]...)
	Renumber(out)
	return out, nil
}

// Delete removes the entry at the 1-based position pos and returns the
// renumbered list.
func Delete(entries []Entry, pos int) ([]Entry, error) {
	if pos < 1 || pos > len(entries) {
		return nil, fmt.Errorf("delete position %d out of range 1..%d", pos, len(entries))
	}

	out := make([]Entry, 0, len(entries)-1)
	out = append(out, entries[:pos-1]...)
	out = append(out, entries[pos:]...)
	Renumber(out)
	return out, nil
}

// SetTimecode re-parses an edited "HH:MM:SS:FF" string into the entry's
// timestamp. The raw digit string keeps its original PDF value; the edit is
// the user's, not the document's.
func (e *Entry) SetTimecode(tc string) error {
	ms, err := timecode.Parse(tc, timecode.DefaultFPS)
	if err != nil {
		return err
	}
	e.Timecode = tc
	e.TimecodeMS = ms
	return nil
}

// SetInstruction replaces the instruction text.
func (e *Entry) SetInstruction(s string) {
	e.Instruction = strings.TrimSpace(s)
}

// SetText replaces the narration text, keeping it whitespace-normalized.
func (e *Entry) SetText(s string) {
	e.Text = CollapseWhitespace(s)
}
