package wavsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/testutil"
)

func writeClip(t *testing.T, path string, durationMS int64) {
	t.Helper()
	testutil.WriteWAV(t, path, 8000, durationMS)
}

func syncCues() []srt.Entry {
	return []srt.Entry{
		{Index: 1, StartMS: 15000, EndMS: 20000, Text: "남자가 걸어간다"}, // slot 5000ms
		{Index: 2, StartMS: 30000, EndMS: 33000, Text: "문이 닫힌다"},   // slot 3000ms
		{Index: 3, StartMS: 60000, EndMS: 62000, Text: "여자가 떠난다"},  // slot 2000ms
		{Index: 4, StartMS: 90000, EndMS: 95000, Text: "클립 없음"},
	}
}

func analyzeFixture(t *testing.T) []Entry {
	t.Helper()

	dir := t.TempDir()
	writeClip(t, filepath.Join(dir, "00_00_15_00.wav"), 5050)  // within tolerance
	writeClip(t, filepath.Join(dir, "00_00_30_00.wav"), 2000)  // 1000ms spare
	writeClip(t, filepath.Join(dir, "00_01_00_00.wav"), 3500)  // 1500ms over
	return NewAnalyzer(24).AnalyzeEntries(syncCues(), dir)
}

func TestAnalyzeEntries(t *testing.T) {
	entries := analyzeFixture(t)
	require.Len(t, entries, 4)

	assert.Equal(t, StatusSynced, entries[0].Status)
	assert.Equal(t, int64(50), entries[0].DiffMS)
	assert.Equal(t, int64(20050), entries[0].SyncedEndMS)

	assert.Equal(t, StatusShorter, entries[1].Status)
	assert.Equal(t, int64(-1000), entries[1].DiffMS)
	assert.Equal(t, int64(32000), entries[1].SyncedEndMS)

	assert.Equal(t, StatusLonger, entries[2].Status)
	assert.Equal(t, int64(1500), entries[2].DiffMS)

	assert.Equal(t, StatusMissing, entries[3].Status)
	assert.Zero(t, entries[3].WAVDurationMS)
	assert.Equal(t, int64(95000), entries[3].SyncedEndMS)
	assert.Equal(t, "00_01_30_00.wav", entries[3].WAVFilename)
}

func TestAnalyzeEntriesWithCustomTolerance(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, filepath.Join(dir, "00_00_15_00.wav"), 5050)
	writeClip(t, filepath.Join(dir, "00_00_30_00.wav"), 2000)
	writeClip(t, filepath.Join(dir, "00_01_00_00.wav"), 3500)

	// A 2000ms tolerance absorbs every diff in the fixture.
	entries := NewAnalyzerWithTolerance(24, 2000).AnalyzeEntries(syncCues(), dir)
	require.Len(t, entries, 4)
	assert.Equal(t, StatusSynced, entries[0].Status)
	assert.Equal(t, StatusSynced, entries[1].Status)
	assert.Equal(t, StatusSynced, entries[2].Status)
	assert.Equal(t, StatusMissing, entries[3].Status)

	// Diffs sitting exactly on the tolerance are flagged.
	entries = NewAnalyzerWithTolerance(24, 1000).AnalyzeEntries(syncCues(), dir)
	require.Len(t, entries, 4)
	assert.Equal(t, StatusSynced, entries[0].Status)
	assert.Equal(t, StatusShorter, entries[1].Status)
	assert.Equal(t, StatusLonger, entries[2].Status)
}

func TestUnmatched(t *testing.T) {
	dir := t.TempDir()
	writeClip(t, filepath.Join(dir, "00_00_15_00.wav"), 5000)
	writeClip(t, filepath.Join(dir, "00_00_55_00.wav"), 1200)

	a := NewAnalyzer(24)
	entries := a.AnalyzeEntries(syncCues(), dir)

	extra, err := a.Unmatched(entries, dir)
	require.NoError(t, err)
	require.Len(t, extra, 1)
	assert.Equal(t, int64(55000), extra[0].StartMS)
	assert.Equal(t, "00_00_55_00.wav", filepath.Base(extra[0].Path))

	_, err = a.Unmatched(entries, filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

func TestNewAnalyzerWithToleranceDefaults(t *testing.T) {
	a := NewAnalyzerWithTolerance(0, -1)
	assert.Equal(t, 24, a.fps)
	assert.Equal(t, int64(syncToleranceMS), a.tolerance)
}

func TestAnalyzeParsesSRT(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "script.srt")
	content := "1\n00:00:15,000 --> 00:00:20,000\n남자가 걸어간다\n"
	require.NoError(t, os.WriteFile(srtPath, []byte(content), 0o644))
	writeClip(t, filepath.Join(dir, "00_00_15_00.wav"), 5000)

	entries, err := NewAnalyzer(24).Analyze(srtPath, dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusSynced, entries[0].Status)

	_, err = NewAnalyzer(24).Analyze(filepath.Join(dir, "missing.srt"), dir)
	assert.Error(t, err)
}

func TestSyncedSRT(t *testing.T) {
	entries := analyzeFixture(t)
	content := SyncedSRT(entries)

	assert.Contains(t, content, "00:00:15,000 --> 00:00:20,050")
	assert.Contains(t, content, "00:00:30,000 --> 00:00:32,000")
	// Missing clips keep the original end time.
	assert.Contains(t, content, "00:01:30,000 --> 00:01:35,000")

	reparsed := srt.ParseText(content)
	assert.Len(t, reparsed, 4)
}

func TestSummarize(t *testing.T) {
	s := Summarize(analyzeFixture(t))
	assert.Equal(t, Summary{Total: 4, Synced: 1, Shorter: 1, Longer: 1, Missing: 1}, s)
}

func TestReport(t *testing.T) {
	a := NewAnalyzer(24)
	report := a.Report(analyzeFixture(t))

	assert.Contains(t, report, "동기화 리포트")
	assert.Contains(t, report, "#1 [00:00:15:00] OK")
	assert.Contains(t, report, "#2 [00:00:30:00] 여유")
	assert.Contains(t, report, "#3 [00:01:00:00] 초과")
	assert.Contains(t, report, "#4 [00:01:30:00] 누락")
	assert.Contains(t, report, "총계: 4개")
	assert.Contains(t, report, "OK: 1, 여유: 1, 초과: 1, 누락: 1")
}

func TestSaveReportXLSX(t *testing.T) {
	entries := analyzeFixture(t)
	path := filepath.Join(t.TempDir(), "sync.xlsx")

	require.NoError(t, NewAnalyzer(24).SaveReportXLSX(path, entries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "동기화 리포트"
	got, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "#", got)

	got, err = f.GetCellValue(sheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "여유", got)

	got, err = f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "00:00:15:00", got)
}

func TestSaveSyncedSRTAndReport(t *testing.T) {
	dir := t.TempDir()
	entries := analyzeFixture(t)

	srtPath := filepath.Join(dir, "synced.srt")
	require.NoError(t, SaveSyncedSRT(srtPath, entries))
	data, err := os.ReadFile(srtPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-->")

	reportPath := filepath.Join(dir, "sync.txt")
	require.NoError(t, NewAnalyzer(24).SaveReport(reportPath, entries))
	data, err = os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "동기화 리포트")
}
