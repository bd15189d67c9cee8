package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adflow-io/adflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCommand(t *testing.T) {
	assert.NotNil(t, syncCmd)
	assert.True(t, strings.HasPrefix(syncCmd.Use, "sync"))
	assert.NotEmpty(t, syncCmd.Short)
	assert.NotEmpty(t, syncCmd.Long)
}

func TestSyncCommandFlags(t *testing.T) {
	flags := syncCmd.Flags()
	for _, flagName := range []string{"tolerance", "format", "output"} {
		assert.NotNil(t, flags.Lookup(flagName), "Expected flag '%s' not found", flagName)
	}
}

func TestSyncCommandInvalidFormat(t *testing.T) {
	setCommandFlag(t, syncCmd, "format", "docx")

	err := runSync(syncCmd, []string{"episode.srt", "takes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report format")
}

func TestSyncCommandMissingSRT(t *testing.T) {
	err := runSync(syncCmd, []string{filepath.Join(t.TempDir(), "missing.srt"), t.TempDir()})
	require.Error(t, err)
}

func TestSyncSiblingPath(t *testing.T) {
	assert.Equal(t, filepath.Join("subs", "ep01_synced.srt"),
		syncSiblingPath(filepath.Join("subs", "ep01.srt"), "_synced.srt"))
	assert.Equal(t, "ep01_sync.xlsx", syncSiblingPath("ep01.srt", "_sync.xlsx"))
}

func TestSyncCommandRetimesCues(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "ep01.srt")
	wavDir := filepath.Join(dir, "takes")
	require.NoError(t, os.MkdirAll(wavDir, 0o755))

	testutil.WriteSRT(t, srtPath, "1\n00:00:10,000 --> 00:00:12,000\n남자가 걷는다\n")
	// The take runs a second past its two second slot.
	testutil.WriteWAV(t, filepath.Join(wavDir, "00_00_10_00.wav"), 44100, 3000)

	reportPath := filepath.Join(dir, "report.txt")
	setCommandFlag(t, syncCmd, "output", reportPath)

	buf := new(bytes.Buffer)
	syncCmd.SetOut(buf)

	require.NoError(t, runSync(syncCmd, []string{srtPath, wavDir}))

	syncedPath := filepath.Join(dir, "ep01_synced.srt")
	synced, err := os.ReadFile(syncedPath)
	require.NoError(t, err)
	assert.Contains(t, string(synced), "00:00:10,000 --> 00:00:13,000")

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "동기화 리포트")

	output := buf.String()
	assert.Contains(t, output, "Wrote "+syncedPath)
	assert.Contains(t, output, "1 longer")
}

func TestSyncCommandReportsStrayClips(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "ep01.srt")
	wavDir := filepath.Join(dir, "takes")
	require.NoError(t, os.MkdirAll(wavDir, 0o755))

	testutil.WriteSRT(t, srtPath, "1\n00:00:10,000 --> 00:00:12,000\n남자가 걷는다\n")
	testutil.WriteWAV(t, filepath.Join(wavDir, "00_00_10_00.wav"), 44100, 2000)
	testutil.WriteWAV(t, filepath.Join(wavDir, "00_00_55_00.wav"), 44100, 1200)

	buf := new(bytes.Buffer)
	syncCmd.SetOut(buf)

	require.NoError(t, runSync(syncCmd, []string{srtPath, wavDir}))
	assert.Contains(t, buf.String(), "Clips with no matching cue:")
	assert.Contains(t, buf.String(), "00_00_55_00.wav")
}
