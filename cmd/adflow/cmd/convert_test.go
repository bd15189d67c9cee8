package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adflow-io/adflow/internal/batch"
	"github.com/adflow-io/adflow/internal/config"
	"github.com/adflow-io/adflow/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCommand(t *testing.T) {
	assert.NotNil(t, convertCmd)
	assert.True(t, strings.HasPrefix(convertCmd.Use, "convert"))
	assert.NotEmpty(t, convertCmd.Short)
	assert.NotEmpty(t, convertCmd.Long)
}

func TestConvertCommandHelp(t *testing.T) {
	command := convertCmd
	buf := new(bytes.Buffer)
	command.SetOut(buf)
	command.SetErr(buf)
	err := command.Help()
	require.NoError(t, err)
	output := strings.TrimSpace(buf.String())
	assert.Contains(t, output, "audio description script PDFs")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "Flags:")
}

func TestConvertCommandFlags(t *testing.T) {
	flags := convertCmd.Flags()

	expectedFlags := []string{
		"format", "output", "encoding", "remove-slashes", "remove-periods",
		"include-brackets", "no-validate", "overwrite", "workers", "recursive",
		"include", "exclude",
	}
	for _, flagName := range expectedFlags {
		assert.NotNil(t, flags.Lookup(flagName), "Expected flag '%s' not found", flagName)
	}
}

func TestConvertCommandWithoutFiles(t *testing.T) {
	err := runConvert(convertCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestValidateConvertFormat(t *testing.T) {
	for _, format := range []string{"srt", "xlsx", "json", "text"} {
		assert.NoError(t, validateConvertFormat(format))
	}

	err := validateConvertFormat("docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestConfigToConvertConfig_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()

	got, err := configToConvertConfig(&cfg, convertCmd)
	require.NoError(t, err)

	assert.Equal(t, "srt", got.format)
	assert.True(t, got.validate)
	assert.False(t, got.overwrite)
	assert.False(t, got.parseOpts.RemoveSlashes)
	assert.Equal(t, cfg.SRT.MaxCharsPerLine, got.genOpts.MaxCharsPerLine)
}

func TestConfigToConvertConfig_FlagOverrides(t *testing.T) {
	setCommandFlag(t, convertCmd, "format", "xlsx")
	setCommandFlag(t, convertCmd, "remove-slashes", "true")
	setCommandFlag(t, convertCmd, "no-validate", "true")

	cfg := config.DefaultConfig()
	got, err := configToConvertConfig(&cfg, convertCmd)
	require.NoError(t, err)

	assert.Equal(t, "xlsx", got.format)
	assert.True(t, got.parseOpts.RemoveSlashes)
	assert.False(t, got.validate)
}

func TestConfigToConvertConfig_InvalidFormat(t *testing.T) {
	setCommandFlag(t, convertCmd, "format", "docx")

	cfg := config.DefaultConfig()
	_, err := configToConvertConfig(&cfg, convertCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestConvertExtension(t *testing.T) {
	assert.Equal(t, ".srt", convertExtension("srt"))
	assert.Equal(t, ".xlsx", convertExtension("xlsx"))
	assert.Equal(t, ".json", convertExtension("json"))
	assert.Equal(t, ".txt", convertExtension("text"))
}

func TestConvertOutputPath_DefaultSibling(t *testing.T) {
	cfg := &convertConfig{format: "srt"}

	got, err := convertOutputPath(filepath.Join("scripts", "ep01.pdf"), cfg, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("scripts", "ep01.srt"), got)
}

func TestConvertOutputPath_SingleInputExplicitFile(t *testing.T) {
	cfg := &convertConfig{format: "srt", output: filepath.Join(t.TempDir(), "custom.srt")}

	got, err := convertOutputPath("ep01.pdf", cfg, true)
	require.NoError(t, err)
	assert.Equal(t, cfg.output, got)
}

func TestConvertOutputPath_MultipleInputsUseDirectory(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "subs")
	cfg := &convertConfig{format: "xlsx", output: outDir}

	got, err := convertOutputPath(filepath.Join("scripts", "ep01.pdf"), cfg, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "ep01.xlsx"), got)
	assert.DirExists(t, outDir)
}

func TestEntriesText(t *testing.T) {
	res := &script.Result{
		Entries: []script.Entry{
			{Index: 1, Timecode: "00:00:10:00", Text: "남자가 걷는다"},
			{Index: 2, Timecode: "00:00:20:12", Text: "문이 열린다"},
		},
		PageCount:   3,
		AnchorCount: 2,
	}

	text := entriesText(res)
	assert.Contains(t, text, "Pages: 3")
	assert.Contains(t, text, "Anchors: 2")
	assert.Contains(t, text, "Entries: 2")
	assert.Contains(t, text, "#1 00:00:10:00 남자가 걷는다")
	assert.Contains(t, text, "#2 00:00:20:12 문이 열린다")
}

func TestWriteConvertOutput_JSON(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "ep01.json")
	item := &batch.Item{
		Path: "ep01.pdf",
		Result: &script.Result{
			Entries:   []script.Entry{{Index: 1, Timecode: "00:00:10:00", Text: "남자가 걷는다"}},
			PageCount: 1,
		},
	}

	err := writeConvertOutput(item, outPath, &convertConfig{format: "json"})
	require.NoError(t, err)
	assert.FileExists(t, outPath)
}
