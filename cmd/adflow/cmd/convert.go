package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adflow-io/adflow/internal/batch"
	"github.com/adflow-io/adflow/internal/config"
	"github.com/adflow-io/adflow/internal/export"
	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/spf13/cobra"
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert [pdf|directory...]",
	Short: "Convert AD script PDFs to subtitles",
	Long: `Convert audio description script PDFs into subtitle and recording files.

Timecodes and underlined narration text are extracted from each PDF, and
every conversion is validated against the document's own underline ground
truth. A validation report is written next to each source file.

Directories are expanded to the PDF files inside them; with --recursive
the expansion descends into subdirectories.

Examples:
  adflow convert episode01.pdf
  adflow convert episode01.pdf -o subs/ep01.srt
  adflow convert scripts/ --recursive --workers 4
  adflow convert scripts/ --include 'ep*.pdf' --format xlsx`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("format", "f", "srt", "output format (srt, xlsx, json, text)")
	convertCmd.Flags().StringP("output", "o", "", "output file, or directory when converting multiple files")
	convertCmd.Flags().String("encoding", "utf-8", "SRT file encoding (utf-8, cp949)")
	convertCmd.Flags().Bool("remove-slashes", false, "replace '/' pause marks with spaces")
	convertCmd.Flags().Bool("remove-periods", false, "replace '.' with spaces for TTS pacing")
	convertCmd.Flags().Bool("include-brackets", false, "keep (instruction) prefixes in the narration text")
	convertCmd.Flags().Bool("no-validate", false, "skip timecode and syllable validation")
	convertCmd.Flags().Bool("overwrite", false, "overwrite existing output files")
	convertCmd.Flags().IntP("workers", "w", 0, "parallel conversion workers (0 = CPU count)")
	convertCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	convertCmd.Flags().StringSlice("include", nil, "filename patterns to include (e.g. 'ep*.pdf')")
	convertCmd.Flags().StringSlice("exclude", nil, "filename patterns to exclude")
}

// convertConfig holds the resolved settings for one convert run.
type convertConfig struct {
	format    string
	output    string
	encoding  string
	parseOpts script.Options
	genOpts   srt.GenerateOptions
	validate  bool
	overwrite bool
	workers   int
	recursive bool
	include   []string
	exclude   []string
}

// configToConvertConfig maps centralized configuration to convertConfig.
// CLI flags override config file values.
func configToConvertConfig(centralCfg *config.Config, cmd *cobra.Command) (*convertConfig, error) {
	cfg := &convertConfig{
		format:    centralCfg.Output.Format,
		parseOpts: centralCfg.ParseOptions(),
		genOpts:   centralCfg.GenerateOptions(),
		validate:  true,
		overwrite: centralCfg.Output.Overwrite,
	}

	if cmd.Flags().Changed("format") {
		cfg.format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("remove-slashes") {
		cfg.parseOpts.RemoveSlashes, _ = cmd.Flags().GetBool("remove-slashes")
	}
	if cmd.Flags().Changed("remove-periods") {
		cfg.parseOpts.RemovePeriods, _ = cmd.Flags().GetBool("remove-periods")
	}
	if cmd.Flags().Changed("include-brackets") {
		cfg.parseOpts.IncludeBrackets, _ = cmd.Flags().GetBool("include-brackets")
	}
	if cmd.Flags().Changed("overwrite") {
		cfg.overwrite, _ = cmd.Flags().GetBool("overwrite")
	}

	cfg.output, _ = cmd.Flags().GetString("output")
	cfg.encoding, _ = cmd.Flags().GetString("encoding")
	cfg.workers, _ = cmd.Flags().GetInt("workers")
	cfg.recursive, _ = cmd.Flags().GetBool("recursive")
	cfg.include, _ = cmd.Flags().GetStringSlice("include")
	cfg.exclude, _ = cmd.Flags().GetStringSlice("exclude")

	if noValidate, _ := cmd.Flags().GetBool("no-validate"); noValidate {
		cfg.validate = false
	}

	// Bracket text stays out of cue lines when it is part of the narration.
	cfg.genOpts.RemoveBrackets = cfg.genOpts.RemoveBrackets && !cfg.parseOpts.IncludeBrackets

	if err := validateConvertFormat(cfg.format); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConvertFormat(format string) error {
	validFormats := []string{"srt", "xlsx", "json", "text"}
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
}

// runConvert handles the main conversion logic.
func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input files provided")
	}

	centralCfg := GetConfig()
	cfg, err := configToConvertConfig(centralCfg, cmd)
	if err != nil {
		return err
	}

	batchCfg := &batch.Config{
		ParseOptions:    cfg.parseOpts,
		Validate:        cfg.validate,
		Workers:         cfg.workers,
		Recursive:       cfg.recursive,
		IncludePatterns: cfg.include,
		ExcludePatterns: cfg.exclude,
		Progress:        batch.NewConsoleProgressCallback(os.Stderr, "Converting: "),
	}

	res, err := batch.Process(cmd.Context(), args, batchCfg)
	if err != nil {
		return err
	}

	single := len(res.Items) == 1
	for i := range res.Items {
		item := &res.Items[i]
		if item.Err != nil {
			continue
		}
		if len(item.Result.Entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No narration found in %s\n", filepath.Base(item.Path))
			continue
		}

		outPath, err := convertOutputPath(item.Path, cfg, single)
		if err != nil {
			return err
		}
		if !cfg.overwrite && fileExists(outPath) {
			return fmt.Errorf("output file already exists: %s (use --overwrite)", outPath)
		}
		if err := writeConvertOutput(item, outPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)

		if item.Validation != nil {
			srtPath := ""
			if cfg.format == "srt" {
				srtPath = outPath
			}
			reportPath, err := item.Validation.SaveReport(item.Path, srtPath)
			if err != nil {
				return err
			}
			if !item.Validation.Valid {
				fmt.Fprintf(os.Stderr, "⚠️  %s: 검증 불일치 발견 (리포트: %s)\n",
					filepath.Base(item.Path), reportPath)
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())

	if failed := res.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(res.Items))
	}
	return nil
}

// convertOutputPath picks the destination for one converted file. A single
// input with -o writes exactly there; otherwise -o names a directory.
func convertOutputPath(pdfPath string, cfg *convertConfig, single bool) (string, error) {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	name := base + convertExtension(cfg.format)

	if cfg.output == "" {
		return filepath.Join(filepath.Dir(pdfPath), name), nil
	}

	if single && !dirExists(cfg.output) {
		return cfg.output, nil
	}

	if err := os.MkdirAll(cfg.output, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(cfg.output, name), nil
}

func convertExtension(format string) string {
	switch format {
	case "xlsx":
		return ".xlsx"
	case "json":
		return ".json"
	case "text":
		return ".txt"
	default:
		return ".srt"
	}
}

// writeConvertOutput writes one conversion result in the requested format.
func writeConvertOutput(item *batch.Item, outPath string, cfg *convertConfig) error {
	switch cfg.format {
	case "xlsx":
		return export.WriteXLSX(item.Result.Entries, outPath, cfg.parseOpts.IncludeBrackets)
	case "json":
		data, err := json.MarshalIndent(item.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return os.WriteFile(outPath, append(data, '\n'), 0o644)
	case "text":
		return os.WriteFile(outPath, []byte(entriesText(item.Result)), 0o644)
	default: // srt
		return srt.Save(outPath, srt.Generate(item.Result.Entries, cfg.genOpts), cfg.encoding)
	}
}

// entriesText renders the entries as a plain text listing.
func entriesText(res *script.Result) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Pages: %d\n", res.PageCount))
	output.WriteString(fmt.Sprintf("Anchors: %d\n", res.AnchorCount))
	output.WriteString(fmt.Sprintf("Entries: %d\n\n", len(res.Entries)))

	for _, entry := range res.Entries {
		output.WriteString(fmt.Sprintf("#%d %s %s\n", entry.Index, entry.Timecode, entry.Text))
	}

	return output.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
