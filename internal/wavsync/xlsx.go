package wavsync

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/adflow-io/adflow/internal/timecode"
)

// SaveReportXLSX writes the sync report as a spreadsheet for the delivery
// checklist.
func (a *Analyzer) SaveReportXLSX(path string, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "동기화 리포트"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	headers := []any{"#", "타임코드", "원본길이(ms)", "WAV길이(ms)", "차이(ms)", "상태"}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, e := range entries {
		row := []any{
			e.Index,
			timecode.ToTimecode(e.StartMS, a.fps),
			e.OriginalEndMS - e.StartMS,
			e.WAVDurationMS,
			e.DiffMS,
			statusLabel(e.Status),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save sync report: %w", err)
	}
	return nil
}

// setRow writes values left to right starting at column A of the given row.
func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
