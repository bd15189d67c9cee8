package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/wavsync"
)

const (
	headerIndigo = "4F46E5"
	headerGreen  = "10B981"
	borderGray   = "E5E5E5"
)

// statusFills shades the sync report's status column per verdict.
var statusFills = map[wavsync.Status]string{
	wavsync.StatusSynced:  "D1FAE5",
	wavsync.StatusShorter: "FEF3C7",
	wavsync.StatusLonger:  "FECACA",
	wavsync.StatusMissing: "F3F4F6",
}

// WriteXLSX writes the review spreadsheet editors proof the script in.
// includeBrackets adds the instruction column next to the narration.
func WriteXLSX(entries []script.Entry, outputPath string, includeBrackets bool) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "음성해설 대본"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []any{"#", "타임코드", "원본 TC", "지시사항", "음성해설 대본"}
	widths := []float64{6, 15, 10, 20, 60}
	if !includeBrackets {
		headers = []any{"#", "타임코드", "원본 TC", "음성해설 대본"}
		widths = []float64{6, 15, 10, 70}
	}

	if err := writeHeaderRow(f, sheet, headers, widths, headerIndigo); err != nil {
		return err
	}

	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("failed to build cell style: %w", err)
	}
	wrapped, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("failed to build cell style: %w", err)
	}

	for i, e := range entries {
		row := i + 2
		values := []any{e.Index, e.Timecode, e.RawTC, e.Instruction, e.Text}
		if !includeBrackets {
			values = []any{e.Index, e.Timecode, e.RawTC, e.Text}
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			style := wrapped
			if col < 3 {
				style = centered
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}

		// Give long narration rows room to wrap.
		height := float64(len([]rune(e.Text))/40*15 + 20)
		if height < 20 {
			height = 20
		}
		if err := f.SetRowHeight(sheet, row, height); err != nil {
			return fmt.Errorf("failed to size row %d: %w", row, err)
		}
	}

	if err := freezeHeader(f, sheet); err != nil {
		return err
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

// WriteSyncReportXLSX writes the color-coded sync review sheet.
func WriteSyncReportXLSX(entries []wavsync.Entry, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "SRT 동기화 결과"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []any{"#", "타임코드", "원본 길이", "WAV 길이", "차이", "상태", "파일명"}
	widths := []float64{6, 15, 12, 12, 12, 10, 25}
	if err := writeHeaderRow(f, sheet, headers, widths, headerGreen); err != nil {
		return err
	}

	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("failed to build cell style: %w", err)
	}

	statusStyles := make(map[wavsync.Status]int, len(statusFills))
	for status, color := range statusFills {
		id, err := f.NewStyle(&excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorder(),
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to build status style: %w", err)
		}
		statusStyles[status] = id
	}

	for i, e := range entries {
		row := i + 2

		wavLen := "-"
		if e.WAVDurationMS > 0 {
			wavLen = fmt.Sprintf("%.1f초", float64(e.WAVDurationMS)/1000)
		}
		diff := "-"
		if e.Status != wavsync.StatusMissing {
			diff = fmt.Sprintf("%+.1f초", float64(e.DiffMS)/1000)
		}

		values := []any{
			e.Index,
			displayTime(e.StartMS),
			fmt.Sprintf("%.1f초", float64(e.OriginalEndMS-e.StartMS)/1000),
			wavLen,
			diff,
			statusKorean(e.Status),
			e.WAVFilename,
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			style := centered
			if col == 5 {
				if id, ok := statusStyles[e.Status]; ok {
					style = id
				}
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
	}

	if err := freezeHeader(f, sheet); err != nil {
		return err
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

// writeHeaderRow writes a bold white-on-color header row and sets column
// widths.
func writeHeaderRow(f *excelize.File, sheet string, headers []any, widths []float64, fill string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %v: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header %v: %w", h, err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to name column: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}
	return nil
}

// freezeHeader pins the header row while scrolling.
func freezeHeader(f *excelize.File, sheet string) error {
	err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: borderGray, Style: 1})
	}
	return borders
}

// displayTime renders milliseconds as HH:MM:SS for review sheets.
func displayTime(ms int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", ms/3600000, ms%3600000/60000, ms%60000/1000)
}

// statusKorean maps a sync status to its review-sheet label.
func statusKorean(s wavsync.Status) string {
	switch s {
	case wavsync.StatusSynced:
		return "✓ 일치"
	case wavsync.StatusShorter:
		return "▼ 짧음"
	case wavsync.StatusLonger:
		return "▲ 김"
	case wavsync.StatusMissing:
		return "- 없음"
	}
	return string(s)
}
