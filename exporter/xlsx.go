package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tracklite/reporting/report"
)

const defaultSheet = "Report"

type Options struct {
	// Sheet name, defaults to "Report".
	Sheet string

	// TotalsFor lists column labels that receive a computed totals row
	// below the data.
	TotalsFor []string

	// AutoSize widens each column to fit its longest value.
	AutoSize bool
}

// Build renders a report result into a spreadsheet: a header row, one row
// per report row and optionally a totals row for designated numeric columns.
func Build(result *report.Result, opts Options) (*excelize.File, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	widths := make([]int, len(result.Columns))

	for i, label := range result.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return nil, err
		}
		widths[i] = len(label)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(result.Columns), 1)
		_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)
	}

	for rowIdx, row := range result.Rows {
		for colIdx, label := range result.Columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}

			value := row[label]
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}

			if l := len(fmt.Sprint(value)); l > widths[colIdx] {
				widths[colIdx] = l
			}
		}
	}

	if len(opts.TotalsFor) > 0 {
		if err := writeTotalsRow(f, sheet, result, opts.TotalsFor); err != nil {
			return nil, err
		}
	}

	if opts.AutoSize {
		for i, width := range widths {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, err
			}
			w := float64(width) + 2
			if w > 60 {
				w = 60
			}
			if err := f.SetColWidth(sheet, name, name, w); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// Write renders the result and streams the workbook to w.
func Write(w io.Writer, result *report.Result, opts Options) error {
	f, err := Build(result, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

func writeTotalsRow(f *excelize.File, sheet string, result *report.Result, totalsFor []string) error {
	totals := make(map[string]float64, len(totalsFor))
	for _, label := range totalsFor {
		totals[label] = 0
	}

	for _, row := range result.Rows {
		for _, label := range totalsFor {
			switch v := row[label].(type) {
			case float64:
				totals[label] += v
			case int:
				totals[label] += float64(v)
			}
		}
	}

	rowIdx := len(result.Rows) + 2
	for colIdx, label := range result.Columns {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
		if err != nil {
			return err
		}

		if total, ok := totals[label]; ok {
			if err := f.SetCellValue(sheet, cell, total); err != nil {
				return err
			}
		} else if colIdx == 0 {
			if err := f.SetCellValue(sheet, cell, "TOTAL"); err != nil {
				return err
			}
		}
	}

	return nil
}
