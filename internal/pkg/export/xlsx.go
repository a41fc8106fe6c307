// Package export renders tabular data as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks written here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: an optional title block followed by a header row
// and data rows.
type Sheet struct {
	Name     string
	Title    string
	Subtitle []string
	Headers  []string
	Rows     [][]interface{}
}

// WriteWorkbook renders sheets in order into a single workbook and streams it
// to w.
func WriteWorkbook(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, headerStyle, titleStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle, titleStyle int) error {
	row := 1

	if sheet.Title != "" {
		if err := f.SetCellValue(sheet.Name, "A1", sheet.Title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", "A1", titleStyle); err != nil {
			return err
		}
		row++
		for _, line := range sheet.Subtitle {
			if err := f.SetCellValue(sheet.Name, fmt.Sprintf("A%d", row), line); err != nil {
				return err
			}
			row++
		}
		row++ // blank line before the table
	}

	headerCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet.Name, headerCell, &sheet.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if len(sheet.Headers) > 0 {
		lastHeader, err := excelize.CoordinatesToCellName(len(sheet.Headers), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, headerCell, lastHeader, headerStyle); err != nil {
			return err
		}
		lastCol, err := excelize.ColumnNumberToName(len(sheet.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", lastCol, 18); err != nil {
			return err
		}
	}

	for _, values := range sheet.Rows {
		row++
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := values
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}
	return nil
}
