package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the messages.
const SheetName = "Violations"

var xlsxHeader = []interface{}{"#", "Kind", "Message", "X (mm)", "Y (mm)", "Key"}

// XLSX writes the messages as a spreadsheet, one row per message below a
// header row.
func XLSX(w io.Writer, r Report) error {
	f, err := workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

// SaveXLSX writes the spreadsheet to path.
func SaveXLSX(path string, r Report) error {
	f, err := workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func workbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetName); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	for i, m := range r.Messages {
		c := m.Center()
		row := []interface{}{i + 1, string(m.Kind), m.Text, mm(c.X), mm(c.Y), m.ApprovalKey()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("xlsx: %w", err)
		}
	}
	return f, nil
}
