package syntax

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadExcel reads declarations from the first sheet of an .xlsx workbook.
// Columns: group, versions, id, help url, template, parameter types...
func ReadExcel(path string) ([]Declaration, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	decls, err := declarationsFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decls, nil
}

// WriteExcel writes declarations to a new workbook using the ReadExcel layout.
func WriteExcel(path string, decls []Declaration) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Group", "Versions", "ID", "Help URL", "Syntax"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, d := range decls {
		row := []interface{}{d.Group, d.Versions.String(), d.ID, d.HelpURL, d.Template}
		for _, p := range d.ParamTypes {
			row = append(row, p)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
