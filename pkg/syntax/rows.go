package syntax

import (
	"fmt"
	"strings"

	"msci/pkg/utils/coerce"
)

// Column layout shared by the spreadsheet sources.
const (
	colGroup = iota
	colVersions
	colID
	colHelpURL
	colTemplate
	colFirstParam
)

// declarationsFromRows converts spreadsheet rows into declarations. The first
// row is treated as a header when its id cell is not a number. Empty rows are
// skipped.
func declarationsFromRows(rows [][]string) ([]Declaration, error) {
	var decls []Declaration
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < colFirstParam {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", i+1, colFirstParam, len(row))
		}
		id, err := coerce.ToInt64(strings.TrimSpace(row[colID]))
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: invalid command id %q", i+1, row[colID])
		}
		if id < 0 || id >= int64(UnrecognisedID) {
			return nil, fmt.Errorf("row %d: command id %d out of range", i+1, id)
		}
		v, err := ParseVersion(row[colVersions])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		d := Declaration{
			Group:    strings.TrimSpace(row[colGroup]),
			Versions: v,
			ID:       uint32(id),
			HelpURL:  strings.TrimSpace(row[colHelpURL]),
			Template: strings.TrimSpace(row[colTemplate]),
		}
		for _, cell := range row[colFirstParam:] {
			if p := strings.TrimSpace(cell); p != "" {
				d.ParamTypes = append(d.ParamTypes, p)
			}
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
