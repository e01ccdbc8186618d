package syntax

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"msci/pkg/utils/coerce"
)

// NewSheetsService builds a Sheets client. credentials is either a path to a
// service account file or the JSON document itself. Replaced in tests.
var NewSheetsService = func(ctx context.Context, credentials string) (*sheets.Service, error) {
	var opt option.ClientOption
	if strings.HasPrefix(strings.TrimSpace(credentials), "{") {
		opt = option.WithCredentialsJSON([]byte(credentials))
	} else {
		opt = option.WithCredentialsFile(credentials)
	}
	return sheets.NewService(ctx, opt)
}

// ReadSheet reads declarations from a Google Sheets range laid out like the
// ReadExcel workbook.
func ReadSheet(ctx context.Context, credentials, spreadsheetID, readRange string) ([]Declaration, error) {
	srv, err := NewSheetsService(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s!%s: %w", spreadsheetID, readRange, err)
	}
	return declarationsFromRows(sheetRows(resp.Values))
}

func sheetRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = coerce.ToString(v)
		}
		rows[i] = cells
	}
	return rows
}
