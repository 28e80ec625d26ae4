package source

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/xuri/excelize/v2"
)

// XLSX is an Excel workbook source. The first row of the sheet is the header.
type XLSX struct {
	Path  string
	Sheet string // Empty means the first sheet
}

// Key implements core.Source.
func (x *XLSX) Key() string {
	if x.Sheet == "" {
		return "file:" + x.Path
	}
	return "file:" + x.Path + "#" + x.Sheet
}

// Fingerprint implements core.Source.
func (x *XLSX) Fingerprint(ctx context.Context) (string, error) {
	return fileFingerprint(ctx, x.Path)
}

// Read implements core.Source.
func (x *XLSX) Read(ctx context.Context) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("empty file: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: sheet %q has no rows", sheet)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows after header in sheet %q", sheet)
	}

	return core.NewTable(x.Key(), rows[0], rows[1:])
}
