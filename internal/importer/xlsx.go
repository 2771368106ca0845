package importer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet of a workbook.
func parseXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWords
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoWords
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		res.add(i+2, cols.normalize(row))
	}
	return res, nil
}
