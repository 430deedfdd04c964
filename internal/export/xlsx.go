// Package export encodes projected order rows as an xlsx workbook.
package export

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/codespace555/arya-co/internal/orders"
)

const sheetName = "Orders"

// Orders writes rows into a single-sheet workbook and returns the file bytes.
// Callers must have gone through orders.Project first, which guarantees rows
// is non-empty.
func Orders(rows []orders.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, errors.Wrap(err, "create sheet")
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(orders.ExportHeaders))
	for i, h := range orders.ExportHeaders {
		header[i] = h
	}
	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, row.Values()); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	return errors.Wrapf(f.SetSheetRow(sheetName, cell, &values), "write row %d", rowNum)
}
