package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/cakeledger/internal/codec"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes one sheet per table, named after the table.
func WriteXLSX(w io.Writer, tables []codec.Table, opts Options) error {
	f, err := buildWorkbook(tables, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteXLSXFile is WriteXLSX to a file path.
func WriteXLSXFile(path string, tables []codec.Table, opts Options) error {
	f, err := buildWorkbook(tables, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(tables []codec.Table, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", t.Name, err)
		}

		for r, row := range t.Values() {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %s row %d: %w", t.Name, r+1, err)
			}
		}
		opts.done(t.Name)
	}

	if len(tables) > 0 {
		f.SetActiveSheet(0)
	}
	return f, nil
}

// ReadXLSX reads every sheet of a workbook as a table.
func ReadXLSX(r io.Reader) ([]codec.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var tables []codec.Table
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		tables = append(tables, codec.SplitValues(name, rows))
	}
	return tables, nil
}
