package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/cakeledger/internal/codec"
)

// WriteCSV writes t as CSV: the header row, then every data row.
func WriteCSV(w io.Writer, t codec.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Values()); err != nil {
		return fmt.Errorf("write %s csv: %w", t.Name, err)
	}
	return nil
}

// ReadCSV reads a table written by WriteCSV.
func ReadCSV(r io.Reader, name string) (codec.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	values, err := cr.ReadAll()
	if err != nil {
		return codec.Table{}, fmt.Errorf("read %s csv: %w", name, err)
	}
	return codec.SplitValues(name, values), nil
}

// WriteCSVDir writes each table to dir/<name>.csv.
func WriteCSVDir(ctx context.Context, dir string, tables []codec.Table, opts Options) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, strings.ToLower(t.Name)+".csv")
		if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, t) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		opts.done(t.Name)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
