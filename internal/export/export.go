// Package export writes collection snapshots to files for spreadsheets
// and analytics tools: CSV (one file per collection), an XLSX workbook
// (one sheet per collection), and Parquet (one file per collection).
//
// CSV and XLSX carry the same rows the remote store receives, built by
// the row codec, so they read back through the codec decoders.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/model"
)

// Format names an export file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX, FormatParquet:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, xlsx or parquet)", s)
}

// Options control an export run.
type Options struct {
	// Codec builds the CSV and XLSX rows. Nil means codec.New().
	Codec *codec.Codec
	// OnFile, if set, is called after each file or sheet is written.
	OnFile func(name string)
}

func (o Options) codec() *codec.Codec {
	if o.Codec != nil {
		return o.Codec
	}
	return codec.New()
}

func (o Options) done(name string) {
	if o.OnFile != nil {
		o.OnFile(name)
	}
}

// Steps is how many OnFile calls one export makes: one per collection.
const Steps = 3

// Write exports snap into dir and returns the paths written.
func Write(ctx context.Context, format Format, dir string, snap model.Collections, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	switch format {
	case FormatCSV:
		return WriteCSVDir(ctx, dir, opts.codec().Tables(snap), opts)
	case FormatXLSX:
		path := filepath.Join(dir, "cakeledger.xlsx")
		if err := WriteXLSXFile(path, opts.codec().Tables(snap), opts); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatParquet:
		return WriteParquetDir(ctx, dir, snap, opts)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
