// Package codec converts records to and from the flat text rows of the
// remote spreadsheet.
//
// Each collection is a Table: a header row naming the columns and zero or
// more data rows, every cell a string. Encoding always writes the current
// versioned column order. Decoding is header-driven: a cell is routed by
// the header name of its column, so reordered columns and unknown extra
// columns are tolerated. Legacy header names are resolved through an
// explicit alias table.
//
// Decoding is lenient, since cells may be edited by hand:
//   - invalid or empty amounts decode as 0, invalid quantity as 1
//   - booleans are true only for the exact text "true"
//   - a row missing its id or its primary text field is skipped, never fatal
package codec
