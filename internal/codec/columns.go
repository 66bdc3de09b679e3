package codec

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/cakeledger/internal/model"
)

// headerAliases maps legacy header names to the current name of the same
// logical field, per collection. When both names are present in one
// header row the current name wins.
var headerAliases = map[string]map[string]string{
	model.CollectionOrders: {
		"deliveryDate": "dueDate",
	},
}

// columns maps a current field name to its cell index in a data row.
type columns map[string]int

// indexColumns resolves a header row for the named collection.
// Header cells are trimmed and NFC-normalized so that cells retyped by
// hand still match. Unknown names are kept but never looked up.
func indexColumns(collection string, header []string) columns {
	aliases := headerAliases[collection]
	cols := make(columns, len(header))
	direct := make(map[string]bool, len(header))

	for i, raw := range header {
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		if canonical, ok := aliases[name]; ok {
			if !direct[canonical] {
				if _, seen := cols[canonical]; !seen {
					cols[canonical] = i
				}
			}
			continue
		}
		if direct[name] {
			continue // first occurrence of a duplicated header wins
		}
		cols[name] = i
		direct[name] = true
	}
	return cols
}

// cell returns the trimmed text of field name in row, or "" when the
// column is missing or the row is short.
func (c columns) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// raw returns the untrimmed text of field name. Image payloads and free
// text are passed through as stored.
func (c columns) raw(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func normalizeHeader(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
