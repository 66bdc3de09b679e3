package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cell is one spreadsheet cell as text. The endpoint serializes cells
// with their sheet types, so a cell may arrive as a JSON string, number,
// boolean or null; all are coerced to the text the codec expects.
type Cell string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*c = Cell(data)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*c = Cell(n.String())
	default:
		return fmt.Errorf("unsupported cell value %s", data)
	}
	return nil
}

// tableValues reads one fetched table as text rows. A data row that is
// not an array, or that holds a cell of an unsupported type, becomes an
// empty row: the codec then drops it as malformed and the rows after it
// keep their indexes. An unreadable table or header row yields no rows.
func (t *HTTPTransport) tableValues(sheet string, raw json.RawMessage) [][]string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.logger.Warn("ignored unreadable table", "sheet", sheet, "error", err)
		return nil
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		texts, err := rowText(row)
		if err != nil {
			if i == 0 {
				t.logger.Warn("ignored table with unreadable header", "sheet", sheet, "error", err)
				return nil
			}
			t.logger.Debug("unreadable row", "sheet", sheet, "row", i-1, "error", err)
			out[i] = []string{}
			continue
		}
		out[i] = texts
	}
	return out
}

func rowText(raw json.RawMessage) ([]string, error) {
	var cells []Cell
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, err
	}
	texts := make([]string, len(cells))
	for i, cell := range cells {
		texts[i] = string(cell)
	}
	return texts, nil
}
