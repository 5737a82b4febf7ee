package opiniao

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformedExport = errors.New("malformed questionnaire export")

// Record is one respondent of an export, every field as text.
type Record map[string]string

// tableIndex is where exports produced by the database dump tool keep the
// table object whose "data" holds the rows.
const tableIndex = 2

// Decode reads an export. It accepts both the dump layout, an array whose
// third element is {"data": [...]}, and a plain array of records.
func Decode(raw []byte) ([]Record, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}

	rows := top
	if len(top) > tableIndex {
		var table struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(top[tableIndex], &table); err == nil && table.Data != nil {
			rows = table.Data
		}
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		var fields map[string]any
		if err := json.Unmarshal(row, &fields); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedExport, i, err)
		}
		rec := make(Record, len(fields))
		for k, v := range fields {
			if s, ok := text(v); ok {
				rec[k] = s
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func text(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// scale converts an answer code into a score: 1 (best) scores 5 and 4
// scores 2. Code 5 ("don't know") and anything else has no score.
var scale = map[string]float64{"1": 5, "2": 4, "3": 3, "4": 2}

// Score returns the score of an answer code.
func Score(answer string) (float64, bool) {
	v, ok := scale[answer]
	return v, ok
}
