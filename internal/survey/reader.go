package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV parses a comma-separated export of a survey year.
func ReadCSV(r io.Reader, schema Schema) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Normalize(schema, records)
}

// ReadXLSX parses the first sheet of a spreadsheet export of a survey year.
func ReadXLSX(r io.Reader, schema Schema) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return Normalize(schema, records)
}

// Read dispatches on the file extension of name.
func Read(r io.Reader, name string, schema Schema) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", "":
		return ReadCSV(r, schema)
	case ".xlsx":
		return ReadXLSX(r, schema)
	}
	return nil, errors.New("unsupported survey file type: " + filepath.Ext(name))
}
