package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/aiprojectops/score-files/internal/common"
)

// Row is one data row keyed by column name.
type Row struct {
	values map[string]string
	Line   int
}

// Get returns the value in column, or "" when the row is short.
func (r Row) Get(column string) string {
	return r.values[column]
}

// Table is a decoded CSV file.
type Table struct {
	Encoding string
	Header   []string
	Rows     []Row
}

// Attempt records why one candidate encoding was rejected.
type Attempt struct {
	Err      error
	Encoding string
}

// FormatError is returned when no candidate encoding produced a table.
type FormatError struct {
	Path     string
	Attempts []Attempt
}

func (e *FormatError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Encoding, a.Err))
	}
	return fmt.Sprintf("cannot read %s (%s)", e.Path, strings.Join(parts, "; "))
}

func (e *FormatError) Unwrap() error {
	return common.ErrUnreadableFormat
}

// ReadTable reads the CSV file at path, trying each encoding in order until
// one decodes cleanly, parses as CSV and has every required column in its
// header. A table with a header and no rows is a successful read.
func ReadTable(path string, required []string, encodings []Encoding) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(encodings) == 0 {
		encodings, err = ResolveEncodings(nil)
		if err != nil {
			return nil, err
		}
	}

	formatErr := &FormatError{Path: path}
	for _, enc := range encodings {
		table, parseErr := parseWith(raw, enc, required)
		if parseErr != nil {
			formatErr.Attempts = append(formatErr.Attempts, Attempt{Encoding: enc.Name, Err: parseErr})
			continue
		}
		return table, nil
	}
	return nil, formatErr
}

func parseWith(raw []byte, enc Encoding, required []string) (*Table, error) {
	text, err := enc.Decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file is empty")
		}
		return nil, fmt.Errorf("malformed header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	table := &Table{Encoding: enc.Name, Header: header}
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("malformed row: %w", readErr)
		}
		line, _ := reader.FieldPos(0)

		values := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(record) {
				values[name] = record[i]
			}
		}
		table.Rows = append(table.Rows, Row{Line: line, values: values})
	}
	return table, nil
}

// HasBOM reports whether raw starts with a UTF-8 byte-order mark.
func HasBOM(raw []byte) bool {
	return bytes.HasPrefix(raw, utf8BOM)
}
