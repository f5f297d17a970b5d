package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"scheduled-uploader/domain/schedule"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader loads a schedule from a delimited text file with a header row.
// Every cell is kept as text so dates and times are never coerced to numbers.
type Reader struct {
	comma rune
}

// ReaderOption is a functional option for configuring Reader
type ReaderOption func(*Reader)

// WithComma sets the field delimiter (default ',')
func WithComma(comma rune) ReaderOption {
	return func(r *Reader) {
		r.comma = comma
	}
}

// NewReader creates a new schedule reader
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{comma: ','}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadRows opens path and parses it
func (r *Reader) ReadRows(path string) (*schedule.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", schedule.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to open schedule: %w", err)
	}
	defer f.Close()

	return r.Parse(f)
}

// Parse reads a schedule from src. A leading byte-order mark is removed and
// UTF-16 input marked with a BOM is decoded. Wholly blank rows are dropped.
func (r *Reader) Parse(src io.Reader) (*schedule.Sheet, error) {
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return &schedule.Sheet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	sheet := &schedule.Sheet{Header: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read schedule: %w", err)
		}

		line, _ := cr.FieldPos(0)
		row := schedule.Row{
			Line:   line,
			Fields: make(map[string]string, len(header)),
		}
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, seen := row.Fields[name]; seen {
				continue
			}
			if i < len(record) {
				row.Fields[name] = record[i]
			} else {
				row.Fields[name] = ""
			}
		}

		if row.IsBlank() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}
