package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DelimitedSettings describes a delimited text export.
type DelimitedSettings struct {
	Delimiter  rune
	Quote      rune
	HeaderRows int
	// MinFields drops shorter rows without error.
	MinFields int
}

// Delimited streams rows from a delimited text export.
type Delimited struct {
	reader   *csv.Reader
	settings DelimitedSettings
	current  Record
	rowNum   int
	skipped  int
	headerOK bool
	err      error
}

// NewDelimited wraps r. Only '"' is supported as the quote character.
func NewDelimited(r io.Reader, settings DelimitedSettings) (*Delimited, error) {
	if settings.Delimiter == 0 {
		settings.Delimiter = ','
	}
	if settings.Quote != 0 && settings.Quote != '"' {
		return nil, fmt.Errorf("unsupported quote character %q", settings.Quote)
	}
	if settings.Delimiter == '"' || settings.Delimiter == '\n' || settings.Delimiter == '\r' {
		return nil, fmt.Errorf("invalid delimiter %q", settings.Delimiter)
	}

	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = settings.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return &Delimited{reader: reader, settings: settings}, nil
}

// skipHeader consumes the configured header rows. A file shorter than its
// header simply has no records.
func (d *Delimited) skipHeader() bool {
	d.headerOK = true
	for i := 0; i < d.settings.HeaderRows; i++ {
		if _, err := d.reader.Read(); err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = fmt.Errorf("error reading header row %d: %w", i+1, err)
			}
			return false
		}
		d.rowNum++
	}
	return true
}

// Next advances to the next row long enough to be a record.
func (d *Delimited) Next() bool {
	if d.err != nil {
		return false
	}
	if !d.headerOK && !d.skipHeader() {
		return false
	}

	for {
		row, err := d.reader.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			d.err = fmt.Errorf("error reading row %d: %w", d.rowNum+1, err)
			return false
		}
		d.rowNum++

		if isRowEmpty(row) {
			continue
		}
		if len(row) < d.settings.MinFields {
			d.skipped++
			continue
		}

		d.current = Record{Line: d.rowNum, Fields: row}
		return true
	}
}

func (d *Delimited) Record() Record {
	return d.current
}

func (d *Delimited) Err() error {
	return d.err
}

// Skipped returns how many non-empty rows were dropped for being too short.
func (d *Delimited) Skipped() int {
	return d.skipped
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if trim(cell) != "" {
			return false
		}
	}
	return true
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
