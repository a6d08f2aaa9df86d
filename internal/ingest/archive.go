package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/studioanalytics/internal/slots"
)

// DefaultMarker selects the payroll export among the files of an archive.
const DefaultMarker = "payroll"

var (
	ErrInvalidArchive = errors.New("invalid archive")
	ErrNoCSV          = errors.New("no csv file in archive")
	ErrEmptyCSV       = errors.New("csv file has no data rows")
)

// Table is the parsed content of the CSV file picked from an archive.
type Table struct {
	Name   string
	Header []string
	Rows   []slots.RawRow
}

// pickCSV returns the first CSV whose name contains marker, or the first CSV.
func pickCSV(files []*zip.File, marker string) *zip.File {
	var first *zip.File
	marker = strings.ToLower(marker)
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(path.Base(f.Name))
		if strings.HasPrefix(name, "._") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		if marker != "" && strings.Contains(name, marker) {
			return f
		}
		if first == nil {
			first = f
		}
	}
	return first
}

func ReadArchive(r io.ReaderAt, size int64, marker string) (*Table, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	file := pickCSV(archive.File, marker)
	if file == nil {
		return nil, ErrNoCSV
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", file.Name, err)
	}
	defer rc.Close()

	table, err := ReadCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", file.Name, err)
	}
	table.Name = file.Name
	return table, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a CSV with a header row. Blank lines are skipped and rows
// may have fewer or more cells than the header.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	} else if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if blank(record) {
			continue
		}
		table.Rows = append(table.Rows, slots.NewRawRow(header, record))
	}
	if len(table.Rows) == 0 {
		return nil, ErrEmptyCSV
	}
	return table, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
