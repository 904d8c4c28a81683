// Package tabular parses uploaded candidate files into raw tables.
//
// Files ending in .csv are read as comma-separated text; anything else is
// opened as an XLSX workbook and its first sheet is read. The first row is
// the header. Blank rows are skipped and empty cells are left out of the
// record. A CSV row with more fields than the header is an error; in a
// workbook the header is widened with "Unnamed: <i>" columns instead.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
)

// ErrEmptyFile is returned when a file has no header row.
var ErrEmptyFile = errors.New("file has no header row")

// Format identifies how a file is decoded.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the decoder from the file name.
func DetectFormat(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// Parser implements pipeline.Parser for CSV and XLSX uploads.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads one uploaded file. The error wraps the underlying decoder
// failure and names the format.
func (p *Parser) Parse(name string, r io.Reader) (domain.RawTable, error) {
	var (
		rows [][]string
		err  error
	)
	format := DetectFormat(name)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		rows, err = readXLSX(r)
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", format, err)
	}
	return buildTable(rows, format == FormatXLSX)
}

// buildTable turns a header row plus data rows into a RawTable. When widen is
// set, the header is padded to the widest row before columns are named.
func buildTable(rows [][]string, widen bool) (domain.RawTable, error) {
	if len(rows) == 0 {
		return domain.RawTable{}, ErrEmptyFile
	}

	header := rows[0]
	if widen {
		header = padHeader(header, rows[1:])
	}
	columns := headerNames(header)
	table := domain.RawTable{Columns: columns}

	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if len(row) > len(columns) {
			return domain.RawTable{}, fmt.Errorf("row %d: expected %d fields, saw %d", i+2, len(columns), len(row))
		}
		rec := make(domain.RawRecord, len(row))
		for j, cell := range row {
			if cell == "" {
				continue
			}
			rec[columns[j]] = cell
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// headerNames names blank headers "Unnamed: <i>" and suffixes repeated
// headers with ".1", ".2", ... so every column has a distinct key.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func padHeader(header []string, data [][]string) []string {
	width := len(header)
	for _, row := range data {
		if !blankRow(row) && len(row) > width {
			width = len(row)
		}
	}
	if width == len(header) {
		return header
	}
	padded := make([]string, width)
	copy(padded, header)
	return padded
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
