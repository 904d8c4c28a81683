package tabular

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV decodes UTF-8 text, dropping a leading byte order mark as written by
// spreadsheet "Save as CSV" exports. Short rows are allowed; long rows are
// rejected by buildTable.
func readCSV(r io.Reader) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1

	return cr.ReadAll()
}
