package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func xlsxBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, DetectFormat("leads.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("LEADS.CSV"))
	assert.Equal(t, FormatXLSX, DetectFormat("leads.xlsx"))
	assert.Equal(t, FormatXLSX, DetectFormat("leads"))
}

func TestParse_CSV(t *testing.T) {
	in := "full_name,city,phone\nA. Singh,\"Gorakhpur, UP\",98100\nB. Rao,,\n"

	table, err := NewParser().Parse("leads.csv", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"full_name", "city", "phone"}, table.Columns)
	require.Len(t, table.Records, 2)
	assert.Equal(t, domain.RawRecord{"full_name": "A. Singh", "city": "Gorakhpur, UP", "phone": "98100"}, table.Records[0])
	assert.Equal(t, domain.RawRecord{"full_name": "B. Rao"}, table.Records[1])
}

func TestParse_CSVWithBOM(t *testing.T) {
	in := "\ufeffName,City\nA,Pune\n"

	table, err := NewParser().Parse("export.csv", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "City"}, table.Columns)
	assert.Equal(t, "A", table.Records[0]["Name"])
}

func TestParse_CSVShortRowsAndBlankLines(t *testing.T) {
	in := "name,city,phone\nA,Pune\n\n,,\nB,Nagpur,1\n"

	table, err := NewParser().Parse("x.csv", strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, table.Records, 2)
	assert.Equal(t, domain.RawRecord{"name": "A", "city": "Pune"}, table.Records[0])
	assert.Equal(t, "B", table.Records[1]["name"])
}

func TestParse_CSVTooManyFields(t *testing.T) {
	in := "name,city\nA,Pune,extra\n"

	_, err := NewParser().Parse("x.csv", strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 fields, saw 3")
}

func TestParse_CSVBadQuote(t *testing.T) {
	in := "name,city\n\"A,Pune\n"

	_, err := NewParser().Parse("x.csv", strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse csv")
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := NewParser().Parse("empty.csv", strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestParse_DuplicateAndBlankHeaders(t *testing.T) {
	in := "name,,name,name.1\na,b,c,d\n"

	table, err := NewParser().Parse("x.csv", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "Unnamed: 1", "name.1", "name.1.1"}, table.Columns)
	assert.Equal(t, "c", table.Records[0]["name.1"])
	assert.Equal(t, "d", table.Records[0]["name.1.1"])
}

func TestParse_XLSX(t *testing.T) {
	data := xlsxBytes(t, [][]any{
		{"Candidate Name", "location", "Designation"},
		{"C. Iyer", "Chennai", "Store Manager"},
		{"D. Khan", "Nagpur District"},
	})

	table, err := NewParser().Parse("roster.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Candidate Name", "location", "Designation"}, table.Columns)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "Store Manager", table.Records[0]["Designation"])
	assert.Equal(t, domain.RawRecord{"Candidate Name": "D. Khan", "location": "Nagpur District"}, table.Records[1])
}

func TestParse_XLSXRowWiderThanHeader(t *testing.T) {
	data := xlsxBytes(t, [][]any{
		{"name", "city"},
		{"E. Rao", "Pune", "Cashier", "walk-in"},
		{"F. Das", "Nagpur"},
	})

	table, err := NewParser().Parse("wide.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "city", "Unnamed: 2", "Unnamed: 3"}, table.Columns)
	require.Len(t, table.Records, 2)
	assert.Equal(t, domain.RawRecord{
		"name":       "E. Rao",
		"city":       "Pune",
		"Unnamed: 2": "Cashier",
		"Unnamed: 3": "walk-in",
	}, table.Records[0])
	assert.Equal(t, domain.RawRecord{"name": "F. Das", "city": "Nagpur"}, table.Records[1])
}

func TestBuildTable_WidenOnlyWhenAsked(t *testing.T) {
	rows := [][]string{{"name"}, {"G. Roy", "extra"}}

	_, err := buildTable(rows, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	table, err := buildTable(rows, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "Unnamed: 1"}, table.Columns)
	assert.Equal(t, "extra", table.Records[0]["Unnamed: 1"])
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := NewParser().Parse("notes.txt", strings.NewReader("just some text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse xlsx")
}
