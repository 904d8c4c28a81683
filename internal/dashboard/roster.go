package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
)

// RosterRow is one line of the candidate roster table.
type RosterRow struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Phone  string `json:"phone"`
	City   string `json:"city"`
	Source string `json:"source"`
}

// Roster projects records onto the roster columns.
func Roster(records []domain.CanonicalRecord) []RosterRow {
	rows := make([]RosterRow, len(records))
	for i, rec := range records {
		rows[i] = RosterRow{
			Name:   rec.Name(),
			Role:   rec.Role(),
			Phone:  rec.Phone(),
			City:   rec.City(),
			Source: rec.Source(),
		}
	}
	return rows
}

// ExportFilename names the CSV download after the selection.
func ExportFilename(selection string) string {
	return SelectionLabel(selection) + "_data.csv"
}

// WriteCSV writes records with the dataset's columns and a header row.
// Absent values and unresolved coordinates are written as empty cells.
func WriteCSV(w io.Writer, ds domain.Dataset, records []domain.CanonicalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(ds.Columns))
	for _, rec := range records {
		for i, col := range ds.Columns {
			row[i] = rec.Value(col)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
