// Command gensample writes a set of sample candidate files whose headers and
// city spellings diverge the way real recruitment exports do. The files are
// useful for trying the dashboard and the ingest command locally.
//
// Usage:
//
//	go run ./cmd/gensample -out data/sample -rows 40
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// sampleFile describes one generated export: its header row and how a
// candidate is laid out under it.
type sampleFile struct {
	name   string
	header []string
	row    func(c candidate) []string
}

type candidate struct {
	name       string
	city       string
	role       string
	phone      string
	experience string
	years      string
	status     string
}

var (
	firstNames = []string{"Aarav", "Priya", "Rohan", "Sneha", "Vikram", "Anjali", "Karthik", "Meera", "Imran", "Lakshmi"}
	lastNames  = []string{"Singh", "Patil", "Reddy", "Iyer", "Sharma", "Khan", "Rao", "Deshmukh", "Yadav", "Nair"}
	roles      = []string{"Sales Executive", "Cashier", "Store Manager", "Jewellery Consultant", "Karigar", "Floor Supervisor"}
	statuses   = []string{"New", "Contacted", "Interviewed", "Rejected", "Hired"}

	// Spellings include qualifiers, state suffixes and a few cities the
	// coordinate table does not know.
	cities = []string{
		"Nagpur", "Nagpur District", "nagpur city", "Mumbai", "Pune (MH)", "Pune - Hinjewadi",
		"Gorakhpur, UP", "Lucknow", "Deoria", "Hyderabad", "Secunderabad", "Vizag (AP)",
		"Jaipur", "Ajmer", "Chennai", "Coimbatore", "Bangalore", "Delhi",
		"Atlantis", "Shangri-La", "", "Kamptee",
	}
)

var files = []sampleFile{
	{
		name: "web_leads.csv",
		header: []string{
			"full_name", "city", "what's_your_current_designation?", "phone",
			"do_you_have_an_experience_in_jewelry_industry?",
			"how_many_years_of_experience_do_you_have_in_jewelry_industry?",
			"lead_status",
		},
		row: func(c candidate) []string {
			return []string{c.name, c.city, c.role, c.phone, c.experience, c.years, c.status}
		},
	},
	{
		name:   "walk_ins.xlsx",
		header: []string{"Name", "City", "Designation", "Contact no`", "Remarks"},
		row: func(c candidate) []string {
			return []string{c.name, c.city, c.role, c.phone, "walk-in"}
		},
	},
	{
		name:   "referrals.csv",
		header: []string{"Candidate Name", "location", "current_designation", "phone_number", "Referred By"},
		row: func(c candidate) []string {
			return []string{c.name, c.city, c.role, c.phone, "store staff"}
		},
	},
	{
		name:   "job_fair.csv",
		header: []string{"name", "location", "Designation"},
		row: func(c candidate) []string {
			return []string{c.name, c.city, c.role}
		},
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "data/sample", "directory to write sample files into")
	rows := flag.Int("rows", 40, "rows per file")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows must be positive")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	for _, f := range files {
		records := make([][]string, 0, *rows+1)
		records = append(records, f.header)
		for range *rows {
			records = append(records, f.row(randomCandidate(rng)))
		}

		path := filepath.Join(*outDir, f.name)
		var err error
		if filepath.Ext(f.name) == ".xlsx" {
			err = writeXLSX(path, records)
		} else {
			err = writeCSV(path, records)
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		log.Printf("wrote %s: %d records", path, *rows)
	}
	return nil
}

func randomCandidate(rng *rand.Rand) candidate {
	exp := "No"
	years := ""
	if rng.IntN(2) == 0 {
		exp = "Yes"
		years = fmt.Sprintf("%d", 1+rng.IntN(15))
	}
	return candidate{
		name:       firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
		city:       cities[rng.IntN(len(cities))],
		role:       roles[rng.IntN(len(roles))],
		phone:      fmt.Sprintf("9%09d", rng.IntN(1_000_000_000)),
		experience: exp,
		years:      years,
		status:     statuses[rng.IntN(len(statuses))],
	}
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
