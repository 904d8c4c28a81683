// Command validate audits a set of candidate export files before they are
// uploaded: every file must parse, every normalized record must carry the
// required fields, enough cities must resolve against the coordinate table,
// and the CSV export must round-trip.
//
// Usage:
//
//	go run ./cmd/validate -min-coverage 0.8 data/sample/*.csv data/sample/*.xlsx
package main

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/adapter/tabular"
	"github.com/couchcryptid/recruit-map-etl/internal/dashboard"
	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	minCoverage := flag.Float64("min-coverage", 0.8, "minimum share of records whose city resolves (0-1)")
	flag.Parse()

	if flag.NArg() == 0 || *minCoverage < 0 || *minCoverage > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(flag.Args(), *minCoverage); code != 0 {
		os.Exit(code)
	}
}

// parsedFile is one input file and its normalized table.
type parsedFile struct {
	label string
	raw   domain.RawTable
	table domain.CanonicalTable
}

func run(paths []string, minCoverage float64) int {
	// Fixed clock so repeated runs print identical reports.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== Candidate File Validation ===")
	fmt.Println()

	parsePhase, files := validateParsing(paths)

	tables := make([]domain.CanonicalTable, len(files))
	labels := make([]string, len(files))
	for i, f := range files {
		tables[i] = f.table
		labels[i] = f.label
	}
	resolver := domain.NewResolver(domain.PolicyDrop, domain.DefaultFallback)
	ds := domain.Geocode(domain.MergeSources(tables, labels), resolver)

	phases := []*phase{
		parsePhase,
		validateRequiredFields(files),
		validateCoverage(ds, minCoverage),
		validateExport(ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d across %d of %d files, %d mappable\n",
		ds.Len(), len(files), len(paths), len(dashboard.Filter(ds, dashboard.Overview)))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Parsing ──

func validateParsing(paths []string) (*phase, []parsedFile) {
	p := &phase{name: "Phase 1: File Parsing"}
	parser := tabular.NewParser()

	var files []parsedFile
	for _, path := range paths {
		label := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			p.errorf("%s: %v", label, err)
			continue
		}
		raw, err := parser.Parse(label, f)
		f.Close()
		if err != nil {
			p.errorf("%s: %v", label, err)
			continue
		}
		if len(raw.Records) == 0 {
			p.errorf("%s: header only, no data rows", label)
		}
		files = append(files, parsedFile{label: label, raw: raw, table: domain.NormalizeColumns(raw)})
		fmt.Printf("  %-30s %5d rows  %s\n", label, len(raw.Records), tabular.DetectFormat(label))
	}
	return p, files
}

// ── Phase 2: Required fields ──
// A required field filled with the sentinel means the file had no column for
// it. That is allowed but printed so the alias table can be extended.

func validateRequiredFields(files []parsedFile) *phase {
	p := &phase{name: "Phase 2: Required Fields"}
	for _, f := range files {
		for _, field := range domain.RequiredFields {
			if !slices.Contains(f.table.Columns, field) {
				p.errorf("%s: column %q missing from normalized schema", f.label, field)
				continue
			}
			if len(f.table.Records) > 0 && allUnknown(f.table.Records, field) {
				fmt.Printf("  note: %s has no header for %s, filled with %q (headers: %v)\n",
					f.label, field, domain.Unknown, f.raw.Columns)
			}
		}
		for i, rec := range f.table.Records {
			for _, field := range domain.RequiredFields {
				if _, ok := rec.Get(field); !ok {
					p.errorf("%s row %d: %s absent after normalization", f.label, i+2, field)
				}
			}
		}
	}
	return p
}

func allUnknown(records []domain.CanonicalRecord, field string) bool {
	for _, rec := range records {
		if v, _ := rec.Get(field); v != domain.Unknown {
			return false
		}
	}
	return true
}

// ── Phase 3: City coverage ──

func validateCoverage(ds domain.Dataset, minCoverage float64) *phase {
	p := &phase{name: "Phase 3: City Resolution Coverage"}
	if ds.Len() == 0 {
		return p
	}

	unresolved := make(map[string]int)
	resolved := 0
	for _, rec := range ds.Records {
		switch rec.GeoSource {
		case domain.GeoSourceTable:
			resolved++
		case domain.GeoSourceMissing:
			unresolved["(no city)"]++
		default:
			unresolved[fmt.Sprintf("%q", rec.CleanCity)]++
		}
	}

	coverage := float64(resolved) / float64(ds.Len())
	fmt.Printf("\n  coverage: %.1f%% (%d/%d)\n", coverage*100, resolved, ds.Len())
	if coverage >= minCoverage {
		return p
	}

	p.errorf("coverage %.1f%% below minimum %.1f%%", coverage*100, minCoverage*100)
	keys := make([]string, 0, len(unresolved))
	for k := range unresolved {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(unresolved[b], unresolved[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, k := range keys {
		p.errorf("unresolved city %s: %d records", k, unresolved[k])
	}
	return p
}

// ── Phase 4: Export round trip ──

func validateExport(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 4: CSV Export Round Trip"}

	var buf bytes.Buffer
	if err := dashboard.WriteCSV(&buf, ds, ds.Records); err != nil {
		p.errorf("write export: %v", err)
		return p
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		p.errorf("read export: %v", err)
		return p
	}
	if len(rows) != ds.Len()+1 {
		p.errorf("export has %d rows, want %d", len(rows), ds.Len()+1)
		return p
	}
	if !slices.Equal(rows[0], ds.Columns) {
		p.errorf("export header %v, want %v", rows[0], ds.Columns)
	}
	for i, rec := range ds.Records {
		for j, col := range ds.Columns {
			if got, want := rows[i+1][j], rec.Value(col); got != want {
				p.errorf("row %d column %s: %q != %q", i+2, col, got, want)
			}
		}
	}
	return p
}
