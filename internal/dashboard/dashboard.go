// Package dashboard computes the read-only views served over a geocoded
// dataset: the region list, KPI summary, clustered map markers, the roster
// table and the CSV export.
//
// Views work on the map-eligible subset, which is every record carrying
// coordinates. Under the drop policy that excludes unresolved cities; under
// the fallback policy unresolved records stay in the overview at the fallback
// point but never form a region of their own.
package dashboard

import (
	"slices"
	"strings"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Overview is the selection label for the aggregate all-regions view.
const Overview = "All Regions (Overview)"

// Region is one selectable city in the region filter.
type Region struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Regions lists the cities resolved through the coordinate table, most
// candidates first. Ties keep the order in which the cities first appear.
func Regions(ds domain.Dataset) []Region {
	counts := make(map[string]int)
	var order []string
	for _, rec := range ds.Records {
		if rec.GeoSource != domain.GeoSourceTable {
			continue
		}
		if _, seen := counts[rec.CleanCity]; !seen {
			order = append(order, rec.CleanCity)
		}
		counts[rec.CleanCity]++
	}

	title := cases.Title(language.Und)
	regions := make([]Region, len(order))
	for i, key := range order {
		regions[i] = Region{Key: key, Label: title.String(key), Count: counts[key]}
	}
	slices.SortStableFunc(regions, func(a, b Region) int { return b.Count - a.Count })
	return regions
}

// Filter returns the active subset for a selection. An empty selection or
// Overview yields every map-eligible record; anything else is matched
// case-insensitively against clean city keys of table-resolved records.
func Filter(ds domain.Dataset, selection string) []domain.CanonicalRecord {
	key, overview := selectionKey(selection)

	var out []domain.CanonicalRecord
	for _, rec := range ds.Records {
		if !rec.Mappable() {
			continue
		}
		if overview || (rec.GeoSource == domain.GeoSourceTable && rec.CleanCity == key) {
			out = append(out, rec)
		}
	}
	return out
}

// SelectionLabel returns the display label for a selection: Overview or the
// title-cased city.
func SelectionLabel(selection string) string {
	key, overview := selectionKey(selection)
	if overview {
		return Overview
	}
	return cases.Title(language.Und).String(key)
}

func selectionKey(selection string) (string, bool) {
	s := strings.TrimSpace(selection)
	if s == "" || s == Overview {
		return "", true
	}
	return strings.ToLower(s), false
}
