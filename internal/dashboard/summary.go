package dashboard

import (
	"slices"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
)

const (
	primaryRoleMaxRunes = 20
	roleBreakdownSize   = 8
	noRole              = "N/A"
)

// RoleCount is one slice of the role breakdown.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Summary holds the KPI strip for the active subset.
type Summary struct {
	Selection   string      `json:"selection"`
	Total       int         `json:"total"`
	Locations   int         `json:"locations"`
	PrimaryRole string      `json:"primary_role"`
	Sources     int         `json:"sources"`
	FilesMerged int         `json:"files_merged"`
	Roles       []RoleCount `json:"roles"`
}

// Summarize computes KPIs over records, the active subset of ds. Locations
// counts resolved cities only, so fallback-plotted records do not add to it.
func Summarize(ds domain.Dataset, selection string, records []domain.CanonicalRecord) Summary {
	cities := make(map[string]struct{})
	sources := make(map[string]struct{})
	for _, rec := range records {
		if rec.GeoSource == domain.GeoSourceTable {
			cities[rec.CleanCity] = struct{}{}
		}
		sources[rec.Source()] = struct{}{}
	}

	roles := roleCounts(records)
	return Summary{
		Selection:   SelectionLabel(selection),
		Total:       len(records),
		Locations:   len(cities),
		PrimaryRole: primaryRole(roles),
		Sources:     len(sources),
		FilesMerged: len(ds.Sources),
		Roles:       topRoles(roles, roleBreakdownSize),
	}
}

// roleCounts tallies non-empty roles in order of first appearance.
func roleCounts(records []domain.CanonicalRecord) []RoleCount {
	index := make(map[string]int)
	var counts []RoleCount
	for _, rec := range records {
		role := rec.Role()
		if role == "" {
			continue
		}
		i, ok := index[role]
		if !ok {
			i = len(counts)
			index[role] = i
			counts = append(counts, RoleCount{Role: role})
		}
		counts[i].Count++
	}
	return counts
}

// primaryRole is the most frequent role, ties going to the smallest value.
func primaryRole(counts []RoleCount) string {
	if len(counts) == 0 {
		return noRole
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count > best.Count || (c.Count == best.Count && c.Role < best.Role) {
			best = c
		}
	}
	return truncateRunes(best.Role, primaryRoleMaxRunes)
}

func topRoles(counts []RoleCount, n int) []RoleCount {
	sorted := slices.Clone(counts)
	slices.SortStableFunc(sorted, func(a, b RoleCount) int { return b.Count - a.Count })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
