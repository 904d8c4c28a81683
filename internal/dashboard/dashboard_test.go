package dashboard_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/couchcryptid/recruit-map-etl/internal/dashboard"
	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(rows ...[3]string) domain.RawTable {
	table := domain.RawTable{Columns: []string{"name", "city", "Designation"}}
	for _, r := range rows {
		table.Records = append(table.Records, domain.RawRecord{"name": r[0], "city": r[1], "Designation": r[2]})
	}
	return table
}

func buildDataset(policy domain.Policy) domain.Dataset {
	a := candidates(
		[3]string{"A1", "Nagpur", "Sales Exec"},
		[3]string{"A2", "Nagpur District", "Cashier"},
		[3]string{"A3", "Pune", "Sales Exec"},
		[3]string{"A4", "Atlantis", "Manager"},
	)
	b := candidates(
		[3]string{"B1", "Gorakhpur, UP", "Cashier"},
		[3]string{"B2", "nagpur city", "Cashier"},
		[3]string{"B3", "Pune (MH)", ""},
	)
	merged := domain.MergeSources(
		[]domain.CanonicalTable{domain.NormalizeColumns(a), domain.NormalizeColumns(b)},
		[]string{"a.csv", "b.xlsx"},
	)
	return domain.Geocode(merged, domain.NewResolver(policy, domain.DefaultFallback))
}

func names(records []domain.CanonicalRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name()
	}
	return out
}

func TestRegions(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	want := []dashboard.Region{
		{Key: "nagpur", Label: "Nagpur", Count: 3},
		{Key: "pune", Label: "Pune", Count: 2},
		{Key: "gorakhpur", Label: "Gorakhpur", Count: 1},
	}
	if diff := cmp.Diff(want, dashboard.Regions(ds)); diff != "" {
		t.Errorf("Regions() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegions_FallbackRecordsAreNotARegion(t *testing.T) {
	ds := buildDataset(domain.PolicyFallback)

	for _, r := range dashboard.Regions(ds) {
		assert.NotEqual(t, "atlantis", r.Key)
	}
	assert.Len(t, dashboard.Regions(ds), 3)
}

func TestRegions_Empty(t *testing.T) {
	assert.Empty(t, dashboard.Regions(domain.Dataset{}))
}

func TestFilter(t *testing.T) {
	t.Run("overview drops unresolved under drop policy", func(t *testing.T) {
		ds := buildDataset(domain.PolicyDrop)
		assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, names(dashboard.Filter(ds, dashboard.Overview)))
		assert.Equal(t, names(dashboard.Filter(ds, dashboard.Overview)), names(dashboard.Filter(ds, "")))
	})

	t.Run("overview keeps fallback records", func(t *testing.T) {
		ds := buildDataset(domain.PolicyFallback)
		assert.Len(t, dashboard.Filter(ds, dashboard.Overview), 7)
	})

	t.Run("single city is case insensitive", func(t *testing.T) {
		ds := buildDataset(domain.PolicyDrop)
		assert.Equal(t, []string{"A1", "A2", "B2"}, names(dashboard.Filter(ds, "Nagpur")))
		assert.Equal(t, []string{"A1", "A2", "B2"}, names(dashboard.Filter(ds, "nagpur")))
	})

	t.Run("fallback city never matches", func(t *testing.T) {
		ds := buildDataset(domain.PolicyFallback)
		assert.Empty(t, dashboard.Filter(ds, "Atlantis"))
	})

	t.Run("unknown selection", func(t *testing.T) {
		ds := buildDataset(domain.PolicyDrop)
		assert.Empty(t, dashboard.Filter(ds, "Chennai"))
	})
}

func TestSummarize(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	got := dashboard.Summarize(ds, "", dashboard.Filter(ds, ""))
	want := dashboard.Summary{
		Selection:   dashboard.Overview,
		Total:       6,
		Locations:   3,
		PrimaryRole: "Cashier",
		Sources:     2,
		FilesMerged: 2,
		Roles: []dashboard.RoleCount{
			{Role: "Cashier", Count: 3},
			{Role: "Sales Exec", Count: 2},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_FallbackCountsResolvedLocations(t *testing.T) {
	ds := buildDataset(domain.PolicyFallback)

	got := dashboard.Summarize(ds, "", dashboard.Filter(ds, ""))
	assert.Equal(t, 7, got.Total)
	assert.Equal(t, 3, got.Locations)
	assert.Equal(t, "Cashier", got.PrimaryRole)
	assert.Equal(t, 2, got.Sources)
	assert.Contains(t, got.Roles, dashboard.RoleCount{Role: "Manager", Count: 1})
}

func TestSummarize_SingleCity(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	got := dashboard.Summarize(ds, "pune", dashboard.Filter(ds, "pune"))
	assert.Equal(t, "Pune", got.Selection)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Locations)
	assert.Equal(t, "Sales Exec", got.PrimaryRole)
	assert.Equal(t, 2, got.Sources)
	assert.Equal(t, []dashboard.RoleCount{{Role: "Sales Exec", Count: 1}}, got.Roles)
}

func TestSummarize_PrimaryRole(t *testing.T) {
	rec := func(role string) domain.CanonicalRecord {
		return domain.CanonicalRecord{Fields: map[string]string{domain.FieldRole: role}}
	}

	tests := []struct {
		name    string
		records []domain.CanonicalRecord
		want    string
	}{
		{"no records", nil, "N/A"},
		{"only empty roles", []domain.CanonicalRecord{rec(""), rec("")}, "N/A"},
		{"tie goes to smallest", []domain.CanonicalRecord{rec("Tailor"), rec("Cashier"), rec("Tailor"), rec("Cashier")}, "Cashier"},
		{"truncated", []domain.CanonicalRecord{rec("Senior Relationship Manager")}, "Senior Relationship "},
		{"truncates runes", []domain.CanonicalRecord{rec("आभूषण विक्रेता प्रबंधक वरिष्ठ")}, string([]rune("आभूषण विक्रेता प्रबंधक वरिष्ठ")[:20])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dashboard.Summarize(domain.Dataset{}, "", tt.records)
			assert.Equal(t, tt.want, got.PrimaryRole)
		})
	}
}

func TestSummarize_RoleBreakdownTopEight(t *testing.T) {
	var records []domain.CanonicalRecord
	for i, role := range []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8", "r9", "r10"} {
		for range i + 1 {
			records = append(records, domain.CanonicalRecord{Fields: map[string]string{domain.FieldRole: role}})
		}
	}

	got := dashboard.Summarize(domain.Dataset{}, "", records)
	require.Len(t, got.Roles, 8)
	assert.Equal(t, dashboard.RoleCount{Role: "r10", Count: 10}, got.Roles[0])
	assert.Equal(t, dashboard.RoleCount{Role: "r3", Count: 3}, got.Roles[7])
	assert.Equal(t, "r10", got.PrimaryRole)
}

func TestBuildMarkerView(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)
	center := domain.Geo{Lat: 21.7679, Lon: 78.8718}

	view, err := dashboard.BuildMarkerView(dashboard.Filter(ds, ""), center, 4)
	require.NoError(t, err)

	assert.Equal(t, center, view.Center)
	assert.Equal(t, 4, view.Resolution)
	assert.Equal(t, 6, view.Total)
	require.Len(t, view.Clusters, 3)

	nagpur := view.Clusters[0]
	assert.Equal(t, 3, nagpur.Count)
	assert.InDelta(t, 21.1458, nagpur.Center.Lat, 1e-9)
	assert.InDelta(t, 79.0882, nagpur.Center.Lon, 1e-9)
	assert.NotEmpty(t, nagpur.Cell)
	assert.Equal(t, dashboard.Marker{
		Name: "A1", Role: "Sales Exec", City: "Nagpur", Source: "a.csv", Lat: 21.1458, Lon: 79.0882,
	}, nagpur.Markers[0])

	assert.Equal(t, 2, view.Clusters[1].Count)
	assert.Equal(t, 1, view.Clusters[2].Count)
}

func TestBuildMarkerView_CoarseResolution(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	view, err := dashboard.BuildMarkerView(dashboard.Filter(ds, ""), domain.Geo{}, 0)
	require.NoError(t, err)

	total := 0
	for _, c := range view.Clusters {
		total += c.Count
	}
	assert.Equal(t, 6, total)
	assert.LessOrEqual(t, len(view.Clusters), 3)
}

func TestBuildMarkerView_Empty(t *testing.T) {
	view, err := dashboard.BuildMarkerView(nil, domain.Geo{}, 4)
	require.NoError(t, err)
	assert.NotNil(t, view.Clusters)
	assert.Zero(t, view.Total)
}

func TestBuildMarkerView_InvalidResolution(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)
	_, err := dashboard.BuildMarkerView(dashboard.Filter(ds, ""), domain.Geo{}, 16)
	require.Error(t, err)
}

func TestMarkers_SkipsUnmappable(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)
	assert.Len(t, dashboard.Markers(ds.Records), 6)
}

func TestRoster(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	rows := dashboard.Roster(dashboard.Filter(ds, "Gorakhpur"))
	assert.Equal(t, []dashboard.RosterRow{
		{Name: "B1", Role: "Cashier", Phone: domain.Unknown, City: "Gorakhpur, UP", Source: "b.xlsx"},
	}, rows)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "All Regions (Overview)_data.csv", dashboard.ExportFilename(""))
	assert.Equal(t, "All Regions (Overview)_data.csv", dashboard.ExportFilename(dashboard.Overview))
	assert.Equal(t, "Nagpur_data.csv", dashboard.ExportFilename("nagpur"))
	assert.Equal(t, "Tiruchirappalli_data.csv", dashboard.ExportFilename("TIRUCHIRAPPALLI"))
}

func TestWriteCSV(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	var buf bytes.Buffer
	require.NoError(t, dashboard.WriteCSV(&buf, ds, dashboard.Filter(ds, "gorakhpur")))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		{"Name", "City", "Role", "Phone", "Source", "Clean_City", "Lat", "Lon"},
		{"B1", "Gorakhpur, UP", "Cashier", "Unknown", "b.xlsx", "gorakhpur", "26.7606", "83.3732"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_UnresolvedCoordinatesAreEmpty(t *testing.T) {
	ds := buildDataset(domain.PolicyDrop)

	var buf bytes.Buffer
	require.NoError(t, dashboard.WriteCSV(&buf, ds, ds.Records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 8)
	atlantis := rows[4]
	assert.Equal(t, []string{"A4", "Atlantis", "Manager", "Unknown", "a.csv", "atlantis", "", ""}, atlantis)
}
