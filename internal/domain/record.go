package domain

import "time"

// Canonical field names shared by every normalized record.
const (
	FieldName       = "Name"
	FieldCity       = "City"
	FieldRole       = "Role"
	FieldPhone      = "Phone"
	FieldExperience = "Experience"
	FieldYearsExp   = "Years_Exp"
	FieldStatus     = "Status"
	FieldSource     = "Source"
	FieldCleanCity  = "Clean_City"
	FieldLat        = "Lat"
	FieldLon        = "Lon"

	// Unknown is substituted for required fields absent from a source.
	Unknown = "Unknown"
)

// RequiredFields lists the canonical fields every record is guaranteed to carry.
var RequiredFields = []string{FieldName, FieldCity, FieldRole, FieldPhone}

// RawRecord is a single parsed row keyed by the source's own column headers.
// Empty cells are absent from the map.
type RawRecord map[string]string

// RawTable is one parsed source file. All rows share Columns.
type RawTable struct {
	Columns []string
	Records []RawRecord
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoSource values record how a record's coordinates were obtained.
const (
	GeoSourceTable      = "table"      // exact match in the city table
	GeoSourceFallback   = "fallback"   // unresolved, plotted at the fallback point
	GeoSourceUnresolved = "unresolved" // clean key has no table entry
	GeoSourceMissing    = "missing"    // no city value at all
)

// CanonicalRecord is the normalized form of a RawRecord.
type CanonicalRecord struct {
	// Fields holds canonical and passthrough values keyed by column name.
	Fields map[string]string

	// Geocoding enrichment, set by Geocode.
	CleanCity    string
	HasCleanCity bool
	Geo          *Geo // nil when no coordinate was assigned
	GeoSource    string
}

// Get returns the value stored under key.
func (r CanonicalRecord) Get(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Name, City, Role, Phone and Source return the canonical field of that name,
// or "" when the record does not carry it.
func (r CanonicalRecord) Name() string   { return r.Fields[FieldName] }
func (r CanonicalRecord) City() string   { return r.Fields[FieldCity] }
func (r CanonicalRecord) Role() string   { return r.Fields[FieldRole] }
func (r CanonicalRecord) Phone() string  { return r.Fields[FieldPhone] }
func (r CanonicalRecord) Source() string { return r.Fields[FieldSource] }

// Mappable reports whether the record has a coordinate to plot.
func (r CanonicalRecord) Mappable() bool { return r.Geo != nil }

// CanonicalTable is the normalized form of one RawTable.
type CanonicalTable struct {
	Columns []string
	Records []CanonicalRecord
}

// Dataset is the unified record set built from one upload batch, in
// file-then-row order.
type Dataset struct {
	Columns []string
	Records []CanonicalRecord
	Sources []string
	Notices []Notice
	BuiltAt time.Time
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }
