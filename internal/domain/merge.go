package domain

import (
	"maps"
	"slices"
	"strconv"
)

// MergeSources concatenates normalized tables in file order, then row order,
// stamping each record with its table's label as Source. labels[i] belongs to
// tables[i]; a missing label leaves Source empty. Duplicates across files are
// kept. Columns is the union of the tables' columns in order of first
// appearance.
func MergeSources(tables []CanonicalTable, labels []string) Dataset {
	total := 0
	for _, t := range tables {
		total += len(t.Records)
	}

	ds := Dataset{
		Records: make([]CanonicalRecord, 0, total),
		Sources: make([]string, 0, len(tables)),
		BuiltAt: clock.Now().UTC(),
	}
	seen := make(map[string]bool)
	addColumn := func(c string) {
		if !seen[c] {
			seen[c] = true
			ds.Columns = append(ds.Columns, c)
		}
	}

	for i, t := range tables {
		var label string
		if i < len(labels) {
			label = labels[i]
		}
		ds.Sources = append(ds.Sources, label)

		for _, c := range t.Columns {
			addColumn(c)
		}
		addColumn(FieldSource)

		for _, rec := range t.Records {
			rec.Fields = maps.Clone(rec.Fields)
			if rec.Fields == nil {
				rec.Fields = make(map[string]string, 1)
			}
			rec.Fields[FieldSource] = label
			ds.Records = append(ds.Records, rec)
		}
	}

	return ds
}

// Geocode cleans every record's City value and attaches coordinates using r.
// It returns a new Dataset; ds is not modified.
func Geocode(ds Dataset, r Resolver) Dataset {
	out := ds
	out.Records = make([]CanonicalRecord, len(ds.Records))
	out.Columns = append([]string(nil), ds.Columns...)
	for _, c := range []string{FieldCleanCity, FieldLat, FieldLon} {
		if !slices.Contains(out.Columns, c) {
			out.Columns = append(out.Columns, c)
		}
	}

	for i, rec := range ds.Records {
		out.Records[i] = GeocodeRecord(rec, r)
	}
	return out
}

// GeocodeRecord cleans a single record's City and resolves it.
func GeocodeRecord(rec CanonicalRecord, r Resolver) CanonicalRecord {
	clean, ok := CleanCityName(rec.City())
	res := r.Resolve(clean, ok)

	rec.CleanCity = clean
	rec.HasCleanCity = ok
	rec.Geo = res.Geo
	rec.GeoSource = res.Source
	return rec
}

// Value returns the cell for column as it appears in exports. Clean_City,
// Lat and Lon come from geocoding; unresolved coordinates are empty.
func (r CanonicalRecord) Value(column string) string {
	switch column {
	case FieldCleanCity:
		return r.CleanCity
	case FieldLat:
		if r.Geo == nil {
			return ""
		}
		return strconv.FormatFloat(r.Geo.Lat, 'f', -1, 64)
	case FieldLon:
		if r.Geo == nil {
			return ""
		}
		return strconv.FormatFloat(r.Geo.Lon, 'f', -1, 64)
	default:
		return r.Fields[column]
	}
}
