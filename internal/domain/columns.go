package domain

// ColumnAliases maps source-specific headers onto canonical field names.
// Matching is exact: header variants differ in case and punctuation between
// sources and each known variant is listed explicitly.
var ColumnAliases = map[string]string{
	"full_name":      FieldName,
	"name":           FieldName,
	"Name":           FieldName,
	"Candidate Name": FieldName,

	"city":     FieldCity,
	"City":     FieldCity,
	"location": FieldCity,

	"what's_your_current_designation?": FieldRole,
	"Designation":                      FieldRole,
	"current_designation":              FieldRole,

	"phone":        FieldPhone,
	"phone_number": FieldPhone,
	"Contact no`":  FieldPhone,

	"do_you_have_an_experience_in_jewelry_industry?":                FieldExperience,
	"do_you_have_an_experience_in_jewelry_industry_?":               FieldExperience,
	"how_many_years_of_experience_do_you_have_in_jewelry_industry?": FieldYearsExp,

	"lead_status": FieldStatus,
}

// NormalizeColumns renames a table's columns onto the canonical schema and
// back-fills missing required fields with Unknown. The input is not modified.
//
// When several headers map to the same canonical name, the first one in
// header order takes it and the later ones keep their original header.
// A header that collides with an already claimed name is dropped.
func NormalizeColumns(table RawTable) CanonicalTable {
	type mapping struct{ from, to string }

	claimed := make(map[string]bool, len(table.Columns)+len(RequiredFields))
	mappings := make([]mapping, 0, len(table.Columns))
	columns := make([]string, 0, len(table.Columns)+len(RequiredFields))

	for _, header := range table.Columns {
		target := header
		if alias, ok := ColumnAliases[header]; ok && !claimed[alias] {
			target = alias
		}
		if claimed[target] {
			continue
		}
		claimed[target] = true
		mappings = append(mappings, mapping{from: header, to: target})
		columns = append(columns, target)
	}

	var missing []string
	for _, field := range RequiredFields {
		if !claimed[field] {
			missing = append(missing, field)
			columns = append(columns, field)
		}
	}

	records := make([]CanonicalRecord, len(table.Records))
	for i, raw := range table.Records {
		fields := make(map[string]string, len(columns))
		for _, m := range mappings {
			fields[m.to] = raw[m.from]
		}
		for _, field := range missing {
			fields[field] = Unknown
		}
		records[i] = CanonicalRecord{Fields: fields}
	}

	return CanonicalTable{Columns: columns, Records: records}
}
