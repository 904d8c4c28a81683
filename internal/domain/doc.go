// Package domain models candidate records exported from recruitment sources.
//
// # Data Source
//
// Candidate lists arrive as CSV or XLSX exports from lead forms, job boards and
// hand-maintained spreadsheets. Each source names its columns differently and
// stores the candidate's city as free text. One uploaded file is one
// [RawTable]; the ingest pipeline turns a batch of them into a [Dataset].
//
// # Column Conventions
//
// Header variants are reconciled through a static alias table
// ([ColumnAliases]) onto the canonical fields:
//
//	Name   ← full_name, name, Name, Candidate Name
//	City   ← city, City, location
//	Role   ← what's_your_current_designation?, Designation, current_designation
//	Phone  ← phone, phone_number, Contact no`
//
// Optional fields (Experience, Years_Exp, Status) are renamed when present and
// never back-filled. Required fields missing from a source are set to the
// sentinel "Unknown". Unrecognized columns pass through untouched.
//
// # City Conventions
//
// City values look like "Gorakhpur, UP", "Nagpur District", "Vizag (AP)" or
// "Pune - Hinjewadi". [CleanCityName] lowercases, keeps the text before the
// first ',', '(' or '-', and strips the " district" and " city" qualifiers:
//
//	"Gorakhpur, UP"   →  "gorakhpur"
//	"Nagpur District" →  "nagpur"
//	""                →  null (no city)
//
// The clean key is looked up exactly in a hand-curated coordinate table
// ([LookupCity]). There is no fuzzy matching: a key with no entry is
// unresolved, and the [Policy] decides whether such records are dropped from
// the map or plotted at a fallback coordinate.
//
// # Degradation
//
// Nothing in this package returns an error for dirty data. Missing fields get
// the sentinel, unresolved cities get the policy outcome, and the record is
// kept either way.
package domain
