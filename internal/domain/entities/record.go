// Package entities contains core domain data structures.
package entities

// Group is the validity class of a named character reference.
type Group string

const (
	// GroupBase holds legacy references usable without the trailing terminator (e.g. "&amp").
	GroupBase Group = "base"
	// GroupFull holds references that require the trailing terminator (e.g. "&amp;").
	GroupFull Group = "full"
)

// Reference markers in raw definition keys.
const (
	Marker     = "&"
	Terminator = ";"
)

// Codepoint limits for a single reference.
const (
	MinCodepoints = 1
	MaxCodepoints = 2
)

// Unindexed is the CodeIndex of a record that has not been through the indexer.
const Unindexed = -1

// IsValid reports whether g is one of the known groups.
func (g Group) IsValid() bool {
	return g == GroupBase || g == GroupFull
}

// RawReference is one value of the upstream definition mapping, keyed by its
// marked name ("&acute" or "&acute;").
type RawReference struct {
	Codepoints []int  `json:"codepoints"`
	Characters string `json:"characters,omitempty"`
}

// Record is a single named character reference after classification.
type Record struct {
	Name       string `json:"name"`
	Codepoints []rune `json:"codepoints"`
	Group      Group  `json:"group"`
	// CodeIndex is the rank of the record in its group's codepoint order.
	CodeIndex int `json:"code_index"`
}

// NewRecord returns an unindexed record.
func NewRecord(name string, group Group, codepoints ...rune) *Record {
	return &Record{
		Name:       name,
		Codepoints: codepoints,
		Group:      group,
		CodeIndex:  Unindexed,
	}
}

// Indexed reports whether the indexer has stamped the record.
func (r *Record) Indexed() bool {
	return r.CodeIndex >= 0
}

// Table is one group's records in name order.
type Table struct {
	Group   Group
	Records []*Record
}

// Len returns the number of records in the table.
func (t Table) Len() int {
	return len(t.Records)
}

// Tables holds the compiled output for both groups.
type Tables struct {
	Base Table
	Full Table
}

// Each calls fn for the full table and then the base table.
func (t *Tables) Each(fn func(Table) error) error {
	if err := fn(t.Full); err != nil {
		return err
	}
	return fn(t.Base)
}
