// Package models defines the data structures shared by the reader, writer and mapper.
package models

// Cell is one stored cell of a physical row.
type Cell struct {
	// Ref is the cell reference (e.g. "B7"); empty when the producer omitted it.
	Ref string `json:"r,omitempty"`
	// Type is the raw type tag (t attribute); empty when absent.
	Type string `json:"t,omitempty"`
	// Style is the style index (s attribute); nil when absent.
	Style *int `json:"s,omitempty"`
	// Value is the raw text payload. Inline strings are flattened into it.
	Value string `json:"v"`
}

// Row is a physical row: only the cells the producer stored, in document order.
type Row struct {
	// Number is the 1-based row number from the r attribute, 0 if absent.
	Number int `json:"r,omitempty"`
	// Cells holds the stored cells; their columns are strictly increasing.
	Cells []Cell `json:"c"`
}
