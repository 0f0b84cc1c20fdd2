package models

// SheetRecords is one named collection handed to the writer.
type SheetRecords struct {
	// Name is the sheet name; it must be non-empty and unique in the workbook.
	Name string
	// Records are written one per row. A nil slice produces an empty sheet.
	Records []any
}

// SheetData is one sheet read back as open records.
type SheetData struct {
	// Name is the sheet name as stored in the workbook part.
	Name string `json:"name"`
	// Header holds the column names in column order.
	Header []string `json:"header"`
	// Records holds one record per physical row after the header.
	Records []*Record `json:"records"`
	// Missing is set when the workbook lists the sheet but its part is absent.
	Missing bool `json:"missing,omitempty"`
}

// SheetSummary describes a sheet of an inspected workbook.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows is the number of rows up to the last non-empty one.
	Rows int `json:"rows"`
	// Columns is the width of the widest row.
	Columns int `json:"columns"`
	// DataRange is the range likely holding the table (e.g. "A1:D10").
	DataRange string `json:"data_range,omitempty"`
	// Header holds the texts of the first row of DataRange.
	Header []string `json:"header,omitempty"`
	// PrintAreas lists the sheet's print areas (e.g. "A1:D10").
	PrintAreas []string `json:"print_areas,omitempty"`
}
