package models

import "golang.org/x/text/cases"

// Workbook is the result of reading a package: its sheets in workbook order.
type Workbook struct {
	Sheets []SheetData `json:"sheets"`
}

// Names returns the sheet names in workbook order.
func (w *Workbook) Names() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet whose name matches name case-insensitively.
func (w *Workbook) Sheet(name string) (*SheetData, bool) {
	fold := cases.Fold()
	want := fold.String(name)
	for i := range w.Sheets {
		if fold.String(w.Sheets[i].Name) == want {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

// WorkbookSummary is the result of inspecting a package.
type WorkbookSummary struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists the sheets in workbook order.
	Sheets []SheetSummary `json:"sheets"`
}
