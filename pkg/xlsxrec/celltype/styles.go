package celltype

import "strings"

const (
	// GeneralStyle is the style index of the general format.
	GeneralStyle = 0
	// DateStyle is the style index of the date format in written packages.
	DateStyle = 1
	// DateFormatID is the built-in number format used by DateStyle (d-mmm-yy).
	DateFormatID = 15
	// firstCustomFormatID is where package-defined number formats start.
	firstCustomFormatID = 164
)

// CellFormat is one entry of a package's cellXfs table.
type CellFormat struct {
	Index    int
	FormatID int
	// FormatCode is set when the package defines FormatID in numFmts.
	FormatCode string
}

// StyleTable is the ordered list of cell formats a cell's s attribute refers to.
type StyleTable struct {
	formats []CellFormat
}

// NewStyleTable builds a table from formats; entry indexes are reassigned to
// their positions.
func NewStyleTable(formats []CellFormat) *StyleTable {
	st := &StyleTable{formats: make([]CellFormat, len(formats))}
	for i, f := range formats {
		f.Index = i
		st.formats[i] = f
	}
	return st
}

// DefaultStyleTable is the table every written package carries: general at
// GeneralStyle and a date format at DateStyle.
func DefaultStyleTable() *StyleTable {
	return NewStyleTable([]CellFormat{
		{FormatID: 0},
		{FormatID: DateFormatID},
	})
}

// Len returns the number of entries.
func (s *StyleTable) Len() int {
	if s == nil {
		return 0
	}
	return len(s.formats)
}

// Formats returns a copy of the entries in index order.
func (s *StyleTable) Formats() []CellFormat {
	if s == nil {
		return nil
	}
	return append([]CellFormat(nil), s.formats...)
}

// Format returns the entry at index.
func (s *StyleTable) Format(index int) (CellFormat, bool) {
	if s == nil || index < 0 || index >= len(s.formats) {
		return CellFormat{}, false
	}
	return s.formats[index], true
}

// Family infers the semantic family of cells using the style at index.
func (s *StyleTable) Family(index int) (Family, bool) {
	f, ok := s.Format(index)
	if !ok {
		return Unknown, false
	}
	if f.FormatCode != "" && f.FormatID >= firstCustomFormatID {
		return FamilyForFormatCode(f.FormatCode)
	}
	return FamilyForFormat(f.FormatID)
}

// FamilyForFormatCode classifies a custom number format code. Quoted
// literals, escaped characters, bracketed sections ([Red], [$-409]) and
// everything after the first section separator are ignored.
func FamilyForFormatCode(code string) (Family, bool) {
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == '[':
			if j := strings.IndexByte(code[i:], ']'); j >= 0 {
				// elapsed-time sections such as [h] are still time tokens
				inner := strings.ToLower(code[i+1 : i+j])
				if inner == "h" || inner == "hh" || inner == "m" || inner == "mm" || inner == "s" || inner == "ss" {
					b.WriteByte('h')
				}
				i += j
			}
		case c == ';':
			i = len(code)
		default:
			b.WriteByte(c)
		}
	}
	stripped := strings.ToLower(b.String())
	if stripped == "" || stripped == "general" || stripped == "@" {
		return Unknown, false
	}
	if strings.ContainsAny(stripped, "ymdhs") {
		return DateTime, true
	}
	if !strings.ContainsAny(stripped, "0#?") {
		return Unknown, false
	}
	if strings.Contains(stripped, ".") || strings.Contains(stripped, "e+") || strings.Contains(stripped, "/") {
		return Decimal, true
	}
	return Integer, true
}
