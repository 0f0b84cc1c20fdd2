// Package celltype classifies values into spreadsheet cell types and infers
// semantic types back from cell type tags and number formats.
package celltype

import (
	"reflect"
	"time"
)

// CellType is the type tag stored in a cell's t attribute.
type CellType string

const (
	// String is an inline string value (t="str").
	String CellType = "str"
	// SharedString is an index into the shared string table (t="s").
	SharedString CellType = "s"
	// InlineString is rich inline text (t="inlineStr").
	InlineString CellType = "inlineStr"
	// Number is a numeric value (t="n").
	Number CellType = "n"
	// Boolean is 1 or 0 (t="b").
	Boolean CellType = "b"
	// Date is an ISO 8601 date (t="d").
	Date CellType = "d"
	// Error is an error literal such as #N/A (t="e").
	Error CellType = "e"
)

// Family is the semantic type a cell value belongs to.
type Family int

const (
	// Unknown means neither a type tag nor a number format identified the cell.
	Unknown Family = iota
	Text
	Integer
	Decimal
	Bool
	DateTime
)

func (f Family) String() string {
	switch f {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Bool:
		return "boolean"
	case DateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Default returns the value used for a column of this family when a row has
// no usable cell for it. Unknown behaves like Text.
func (f Family) Default() any {
	switch f {
	case Integer:
		return int64(0)
	case Decimal:
		return float64(0)
	case Bool:
		return false
	case DateTime:
		return time.Time{}
	default:
		return ""
	}
}

// Specific reports whether f carries more information than plain text.
func (f Family) Specific() bool {
	return f != Unknown && f != Text
}

// Classification is how a value of some static type is written.
type Classification struct {
	Type  CellType
	Style int
}

var timeType = reflect.TypeOf(time.Time{})

// kindTypes maps reflect kinds to cell types. Read-only after init.
var kindTypes = map[reflect.Kind]CellType{
	reflect.String:  String,
	reflect.Bool:    Boolean,
	reflect.Int:     Number,
	reflect.Int8:    Number,
	reflect.Int16:   Number,
	reflect.Int32:   Number,
	reflect.Int64:   Number,
	reflect.Uint:    Number,
	reflect.Uint8:   Number,
	reflect.Uint16:  Number,
	reflect.Uint32:  Number,
	reflect.Uint64:  Number,
	reflect.Float32: Number,
	reflect.Float64: Number,
}

// Classify maps a static Go type to the cell type and style used to write it.
// Pointers are classified by their element type; time.Time is a number with
// the date style. Anything unrecognized, including a nil type, is a string.
func Classify(t reflect.Type) Classification {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return Classification{Type: String, Style: GeneralStyle}
	}
	if IsTime(t) {
		return Classification{Type: Number, Style: DateStyle}
	}
	if ct, ok := kindTypes[t.Kind()]; ok {
		return Classification{Type: ct, Style: GeneralStyle}
	}
	return Classification{Type: String, Style: GeneralStyle}
}

// IsTime reports whether values of t are written as dates: time.Time itself
// or a struct type defined on it.
func IsTime(t reflect.Type) bool {
	return t == timeType || t.Kind() == reflect.Struct && t.ConvertibleTo(timeType)
}

// FamilyForTag maps an explicit cell type tag to a family. Numbers are
// decimals unless a number format says otherwise.
func FamilyForTag(t CellType) Family {
	switch t {
	case String, SharedString, InlineString, Error:
		return Text
	case Number:
		return Decimal
	case Boolean:
		return Bool
	case Date:
		return DateTime
	default:
		return Unknown
	}
}

// Built-in number format ids by family. Read-only after init.
var formatFamilies = func() map[int]Family {
	m := make(map[int]Family)
	for _, id := range []int{14, 15, 16, 17, 18, 19, 20, 21, 22, 45, 46, 47, 165, 166} {
		m[id] = DateTime
	}
	for _, id := range []int{1, 3, 9, 37, 38} {
		m[id] = Integer
	}
	for _, id := range []int{2, 4, 10, 11, 39, 40, 48} {
		m[id] = Decimal
	}
	return m
}()

// FamilyForFormat returns the family of a built-in number format id. ok is
// false for general, text and unrecognized ids.
func FamilyForFormat(formatID int) (Family, bool) {
	f, ok := formatFamilies[formatID]
	return f, ok
}
