package writer

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/mapper"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

var (
	// ErrEmptySheetName indicates a sheet without a name.
	ErrEmptySheetName = errors.New("sheet name is empty")
	// ErrDuplicateSheetName indicates two sheets whose names differ only in case, if at all.
	ErrDuplicateSheetName = errors.New("duplicate sheet name")
	// ErrInvalidSheetName indicates a name that is too long or holds a reserved character.
	ErrInvalidSheetName = errors.New("invalid sheet name")
	// ErrShapeMismatch indicates a record whose fields differ from the first record of its sheet.
	ErrShapeMismatch = errors.New("record fields differ from the first record")
)

// ValidationError reports why a workbook cannot be written. Record is the
// index of the offending record in its collection, or -1 when the sheet
// itself is at fault.
type ValidationError struct {
	Sheet  string
	Record int
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("validation error in sheet %q: %v", e.Sheet, e.Err)
	}
	return fmt.Sprintf("validation error in sheet %q (record %d): %v", e.Sheet, e.Record, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(sheet string, record int, err error) *ValidationError {
	return &ValidationError{
		Sheet:  sheet,
		Record: record,
		Err:    err,
	}
}

// sheetPlan is a validated sheet: its header and the shapes of the records
// that produce rows.
type sheetPlan struct {
	name   string
	header []string
	rows   []models.Shape
}

// plan validates every sheet and record shape. Nothing is written when it
// fails.
func plan(sheets []models.SheetRecords) ([]sheetPlan, error) {
	fold := cases.Fold()
	seen := make(map[string]bool, len(sheets))
	plans := make([]sheetPlan, 0, len(sheets))
	for _, s := range sheets {
		if err := checkSheetName(s.Name); err != nil {
			return nil, NewValidationError(s.Name, -1, err)
		}
		key := fold.String(s.Name)
		if seen[key] {
			return nil, NewValidationError(s.Name, -1, ErrDuplicateSheetName)
		}
		seen[key] = true

		p := sheetPlan{name: s.Name}
		for i, record := range s.Records {
			if isNil(record) {
				continue
			}
			shape, err := mapper.ShapeOf(record)
			if err != nil {
				return nil, NewValidationError(s.Name, i, err)
			}
			names := mapper.FieldNames(shape)
			if len(names) == 0 {
				continue
			}
			if p.header == nil {
				p.header = names
			} else if !slices.Equal(p.header, names) {
				return nil, NewValidationError(s.Name, i,
					fmt.Errorf("%w: got %v, expected %v", ErrShapeMismatch, names, p.header))
			}
			p.rows = append(p.rows, shape)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func checkSheetName(name string) error {
	if name == "" {
		return ErrEmptySheetName
	}
	n := 0
	for _, r := range name {
		n += utf16.RuneLen(r)
	}
	if n > excelize.MaxSheetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSheetName, excelize.MaxSheetNameLength)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("%w: %q contains one of :\\/?*[]", ErrInvalidSheetName, name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: %q starts or ends with a quote", ErrInvalidSheetName, name)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
