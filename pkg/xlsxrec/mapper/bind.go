package mapper

import (
	"fmt"
	"reflect"

	"golang.org/x/text/cases"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// FieldIssue records a field that kept its default because its value could
// not be coerced or stored.
type FieldIssue struct {
	Field string
	Value any
	Err   error
}

func (i FieldIssue) Error() string {
	return fmt.Sprintf("field %q: %v", i.Field, i.Err)
}

func (i FieldIssue) Unwrap() error { return i.Err }

// BindDynamic copies every name→value pair of row into a new open record.
func BindDynamic(row *models.Record) *models.Record {
	out := models.NewRecord(row.Len())
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		out.Set(k, v)
	}
	return out
}

// Bind assigns row values to the fields of dst, matching names
// case-insensitively. The first column wins when several fold to the same
// name. Unmatched fields are left alone and unmatched columns are ignored. A
// field whose value cannot be coerced is reset to its zero value and
// reported; binding always continues with the next field.
func Bind(row *models.Record, dst models.Shape) []FieldIssue {
	fold := cases.Fold()
	columns := make(map[string]string, row.Len())
	for _, k := range row.Keys() {
		key := fold.String(k)
		if _, dup := columns[key]; !dup {
			columns[key] = k
		}
	}

	var issues []FieldIssue
	for _, f := range dst.Fields() {
		col, ok := columns[fold.String(f.Name)]
		if !ok {
			continue
		}
		v, _ := row.Get(col)
		coerced, err := Coerce(v, f.Type)
		if err == nil {
			err = f.Set(coerced)
		}
		if err != nil {
			if f.Type != nil {
				_ = f.Set(reflect.Zero(f.Type).Interface())
			}
			issues = append(issues, FieldIssue{Field: f.Name, Value: v, Err: err})
		}
	}
	return issues
}

// BindTyped builds a T from row. T may be a struct, a pointer to a struct,
// *models.Record or map[string]any; the latter two receive every column.
func BindTyped[T any](row *models.Record) (T, []FieldIssue) {
	var out T
	switch p := any(&out).(type) {
	case **models.Record:
		*p = BindDynamic(row)
		return out, nil
	case *map[string]any:
		m := make(map[string]any, row.Len())
		for _, k := range row.Keys() {
			m[k], _ = row.Get(k)
		}
		*p = m
		return out, nil
	}

	target := reflect.ValueOf(&out).Elem()
	if target.Kind() == reflect.Pointer {
		target.Set(reflect.New(target.Type().Elem()))
		target = target.Elem()
	}
	shape, err := ShapeOf(target.Addr().Interface())
	if err != nil {
		return out, []FieldIssue{{Err: err}}
	}
	return out, Bind(row, shape)
}

// TypeFields returns the field names of T in declaration order, or nil when
// T has no fixed shape.
func TypeFields[T any]() []string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	fields := structFields(t)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}
