// Package mapper binds logical rows to records and exposes the field shape of
// records for the writer.
package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// TagName is the struct tag that renames a field ("-" skips it).
const TagName = "xlsx"

// ErrUnsupportedRecord is returned for values that have no field shape.
var ErrUnsupportedRecord = errors.New("unsupported record type")

type structField struct {
	name  string
	index []int
	typ   reflect.Type
}

// shapes caches struct field lists per type.
var shapes sync.Map // reflect.Type -> []structField

func structFields(t reflect.Type) []structField {
	if cached, ok := shapes.Load(t); ok {
		return cached.([]structField)
	}
	var fields []structField
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous && isStruct(sf.Type) {
			continue
		}
		if throughPointer(t, sf.Index) {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, structField{name: name, index: sf.Index, typ: sf.Type})
	}
	actual, _ := shapes.LoadOrStore(t, fields)
	return actual.([]structField)
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// throughPointer reports whether a promoted field sits behind an embedded pointer.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}

type structShape struct {
	v      reflect.Value
	fields []structField
}

func (s structShape) Fields() []models.Field {
	out := make([]models.Field, len(s.fields))
	for i, f := range s.fields {
		fv := s.v.FieldByIndex(f.index)
		out[i] = models.Field{
			Name: f.name,
			Type: f.typ,
			Get:  func() any { return fv.Interface() },
			Set: func(v any) error {
				rv := reflect.ValueOf(v)
				if !rv.IsValid() {
					fv.SetZero()
					return nil
				}
				if !rv.Type().AssignableTo(fv.Type()) {
					return fmt.Errorf("cannot assign %s to %s", rv.Type(), fv.Type())
				}
				fv.Set(rv)
				return nil
			},
		}
	}
	return out
}

type mapShape struct {
	m    reflect.Value
	keys []string
}

func (s mapShape) Fields() []models.Field {
	out := make([]models.Field, len(s.keys))
	elem := s.m.Type().Elem()
	for i, k := range s.keys {
		key := reflect.ValueOf(k).Convert(s.m.Type().Key())
		var typ reflect.Type
		if v := s.m.MapIndex(key); v.IsValid() {
			if elem.Kind() == reflect.Interface {
				if !v.IsNil() {
					typ = v.Elem().Type()
				}
			} else {
				typ = elem
			}
		}
		out[i] = models.Field{
			Name: k,
			Type: typ,
			Get: func() any {
				v := s.m.MapIndex(key)
				if !v.IsValid() {
					return nil
				}
				return v.Interface()
			},
			Set: func(v any) error {
				rv := reflect.ValueOf(v)
				if !rv.IsValid() {
					rv = reflect.Zero(elem)
				}
				if !rv.Type().AssignableTo(elem) {
					return fmt.Errorf("cannot assign %s to %s", rv.Type(), elem)
				}
				s.m.SetMapIndex(key, rv)
				return nil
			},
		}
	}
	return out
}

// ShapeOf returns the field shape of a record. Values implementing
// models.Shape are used directly; structs and pointers to structs expose
// their exported fields; maps with string keys expose their keys in sorted
// order. A non-pointer struct is copied, so setting its fields does not
// affect the caller's value.
func ShapeOf(record any) (models.Shape, error) {
	if s, ok := record.(models.Shape); ok {
		return s, nil
	}
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrUnsupportedRecord, v.Type())
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		if !v.CanAddr() {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			v = p.Elem()
		}
		return structShape{v: v, fields: structFields(v.Type())}, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedRecord, v.Type())
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return mapShape{m: v, keys: keys}, nil
	case reflect.Invalid:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedRecord)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRecord, v.Type())
	}
}

// FieldNames returns the names of a shape's fields in order.
func FieldNames(s models.Shape) []string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
