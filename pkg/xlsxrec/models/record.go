package models

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Record is an open name→value mapping that remembers insertion order.
// The zero value is ready to use.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record with room for n fields.
func NewRecord(n int) *Record {
	return &Record{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set stores v under name. A new name is appended; an existing one keeps its position.
func (r *Record) Set(name string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Values returns the values in insertion order.
func (r *Record) Values() []any {
	if r == nil {
		return nil
	}
	out := make([]any, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// Fields implements Shape. A field's type is the dynamic type of its current
// value, nil for a nil value; setting replaces the value as-is.
func (r *Record) Fields() []Field {
	fields := make([]Field, len(r.keys))
	for i, k := range r.keys {
		name := k
		v := r.values[k]
		var typ reflect.Type
		if v != nil {
			typ = reflect.TypeOf(v)
		}
		fields[i] = Field{
			Name: name,
			Type: typ,
			Get:  func() any { return r.values[name] },
			Set: func(v any) error {
				r.values[name] = v
				return nil
			},
		}
	}
	return fields
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
