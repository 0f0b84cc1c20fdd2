package models

import "reflect"

// Field is one named, typed slot of a record.
type Field struct {
	// Name is the column name the field binds to.
	Name string
	// Type is the declared type; nil when unknown (e.g. a nil value in an open record).
	Type reflect.Type
	// Get returns the current value.
	Get func() any
	// Set stores a value already coerced to Type.
	Set func(any) error
}

// Shape exposes the fields of a record in declaration order.
type Shape interface {
	Fields() []Field
}
