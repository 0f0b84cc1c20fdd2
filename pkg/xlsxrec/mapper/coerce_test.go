package mapper

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type status string

func TestCoerce(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		in       any
		typ      reflect.Type
		expected any
	}{
		{"nil to int", nil, reflect.TypeOf(0), 0},
		{"text to int", "42", reflect.TypeOf(0), 42},
		{"decimal text to int", "2.5", reflect.TypeOf(int32(0)), int32(2)},
		{"float to int rounds half even", 3.5, reflect.TypeOf(int64(0)), int64(4)},
		{"int64 to uint8", int64(200), reflect.TypeOf(uint8(0)), uint8(200)},
		{"text to float", "100.5", reflect.TypeOf(0.0), 100.5},
		{"int to float32", int64(3), reflect.TypeOf(float32(0)), float32(3)},
		{"float to string", 100.5, reflect.TypeOf(""), "100.5"},
		{"int to string", int64(20), reflect.TypeOf(""), "20"},
		{"bool to string", true, reflect.TypeOf(""), "true"},
		{"text to named string", "open", reflect.TypeOf(status("")), status("open")},
		{"one to bool", "1", reflect.TypeOf(false), true},
		{"zero number to bool", 0.0, reflect.TypeOf(false), false},
		{"serial to time", 45306.0, reflect.TypeOf(time.Time{}), day},
		{"serial text to time", "45306", reflect.TypeOf(time.Time{}), day},
		{"iso text to time", "2024-01-15", reflect.TypeOf(time.Time{}), day},
		{"time to time", day, reflect.TypeOf(time.Time{}), day},
		{"anything to any", int64(5), reflect.TypeOf((*any)(nil)).Elem(), int64(5)},
	}

	for _, tt := range tests {
		got, err := Coerce(tt.in, tt.typ)
		if err != nil {
			t.Errorf("%s: Coerce(%#v) error: %v", tt.name, tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%s: Coerce(%#v) = %#v, expected %#v", tt.name, tt.in, got, tt.expected)
		}
	}
}

func TestCoercePointer(t *testing.T) {
	got, err := Coerce("7", reflect.TypeOf((*int)(nil)))
	if err != nil {
		t.Fatal(err)
	}
	p, ok := got.(*int)
	if !ok || p == nil || *p != 7 {
		t.Errorf("Coerce to *int = %#v", got)
	}
	got, err = Coerce(nil, reflect.TypeOf((*int)(nil)))
	if err != nil || got.(*int) != nil {
		t.Errorf("Coerce(nil) to *int = %#v, %v", got, err)
	}
}

func TestCoerceErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		typ  reflect.Type
		err  error
	}{
		{"int overflow", int64(300), reflect.TypeOf(int8(0)), ErrOverflow},
		{"negative to uint", "-1", reflect.TypeOf(uint(0)), ErrOverflow},
		{"text to int", "abc", reflect.TypeOf(0), ErrNotConvertible},
		{"text to float", "1,5", reflect.TypeOf(0.0), ErrNotConvertible},
		{"struct to int", struct{}{}, reflect.TypeOf(0), ErrNotConvertible},
		{"text to time", "yesterday", reflect.TypeOf(time.Time{}), ErrNotConvertible},
	}

	for _, tt := range tests {
		got, err := Coerce(tt.in, tt.typ)
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: error = %v, expected %v", tt.name, err, tt.err)
		}
		if !reflect.ValueOf(got).IsZero() {
			t.Errorf("%s: failed coercion returned %#v, expected zero value", tt.name, got)
		}
	}
}
