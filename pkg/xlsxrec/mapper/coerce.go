package mapper

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
)

var (
	// ErrOverflow is returned when a number does not fit the target type.
	ErrOverflow = errors.New("value out of range")
	// ErrNotConvertible is returned when no conversion to the target type exists.
	ErrNotConvertible = errors.New("not convertible")
)

var timeType = reflect.TypeOf(time.Time{})

// timeLayouts are tried in order when text is coerced to time.Time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts v to a value of type t. A nil v yields the zero value of t;
// a nil t returns v unchanged.
func Coerce(v any, t reflect.Type) (any, error) {
	if t == nil {
		return v, nil
	}
	rv, err := coerceValue(v, t)
	if err != nil {
		return reflect.Zero(t).Interface(), err
	}
	return rv.Interface(), nil
}

func coerceValue(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(t) {
		return src.Convert(t), nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := coerceValue(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case reflect.Interface:
		if src.Type().Implements(t) {
			return src.Convert(t), nil
		}
	case reflect.String:
		return reflect.ValueOf(toText(v)).Convert(t), nil
	case reflect.Bool:
		b, err := toBool(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOverflow, n, t)
		}
		out.SetInt(n)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOverflow, n, t)
		}
		out.SetUint(uint64(n))
		return out, nil
	case reflect.Float32, reflect.Float64:
		f, err := toFloat(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOverflow, f, t)
		}
		out.SetFloat(f)
		return out, nil
	case reflect.Struct:
		if celltype.IsTime(t) {
			tm, err := toTime(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(tm).Convert(t), nil
		}
	}
	if src.Type().ConvertibleTo(t) {
		return src.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrNotConvertible, v, t)
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			return rv.String()
		case reflect.Float32, reflect.Float64:
			return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		}
		return fmt.Sprint(v)
	}
}

func toBool(v any) (bool, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return strconv.ParseBool(strings.TrimSpace(rv.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}
	return false, fmt.Errorf("%w: %T to bool", ErrNotConvertible, v)
}

// toInt rounds fractional values half to even.
func toInt(v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d", ErrOverflow, u)
		}
		return int64(u), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float())
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q to integer", ErrNotConvertible, s)
		}
		return floatToInt(f)
	}
	return 0, fmt.Errorf("%w: %T to integer", ErrNotConvertible, v)
}

func floatToInt(f float64) (int64, error) {
	r := math.RoundToEven(f)
	if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v", ErrOverflow, f)
	}
	return int64(r), nil
}

func toFloat(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q to number", ErrNotConvertible, rv.String())
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %T to number", ErrNotConvertible, v)
}

// toTime accepts times, date serials and RFC 3339 or ISO date text.
func toTime(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		s := strings.TrimSpace(rv.String())
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q to time", ErrNotConvertible, s)
		}
		return celltype.FromSerial(f)
	}
	if rv.Type().ConvertibleTo(timeType) && rv.Kind() == reflect.Struct {
		return rv.Convert(timeType).Interface().(time.Time), nil
	}
	f, err := toFloat(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %T to time", ErrNotConvertible, v)
	}
	return celltype.FromSerial(f)
}
