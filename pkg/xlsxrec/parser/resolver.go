package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

var (
	// ErrEmptyValue marks a typed cell stored without a payload.
	ErrEmptyValue = errors.New("empty value")
	// ErrBadValue marks a payload that does not parse as its type.
	ErrBadValue = errors.New("malformed value")
)

// isoLayouts are accepted for t="d" cells.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05.999999999",
}

// Result is the outcome of resolving one cell. When Err is set, Value is the
// fallback that was used instead: the family default for an empty payload,
// the raw text for a malformed one.
type Result struct {
	Value  any
	Family celltype.Family
	Err    error
}

// Resolver decodes cell values using a package's style and shared string
// tables. Both tables may be empty.
type Resolver struct {
	Styles        *celltype.StyleTable
	SharedStrings []string
}

// Family returns the semantic type of a cell. An explicit type tag decides;
// a number tag on a date-formatted cell is a date. Without a tag the style's
// number format decides; without either the family is Unknown.
func (r *Resolver) Family(c models.Cell) celltype.Family {
	if c.Type != "" {
		fam := celltype.FamilyForTag(celltype.CellType(c.Type))
		if fam == celltype.Decimal && r.styleFamily(c) == celltype.DateTime {
			return celltype.DateTime
		}
		return fam
	}
	return r.styleFamily(c)
}

func (r *Resolver) styleFamily(c models.Cell) celltype.Family {
	if c.Style == nil {
		return celltype.Unknown
	}
	fam, _ := r.Styles.Family(*c.Style)
	return fam
}

// Resolve decodes the value of c. It never fails: problems are reported in
// Result.Err and a fallback value is returned.
func (r *Resolver) Resolve(c models.Cell) Result {
	fam := r.Family(c)
	res := Result{Family: fam}
	raw := c.Value

	if raw == "" && fam.Specific() {
		res.Value = fam.Default()
		res.Err = ErrEmptyValue
		return res
	}

	var err error
	switch celltype.CellType(c.Type) {
	case celltype.SharedString:
		res.Value, err = r.sharedString(raw)
	case celltype.Boolean:
		res.Value, err = parseBool(raw)
	case celltype.Date:
		res.Value, err = parseISO(raw)
	case celltype.Number:
		if fam == celltype.DateTime {
			res.Value, err = parseSerial(raw)
		} else {
			res.Value = raw
		}
	case "":
		switch fam {
		case celltype.DateTime:
			res.Value, err = parseSerial(raw)
		case celltype.Integer:
			res.Value, err = parseInteger(raw)
		case celltype.Decimal:
			res.Value, err = parseDecimal(raw)
		default:
			res.Value = raw
		}
	default:
		res.Value = raw
	}
	if err != nil {
		res.Value = raw
		res.Err = err
	}
	return res
}

func (r *Resolver) sharedString(raw string) (string, error) {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || i < 0 || i >= len(r.SharedStrings) {
		return "", fmt.Errorf("%w: shared string index %q", ErrBadValue, raw)
	}
	return r.SharedStrings[i], nil
}

// parseBool decodes the stored boolean text: "1" is true, "0" is false.
func parseBool(raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "1", "true", "TRUE", "True":
		return true, nil
	case "0", "false", "FALSE", "False":
		return false, nil
	}
	return false, fmt.Errorf("%w: boolean %q", ErrBadValue, raw)
}

func parseISO(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrBadValue, raw)
}

func parseSerial(raw string) (time.Time, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date serial %q", ErrBadValue, raw)
	}
	t, err := celltype.FromSerial(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrBadValue, err)
	}
	return t, nil
}

// parseInteger keeps fractional values as float64 rather than truncating.
func parseInteger(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return nil, fmt.Errorf("%w: integer %q", ErrBadValue, raw)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), nil
	}
	return f, nil
}

func parseDecimal(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(f) {
		return 0, fmt.Errorf("%w: number %q", ErrBadValue, raw)
	}
	return f, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
