package parser

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/cellref"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// CellIssue reports a cell whose value fell back to a default.
type CellIssue struct {
	Column string
	Ref    string
	Err    error
}

func (i CellIssue) Error() string {
	return fmt.Sprintf("cell %s (column %q): %v", i.Ref, i.Column, i.Err)
}

func (i CellIssue) Unwrap() error { return i.Err }

// Reconstructor turns sparse physical rows into logical rows of the header's
// width. It remembers, per column, the most specific family seen so far so
// that gaps are filled with a default of the right type. A Reconstructor is
// used for one sheet and is not safe for concurrent use.
type Reconstructor struct {
	header   []string
	types    []celltype.Family
	resolver *Resolver
}

// NewReconstructor returns a reconstructor for a sheet with the given header.
func NewReconstructor(header []string, resolver *Resolver) *Reconstructor {
	types := make([]celltype.Family, len(header))
	for i := range types {
		types[i] = celltype.Text
	}
	return &Reconstructor{header: header, types: types, resolver: resolver}
}

// Header returns the column names.
func (r *Reconstructor) Header() []string { return r.header }

// ColumnFamily returns the last known family of column i.
func (r *Reconstructor) ColumnFamily(i int) celltype.Family { return r.types[i] }

// Reconstruct builds the logical row for a physical row. The result always
// holds exactly one value per header column, in header order: skipped and
// trailing columns get the default of their last known family. Cells beyond
// the header width are ignored. An empty typed cell in a column whose
// family is already known also gets that family's default.
func (r *Reconstructor) Reconstruct(row models.Row) (*models.Record, []CellIssue) {
	width := len(r.header)
	values := make([]any, width)
	var issues []CellIssue

	headerIndex := -1
	for _, c := range row.Cells {
		headerIndex++
		observed := headerIndex
		if col, ok := cellref.ColumnIndex(c.Ref); ok {
			observed = col - 1
		}
		if observed > headerIndex {
			for i := headerIndex; i < observed && i < width; i++ {
				values[i] = r.types[i].Default()
			}
			headerIndex = observed
		}
		if headerIndex >= width {
			break
		}

		res := r.resolver.Resolve(c)
		if errors.Is(res.Err, ErrEmptyValue) && r.types[headerIndex].Specific() {
			// an empty typed cell takes the column's default
			res.Value = r.types[headerIndex].Default()
		} else if res.Family.Specific() {
			r.types[headerIndex] = res.Family
		}
		if res.Err != nil {
			issues = append(issues, CellIssue{Column: r.header[headerIndex], Ref: c.Ref, Err: res.Err})
		}
		values[headerIndex] = res.Value
	}
	for i := headerIndex + 1; i < width; i++ {
		values[i] = r.types[i].Default()
	}

	rec := models.NewRecord(width)
	for i, name := range r.header {
		rec.Set(name, values[i])
	}
	return rec, issues
}

// HeaderFromRow derives column names from the first physical row. Names are
// placed at their cell's column; gaps and empty texts become "column_<i>",
// and names that repeat (ignoring case) get a "_2", "_3"… suffix.
func HeaderFromRow(row models.Row, resolver *Resolver) []string {
	var texts []string
	pos := -1
	for _, c := range row.Cells {
		pos++
		if col, ok := cellref.ColumnIndex(c.Ref); ok && col-1 > pos {
			pos = col - 1
		}
		if pos >= cellref.MaxColumns {
			break
		}
		for len(texts) <= pos {
			texts = append(texts, "")
		}
		texts[pos] = textOf(resolver.Resolve(c).Value)
	}

	fold := cases.Fold()
	seen := make(map[string]int, len(texts))
	header := make([]string, len(texts))
	for i, name := range texts {
		if name == "" {
			name = SyntheticName(i)
		}
		key := fold.String(name)
		if n := seen[key]; n > 0 {
			for {
				n++
				candidate := name + "_" + strconv.Itoa(n)
				if seen[fold.String(candidate)] == 0 {
					seen[key] = n
					name = candidate
					key = fold.String(candidate)
					break
				}
			}
		}
		seen[key]++
		header[i] = name
	}
	return header
}

// SyntheticName is the name of column i when a sheet has no header row.
func SyntheticName(i int) string {
	return "column_" + strconv.Itoa(i)
}

// SyntheticHeader returns column_0 … column_{n-1}.
func SyntheticHeader(n int) []string {
	header := make([]string, n)
	for i := range header {
		header[i] = SyntheticName(i)
	}
	return header
}

// RowWidth returns the number of logical columns a physical row spans.
func RowWidth(row models.Row) int {
	width := 0
	pos := -1
	for _, c := range row.Cells {
		pos++
		if col, ok := cellref.ColumnIndex(c.Ref); ok && col-1 > pos {
			pos = col - 1
		}
		if pos >= cellref.MaxColumns {
			return cellref.MaxColumns
		}
		width = pos + 1
	}
	return width
}

func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format(time.RFC3339)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
