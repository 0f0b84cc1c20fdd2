// Package writer produces spreadsheet packages from record collections: one
// sheet per collection, an optional header row taken from the first record's
// fields and one row per record.
package writer

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/cellref"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// Options configures a write.
type Options struct {
	// IncludeHeaders emits the field names as the first row of every
	// non-empty sheet.
	IncludeHeaders bool
	// Logger receives per-sheet progress at Debug. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Validate checks sheet names and record shapes without writing anything.
func Validate(sheets []models.SheetRecords) error {
	_, err := plan(sheets)
	return err
}

// Write validates sheets and writes the complete package to w. A validation
// failure is a *ValidationError and leaves w untouched.
func Write(w io.Writer, sheets []models.SheetRecords, opts Options) error {
	plans, err := plan(sheets)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	names := make([]string, len(plans))
	for i, p := range plans {
		names[i] = p.name
	}
	wb, wbRels := workbookParts(names)

	if err := writeXMLPart(zw, partContentTypes, contentTypes(len(plans))); err != nil {
		return err
	}
	if err := writeXMLPart(zw, partRootRels, rootRels()); err != nil {
		return err
	}
	if err := writeXMLPart(zw, partWorkbook, wb); err != nil {
		return err
	}
	if err := writeXMLPart(zw, partWorkbookRels, wbRels); err != nil {
		return err
	}
	if err := writeRawPart(zw, partStyles, stylesPart(celltype.DefaultStyleTable())); err != nil {
		return err
	}

	log := opts.logger()
	for i, p := range plans {
		part, err := zw.Create(sheetPartName(i + 1))
		if err != nil {
			return err
		}
		rows, err := writeSheet(part, p, opts.IncludeHeaders)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", p.name, err)
		}
		log.Debug("wrote sheet", "sheet", p.name, "rows", rows, "columns", len(p.header))
	}
	return zw.Close()
}

func writeXMLPart(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if err := xml.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func writeRawPart(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

var (
	worksheetStart = xml.StartElement{
		Name: xml.Name{Local: "worksheet"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: nsMain}},
	}
	sheetDataStart = xml.StartElement{Name: xml.Name{Local: "sheetData"}}
	rowStart       = xml.StartElement{Name: xml.Name{Local: "row"}}
)

// writeSheet streams the rows of one sheet and returns how many it wrote.
func writeSheet(w io.Writer, p sheetPlan, includeHeaders bool) (int, error) {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return 0, err
	}
	enc := xml.NewEncoder(w)
	if err := enc.EncodeToken(worksheetStart); err != nil {
		return 0, err
	}
	if err := enc.EncodeToken(sheetDataStart); err != nil {
		return 0, err
	}

	rowNum := 0
	if includeHeaders && len(p.rows) > 0 {
		rowNum++
		row := xlsxRow{R: rowNum, Cells: make([]xlsxC, len(p.header))}
		for i, name := range p.header {
			row.Cells[i] = xlsxC{R: cellref.CellName(i+1, rowNum), T: string(celltype.String), V: name}
		}
		if err := enc.EncodeElement(row, rowStart); err != nil {
			return 0, err
		}
	}
	for _, shape := range p.rows {
		rowNum++
		fields := shape.Fields()
		row := xlsxRow{R: rowNum, Cells: make([]xlsxC, len(fields))}
		for i, f := range fields {
			row.Cells[i] = encodeCell(cellref.CellName(i+1, rowNum), f.Get(), f.Type)
		}
		if err := enc.EncodeElement(row, rowStart); err != nil {
			return 0, err
		}
	}

	if err := enc.EncodeToken(sheetDataStart.End()); err != nil {
		return 0, err
	}
	if err := enc.EncodeToken(worksheetStart.End()); err != nil {
		return 0, err
	}
	return rowNum, enc.Flush()
}

// encodeCell builds the cell for one field value. A nil value is still
// written, without payload or style, tagged with the type its declared field
// type classifies to.
func encodeCell(ref string, v any, declared reflect.Type) xlsxC {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			rv = reflect.Value{}
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return xlsxC{R: ref, T: string(celltype.Classify(declared).Type)}
	}

	class := celltype.Classify(rv.Type())
	c := xlsxC{R: ref, T: string(class.Type), S: class.Style}
	switch {
	case celltype.IsTime(rv.Type()):
		c.V = strconv.FormatFloat(celltype.ToSerial(toTime(rv)), 'f', -1, 64)
	case rv.Kind() == reflect.Bool:
		c.V = "0"
		if rv.Bool() {
			c.V = "1"
		}
	case rv.CanInt():
		c.V = strconv.FormatInt(rv.Int(), 10)
	case rv.CanUint():
		c.V = strconv.FormatUint(rv.Uint(), 10)
	case rv.CanFloat():
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			c.T, c.V = string(celltype.String), strconv.FormatFloat(f, 'f', -1, 64)
			break
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		c.V = strconv.FormatFloat(f, 'f', -1, bits)
	case rv.Kind() == reflect.String:
		c.V = rv.String()
	default:
		c.V = fmt.Sprint(rv.Interface())
	}
	return c
}

var timeType = reflect.TypeOf(time.Time{})

func toTime(rv reflect.Value) time.Time {
	return rv.Convert(timeType).Interface().(time.Time)
}
