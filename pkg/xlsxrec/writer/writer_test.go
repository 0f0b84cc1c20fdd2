package writer

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/mapper"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/parser"
)

type employee struct {
	Name   string
	Age    *int
	Joined time.Time
	Active bool
	Rate   float32
}

func intPtr(i int) *int { return &i }

func writeBytes(t *testing.T, sheets []models.SheetRecords, headers bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, sheets, Options{IncludeHeaders: headers}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes()
}

func readPart(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}
	f, err := zr.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestWriteReadableByExcelize(t *testing.T) {
	data := writeBytes(t, []models.SheetRecords{
		{Name: "Employees", Records: []any{
			employee{Name: "John", Age: intPtr(20), Active: true, Rate: 0.1},
			&employee{Name: "Jane", Age: intPtr(21)},
		}},
		{Name: "Other", Records: []any{map[string]any{"b": 2, "a": "x"}}},
	}, true)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("excelize.OpenReader failed: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"Employees", "Other"}, f.GetSheetList()); diff != "" {
		t.Errorf("sheet list (-want +got):\n%s", diff)
	}
	rows, err := f.GetRows("Employees", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	expected := [][]string{
		{"Name", "Age", "Joined", "Active", "Rate"},
		{"John", "20", "0", "1", "0.1"},
		{"Jane", "21", "0", "0", "0"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}

	rows, err = f.GetRows("Other")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if diff := cmp.Diff([][]string{{"a", "b"}, {"x", "2"}}, rows); diff != "" {
		t.Errorf("map rows (-want +got):\n%s", diff)
	}
}

func TestWriteCellEncoding(t *testing.T) {
	joined := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	data := writeBytes(t, []models.SheetRecords{
		{Name: "S", Records: []any{employee{Name: "Ann", Joined: joined, Rate: float32(math.Inf(1))}}},
	}, false)

	rows, err := parser.ParseWorksheet(bytes.NewReader(readPart(t, data, "xl/worksheets/sheet1.xml")))
	if err != nil {
		t.Fatalf("ParseWorksheet failed: %v", err)
	}
	dateStyle := 1
	expected := []models.Row{{Number: 1, Cells: []models.Cell{
		{Ref: "A1", Type: "str", Value: "Ann"},
		{Ref: "B1", Type: "n"},
		{Ref: "C1", Type: "n", Style: &dateStyle, Value: "45306"},
		{Ref: "D1", Type: "b", Value: "0"},
		{Ref: "E1", Type: "str", Value: "+Inf"},
	}}}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
}

func TestEncodeCell(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected xlsxC
	}{
		{"string", "x", xlsxC{R: "A1", T: "str", V: "x"}},
		{"empty string", "", xlsxC{R: "A1", T: "str"}},
		{"int", 42, xlsxC{R: "A1", T: "n", V: "42"}},
		{"negative int64", int64(-7), xlsxC{R: "A1", T: "n", V: "-7"}},
		{"uint64", uint64(math.MaxUint64), xlsxC{R: "A1", T: "n", V: "18446744073709551615"}},
		{"float", 100.5, xlsxC{R: "A1", T: "n", V: "100.5"}},
		{"large float", 1e21, xlsxC{R: "A1", T: "n", V: "1000000000000000000000"}},
		{"float32", float32(0.1), xlsxC{R: "A1", T: "n", V: "0.1"}},
		{"nan", math.NaN(), xlsxC{R: "A1", T: "str", V: "NaN"}},
		{"true", true, xlsxC{R: "A1", T: "b", V: "1"}},
		{"false", false, xlsxC{R: "A1", T: "b", V: "0"}},
		{"date", time.Date(1900, 3, 1, 12, 0, 0, 0, time.UTC), xlsxC{R: "A1", T: "n", S: 1, V: "61.5"}},
		{"zero time", time.Time{}, xlsxC{R: "A1", T: "n", S: 1, V: "0"}},
		{"pointer", intPtr(3), xlsxC{R: "A1", T: "n", V: "3"}},
		{"other", []int{1, 2}, xlsxC{R: "A1", T: "str", V: "[1 2]"}},
	}

	for _, tt := range tests {
		got := encodeCell("A1", tt.value, nil)
		if got != tt.expected {
			t.Errorf("%s: encodeCell(%v) = %+v, expected %+v", tt.name, tt.value, got, tt.expected)
		}
	}
}

func TestEncodeNilKeepsDeclaredType(t *testing.T) {
	shape, err := mapper.ShapeOf(employee{})
	if err != nil {
		t.Fatal(err)
	}
	fields := shape.Fields()
	got := encodeCell("B2", nil, fields[1].Type)
	if got != (xlsxC{R: "B2", T: "n"}) {
		t.Errorf("nil *int = %+v", got)
	}
	got = encodeCell("C2", (*time.Time)(nil), fields[2].Type)
	if got != (xlsxC{R: "C2", T: "n"}) {
		t.Errorf("nil time = %+v, expected no style", got)
	}
	got = encodeCell("A2", nil, nil)
	if got != (xlsxC{R: "A2", T: "str"}) {
		t.Errorf("nil untyped = %+v", got)
	}
}

func TestWritePackageStructure(t *testing.T) {
	data := writeBytes(t, []models.SheetRecords{
		{Name: "First", Records: []any{employee{Name: "a"}}},
		{Name: "Empty"},
		{Name: "Skipped", Records: []any{nil, (*employee)(nil), map[string]any{}}},
	}, true)

	p, err := parser.Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parser.Open failed: %v", err)
	}
	expected := []parser.SheetInfo{
		{Name: "First", ID: 1, Path: "xl/worksheets/sheet1.xml"},
		{Name: "Empty", ID: 2, Path: "xl/worksheets/sheet2.xml"},
		{Name: "Skipped", ID: 3, Path: "xl/worksheets/sheet3.xml"},
	}
	if diff := cmp.Diff(expected, p.Sheets); diff != "" {
		t.Errorf("sheets (-want +got):\n%s", diff)
	}

	formats := p.Styles.Formats()
	if len(formats) != 2 || formats[0].FormatID != 0 || formats[1].FormatID != 15 {
		t.Errorf("style formats = %+v", formats)
	}

	for _, s := range p.Sheets[1:] {
		rows, err := p.ReadRows(s)
		if err != nil {
			t.Fatalf("ReadRows(%s) failed: %v", s.Name, err)
		}
		if len(rows) != 0 {
			t.Errorf("sheet %s has %d rows, expected none", s.Name, len(rows))
		}
	}

	workbook := string(readPart(t, data, "xl/workbook.xml"))
	if !strings.Contains(workbook, `<sheet name="First" sheetId="1" r:id="rId1"></sheet>`) {
		t.Errorf("workbook part = %s", workbook)
	}
}

func TestWriteValidation(t *testing.T) {
	tests := []struct {
		name   string
		sheets []models.SheetRecords
		err    error
		record int
	}{
		{"empty name", []models.SheetRecords{{Name: ""}}, ErrEmptySheetName, -1},
		{"empty name after valid", []models.SheetRecords{{Name: "ok", Records: []any{employee{}}}, {Name: ""}}, ErrEmptySheetName, -1},
		{"duplicate", []models.SheetRecords{{Name: "Data"}, {Name: "data"}}, ErrDuplicateSheetName, -1},
		{"too long", []models.SheetRecords{{Name: strings.Repeat("x", 32)}}, ErrInvalidSheetName, -1},
		{"reserved char", []models.SheetRecords{{Name: "a/b"}}, ErrInvalidSheetName, -1},
		{"quoted", []models.SheetRecords{{Name: "'q"}}, ErrInvalidSheetName, -1},
		{
			"shape mismatch",
			[]models.SheetRecords{{Name: "S", Records: []any{
				map[string]any{"a": 1, "b": 2},
				map[string]any{"a": 1, "c": 2},
			}}},
			ErrShapeMismatch, 1,
		},
		{"unsupported record", []models.SheetRecords{{Name: "S", Records: []any{42}}}, mapper.ErrUnsupportedRecord, 0},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		err := Write(&buf, tt.sheets, Options{IncludeHeaders: true})
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: error = %v, expected %v", tt.name, err, tt.err)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: error %T is not a *ValidationError", tt.name, err)
		} else if verr.Record != tt.record {
			t.Errorf("%s: Record = %d, expected %d", tt.name, verr.Record, tt.record)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: %d bytes written despite validation error", tt.name, buf.Len())
		}
	}
}

func TestCheckSheetName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"Sheet1", true},
		{strings.Repeat("é", 31), true},
		{strings.Repeat("😀", 16), false},
		{"a:b", false},
		{"a[1]", false},
		{"it's", true},
	}
	for _, tt := range tests {
		err := checkSheetName(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("checkSheetName(%q) = %v, expected ok=%v", tt.name, err, tt.ok)
		}
	}
}
