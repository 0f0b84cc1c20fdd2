package models

import (
	"reflect"
	"testing"
	"time"
)

func TestRecordOrder(t *testing.T) {
	var r Record
	r.Set("Name", "John")
	r.Set("Age", 20)
	r.Set("Name", "Jane")

	if got := r.Keys(); !reflect.DeepEqual(got, []string{"Name", "Age"}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := r.Values(); !reflect.DeepEqual(got, []any{"Jane", 20}) {
		t.Errorf("Values() = %v", got)
	}
	if v, ok := r.Get("Age"); !ok || v != 20 {
		t.Errorf("Get(Age) = %v, %v", v, ok)
	}
	if _, ok := r.Get("age"); ok {
		t.Errorf("Get is case-sensitive")
	}
}

func TestRecordFields(t *testing.T) {
	r := NewRecord(2)
	r.Set("Count", int64(3))
	r.Set("Note", nil)

	fields := r.Fields()
	if len(fields) != 2 {
		t.Fatalf("len(Fields()) = %d", len(fields))
	}
	if fields[0].Type != reflect.TypeOf(int64(0)) {
		t.Errorf("Count type = %v", fields[0].Type)
	}
	if fields[1].Type != nil {
		t.Errorf("Note type = %v, expected nil", fields[1].Type)
	}
	if err := fields[1].Set("hello"); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Get("Note"); v != "hello" {
		t.Errorf("Note = %v after Set", v)
	}
	if fields[0].Get() != int64(3) {
		t.Errorf("Count Get() = %v", fields[0].Get())
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	r := NewRecord(4)
	r.Set("z", 1)
	r.Set("a", "x")
	r.Set("when", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	r.Set("none", nil)

	data, err := r.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"z":1,"a":"x","when":"2024-01-02T00:00:00Z","none":null}`
	if string(data) != expected {
		t.Errorf("MarshalJSON() = %s, expected %s", data, expected)
	}
}

func TestWorkbookSheet(t *testing.T) {
	wb := &Workbook{Sheets: []SheetData{{Name: "Employees"}, {Name: "Été"}}}

	if s, ok := wb.Sheet("employees"); !ok || s.Name != "Employees" {
		t.Errorf("Sheet(employees) = %v, %v", s, ok)
	}
	if s, ok := wb.Sheet("éTÉ"); !ok || s.Name != "Été" {
		t.Errorf("Sheet(éTÉ) = %v, %v", s, ok)
	}
	if _, ok := wb.Sheet("missing"); ok {
		t.Errorf("Sheet(missing) should not resolve")
	}
	if got := wb.Names(); !reflect.DeepEqual(got, []string{"Employees", "Été"}) {
		t.Errorf("Names() = %v", got)
	}
}
