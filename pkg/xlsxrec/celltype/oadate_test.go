package celltype

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestToSerial(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected float64
	}{
		{"zero", time.Time{}, 0},
		{"epoch", Epoch, 0},
		{"1900-01-01", time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), 2},
		{"1900-03-01", time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), 61},
		{"noon", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 45306.5},
		{"six hours", time.Date(2000, 1, 1, 6, 0, 0, 0, time.UTC), 36526.25},
		{"before epoch", time.Date(1899, 12, 29, 6, 0, 0, 0, time.UTC), -1.25},
		{"time of day only", time.Date(1, 1, 1, 18, 0, 0, 0, time.UTC), 0.75},
		{"non-UTC", time.Date(2024, 1, 15, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600)), 45306.5},
	}

	for _, tt := range tests {
		if got := ToSerial(tt.in); got != tt.expected {
			t.Errorf("ToSerial(%s) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestFromSerial(t *testing.T) {
	tests := []struct {
		in       float64
		expected time.Time
	}{
		{0, Epoch},
		{61, time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)},
		{45306.5, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)},
		{-1.25, time.Date(1899, 12, 29, 6, 0, 0, 0, time.UTC)},
		{1.0 / 86400000 * 0.4, Epoch},
	}

	for _, tt := range tests {
		got, err := FromSerial(tt.in)
		if err != nil {
			t.Errorf("FromSerial(%v) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("FromSerial(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestFromSerialRange(t *testing.T) {
	for _, in := range []float64{maxSerial, minSerial, 1e9, -1e9, math.NaN(), math.Inf(1)} {
		if _, err := FromSerial(in); !errors.Is(err, ErrSerialRange) {
			t.Errorf("FromSerial(%v) error = %v, expected ErrSerialRange", in, err)
		}
	}
}

func TestSerialRoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 7, 4, 23, 59, 59, 999e6, time.UTC),
		time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(1850, 6, 1, 8, 30, 0, 0, time.UTC),
	}
	for _, want := range times {
		got, err := FromSerial(ToSerial(want))
		if err != nil {
			t.Fatalf("FromSerial(ToSerial(%v)): %v", want, err)
		}
		if !got.Equal(want) {
			t.Errorf("round trip of %v = %v", want, got)
		}
	}
}

// Serials after February 1900 must agree with other spreadsheet readers.
func TestSerialMatchesExcelize(t *testing.T) {
	for _, serial := range []float64{61, 366.25, 25569, 45306.5} {
		want, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			t.Fatalf("excelize.ExcelDateToTime(%v): %v", serial, err)
		}
		got, err := FromSerial(serial)
		if err != nil {
			t.Fatalf("FromSerial(%v): %v", serial, err)
		}
		if !got.Equal(want) {
			t.Errorf("FromSerial(%v) = %v, excelize says %v", serial, got, want)
		}
	}
}
