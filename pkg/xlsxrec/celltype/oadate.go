package celltype

import (
	"errors"
	"math"
	"time"
)

const (
	millisPerDay = 24 * 60 * 60 * 1000
	// Serials must lie strictly between these bounds (years 100 and 9999).
	minSerial = -657435.0
	maxSerial = 2958466.0
)

// Epoch is day zero of the serial date system. Counting from 1899-12-30
// rather than 1900-01-01 absorbs the phantom 1900-02-29 so serials agree with
// common spreadsheet tools from March 1900 on.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var epochMillis = Epoch.UnixMilli()

// ErrSerialRange is returned for serials outside the representable range.
var ErrSerialRange = errors.New("date serial out of range")

// ToSerial converts t to a fractional day count since Epoch, with
// millisecond precision. The zero time maps to 0, and a time on 0001-01-01 is
// treated as a time of day on the epoch. Before the epoch the integral part
// counts days backwards while the fraction still counts forward into the day.
func ToSerial(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	t = t.UTC()
	if t.Year() == 1 && t.YearDay() == 1 {
		d := t.Sub(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC))
		return float64(d.Milliseconds()) / millisPerDay
	}
	millis := t.UnixMilli() - epochMillis
	if millis < 0 {
		if frac := millis % millisPerDay; frac != 0 {
			millis -= (millisPerDay + frac) * 2
		}
	}
	return float64(millis) / millisPerDay
}

// FromSerial is the inverse of ToSerial, rounding to the nearest millisecond.
// The result is in UTC.
func FromSerial(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || serial <= minSerial || serial >= maxSerial {
		return time.Time{}, ErrSerialRange
	}
	half := 0.5
	if serial < 0 {
		half = -0.5
	}
	millis := int64(serial*millisPerDay + half)
	if millis < 0 {
		millis -= (millis % millisPerDay) * 2
	}
	return time.UnixMilli(epochMillis + millis).UTC(), nil
}
