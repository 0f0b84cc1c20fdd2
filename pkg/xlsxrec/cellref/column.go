// Package cellref converts between column indexes and the letter encoding
// used in cell references such as "AB12".
package cellref

import (
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// MaxColumns is the widest sheet a package can describe (column "XFD").
const MaxColumns = excelize.MaxColumns

// maxLetters is the length of ColumnLetters(math.MaxInt) on 64-bit platforms.
const maxLetters = 14

// ColumnIndex returns the 1-based column encoded by the leading run of
// letters in ref. Letters are case-insensitive; anything after the first
// non-letter (usually the row number) is ignored. ok is false when ref has no
// alphabetic prefix or the prefix encodes a column above math.MaxInt.
func ColumnIndex(ref string) (index int, ok bool) {
	n := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c -= 'A'
		case c >= 'a' && c <= 'z':
			c -= 'a'
		default:
			return index, n > 0
		}
		if index > (math.MaxInt-int(c)-1)/26 {
			return 0, false
		}
		index = 26*index + int(c) + 1
		n++
	}
	return index, n > 0
}

// ColumnLetters returns the bijective base-26 letters for a 1-based column
// index. It returns "" for index < 1.
func ColumnLetters(index int) string {
	if index < 1 {
		return ""
	}
	var buf [maxLetters]byte
	i := len(buf)
	for index > 0 {
		index--
		i--
		buf[i] = byte('A' + index%26)
		index /= 26
	}
	return string(buf[i:])
}

// CellName joins a 1-based column and row into a reference like "C7".
func CellName(col, row int) string {
	return ColumnLetters(col) + strconv.Itoa(row)
}
