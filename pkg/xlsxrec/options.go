// Package xlsxrec converts between collections of records and spreadsheet
// packages. Writing turns each named collection into a sheet with a header
// row; reading rebuilds full-width rows from sparse cell storage and binds
// them to open records or typed values by column name.
package xlsxrec

import "log/slog"

// DefaultSheetName is the sheet used when records are written without a name.
const DefaultSheetName = "Sheet1"

// WriteOptions configures writing.
type WriteOptions struct {
	// IncludeHeaders emits the field names as the first row of each sheet.
	// If nil, defaults to true.
	IncludeHeaders *bool
	// TempDir holds the intermediate package file. Empty means os.TempDir().
	TempDir string
	// Logger receives debug progress and cleanup warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultWriteOptions returns default write options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{}
}

// ShouldIncludeHeaders returns whether to write a header row.
func (o WriteOptions) ShouldIncludeHeaders() bool {
	if o.IncludeHeaders != nil {
		return *o.IncludeHeaders
	}
	return true
}

func (o WriteOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ReadOptions configures reading.
type ReadOptions struct {
	// NoHeaders treats the first row as data. Columns are then named
	// column_0, column_1, … for open records, or bound to a typed record's
	// fields in declaration order.
	NoHeaders bool
	// Logger receives per-cell and per-field fallbacks at Debug and missing
	// parts at Warn. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultReadOptions returns default read options.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{}
}

func (o ReadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
