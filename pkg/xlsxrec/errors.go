package xlsxrec

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/parser"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/writer"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input is not a valid xlsx package.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// Errors returned by writes, wrapped in a *writer.ValidationError.
var (
	ErrEmptySheetName     = writer.ErrEmptySheetName
	ErrDuplicateSheetName = writer.ErrDuplicateSheetName
	ErrInvalidSheetName   = writer.ErrInvalidSheetName
	ErrShapeMismatch      = writer.ErrShapeMismatch
)

// ErrMissingPart indicates a package part that is referenced but absent.
var ErrMissingPart = parser.ErrMissingPart

// ValidationError is returned when sheets or records cannot be written.
type ValidationError = writer.ValidationError

// ReadError represents a failure while reading one sheet.
type ReadError struct {
	SheetName string
	Component string // "worksheet", "summary"
	Err       error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError.
func NewReadError(sheetName, component string, err error) *ReadError {
	return &ReadError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
