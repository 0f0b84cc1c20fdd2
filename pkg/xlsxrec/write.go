package xlsxrec

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/writer"
)

// Write produces a package with one sheet per entry of sheets, in order, and
// copies it to w. Sheet names must be non-empty and unique ignoring case; a
// violation returns a *ValidationError before anything is written. If w has a
// Flush method it is called after the copy.
func Write(w io.Writer, sheets []models.SheetRecords, opts WriteOptions) error {
	if err := writer.Validate(sheets); err != nil {
		return err
	}
	tmp, err := writeTemp(sheets, opts)
	if err != nil {
		return err
	}
	defer tmp.discard(opts.logger())

	if _, err := io.Copy(w, tmp.File); err != nil {
		return fmt.Errorf("copy package: %w", err)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// WriteRecords writes a single collection to a sheet named DefaultSheetName.
func WriteRecords[T any](w io.Writer, records []T, opts WriteOptions) error {
	return Write(w, []models.SheetRecords{{Name: DefaultSheetName, Records: anySlice(records)}}, opts)
}

// WriteFile writes the package to path, creating its directory if needed.
// The file is replaced atomically, so readers never see a partial package.
func WriteFile(path string, sheets []models.SheetRecords, opts WriteOptions) error {
	if err := writer.Validate(sheets); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	if err := Write(pf, sheets, opts); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

// TempFile is a written package in a temporary file, positioned at its
// start. Closing it deletes the file.
type TempFile struct {
	*os.File
}

// Close closes and deletes the file.
func (t *TempFile) Close() error {
	err := t.File.Close()
	if rmErr := os.Remove(t.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		err = errors.Join(err, rmErr)
	}
	return err
}

// WriteTemp writes the package into a new temporary file and returns it
// ready for reading. The caller must Close it.
func WriteTemp(sheets []models.SheetRecords, opts WriteOptions) (*TempFile, error) {
	if err := writer.Validate(sheets); err != nil {
		return nil, err
	}
	return writeTemp(sheets, opts)
}

func writeTemp(sheets []models.SheetRecords, opts WriteOptions) (*TempFile, error) {
	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, "xlsxrec-"+uuid.NewString()+".xlsx")
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temporary package: %w", err)
	}
	tmp := &TempFile{File: f}

	err = writer.Write(f, sheets, writer.Options{
		IncludeHeaders: opts.ShouldIncludeHeaders(),
		Logger:         opts.Logger,
	})
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		tmp.discard(opts.logger())
		return nil, err
	}
	return tmp, nil
}

// discard closes and deletes the file; failures are only logged.
func (t *TempFile) discard(log *slog.Logger) {
	if err := t.Close(); err != nil {
		log.Warn("temporary package not removed", "path", t.Name(), "error", err)
	}
}

func anySlice[T any](records []T) []any {
	if records == nil {
		return nil
	}
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
