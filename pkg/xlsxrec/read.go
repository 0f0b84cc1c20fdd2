package xlsxrec

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/cases"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/mapper"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/parser"
)

// ReadAll reads every sheet of the package in r as open records, in
// workbook order, starting at the current position of r. A sheet whose
// part is missing is returned empty with Missing set.
func ReadAll(r io.Reader, opts ReadOptions) (*models.Workbook, error) {
	p, err := openPackage(r)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return readWorkbook(p, opts)
}

// ReadFile reads every sheet of the package stored at path.
func ReadFile(path string, opts ReadOptions) (*models.Workbook, error) {
	p, err := openPackageFile(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return readWorkbook(p, opts)
}

// ReadSheet reads one sheet as open records. The sheet is matched by name
// ignoring case; an empty or unknown name selects the first sheet. A
// package without sheets yields no records.
func ReadSheet(r io.Reader, sheetName string, opts ReadOptions) ([]*models.Record, error) {
	p, err := openPackage(r)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	info, ok := selectSheet(p.Sheets, sheetName)
	if !ok {
		return []*models.Record{}, nil
	}
	sheet, err := readSheet(p, info, nil, opts)
	if err != nil {
		return nil, err
	}
	return sheet.Records, nil
}

// ReadTyped reads one sheet, selected like ReadSheet, and binds each row to a
// T by matching field names to column names ignoring case. Fields without a
// column, and fields whose value cannot be converted, keep their zero value.
func ReadTyped[T any](r io.Reader, sheetName string, opts ReadOptions) ([]T, error) {
	p, err := openPackage(r)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	out := []T{}
	info, ok := selectSheet(p.Sheets, sheetName)
	if !ok {
		return out, nil
	}
	var header []string
	if opts.NoHeaders {
		header = mapper.TypeFields[T]()
	}
	sheet, err := readSheet(p, info, header, opts)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	for i, rec := range sheet.Records {
		v, issues := mapper.BindTyped[T](rec)
		for _, issue := range issues {
			log.Debug("field left at default",
				"sheet", sheet.Name, "record", i, "field", issue.Field, "reason", issue.Err)
		}
		out = append(out, v)
	}
	return out, nil
}

func readWorkbook(p *parser.Package, opts ReadOptions) (*models.Workbook, error) {
	wb := &models.Workbook{Sheets: make([]models.SheetData, 0, len(p.Sheets))}
	for _, info := range p.Sheets {
		sheet, err := readSheet(p, info, nil, opts)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// readSheet reconstructs the rows of one sheet. A non-nil header replaces
// the header row: every physical row is then data.
func readSheet(p *parser.Package, info parser.SheetInfo, header []string, opts ReadOptions) (models.SheetData, error) {
	log := opts.logger().With("sheet", info.Name)
	sheet := models.SheetData{Name: info.Name, Header: []string{}, Records: []*models.Record{}}

	rows, err := p.ReadRows(info)
	if errors.Is(err, parser.ErrMissingPart) {
		log.Warn("sheet part missing", "part", info.Path)
		sheet.Missing = true
		return sheet, nil
	}
	if err != nil {
		return sheet, NewReadError(info.Name, "worksheet", err)
	}

	resolver := p.Resolver()
	switch {
	case header != nil:
	case opts.NoHeaders:
		width := 0
		for _, row := range rows {
			width = max(width, parser.RowWidth(row))
		}
		header = parser.SyntheticHeader(width)
	case len(rows) > 0:
		header = parser.HeaderFromRow(rows[0], resolver)
		rows = rows[1:]
	default:
		header = []string{}
	}
	rec := parser.NewReconstructor(header, resolver)
	sheet.Header = rec.Header()
	for _, row := range rows {
		record, issues := rec.Reconstruct(row)
		logCellIssues(log, row.Number, issues)
		sheet.Records = append(sheet.Records, record)
	}
	log.Debug("read sheet", "rows", len(sheet.Records), "columns", len(header))
	return sheet, nil
}

func logCellIssues(log *slog.Logger, row int, issues []parser.CellIssue) {
	for _, issue := range issues {
		log.Debug("cell value defaulted",
			"row", row, "column", issue.Column, "ref", issue.Ref, "reason", issue.Err)
	}
}

// selectSheet finds a sheet by name ignoring case, falling back to the first
// sheet. ok is false only when there are no sheets.
func selectSheet(sheets []parser.SheetInfo, name string) (parser.SheetInfo, bool) {
	if len(sheets) == 0 {
		return parser.SheetInfo{}, false
	}
	if name != "" {
		fold := cases.Fold()
		want := fold.String(name)
		for _, s := range sheets {
			if fold.String(s.Name) == want {
				return s, true
			}
		}
	}
	return sheets[0], true
}

type sizedReaderAt interface {
	io.ReaderAt
	Size() int64
}

// openPackage reads the package from the current position of r.
func openPackage(r io.Reader) (*parser.Package, error) {
	var (
		ra   io.ReaderAt
		size int64
	)
	src := r
	if !atStart(r) {
		src = struct{ io.Reader }{r}
	}
	switch src := src.(type) {
	case sizedReaderAt:
		ra, size = src, src.Size()
	case *os.File:
		fi, err := src.Stat()
		if err != nil {
			return nil, err
		}
		ra, size = src, fi.Size()
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		ra, size = bytes.NewReader(data), int64(len(data))
	}
	p, err := parser.Open(ra, size)
	return p, classifyOpenError(err)
}

// atStart reports whether a seekable r is positioned at offset 0. Random
// access readers address the whole source, so they are only used directly
// when no prefix has been consumed.
func atStart(r io.Reader) bool {
	s, ok := r.(io.Seeker)
	if !ok {
		return true
	}
	off, err := s.Seek(0, io.SeekCurrent)
	return err == nil && off == 0
}

func openPackageFile(path string) (*parser.Package, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	p, err := parser.OpenFile(path)
	return p, classifyOpenError(err)
}

func classifyOpenError(err error) error {
	if errors.Is(err, zip.ErrFormat) || errors.Is(err, parser.ErrMissingPart) {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return err
}
