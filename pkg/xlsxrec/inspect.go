package xlsxrec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/parser"
)

// Inspect summarizes the sheets of any workbook excelize can open: used
// rows and columns, the range that likely holds a table, its header and
// the sheet's print areas.
func Inspect(path string) (*models.WorkbookSummary, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	defer f.Close()

	summary := &models.WorkbookSummary{
		BookName: filepath.Base(path),
		Sheets:   []models.SheetSummary{},
	}
	printAreas := parser.PrintAreas(f)
	for _, sheetName := range f.GetSheetList() {
		sheet, err := parser.SummarizeSheet(f, sheetName, parser.DefaultRangeParams())
		if err != nil {
			return nil, NewReadError(sheetName, "summary", err)
		}
		sheet.PrintAreas = printAreas[sheetName]
		summary.Sheets = append(summary.Sheets, sheet)
	}
	return summary, nil
}
