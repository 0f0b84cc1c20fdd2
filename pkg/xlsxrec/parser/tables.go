package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// RangeParams tunes data range detection.
type RangeParams struct {
	// DensityMin is the minimum share of non-empty cells in the bounding box.
	DensityMin float64
	// MinNonemptyCells is the minimum number of non-empty cells.
	MinNonemptyCells int
}

// DefaultRangeParams returns default range detection parameters.
func DefaultRangeParams() RangeParams {
	return RangeParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// SummarizeSheet measures a sheet of an excelize workbook: used rows and
// columns, the range that likely holds the table and that range's first row.
// DataRange stays empty when the sheet is too sparse to hold a table.
func SummarizeSheet(f *excelize.File, sheetName string, params RangeParams) (models.SheetSummary, error) {
	summary := models.SheetSummary{Name: sheetName}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return summary, err
	}
	summary.Rows = len(rows)
	for _, row := range rows {
		summary.Columns = max(summary.Columns, len(row))
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return summary, nil
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)
	if nonEmptyCells < params.MinNonemptyCells {
		return summary, nil
	}
	if density := float64(nonEmptyCells) / float64(totalCells); density < params.DensityMin {
		return summary, nil
	}

	startCell, err := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	if err != nil {
		return summary, err
	}
	endCell, err := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	if err != nil {
		return summary, err
	}
	summary.DataRange = fmt.Sprintf("%s:%s", startCell, endCell)

	first := rows[minRow]
	for col := minCol; col <= maxCol; col++ {
		text := ""
		if col < len(first) {
			text = first[col]
		}
		summary.Header = append(summary.Header, text)
	}
	return summary, nil
}

// findDataBounds finds the bounding box of non-empty cells. All bounds are
// -1 when every cell is empty.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}
	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
