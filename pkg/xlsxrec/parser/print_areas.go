package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// PrintAreas returns the print areas of a workbook by sheet name, each as a
// normalized range such as "A1:D10".
func PrintAreas(f *excelize.File) map[string][]string {
	result := make(map[string][]string)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheet, areas := parsePrintAreaReference(dn.RefersTo)
		if sheet == "" && dn.Scope != "" && dn.Scope != "Workbook" {
			sheet = dn.Scope
		}
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// parsePrintAreaReference splits 'Sheet'!$A$1:$D$10,'Sheet'!$F$1:$G$2 into
// the sheet name of the first part and the normalized ranges.
func parsePrintAreaReference(ref string) (string, []string) {
	var (
		sheetName string
		areas     []string
	)
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.ReplaceAll(strings.Trim(part[:idx], "'"), "''", "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if area, ok := normalizeRange(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}
	return sheetName, areas
}

// normalizeRange drops absolute markers and checks both corners.
func normalizeRange(rangeStr string) (string, bool) {
	parts := strings.Split(strings.ReplaceAll(rangeStr, "$", ""), ":")
	if len(parts) != 2 {
		return "", false
	}
	for _, p := range parts {
		if _, _, err := excelize.CellNameToCoordinates(p); err != nil {
			return "", false
		}
	}
	return parts[0] + ":" + parts[1], true
}
