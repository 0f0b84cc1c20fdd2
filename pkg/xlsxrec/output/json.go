// Package output serializes read results as JSON.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// ToJSON serializes v, indented with two spaces when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return ToJSON(sheet, pretty)
}

// WriteFile atomically replaces path with data, creating the directory.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}

// WriteSheetFiles writes one <sheet>.json file per sheet into dir and
// returns the paths in sheet order.
func WriteSheetFiles(wb *models.Workbook, dir string, pretty bool) ([]string, error) {
	paths := make([]string, 0, len(wb.Sheets))
	for i := range wb.Sheets {
		data, err := SheetToJSON(&wb.Sheets[i], pretty)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, SafeFileName(wb.Sheets[i].Name)+".json")
		if err := WriteFile(path, data); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SafeFileName replaces characters that are not allowed in file names on
// common platforms.
func SafeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
}
