// Package parser reads spreadsheet packages: it locates the workbook parts,
// decodes sheets into physical rows, resolves cell values and reconstructs
// logical rows from sparse storage.
package parser

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// ErrMissingPart is returned when a part the package refers to is absent.
var ErrMissingPart = errors.New("missing package part")

// Relationship types, matched by suffix so both transitional and strict
// namespaces work.
const (
	relOfficeDocument = "/officeDocument"
	relWorksheet      = "/worksheet"
	relStyles         = "/styles"
	relSharedStrings  = "/sharedStrings"
)

const (
	defaultWorkbookPath      = "xl/workbook.xml"
	defaultStylesPath        = "xl/styles.xml"
	defaultSharedStringsPath = "xl/sharedStrings.xml"
)

// SheetInfo describes one sheet listed in the workbook part.
type SheetInfo struct {
	// Name is the sheet name.
	Name string
	// ID is the sheetId attribute.
	ID int
	// Path is the part name of the worksheet, empty when no relationship
	// points at it.
	Path string
}

// Package is an opened spreadsheet package with its workbook-level parts
// already decoded.
type Package struct {
	// Sheets lists the sheets in workbook order.
	Sheets []SheetInfo
	// Styles is the cellXfs table; empty when the package has no styles part.
	Styles *celltype.StyleTable
	// SharedStrings is the shared string table; nil when the part is absent.
	SharedStrings []string

	zr     *zip.Reader
	closer io.Closer
}

// Open reads a package from r.
func Open(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	return load(zr, nil)
}

// OpenFile reads the package stored at name. The caller must Close it.
func OpenFile(name string) (*Package, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	p, err := load(&rc.Reader, rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the underlying file, if any.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Resolver returns a cell value resolver bound to the package's style and
// shared string tables.
func (p *Package) Resolver() *Resolver {
	return &Resolver{Styles: p.Styles, SharedStrings: p.SharedStrings}
}

// ReadRows decodes the physical rows of a sheet in document order. It
// returns ErrMissingPart when the sheet's part is absent.
func (p *Package) ReadRows(sheet SheetInfo) ([]models.Row, error) {
	if sheet.Path == "" {
		return nil, fmt.Errorf("sheet %q: %w", sheet.Name, ErrMissingPart)
	}
	f := findPart(p.zr, sheet.Path)
	if f == nil {
		return nil, fmt.Errorf("sheet %q: %s: %w", sheet.Name, sheet.Path, ErrMissingPart)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseWorksheet(rc)
}

func load(zr *zip.Reader, closer io.Closer) (*Package, error) {
	p := &Package{zr: zr, closer: closer}

	workbookPath := defaultWorkbookPath
	if data, err := readZipFile(zr, "_rels/.rels"); err == nil {
		for _, rel := range parseRelationships(data) {
			if strings.HasSuffix(rel.Type, relOfficeDocument) {
				workbookPath = resolveRelativePath(rel.Target, "")
				break
			}
		}
	}

	workbookXML, err := readZipFile(zr, workbookPath)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	sheets, err := parseWorkbookSheets(workbookXML)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}

	baseDir := path.Dir(workbookPath)
	stylesPath, sharedStringsPath := defaultStylesPath, defaultSharedStringsPath
	targets := make(map[string]string)
	relsPath := path.Join(baseDir, "_rels", path.Base(workbookPath)+".rels")
	if data, err := readZipFile(zr, relsPath); err == nil {
		for _, rel := range parseRelationships(data) {
			target := resolveRelativePath(rel.Target, baseDir)
			switch {
			case strings.HasSuffix(rel.Type, relWorksheet):
				targets[rel.ID] = target
			case strings.HasSuffix(rel.Type, relStyles):
				stylesPath = target
			case strings.HasSuffix(rel.Type, relSharedStrings):
				sharedStringsPath = target
			}
		}
	}
	for i := range sheets {
		sheets[i].Path = targets[sheets[i].relID]
		p.Sheets = append(p.Sheets, sheets[i].SheetInfo)
	}

	p.Styles = celltype.NewStyleTable(nil)
	if data, err := readZipFile(zr, stylesPath); err == nil {
		if p.Styles, err = ParseStyles(data); err != nil {
			return nil, fmt.Errorf("styles: %w", err)
		}
	} else if !errors.Is(err, ErrMissingPart) {
		return nil, fmt.Errorf("styles: %w", err)
	}

	if f := findPart(zr, sharedStringsPath); f != nil {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("shared strings: %w", err)
		}
		p.SharedStrings, err = ParseSharedStrings(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("shared strings: %w", err)
		}
	}
	return p, nil
}

// findPart looks a part up by name. Part names are case-insensitive.
func findPart(r *zip.Reader, name string) *zip.File {
	name = strings.TrimPrefix(name, "/")
	for _, f := range r.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	f := findPart(r, name)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingPart)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// resolveRelativePath turns a relationship target into a part name. Targets
// starting with "/" are package-absolute; others are relative to baseDir.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join("/", baseDir, target), "/")
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
	Mode   string `xml:"TargetMode,attr"`
}

func parseRelationships(data []byte) []relationship {
	var rels struct {
		Items []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}
	out := rels.Items[:0]
	for _, rel := range rels.Items {
		if !strings.EqualFold(rel.Mode, "External") {
			out = append(out, rel)
		}
	}
	return out
}

type listedSheet struct {
	SheetInfo
	relID string
}

// parseWorkbookSheets returns the sheets of the workbook part in order.
func parseWorkbookSheets(data []byte) ([]listedSheet, error) {
	var result []listedSheet
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s listedSheet
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				s.Name = attr.Value
			case "sheetId":
				s.ID, _ = strconv.Atoi(attr.Value)
			case "id":
				s.relID = attr.Value
			}
		}
		if s.Name != "" {
			result = append(result, s)
		}
	}
}
