package writer

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
)

const (
	nsMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	relOfficeDocument = nsRelationships + "/officeDocument"
	relWorksheet      = nsRelationships + "/worksheet"
	relStyles         = nsRelationships + "/styles"

	ctWorkbook  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
)

// Part names.
const (
	partContentTypes  = "[Content_Types].xml"
	partRootRels      = "_rels/.rels"
	partWorkbook      = "xl/workbook.xml"
	partWorkbookRels  = "xl/_rels/workbook.xml.rels"
	partStyles        = "xl/styles.xml"
	worksheetPartName = "xl/worksheets/sheet%d.xml"
)

type xlsxTypes struct {
	XMLName   xml.Name       `xml:"Types"`
	Xmlns     string         `xml:"xmlns,attr"`
	Defaults  []xlsxDefault  `xml:"Default"`
	Overrides []xlsxOverride `xml:"Override"`
}

type xlsxDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xlsxOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xlsxRelationships struct {
	XMLName       xml.Name           `xml:"Relationships"`
	Xmlns         string             `xml:"xmlns,attr"`
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type xlsxWorkbook struct {
	XMLName xml.Name    `xml:"workbook"`
	Xmlns   string      `xml:"xmlns,attr"`
	XmlnsR  string      `xml:"xmlns:r,attr"`
	Sheets  []xlsxSheet `xml:"sheets>sheet"`
}

type xlsxSheet struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"r:id,attr"`
}

type xlsxRow struct {
	R     int     `xml:"r,attr"`
	Cells []xlsxC `xml:"c"`
}

type xlsxC struct {
	R string `xml:"r,attr"`
	S int    `xml:"s,attr,omitempty"`
	T string `xml:"t,attr,omitempty"`
	V string `xml:"v,omitempty"`
}

func relID(n int) string {
	return fmt.Sprintf("rId%d", n)
}

func sheetPartName(n int) string {
	return fmt.Sprintf(worksheetPartName, n)
}

func contentTypes(sheetCount int) xlsxTypes {
	t := xlsxTypes{
		Xmlns: nsContentTypes,
		Defaults: []xlsxDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xlsxOverride{
			{PartName: "/" + partWorkbook, ContentType: ctWorkbook},
			{PartName: "/" + partStyles, ContentType: ctStyles},
		},
	}
	for i := 1; i <= sheetCount; i++ {
		t.Overrides = append(t.Overrides, xlsxOverride{PartName: "/" + sheetPartName(i), ContentType: ctWorksheet})
	}
	return t
}

func rootRels() xlsxRelationships {
	return xlsxRelationships{
		Xmlns: nsPackageRels,
		Relationships: []xlsxRelationship{
			{ID: relID(1), Type: relOfficeDocument, Target: partWorkbook},
		},
	}
}

// workbookParts returns the workbook part and its relationships. Sheet i
// (1-based) has sheetId i and relationship rId<i>; styles come after the
// sheets.
func workbookParts(names []string) (xlsxWorkbook, xlsxRelationships) {
	wb := xlsxWorkbook{Xmlns: nsMain, XmlnsR: nsRelationships}
	rels := xlsxRelationships{Xmlns: nsPackageRels}
	for i, name := range names {
		n := i + 1
		wb.Sheets = append(wb.Sheets, xlsxSheet{Name: name, SheetID: n, RID: relID(n)})
		rels.Relationships = append(rels.Relationships, xlsxRelationship{
			ID:     relID(n),
			Type:   relWorksheet,
			Target: strings.TrimPrefix(sheetPartName(n), "xl/"),
		})
	}
	rels.Relationships = append(rels.Relationships, xlsxRelationship{
		ID:     relID(len(names) + 1),
		Type:   relStyles,
		Target: strings.TrimPrefix(partStyles, "xl/"),
	})
	return wb, rels
}

// stylesPart renders the style sheet for a style table. Every entry uses the
// single font, fill and border.
func stylesPart(st *celltype.StyleTable) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<styleSheet xmlns="` + nsMain + `">`)
	b.WriteString(`<fonts count="1"><font><sz val="11"/><name val="Calibri"/><family val="2"/></font></fonts>`)
	b.WriteString(`<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>`)
	b.WriteString(`<borders count="1"><border><left/><right/><top/><bottom/><diagonal/></border></borders>`)
	b.WriteString(`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>`)
	fmt.Fprintf(&b, `<cellXfs count="%d">`, st.Len())
	for _, f := range st.Formats() {
		fmt.Fprintf(&b, `<xf numFmtId="%d" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>`, f.FormatID)
	}
	b.WriteString(`</cellXfs>`)
	b.WriteString(`<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>`)
	b.WriteString(`</styleSheet>`)
	return b.String()
}
