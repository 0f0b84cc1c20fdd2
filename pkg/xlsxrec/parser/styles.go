package parser

import (
	"encoding/xml"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/celltype"
)

type stylesXML struct {
	NumFmts []struct {
		ID   string `xml:"numFmtId,attr"`
		Code string `xml:"formatCode,attr"`
	} `xml:"numFmts>numFmt"`
	CellXfs []struct {
		NumFmtID string `xml:"numFmtId,attr"`
	} `xml:"cellXfs>xf"`
}

// ParseStyles decodes the cellXfs table of a styles part. Entries whose
// number format is defined in numFmts carry its format code. A malformed
// format id is read as the general format.
func ParseStyles(data []byte) (*celltype.StyleTable, error) {
	var doc stylesXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	codes := make(map[int]string, len(doc.NumFmts))
	for _, nf := range doc.NumFmts {
		codes[atoiOr(nf.ID, 0)] = nf.Code
	}
	formats := make([]celltype.CellFormat, len(doc.CellXfs))
	for i, xf := range doc.CellXfs {
		id := atoiOr(xf.NumFmtID, 0)
		formats[i] = celltype.CellFormat{FormatID: id, FormatCode: codes[id]}
	}
	return celltype.NewStyleTable(formats), nil
}
