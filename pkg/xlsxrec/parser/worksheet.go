package parser

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

type cellXML struct {
	R      string    `xml:"r,attr"`
	T      string    `xml:"t,attr"`
	S      string    `xml:"s,attr"`
	V      string    `xml:"v"`
	Inline *richText `xml:"is"`
}

type rowXML struct {
	R     string    `xml:"r,attr"`
	Cells []cellXML `xml:"c"`
}

// ParseWorksheet decodes the rows of a worksheet part in document order.
// Only stored cells are returned; nothing is synthesized for gaps.
func ParseWorksheet(r io.Reader) ([]models.Row, error) {
	var rows []models.Row
	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "row" {
			continue
		}
		var rx rowXML
		if err := decoder.DecodeElement(&rx, &se); err != nil {
			return nil, err
		}
		rows = append(rows, convertRow(rx))
	}
}

func convertRow(rx rowXML) models.Row {
	row := models.Row{Number: atoiOr(rx.R, 0), Cells: make([]models.Cell, len(rx.Cells))}
	for i, cx := range rx.Cells {
		c := models.Cell{Ref: cx.R, Type: cx.T, Value: cx.V}
		if s, err := strconv.Atoi(cx.S); err == nil && s >= 0 {
			c.Style = &s
		}
		if cx.Inline != nil {
			c.Value = cx.Inline.String()
		}
		row.Cells[i] = c
	}
	return row
}

// atoiOr parses a numeric attribute, using fallback when it is absent,
// malformed or negative.
func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
