package parser

import (
	"encoding/xml"
	"io"
	"strings"
)

// richText is the content of a shared string item or an inline string: plain
// text, or a list of formatted runs. Phonetic runs are not part of the value.
type richText struct {
	T    *string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (rt richText) String() string {
	if len(rt.Runs) == 0 {
		if rt.T == nil {
			return ""
		}
		return *rt.T
	}
	var b strings.Builder
	if rt.T != nil {
		b.WriteString(*rt.T)
	}
	for _, r := range rt.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

// ParseSharedStrings decodes a shared string part into its ordered items.
// Rich text items are flattened by concatenating their runs. The declared
// counts on the root element are not trusted.
func ParseSharedStrings(r io.Reader) ([]string, error) {
	var result []string
	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "si" {
			continue
		}
		var item richText
		if err := decoder.DecodeElement(&item, &se); err != nil {
			return nil, err
		}
		result = append(result, item.String())
	}
}
