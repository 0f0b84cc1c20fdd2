package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec"
	"github.com/ukaji3/xlsxrec-go/pkg/xlsxrec/models"
)

// decodeInput reads a YAML or JSON document describing the sheets to write.
// The document is either a mapping from sheet name to a list of records, or a
// bare list of records for a single sheet named defaultSheet. Records are
// mappings of field name to scalar; key order is kept.
func decodeInput(r io.Reader, defaultSheet string) ([]models.SheetRecords, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse input: %w", err)
	}
	root := resolveAlias(doc.Content[0])

	switch root.Kind {
	case yaml.SequenceNode:
		if defaultSheet == "" {
			defaultSheet = xlsxrec.DefaultSheetName
		}
		records, err := decodeRecords(root)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", defaultSheet, err)
		}
		return []models.SheetRecords{{Name: defaultSheet, Records: records}}, nil
	case yaml.MappingNode:
		sheets := make([]models.SheetRecords, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			name := root.Content[i].Value
			records, err := decodeRecords(resolveAlias(root.Content[i+1]))
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
			sheets = append(sheets, models.SheetRecords{Name: name, Records: records})
		}
		return sheets, nil
	}
	return nil, fmt.Errorf("line %d: input must be a mapping of sheet names or a list of records", root.Line)
}

func decodeRecords(n *yaml.Node) ([]any, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of records", n.Line)
	}
	records := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		if isNull(item) {
			records = append(records, nil)
			continue
		}
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(n *yaml.Node) (*models.Record, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: a record must be a mapping", n.Line)
	}
	rec := models.NewRecord(len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := scalarValue(resolveAlias(n.Content[i+1]))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, v)
	}
	return rec, nil
}

// scalarValue converts a scalar node to the Go value its tag implies.
func scalarValue(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: nested values are not supported", n.Line)
	}
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return u, nil
		}
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return n.Value, nil
		}
		return f, nil
	case "!!timestamp":
		var t time.Time
		err := n.Decode(&t)
		return t, err
	}
	return n.Value, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
