package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
)

// Required catalog CSV columns, matched by header name, not position.
const (
	colCategory       = "Category"
	colItemName       = "Catalog Item Name"
	colItemShortDescr = "Catalog Item Short Description"
	colItemDescr      = "Catalog Item Description"
)

// referenceSeparator terminates each item block in the rendered reference
// text. PromptComposer embeds that text verbatim, so the format is a
// contract: it must stay byte-stable across reloads.
const referenceSeparator = "---"

// CatalogReader loads and holds the service catalog used as grounding
// context for classification.
type CatalogReader struct {
	items []CatalogItem
}

// LoadCatalogCSV reads the catalog dataset. A missing required column is a
// schema error and aborts the caller. An unreadable or malformed file only
// degrades to an empty catalog: the pipeline can still run, with poor
// classification quality instead of a crash.
func (r *CatalogReader) LoadCatalogCSV(path string) ([]CatalogItem, error) {
	r.items = nil

	file, err := os.Open(path)
	if err != nil {
		log.Printf("catalog load failed path=%s err=%v (continuing with empty catalog)", path, err)
		return nil, nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		log.Printf("catalog header read failed path=%s err=%v (continuing with empty catalog)", path, err)
		return nil, nil
	}

	cols, err := requireColumns("catalog", header, colCategory, colItemName, colItemShortDescr, colItemDescr)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		log.Printf("catalog rows read failed path=%s err=%v (continuing with empty catalog)", path, err)
		r.items = nil
		return nil, nil
	}

	for _, row := range rows {
		r.items = append(r.items, CatalogItem{
			Category:         row[cols[colCategory]],
			Subcategory:      row[cols[colItemName]],
			ShortDescription: row[cols[colItemShortDescr]],
			Description:      row[cols[colItemDescr]],
		})
	}

	log.Printf("catalog loaded path=%s items=%d", path, len(r.items))
	return r.items, nil
}

// Items returns all loaded catalog items in input order.
func (r *CatalogReader) Items() []CatalogItem {
	return r.items
}

// ItemsByCategory returns the items whose category matches, ignoring case.
// No match is an empty result, not an error.
func (r *CatalogReader) ItemsByCategory(category string) []CatalogItem {
	var out []CatalogItem
	for _, item := range r.items {
		if strings.EqualFold(item.Category, category) {
			out = append(out, item)
		}
	}
	return out
}

// ReferenceText renders the full catalog as the grounding block embedded in
// every classification prompt: four labeled lines per item, then a
// separator line. Order-preserving and deterministic.
func (r *CatalogReader) ReferenceText() string {
	var out strings.Builder
	for _, item := range r.items {
		fmt.Fprintf(&out, "Category: %s\n", item.Category)
		fmt.Fprintf(&out, "Subcategory: %s\n", item.Subcategory)
		fmt.Fprintf(&out, "Brief Description: %s\n", item.ShortDescription)
		fmt.Fprintf(&out, "Description: %s\n", item.Description)
		out.WriteString(referenceSeparator + "\n")
	}
	return out.String()
}

// requireColumns maps required header names to their indices, failing with
// a SchemaError on the first one absent. Header names are matched exactly
// after trimming surrounding whitespace.
func requireColumns(dataset string, header []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	cols := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := index[name]
		if !ok {
			return nil, &SchemaError{Dataset: dataset, Column: name}
		}
		cols[name] = i
	}
	return cols, nil
}
