package main

import "fmt"

// CatalogItem is one category/subcategory entry from the service catalog.
// Loaded once at startup, immutable afterward.
type CatalogItem struct {
	Category         string
	Subcategory      string
	ShortDescription string
	Description      string
}

// LabelKey is the canonical label the classifier is expected to emit for
// this item: "<category>-<subcategory>".
func (c CatalogItem) LabelKey() string {
	return fmt.Sprintf("%s-%s", c.Category, c.Subcategory)
}

// SupportQuery is one support ticket to classify, with its known-correct
// label for scoring.
type SupportQuery struct {
	ID               string
	Summary          string
	Details          string
	ExpectedCategory string
}

// InputText is the text actually sent for classification. The
// "{summary} - {details}" shape is a convention shared with the query
// dataset authors.
func (q SupportQuery) InputText() string {
	return fmt.Sprintf("%s - %s", q.Summary, q.Details)
}

// ClassificationResult records the outcome of one classified query.
type ClassificationResult struct {
	QueryID   string
	InputText string
	Expected  string
	Predicted string
	Correct   bool
}

// SchemaError reports a required column missing from a dataset header.
// Schema errors abort the run before any query is processed.
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s dataset is missing required column: %s", e.Dataset, e.Column)
}

// ConfigError reports missing classification service credentials. Whether it
// aborts the run or only warns is decided by strict_config.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	out := "missing required configuration:"
	for i, m := range e.Missing {
		if i > 0 {
			out += ","
		}
		out += " " + m
	}
	return out
}
