package main

import (
	"encoding/csv"
	"io"
	"log"
	"os"
)

// Required query CSV columns.
const (
	colQueryID          = "ID"
	colQuerySummary     = "Summary"
	colQueryDetails     = "Details"
	colExpectedCategory = "Expected Category"
)

// LoadQueriesCSV reads the support query dataset. A missing required column
// is a schema error. An unreadable file degrades to zero queries (logged),
// which the orchestrator treats as a clean no-op run. Malformed rows are
// logged and skipped rather than aborting the load.
func LoadQueriesCSV(path string) ([]SupportQuery, error) {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("queries load failed path=%s err=%v (continuing with zero queries)", path, err)
		return nil, nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		log.Printf("queries header read failed path=%s err=%v (continuing with zero queries)", path, err)
		return nil, nil
	}

	cols, err := requireColumns("query", header, colQueryID, colQuerySummary, colQueryDetails, colExpectedCategory)
	if err != nil {
		return nil, err
	}

	maxIdx := 0
	for _, i := range cols {
		if i > maxIdx {
			maxIdx = i
		}
	}

	var queries []SupportQuery
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("queries row skipped path=%s line=%d err=%v", path, line, err)
			continue
		}
		if len(row) <= maxIdx {
			log.Printf("queries row skipped path=%s line=%d fields=%d (too short)", path, line, len(row))
			continue
		}
		queries = append(queries, SupportQuery{
			ID:               row[cols[colQueryID]],
			Summary:          row[cols[colQuerySummary]],
			Details:          row[cols[colQueryDetails]],
			ExpectedCategory: row[cols[colExpectedCategory]],
		})
	}

	log.Printf("queries loaded path=%s count=%d", path, len(queries))
	return queries, nil
}
