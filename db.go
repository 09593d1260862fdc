package main

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// RunSummary is the persisted record of one evaluation run.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Provider   string
	Model      string
	Stats      StatsSummary
	Usage      LLMUsage
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS eval_runs (
		run_id        TEXT PRIMARY KEY,
		started_at    DATETIME NOT NULL,
		finished_at   DATETIME NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT DEFAULT '',
		total_queries INTEGER NOT NULL,
		pass_count    INTEGER NOT NULL,
		fail_count    INTEGER NOT NULL,
		input_tokens  INTEGER DEFAULT 0,
		output_tokens INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_eval_runs_started_at ON eval_runs(started_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}

func InsertRunSummary(db *sql.DB, summary RunSummary) error {
	_, err := db.Exec(
		`INSERT INTO eval_runs (run_id, started_at, finished_at, provider, model, total_queries, pass_count, fail_count, input_tokens, output_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.StartedAt, summary.FinishedAt, summary.Provider, summary.Model,
		summary.Stats.TotalQueries, summary.Stats.PassCount, summary.Stats.FailCount,
		summary.Usage.InputTokens, summary.Usage.OutputTokens,
	)
	return err
}

// ListRunSummaries returns the most recent runs, newest first. Derived
// percentage fields are recomputed from the stored counts.
func ListRunSummaries(db *sql.DB, limit int) ([]RunSummary, error) {
	rows, err := db.Query(
		`SELECT run_id, started_at, finished_at, provider, model, total_queries, pass_count, fail_count, input_tokens, output_tokens
		 FROM eval_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.StartedAt, &s.FinishedAt, &s.Provider, &s.Model,
			&s.Stats.TotalQueries, &s.Stats.PassCount, &s.Stats.FailCount,
			&s.Usage.InputTokens, &s.Usage.OutputTokens); err != nil {
			return nil, err
		}
		s.Stats.ProcessedQueries = s.Stats.PassCount + s.Stats.FailCount
		s.Stats.RemainingQueries = s.Stats.TotalQueries - s.Stats.ProcessedQueries
		if s.Stats.TotalQueries > 0 {
			s.Stats.PassPercentage = float64(s.Stats.PassCount) / float64(s.Stats.TotalQueries) * 100
			s.Stats.FailPercentage = float64(s.Stats.FailCount) / float64(s.Stats.TotalQueries) * 100
			s.Stats.CompletionPercentage = float64(s.Stats.ProcessedQueries) / float64(s.Stats.TotalQueries) * 100
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// FormatRunHistory renders past run summaries for the history command.
func FormatRunHistory(summaries []RunSummary) string {
	if len(summaries) == 0 {
		return "No evaluation runs recorded yet."
	}
	var out strings.Builder
	out.WriteString("Recent evaluation runs:\n")
	for _, s := range summaries {
		model := s.Model
		if model == "" {
			model = "(default)"
		}
		fmt.Fprintf(&out, "  %s  %s  %s/%s  total=%d pass=%d (%.1f%%) fail=%d (%.1f%%) tokens=%d\n",
			s.StartedAt.Format("2006-01-02 15:04"), shortRunID(s.RunID),
			s.Provider, model,
			s.Stats.TotalQueries, s.Stats.PassCount, s.Stats.PassPercentage,
			s.Stats.FailCount, s.Stats.FailPercentage, s.Usage.TotalTokens())
	}
	return out.String()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
