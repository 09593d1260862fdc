package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunSummaryRoundTrip(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	defer db.Close()

	started := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	summary := RunSummary{
		RunID:      "run-abc-123",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		Provider:   "anthropic",
		Model:      "claude-sonnet-4-5-20250929",
		Stats: StatsSummary{
			TotalQueries: 10,
			PassCount:    7,
			FailCount:    3,
		},
		Usage: LLMUsage{InputTokens: 1000, OutputTokens: 50},
	}
	if err := InsertRunSummary(db, summary); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := ListRunSummaries(db, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 run, got %d", len(got))
	}
	if got[0].RunID != "run-abc-123" || got[0].Provider != "anthropic" {
		t.Fatalf("unexpected run: %+v", got[0])
	}
	if got[0].Stats.PassCount != 7 || got[0].Stats.FailCount != 3 {
		t.Fatalf("unexpected counts: %+v", got[0].Stats)
	}
	if got[0].Stats.PassPercentage != 70 {
		t.Fatalf("expected recomputed pass percentage 70, got %f", got[0].Stats.PassPercentage)
	}
	if got[0].Usage.TotalTokens() != 1050 {
		t.Fatalf("unexpected usage: %+v", got[0].Usage)
	}
}

func TestListRunSummariesOrderAndLimit(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	defer db.Close()

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		err := InsertRunSummary(db, RunSummary{
			RunID:      id,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i) * time.Hour),
			Provider:   "openai",
			Stats:      StatsSummary{TotalQueries: 1, PassCount: 1},
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	got, err := ListRunSummaries(db, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit 2, got %d", len(got))
	}
	if got[0].RunID != "third" || got[1].RunID != "second" {
		t.Fatalf("expected newest first, got %s then %s", got[0].RunID, got[1].RunID)
	}
}

func TestFormatRunHistory(t *testing.T) {
	if !strings.Contains(FormatRunHistory(nil), "No evaluation runs") {
		t.Fatal("expected empty-history message")
	}

	summaries := []RunSummary{{
		RunID:     "abcdefgh-1234",
		StartedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Provider:  "anthropic",
		Stats:     StatsSummary{TotalQueries: 4, PassCount: 3, FailCount: 1, PassPercentage: 75, FailPercentage: 25},
	}}
	out := FormatRunHistory(summaries)
	for _, want := range []string{"abcdefgh", "anthropic", "pass=3 (75.0%)", "fail=1 (25.0%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("history missing %q:\n%s", want, out)
		}
	}
}
