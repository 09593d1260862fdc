package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubClassifier returns canned predictions keyed by substring of the user
// prompt, or a fixed response for everything.
type stubClassifier struct {
	response string
	err      error
	calls    int
	prompts  []string
	systems  []string
}

func (s *stubClassifier) Classify(ctx context.Context, userPrompt, systemPrompt string) (string, LLMUsage, error) {
	s.calls++
	s.prompts = append(s.prompts, userPrompt)
	s.systems = append(s.systems, systemPrompt)
	if s.err != nil {
		return "", LLMUsage{}, s.err
	}
	return s.response, LLMUsage{InputTokens: 10, OutputTokens: 2}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func evalFixtureConfig(t *testing.T, catalogRows, queryRows string) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		CatalogPath: filepath.Join(dir, "catalog.csv"),
		QueriesPath: filepath.Join(dir, "queries.csv"),
		LLMProvider: "anthropic",
	}
	writeFile(t, cfg.CatalogPath, catalogHeader+"\n"+catalogRows)
	writeFile(t, cfg.QueriesPath, queryHeader+"\n"+queryRows)
	return cfg
}

func TestRunEvaluationCorrectPrediction(t *testing.T) {
	cfg := evalFixtureConfig(t,
		"SAP,SAP new user,New SAP account,Request a new SAP user account\n",
		"1,need SAP access,,SAP-SAP new user\n")
	stub := &stubClassifier{response: "SAP-SAP new user"}

	outcome, err := RunEvaluation(context.Background(), cfg, stub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Stats.PassCount() != 1 || outcome.Stats.FailCount() != 0 {
		t.Fatalf("expected 1 pass / 0 fail, got %d/%d", outcome.Stats.PassCount(), outcome.Stats.FailCount())
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 classification call, got %d", stub.calls)
	}
	if !strings.Contains(stub.prompts[0], "Category: SAP") {
		t.Fatalf("user prompt missing catalog grounding:\n%s", stub.prompts[0])
	}
	if !strings.Contains(stub.prompts[0], "need SAP access - ") {
		t.Fatalf("user prompt missing input text convention:\n%s", stub.prompts[0])
	}
	if outcome.Usage.TotalTokens() != 12 {
		t.Fatalf("expected usage to accumulate, got %+v", outcome.Usage)
	}
}

func TestRunEvaluationUnknownPrediction(t *testing.T) {
	cfg := evalFixtureConfig(t,
		"SAP,SAP new user,New SAP account,Request a new SAP user account\n",
		"1,need SAP access,,SAP-SAP new user\n")
	stub := &stubClassifier{response: "Unknown"}

	outcome, err := RunEvaluation(context.Background(), cfg, stub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Stats.PassCount() != 0 || outcome.Stats.FailCount() != 1 {
		t.Fatalf("expected 0 pass / 1 fail, got %d/%d", outcome.Stats.PassCount(), outcome.Stats.FailCount())
	}
	results := outcome.Results.Results()
	if len(results) != 1 || results[0].Predicted != "Unknown" || results[0].Correct {
		t.Fatalf("unexpected result record: %+v", results)
	}
}

func TestRunEvaluationEmptyQueryDataset(t *testing.T) {
	cfg := evalFixtureConfig(t,
		"SAP,SAP new user,New SAP account,Request a new SAP user account\n",
		"")
	stub := &stubClassifier{response: "SAP-SAP new user"}

	outcome, err := RunEvaluation(context.Background(), cfg, stub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := outcome.Stats.Summary()
	if summary.TotalQueries != 0 || summary.ProcessedQueries != 0 {
		t.Fatalf("expected all-zero stats, got %+v", summary)
	}
	if summary.PassPercentage != 0 || summary.FailPercentage != 0 {
		t.Fatalf("expected zero percentages, got %+v", summary)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no classification calls, got %d", stub.calls)
	}
}

func TestRunEvaluationCatalogSchemaErrorAborts(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CatalogPath: filepath.Join(dir, "catalog.csv"),
		QueriesPath: filepath.Join(dir, "queries.csv"),
	}
	// Catalog is missing the Category column.
	writeFile(t, cfg.CatalogPath, "Catalog Item Name,Catalog Item Short Description,Catalog Item Description\nX,a,b\n")
	writeFile(t, cfg.QueriesPath, queryHeader+"\n1,need SAP access,,SAP-SAP new user\n")
	stub := &stubClassifier{response: "SAP-SAP new user"}

	_, err := RunEvaluation(context.Background(), cfg, stub)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	if stub.calls != 0 {
		t.Fatalf("schema error must abort before any query is processed, got %d calls", stub.calls)
	}
}

func TestRunEvaluationServiceErrorScoresAsFail(t *testing.T) {
	cfg := evalFixtureConfig(t,
		"SAP,SAP new user,New SAP account,Request a new SAP user account\n",
		"1,need SAP access,,SAP-SAP new user\n"+
			"2,another ticket,,SAP-SAP new user\n")
	stub := &stubClassifier{err: fmt.Errorf("connection refused")}

	outcome, err := RunEvaluation(context.Background(), cfg, stub)
	if err != nil {
		t.Fatalf("per-query service errors must not abort the run: %v", err)
	}

	if outcome.Stats.FailCount() != 2 {
		t.Fatalf("expected both queries to score as fail, got %d", outcome.Stats.FailCount())
	}
	results := outcome.Results.Results()
	if !strings.Contains(results[0].Predicted, "classification error") {
		t.Fatalf("expected error text as predicted value, got %q", results[0].Predicted)
	}
	if stub.calls != 2 {
		t.Fatalf("expected the run to continue past the first failure, got %d calls", stub.calls)
	}
}

func TestBuildReportContainsStatsAndListing(t *testing.T) {
	cfg := evalFixtureConfig(t,
		"SAP,SAP new user,New SAP account,Request a new SAP user account\n",
		"1,need SAP access,,SAP-SAP new user\n")
	stub := &stubClassifier{response: "SAP-SAP new user"}

	outcome, err := RunEvaluation(context.Background(), cfg, stub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := BuildReport(outcome)
	for _, want := range []string{"Query Statistics:", "Classification Results:", "[PASS] query=1", outcome.RunID} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}
