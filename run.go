package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// RunOutcome is everything one evaluation pass produced.
type RunOutcome struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Provider   string
	Model      string
	Stats      *QueryStats
	Results    *ResultsStore
	Usage      LLMUsage
}

func (o *RunOutcome) Summary() RunSummary {
	return RunSummary{
		RunID:      o.RunID,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
		Provider:   o.Provider,
		Model:      o.Model,
		Stats:      o.Stats.Summary(),
		Usage:      o.Usage,
	}
}

// RunEvaluation drives one full pass: load catalog and queries, then for
// each query compose prompts, classify, evaluate, record. Dataset schema
// errors abort before anything is classified; a single failed
// classification never aborts the run.
func RunEvaluation(ctx context.Context, cfg Config, classifier Classifier) (*RunOutcome, error) {
	outcome := &RunOutcome{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Provider:  cfg.LLMProvider,
		Model:     cfg.LLMModel,
	}

	catalog := &CatalogReader{}
	if _, err := catalog.LoadCatalogCSV(cfg.CatalogPath); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if len(catalog.Items()) == 0 {
		log.Printf("run %s: empty catalog, classification will run with no grounding", outcome.RunID)
	}

	queries, err := LoadQueriesCSV(cfg.QueriesPath)
	if err != nil {
		return nil, fmt.Errorf("loading queries: %w", err)
	}

	composer := NewPromptComposer()
	referenceText := catalog.ReferenceText()

	outcome.Stats = NewQueryStats(len(queries))
	outcome.Results = NewResultsStore()

	log.Printf("run %s started provider=%s queries=%d catalog_items=%d",
		outcome.RunID, cfg.LLMProvider, len(queries), len(catalog.Items()))

	for _, query := range queries {
		inputText := query.InputText()
		systemPrompt, userPrompt := composer.Compose(referenceText, inputText)

		predicted, usage, err := classifier.Classify(ctx, userPrompt, systemPrompt)
		outcome.Usage.Add(usage)
		if err != nil {
			// A failed call scores as a wrong answer; the error text stands
			// in as the prediction so the report shows what happened.
			log.Printf("run %s: query=%s classification error: %v", outcome.RunID, query.ID, err)
			predicted = fmt.Sprintf("classification error: %v", err)
		}

		correct := outcome.Results.AddResult(query.ID, inputText, query.ExpectedCategory, predicted)
		if correct {
			outcome.Stats.RecordPass()
		} else {
			outcome.Stats.RecordFail()
		}
		log.Printf("run %s: query=%s correct=%t expected=%q predicted=%q",
			outcome.RunID, query.ID, correct, query.ExpectedCategory, predicted)
	}

	outcome.FinishedAt = time.Now()
	log.Printf("run %s finished results=%d pass=%d fail=%d tokens_in=%d tokens_out=%d",
		outcome.RunID, outcome.Results.Len(), outcome.Stats.PassCount(), outcome.Stats.FailCount(),
		outcome.Usage.InputTokens, outcome.Usage.OutputTokens)

	return outcome, nil
}

// BuildReport renders the run's final report: the stats summary followed by
// the per-query results listing.
func BuildReport(outcome *RunOutcome) string {
	return fmt.Sprintf("Evaluation Run %s (%s)\n\n%s\n\n%s",
		outcome.RunID, outcome.StartedAt.Format("2006-01-02 15:04:05"),
		outcome.Stats.String(),
		outcome.Results.Render())
}
