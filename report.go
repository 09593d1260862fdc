package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/slack-go/slack"
)

// WriteReportFile persists the full run report under outputDir.
func WriteReportFile(content, outputDir, runID string, runDate time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("eval_%s_%s.txt", shortRunID(runID), runDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

// AppendStatsJSON appends one stats summary to the JSON series file, a flat
// array with the latest entry last. Downstream visualization tooling reads
// this file as-is.
func AppendStatsJSON(path string, summary StatsSummary) error {
	var series []StatsSummary
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &series); err != nil {
			return fmt.Errorf("parse existing stats series: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// First run: start a new series.
	default:
		// An existing series that cannot be read must not be clobbered.
		return fmt.Errorf("read stats series: %w", err)
	}

	series = append(series, summary)
	out, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats series: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// PostRunSummary posts the stats summary to the configured Slack channel.
// Failures are logged, not propagated; the report on disk is the source of
// truth.
func PostRunSummary(api *slack.Client, channelID string, outcome *RunOutcome) {
	msg := fmt.Sprintf("Evaluation run `%s` finished:\n%s", shortRunID(outcome.RunID), outcome.Stats.String())
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(msg, false))
	if err != nil {
		log.Printf("slack post error channel=%s err=%v", channelID, err)
	} else {
		log.Printf("slack summary posted channel=%s run=%s", channelID, shortRunID(outcome.RunID))
	}
}
