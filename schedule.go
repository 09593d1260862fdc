package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// RunScheduler repeats full evaluation passes on a cron schedule.
// The schedule is a standard 5-field cron expression (minute hour
// day-of-month month day-of-week). Examples: "0 9 * * *" (daily 9am),
// "0 9 * * 1" (Mondays 9am).
func RunScheduler(cfg Config, db *sql.DB, classifier Classifier) error {
	schedule := strings.TrimSpace(cfg.RunSchedule)
	if schedule == "" {
		return fmt.Errorf("run_schedule is not set")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid run_schedule '%s': %w", schedule, err)
	}

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = slack.New(cfg.SlackBotToken)
	}

	log.Printf("Evaluation runs scheduled (cron: %s)", schedule)

	for {
		now := time.Now()
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next evaluation run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		outcome, err := RunEvaluation(context.Background(), cfg, classifier)
		if err != nil {
			// Dataset errors are left for the operator to fix before the
			// next tick; the scheduler itself keeps going.
			log.Printf("Scheduled run error: %v", err)
			continue
		}
		finishRun(cfg, db, api, outcome)
	}
}

// finishRun handles everything after the classification loop: report file,
// stats series, run history row, optional Slack summary. Persistence
// failures are logged and do not invalidate the in-memory outcome.
func finishRun(cfg Config, db *sql.DB, api *slack.Client, outcome *RunOutcome) {
	report := BuildReport(outcome)

	if path, err := WriteReportFile(report, cfg.ReportOutputDir, outcome.RunID, outcome.StartedAt); err != nil {
		log.Printf("report write error: %v", err)
	} else {
		log.Printf("report written path=%s", path)
	}

	if err := AppendStatsJSON(cfg.StatsPath, outcome.Stats.Summary()); err != nil {
		log.Printf("stats series append error: %v", err)
	}

	if db != nil {
		if err := InsertRunSummary(db, outcome.Summary()); err != nil {
			log.Printf("run history insert error: %v", err)
		}
	}

	if api != nil && cfg.ReportChannelID != "" {
		PostRunSummary(api, cfg.ReportChannelID, outcome)
	}
}
