package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "ticketbench",
		Short: "Classify support tickets against a service catalog and score the predictions",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one evaluation pass over the query dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig()

			if err := cfg.ValidateService(); err != nil {
				if cfg.StrictConfig {
					return fmt.Errorf("strict_config: %w", err)
				}
				log.Printf("Warning: %v (continuing; classification calls will fail and score as incorrect)", err)
			}

			classifier, err := NewClassifier(cfg)
			if err != nil {
				return err
			}

			db, err := InitDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init run history db: %w", err)
			}
			defer db.Close()

			outcome, err := RunEvaluation(context.Background(), cfg, classifier)
			if err != nil {
				return err
			}

			var api *slack.Client
			if cfg.SlackConfigured() {
				api = slack.New(cfg.SlackBotToken)
			}
			finishRun(cfg, db, api, outcome)

			fmt.Println(BuildReport(outcome))
			return nil
		},
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run evaluation passes on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig()

			if err := cfg.ValidateService(); err != nil {
				if cfg.StrictConfig {
					return fmt.Errorf("strict_config: %w", err)
				}
				log.Printf("Warning: %v (continuing; classification calls will fail and score as incorrect)", err)
			}

			classifier, err := NewClassifier(cfg)
			if err != nil {
				return err
			}

			db, err := InitDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init run history db: %w", err)
			}
			defer db.Close()

			return RunScheduler(cfg, db, classifier)
		},
	}

	var historyLimit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show summaries of past evaluation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig()

			db, err := InitDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init run history db: %w", err)
			}
			defer db.Close()

			summaries, err := ListRunSummaries(db, historyLimit)
			if err != nil {
				return err
			}
			fmt.Println(FormatRunHistory(summaries))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")

	root.AddCommand(runCmd, scheduleCmd, historyCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
