package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SalarySentinel/internal/notifier"
	"SalarySentinel/internal/payroll"
	"SalarySentinel/internal/scheduler"
)

func newAuditCmd() *cobra.Command {
	var (
		csvPath       string
		notify        bool
		asJSON        bool
		failOnAnomaly bool
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Evaluate every row of a payroll CSV and report anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if csvPath == "" {
				csvPath = a.cfg.Audit.CSVPath
			}
			if csvPath == "" {
				return fmt.Errorf("no payroll CSV: pass --csv or set audit.csv_path")
			}

			var sender notifier.Sender
			if notify {
				if !a.cfg.TelegramEnabled() {
					return fmt.Errorf("--notify needs telegram.bot_token and telegram.chat_id")
				}
				sender = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sched := scheduler.NewScheduler(ctx, a.engine, payroll.NewCSVSource(csvPath), sender, a.logger)
			report, err := sched.RunAuditNow()
			if err != nil {
				return err
			}

			if sender != nil {
				if err := sender.SendWithRetry(ctx, notifier.FormatBatchReport(report), 3); err != nil {
					return fmt.Errorf("send report: %w", err)
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Printf("Source: %s\nRows: %d  Evaluated: %d  Anomalies: %d  Failed: %d\n",
					report.Source, report.Total, report.Evaluated, len(report.Anomalies), len(report.Failures))
				for _, ev := range report.Anomalies {
					fmt.Printf("  ANOMALY %-10s %-30s actual %s predicted %s (%+.1f%%)\n",
						ev.Record.EmployeeID, ev.Record.JobTitle,
						notifier.Dollars(ev.Record.ActualSalary), notifier.Dollars(ev.Prediction.Salary),
						ev.Verdict.PercentDeviation)
				}
				for _, f := range report.Failures {
					fmt.Printf("  FAILED  row %d: %s: %s\n", f.Row, f.Code, f.Message)
				}
			}

			if failOnAnomaly && len(report.Anomalies) > 0 {
				return fmt.Errorf("%d anomalies found", len(report.Anomalies))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&csvPath, "csv", "", "payroll CSV to audit (default audit.csv_path)")
	f.BoolVar(&notify, "notify", false, "send the report to the Telegram chat")
	f.BoolVar(&asJSON, "json", false, "print the report as JSON")
	f.BoolVar(&failOnAnomaly, "fail-on-anomaly", false, "exit non-zero when any anomaly is found")
	return cmd
}
