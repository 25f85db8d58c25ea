package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"SalarySentinel/internal/notifier"
	"SalarySentinel/internal/payroll"
	"SalarySentinel/internal/scheduler"
	"SalarySentinel/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the scheduled payroll audit and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return serve(a)
		},
	}
}

func serve(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	var tn *notifier.TelegramNotifier
	var sender notifier.Sender
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
		sender = tn
	} else {
		a.logger.Info("telegram not configured, chat notifications disabled")
	}

	if a.cfg.Audit.CSVPath != "" {
		sched := scheduler.NewScheduler(ctx, a.engine, payroll.NewCSVSource(a.cfg.Audit.CSVPath), sender, a.logger)
		if err := sched.RegisterAudit(a.cfg.Audit.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if tn != nil {
			g.Go(func() error {
				tn.StartPolling(ctx, sched.HandleCommand)
				return nil
			})
			a.logger.Info("telegram polling started")
		}
		if os.Getenv("RUN_ON_START") == "true" {
			a.logger.Info("RUN_ON_START enabled, running audit now")
			go sched.RunAuditTask()
		}
	} else {
		a.logger.Info("audit.csv_path not set, scheduled audit disabled")
	}

	g.Go(func() error {
		return server.New(a.engine, a.logger).ListenAndServe(ctx, a.cfg.Server.ListenAddr)
	})
	return g.Wait()
}
