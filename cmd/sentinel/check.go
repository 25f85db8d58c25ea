package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"SalarySentinel/internal/metrics"
	"SalarySentinel/internal/model"
	"SalarySentinel/internal/notifier"
)

type checkOptions struct {
	record     model.EmployeeRecord
	jobTitle   string
	policy     string
	multiplier float64
	percentile float64
	asJSON     bool
	notify     bool
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate one employee record",
		Example: `  sentinel check --job "Police Officer" --hourly 30 --hours 40 \
    --overtime-ratio 0.1 --grade 2500 --step 5 --actual 50000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.record.EmployeeID, "id", "", "employee identifier, echoed in the output")
	f.StringVar(&opts.jobTitle, "job", "", "job title")
	f.Float64Var(&opts.record.TotalHourlyRate, "hourly", 0, "total hourly rate")
	f.Float64Var(&opts.record.ScheduledHours, "hours", 40, "scheduled weekly hours")
	f.Float64Var(&opts.record.OvertimeRatio, "overtime-ratio", 0, "overtime rate / base rate")
	f.Float64Var(&opts.record.PayGrade, "grade", 0, "pay grade")
	f.Float64Var(&opts.record.PayStep, "step", 0, "pay step")
	f.Float64Var(&opts.record.LongevityPercentage, "longevity", 0, "longevity percentage")
	f.Float64Var(&opts.record.ActualSalary, "actual", 0, "actual annual salary")
	f.StringVar(&opts.policy, "policy", "", "override threshold policy (fixed_std|percentile)")
	f.Float64Var(&opts.multiplier, "multiplier", 0, "override std multiplier (2 or 3)")
	f.Float64Var(&opts.percentile, "percentile", 0, "override percentile (90-99)")
	f.BoolVar(&opts.asJSON, "json", false, "print the evaluation as JSON")
	f.BoolVar(&opts.notify, "notify", false, "also send the verdict to the Telegram chat")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("actual")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	eng := a.engine
	if opts.policy != "" || opts.multiplier != 0 || opts.percentile != 0 {
		p := eng.Policy()
		if opts.policy != "" {
			p.Kind = model.PolicyKind(opts.policy)
		}
		if opts.multiplier != 0 {
			p.Multiplier = opts.multiplier
		}
		if opts.percentile != 0 {
			p.Percentile = opts.percentile
		}
		if eng, err = eng.WithPolicy(p); err != nil {
			return err
		}
	}

	var sender notifier.Sender
	if opts.notify {
		if !a.cfg.TelegramEnabled() {
			return fmt.Errorf("--notify needs telegram.bot_token and telegram.chat_id")
		}
		sender = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
	}

	rec := opts.record
	rec.JobTitle = model.JobTitle(opts.jobTitle)
	ev, err := eng.Evaluate(rec)
	metrics.ObserveEvaluation("cli", ev, err)
	if err != nil {
		a.logger.Debug("evaluation failed", zap.Error(err))
		return fmt.Errorf("%s: %w", model.ErrorCode(err), err)
	}

	if sender != nil {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := notifyEvaluation(ctx, sender, ev); err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	}
	printEvaluation(os.Stdout, ev)
	return nil
}

func notifyEvaluation(ctx context.Context, sender notifier.Sender, ev *model.Evaluation) error {
	if err := sender.SendWithRetry(ctx, notifier.FormatEvaluation(ev), 3); err != nil {
		return fmt.Errorf("send verdict: %w", err)
	}
	return nil
}

func printEvaluation(w io.Writer, ev *model.Evaluation) {
	v := ev.Verdict
	status := "NORMAL"
	if v.IsAnomaly {
		status = "ANOMALY"
	}
	fmt.Fprintf(w, "Status:            %s (%s)\n", status, v.Direction)
	fmt.Fprintf(w, "Job title:         %s\n", ev.Record.JobTitle)
	fmt.Fprintf(w, "Actual salary:     %s\n", notifier.Dollars(ev.Record.ActualSalary))
	fmt.Fprintf(w, "Predicted salary:  %s\n", notifier.Dollars(ev.Prediction.Salary))
	fmt.Fprintf(w, "Difference:        %s (%+.1f%%)\n", notifier.Dollars(v.DollarResidual), v.PercentDeviation)
	fmt.Fprintf(w, "Expected range:    %s - %s\n", notifier.Dollars(v.LowerBound), notifier.Dollars(v.UpperBound))
	fmt.Fprintf(w, "Log residual:      %+.4f (threshold %.4f, %s)\n", v.Residual, v.Threshold, v.Policy)
	fmt.Fprintf(w, "From hourly rate:  %s\n", notifier.Dollars(ev.Derived.ExpectedFromHourly))
	if ev.Derived.OvertimePremium > 0 {
		fmt.Fprintf(w, "Overtime premium:  %.0f%%\n", ev.Derived.OvertimePremium)
	}
	if v.IsAnomaly {
		fmt.Fprintln(w, "Possible reasons:")
		for _, r := range notifier.PossibleReasons {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}
