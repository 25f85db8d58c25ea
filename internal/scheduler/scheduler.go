package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"SalarySentinel/internal/engine"
	"SalarySentinel/internal/metrics"
	"SalarySentinel/internal/model"
	"SalarySentinel/internal/notifier"
	"SalarySentinel/internal/payroll"
)

const sendRetries = 3

// Scheduler runs payroll audits on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *engine.Engine
	Payroll  payroll.Source
	Notifier notifier.Sender
	Logger   *zap.Logger
	Ctx      context.Context

	// audits never overlap
	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, eng *engine.Engine, src payroll.Source, n notifier.Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Engine:   eng,
		Payroll:  src,
		Notifier: n,
		Logger:   logger.Named("scheduler"),
		Ctx:      ctx,
	}
}

// RegisterAudit schedules the batch audit.
func (s *Scheduler) RegisterAudit(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.auditTask); err != nil {
		return fmt.Errorf("register audit task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running audit to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunAuditNow runs the batch audit immediately and returns its report.
func (s *Scheduler) RunAuditNow() (*model.BatchReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, rejected, err := s.Payroll.Rows()
	if err != nil {
		metrics.ObserveAudit(nil, err)
		return nil, fmt.Errorf("read payroll %s: %w", s.Payroll.Name(), err)
	}
	report := s.Engine.Audit(s.Payroll.Name(), rows, rejected)
	metrics.ObserveAudit(report, nil)
	s.Logger.Info("audit finished",
		zap.String("source", report.Source),
		zap.Int("total", report.Total),
		zap.Int("evaluated", report.Evaluated),
		zap.Int("anomalies", len(report.Anomalies)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

// RunAuditTask runs the scheduled job immediately: audit, then send the
// report (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunAuditTask() {
	s.auditTask()
}

func (s *Scheduler) auditTask() {
	report, err := s.RunAuditNow()
	if err != nil {
		s.Logger.Error("audit failed", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Payroll audit failed: %v", err))
		return
	}
	s.trySend(notifier.FormatBatchReport(report))
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	var cmd string
	if fields := strings.Fields(command); len(fields) > 0 {
		// "/audit@SentinelBot" addresses the bot in group chats
		cmd, _, _ = strings.Cut(fields[0], "@")
	}
	switch strings.ToLower(cmd) {
	case "/audit":
		report, err := s.RunAuditNow()
		if err != nil {
			s.Logger.Error("audit failed", zap.Error(err))
			return fmt.Sprintf("❌ Payroll audit failed: %v", err)
		}
		return notifier.FormatBatchReport(report)
	case "/policy":
		return notifier.FormatPolicy(s.Engine.Describe())
	case "/titles":
		return notifier.FormatJobTitles(s.Engine.Encoder().Catalog().Titles())
	default:
		return "Available commands:\n• /audit run the payroll audit now\n• /policy show the detection policy\n• /titles list known job titles"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
