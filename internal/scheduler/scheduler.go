package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"BankSentinel/internal/dashboard"
	"BankSentinel/internal/model"
	"BankSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sendRetries = 3

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the digest job and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard *dashboard.Manager
	Notifier  Sender
	Role      model.Role
	Ctx       context.Context

	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a new Scheduler. Reports are written for role.
func NewScheduler(ctx context.Context, dm *dashboard.Manager, sender Sender, role model.Role, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: dm,
		Notifier:  sender,
		Role:      role,
		Ctx:       ctx,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterAll registers the digest task.
func (s *Scheduler) RegisterAll(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	s.logger.Info("running digest task", zap.String("role", string(s.Role)))
	s.trySend(s.report())
}

func (s *Scheduler) report() string {
	res, err := s.Dashboard.Report(s.Ctx, s.Role)
	if err != nil {
		s.logger.Error("digest classify", zap.Error(err))
		return fmt.Sprintf("❌ Report failed: %v", err)
	}
	return notifier.FormatReport(&res, s.now())
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/report":
		return s.report()
	case "/reset":
		res, err := s.Dashboard.Reset(s.Ctx)
		if err != nil {
			s.logger.Error("reset", zap.Error(err))
			return fmt.Sprintf("❌ Reset failed: %v", err)
		}
		return "🔄 Dashboard data cleared.\n\n" + notifier.FormatPlaceholder(&res)
	case "/demo":
		bank := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(command), "/demo"))
		if bank == "" {
			return "Usage: /demo <bank name>"
		}
		res, err := s.Dashboard.LoadDemo(s.Ctx, bank, s.Role)
		if err != nil {
			s.logger.Error("demo", zap.String("bank", bank), zap.Error(err))
			return fmt.Sprintf("❌ Demo failed: %v", err)
		}
		return notifier.FormatReport(&res, s.now())
	case "/history":
		limit := 5
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				limit = n
			}
		}
		recs, err := s.Dashboard.History(limit)
		if err != nil {
			s.logger.Error("history", zap.Error(err))
			return fmt.Sprintf("❌ History failed: %v", err)
		}
		return notifier.FormatHistory(recs, s.now())
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /report: classify the current statement\n" +
	"• /demo <bank>: load demo data for a bank\n" +
	"• /reset: clear the current statement\n" +
	"• /history [n]: recent evaluations"

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
