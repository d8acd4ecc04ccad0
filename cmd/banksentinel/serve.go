package main

import (
	"os/signal"
	"syscall"
	"time"

	"BankSentinel/internal/collector"
	"BankSentinel/internal/dashboard"
	"BankSentinel/internal/notifier"
	"BankSentinel/internal/recorder"
	"BankSentinel/internal/scheduler"
	"BankSentinel/internal/server"
	"BankSentinel/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API, digest scheduler and Telegram bot",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("banksentinel starting", zap.String("storage", cfg.Storage.Backend))

	st, err := store.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return err
	}
	defer st.Close()

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	src := collector.NewRandomSource(seed(cfg.Collector.Seed), time.Now)
	col := collector.NewCollector(src, logger)
	dm := dashboard.NewManager(st, col, rec, logger)

	srv := server.New(dm, server.Options{
		Addr:            cfg.Server.Addr,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)
	defer srv.Close()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		sched := scheduler.NewScheduler(gctx, dm, tn, cfg.ReportRole(), logger)
		if err := sched.RegisterAll(cfg.Schedule.DigestCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		g.Go(func() error {
			tn.StartPolling(gctx, sched.HandleCommand)
			return nil
		})
		logger.Info("telegram polling started")

		if cfg.Schedule.RunOnStart {
			logger.Info("run_on_start enabled, sending digest now")
			digestOnStart(g, sched)
		}
	} else {
		logger.Info("telegram not configured, digest and chat commands disabled")
	}

	g.Go(func() error { return srv.Run(gctx) })

	logger.Info("banksentinel is running, press Ctrl+C to stop")
	err = g.Wait()
	logger.Info("banksentinel stopped")
	return err
}

// digestOnStart sends one digest under g, so shutdown waits for it before
// the store and recorder are closed.
func digestOnStart(g *errgroup.Group, sched *scheduler.Scheduler) {
	g.Go(func() error {
		sched.RunDigestNow()
		return nil
	})
}

func seed(configured int64) int64 {
	if configured != 0 {
		return configured
	}
	return time.Now().UnixNano()
}
