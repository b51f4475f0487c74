package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"prono-league/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// TotalsAuditor repairs user totals that drifted from their prediction points.
type TotalsAuditor interface {
	RecalculateAllTotals(ctx context.Context) (*services.AuditResult, error)
}

// TotalsAuditWorker runs the totals audit on a fixed interval.
type TotalsAuditWorker struct {
	auditor   TotalsAuditor
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	scheduler gocron.Scheduler

	stopOnce sync.Once
	stopErr  error
}

func NewTotalsAuditWorker(auditor TotalsAuditor, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *TotalsAuditWorker {
	return &TotalsAuditWorker{
		auditor:  auditor,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Start schedules the audit and returns immediately. The scheduler shuts down
// when ctx is cancelled or Stop is called.
func (w *TotalsAuditWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return errors.New("totals audit interval must be positive")
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(w.clock))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			w.RunOnce(ctx)
		}),
		gocron.WithName("totals-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule totals audit: %w", err)
	}

	w.scheduler = sched
	sched.Start()
	w.logger.Info("totals audit scheduled", "interval", w.interval)

	go func() {
		<-ctx.Done()
		_ = w.Stop()
	}()
	return nil
}

// RunOnce performs a single audit pass and logs the outcome.
func (w *TotalsAuditWorker) RunOnce(ctx context.Context) *services.AuditResult {
	result, err := w.auditor.RecalculateAllTotals(ctx)
	if err != nil {
		w.logger.Error("totals audit failed", "error", err)
		return nil
	}
	if result.UsersCorrected > 0 {
		w.logger.Warn("totals audit corrected drifted totals",
			"checked", result.UsersChecked,
			"corrected", result.UsersCorrected,
		)
	} else {
		w.logger.Debug("totals audit clean", "checked", result.UsersChecked)
	}
	return result
}

// Stop shuts the scheduler down. Later calls are no-ops.
func (w *TotalsAuditWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	w.stopOnce.Do(func() {
		w.stopErr = w.scheduler.Shutdown()
	})
	return w.stopErr
}
