package worker

import (
	"context"
	"errors"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/services/payments"
)

const (
	defaultRetention       = 30 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// Cleaner purges pending entries older than the retention period, whether or
// not their outcome was ever confirmed
type Cleaner struct {
	cfg         models.CleanupConfig
	pendingRepo payments.PendingRepo
	nrApp       *newrelic.Application
	now         func() time.Time
}

func NewCleaner(cfg models.CleanupConfig, pendingRepo payments.PendingRepo, nrApp *newrelic.Application) *Cleaner {
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultCleanupInterval
	}
	return &Cleaner{cfg: cfg, pendingRepo: pendingRepo, nrApp: nrApp, now: time.Now}
}

// Run purges immediately, then once per interval until ctx is cancelled
func (c *Cleaner) Run(ctx context.Context) {
	if !c.cfg.Enabled {
		logger.Info("Pending cleanup disabled")
		return
	}

	logger.Info("Pending cleanup worker started",
		logger.Duration("retention", c.cfg.Retention),
		logger.Duration("interval", c.cfg.Interval))

	for {
		c.runCycle(ctx)

		timer := time.NewTimer(c.cfg.Interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Pending cleanup worker stopped")
			return
		}
	}
}

func (c *Cleaner) runCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logPanic("Pending cleanup panicked", rec)
		}
	}()

	if _, err := c.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Pending cleanup failed", logger.Err(err))
	}
}

// RunOnce removes every entry created before now minus the retention period
func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	ctx, end := nrpkg.StartBackgroundTransaction(ctx, c.nrApp, "Worker/PendingCleanup")
	defer end()

	cutoff := c.now().Add(-c.cfg.Retention)
	removed, err := nrpkg.WithSegmentAndReturn(ctx, "PendingLedger.RemoveOlderThan", func() (int64, error) {
		return c.pendingRepo.RemoveOlderThan(ctx, cutoff)
	})
	if err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromContext(ctx), err)
		return 0, err
	}

	metrics.CleanupRemovedTotal.Add(float64(removed))
	logger.InfoCtx(ctx, "Pending cleanup finished",
		logger.Time("cutoff", cutoff),
		logger.Int64("removed", removed))

	return removed, nil
}
