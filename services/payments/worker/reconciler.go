package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/services/payments"
)

const (
	defaultPollInterval = time.Minute
	defaultBatchSize    = 200
	defaultGracePeriod  = 5 * time.Minute
)

// CycleStats summarizes one reconciliation pass
type CycleStats struct {
	Scanned      int
	Finalized    int
	StillPending int
	Skipped      int
	Failed       int
}

// Reconciler polls the gateway for pending transactions whose callback never arrived
type Reconciler struct {
	cfg         models.WorkerConfig
	pendingRepo payments.PendingRepo
	paymentUC   payments.PaymentUC
	eventGW     payments.EventGW
	nrApp       *newrelic.Application
	now         func() time.Time
}

// NewReconciler creates a reconciliation worker. eventGW and nrApp may be nil.
func NewReconciler(
	cfg models.WorkerConfig,
	pendingRepo payments.PendingRepo,
	paymentUC payments.PaymentUC,
	eventGW payments.EventGW,
	nrApp *newrelic.Application,
) *Reconciler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.CallbackGracePeriod < 0 {
		cfg.CallbackGracePeriod = defaultGracePeriod
	}

	return &Reconciler{
		cfg:         cfg,
		pendingRepo: pendingRepo,
		paymentUC:   paymentUC,
		eventGW:     eventGW,
		nrApp:       nrApp,
		now:         time.Now,
	}
}

// Run executes a cycle, then sleeps for the poll interval, until ctx is cancelled.
// Cycles never overlap.
func (r *Reconciler) Run(ctx context.Context) {
	logger.Info("Reconciliation worker started",
		logger.Duration("poll_interval", r.cfg.PollInterval),
		logger.Int("batch_size", r.cfg.BatchSize),
		logger.Duration("grace_period", r.cfg.CallbackGracePeriod))

	for {
		r.runCycle(ctx)

		timer := time.NewTimer(r.cfg.PollInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Reconciliation worker stopped")
			return
		}
	}
}

// runCycle runs one pass; a panic is logged and the loop carries on
func (r *Reconciler) runCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logPanic("Reconciliation cycle panicked", rec)
		}
	}()

	if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Reconciliation cycle failed", logger.Err(err))
	}
}

func logPanic(msg string, rec interface{}, fields ...logger.Field) {
	fields = append(fields,
		logger.Any("panic_value", rec),
		logger.String("panic_type", fmt.Sprintf("%T", rec)),
		logger.String("stack_trace", string(debug.Stack())))
	logger.Error(msg, fields...)
}

// RunOnce performs a single reconciliation pass over at most BatchSize entries.
// Only a failure to read the ledger or a cancelled context is returned.
func (r *Reconciler) RunOnce(ctx context.Context) (CycleStats, error) {
	var stats CycleStats

	ctx, end := nrpkg.StartBackgroundTransaction(ctx, r.nrApp, "Worker/Reconciliation")
	defer end()

	started := time.Now()
	defer func() {
		metrics.ReconciliationCycleDuration.Observe(time.Since(started).Seconds())
	}()

	pending, err := nrpkg.WithSegmentAndReturn(ctx, "PendingLedger.GetAll", func() ([]models.PendingTransaction, error) {
		return r.pendingRepo.GetAll(ctx)
	})
	if err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromContext(ctx), err)
		return stats, err
	}

	metrics.PendingTransactions.Set(float64(len(pending)))
	if len(pending) == 0 {
		return stats, nil
	}
	if len(pending) > r.cfg.BatchSize {
		pending = pending[:r.cfg.BatchSize]
	}

	logger.InfoCtx(ctx, "Reconciling pending transactions", logger.Int("count", len(pending)))

	cutoff := r.now().Add(-r.cfg.CallbackGracePeriod)
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Scanned++

		if entry.CreatedAt.After(cutoff) {
			stats.Skipped++
			metrics.ReconciliationOutcomesTotal.WithLabelValues("skipped_grace").Inc()
			continue
		}

		transactionID := strings.TrimSpace(entry.TransactionID)
		if transactionID == "" {
			logger.WarnCtx(ctx, "Skipping pending entry without transaction id",
				logger.String("client_reference", entry.ClientReference))
			stats.Skipped++
			metrics.ReconciliationOutcomesTotal.WithLabelValues("skipped_blank").Inc()
			continue
		}

		r.reconcileEntry(ctx, entry, transactionID, &stats)
	}

	logger.InfoCtx(ctx, "Reconciliation cycle finished",
		logger.Int("scanned", stats.Scanned),
		logger.Int("finalized", stats.Finalized),
		logger.Int("still_pending", stats.StillPending),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed))

	return stats, nil
}

func (r *Reconciler) reconcileEntry(ctx context.Context, entry models.PendingTransaction, transactionID string, stats *CycleStats) {
	defer func() {
		if rec := recover(); rec != nil {
			logPanic("Reconciliation of pending entry panicked", rec,
				logger.String("transaction_id", transactionID),
				logger.String("client_reference", entry.ClientReference))
			stats.Failed++
			metrics.ReconciliationOutcomesTotal.WithLabelValues("panic").Inc()
		}
	}()

	status, err := r.paymentUC.CheckStatus(ctx, models.StatusQuery{TransactionID: transactionID})
	if err != nil {
		logger.WarnCtx(ctx, "Status check failed, keeping pending entry",
			logger.String("transaction_id", transactionID),
			logger.String("client_reference", entry.ClientReference),
			logger.Err(err))
		stats.Failed++
		metrics.ReconciliationOutcomesTotal.WithLabelValues("check_failed").Inc()
		return
	}

	if !status.IsFinal {
		logger.DebugCtx(ctx, "Transaction still pending",
			logger.String("transaction_id", transactionID),
			logger.String("status", status.Status))
		stats.StillPending++
		metrics.ReconciliationOutcomesTotal.WithLabelValues("still_pending").Inc()
		return
	}

	err = nrpkg.WithSegment(ctx, "PendingLedger.Remove", func() error {
		return r.pendingRepo.Remove(ctx, transactionID)
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to remove reconciled transaction",
			logger.String("transaction_id", transactionID),
			logger.Err(err))
		stats.Failed++
		metrics.ReconciliationOutcomesTotal.WithLabelValues("check_failed").Inc()
		return
	}

	logger.InfoCtx(ctx, "Pending transaction reconciled",
		logger.String("transaction_id", transactionID),
		logger.String("client_reference", entry.ClientReference),
		logger.String("status", status.Status),
		logger.Bool("is_success", status.IsSuccess))
	stats.Finalized++
	metrics.ReconciliationOutcomesTotal.WithLabelValues("finalized").Inc()

	r.publishFinalized(ctx, entry, status)
}

func (r *Reconciler) publishFinalized(ctx context.Context, entry models.PendingTransaction, status *models.StatusResult) {
	if r.eventGW == nil {
		return
	}

	eventStatus := models.InitiationStatusFailed
	if status.IsSuccess {
		eventStatus = models.InitiationStatusSuccess
	}

	event := models.PaymentEvent{
		EventID:         uuid.NewString(),
		Type:            models.PaymentEventFinalized,
		TransactionID:   strings.TrimSpace(entry.TransactionID),
		ClientReference: entry.ClientReference,
		Status:          eventStatus,
		ResponseCode:    status.ResponseCode,
		IsSuccess:       status.IsSuccess,
		Source:          models.PaymentEventSourceReconciliation,
		OccurredAt:      r.now(),
	}
	if err := r.eventGW.PublishPaymentFinalized(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish payment event",
			logger.String("transaction_id", event.TransactionID),
			logger.String("source", event.Source),
			logger.Err(err))
	}
}
