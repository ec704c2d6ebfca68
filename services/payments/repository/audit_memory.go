package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/scynett/momopay/internal/pkg/models"
)

const (
	defaultAuditRetention    = 30 * 24 * time.Hour
	memoryAuditSweepInterval = time.Minute
)

type auditEntry struct {
	mu           sync.Mutex
	removed      bool
	payloadHash  string
	rawPayload   []byte
	receivedAt   time.Time
	processing   bool
	startedAt    time.Time
	result       *models.CallbackResult
	isSuccess    bool
	responseCode string
	processedAt  time.Time
}

// expired reports whether an idle entry was last touched before cutoff.
// Entries being processed never expire here; the lease covers them.
func (e *auditEntry) expired(cutoff time.Time) bool {
	if e.processing {
		return false
	}
	touched := e.startedAt
	if e.result != nil {
		touched = e.processedAt
	}
	return touched.Before(cutoff)
}

// MemoryAuditRepo is an in-process callback audit ledger with one lock per transaction.
// Idle entries are dropped once they are older than the retention period.
type MemoryAuditRepo struct {
	entries   sync.Map // lower(id) -> *auditEntry
	lease     time.Duration
	retention time.Duration
	now       func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewMemoryAuditRepo creates an in-memory audit ledger. A processing mark older
// than the lease may be taken over by a new delivery; zero keeps it forever.
func NewMemoryAuditRepo(cfg models.AuditConfig) *MemoryAuditRepo {
	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultAuditRetention
	}
	return &MemoryAuditRepo{lease: cfg.ProcessingLease, retention: retention, now: time.Now}
}

func auditKey(transactionID string) string {
	return strings.ToLower(strings.TrimSpace(transactionID))
}

// lock returns the live entry for transactionID with its mutex held
func (r *MemoryAuditRepo) lock(transactionID string) *auditEntry {
	key := auditKey(transactionID)
	for {
		value, _ := r.entries.LoadOrStore(key, &auditEntry{})
		e := value.(*auditEntry)
		e.mu.Lock()
		if !e.removed {
			return e
		}
		e.mu.Unlock()
	}
}

// maybeSweep purges expired entries at most once per sweep interval
func (r *MemoryAuditRepo) maybeSweep(now time.Time) {
	r.sweepMu.Lock()
	if now.Sub(r.lastSweep) < memoryAuditSweepInterval {
		r.sweepMu.Unlock()
		return
	}
	r.lastSweep = now
	r.sweepMu.Unlock()

	r.sweep(now)
}

func (r *MemoryAuditRepo) sweep(now time.Time) int {
	cutoff := now.Add(-r.retention)
	removed := 0
	r.entries.Range(func(key, value any) bool {
		e := value.(*auditEntry)
		e.mu.Lock()
		if !e.removed && e.expired(cutoff) {
			e.removed = true
			r.entries.Delete(key)
			removed++
		}
		e.mu.Unlock()
		return true
	})
	return removed
}

func (r *MemoryAuditRepo) TryStart(ctx context.Context, transactionID, payloadHash string, rawPayload []byte, receivedAt time.Time) (models.AuditStart, error) {
	now := r.now()
	r.maybeSweep(now)

	e := r.lock(transactionID)
	defer e.mu.Unlock()

	if e.result != nil && e.expired(now.Add(-r.retention)) {
		e.result = nil
	}

	if e.result != nil {
		existing := *e.result
		return models.AuditStart{Existing: &existing}, nil
	}

	if e.processing && (r.lease <= 0 || now.Sub(e.startedAt) < r.lease) {
		return models.AuditStart{}, nil
	}

	e.processing = true
	e.startedAt = now
	e.payloadHash = payloadHash
	e.rawPayload = append([]byte(nil), rawPayload...)
	e.receivedAt = receivedAt.UTC()
	return models.AuditStart{CanProcess: true}, nil
}

func (r *MemoryAuditRepo) SaveResult(ctx context.Context, transactionID string, result *models.CallbackResult, isSuccess bool, responseCode string, processedAt time.Time) error {
	e := r.lock(transactionID)
	defer e.mu.Unlock()

	stored := *result
	e.processing = false
	e.result = &stored
	e.isSuccess = isSuccess
	e.responseCode = responseCode
	e.processedAt = processedAt.UTC()
	return nil
}

func (r *MemoryAuditRepo) MarkFailure(ctx context.Context, transactionID string) error {
	value, ok := r.entries.Load(auditKey(transactionID))
	if !ok {
		return nil
	}

	e := value.(*auditEntry)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.processing = false
	return nil
}
