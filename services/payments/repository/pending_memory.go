package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scynett/momopay/internal/pkg/models"
)

// MemoryPendingRepo keeps pending transactions in process memory.
// Ids are matched case-insensitively.
type MemoryPendingRepo struct {
	entries sync.Map // lower(id) -> models.PendingTransaction
}

// NewMemoryPendingRepo creates an empty in-memory pending ledger
func NewMemoryPendingRepo() *MemoryPendingRepo {
	return &MemoryPendingRepo{}
}

func pendingKey(transactionID string) string {
	return strings.ToLower(strings.TrimSpace(transactionID))
}

// Add stores the transaction unless an entry with the same id exists
func (r *MemoryPendingRepo) Add(ctx context.Context, transactionID, clientReference string, createdAt time.Time) error {
	key := pendingKey(transactionID)
	if key == "" {
		return nil
	}

	r.entries.LoadOrStore(key, models.PendingTransaction{
		TransactionID:   strings.TrimSpace(transactionID),
		ClientReference: clientReference,
		CreatedAt:       createdAt.UTC(),
	})
	return nil
}

func (r *MemoryPendingRepo) Remove(ctx context.Context, transactionID string) error {
	key := pendingKey(transactionID)
	if key == "" {
		return nil
	}
	r.entries.Delete(key)
	return nil
}

func (r *MemoryPendingRepo) GetAll(ctx context.Context) ([]models.PendingTransaction, error) {
	pending := make([]models.PendingTransaction, 0)
	r.entries.Range(func(_, value interface{}) bool {
		pending = append(pending, value.(models.PendingTransaction))
		return true
	})

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].TransactionID < pending[j].TransactionID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

// RemoveOlderThan purges entries created before cutoff and returns how many were removed
func (r *MemoryPendingRepo) RemoveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	r.entries.Range(func(key, value interface{}) bool {
		entry := value.(models.PendingTransaction)
		if entry.CreatedAt.Before(cutoff) && r.entries.CompareAndDelete(key, value) {
			removed++
		}
		return true
	})
	return removed, nil
}
