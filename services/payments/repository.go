package payments

import (
	"context"
	"time"

	"github.com/scynett/momopay/internal/pkg/models"
)

// PendingRepo tracks gateway transactions awaiting a final outcome
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/scynett/momopay/services/payments PendingRepo,AuditRepo
type PendingRepo interface {
	// Add inserts the transaction if absent. A blank id is ignored.
	Add(ctx context.Context, transactionID, clientReference string, createdAt time.Time) error
	Remove(ctx context.Context, transactionID string) error
	// GetAll returns a snapshot ordered oldest first
	GetAll(ctx context.Context) ([]models.PendingTransaction, error)
	RemoveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRepo guarantees a callback is processed at most once per transaction
type AuditRepo interface {
	TryStart(ctx context.Context, transactionID, payloadHash string, rawPayload []byte, receivedAt time.Time) (models.AuditStart, error)
	SaveResult(ctx context.Context, transactionID string, result *models.CallbackResult, isSuccess bool, responseCode string, processedAt time.Time) error
	MarkFailure(ctx context.Context, transactionID string) error
}
