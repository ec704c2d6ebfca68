package payments

import (
	"context"

	"github.com/scynett/momopay/internal/pkg/models"
)

// PaymentUC defines the interface for payment business logic
//
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/scynett/momopay/services/payments PaymentUC
type PaymentUC interface {
	Initiate(ctx context.Context, req models.InitiateRequest) (*models.InitiateResult, error)
	HandleCallback(ctx context.Context, req models.CallbackRequest) (*models.CallbackResult, error)
	CheckStatus(ctx context.Context, query models.StatusQuery) (*models.StatusResult, error)
	ListPending(ctx context.Context) ([]models.PendingTransaction, error)
}
