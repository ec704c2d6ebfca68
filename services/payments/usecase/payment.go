package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/services/payments"
)

// paymentUC implements the payments.PaymentUC interface
type paymentUC struct {
	cfg         *models.Config
	pendingRepo payments.PendingRepo
	auditRepo   payments.AuditRepo
	providerGW  payments.ProviderGW
	eventGW     payments.EventGW
	now         func() time.Time
}

// NewPaymentUC creates a new payment use case
func NewPaymentUC(
	cfg *models.Config,
	pendingRepo payments.PendingRepo,
	auditRepo payments.AuditRepo,
	providerGW payments.ProviderGW,
	eventGW payments.EventGW,
) (payments.PaymentUC, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if pendingRepo == nil || auditRepo == nil || providerGW == nil {
		return nil, errors.New("pending repo, audit repo and provider gateway are required")
	}
	return &paymentUC{
		cfg:         cfg,
		pendingRepo: pendingRepo,
		auditRepo:   auditRepo,
		providerGW:  providerGW,
		eventGW:     eventGW,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// accountID resolves the merchant account: the payments override wins over the gateway default
func (uc *paymentUC) accountID() string {
	if id := strings.TrimSpace(uc.cfg.Payments.PosSalesIDOverride); id != "" {
		return id
	}
	return strings.TrimSpace(uc.cfg.Gateway.MerchantAccountNumber)
}

// ListPending returns the pending ledger snapshot, oldest first
func (uc *paymentUC) ListPending(ctx context.Context) ([]models.PendingTransaction, error) {
	return uc.pendingRepo.GetAll(ctx)
}
