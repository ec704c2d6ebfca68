package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scynett/momopay/internal/pkg/apperror"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/services/payments/decision"
)

// auditResetTimeout bounds the audit reset, which runs detached from the request context
const auditResetTimeout = 5 * time.Second

// HandleCallback applies a gateway webhook at most once per transaction
func (uc *paymentUC) HandleCallback(ctx context.Context, req models.CallbackRequest) (*models.CallbackResult, error) {
	if errs := validateCallbackRequest(req); len(errs) > 0 {
		var transactionID, clientReference string
		if req.Data != nil {
			transactionID, clientReference = req.Data.TransactionID, req.Data.ClientReference
		}
		logger.WarnCtx(ctx, "Callback failed validation",
			logger.String("transaction_id", transactionID),
			logger.String("client_reference", clientReference),
			logger.Strings("errors", errs))
		metrics.CallbacksTotal.WithLabelValues("invalid").Inc()
		return nil, apperror.Validation("Callback.Validation", strings.Join(errs, " "))
	}

	transactionID := strings.TrimSpace(req.Data.TransactionID)

	rawPayload, payloadHash, err := hashPayload(req)
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues("error").Inc()
		return nil, apperror.Problem("Callback.Exception", "An error occurred while processing the callback.").
			WithMetadata("reason", err.Error())
	}

	start, err := uc.auditRepo.TryStart(ctx, transactionID, payloadHash, rawPayload, uc.now())
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to start callback audit",
			logger.String("transaction_id", transactionID),
			logger.Err(err))
		metrics.CallbacksTotal.WithLabelValues("error").Inc()
		return nil, apperror.Problem("Callback.Exception", "An error occurred while processing the callback.").
			WithMetadata("reason", err.Error())
	}

	if !start.CanProcess {
		if start.Existing != nil {
			logger.InfoCtx(ctx, "Duplicate callback, returning stored result",
				logger.String("transaction_id", transactionID))
			metrics.CallbacksTotal.WithLabelValues("duplicate").Inc()
			return start.Existing, nil
		}
		metrics.CallbacksTotal.WithLabelValues("in_flight").Inc()
		return nil, apperror.Conflict("Callback.InFlight", "Callback is already being processed.")
	}

	result, d, err := uc.processCallback(ctx, req)
	if err != nil {
		if markErr := uc.resetAudit(ctx, transactionID); markErr != nil {
			logger.ErrorCtx(ctx, "Failed to reset callback audit",
				logger.String("transaction_id", transactionID),
				logger.Err(markErr))
		}
		logger.ErrorCtx(ctx, "Callback processing failed",
			logger.String("transaction_id", transactionID),
			logger.String("client_reference", req.Data.ClientReference),
			logger.Err(err))
		metrics.CallbacksTotal.WithLabelValues("error").Inc()
		return nil, apperror.Problem("Callback.Exception", "An error occurred while processing the callback.").
			WithMetadata("reason", err.Error())
	}

	metrics.CallbacksTotal.WithLabelValues("processed").Inc()

	if d.IsFinal {
		uc.publishFinalized(ctx, models.PaymentEvent{
			TransactionID:   result.TransactionID,
			ClientReference: result.ClientReference,
			Status:          finalStatus(result.IsSuccess),
			ResponseCode:    result.ResponseCode,
			IsSuccess:       result.IsSuccess,
			Source:          models.PaymentEventSourceCallback,
		})
	}

	return result, nil
}

// resetAudit clears the processing mark even when the caller has gone away,
// so a redelivery is not rejected as in flight
func (uc *paymentUC) resetAudit(ctx context.Context, transactionID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditResetTimeout)
	defer cancel()
	return uc.auditRepo.MarkFailure(ctx, transactionID)
}

// processCallback classifies the callback, clears the pending entry when
// final and records the terminal result
func (uc *paymentUC) processCallback(ctx context.Context, req models.CallbackRequest) (*models.CallbackResult, decision.Decision, error) {
	transactionID := strings.TrimSpace(req.Data.TransactionID)

	logger.InfoCtx(ctx, "Callback received",
		logger.String("client_reference", req.Data.ClientReference),
		logger.String("transaction_id", transactionID),
		logger.String("response_code", req.ResponseCode))

	d := decision.Classify(req.ResponseCode, callbackDecisionMessage(req))
	logger.InfoCtx(ctx, "Callback decision computed",
		logger.String("code", d.Code),
		logger.String("category", string(d.Category)),
		logger.Bool("is_final", d.IsFinal),
		logger.String("next_action", string(d.NextAction)))

	if d.IsFinal {
		err := nrpkg.WithSegment(ctx, "PendingLedger.Remove", func() error {
			return uc.pendingRepo.Remove(ctx, transactionID)
		})
		if err != nil {
			return nil, d, fmt.Errorf("failed to remove pending transaction: %w", err)
		}
		logger.InfoCtx(ctx, "Pending transaction removed",
			logger.String("transaction_id", transactionID),
			logger.String("client_reference", req.Data.ClientReference))
	}

	result := toCallbackResult(req, d)
	err := nrpkg.WithSegment(ctx, "AuditLedger.SaveResult", func() error {
		return uc.auditRepo.SaveResult(ctx, transactionID, result, d.IsSuccess, req.ResponseCode, uc.now())
	})
	if err != nil {
		return nil, d, fmt.Errorf("failed to save callback result: %w", err)
	}

	return result, d, nil
}

// callbackDecisionMessage joins message and description; the description
// usually carries the variant text that refines 2001 outcomes
func callbackDecisionMessage(req models.CallbackRequest) string {
	msg := strings.TrimSpace(req.Message)
	desc := ""
	if req.Data != nil {
		desc = strings.TrimSpace(req.Data.Description)
	}

	switch {
	case desc == "":
		return msg
	case msg == "":
		return desc
	default:
		return msg + ". " + desc
	}
}

func toCallbackResult(req models.CallbackRequest, d decision.Decision) *models.CallbackResult {
	data := req.Data
	return &models.CallbackResult{
		ClientReference:       data.ClientReference,
		TransactionID:         strings.TrimSpace(data.TransactionID),
		ResponseCode:          req.ResponseCode,
		Category:              string(d.Category),
		NextAction:            string(d.NextAction),
		IsFinal:               d.IsFinal,
		IsSuccess:             d.IsSuccess,
		CustomerMessage:       d.CustomerMessage,
		RawMessage:            req.Message,
		Amount:                data.Amount,
		Charges:               data.Charges,
		AmountAfterCharges:    data.AmountAfterCharges,
		AmountCharged:         data.AmountCharged,
		Description:           data.Description,
		ExternalTransactionID: data.ExternalTransactionID,
		OrderID:               data.OrderID,
		PaymentDate:           data.PaymentDate,
	}
}

// hashPayload returns the canonical JSON encoding of the callback and its sha256 hex digest
func hashPayload(req models.CallbackRequest) ([]byte, string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode callback payload: %w", err)
	}
	sum := sha256.Sum256(raw)
	return raw, hex.EncodeToString(sum[:]), nil
}

func finalStatus(isSuccess bool) string {
	if isSuccess {
		return models.InitiationStatusSuccess
	}
	return models.InitiationStatusFailed
}

// publishFinalized emits a payment.finalized event. Failures are logged only.
func (uc *paymentUC) publishFinalized(ctx context.Context, event models.PaymentEvent) {
	if uc.eventGW == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.Type = models.PaymentEventFinalized
	event.OccurredAt = uc.now()

	if err := uc.eventGW.PublishPaymentFinalized(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish payment event",
			logger.String("transaction_id", event.TransactionID),
			logger.String("source", event.Source),
			logger.Err(err))
	}
}
