package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/scynett/momopay/internal/pkg/apperror"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/internal/utils"
	"github.com/scynett/momopay/services/payments/decision"
)

// Initiate asks the gateway to debit the customer's wallet and tracks the
// transaction until its outcome is confirmed
func (uc *paymentUC) Initiate(ctx context.Context, req models.InitiateRequest) (*models.InitiateResult, error) {
	req = normalizeInitiateRequest(req, uc.cfg.Payments.DefaultCallbackURL)

	if errs := validateInitiateRequest(req); len(errs) > 0 {
		logger.WarnCtx(ctx, "Initiation request failed validation",
			logger.String("client_reference", req.ClientReference),
			logger.Strings("errors", errs))
		metrics.InitiationsTotal.WithLabelValues("invalid", "").Inc()
		return nil, apperror.Validation("Initiation.ValidationFailed", errs[0]).
			WithMetadata("errors", strings.Join(errs, "; "))
	}

	accountID := uc.accountID()
	if accountID == "" {
		logger.ErrorCtx(ctx, "POS Sales ID is not configured",
			logger.String("client_reference", req.ClientReference))
		return nil, apperror.Configuration("Initiation.MissingPosSalesId", "POS Sales ID is not configured.")
	}

	logger.InfoCtx(ctx, "Initiating receive money",
		logger.String("client_reference", req.ClientReference),
		logger.String("amount", req.Amount.StringFixed(2)),
		logger.String("channel", req.Channel),
		logger.String("msisdn", utils.MaskMSISDN(req.CustomerMsisdn)))

	gatewayReq := models.GatewayInitiateRequest{
		AccountID:               accountID,
		CustomerName:            req.CustomerName,
		CustomerMsisdn:          req.CustomerMsisdn,
		CustomerEmail:           req.CustomerEmail,
		Channel:                 req.Channel,
		Amount:                  req.Amount.StringFixed(2),
		PrimaryCallbackEndpoint: req.CallbackURL,
		Description:             req.Description,
		ClientReference:         req.ClientReference,
	}

	resp, err := nrpkg.WithSegmentAndReturn(ctx, "Gateway.Initiate", func() (*models.GatewayInitiateResponse, error) {
		return uc.providerGW.Initiate(ctx, gatewayReq)
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Gateway initiation failed",
			logger.String("client_reference", req.ClientReference),
			logger.Err(err))
		metrics.InitiationsTotal.WithLabelValues("error", "").Inc()
		return nil, apperror.Problem("Initiation.UnhandledException", "An unexpected error occurred while initiating the payment.").
			WithMetadata("reason", err.Error())
	}

	d := decision.Classify(resp.ResponseCode, resp.Message)
	logger.InfoCtx(ctx, "Initiation decision computed",
		logger.String("client_reference", req.ClientReference),
		logger.String("code", d.Code),
		logger.String("category", string(d.Category)),
		logger.String("next_action", string(d.NextAction)),
		logger.Bool("is_final", d.IsFinal))

	result := toInitiateResult(req, resp, d)

	if d.NextAction == decision.NextActionWaitForCallback {
		if result.TransactionID != "" {
			err := nrpkg.WithSegment(ctx, "PendingLedger.Add", func() error {
				return uc.pendingRepo.Add(ctx, result.TransactionID, req.ClientReference, uc.now())
			})
			if err != nil {
				logger.ErrorCtx(ctx, "Failed to track pending transaction",
					logger.String("client_reference", req.ClientReference),
					logger.String("transaction_id", result.TransactionID),
					logger.Err(err))
				metrics.InitiationsTotal.WithLabelValues("error", d.Code).Inc()
				return nil, apperror.Problem("Initiation.PendingStoreFailed", "An unexpected error occurred while initiating the payment.").
					WithMetadata("transaction_id", result.TransactionID)
			}
			logger.InfoCtx(ctx, "Pending transaction stored",
				logger.String("client_reference", req.ClientReference),
				logger.String("transaction_id", result.TransactionID))
		} else {
			metrics.UntrackedPendingTotal.Inc()
			logger.WarnCtx(ctx, "Gateway reported pending without a transaction id",
				logger.String("client_reference", req.ClientReference),
				logger.String("code", d.Code))
			if uc.cfg.Payments.StrictPendingTracking {
				metrics.InitiationsTotal.WithLabelValues("error", d.Code).Inc()
				return nil, apperror.Problem("Initiation.UntrackedPending", "The gateway accepted the payment without a transaction id.").
					WithProvider(resp.ResponseCode, resp.Message)
			}
			result.Reconcilable = false
		}
	}

	metrics.InitiationsTotal.WithLabelValues(result.Status, d.Code).Inc()

	if !d.IsSuccess && d.IsFinal {
		logger.WarnCtx(ctx, "Gateway rejected initiation",
			logger.String("client_reference", req.ClientReference),
			logger.String("response_code", resp.ResponseCode),
			logger.String("message", utils.FirstNonBlank(resp.Message, "No message provided")))
		return nil, apperror.Failure(fmt.Sprintf("Initiation.%s", d.Category), utils.FirstNonBlank(d.CustomerMessage, resp.Message, "Payment initialization failed")).
			WithProvider(resp.ResponseCode, resp.Message)
	}

	return result, nil
}

func initiationStatus(d decision.Decision) string {
	switch {
	case d.IsSuccess:
		return models.InitiationStatusSuccess
	case d.IsFinal:
		return models.InitiationStatusFailed
	default:
		return models.InitiationStatusPending
	}
}

func toInitiateResult(req models.InitiateRequest, resp *models.GatewayInitiateResponse, d decision.Decision) *models.InitiateResult {
	result := &models.InitiateResult{
		ClientReference: req.ClientReference,
		Amount:          req.Amount,
		Description:     req.Description,
		Status:          initiationStatus(d),
		ResponseCode:    resp.ResponseCode,
		Category:        string(d.Category),
		NextAction:      string(d.NextAction),
		CustomerMessage: d.CustomerMessage,
		RawMessage:      resp.Message,
		Reconcilable:    true,
	}

	if data := resp.Data; data != nil {
		result.TransactionID = strings.TrimSpace(data.TransactionID)
		result.ClientReference = utils.FirstNonBlank(data.ClientReference, req.ClientReference)
		result.Description = utils.FirstNonBlank(data.Description, req.Description)
		if !data.Amount.IsZero() {
			result.Amount = data.Amount
		}
		result.Charges = data.Charges
		result.AmountAfterCharges = data.AmountAfterCharges
		result.AmountCharged = data.AmountCharged
		result.DeliveryFee = data.DeliveryFee
	}

	return result
}
