package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scynett/momopay/internal/pkg/apperror"
	httpclient "github.com/scynett/momopay/internal/pkg/http"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/internal/utils"
	"github.com/scynett/momopay/services/payments/decision"
)

const statusUnknown = "Unknown"

// CheckStatus looks a transaction up on the status API
func (uc *paymentUC) CheckStatus(ctx context.Context, query models.StatusQuery) (*models.StatusResult, error) {
	query.ClientReference = strings.TrimSpace(query.ClientReference)
	query.TransactionID = strings.TrimSpace(query.TransactionID)
	query.NetworkTransactionID = strings.TrimSpace(query.NetworkTransactionID)
	logKey := utils.FirstNonBlank(query.ClientReference, query.TransactionID, query.NetworkTransactionID, "unknown")

	if errs := validateStatusQuery(query); len(errs) > 0 {
		logger.WarnCtx(ctx, "Invalid status query", logger.String("key", logKey))
		metrics.StatusChecksTotal.WithLabelValues("invalid").Inc()
		return nil, apperror.Validation("TransactionStatus.InvalidQuery", strings.Join(errs, " "))
	}

	query.AccountID = uc.accountID()
	if query.AccountID == "" {
		return nil, apperror.Configuration("TransactionStatus.MissingPosSalesId", "POS Sales ID is not configured.")
	}

	logger.DebugCtx(ctx, "Checking transaction status", logger.String("key", logKey))

	resp, err := nrpkg.WithSegmentAndReturn(ctx, "Gateway.CheckStatus", func() (*models.GatewayStatusResponse, error) {
		return uc.providerGW.CheckStatus(ctx, query)
	})
	if err != nil {
		logger.ErrorCtx(ctx, "Transaction status check failed",
			logger.String("key", logKey),
			logger.Err(err))
		metrics.StatusChecksTotal.WithLabelValues("error").Inc()
		return nil, statusTransportError(err)
	}

	if !strings.EqualFold(strings.TrimSpace(resp.ResponseCode), decision.CodeSuccess) {
		metrics.StatusChecksTotal.WithLabelValues("failure").Inc()
		return nil, apperror.Failure("TransactionStatus.StatusCheckFailed", utils.FirstNonBlank(resp.Message, "Status check failed")).
			WithProvider(resp.ResponseCode, resp.Message)
	}

	d := decision.Classify(resp.ResponseCode, resp.Message)
	if !d.IsSuccess && d.IsFinal {
		metrics.StatusChecksTotal.WithLabelValues("failure").Inc()
		return nil, apperror.Failure(fmt.Sprintf("TransactionStatus.%s", d.Category), utils.FirstNonBlank(d.CustomerMessage, "Transaction status check failed")).
			WithProvider(resp.ResponseCode, resp.Message)
	}

	metrics.StatusChecksTotal.WithLabelValues("ok").Inc()
	return toStatusResult(resp, d), nil
}

func statusTransportError(err error) *apperror.Error {
	appErr := apperror.Problem("TransactionStatus.Http", "Failed to contact the transaction status endpoint.")

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return appErr.WithMetadata("statusCode", strconv.Itoa(httpErr.StatusCode))
	}
	return appErr.WithMetadata("reason", err.Error())
}

// toStatusResult maps the response; IsFinal/IsSuccess describe the transaction
// state reported by the gateway, not the lookup call itself
func toStatusResult(resp *models.GatewayStatusResponse, d decision.Decision) *models.StatusResult {
	result := &models.StatusResult{
		ResponseCode: resp.ResponseCode,
		Message:      resp.Message,
		Status:       statusUnknown,
		Category:     string(d.Category),
		NextAction:   string(d.NextAction),
	}

	if data := resp.Data; data != nil {
		result.Status = utils.FirstNonBlank(data.Status, statusUnknown)
		result.TransactionID = data.TransactionID
		result.ExternalTransactionID = data.ExternalTransactionID
		result.ClientReference = data.ClientReference
		result.PaymentMethod = data.PaymentMethod
		result.CurrencyCode = data.CurrencyCode
		result.Amount = data.Amount
		result.Charges = data.Charges
		result.AmountAfterCharges = data.AmountAfterCharges
		result.IsFulfilled = data.IsFulfilled
		result.Date = data.Date
	}

	result.IsFinal, result.IsSuccess = decision.ClassifyStatus(result.Status)
	return result
}
