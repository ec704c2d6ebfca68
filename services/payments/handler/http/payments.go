package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/models"
	nrpkg "github.com/scynett/momopay/internal/pkg/newrelic"
	"github.com/scynett/momopay/internal/utils"
	"github.com/scynett/momopay/services/payments"
)

// PaymentsHandler handles HTTP requests for payment operations
type PaymentsHandler struct {
	paymentUC payments.PaymentUC
}

// NewPaymentsHandler creates a new payments HTTP handler
func NewPaymentsHandler(paymentUC payments.PaymentUC) *PaymentsHandler {
	return &PaymentsHandler{
		paymentUC: paymentUC,
	}
}

// Initiate handles a merchant request to debit a customer's wallet
func (h *PaymentsHandler) Initiate(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.Initiate")

	var req models.InitiateRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	nrpkg.AddTransactionAttribute(txn, "payment.client_reference", req.ClientReference)
	nrpkg.AddTransactionAttribute(txn, "payment.channel", req.Channel)

	result, err := h.paymentUC.Initiate(c.Request().Context(), req)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Payment initiated", result)
}

// Callback receives the gateway webhook carrying a transaction's final outcome.
// 200 means the callback was processed, not that the payment succeeded.
func (h *PaymentsHandler) Callback(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.Callback")

	var req models.CallbackRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Malformed callback body",
			logger.String("client_ip", c.RealIP()),
			logger.Err(err))
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	result, err := h.paymentUC.HandleCallback(c.Request().Context(), req)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Callback processed", result)
}

// Status looks a transaction up by client reference, transaction id or network transaction id
func (h *PaymentsHandler) Status(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.Status")

	var query models.StatusQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return utils.BadRequestResponse(c, "Invalid query: "+err.Error())
	}

	result, err := h.paymentUC.CheckStatus(c.Request().Context(), query)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Transaction status retrieved", result)
}

// Pending lists the transactions still awaiting a final outcome
func (h *PaymentsHandler) Pending(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.Pending")

	pending, err := h.paymentUC.ListPending(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list pending transactions", logger.Err(err))
		nrpkg.NoticeTransactionError(txn, err)
		return utils.InternalServerErrorResponse(c, "Failed to list pending transactions")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Pending transactions retrieved", pending)
}
