package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/apperror"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/internal/utils"
	"github.com/scynett/momopay/services/payments/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	recorder := httptest.NewRecorder()
	return e.NewContext(request, recorder), recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestNewPaymentsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	assert.NotNil(t, handler)
	assert.Equal(t, mockPaymentUC, handler.paymentUC)
}

func TestPaymentsHandler_Initiate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().
		Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req models.InitiateRequest) (*models.InitiateResult, error) {
			assert.Equal(t, "ref1001", req.ClientReference)
			assert.True(t, decimal.RequireFromString("10.5").Equal(req.Amount))
			return &models.InitiateResult{TransactionID: "T1", Status: models.InitiationStatusPending}, nil
		}).
		Times(1)

	body := `{"customer_msisdn":"233241234567","channel":"mtn-gh","amount":"10.50","description":"Order","client_reference":"ref1001"}`
	c, recorder := newContext(http.MethodPost, "/internal/payments/initiate", body)

	err := handler.Initiate(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"transaction_id":"T1"`)
}

func TestPaymentsHandler_Initiate_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewPaymentsHandler(mocks.NewMockPaymentUC(ctrl))
	c, recorder := newContext(http.MethodPost, "/internal/payments/initiate", `{"amount":`)

	err := handler.Initiate(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPaymentsHandler_Initiate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		code       string
	}{
		{"validation", apperror.Validation("Initiation.ValidationFailed", "Amount must be greater than 0."), http.StatusBadRequest, "Initiation.ValidationFailed"},
		{"failure", apperror.Failure("Initiation.CustomerError", "Incorrect PIN. Please try again.").WithProvider("2001", "wrong PIN"), http.StatusUnprocessableEntity, "Initiation.CustomerError"},
		{"configuration", apperror.Configuration("Initiation.MissingPosSalesId", "POS Sales ID is not configured."), http.StatusServiceUnavailable, "Initiation.MissingPosSalesId"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
			handler := NewPaymentsHandler(mockPaymentUC)
			mockPaymentUC.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			c, recorder := newContext(http.MethodPost, "/internal/payments/initiate", `{"client_reference":"ref1"}`)

			err := handler.Initiate(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.statusCode, recorder.Code)
			assert.Equal(t, tt.code, decodeError(t, recorder).Error)
		})
	}
}

func TestPaymentsHandler_Callback_Processed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().
		HandleCallback(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req models.CallbackRequest) (*models.CallbackResult, error) {
			require.NotNil(t, req.Data)
			assert.Equal(t, "2001", req.ResponseCode)
			assert.Equal(t, "T1", req.Data.TransactionID)
			return &models.CallbackResult{TransactionID: "T1", IsFinal: true}, nil
		})

	body := `{"ResponseCode":"2001","Message":"Failed","Data":{"Amount":10.5,"ClientReference":"ref1","TransactionId":"T1","Description":"wrong PIN"}}`
	c, recorder := newContext(http.MethodPost, "/payments/callback", body)

	err := handler.Callback(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPaymentsHandler_Callback_InFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
		Return(nil, apperror.Conflict("Callback.InFlight", "Callback is already being processed."))

	c, recorder := newContext(http.MethodPost, "/payments/callback", `{"ResponseCode":"0000"}`)

	err := handler.Callback(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	resp := decodeError(t, recorder)
	assert.Equal(t, "Callback.InFlight", resp.Error)
	assert.Equal(t, "Callback is already being processed.", resp.Message)
}

func TestPaymentsHandler_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().
		CheckStatus(gomock.Any(), models.StatusQuery{ClientReference: "ref1", TransactionID: "T1"}).
		Return(&models.StatusResult{Status: "Paid", IsFinal: true, IsSuccess: true}, nil)

	c, recorder := newContext(http.MethodGet, "/internal/payments/status?clientReference=ref1&transactionId=T1", "")

	err := handler.Status(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"Paid"`)
}

func TestPaymentsHandler_Status_ProblemIs500(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().CheckStatus(gomock.Any(), gomock.Any()).
		Return(nil, apperror.Problem("TransactionStatus.Http", "Failed to contact the transaction status endpoint.").WithMetadata("statusCode", "502"))

	c, recorder := newContext(http.MethodGet, "/internal/payments/status?transactionId=T1", "")

	err := handler.Status(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "502", decodeError(t, recorder).Metadata["statusCode"])
}

func TestPaymentsHandler_Pending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().ListPending(gomock.Any()).
		Return([]models.PendingTransaction{{TransactionID: "T1", ClientReference: "ref1"}}, nil)

	c, recorder := newContext(http.MethodGet, "/internal/payments/pending", "")

	err := handler.Pending(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"transaction_id":"T1"`)
}

func TestPaymentsHandler_Pending_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	handler := NewPaymentsHandler(mockPaymentUC)

	mockPaymentUC.EXPECT().ListPending(gomock.Any()).Return(nil, errors.New("db down"))

	c, recorder := newContext(http.MethodGet, "/internal/payments/pending", "")

	err := handler.Pending(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
