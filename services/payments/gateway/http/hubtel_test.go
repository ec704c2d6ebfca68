package gateway_http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpclient "github.com/scynett/momopay/internal/pkg/http"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) models.GatewayConfig {
	return models.GatewayConfig{
		CollectionBaseURL: url,
		StatusBaseURL:     url,
		ClientID:          "client",
		ClientSecret:      "secret",
		Timeout:           2 * time.Second,
		RetryAttempts:     2,
		RetryBaseDelay:    time.Millisecond,
	}
}

func TestHubtelGateway_Initiate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/merchantaccount/merchants/POS-1/receive/mobilemoney", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "10.50", body["Amount"])
		assert.Equal(t, "233241234567", body["CustomerMsisdn"])
		assert.NotContains(t, body, "AccountID")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ResponseCode":"0001","Message":"Transaction pending","Data":{"TransactionId":"T1","ClientReference":"ref1","Amount":10.5,"Charges":0.05}}`))
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	resp, err := gw.Initiate(context.Background(), models.GatewayInitiateRequest{
		AccountID:       "POS-1",
		CustomerMsisdn:  "233241234567",
		Channel:         "mtn-gh",
		Amount:          "10.50",
		Description:     "Order 1",
		ClientReference: "ref1",
	})

	require.NoError(t, err)
	assert.Equal(t, "0001", resp.ResponseCode)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "T1", resp.Data.TransactionID)
	assert.Equal(t, "10.5", resp.Data.Amount.String())
	require.NotNil(t, resp.Data.Charges)
	assert.Equal(t, "0.05", resp.Data.Charges.String())
}

func TestHubtelGateway_Initiate_HTTPErrorBecomesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Message":"Invalid channel"}`))
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	resp, err := gw.Initiate(context.Background(), models.GatewayInitiateRequest{AccountID: "POS-1"})

	require.NoError(t, err)
	assert.Equal(t, ResponseCodeHTTPError, resp.ResponseCode)
	assert.Equal(t, "Invalid channel", resp.Message)
}

func TestHubtelGateway_Initiate_UnparseableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`forbidden`))
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	resp, err := gw.Initiate(context.Background(), models.GatewayInitiateRequest{AccountID: "POS-1"})

	require.NoError(t, err)
	assert.Equal(t, ResponseCodeHTTPError, resp.ResponseCode)
	assert.Equal(t, "HTTP error: 403 Forbidden", resp.Message)
}

func TestHubtelGateway_Initiate_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ResponseCode":"0000","Message":"ok","Data":{"TransactionId":"T2"}}`))
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	resp, err := gw.Initiate(context.Background(), models.GatewayInitiateRequest{AccountID: "POS-1"})

	require.NoError(t, err)
	assert.Equal(t, "0000", resp.ResponseCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHubtelGateway_Initiate_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	_, err := gw.Initiate(context.Background(), models.GatewayInitiateRequest{AccountID: "POS-1"})

	assert.Error(t, err)
}

func TestHubtelGateway_CheckStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transactions/POS-1/status", r.URL.Path)
		assert.Equal(t, "ref1", r.URL.Query().Get("clientReference"))
		assert.Equal(t, "T1", r.URL.Query().Get("hubtelTransactionId"))
		assert.Empty(t, r.URL.Query().Get("networkTransactionId"))

		_, _ = w.Write([]byte(`{"message":"Successful","responseCode":"0000","data":{"date":"2024-05-01T10:00:00","status":"Paid","transactionId":"T1","clientReference":"ref1","amount":10.5,"isFulfilled":true}}`))
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	resp, err := gw.CheckStatus(context.Background(), models.StatusQuery{
		AccountID:       "POS-1",
		ClientReference: "ref1",
		TransactionID:   "T1",
	})

	require.NoError(t, err)
	assert.Equal(t, "0000", resp.ResponseCode)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Paid", resp.Data.Status)
	assert.Equal(t, "2024-05-01T10:00:00", resp.Data.Date)
	require.NotNil(t, resp.Data.IsFulfilled)
	assert.True(t, *resp.Data.IsFulfilled)
}

func TestHubtelGateway_CheckStatus_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gw := NewHubtelGateway(testConfig(server.URL))

	_, err := gw.CheckStatus(context.Background(), models.StatusQuery{AccountID: "POS-1", ClientReference: "ref1"})

	require.Error(t, err)
	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}
