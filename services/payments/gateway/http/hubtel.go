package gateway_http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/scynett/momopay/internal/pkg/circuitbreaker"
	httpclient "github.com/scynett/momopay/internal/pkg/http"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/internal/pkg/retry"
)

// ResponseCodeHTTPError is reported when the collection API answers with a non-2xx status
const ResponseCodeHTTPError = "HTTP_ERROR"

type apiErrorBody struct {
	Message string `json:"Message"`
}

// HubtelGateway talks to the collection and transaction status APIs
type HubtelGateway struct {
	collection *httpclient.Client
	status     *httpclient.Client
}

// NewHubtelGateway creates a gateway with one resilient client per API
func NewHubtelGateway(cfg models.GatewayConfig) *HubtelGateway {
	return &HubtelGateway{
		collection: httpclient.NewClient(clientOptions("gateway-collection", cfg.CollectionBaseURL, cfg)),
		status:     httpclient.NewClient(clientOptions("gateway-status", cfg.StatusBaseURL, cfg)),
	}
}

func clientOptions(name, baseURL string, cfg models.GatewayConfig) httpclient.Options {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryAttempts > 0 {
		retryConfig.Attempts = cfg.RetryAttempts
	}
	if cfg.RetryBaseDelay > 0 {
		retryConfig.BaseDelay = cfg.RetryBaseDelay
	}

	breakerConfig := circuitbreaker.DefaultConfig(name)
	if cfg.BreakerMaxRequests > 0 {
		breakerConfig.MaxRequests = cfg.BreakerMaxRequests
	}
	if cfg.BreakerInterval > 0 {
		breakerConfig.Interval = cfg.BreakerInterval
	}
	if cfg.BreakerTimeout > 0 {
		breakerConfig.Timeout = cfg.BreakerTimeout
	}
	breakerConfig.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	}

	return httpclient.Options{
		Name:     name,
		BaseURL:  baseURL,
		Username: cfg.ClientID,
		Password: cfg.ClientSecret,
		Timeout:  cfg.Timeout,
		Retry:    retryConfig,
		Breaker:  breakerConfig,
	}
}

// Initiate sends a receive-money request. Non-2xx answers are returned as a
// response with code HTTP_ERROR so the caller can classify them; only
// transport failures surface as errors.
func (g *HubtelGateway) Initiate(ctx context.Context, req models.GatewayInitiateRequest) (*models.GatewayInitiateResponse, error) {
	path := fmt.Sprintf("/merchantaccount/merchants/%s/receive/mobilemoney", url.PathEscape(req.AccountID))

	var response models.GatewayInitiateResponse
	err := g.collection.PostJSON(ctx, path, req, &response)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			message := parseErrorMessage(httpErr.Body)
			if message == "" {
				message = httpErr.Error()
			}
			logger.WarnCtx(ctx, "Collection API returned an error status",
				logger.Int("status_code", httpErr.StatusCode),
				logger.String("client_reference", req.ClientReference),
				logger.String("message", message))
			return &models.GatewayInitiateResponse{
				ResponseCode: ResponseCodeHTTPError,
				Message:      message,
			}, nil
		}
		return nil, fmt.Errorf("failed to initiate receive money: %w", err)
	}

	if response.ResponseCode == "" {
		return nil, errors.New("collection API returned an empty response body")
	}
	return &response, nil
}

// CheckStatus queries the transaction status API
func (g *HubtelGateway) CheckStatus(ctx context.Context, query models.StatusQuery) (*models.GatewayStatusResponse, error) {
	path := fmt.Sprintf("/transactions/%s/status", url.PathEscape(query.AccountID))

	params := url.Values{}
	if query.ClientReference != "" {
		params.Set("clientReference", query.ClientReference)
	}
	if query.TransactionID != "" {
		params.Set("hubtelTransactionId", query.TransactionID)
	}
	if query.NetworkTransactionID != "" {
		params.Set("networkTransactionId", query.NetworkTransactionID)
	}

	var response models.GatewayStatusResponse
	if err := g.status.GetJSON(ctx, path, params, &response); err != nil {
		return nil, fmt.Errorf("failed to check transaction status: %w", err)
	}
	return &response, nil
}

func parseErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Message)
}
