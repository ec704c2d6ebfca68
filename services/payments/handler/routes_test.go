package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/middleware"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/services/payments/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouteConfig() *models.Config {
	cfg := &models.Config{}
	cfg.APIKey.Keys = []string{"merchant-key"}
	cfg.Callback.EnableValidation = true
	cfg.Callback.SharedSecret = "s3cret"
	return cfg
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, req)
	return recorder
}

func TestRegisterRoutes_InternalRequiresAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)

	e := echo.New()
	NewHandler(mockPaymentUC, testRouteConfig(), nil).RegisterRoutes(e)

	recorder := serve(e, httptest.NewRequest(http.MethodGet, "/internal/payments/pending", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	mockPaymentUC.EXPECT().ListPending(gomock.Any()).Return(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/internal/payments/pending", nil)
	req.Header.Set(middleware.APIKeyHeader, "merchant-key")
	recorder = serve(e, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegisterRoutes_CallbackGuarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)

	e := echo.New()
	NewHandler(mockPaymentUC, testRouteConfig(), nil).RegisterRoutes(e)

	body := `{"ResponseCode":"0000","Data":{"Amount":1,"ClientReference":"ref1","TransactionId":"T1"}}`

	req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := serve(e, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	mockPaymentUC.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).Return(&models.CallbackResult{TransactionID: "T1"}, nil)
	req = httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Callback-Secret", "s3cret")
	recorder = serve(e, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegisterRoutes_InitiateRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctrl := gomock.NewController(t)
	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	mockPaymentUC.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(&models.InitiateResult{}, nil).Times(1)

	cfg := testRouteConfig()
	cfg.Payments.InitiateRateLimit = 1
	cfg.Payments.InitiateRatePeriod = time.Minute

	e := echo.New()
	NewHandler(mockPaymentUC, cfg, client).RegisterRoutes(e)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/internal/payments/initiate", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(middleware.APIKeyHeader, "merchant-key")
		return serve(e, req).Code
	}

	require.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
