package newrelic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpers_NoTransaction(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, FromContext(ctx))
	SetTransactionName(nil, "ignored")
	AddTransactionAttribute(nil, "key", "value")
	NoticeTransactionError(nil, errors.New("ignored"))

	err := WithSegment(ctx, "segment", func() error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")

	value, err := WithSegmentAndReturn(ctx, "segment", func() (int, error) { return 42, nil })
	assert.NoError(t, err)
	assert.Equal(t, 42, value)

	bgCtx, end := StartBackgroundTransaction(ctx, nil, "worker")
	assert.Equal(t, ctx, bgCtx)
	end()
}

func TestInstrumentHTTPRequest_NoTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := InstrumentHTTPRequest(context.Background(), req, func() (*http.Response, error) {
		return http.DefaultClient.Do(req)
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
