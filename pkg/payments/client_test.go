package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseras/storefront-backend/pkg/config"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.PaymentsConfig{
		BaseURL:          srv.URL + "/api/v1/",
		APIKey:           "secret",
		Timeout:          time.Second,
		BreakerFailures:  2,
		BreakerOpenDelay: time.Minute,
	})
	require.NoError(t, err)
	return client
}

func TestGetPaymentByOrderCodeUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payments/123", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"orderCode":123,"amount":500000,"status":"PAID","description":"order-456"}}`))
	})

	info, err := client.GetPaymentByOrderCode(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, int64(123), info.OrderCode)
	assert.Equal(t, "PAID", info.Status)
	assert.Equal(t, "order-456", info.Description)
	assert.Equal(t, "500000", info.Amount.String())
}

func TestGetPaymentByOrderCodeAcceptsBareObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":"150000","status":"PENDING","description":"order-9"}`))
	})

	info, err := client.GetPaymentByOrderCode(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), info.OrderCode)
	assert.Equal(t, "PENDING", info.Status)
	assert.Equal(t, "150000", info.Amount.String())
}

func TestGetPaymentByOrderCodeErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/payments/404":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	})

	_, err := client.GetPaymentByOrderCode(context.Background(), 404)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = client.GetPaymentByOrderCode(context.Background(), 500)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, err.Error(), "upstream down")

	_, err = client.GetPaymentByOrderCode(context.Background(), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.GetPaymentByOrderCode(ctx, 1)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.rest.State())

	_, err := client.GetPaymentByOrderCode(ctx, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the backend")
}

func TestNilClient(t *testing.T) {
	var client *Client
	_, err := client.GetPaymentByOrderCode(context.Background(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
