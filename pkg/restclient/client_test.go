package restclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("payments", "  ")
	require.Error(t, err)
}

func TestDoSendsJSONAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/orders/o-1", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":3}`, string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, err := New("orders", srv.URL+"/v1/", WithAPIKey(" secret "))
	require.NoError(t, err)

	payload, err := client.Do(context.Background(), http.MethodPut, "/orders/o-1", map[string]int{"status": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(payload))
}

func TestDoMapsStatusCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := New("payments", srv.URL)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "missing", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = client.Do(context.Background(), http.MethodGet, "broken", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, err.Error(), "502")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var transitions []gobreaker.State
	client, err := New("payments", srv.URL,
		WithBreaker(2, time.Minute),
		WithStateChange(func(_ string, _, to gobreaker.State) { transitions = append(transitions, to) }),
	)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = client.Do(context.Background(), http.MethodGet, "p", nil)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err = client.Do(context.Background(), http.MethodGet, "p", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, err.Error(), "payments unavailable")
	assert.Equal(t, 2, calls, "open breaker sheds the call")
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client, err := New("payments", srv.URL, WithBreaker(1, time.Minute))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = client.Do(context.Background(), http.MethodGet, "p", nil)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	}
	assert.Equal(t, gobreaker.StateClosed, client.State())
}

func TestDecodeData(t *testing.T) {
	var dst struct {
		ID string `json:"id"`
	}
	require.NoError(t, DecodeData([]byte(`{"data":{"id":"a"}}`), &dst))
	assert.Equal(t, "a", dst.ID)

	require.NoError(t, DecodeData([]byte(`{"id":"b"}`), &dst))
	assert.Equal(t, "b", dst.ID)

	var bad json.RawMessage
	assert.Error(t, DecodeData([]byte(`not json`), &bad))
}

func TestNilClientDo(t *testing.T) {
	var client *Client
	_, err := client.Do(context.Background(), http.MethodGet, "p", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
