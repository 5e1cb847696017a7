package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/sembrowse/errors"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Team"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer server.Close()

	client := WrapClient(&http.Client{Timeout: 5 * time.Second})
	var out map[string]string
	err := client.DoJSON(context.Background(), http.MethodPost, server.URL,
		http.Header{"X-Team": {"secret"}}, map[string]string{"name": "ds"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ds", out["echo"])
}

func TestDoJSON_StatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusForbidden, errors.ErrForbidden},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusTooManyRequests, errors.ErrServiceUnavailable},
		{http.StatusBadGateway, errors.ErrServiceUnavailable},
		{http.StatusBadRequest, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"nope"}`, tt.status)
			}))
			defer server.Close()

			client := WrapClient(&http.Client{Timeout: 5 * time.Second})
			err := client.DoJSON(context.Background(), http.MethodGet, server.URL, nil, nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, `{"error":"nope"}`, statusErr.Body)
		})
	}
}

func TestDoJSON_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := WrapClient(&http.Client{Timeout: 5 * time.Second})
	var out map[string]any
	err := client.DoJSON(context.Background(), http.MethodGet, server.URL, nil, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestDoJSON_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := WrapClient(&http.Client{Timeout: time.Second})
	err := client.DoJSON(context.Background(), http.MethodGet, url, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrServiceUnavailable))
}
