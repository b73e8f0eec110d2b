package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Client_RetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"id":"abc","nested":{"n":2}}`))
	}))
	defer server.Close()

	resp, err := NewGenerator().New(server.URL, "/items/%s", "x").
		Query(Parameter{"page": "1"}).
		Retry(2).
		GET(context.Background(), OAuth2("Bearer", "token"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, int32(3), calls.Load())

	body, ok := resp.Body.(JSON)
	require.True(t, ok)
	id, err := body.GetString("id")
	require.NoError(t, err)
	require.Equal(t, "abc", id)

	n, err := body.GetInt("nested.n")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func Test_Client_RetryExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := NewGenerator().New(server.URL, "/").
		Retry(1).
		POST(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Equal(t, int32(2), calls.Load())
}

func Test_Client_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":10007}`))
	}))
	defer server.Close()

	resp, err := NewGenerator().New(server.URL, "/").Retry(3).GET(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, int32(1), calls.Load())
}

func Test_Client_JSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`[{"id":"1"},{"id":"2"}]`))
	}))
	defer server.Close()

	resp, err := NewGenerator().New(server.URL, "/").
		Body(JSON{"content": "hello"}).
		POST(context.Background())
	require.NoError(t, err)

	array, ok := resp.Body.(Array)
	require.True(t, ok)
	require.Len(t, array, 2)
}

func TestParameter_Encode(t *testing.T) {
	require.Equal(t, "a=1&b=x%20y", Parameter{"b": "x y", "a": "1"}.Encode())
}
