package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	err := client.Send(context.Background(), srv.URL, "Alice is home", "U123")
	require.NoError(t, err)
	require.Equal(t, "Alice is home", body["message"])
	require.Equal(t, "U123", body["target_id"])
}

func TestSend_OmitsEmptyTargetID(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	require.NoError(t, client.Send(context.Background(), srv.URL, "Alice is elsewhere", ""))
	require.Equal(t, "Alice is elsewhere", body["message"])
	require.NotContains(t, body, "target_id")
}

func TestSend_AcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewHTTPClient().Send(context.Background(), srv.URL, "hi", ""))
}

func TestSend_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPClient().Send(context.Background(), srv.URL, "hi", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestSend_NetworkErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed before the request goes out

	err := NewHTTPClient().Send(context.Background(), srv.URL, "hi", "")
	require.Error(t, err)
}
