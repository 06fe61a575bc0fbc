package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Text string `json:"text"`
	Auth string `json:"auth"`
}

func newTestConnector(url string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: url, Logger: zap.NewNop()}, opts...)
}

func TestDoRequest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req echoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoResponse{Text: req.Text, Auth: r.Header.Get("Authorization")})
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithAuthToken("secret"), WithRequestLogging())

	var resp echoResponse
	err := c.DoRequest(context.Background(), http.MethodPost, "/echo", echoRequest{Text: "hi"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text)
	assert.Equal(t, "Bearer secret", resp.Auth)
}

func TestDoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "quota exceeded")
	assert.True(t, IsRetryable(err))
}

func TestDoRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestConnector(url, WithRequestTimeout(time.Second)).DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	require.Error(t, err)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.True(t, IsRetryable(err))
}

func TestDoRequest_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var resp echoResponse
	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	assert.False(t, IsRetryable(err))
}

func TestDoRequest_ExtraHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/headers", r.URL.Path)
		assert.Equal(t, "v", r.Header.Get("X-Test"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/headers", nil, nil,
		WithHeader("X-Test", "v"))
	require.NoError(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(&HTTPError{StatusCode: http.StatusBadRequest}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: http.StatusBadGateway}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
