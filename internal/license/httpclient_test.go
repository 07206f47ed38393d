package license

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetHTTPClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("token-body"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client())
	resp := client.Get(context.Background(), server.URL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "token-body", string(resp.Body))
}

func TestNetHTTPClientPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.Client())
	resp := client.Post(context.Background(), server.URL, "text/plain", []byte("payload"))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestNetHTTPClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewHTTPClient(nil)
	resp := client.Get(context.Background(), url)
	// No HTTP response at all maps to status code 0.
	assert.Equal(t, 0, resp.StatusCode)

	resp = client.Post(context.Background(), url, "text/plain", nil)
	assert.Equal(t, 0, resp.StatusCode)
}
