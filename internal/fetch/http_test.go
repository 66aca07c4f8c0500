package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearbuy/clearbuy-cli/internal/config"
)

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{
		TimeoutSecs:  5,
		UserAgent:    "test-agent/1.0",
		MaxBodyBytes: 512 * 1024,
	}
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><h1>Earbuds</h1><p>₹1,499</p></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testFetchConfig())
	page, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, page.Markup, "Earbuds")
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "127.0.0.1", page.FinalDomain)
}

func TestFetch_BlockedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Checking your browser before accessing</html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testFetchConfig())
	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, KindBlocked, ferr.Kind)
	assert.Contains(t, ferr.Message(), "protected")
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(testFetchConfig())
	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, KindNetwork, ferr.Kind)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := NewHTTPFetcher(testFetchConfig())
	_, err := f.Fetch(ctx, srv.URL)

	require.Error(t, err)
	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, KindTimeout, ferr.Kind)
}

func TestFetch_BodyTruncatedAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.MaxBodyBytes = 1024
	f := NewHTTPFetcher(cfg)

	page, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, page.Markup, 1024)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	f := NewHTTPFetcher(testFetchConfig())
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")

	require.Error(t, err)
	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, KindNetwork, ferr.Kind)
}
