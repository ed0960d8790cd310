package glances

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/glanced/internal/config"
	"github.com/mozilla-ai/glanced/internal/errors"
	"github.com/mozilla-ai/glanced/internal/registry"
)

// newTestClient builds a client over a single-server registry pointing at url.
func newTestClient(t *testing.T, url string, opt ...Option) *Client {
	t.Helper()

	reg, err := registry.New([]config.ServerEntry{
		{ID: "test", Name: "Test server", URL: url},
	})
	require.NoError(t, err)

	c, err := NewClient(reg, nil, opt...)
	require.NoError(t, err)
	return c
}

func TestFetchSuccess(t *testing.T) {
	var sawPath, sawAccept, sawAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPath = r.URL.Path
		sawAccept = r.Header.Get("Accept")
		sawAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"total": 12.5}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	body, err := c.Fetch(context.Background(), "test", "cpu")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 12.5}`, string(body))
	assert.Equal(t, "/api/4/cpu", sawPath)
	assert.Equal(t, "application/json", sawAccept)
	assert.Equal(t, userAgent, sawAgent)
}

func TestFetchUnknownServerNoNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Fetch(context.Background(), "missing", "cpu")
	require.Error(t, err)
	assert.Equal(t, errors.KindUnknownServer, errors.KindOf(err))
	assert.ErrorIs(t, err, errors.ErrUnknownServer)
	assert.Equal(t, int64(0), calls.Load())
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, WithTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := c.Fetch(context.Background(), "test", "cpu")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, errors.KindTimeout, errors.KindOf(err))
	assert.Less(t, elapsed, 500*time.Millisecond, "timeout must be honored, not an unbounded wait")
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listens here any more

	c := newTestClient(t, url)

	_, err := c.Fetch(context.Background(), "test", "cpu")
	require.Error(t, err)
	assert.Equal(t, errors.KindConnectionFailed, errors.KindOf(err))
}

func TestFetchHTTPStatusError(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectedStatus int
	}{
		{
			name:           "internal server error",
			status:         http.StatusInternalServerError,
			body:           "glances plugin exploded",
			expectedStatus: 500,
		},
		{
			name:           "not found",
			status:         http.StatusNotFound,
			body:           "no such plugin",
			expectedStatus: 404,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)

			_, err := c.Fetch(context.Background(), "test", "cpu")
			require.Error(t, err)
			assert.Equal(t, errors.KindHTTPStatus, errors.KindOf(err))

			var fe *errors.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.expectedStatus, fe.StatusCode)
			assert.Contains(t, fe.BodyExcerpt, tc.body)
		})
	}
}

func TestFetchStatusExcerptTruncated(t *testing.T) {
	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(long)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Fetch(context.Background(), "test", "cpu")
	require.Error(t, err)

	var fe *errors.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe.BodyExcerpt, maxExcerptBytes)
}

func TestFetchStatusExcerptKeepsValidUTF8(t *testing.T) {
	// Three-byte runes so the excerpt cap lands mid-rune.
	long := strings.Repeat("€", maxExcerptBytes)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Fetch(context.Background(), "test", "cpu")
	require.Error(t, err)

	var fe *errors.FetchError
	require.ErrorAs(t, err, &fe)
	assert.LessOrEqual(t, len(fe.BodyExcerpt), maxExcerptBytes)
	assert.True(t, utf8.ValidString(fe.BodyExcerpt))
}

func TestFetchCategoryRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/4/cpu", r.URL.Path)
		_, _ = w.Write([]byte(`{"cpu": 12.5}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	value, err := c.FetchCategory(context.Background(), "test", CategoryCPU)
	require.NoError(t, err)

	m, ok := value.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m, "cpu")
}

func TestFetchCategoryPathSubResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/4/cpu/total", r.URL.Path)
		_, _ = w.Write([]byte(`12.5`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	// Sub-resource payloads are scalars, which must still pass normalization.
	value, err := c.FetchCategoryPath(context.Background(), "test", CategoryCPU, "total")
	require.NoError(t, err)
	assert.NotNil(t, value)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/4/version", r.URL.Path)
		_, _ = w.Write([]byte(`{"version": "4.3.2"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	latency, err := c.Ping(context.Background(), "test")
	require.NoError(t, err)
	assert.Greater(t, latency, time.Duration(0))
}
