package gridmeta

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paramsDoc = `{
	"lat_0": 38.5, "lat_1": 38.5, "lat_2": 38.5, "lon_0": 262.5,
	"a": 6371229.0, "b": 6371229.0
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchParams(t *testing.T) {
	t.Run("complete document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, paramsDoc)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second, discardLogger())
		params, err := c.FetchParams(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 38.5, params.Lat0)
		assert.Equal(t, 262.5, params.Lon0)
		assert.Equal(t, params.A, params.B)
	})

	t.Run("missing parameter is an error, not a default", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"lat_0": 38.5, "lat_1": 38.5, "lat_2": 38.5, "lon_0": 262.5, "a": 6371229.0}`)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, discardLogger()).FetchParams(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"b"`)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, discardLogger()).FetchParams(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html>not json</html>")
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, discardLogger()).FetchParams(context.Background())
		assert.Error(t, err)
	})

	t.Run("invalid numeric parameter", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"lat_0": 38.5, "lat_1": 38.5, "lat_2": 38.5, "lon_0": 262.5, "a": -1, "b": -1}`)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second, discardLogger()).FetchParams(context.Background())
		assert.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewClient(srv.URL, time.Second, discardLogger()).FetchParams(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewClientDefaultsURL(t *testing.T) {
	c := NewClient("", time.Second, discardLogger())
	assert.Equal(t, DefaultURL, c.url)
}
