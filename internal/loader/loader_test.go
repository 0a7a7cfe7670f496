package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foodPayload = `[
  {"name":"Boiled Egg","price":10,"text":"healthy","image":"/images/egg.png","type":"breakfast"},
  {"name":"RAMEN","price":25,"text":"noodles","image":"/images/ramen.png","type":"lunch","spicy":true},
  {"name":"Grilled Chicken","price":45,"text":"grilled","image":"/images/chicken.png","type":"dinner"}
]`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPLoader_Load(t *testing.T) {
	srv := serve(t, http.StatusOK, foodPayload)

	ds, err := NewHTTPLoader(srv.URL, Options{}).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "Boiled Egg", ds.At(0).Name)
	assert.Equal(t, "RAMEN", ds.At(1).Name)
	assert.Equal(t, "Grilled Chicken", ds.At(2).Name)
	assert.JSONEq(t, `true`, string(ds.At(1).Attributes["spicy"]))
	assert.Equal(t, srv.URL, ds.Source())
	assert.NotEmpty(t, ds.At(0).ID)
}

func TestHTTPLoader_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
		{name: "object instead of array", status: http.StatusOK, body: `{"name":"x","type":"y"}`, wantErr: ErrNotArray},
		{name: "null", status: http.StatusOK, body: `null`, wantErr: ErrNotArray},
		{name: "empty body", status: http.StatusOK, body: ``, wantErr: ErrNotArray},
		{name: "missing type", status: http.StatusOK, body: `[{"name":"x"}]`},
		{name: "name not a string", status: http.StatusOK, body: `[{"name":5,"type":"lunch"}]`},
		{name: "truncated", status: http.StatusOK, body: `[{"name":"x","type":"lunch"}`},
		{name: "garbage after array", status: http.StatusOK, body: `[{"name":"a","type":"b"}] garbage`},
		{name: "second array", status: http.StatusOK, body: `[{"name":"a","type":"b"}][]`},
		{name: "object after array", status: http.StatusOK, body: `[] {"name":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)

			ds, err := NewHTTPLoader(srv.URL, Options{}).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, ds)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			assert.Equal(t, srv.URL, loadErr.Source)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHTTPLoader_OpaqueFields(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
  {"id":7,"name":"Tea","type":"breakfast","price":"$5.50"},
  {"id":"w","name":"Water","type":"lunch","price":0,"text":""}
]
`)

	ds, err := NewHTTPLoader(srv.URL, Options{}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	tea := ds.At(0)
	assert.Equal(t, "7", tea.ID)
	assert.JSONEq(t, `"$5.50"`, string(tea.Attributes["price"]))

	out, err := json.Marshal(ds.Items())
	require.NoError(t, err)
	assert.JSONEq(t, `[
  {"id":7,"name":"Tea","type":"breakfast","price":"$5.50"},
  {"id":"w","name":"Water","type":"lunch","price":0,"text":""}
]`, string(out))
}

func TestHTTPLoader_EmptyArray(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)

	ds, err := NewHTTPLoader(srv.URL, Options{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestHTTPLoader_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPLoader(srv.URL, Options{Timeout: 50 * time.Millisecond}).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPLoader_Cancel(t *testing.T) {
	srv := serve(t, http.StatusOK, foodPayload)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPLoader(srv.URL, Options{}).Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPLoader_PayloadLimit(t *testing.T) {
	srv := serve(t, http.StatusOK, foodPayload)

	_, err := NewHTTPLoader(srv.URL, Options{MaxPayloadBytes: 32}).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestHTTPLoader_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.URL, Options{
		Breaker: BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute},
	})

	for i := 0; i < 2; i++ {
		_, err := l.Load(context.Background())
		require.Error(t, err)
	}

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the source")

	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestHTTPLoader_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(foodPayload))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	ds, err := NewHTTPLoader(srv.URL+"/foods.json.gz", Options{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foods.json")
	require.NoError(t, os.WriteFile(path, []byte(foodPayload), 0644))

	t.Run("plain path", func(t *testing.T) {
		l, err := New(path, Options{})
		require.NoError(t, err)
		require.IsType(t, &FileLoader{}, l)

		ds, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, ds.Len())
	})

	t.Run("file url", func(t *testing.T) {
		l, err := New("file://"+path, Options{})
		require.NoError(t, err)

		ds, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, path, ds.Source())
	})

	t.Run("gzip file", func(t *testing.T) {
		gzPath := filepath.Join(dir, "foods.json.gz")
		f, err := os.Create(gzPath)
		require.NoError(t, err)
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(foodPayload))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		require.NoError(t, f.Close())

		ds, err := NewFileLoader(gzPath, Options{}).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, ds.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(dir, "nope.json"), Options{}).Load(context.Background())
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.True(t, strings.HasSuffix(loadErr.Source, "nope.json"))
	})
}

func TestNew_SelectsLoader(t *testing.T) {
	l, err := New("http://localhost:9000", Options{})
	require.NoError(t, err)
	assert.IsType(t, &HTTPLoader{}, l)

	_, err = New("ftp://example.com/foods.json", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedURL)

	_, err = New("", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}
