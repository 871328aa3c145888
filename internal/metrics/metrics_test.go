package metrics

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.AuthSuccesses.WithLabelValues(MethodLogin).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AuthSuccesses.WithLabelValues(MethodLogin)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AuthSuccesses.WithLabelValues(MethodLogin)))
}

func TestInstrument_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/items/1", "/api/items/2", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `route="/api/items/{id}"`)
	assert.Contains(t, text, `status="418"`)
	assert.Contains(t, text, `route="/ok",status="200"`)
	assert.False(t, strings.Contains(text, `route="/api/items/1"`), "raw paths must not become labels")
}

func TestWatchDB(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := New()
	m.WatchDB(db, "test")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `go_sql_open_connections{db_name="test"}`)
}
