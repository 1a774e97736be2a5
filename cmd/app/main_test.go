package main

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positioncard/internal/infra"
)

func TestOuterRouter_HealthAndMount(t *testing.T) {
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r := newOuterRouter(app, infra.NewSessionStore(time.Minute))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"sessions":0`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/form/fields/entryPrice", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestOuterRouter_LeavesRequestLoggingToApp(t *testing.T) {
	var buf bytes.Buffer
	saved := chimiddleware.DefaultLogger
	chimiddleware.DefaultLogger = chimiddleware.RequestLogger(&chimiddleware.DefaultLogFormatter{
		Logger:  log.New(&buf, "", 0),
		NoColor: true,
	})
	t.Cleanup(func() { chimiddleware.DefaultLogger = saved })

	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	r := newOuterRouter(app, infra.NewSessionStore(time.Minute))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/form/fields/entryPrice", nil))
	}

	assert.Empty(t, buf.String())
}
