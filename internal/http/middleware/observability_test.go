package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	testlog "service-carrier-settlement/internal/testutil"
)

func TestObservability_LogsRequest(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/settlements/batch", nil)
	Observability(rec.Logger())(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	entries := rec.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "http request", entries[0].Msg)
	require.Equal(t, "info", entries[0].Level)
}

func TestPathPattern_FallsBackToURLPath(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/carriers/5/balance", nil)
	require.Equal(t, "/carriers/5/balance", pathPattern(req))
}
