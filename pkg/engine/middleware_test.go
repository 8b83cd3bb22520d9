package engine

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracedapp/tracedapp/pkg/logging"
)

func TestRequestIDMiddlewareAssignsID(t *testing.T) {
	t.Parallel()

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	})

	rec := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err, "generated request ID should be a UUID")
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader), "ID must be echoed in the response")
}

func TestRequestIDMiddlewareKeepsExistingID(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-chosen")

	rec := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, "caller-chosen", rec.Header().Get(RequestIDHeader))
}

func TestRequestLogMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatText, Output: &buf})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	RequestLogMiddleware(log)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/error", nil))

	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/error")
	assert.Contains(t, out, "status=500")
}

func TestStatusRecorderDefaultsTo200(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("implicit 200"))
	})

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatText, Output: &buf})

	rec := httptest.NewRecorder()
	RequestLogMiddleware(log)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "status=200")
}

// An attached wrapper must see the request before routing and the final
// translated response, without the engine altering unknown headers.
func TestInstrumentationWrapperOrdering(t *testing.T) {
	t.Parallel()

	var sawTraceparent string
	var sawStatus int

	wrapper := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawTraceparent = r.Header.Get("traceparent")
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			sawStatus = rec.statusCode
		})
	}

	cfg := fastConfig()
	cfg.Simulation.Error.FailureProbability = 1
	srv := NewServer(cfg, WithMiddleware(wrapper))

	req := httptest.NewRequest(http.MethodGet, "/api/error", nil)
	req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

	rec := httptest.NewRecorder()
	srv.HTTPHandler().ServeHTTP(rec, req)

	assert.Equal(t, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", sawTraceparent,
		"propagation headers must reach the wrapper untouched")
	assert.Equal(t, http.StatusInternalServerError, sawStatus,
		"wrapper must observe the final translated status")
	assert.JSONEq(t, `{"error":"Random error occurred!"}`, rec.Body.String(),
		"wrapping must not alter the response body")
}

func TestWrappersApplyInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	srv := NewServer(fastConfig(), WithMiddleware(mark("outer")), WithMiddleware(mark("inner")))

	rec := httptest.NewRecorder()
	srv.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `{"status":"healthy"`))
}
