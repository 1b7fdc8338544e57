package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storagemanager/internal/core/apperror"
	"storagemanager/pkg/logger"
)

func newEngine(handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	return newEngineWithLogger(logger.NewNop(), handler, extra...)
}

func newEngineWithLogger(log *logger.Logger, handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(log), Trace())
	r.Use(extra...)
	r.Use(Logger(log), ErrorHandler(log))
	r.GET("/x/:id", handler)
	return r
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"Validation", apperror.NewValidation("bad"), http.StatusBadRequest, apperror.CodeValidation},
		{"NotFound", apperror.NewNotFound("Resource", "id", 1), http.StatusNotFound, apperror.CodeNotFound},
		{"AlreadyExists", apperror.NewAlreadyExists("Resource", "name", "Bolt"), http.StatusConflict, apperror.CodeAlreadyExists},
		{"EntityInUse", apperror.NewEntityInUse("Resource", 1), http.StatusLocked, apperror.CodeEntityInUse},
		{"BalanceNotFound", apperror.NewBalanceNotFound(1, 2), http.StatusGone, apperror.CodeBalanceNotFound},
		{"NegativeBalance", apperror.NewNegativeBalance(1, 2), http.StatusUnprocessableEntity, apperror.CodeNegativeBalance},
		{"EmptyShipment", apperror.NewEmptyShipment("SHIP-1"), http.StatusPreconditionFailed, apperror.CodeEmptyShipment},
		{"Wrapped", errors.Join(errors.New("ctx"), apperror.NewEntityInUse("Measure", 1)), http.StatusLocked, apperror.CodeEntityInUse},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError, apperror.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(func(c *gin.Context) {
				_ = c.Error(tt.err)
				c.Abort()
			})

			rec := serve(r, httptest.NewRequest(http.MethodGet, "/x/1", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}

func TestErrorHandler_HidesInternalCause(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("connection refused to 10.0.0.5"))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/x/1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		panic("nil map")
	})

	req := httptest.NewRequest(http.MethodGet, "/x/1", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := serve(r, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"request_id":"req-42"`)
	assert.NotContains(t, rec.Body.String(), "nil map")
}

func TestRecovery_LogsThroughInjectedLogger(t *testing.T) {
	log, logs := observedLogger()
	r := newEngineWithLogger(log, func(c *gin.Context) {
		panic("nil map")
	})

	req := httptest.NewRequest(http.MethodGet, "/x/1", nil)
	req.Header.Set(HeaderTraceID, "trace-9")
	serve(r, req)

	panics := logs.FilterMessage("panic recovered").All()
	require.Len(t, panics, 1)
	fields := panics[0].ContextMap()
	assert.Equal(t, "http", fields["component"])
	assert.Equal(t, "trace-9", fields["trace_id"])
}

func TestErrorHandler_LogsThroughInjectedLogger(t *testing.T) {
	log, logs := observedLogger()
	r := newEngineWithLogger(log, func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/x/1", nil))

	assert.Equal(t, 1, logs.FilterMessage("unhandled error").Len())
}

func TestTrace_PropagatesHeaders(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("trace_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x/1", nil)
	req.Header.Set(HeaderTraceID, "trace-1")
	rec := serve(r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-1", rec.Body.String())
	assert.Equal(t, "trace-1", rec.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

type recorded struct {
	method, path string
	status       int
}

type fakeRecorder struct {
	calls []recorded
}

func (f *fakeRecorder) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	f.calls = append(f.calls, recorded{method, path, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	fr := &fakeRecorder{}
	r := newEngine(func(c *gin.Context) { c.Status(http.StatusNoContent) }, Metrics(fr))

	serve(r, httptest.NewRequest(http.MethodGet, "/x/123", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Len(t, fr.calls, 2)
	assert.Equal(t, recorded{http.MethodGet, "/x/:id", http.StatusNoContent}, fr.calls[0])
	assert.Equal(t, recorded{http.MethodGet, "unmatched", http.StatusNotFound}, fr.calls[1])
}
