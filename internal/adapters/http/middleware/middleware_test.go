package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesboard/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func TestRequestAndCorrelationID(t *testing.T) {
	var seen struct {
		request, correlation     string
		ctxRequest, ctxCorrelate string
	}

	engine := gin.New()
	engine.Use(RequestID(), CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		seen.request = GetRequestID(c)
		seen.correlation = GetCorrelationID(c)
		seen.ctxRequest = RequestIDFromContext(c.Request.Context())
		seen.ctxCorrelate = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
		require.NoError(t, err)
		assert.Equal(t, w.Header().Get(HeaderRequestID), seen.request)
		assert.Equal(t, seen.request, seen.ctxRequest)
		assert.NotEmpty(t, seen.correlation)
		assert.NotEqual(t, seen.request, seen.correlation)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "req-1")
		req.Header.Set(HeaderCorrelationID, "corr-1")

		w := serve(engine, req)

		assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "corr-1", w.Header().Get(HeaderCorrelationID))
		assert.Equal(t, "corr-1", seen.ctxCorrelate)
	})
}

func TestContextIDHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithCorrelationID(ContextWithRequestID(ctx, "r"), "c")
	assert.Equal(t, "r", RequestIDFromContext(ctx))
	assert.Equal(t, "c", CorrelationIDFromContext(ctx))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
	}, RequestID(), Logging(logger, "/-/"))
	engine.GET("/api/v1/quote/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	engine.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Zero(t, buf.Len(), "probe paths are skipped")

	serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/quote/9?x=1", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "/api/v1/quote/9?x=1", entry["path"])
	assert.Equal(t, "/api/v1/quote/:id", entry["route"])
	assert.InDelta(t, 404, entry["status"], 0)
	assert.NotEmpty(t, entry["request_id"])
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	engine := gin.New()
	engine.Use(Recovery(slog.New(slog.NewJSONHandler(&buf, nil))))
	engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "req-boom")

	w := serve(engine, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "kaboom")
	assert.Equal(t, "req-boom", resp.TraceID)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestDeadline(t *testing.T) {
	var deadline time.Time

	engine := gin.New()
	engine.Use(Deadline(time.Minute))
	engine.GET("/", func(c *gin.Context) {
		deadline, _ = c.Request.Context().Deadline()
	})

	serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	engine = gin.New()
	engine.Use(Deadline(0))
	engine.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
	})

	serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
}
