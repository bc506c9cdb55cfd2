package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordTestSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[string]string {
	attrs := map[string]string{}
	for _, attr := range span.Attributes() {
		attrs[string(attr.Key)] = attr.Value.Emit()
	}
	return attrs
}

func TestTracingEnrichesSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordTestSpans(t)

	router := gin.New()
	router.Use(RequestID())
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "mechanic-5")
		c.Next()
	})
	router.Use(Tracing())
	router.GET("/api/v1/service-orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/service-orders/7", nil)
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := spanAttributes(spans[0])
	assert.Equal(t, "req-42", attrs["request_id"])
	assert.Equal(t, "mechanic-5", attrs["user_id"])
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracingMarksErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordTestSpans(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/api/v1/customers/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Not Found", spans[0].Status().Description)
}

func TestTracingTruncatesOversizedRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := recordTestSpans(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	huge := make([]byte, 4096)
	for i := range huge {
		huge[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", string(huge))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Len(t, spanAttributes(spans[0])["request_id"], maxRequestIDLength)
}
