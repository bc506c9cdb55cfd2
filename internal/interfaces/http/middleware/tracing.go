package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength caps the request_id attribute so oversized
// headers cannot bloat spans.
const maxRequestIDLength = 128

// Tracing wraps otelgin and enriches each request span with the
// request id and acting user, marking 4xx/5xx responses as errors.
func Tracing() gin.HandlerFunc {
	base := otelgin.Middleware("mecanicpro-backend")

	return func(c *gin.Context) {
		// otelgin runs the rest of the chain inside the span
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if requestID := tracedRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if userID, ok := c.Get(JWTUserIDKey); ok {
			if id, isString := userID.(string); isString && id != "" {
				span.SetAttributes(attribute.String("user_id", id))
			}
		}

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}

func tracedRequestID(c *gin.Context) string {
	if requestID, ok := c.Get("request_id"); ok {
		if id, isString := requestID.(string); isString && id != "" {
			return id
		}
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > maxRequestIDLength {
		return headerID[:maxRequestIDLength]
	}
	return headerID
}
