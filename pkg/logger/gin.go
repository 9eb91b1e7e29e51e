package logger

import (
	"bytes"
	"encoding/json"
	"io"

	"paymenthub/pkg/correlation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBody = 8 * 1024 // 8KB

func limit(b []byte) []byte {
	if len(b) > maxBody {
		return b[:maxBody]
	}
	return b
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// CorrelationMiddleware extracts X-Correlation-ID from request header or generates a new one.
// It stores the ID in the request context and adds it to the response header.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		corrID := c.GetHeader(correlation.HeaderName)
		if corrID == "" {
			corrID = correlation.NewID()
		}

		ctx := correlation.WithID(c.Request.Context(), corrID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(correlation.HeaderName, corrID)

		c.Next()
	}
}

// GinBodyLogger logs every request with method, path, status and bounded
// request/response bodies. Card numbers never appear here: handlers receive
// card fields only on the add-payment-method route, which is logged with the
// body redacted.
func (l *Logger) GinBodyLogger(redactedPaths ...string) gin.HandlerFunc {
	redacted := make(map[string]struct{}, len(redactedPaths))
	for _, p := range redactedPaths {
		redacted[p] = struct{}{}
	}

	return func(c *gin.Context) {
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		responseBuffer := &bytes.Buffer{}
		writer := &responseBodyWriter{
			body:           responseBuffer,
			ResponseWriter: c.Writer,
		}
		c.Writer = writer

		c.Next()

		logEvent := l.logger.Info()

		if corrID := correlation.FromContext(c.Request.Context()); corrID != "" {
			logEvent = logEvent.Str("correlation_id", corrID)
		}

		logEvent = logEvent.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status())

		if _, ok := redacted[c.FullPath()]; ok {
			logEvent = logEvent.Str("request_body", "[redacted]")
		} else {
			logEvent = addMaybeJSON(logEvent, "request_body", limit(requestBody))
		}
		logEvent = addMaybeJSON(logEvent, "response_body", limit(responseBuffer.Bytes()))

		logEvent.Msg("HTTP Request")
	}
}

func addMaybeJSON(e *zerolog.Event, key string, b []byte) *zerolog.Event {
	bb := bytes.TrimSpace(b)

	if len(bb) == 0 {
		return e.RawJSON(key, []byte("null"))
	}

	if json.Valid(bb) {
		return e.RawJSON(key, bb)
	}

	return e.Str(key, string(bb))
}
