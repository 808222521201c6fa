// Package tracing wires opentracing spans into the HTTP transport.
package tracing

import (
	"net/http"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
)

// LogError adds a span log for an error.
// Returns unchanged error, so useful to wrap as in:
//
//	return nil, tracing.LogError(span, err)
func LogError(span opentracing.Span, err error) error {
	if err == nil {
		return nil
	}
	ext.Error.Set(span, true)
	span.LogFields(log.Error(err))
	return err
}

// ExtractFromHTTPRequest starts a span for req. The span is a child of the
// one referenced in the request headers when there is one.
func ExtractFromHTTPRequest(req *http.Request, handlerName string) (opentracing.Span, *http.Request) {
	opName := handlerName + ":" + req.URL.Path

	spanContext, err := opentracing.GlobalTracer().Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(req.Header))
	if err != nil {
		span, ctx := opentracing.StartSpanFromContext(req.Context(), opName)
		if err != opentracing.ErrSpanContextNotFound {
			span.LogFields(log.String("trace-extract-error", err.Error()))
		}
		return span, req.WithContext(ctx)
	}

	span := opentracing.StartSpan(opName, opentracing.ChildOf(spanContext))
	return span, req.WithContext(opentracing.ContextWithSpan(req.Context(), span))
}

// Middleware traces every request through next, tagging the span with the
// method and the response status.
func Middleware(handlerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			span, r := ExtractFromHTTPRequest(r, handlerName)
			defer span.Finish()

			ext.HTTPMethod.Set(span, r.Method)
			ext.HTTPUrl.Set(span, r.URL.Path)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			ext.HTTPStatusCode.Set(span, uint16(sw.status))
			if sw.status >= http.StatusInternalServerError {
				ext.Error.Set(span, true)
			}
		}
		return http.HandlerFunc(fn)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush passes through to the wrapped writer so streaming handlers keep working.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
