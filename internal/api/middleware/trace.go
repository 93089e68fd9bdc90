package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"
	"go.opentelemetry.io/otel/trace"
)

// Trace opens a server span per request, named "<METHOD> <route>" once routing is known.
func Trace(tracer trace.Tracer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		r := ctx.Request
		if skipTracingPath(r.URL.Path) {
			ctx.Next()
			return
		}

		spanCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		spanCtx, span := tracer.Start(spanCtx, "unknown", trace.WithAttributes(
			semconv.HTTPURLKey.String(r.RequestURI),
			semconv.HTTPMethodKey.String(r.Method),
		), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ctx.Request = r.WithContext(spanCtx)
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "<unknown>"
		}
		span.SetName(fmt.Sprintf("%s %s", r.Method, route))

		status := ctx.Writer.Status()
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
		if status >= 400 {
			span.SetStatus(codes.Error, fmt.Sprintf("error with HTTP status code %d", status))
		}
	}
}

func skipTracingPath(path string) bool {
	return path == MetricsPath || strings.HasPrefix(path, "/swagger/")
}
