package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter, namespace string) (*httpMetrics, error) {
	requests, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

func (m *httpMetrics) handle(c *gin.Context) {
	ctx := c.Request.Context()
	route := sanitizePath(c.FullPath())
	routeAttr := metric.WithAttributes(attribute.String("path", route))

	m.inFlight.Add(ctx, 1, routeAttr)
	start := time.Now()

	c.Next()

	m.inFlight.Add(ctx, -1, routeAttr)

	attrs := metric.WithAttributes(
		attribute.String("method", c.Request.Method),
		attribute.String("path", route),
		attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// HTTPMetricsMiddleware records request count, latency and in-flight requests, labelled by
// route pattern (e.g. /v1/keys/:provider) rather than the raw path so provider names and
// unmatched paths do not multiply series. When the instruments cannot be created the
// middleware only passes requests through.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	m, err := newHTTPMetrics(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return m.handle
}

// sanitizePath returns the matched route, or "unknown" for unmatched requests.
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
