// Package tracking records OpenTelemetry metrics for outbound REST calls.
// Instruments are created lazily from the global meter provider so the
// library works whether or not the host application wires an SDK.
package tracking

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// Meter name for REST client metrics instrumentation
	restMeterName = "go-restkit/rest-client"

	// Metric names following OpenTelemetry semantic conventions
	metricRequestDuration = "http.client.request.duration" // Histogram in seconds
	metricCallAttempts    = "http.client.call.attempts"    // Histogram of attempts per checked call

	// Attribute keys per OTel semantic conventions
	attrRequestMethod  = "http.request.method"
	attrResponseStatus = "http.response.status_code"
	attrErrorType      = "error.type"
)

// HTTP request duration histogram buckets per OTel semantic conventions
var requestDurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
}

// Attempt count buckets. Checked calls rarely exceed a handful of retries.
var callAttemptBuckets = []float64{1, 2, 3, 5, 8}

var (
	// Singleton meter initialization
	restMeter     metric.Meter
	meterOnce     sync.Once
	meterInitMu   sync.Mutex
	metricsInited bool

	// Metric instruments
	durationHistogram metric.Float64Histogram
	attemptsHistogram metric.Int64Histogram
)

// logMetricError logs a metric initialization error to stderr.
// Metrics failures are best-effort and must not break the client.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize REST client metric %s: %v\n", metricName, err)
	}
}

// initRestMeter initializes the OpenTelemetry meter and instruments. It is
// thread-safe and idempotent.
func initRestMeter() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	if restMeter != nil {
		return
	}

	restMeter = otel.Meter(restMeterName)

	var err error
	durationHistogram, err = restMeter.Float64Histogram(
		metricRequestDuration,
		metric.WithDescription("Duration of outbound HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(requestDurationBuckets...),
	)
	logMetricError(metricRequestDuration, err)

	attemptsHistogram, err = restMeter.Int64Histogram(
		metricCallAttempts,
		metric.WithDescription("Transport attempts performed per checked call"),
		metric.WithUnit("{attempt}"),
		metric.WithExplicitBucketBoundaries(callAttemptBuckets...),
	)
	logMetricError(metricCallAttempts, err)

	metricsInited = true
}

// ensureMeterInitialized initializes instruments on first use.
func ensureMeterInitialized() {
	meterOnce.Do(initRestMeter)
}

// RecordCall records one transport attempt: its duration, terminal status,
// and error classification. errorKind is empty for successful calls.
func RecordCall(ctx context.Context, method string, status int, errorKind string, duration time.Duration) {
	ensureMeterInitialized()
	if durationHistogram == nil {
		return
	}
	durationHistogram.Record(ctx, duration.Seconds(), metric.WithAttributes(callAttributes(method, status, errorKind)...))
}

// RecordAttempts records how many transport attempts a checked call consumed
// before returning.
func RecordAttempts(ctx context.Context, method string, attempts int64) {
	ensureMeterInitialized()
	if attemptsHistogram == nil {
		return
	}
	attemptsHistogram.Record(ctx, attempts, metric.WithAttributes(
		attribute.String(attrRequestMethod, method),
	))
}

// callAttributes builds the duration histogram attribute set.
func callAttributes(method string, status int, errorKind string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(attrRequestMethod, method),
	}
	if status != 0 {
		attrs = append(attrs, attribute.Int(attrResponseStatus, status))
	}
	if errorType := classifyError(status, errorKind); errorType != "" {
		attrs = append(attrs, attribute.String(attrErrorType, errorType))
	}
	return attrs
}

// classifyError returns the error.type attribute value. Transport failure
// kinds win over status classification; 4xx/5xx statuses use the status code.
func classifyError(status int, errorKind string) string {
	if errorKind != "" {
		return errorKind
	}
	if status >= 400 {
		return strconv.Itoa(status)
	}
	return ""
}

// IsInitialized returns true if the client metrics have been initialized.
// This is primarily useful for testing.
func IsInitialized() bool {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()
	return metricsInited
}

// ResetForTesting resets the metric state for testing purposes.
// This should only be called in tests.
func ResetForTesting() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	restMeter = nil
	durationHistogram = nil
	attemptsHistogram = nil
	metricsInited = false
	meterOnce = sync.Once{}
}
