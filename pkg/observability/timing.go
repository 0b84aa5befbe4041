package observability

import (
	"log/slog"
	"time"
)

// Timer measures one operation and reports the result to the attached
// logger and metrics collector when stopped.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
}

// StartTimer starts a timer for the named operation.
func StartTimer(operation string) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
	}
}

// WithLogger attaches a logger so Stop logs the duration.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics attaches a metrics collector so Stop records the operation
// counter and a duration timing tagged with the operation name.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// Stop records the operation duration.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError records the operation duration. A non-nil error switches
// the log line to error level and increments the error counter.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		if err != nil {
			t.logger.Error("operation failed",
				OperationKey, t.operation,
				DurationKey, duration.Milliseconds(),
				ErrorKey, err.Error(),
			)
		} else {
			t.logger.Info("operation completed",
				OperationKey, t.operation,
				DurationKey, duration.Milliseconds(),
			)
		}
	}

	if t.metrics != nil {
		tag := T(OperationKey, t.operation)
		t.metrics.Timing(MetricOperationDuration, duration, tag)
		t.metrics.Counter(MetricOperationTotal, 1, tag)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tag)
		}
	}

	return duration
}

// Elapsed reports the running duration without stopping the timer.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
