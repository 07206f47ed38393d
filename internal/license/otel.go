package license

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName identifies the engine's OpenTelemetry instruments.
const MeterName = "license-engine"

// Metrics holds the engine's OpenTelemetry instruments. A nil *Metrics
// disables recording entirely.
type Metrics struct {
	ActivationAttempts metric.Int64Counter
	ActivationSuccess  metric.Int64Counter
	ActivationFailures metric.Int64Counter
	ActivationDuration metric.Float64Histogram

	ValidationAttempts metric.Int64Counter
	ValidationSuccess  metric.Int64Counter
	ValidationFailures metric.Int64Counter
	ValidationDuration metric.Float64Histogram

	FingerprintMismatches metric.Int64Counter
}

// NewMetrics creates the instrument set on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.ActivationAttempts, err = meter.Int64Counter("license.activation.attempts",
		metric.WithDescription("Number of activation attempts")); err != nil {
		return nil, fmt.Errorf("failed to create activation attempts counter: %w", err)
	}
	if m.ActivationSuccess, err = meter.Int64Counter("license.activation.success",
		metric.WithDescription("Number of successful activations")); err != nil {
		return nil, fmt.Errorf("failed to create activation success counter: %w", err)
	}
	if m.ActivationFailures, err = meter.Int64Counter("license.activation.failures",
		metric.WithDescription("Number of failed activations")); err != nil {
		return nil, fmt.Errorf("failed to create activation failures counter: %w", err)
	}
	if m.ActivationDuration, err = meter.Float64Histogram("license.activation.duration",
		metric.WithDescription("Activation duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create activation duration histogram: %w", err)
	}

	if m.ValidationAttempts, err = meter.Int64Counter("license.validation.attempts",
		metric.WithDescription("Number of license validation attempts")); err != nil {
		return nil, fmt.Errorf("failed to create validation attempts counter: %w", err)
	}
	if m.ValidationSuccess, err = meter.Int64Counter("license.validation.success",
		metric.WithDescription("Number of successful validations")); err != nil {
		return nil, fmt.Errorf("failed to create validation success counter: %w", err)
	}
	if m.ValidationFailures, err = meter.Int64Counter("license.validation.failures",
		metric.WithDescription("Number of failed validations")); err != nil {
		return nil, fmt.Errorf("failed to create validation failures counter: %w", err)
	}
	if m.ValidationDuration, err = meter.Float64Histogram("license.validation.duration",
		metric.WithDescription("Validation duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create validation duration histogram: %w", err)
	}

	if m.FingerprintMismatches, err = meter.Int64Counter("license.fingerprint.mismatches",
		metric.WithDescription("Number of fingerprint mismatches during checks")); err != nil {
		return nil, fmt.Errorf("failed to create fingerprint mismatch counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) recordActivation(ctx context.Context, start time.Time, result string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.ActivationAttempts.Add(ctx, 1, attrs)
	if result == "success" {
		m.ActivationSuccess.Add(ctx, 1)
	} else {
		m.ActivationFailures.Add(ctx, 1, attrs)
	}
	m.ActivationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (m *Metrics) recordValidation(ctx context.Context, start time.Time, ok bool) {
	if m == nil {
		return
	}
	m.ValidationAttempts.Add(ctx, 1)
	if ok {
		m.ValidationSuccess.Add(ctx, 1)
	} else {
		m.ValidationFailures.Add(ctx, 1)
	}
	m.ValidationDuration.Record(ctx, time.Since(start).Seconds())
}

func (m *Metrics) recordFingerprintMismatch(ctx context.Context) {
	if m == nil {
		return
	}
	m.FingerprintMismatches.Add(ctx, 1)
}
