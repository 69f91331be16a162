// Package pipeline orchestrates the contact and booking submission flows:
// validation, ordered delivery side effects, and the fallback record written
// when any side effect fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/bridgeforms/internal/fallback"
	"github.com/wolfman30/bridgeforms/internal/observability/metrics"
	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

var pipelineTracer = otel.Tracer("bridgeforms.internal.pipeline")

// Step names used for spans and latency metrics.
const (
	stepCompose  = "compose"
	stepCalendar = "calendar"
	stepEmail    = "email"
	stepFallback = "fallback"
)

// DegradedError is returned when delivery failed but the submission was
// saved to the fallback store. SubmissionID identifies the saved record.
type DegradedError struct {
	Kind         submission.Kind
	SubmissionID string
	Cause        error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("pipeline: %s submission saved as %s: %v", e.Kind, e.SubmissionID, e.Cause)
}

func (e *DegradedError) Unwrap() error { return e.Cause }

// AsDegraded extracts a *DegradedError from err.
func AsDegraded(err error) (*DegradedError, bool) {
	var de *DegradedError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// runner holds what both pipelines share: the fallback store and the
// instrumentation around each step.
type runner struct {
	kind     submission.Kind
	recorder fallback.Recorder
	logger   *logging.Logger
	metrics  *metrics.SubmissionMetrics
}

func newRunner(kind submission.Kind, recorder fallback.Recorder, logger *logging.Logger, m *metrics.SubmissionMetrics) runner {
	if logger == nil {
		logger = logging.Default()
	}
	return runner{kind: kind, recorder: recorder, logger: logger.With("kind", string(kind)), metrics: m}
}

// step runs fn inside a span and records its latency.
func (r runner) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := pipelineTracer.Start(ctx, "pipeline."+string(r.kind)+"."+name,
		trace.WithAttributes(attribute.String("bridgeforms.kind", string(r.kind))),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	r.metrics.ObserveStep(string(r.kind), name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r runner) invalid(err error) error {
	r.metrics.ObserveOutcome(string(r.kind), metrics.OutcomeInvalid)
	r.logger.Info("submission rejected", "error", err)
	return err
}

func (r runner) succeeded() {
	r.metrics.ObserveOutcome(string(r.kind), metrics.OutcomeSuccess)
}

// degrade persists the submission and converts cause into a *DegradedError.
// If the record cannot be written the submission is lost and a
// *submission.FallbackStorageError is returned instead.
func (r runner) degrade(ctx context.Context, formData any, cause error) error {
	r.logger.Error("submission delivery failed", "error", cause)

	var recordID string
	err := r.step(ctx, stepFallback, func(ctx context.Context) error {
		id, err := r.recorder.Record(ctx, r.kind, formData, cause)
		recordID = id
		return err
	})
	r.metrics.ObserveFallbackWrite(string(r.kind), err == nil)
	if err != nil {
		r.metrics.ObserveOutcome(string(r.kind), metrics.OutcomeFailed)
		r.logger.Error("fallback write failed; submission lost", "error", err, "cause", cause)
		var storageErr *submission.FallbackStorageError
		if errors.As(err, &storageErr) {
			return err
		}
		return &submission.FallbackStorageError{Err: err}
	}

	r.metrics.ObserveOutcome(string(r.kind), metrics.OutcomeDegraded)
	return &DegradedError{Kind: r.kind, SubmissionID: recordID, Cause: cause}
}
