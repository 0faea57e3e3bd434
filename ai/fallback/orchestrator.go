// Package fallback runs an ordered list of models through the gateway until
// one produces output the operation's validator accepts.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/complaintdesk/ai/core/llm"
	"github.com/hrygo/complaintdesk/ai/filter"
	"github.com/hrygo/complaintdesk/ai/validate"
)

var (
	// ErrAllModelsExhausted means no model produced an accepted result.
	ErrAllModelsExhausted = errors.New("all models exhausted")
	// ErrCanceled means the caller's context ended mid-sequence. It wraps
	// ErrAllModelsExhausted so callers fall back the same way.
	ErrCanceled = fmt.Errorf("canceled: %w", ErrAllModelsExhausted)
)

// previewRunes bounds the redacted candidate text logged with a rejection.
const previewRunes = 80

// Status tags the outcome of one attempt.
type Status string

const (
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
	StatusProviderFailed Status = "provider_failed"
	StatusSkipped        Status = "skipped"
)

// Plan is everything needed to try one operation against its model list.
type Plan struct {
	Operation   string
	Models      []llm.ModelRef
	Messages    []llm.Message
	Temperature float32
	MaxTokens   int
}

// AttemptRecord describes one model attempt.
type AttemptRecord struct {
	Model    llm.ModelRef
	Status   Status
	Reason   string
	Duration time.Duration
}

// Trace lists the attempts of one Run in order.
type Trace []AttemptRecord

// Summary renders the trace as "model=status" pairs, e.g.
// "openai:gpt-4o-mini=rejected openai:gpt-4o=provider_failed".
func (t Trace) Summary() string {
	parts := make([]string, len(t))
	for i, r := range t {
		parts[i] = r.Model.String() + "=" + string(r.Status)
	}
	return strings.Join(parts, " ")
}

// Recorder observes attempts and fallbacks. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveAttempt(operation string, rec AttemptRecord)
	ObserveFallback(operation string)
}

// Orchestrator owns the gateway and recorder shared by every operation.
type Orchestrator struct {
	gateway  llm.Gateway
	recorder Recorder
}

// New creates an orchestrator. rec may be nil.
func New(gw llm.Gateway, rec Recorder) *Orchestrator {
	return &Orchestrator{gateway: gw, recorder: rec}
}

// Fallback records that the caller is about to use its local fallback.
// trace is the failed Run's trace and may be empty.
func (o *Orchestrator) Fallback(operation string, trace Trace, err error) {
	slog.Info("pipeline_fallback",
		"operation", operation,
		"reason", err,
		"attempts", len(trace),
		"trace", trace.Summary(),
	)
	if o.recorder != nil {
		o.recorder.ObserveFallback(operation)
	}
}

// Run tries plan.Models in order and returns the first accepted value.
// Attempts are strictly sequential and stop at the first acceptance. A
// rejection or provider failure moves on to the next model. If ctx ends,
// the remaining models are skipped and ErrCanceled is returned.
func Run[T any](ctx context.Context, o *Orchestrator, plan Plan, check validate.Func[T]) (T, Trace, error) {
	var zero T
	trace := make(Trace, 0, len(plan.Models))

	for i, model := range plan.Models {
		if err := ctx.Err(); err != nil {
			for _, skipped := range plan.Models[i:] {
				rec := AttemptRecord{Model: skipped, Status: StatusSkipped, Reason: err.Error()}
				trace = append(trace, rec)
				o.observe(plan.Operation, rec)
			}
			return zero, trace, ErrCanceled
		}

		start := time.Now()
		res := o.gateway.Complete(ctx, llm.Attempt{
			Model:       model,
			Messages:    plan.Messages,
			Temperature: plan.Temperature,
			MaxTokens:   plan.MaxTokens,
		})
		rec := AttemptRecord{Model: model, Duration: time.Since(start)}

		if !res.OK {
			rec.Status = StatusProviderFailed
			rec.Reason = errString(res.Err, "provider failed")
			slog.Warn("pipeline_provider_failed",
				"operation", plan.Operation,
				"model", model.String(),
				"error", rec.Reason,
				"duration_ms", rec.Duration.Milliseconds(),
			)
			trace = append(trace, rec)
			o.observe(plan.Operation, rec)
			continue
		}

		out := safeValidate(check, res.Text)
		if !out.Accepted {
			rec.Status = StatusRejected
			rec.Reason = out.Reason
			slog.Debug("pipeline_attempt_rejected",
				"operation", plan.Operation,
				"model", model.String(),
				"reason", out.Reason,
				"text_length", len(res.Text),
				"preview", filter.Preview(res.Text, previewRunes),
			)
			trace = append(trace, rec)
			o.observe(plan.Operation, rec)
			continue
		}

		rec.Status = StatusAccepted
		slog.Debug("pipeline_accepted",
			"operation", plan.Operation,
			"model", model.String(),
			"attempt", i+1,
			"duration_ms", rec.Duration.Milliseconds(),
		)
		trace = append(trace, rec)
		o.observe(plan.Operation, rec)
		return out.Value, trace, nil
	}

	return zero, trace, ErrAllModelsExhausted
}

func (o *Orchestrator) observe(operation string, rec AttemptRecord) {
	if o.recorder != nil {
		o.recorder.ObserveAttempt(operation, rec)
	}
}

// safeValidate turns a validator panic into a rejection.
func safeValidate[T any](check validate.Func[T], text string) (out validate.Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = validate.Reject[T](fmt.Sprintf("validator panic: %v", r))
		}
	}()
	return check(text)
}

func errString(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}
