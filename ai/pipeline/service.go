// Package pipeline is the complaint AI facade. Each entry point tries the
// operation's models through the fallback orchestrator and, when none
// produces an acceptable result, degrades to a deterministic local answer.
// Only input errors and ErrEnhancementUnavailable reach the caller.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/hrygo/complaintdesk/ai/analyzer"
	"github.com/hrygo/complaintdesk/ai/core/llm"
	"github.com/hrygo/complaintdesk/ai/fallback"
	"github.com/hrygo/complaintdesk/ai/taxonomy"
	"github.com/hrygo/complaintdesk/ai/validate"
)

// MinDescriptionInput is the shortest description, in runes, worth enhancing.
const MinDescriptionInput = 20

// questionsGenerationTimeout bounds a shared quick-question generation,
// which no longer inherits a caller deadline.
const questionsGenerationTimeout = 2 * time.Minute

// QuestionCache stores accepted quick-question sets per role.
type QuestionCache interface {
	Get(ctx context.Context, role taxonomy.Role) ([]string, bool)
	Set(ctx context.Context, role taxonomy.Role, questions []string, ttl time.Duration)
}

// Option configures a Service.
type Option func(*Service)

// WithQuestionCache enables caching of generated quick questions. A ttl of
// zero or less leaves caching off.
func WithQuestionCache(cache QuestionCache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache != nil && ttl > 0 {
			s.questions = cache
			s.questionsTTL = ttl
		}
	}
}

type resolvedProfile struct {
	models      []llm.ModelRef
	temperature float32
	maxTokens   int
}

// Service implements the five complaint AI operations. It is safe for
// concurrent use.
type Service struct {
	orch     *fallback.Orchestrator
	profiles map[string]resolvedProfile

	questions    QuestionCache
	questionsTTL time.Duration
	inflight     singleflight.Group
}

// NewService creates a Service. It fails only on malformed model references.
func NewService(orch *fallback.Orchestrator, cfg Config, opts ...Option) (*Service, error) {
	s := &Service{
		orch:     orch,
		profiles: make(map[string]resolvedProfile, len(Operations())),
	}
	for _, op := range Operations() {
		p := cfg.profile(op)
		models, err := llm.ParseModelRefs(p.Models)
		if err != nil {
			return nil, fmt.Errorf("%s models: %w", op, err)
		}
		s.profiles[op] = resolvedProfile{models: models, temperature: p.Temperature, maxTokens: p.MaxTokens}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) plan(operation string, messages []llm.Message) fallback.Plan {
	p := s.profiles[operation]
	return fallback.Plan{
		Operation:   operation,
		Models:      p.models,
		Messages:    messages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}
}

// ClassifyMetadata infers category and priority. It never fails: when no
// model gives a valid answer the local rule-based classifier decides.
func (s *Service) ClassifyMetadata(ctx context.Context, title, description string) taxonomy.Classification {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return analyzer.ClassifyMetadata(title, description)
	}

	var trace fallback.Trace
	messages, err := metadataMessages(title, description)
	if err == nil {
		var result taxonomy.Classification
		result, trace, err = fallback.Run(ctx, s.orch, s.plan(OpMetadata, messages), validate.Metadata)
		if err == nil {
			return result
		}
	}

	s.orch.Fallback(OpMetadata, trace, err)
	return analyzer.ClassifyMetadata(title, description)
}

// EnhanceDescription expands a complaint description. Descriptions shorter
// than MinDescriptionInput runes fail with ErrInputTooShort and a blank
// title with ErrMissingTitle, both before any remote call. When no model
// gives a valid answer the local normalizer rewrites the description.
func (s *Service) EnhanceDescription(ctx context.Context, title, description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) < MinDescriptionInput {
		return "", ErrInputTooShort
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrMissingTitle
	}

	var trace fallback.Trace
	messages, err := descriptionMessages(title, description)
	if err == nil {
		var enhanced string
		enhanced, trace, err = fallback.Run(ctx, s.orch, s.plan(OpDescription, messages), validate.Description)
		if err == nil {
			return enhanced, nil
		}
	}

	s.orch.Fallback(OpDescription, trace, err)
	return analyzer.EnhanceDescription(description), nil
}

// DraftResponse writes a staff reply framed by the student greeting and the
// staff signature. When no model gives a valid answer a canned reply with the
// same framing is returned.
func (s *Service) DraftResponse(ctx context.Context, cc ComplaintContext, student *Student, staff *Staff) string {
	frame := framingData{Greeting: Greeting(student), Signature: Signature(staff)}

	var trace fallback.Trace
	messages, err := responseMessages(cc, frame, "")
	if err == nil {
		var draft string
		draft, trace, err = fallback.Run(ctx, s.orch, s.plan(OpDraft, messages), validate.Response)
		if err == nil {
			return draft
		}
	}

	s.orch.Fallback(OpDraft, trace, err)
	return cannedDraft(cc, frame.Greeting, frame.Signature)
}

// EnhanceResponse elaborates an existing staff draft. A blank draft fails
// with ErrEmptyDraft before any remote call. There is no local fallback:
// when no model gives a valid answer ErrEnhancementUnavailable is returned
// and the caller keeps its draft.
func (s *Service) EnhanceResponse(ctx context.Context, draft string, cc ComplaintContext, student *Student, staff *Staff) (string, error) {
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", ErrEmptyDraft
	}
	frame := framingData{Greeting: Greeting(student), Signature: Signature(staff)}

	var trace fallback.Trace
	messages, err := responseMessages(cc, frame, draft)
	if err == nil {
		var enhanced string
		enhanced, trace, err = fallback.Run(ctx, s.orch, s.plan(OpEnhance, messages), validate.Response)
		if err == nil {
			return enhanced, nil
		}
	}

	slog.Warn("pipeline_enhancement_unavailable", "operation", OpEnhance, "reason", err, "trace", trace.Summary())
	return "", fmt.Errorf("%w: %v", ErrEnhancementUnavailable, err)
}

// GenerateQuickQuestions returns exactly four questions for role. Unknown
// roles are treated as students. When no model gives a valid set the
// hand-authored defaults are returned.
func (s *Service) GenerateQuickQuestions(ctx context.Context, role taxonomy.Role) []string {
	role, ok := taxonomy.ParseRole(string(role))
	if !ok {
		role = taxonomy.RoleStudent
	}

	if s.questions == nil {
		if qs, err := s.generateQuestions(ctx, role); err == nil {
			return qs
		}
		return taxonomy.DefaultQuickQuestions(role)
	}

	if qs, hit := s.questions.Get(ctx, role); hit {
		return qs
	}

	// Concurrent misses for one role share a single generation. It runs
	// detached from any one caller so a canceled request neither aborts it
	// for the others nor waits for it.
	ch := s.inflight.DoChan(string(role), func() (any, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), questionsGenerationTimeout)
		defer cancel()
		qs, err := s.generateQuestions(genCtx, role)
		if err != nil {
			return nil, err
		}
		s.questions.Set(genCtx, role, qs, s.questionsTTL)
		return qs, nil
	})
	select {
	case <-ctx.Done():
		return taxonomy.DefaultQuickQuestions(role)
	case r := <-ch:
		if r.Err != nil {
			return taxonomy.DefaultQuickQuestions(role)
		}
		return append([]string(nil), r.Val.([]string)...)
	}
}

func (s *Service) generateQuestions(ctx context.Context, role taxonomy.Role) ([]string, error) {
	var trace fallback.Trace
	messages, err := quickQuestionsMessages(taxonomy.VocabularyFor(role))
	if err == nil {
		var qs []string
		qs, trace, err = fallback.Run(ctx, s.orch, s.plan(OpQuickQuestions, messages), validate.QuickQuestions(role))
		if err == nil {
			return qs, nil
		}
	}
	s.orch.Fallback(OpQuickQuestions, trace, err)
	return nil, err
}
