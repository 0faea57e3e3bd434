package v1

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/complaintdesk/ai/pipeline"
	"github.com/hrygo/complaintdesk/ai/taxonomy"
	"github.com/hrygo/complaintdesk/internal/profile"
)

// ComplaintAI is the pipeline surface the handlers call.
type ComplaintAI interface {
	ClassifyMetadata(ctx context.Context, title, description string) taxonomy.Classification
	EnhanceDescription(ctx context.Context, title, description string) (string, error)
	DraftResponse(ctx context.Context, cc pipeline.ComplaintContext, student *pipeline.Student, staff *pipeline.Staff) string
	EnhanceResponse(ctx context.Context, draft string, cc pipeline.ComplaintContext, student *pipeline.Student, staff *pipeline.Staff) (string, error)
	GenerateQuickQuestions(ctx context.Context, role taxonomy.Role) []string
}

type APIV1Service struct {
	Profile   *profile.Profile
	AIService *AIService
}

func NewAPIV1Service(profile *profile.Profile, ai ComplaintAI) *APIV1Service {
	if !profile.IsAIEnabled() {
		slog.Info("No AI provider key configured, requests will use local fallback")
	}
	return &APIV1Service{
		Profile:   profile,
		AIService: &AIService{Pipeline: ai},
	}
}

// RegisterRoutes mounts the v1 API on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1/ai")
	g.POST("/classify", s.AIService.Classify)
	g.POST("/enhance-description", s.AIService.EnhanceDescription)
	g.POST("/draft-response", s.AIService.DraftResponse)
	g.POST("/enhance-response", s.AIService.EnhanceResponse)
	g.GET("/quick-questions", s.AIService.QuickQuestions)
}
