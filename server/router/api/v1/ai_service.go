package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/complaintdesk/ai/pipeline"
	"github.com/hrygo/complaintdesk/ai/taxonomy"
)

// AIService serves the complaint AI endpoints.
type AIService struct {
	Pipeline ComplaintAI
}

type ClassifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type EnhanceDescriptionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type EnhanceDescriptionResponse struct {
	Description string `json:"description"`
}

type Complaint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

type Student struct {
	Name string `json:"name"`
}

type Staff struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type DraftResponseRequest struct {
	Complaint Complaint `json:"complaint"`
	Student   *Student  `json:"student,omitempty"`
	Staff     *Staff    `json:"staff,omitempty"`
}

type EnhanceResponseRequest struct {
	Draft     string    `json:"draft"`
	Complaint Complaint `json:"complaint"`
	Student   *Student  `json:"student,omitempty"`
	Staff     *Staff    `json:"staff,omitempty"`
}

type ResponseText struct {
	Response string `json:"response"`
}

type QuickQuestionsResponse struct {
	Role      taxonomy.Role `json:"role"`
	Questions []string      `json:"questions"`
}

func (s *AIService) Classify(c echo.Context) error {
	var req ClassifyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	result := s.Pipeline.ClassifyMetadata(c.Request().Context(), req.Title, req.Description)
	return c.JSON(http.StatusOK, result)
}

func (s *AIService) EnhanceDescription(c echo.Context) error {
	var req EnhanceDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	text, err := s.Pipeline.EnhanceDescription(c.Request().Context(), req.Title, req.Description)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, EnhanceDescriptionResponse{Description: text})
}

func (s *AIService) DraftResponse(c echo.Context) error {
	var req DraftResponseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	text := s.Pipeline.DraftResponse(c.Request().Context(), req.Complaint.toPipeline(), req.Student.toPipeline(), req.Staff.toPipeline())
	return c.JSON(http.StatusOK, ResponseText{Response: text})
}

func (s *AIService) EnhanceResponse(c echo.Context) error {
	var req EnhanceResponseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	text, err := s.Pipeline.EnhanceResponse(c.Request().Context(), req.Draft,
		req.Complaint.toPipeline(), req.Student.toPipeline(), req.Staff.toPipeline())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ResponseText{Response: text})
}

func (s *AIService) QuickQuestions(c echo.Context) error {
	role, ok := taxonomy.ParseRole(c.QueryParam("role"))
	if !ok {
		role = taxonomy.RoleStudent
	}
	questions := s.Pipeline.GenerateQuickQuestions(c.Request().Context(), role)
	return c.JSON(http.StatusOK, QuickQuestionsResponse{Role: role, Questions: questions})
}

// toHTTPError maps pipeline errors to status codes. The message is the
// sentinel's own text; nothing from providers reaches the client.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrInputTooShort):
		return echo.NewHTTPError(http.StatusBadRequest, pipeline.ErrInputTooShort.Error())
	case errors.Is(err, pipeline.ErrMissingTitle):
		return echo.NewHTTPError(http.StatusBadRequest, pipeline.ErrMissingTitle.Error())
	case errors.Is(err, pipeline.ErrEmptyDraft):
		return echo.NewHTTPError(http.StatusBadRequest, pipeline.ErrEmptyDraft.Error())
	case errors.Is(err, pipeline.ErrEnhancementUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, pipeline.ErrEnhancementUnavailable.Error())
	default:
		slog.Error("Unexpected pipeline error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (c Complaint) toPipeline() pipeline.ComplaintContext {
	cc := pipeline.ComplaintContext{
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
	}
	if cat, ok := taxonomy.ParseCategory(c.Category); ok {
		cc.Category = cat
	}
	if pri, ok := taxonomy.ParsePriority(c.Priority); ok {
		cc.Priority = pri
	}
	return cc
}

func (s *Student) toPipeline() *pipeline.Student {
	if s == nil {
		return nil
	}
	return &pipeline.Student{Name: s.Name}
}

func (s *Staff) toPipeline() *pipeline.Staff {
	if s == nil {
		return nil
	}
	role, _ := taxonomy.ParseRole(s.Role)
	return &pipeline.Staff{Name: s.Name, Role: role}
}
