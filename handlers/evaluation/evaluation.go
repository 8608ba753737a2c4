package evaluation

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// EvaluationHandler handles grading and report submission
type EvaluationHandler struct {
	assignments *services.AssignmentService
	evaluations *services.EvaluationService
	validator   *validation.Validator
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(assignments *services.AssignmentService, evaluations *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		assignments: assignments,
		evaluations: evaluations,
		validator:   validation.NewValidator(),
	}
}

// EvaluationRequest represents a grade for an assignment
type EvaluationRequest struct {
	Grade    string `json:"grade" validate:"required,notblank,max=10"`
	Comments string `json:"comments"`
}

// ReportRequest represents a submitted practice report
type ReportRequest struct {
	Title      string `json:"title" validate:"max=255"`
	FilePath   string `json:"file_path" validate:"max=255"`
	GithubLink string `json:"github_link" validate:"omitempty,url,max=255"`
	PhotoURL   string `json:"photo_url" validate:"omitempty,url,max=255"`
}

// visible resolves the :id assignment and checks the actor may read it.
// When ok is false the response has already been written.
func (h *EvaluationHandler) visible(c *fiber.Ctx) (id uint, ok bool, err error) {
	actor, _ := handlers.Actor(c)

	id, ok = handlers.ParseID(c, "id")
	if !ok {
		return 0, false, response.BadRequest(c, "Invalid assignment ID")
	}

	assignment, err := h.assignments.Get(c.UserContext(), id)
	if err != nil {
		return 0, false, handlers.RespondError(c, err)
	}
	if !services.CanView(actor, assignment) {
		return 0, false, handlers.RespondError(c, services.ErrUnauthorized)
	}
	return id, true, nil
}

// ListEvaluations handles GET /api/v1/assignments/:id/evaluations
func (h *EvaluationHandler) ListEvaluations(c *fiber.Ctx) error {
	id, ok, err := h.visible(c)
	if !ok {
		return err
	}

	evaluations, err := h.evaluations.ListEvaluations(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, evaluations)
}

// AddEvaluation handles POST /api/v1/assignments/:id/evaluations
func (h *EvaluationHandler) AddEvaluation(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	var req EvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	evaluation, err := h.evaluations.AddEvaluation(c.UserContext(), actor, id, validation.SanitizeString(req.Grade), req.Comments)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, evaluation)
}

// ListReports handles GET /api/v1/assignments/:id/reports
func (h *EvaluationHandler) ListReports(c *fiber.Ctx) error {
	id, ok, err := h.visible(c)
	if !ok {
		return err
	}

	reports, err := h.evaluations.ListReports(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, reports)
}

// AddReport handles POST /api/v1/assignments/:id/reports
func (h *EvaluationHandler) AddReport(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	report, err := h.evaluations.AddReport(c.UserContext(), actor, id, services.ReportInput{
		Title:      validation.SanitizeString(req.Title),
		FilePath:   validation.SanitizeString(req.FilePath),
		GithubLink: validation.SanitizeString(req.GithubLink),
		PhotoURL:   validation.SanitizeString(req.PhotoURL),
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, report)
}
