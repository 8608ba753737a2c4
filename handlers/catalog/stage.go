package catalog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// StageHandler handles practice stage requests
type StageHandler struct {
	stages    *services.StageService
	validator *validation.Validator
}

// NewStageHandler creates a new stage handler
func NewStageHandler(stages *services.StageService) *StageHandler {
	return &StageHandler{
		stages:    stages,
		validator: validation.NewValidator(),
	}
}

// StageRequest represents stage create and update requests
type StageRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=50"`
	Description string `json:"description"`
}

// ListStages handles GET /api/v1/stages
func (h *StageHandler) ListStages(c *fiber.Ctx) error {
	stages, err := h.stages.List(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, stages)
}

// GetStage handles GET /api/v1/stages/:id
func (h *StageHandler) GetStage(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid stage ID")
	}

	stage, err := h.stages.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, stage)
}

// CreateStage handles POST /api/v1/stages
func (h *StageHandler) CreateStage(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req StageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	stage, err := h.stages.Create(c.UserContext(), actor, services.StageInput{
		Name:        validation.SanitizeString(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, stage)
}

// UpdateStage handles PUT /api/v1/stages/:id
func (h *StageHandler) UpdateStage(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid stage ID")
	}

	var req StageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	stage, err := h.stages.Update(c.UserContext(), actor, id, services.StageInput{
		Name:        validation.SanitizeString(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Stage updated successfully", stage)
}

// DeleteStage handles DELETE /api/v1/stages/:id
func (h *StageHandler) DeleteStage(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid stage ID")
	}

	if err := h.stages.Delete(c.UserContext(), actor, id); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Stage deleted successfully", nil)
}
