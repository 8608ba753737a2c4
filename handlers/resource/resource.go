package resource

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// ResourceHandler handles shared learning resources
type ResourceHandler struct {
	resources *services.ResourceService
	validator *validation.Validator
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resources: resources,
		validator: validation.NewValidator(),
	}
}

// ResourceRequest represents an uploaded resource
type ResourceRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=100"`
	Description string `json:"description"`
	FilePath    string `json:"file_path" validate:"required,notblank,max=255"`
	Type        string `json:"type" validate:"required,oneof=template instruction example"`
}

// ListResources handles GET /api/v1/resources
// Query params: type
func (h *ResourceHandler) ListResources(c *fiber.Ctx) error {
	resources, err := h.resources.List(c.UserContext(), services.ResourceFilter{
		Type: model.ResourceType(c.Query("type")),
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, resources)
}

// CreateResource handles POST /api/v1/resources
func (h *ResourceHandler) CreateResource(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	resource, err := h.resources.Create(c.UserContext(), actor, services.ResourceInput{
		Title:       validation.SanitizeString(req.Title),
		Description: req.Description,
		FilePath:    validation.SanitizeString(req.FilePath),
		Type:        model.ResourceType(validation.SanitizeString(req.Type)),
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, resource)
}

// DeleteResource handles DELETE /api/v1/resources/:id
func (h *ResourceHandler) DeleteResource(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid resource ID")
	}

	if err := h.resources.Delete(c.UserContext(), actor, id); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Resource deleted successfully", nil)
}
