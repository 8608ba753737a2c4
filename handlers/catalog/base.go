package catalog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// BaseHandler handles practice base requests
type BaseHandler struct {
	bases     *services.BaseService
	validator *validation.Validator
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(bases *services.BaseService) *BaseHandler {
	return &BaseHandler{
		bases:     bases,
		validator: validation.NewValidator(),
	}
}

// BaseRequest represents base create and update requests
type BaseRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Address     string `json:"address" validate:"max=255"`
	ContactInfo string `json:"contact_info" validate:"max=255"`
}

func (r BaseRequest) input() services.BaseInput {
	return services.BaseInput{
		Name:        validation.SanitizeString(r.Name),
		Address:     validation.SanitizeString(r.Address),
		ContactInfo: validation.SanitizeString(r.ContactInfo),
	}
}

// ListBases handles GET /api/v1/bases
func (h *BaseHandler) ListBases(c *fiber.Ctx) error {
	bases, err := h.bases.List(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, bases)
}

// GetBase handles GET /api/v1/bases/:id
func (h *BaseHandler) GetBase(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid base ID")
	}

	base, err := h.bases.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, base)
}

// CreateBase handles POST /api/v1/bases
func (h *BaseHandler) CreateBase(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req BaseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	base, err := h.bases.Create(c.UserContext(), actor, req.input())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, base)
}

// UpdateBase handles PUT /api/v1/bases/:id
func (h *BaseHandler) UpdateBase(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid base ID")
	}

	var req BaseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	base, err := h.bases.Update(c.UserContext(), actor, id, req.input())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Base updated successfully", base)
}

// DeleteBase handles DELETE /api/v1/bases/:id
func (h *BaseHandler) DeleteBase(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid base ID")
	}

	if err := h.bases.Delete(c.UserContext(), actor, id); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Base deleted successfully", nil)
}
