package group

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// GroupHandler handles group, roster and order requests
type GroupHandler struct {
	groups    *services.GroupService
	orders    *services.OrderService
	validator *validation.Validator
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups *services.GroupService, orders *services.OrderService) *GroupHandler {
	return &GroupHandler{
		groups:    groups,
		orders:    orders,
		validator: validation.NewValidator(),
	}
}

// GroupRequest represents group create and update requests
type GroupRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
	Year int    `json:"year" validate:"required,min=1900,max=2100"`
}

// AddStudentRequest attaches a student to a group
type AddStudentRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// OrderRequest records a generated order or contract
type OrderRequest struct {
	FileType string `json:"file_type" validate:"required,oneof=contract order"`
	FilePath string `json:"file_path" validate:"required,notblank,max=255"`
}

// ListGroups handles GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	groups, err := h.groups.List(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, groups)
}

// GetGroup handles GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	group, err := h.groups.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, group)
}

// CreateGroup handles POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	group, err := h.groups.Create(c.UserContext(), actor, services.GroupInput{
		Name: validation.SanitizeString(req.Name),
		Year: req.Year,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, group)
}

// UpdateGroup handles PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateGroup(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	group, err := h.groups.Update(c.UserContext(), actor, id, services.GroupInput{
		Name: validation.SanitizeString(req.Name),
		Year: req.Year,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Group updated successfully", group)
}

// DeleteGroup handles DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	if err := h.groups.Delete(c.UserContext(), actor, id); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Group deleted successfully", nil)
}

// ListStudents handles GET /api/v1/groups/:id/students. Forms call it to
// render one placement row per student.
func (h *GroupHandler) ListStudents(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	students, err := h.groups.StudentsOf(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, students)
}

// AddStudent handles POST /api/v1/groups/:id/students
func (h *GroupHandler) AddStudent(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	var req AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	if err := h.groups.AssignStudent(c.UserContext(), actor, id, req.StudentID); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Student added to group", nil)
}

// RemoveStudent handles DELETE /api/v1/groups/:id/students/:student_id
func (h *GroupHandler) RemoveStudent(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}
	studentID, ok := handlers.ParseID(c, "student_id")
	if !ok {
		return response.BadRequest(c, "Invalid student ID")
	}

	if err := h.groups.RemoveStudent(c.UserContext(), actor, id, studentID); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Student removed from group", nil)
}

// ListOrders handles GET /api/v1/groups/:id/orders
func (h *GroupHandler) ListOrders(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	orders, err := h.orders.ListByGroup(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, orders)
}

// CreateOrder handles POST /api/v1/groups/:id/orders
func (h *GroupHandler) CreateOrder(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid group ID")
	}

	var req OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	order, err := h.orders.Create(c.UserContext(), actor, id, model.OrderType(req.FileType), req.FilePath)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *GroupHandler) DeleteOrder(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid order ID")
	}

	if err := h.orders.Delete(c.UserContext(), actor, id); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Order deleted successfully", nil)
}
