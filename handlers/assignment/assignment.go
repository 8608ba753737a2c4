package assignment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// AssignmentHandler handles practice assignment requests
type AssignmentHandler struct {
	assignments *services.AssignmentService
	validator   *validation.Validator
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		validator:   validation.NewValidator(),
	}
}

// PlacementRequest is one row of a batch. Missing base or supervisor is
// reported for the whole batch rather than per field.
type PlacementRequest struct {
	StudentID    uint  `json:"student_id" validate:"required"`
	BaseID       *uint `json:"base_id"`
	SupervisorID *uint `json:"supervisor_id"`
}

// BatchRequest places a whole group for one stage
type BatchRequest struct {
	GroupID    uint               `json:"group_id" validate:"required"`
	StageID    uint               `json:"stage_id" validate:"required"`
	StartDate  string             `json:"start_date" validate:"required,date"`
	EndDate    string             `json:"end_date" validate:"required,date"`
	Placements []PlacementRequest `json:"placements" validate:"dive"`
}

// UpdateRequest is a partial assignment update
type UpdateRequest struct {
	BaseID       *uint   `json:"base_id" validate:"omitempty,min=1"`
	SupervisorID *uint   `json:"supervisor_id" validate:"omitempty,min=1"`
	StageID      *uint   `json:"stage_id" validate:"omitempty,min=1"`
	StartDate    *string `json:"start_date" validate:"omitempty,date"`
	EndDate      *string `json:"end_date" validate:"omitempty,date"`
	Status       *string `json:"status" validate:"omitempty,assignment_status"`
}

// ListAssignments handles GET /api/v1/assignments
// Query params: group_id, stage_id, student_id, supervisor_id, status
func (h *AssignmentHandler) ListAssignments(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	filter := services.AssignmentFilter{
		GroupID:      handlers.QueryID(c, "group_id"),
		StageID:      handlers.QueryID(c, "stage_id"),
		StudentID:    handlers.QueryID(c, "student_id"),
		SupervisorID: handlers.QueryID(c, "supervisor_id"),
	}
	if status := c.Query("status"); status != "" {
		st, err := model.ParseAssignmentStatus(status)
		if err != nil {
			return response.BadRequest(c, "Invalid status filter")
		}
		filter.Status = st
	}

	assignments, err := h.assignments.List(c.UserContext(), actor, filter)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, assignments)
}

// GetAssignment handles GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	assignment, err := h.assignments.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	if !services.CanView(actor, assignment) {
		return handlers.RespondError(c, services.ErrUnauthorized)
	}
	return response.Success(c, assignment)
}

// CreateBatch handles POST /api/v1/assignments/batch
func (h *AssignmentHandler) CreateBatch(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	in := services.BatchInput{
		GroupID:    req.GroupID,
		StageID:    req.StageID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Placements: make([]services.Placement, 0, len(req.Placements)),
	}
	for _, p := range req.Placements {
		in.Placements = append(in.Placements, services.Placement{
			StudentID:    p.StudentID,
			BaseID:       p.BaseID,
			SupervisorID: p.SupervisorID,
		})
	}

	assignments, err := h.assignments.CreateBatch(c.UserContext(), actor, in)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, assignments)
}

// UpdateAssignment handles PUT /api/v1/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	in := services.UpdateAssignmentInput{
		BaseID:       req.BaseID,
		SupervisorID: req.SupervisorID,
		StageID:      req.StageID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	if req.Status != nil {
		st := model.AssignmentStatus(*req.Status)
		in.Status = &st
	}

	assignment, err := h.assignments.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Assignment updated successfully", assignment)
}

// DeleteAssignment handles DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	if err := h.assignments.Delete(c.UserContext(), actor, id); err != nil {
		return handlers.RespondError(c, err)
	}
	return response.SuccessWithMessage(c, "Assignment deleted successfully", nil)
}
