package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a rejected request. RequestID matches the access log
// line so a reported failure can be traced.
type ErrorDetail struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse is the envelope for list endpoints that page
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// Success returns a 200 with data
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 with a message
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, message string, code string) error {
	return ErrorWithDetails(c, statusCode, message, code, nil)
}

// ErrorWithDetails returns an error response with machine-readable details
func ErrorWithDetails(c *fiber.Ctx, statusCode int, message string, code string, details interface{}) error {
	requestID, _ := c.Locals("requestid").(string)

	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, orDefault(message, "Bad request"), "BAD_REQUEST")
}

// Unauthorized returns a 401: the caller is not authenticated
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, orDefault(message, "Unauthorized access"), "UNAUTHORIZED")
}

// Forbidden returns a 403: the caller is authenticated but lacks the role
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, orDefault(message, "Access forbidden"), "FORBIDDEN")
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, orDefault(message, "Resource not found"), "NOT_FOUND")
}

// Conflict returns a 409 with a specific conflict code
func Conflict(c *fiber.Ctx, message string, code string) error {
	return Error(c, fiber.StatusConflict, message, orDefault(code, "CONFLICT"))
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, orDefault(message, "Too many requests"), "TOO_MANY_REQUESTS")
}

// ValidationError returns a 422 carrying per-field messages
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
		"Validation failed", "VALIDATION_ERROR", fields)
}

// UnprocessableEntity returns a 422 for a well formed request that breaks a
// domain rule
func UnprocessableEntity(c *fiber.Ctx, message string, code string, details interface{}) error {
	return ErrorWithDetails(c, fiber.StatusUnprocessableEntity, message, code, details)
}

// InternalServerError returns a 500. Callers pass "" so storage errors never
// leak into the body.
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, orDefault(message, "Internal server error"), "INTERNAL_ERROR")
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, orDefault(message, "Service temporarily unavailable"), "SERVICE_UNAVAILABLE")
}

// Paginated returns a paginated response
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// CalculatePagination derives page counts; limit is clamped to 1..100
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
