package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
)

// AuditHandler exposes the integration log
type AuditHandler struct {
	audit *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAuditLogs handles GET /api/v1/audit-logs
// Query params: page, limit, status
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	status := model.LogStatus(c.Query("status"))
	if status != "" && status != model.LogSuccess && status != model.LogFailed {
		return response.BadRequest(c, "Invalid status filter")
	}

	logs, total, err := h.audit.List(c.UserContext(), services.AuditFilter{
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}
