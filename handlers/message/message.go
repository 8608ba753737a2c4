package message

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// MessageHandler handles direct messages between actors
type MessageHandler struct {
	messages  *services.MessageService
	validator *validation.Validator
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messages:  messages,
		validator: validation.NewValidator(),
	}
}

// SendRequest represents an outgoing message
type SendRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Body       string `json:"body" validate:"required,notblank"`
}

// Inbox handles GET /api/v1/messages
func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	messages, err := h.messages.Inbox(c.UserContext(), actor)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, messages)
}

// Conversation handles GET /api/v1/messages/:user_id
func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	otherID, ok := handlers.ParseID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	messages, err := h.messages.Conversation(c.UserContext(), actor, otherID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Success(c, messages)
}

// Send handles POST /api/v1/messages
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	message, err := h.messages.Send(c.UserContext(), actor, req.ReceiverID, req.Body)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return response.Created(c, message)
}
