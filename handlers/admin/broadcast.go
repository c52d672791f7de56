package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/services"
	"github.com/techhire/techhire-api/services/push"
	"github.com/techhire/techhire-api/utils/response"
	"github.com/techhire/techhire-api/utils/validation"
)

// BroadcastHandler handles admin-authored custom notifications
type BroadcastHandler struct {
	dispatcher *push.Dispatcher
	validator  *validation.Validator
}

// NewBroadcastHandler creates a new broadcast handler
func NewBroadcastHandler(dispatcher *push.Dispatcher) *BroadcastHandler {
	return &BroadcastHandler{
		dispatcher: dispatcher,
		validator:  validation.NewValidator(),
	}
}

// BroadcastRequest represents the request body for POST /admin/notify.
// Empty Batches means broadcast to every active subscriber.
type BroadcastRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Message  string   `json:"message" validate:"required,max=500"`
	URL      string   `json:"url" validate:"omitempty,max=500"`
	Category string   `json:"category" validate:"omitempty,oneof=info success warning alert"`
	Batches  []string `json:"batches"`
}

// Send handles POST /admin/notify. The dispatch is queued fire-and-forget;
// the response reports acceptance, not delivery.
func (h *BroadcastHandler) Send(c *fiber.Ctx) error {
	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var warnings []string
	batches := make([]string, 0, len(req.Batches))
	for _, raw := range req.Batches {
		name, ok := services.SanitizeBatchToken(raw)
		if !ok {
			if name != "" {
				warnings = append(warnings, "invalid batch name skipped: "+name)
			}
			continue
		}
		batches = append(batches, name)
	}

	payload := push.ComposeCustom(req.Title, req.Message, req.URL, push.Category(req.Category))
	h.dispatcher.DispatchAsync(payload, batches)

	return response.SuccessWithMessage(c, "Notification queued", fiber.Map{
		"warnings": warnings,
	})
}
