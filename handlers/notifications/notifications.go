package notifications

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/services"
	"github.com/techhire/techhire-api/utils/response"
	"github.com/techhire/techhire-api/utils/validation"
)

// NotificationHandler handles the public push-subscription endpoints
type NotificationHandler struct {
	store          *services.SubscriptionStore
	vapidPublicKey string
	validator      *validation.Validator
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(store *services.SubscriptionStore, vapidPublicKey string) *NotificationHandler {
	return &NotificationHandler{
		store:          store,
		vapidPublicKey: vapidPublicKey,
		validator:      validation.NewValidator(),
	}
}

// SubscriptionBlob mirrors the subscription JSON produced by the browser's
// PushManager. It is validated for shape here and then stored verbatim as
// the opaque credential passed to the delivery library.
type SubscriptionBlob struct {
	Endpoint string `json:"endpoint" validate:"required,url,max=500"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// SubscribeRequest represents the request body for POST /api/subscribe
type SubscribeRequest struct {
	Subscription SubscriptionBlob `json:"subscription"`
	Batch        string           `json:"batch" validate:"required"`
}

// UnsubscribeRequest represents the request body for POST /api/unsubscribe
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

// GetVAPIDPublicKey handles GET /api/vapid-public-key
func (h *NotificationHandler) GetVAPIDPublicKey(c *fiber.Ctx) error {
	if h.vapidPublicKey == "" {
		return response.InternalServerError(c, "VAPID public key not configured")
	}
	return c.JSON(fiber.Map{"publicKey": h.vapidPublicKey})
}

// Subscribe handles POST /api/subscribe
func (h *NotificationHandler) Subscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Subscription missing required fields")
	}

	batch, ok := services.SanitizeBatchToken(req.Batch)
	if !ok {
		return response.BadRequest(c, "Invalid batch name")
	}

	credential, err := json.Marshal(req.Subscription)
	if err != nil {
		return response.BadRequest(c, "Invalid subscription object")
	}

	sub, err := h.store.Upsert(c.Context(), req.Subscription.Endpoint, credential, batch, c.Get("User-Agent"), c.IP())
	if err != nil {
		return response.InternalServerError(c, "Subscription failed")
	}

	return response.CreatedWithMessage(c, "Subscribed to notifications for "+batch, fiber.Map{
		"batch": sub.Batch,
	})
}

// Unsubscribe handles POST /api/unsubscribe. No proof of endpoint ownership
// is required; anyone who knows an endpoint URL can deactivate it.
func (h *NotificationHandler) Unsubscribe(c *fiber.Ctx) error {
	var req UnsubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Missing endpoint")
	}

	found, err := h.store.Deactivate(c.Context(), req.Endpoint)
	if err != nil {
		return response.InternalServerError(c, "Unsubscribe failed")
	}
	if !found {
		return response.NotFound(c, "Subscription not found")
	}

	return response.SuccessWithMessage(c, "Unsubscribed successfully", nil)
}
