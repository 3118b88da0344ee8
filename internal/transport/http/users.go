// internal/transport/http/users.go
package http

import (
	"log"

	"mycorner-service/internal/store"
	"mycorner-service/pkg/models"

	"github.com/gofiber/fiber/v2"
)

// SyncUser upserts the caller's mirror row. The frontend calls this on every
// session so the mirror tracks profile changes and last_sign_in.
func (h *Handler) SyncUser(c *fiber.Ctx) error {
	var in store.SyncInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing user_id"})
	}

	user, err := h.users.SyncUser(c.Context(), in)
	if err != nil {
		log.Printf("❌ [SYNC-USER] Failed to sync user %s: %v", in.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sync user data"})
	}

	log.Printf("✅ [SYNC-USER] Synced user %s", in.UserID)
	return c.JSON(fiber.Map{
		"message": "User data synced successfully",
		"data":    user,
	})
}

// UpdateSettings overwrites the caller's reminder settings.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id required"})
	}

	var settings models.UserSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	settings.UserID = userID

	if err := h.settings.UpsertSettings(c.Context(), settings); err != nil {
		log.Printf("❌ [SETTINGS] Failed to save settings for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save settings"})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// RegisterFCMToken stores the caller's push token.
func (h *Handler) RegisterFCMToken(c *fiber.Ctx) error {
	userID := c.Params("user_id")

	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token required"})
	}

	if err := h.settings.SetFCMToken(c.Context(), userID, &body.Token); err != nil {
		log.Printf("❌ [FCM] Failed to register token for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to register token"})
	}
	return c.JSON(fiber.Map{"status": "registered"})
}

// UnregisterFCMToken clears the caller's push token.
func (h *Handler) UnregisterFCMToken(c *fiber.Ctx) error {
	userID := c.Params("user_id")

	if err := h.settings.SetFCMToken(c.Context(), userID, nil); err != nil {
		log.Printf("❌ [FCM] Failed to unregister token for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to unregister token"})
	}
	return c.JSON(fiber.Map{"status": "unregistered"})
}
