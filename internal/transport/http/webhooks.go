// internal/transport/http/webhooks.go
package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"mycorner-service/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ClerkWebhook handles Clerk user events. Only user.deleted does anything:
// the mirror row is removed so an explicit deletion does not have to wait for
// the next reconciliation run.
func (h *Handler) ClerkWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if h.webhookSecret != "" {
		if err := verifyWebhookSignature(h.webhookSecret, body,
			c.Get("svix-signature"), c.Get("svix-timestamp"), c.Get("svix-id")); err != nil {
			log.Printf("❌ [WEBHOOK] %v", err)
			status := fiber.StatusUnauthorized
			if errors.Is(err, errMissingSignatureHeaders) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("❌ [WEBHOOK] Invalid JSON payload: %v", err)
		return c.JSON(fiber.Map{"status": "error", "message": "Invalid JSON payload"})
	}

	log.Printf("📩 [WEBHOOK] Event type: %s", event.Type)
	if event.Type == "" {
		return c.JSON(fiber.Map{"status": "error", "message": "Missing event type"})
	}

	if event.Type != "user.deleted" {
		return c.JSON(fiber.Map{"status": "success", "message": fmt.Sprintf("Ignored %s event", event.Type)})
	}

	userID := event.Data.ID
	if userID == "" {
		log.Println("❌ [WEBHOOK] Missing user id in user.deleted payload")
		return c.JSON(fiber.Map{"status": "error", "message": "Missing user_id"})
	}

	if _, err := h.users.GetUser(c.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("⚠️ [WEBHOOK] User %s not in mirror, nothing to delete", userID)
			return c.JSON(fiber.Map{"status": "success", "message": fmt.Sprintf("User %s not found in database, nothing to delete", userID)})
		}
		log.Printf("❌ [WEBHOOK] Lookup failed for user %s: %v", userID, err)
		return c.JSON(fiber.Map{"status": "error", "message": fmt.Sprintf("Database error: %v", err)})
	}

	if err := h.users.DeleteUser(c.Context(), userID); err != nil {
		log.Printf("❌ [WEBHOOK] Failed to delete user %s: %v", userID, err)
		return c.JSON(fiber.Map{"status": "error", "message": fmt.Sprintf("Failed to delete user: %v", err)})
	}

	log.Printf("🗑️ [WEBHOOK] Deleted user %s from mirror", userID)
	return c.JSON(fiber.Map{"status": "success", "message": fmt.Sprintf("User %s deleted", userID)})
}

var (
	errMissingSignatureHeaders = errors.New("missing signature headers")
	errInvalidSignature        = errors.New("invalid signature")
)

// verifyWebhookSignature checks the HMAC-SHA256 of "timestamp.id.body"
// against the svix-signature header.
func verifyWebhookSignature(secret string, body []byte, signature, timestamp, id string) error {
	if signature == "" || timestamp == "" || id == "" {
		return errMissingSignatureHeaders
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s.%s", timestamp, id, body)
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(signature)) {
		return errInvalidSignature
	}
	return nil
}
