// internal/transport/http/sync.go
package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mycorner-service/internal/store"

	"github.com/gofiber/fiber/v2"
)

// CheckDeletions kicks a full reconciliation run in the background so the
// call returns immediately. Used for manual triggers; the daily schedule
// invokes the reconciler directly.
func (h *Handler) CheckDeletions(c *fiber.Ctx) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := h.reconciler.Reconcile(ctx); err != nil {
			log.Printf("❌ [RECONCILE] Background run failed: %v", err)
		}
	}()

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User synchronization started in the background",
	})
}

// CheckDeletion reconciles a single user id synchronously.
func (h *Handler) CheckDeletion(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing user_id"})
	}

	if _, err := h.users.GetUser(c.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(fiber.Map{
				"status":  "warning",
				"message": fmt.Sprintf("User %s not found in mirror", userID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	deleted, err := h.reconciler.ReconcileUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !deleted {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": fmt.Sprintf("User %s exists at provider, no action taken", userID),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("User %s deleted from mirror", userID),
	})
}

// CheckReminders computes due reminders for the current minute and submits
// each to the dispatcher. The per-minute schedule does the same; this route
// exists for external cron triggers and testing.
func (h *Handler) CheckReminders(c *fiber.Ctx) error {
	tasks, err := h.scheduler.DueReminders(c.Context(), time.Now())
	if err != nil {
		log.Printf("❌ [REMINDER] Check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	for _, task := range tasks {
		h.dispatcher.Submit(task)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Processing reminders for %d users", len(tasks)),
	})
}
