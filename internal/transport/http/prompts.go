// internal/transport/http/prompts.go
package http

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// GeneratePrompt proxies a reflective-prompt request to the LLM provider.
func (h *Handler) GeneratePrompt(c *fiber.Ctx) error {
	var req struct {
		PromptType string `json:"promptType"`
	}
	if err := c.BodyParser(&req); err != nil || req.PromptType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "promptType is required"})
	}

	prompt, err := h.prompts.Generate(c.Context(), req.PromptType)
	if err != nil {
		log.Printf("❌ [PROMPTS] Generation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate prompt",
		})
	}

	return c.JSON(fiber.Map{"prompt": prompt})
}
