// internal/transport/http/media.go
package http

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"mycorner-service/internal/identity"
	"mycorner-service/pkg/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var allowedMediaTypes = map[string]map[string]bool{
	"audio": {"audio/wav": true, "audio/mpeg": true, "audio/webm": true},
	"video": {"video/mp4": true, "video/webm": true},
}

// UploadMedia stores a multipart media file in S3 and, when the caller's
// session token resolves to a user, records it in the recordings table.
func (h *Handler) UploadMedia(c *fiber.Ctx) error {
	mediaType := strings.TrimSpace(c.FormValue("media_type"))
	allowed, ok := allowedMediaTypes[mediaType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid media type"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowed[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Invalid %s file type", mediaType),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ [MEDIA] Failed to open upload %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer file.Close()

	note := strings.TrimSpace(c.FormValue("note"))
	metadata := map[string]string{
		"original_filename": fileHeader.Filename,
		"content_type":      contentType,
		"upload_date":       time.Now().UTC().Format(time.RFC3339),
		"media_type":        mediaType,
	}
	if note != "" {
		metadata["note"] = note
	}

	key, err := h.s3.UploadMedia(c.Context(), mediaType, fileHeader.Filename, contentType, file, metadata)
	if err != nil {
		log.Printf("❌ [MEDIA] Upload failed for %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file to S3"})
	}
	log.Printf("✅ [MEDIA] Uploaded %s (%d bytes) as %s", fileHeader.Filename, fileHeader.Size, key)

	// Attribute the recording when the caller presents a session token. An
	// anonymous upload still succeeds, it just has no recordings row.
	if auth := c.Get("Authorization"); auth != "" {
		if userID, err := identity.SubjectFromAuthHeader(auth); err != nil {
			log.Printf("⚠️ [MEDIA] Could not resolve uploader: %v", err)
		} else {
			h.recordUpload(c, userID, key, mediaType, note, metadata)
		}
	}

	return c.JSON(fiber.Map{
		"message":  "File uploaded successfully",
		"filename": key,
	})
}

func (h *Handler) recordUpload(c *fiber.Ctx, userID, key, mediaType, note string, metadata map[string]string) {
	rec := models.Recording{
		ID:       uuid.New().String(),
		UserID:   userID,
		FileURL:  key,
		FileType: mediaType,
	}
	if note != "" {
		rec.Note = &note
	}
	if raw, err := json.Marshal(metadata); err == nil {
		rec.Metadata = datatypes.JSON(raw)
	}

	if err := h.users.CreateRecording(c.Context(), &rec); err != nil {
		log.Printf("⚠️ [MEDIA] Failed to save recording row for user %s: %v", userID, err)
		return
	}
	log.Printf("✅ [MEDIA] Recording %s saved for user %s", rec.ID, userID)
}

// ListMedia lists stored media of one type with presigned download URLs.
func (h *Handler) ListMedia(c *fiber.Ctx) error {
	mediaType := c.Params("media_type")
	if _, ok := allowedMediaTypes[mediaType]; !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid media type"})
	}

	files, err := h.s3.List(c.Context(), mediaType+"/")
	if err != nil {
		log.Printf("❌ [MEDIA] Listing failed for %s: %v", mediaType, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list files"})
	}
	return c.JSON(fiber.Map{"files": files})
}
