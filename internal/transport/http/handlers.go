// internal/transport/http/handlers.go
package http

import (
	"mycorner-service/internal/media"
	"mycorner-service/internal/prompts"
	"mycorner-service/internal/reminder"
	"mycorner-service/internal/store"
	"mycorner-service/internal/sync"
)

// Handler carries every dependency the HTTP surface needs. Constructed once
// in main and passed down; handlers never reach for globals.
type Handler struct {
	users         *store.UserStore
	settings      *store.SettingsStore
	reconciler    *sync.Reconciler
	scheduler     *reminder.Scheduler
	dispatcher    *reminder.Dispatcher
	prompts       *prompts.Client
	s3            *media.S3Client
	webhookSecret string
}

func NewHandler(
	users *store.UserStore,
	settings *store.SettingsStore,
	reconciler *sync.Reconciler,
	scheduler *reminder.Scheduler,
	dispatcher *reminder.Dispatcher,
	promptsClient *prompts.Client,
	s3 *media.S3Client,
	webhookSecret string,
) *Handler {
	return &Handler{
		users:         users,
		settings:      settings,
		reconciler:    reconciler,
		scheduler:     scheduler,
		dispatcher:    dispatcher,
		prompts:       promptsClient,
		s3:            s3,
		webhookSecret: webhookSecret,
	}
}
