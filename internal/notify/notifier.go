// internal/notify/notifier.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mycorner-service/internal/fcm"
	"mycorner-service/internal/reminder"
	"mycorner-service/internal/store"
	"mycorner-service/pkg/models"
)

// UserResolver looks up the mirrored user a task refers to.
type UserResolver interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// SettingsResolver looks up the settings row carrying the push token.
type SettingsResolver interface {
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
}

// EmailSender sends the rendered reminder emails.
type EmailSender interface {
	SendDailyReminder(ctx context.Context, to, userName string) error
	SendWeeklyReminder(ctx context.Context, to, userName string, daysInactive int) error
}

// Notifier turns a ReminderTask into one best-effort delivery: an email to
// the mirrored address, plus a push when the user registered a device token.
// Push failures never fail the delivery; email failures do, but the caller
// only logs them.
type Notifier struct {
	users    UserResolver
	settings SettingsResolver
	sender   EmailSender
	push     *fcm.Client // nil when push is disabled
}

func NewNotifier(users UserResolver, settings SettingsResolver, sender EmailSender, push *fcm.Client) *Notifier {
	return &Notifier{users: users, settings: settings, sender: sender, push: push}
}

// Deliver sends one reminder. Implements reminder.Notifier.
func (n *Notifier) Deliver(ctx context.Context, task reminder.Task) error {
	user, err := n.users.GetUser(ctx, task.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("user %s no longer mirrored", task.UserID)
		}
		return fmt.Errorf("failed to resolve user %s: %w", task.UserID, err)
	}
	if user.Email == "" {
		return fmt.Errorf("no email on record for user %s", task.UserID)
	}

	name := displayName(user)

	switch task.Kind {
	case reminder.KindDaily:
		if err := n.sender.SendDailyReminder(ctx, user.Email, name); err != nil {
			return err
		}
	case reminder.KindWeekly:
		if err := n.sender.SendWeeklyReminder(ctx, user.Email, name, daysInactive(user)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown reminder kind: %s", task.Kind)
	}

	n.pushReminder(ctx, task, name)
	return nil
}

// pushReminder sends the companion push notification, best effort.
func (n *Notifier) pushReminder(ctx context.Context, task reminder.Task, name string) {
	if n.push == nil {
		return
	}
	settings, err := n.settings.GetSettings(ctx, task.UserID)
	if err != nil || settings.FCMToken == nil || *settings.FCMToken == "" {
		return
	}

	title := "🌙 Time for your daily reflection"
	body := fmt.Sprintf("Hi %s, your corner is waiting for today's entry.", name)
	if task.Kind == reminder.KindWeekly {
		title = "💭 We've missed you"
		body = fmt.Sprintf("Hi %s, come back and pick up where you left off.", name)
	}

	if err := n.push.SendToToken(ctx, *settings.FCMToken, title, body, map[string]string{
		"kind": string(task.Kind),
	}); err != nil {
		log.Printf("⚠️ [PUSH] %s reminder push failed for user %s: %v", task.Kind, task.UserID, err)
	}
}

func displayName(user *models.User) string {
	if user.FirstName != nil && *user.FirstName != "" {
		return *user.FirstName
	}
	if user.Username != "" {
		return user.Username
	}
	return "there"
}

func daysInactive(user *models.User) int {
	if user.LastSignIn == nil {
		return 0
	}
	return int(time.Since(*user.LastSignIn).Hours() / 24)
}
