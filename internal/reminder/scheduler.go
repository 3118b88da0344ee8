// internal/reminder/scheduler.go
package reminder

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"mycorner-service/pkg/models"
)

// Kind distinguishes the two reminder flavors.
type Kind string

const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// Task is one due reminder, handed to the dispatcher and gone after the tick
// that produced it.
type Task struct {
	UserID string `json:"user_id"`
	Kind   Kind   `json:"kind"`
}

// SettingsSource lists every user's reminder settings.
type SettingsSource interface {
	ListSettings(ctx context.Context) ([]models.UserSettings, error)
}

// SignInSource resolves a user's last sign-in timestamp, nil when unknown.
type SignInSource interface {
	LastSignIn(ctx context.Context, userID string) (*time.Time, error)
}

// Users are inactive once this many whole days have passed since sign-in.
const weeklyInactivityDays = 7

// Scheduler computes which reminders are due at a given instant. Every
// user's reminder_time is interpreted in one reference zone; users outside
// that zone get their reminder at the reference-zone time.
type Scheduler struct {
	settings SettingsSource
	signIns  SignInSource
	loc      *time.Location
}

func NewScheduler(settings SettingsSource, signIns SignInSource, loc *time.Location) *Scheduler {
	return &Scheduler{settings: settings, signIns: signIns, loc: loc}
}

// DueReminders returns the tasks due at now. A daily task is emitted when the
// user's reminder time, placed on today's date in the reference zone and
// converted to UTC, lands on the same HH:MM as now. A weekly task is emitted
// when weekly reminders are enabled and the user has not signed in for seven
// or more whole days. The same user can emit both in one tick. Errors on a
// single row never abort the batch.
func (s *Scheduler) DueReminders(ctx context.Context, now time.Time) ([]Task, error) {
	rows, err := s.settings.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user settings: %w", err)
	}

	nowUTC := now.UTC()
	currentMinute := nowUTC.Format("15:04")

	var due []Task
	for _, row := range rows {
		match, err := s.utcMatchMinute(row.ReminderTime, nowUTC)
		if err != nil {
			// Malformed reminder_time skips the daily check only.
			log.Printf("⚠️ [REMINDER] User %s has unusable reminder_time %q: %v", row.UserID, row.ReminderTime, err)
		} else if match == currentMinute {
			log.Printf("⏰ [REMINDER] Daily reminder due for user %s (%s → %s UTC)", row.UserID, row.ReminderTime, match)
			due = append(due, Task{UserID: row.UserID, Kind: KindDaily})
		}

		if !row.EnableWeeklyReminder {
			continue
		}
		last, err := s.signIns.LastSignIn(ctx, row.UserID)
		if err != nil {
			log.Printf("⚠️ [REMINDER] Could not resolve last sign-in for user %s: %v", row.UserID, err)
			continue
		}
		if last == nil {
			continue
		}
		days := int(nowUTC.Sub(last.UTC()).Hours() / 24)
		if days >= weeklyInactivityDays {
			log.Printf("⏰ [REMINDER] Weekly reminder due for user %s (inactive %d days)", row.UserID, days)
			due = append(due, Task{UserID: row.UserID, Kind: KindWeekly})
		}
	}

	return due, nil
}

// utcMatchMinute places a "HH:MM" reminder time on today's date in the
// reference zone and returns the UTC wall minute it corresponds to.
func (s *Scheduler) utcMatchMinute(reminderTime string, nowUTC time.Time) (string, error) {
	parts := strings.Split(strings.TrimSpace(reminderTime), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	local := nowUTC.In(s.loc)
	at := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, s.loc)
	return at.UTC().Format("15:04"), nil
}

// Run blocks forever, evaluating reminders once per minute. The first tick is
// aligned to a minute boundary so the exact-minute match is reachable. Run it
// on its own goroutine.
func (s *Scheduler) Run(dispatcher *Dispatcher) {
	now := time.Now()
	time.Sleep(now.Truncate(time.Minute).Add(time.Minute).Sub(now))

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.tick(dispatcher)
	for range ticker.C {
		s.tick(dispatcher)
	}
}

func (s *Scheduler) tick(dispatcher *Dispatcher) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tasks, err := s.DueReminders(ctx, time.Now())
	if err != nil {
		log.Printf("❌ [REMINDER] Tick failed: %v", err)
		return
	}
	for _, task := range tasks {
		dispatcher.Submit(task)
	}
}
