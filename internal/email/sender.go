// internal/email/sender.go
package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"mycorner-service/internal/config"
	"mycorner-service/internal/email/templates"

	"gopkg.in/gomail.v2"
)

type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("📧 [SEND] To: %s | Subject: %s", to, subject)

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)

	// Exponential backoff: 1s, 2s, 4s → max 3 retries
	for attempt := 0; attempt < 3; attempt++ {
		if err := dialer.DialAndSend(m); err != nil {
			delay := time.Duration(1<<attempt) * time.Second
			log.Printf("❌ [ATTEMPT %d] Failed to send email to %s: %v → retrying in %v", attempt+1, to, err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			}
			continue
		}
		log.Printf("✅ [SUCCESS] Email sent to %s (Subject: %s)", to, subject)
		return nil
	}

	log.Printf("💥 [FAILED] All retries exhausted for %s", to)
	return fmt.Errorf("failed to send email to %s after 3 attempts", to)
}

// SendDailyReminder renders and sends the daily check-in email.
func (s *Sender) SendDailyReminder(ctx context.Context, to, userName string) error {
	body, err := templates.RenderDailyReminder(templates.DailyReminderData{
		UserName: userName,
	})
	if err != nil {
		return fmt.Errorf("render daily reminder: %w", err)
	}
	return s.Send(ctx, to, "🌙 Your MyCorner moment is waiting", body)
}

// SendWeeklyReminder renders and sends the inactivity nudge.
func (s *Sender) SendWeeklyReminder(ctx context.Context, to, userName string, daysInactive int) error {
	body, err := templates.RenderWeeklyReminder(templates.WeeklyReminderData{
		UserName:     userName,
		DaysInactive: daysInactive,
	})
	if err != nil {
		return fmt.Errorf("render weekly reminder: %w", err)
	}
	return s.Send(ctx, to, "💭 We've missed you at MyCorner", body)
}
