// internal/email/templates/daily_reminder.go
package templates

import (
	_ "embed"

	"html/template"
	"strings"
	"time"
)

//go:embed daily_reminder.html
var dailyReminderHTML string

var dailyReminderTmpl = template.Must(template.New("daily_reminder").Parse(dailyReminderHTML))

type DailyReminderData struct {
	UserName string
	Year     int
	LogoURL  string
}

func RenderDailyReminder(data DailyReminderData) (string, error) {
	if data.UserName == "" {
		data.UserName = "there"
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}
	if data.LogoURL == "" {
		data.LogoURL = "https://mycorner.app/icon.png"
	}

	var buf strings.Builder
	err := dailyReminderTmpl.Execute(&buf, data)
	return buf.String(), err
}
