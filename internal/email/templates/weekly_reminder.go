// internal/email/templates/weekly_reminder.go
package templates

import (
	_ "embed"

	"html/template"
	"strings"
	"time"
)

//go:embed weekly_reminder.html
var weeklyReminderHTML string

var weeklyReminderTmpl = template.Must(template.New("weekly_reminder").Parse(weeklyReminderHTML))

type WeeklyReminderData struct {
	UserName     string
	DaysInactive int
	Year         int
	LogoURL      string
}

func RenderWeeklyReminder(data WeeklyReminderData) (string, error) {
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
	err := weeklyReminderTmpl.Execute(&buf, data)
	return buf.String(), err
}
