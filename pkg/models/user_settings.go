// pkg/models/user_settings.go
package models

// UserSettings holds per-user reminder preferences. ReminderTime is a naive
// "HH:MM" local time-of-day; the reference timezone is applied when the
// reminder scheduler evaluates it, not stored here.
type UserSettings struct {
	UserID               string  `json:"user_id" gorm:"primaryKey;type:varchar(64)"`
	ReminderTime         string  `json:"reminder_time" gorm:"type:varchar(8)"`
	EnableWeeklyReminder bool    `json:"enable_weekly_reminder"`
	FCMToken             *string `json:"fcm_token,omitempty" gorm:"type:varchar(512)"`
}

// TableName specifies the table name for UserSettings
func (UserSettings) TableName() string {
	return "user_settings"
}
