// internal/store/settings.go
package store

import (
	"context"
	"errors"

	"mycorner-service/pkg/models"

	"gorm.io/gorm"
)

// SettingsStore is the accessor for per-user reminder settings.
type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// ListSettings returns every settings row in primary-key order. The reminder
// scheduler iterates this list once per tick.
func (s *SettingsStore) ListSettings(ctx context.Context) ([]models.UserSettings, error) {
	var rows []models.UserSettings
	err := s.db.WithContext(ctx).Order("user_id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertSettings creates or overwrites a user's settings row.
func (s *SettingsStore) UpsertSettings(ctx context.Context, settings models.UserSettings) error {
	var existing models.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", settings.UserID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.WithContext(ctx).Create(&settings).Error
		}
		return err
	}
	existing.ReminderTime = settings.ReminderTime
	existing.EnableWeeklyReminder = settings.EnableWeeklyReminder
	if settings.FCMToken != nil {
		existing.FCMToken = settings.FCMToken
	}
	return s.db.WithContext(ctx).Save(&existing).Error
}

// GetSettings returns one user's settings row.
func (s *SettingsStore) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	var row models.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// SetFCMToken registers (or clears, with nil) the push token for a user,
// creating the settings row if it does not exist yet.
func (s *SettingsStore) SetFCMToken(ctx context.Context, userID string, token *string) error {
	var existing models.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.WithContext(ctx).Create(&models.UserSettings{
				UserID:   userID,
				FCMToken: token,
			}).Error
		}
		return err
	}
	return s.db.WithContext(ctx).Model(&existing).Update("fcm_token", token).Error
}
