// internal/store/users.go
package store

import (
	"context"
	"errors"
	"time"

	"mycorner-service/pkg/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore is the accessor for the local user mirror.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// SyncInput carries the profile attributes delivered on a session sync.
type SyncInput struct {
	UserID          string     `json:"user_id"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	ProfileImageURL *string    `json:"profile_image_url"`
	CreatedAt       *time.Time `json:"created_at"`
	LastSignIn      *time.Time `json:"last_sign_in"`
}

// SyncUser upserts the mirror row. A previously unseen user id creates the
// full record (created_at set once); an existing row gets its profile fields
// and last_sign_in overwritten.
func (s *UserStore) SyncUser(ctx context.Context, in SyncInput) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", in.UserID).First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user := models.User{
			UserID:          in.UserID,
			Email:           in.Email,
			Username:        in.Username,
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			ProfileImageURL: in.ProfileImageURL,
			LastSignIn:      in.LastSignIn,
		}
		if in.CreatedAt != nil {
			user.CreatedAt = *in.CreatedAt
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	existing.Email = in.Email
	existing.Username = in.Username
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.ProfileImageURL = in.ProfileImageURL
	existing.LastSignIn = in.LastSignIn
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// ListUserIDs returns every mirrored user id.
func (s *UserStore) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetUser retrieves a mirrored user by Clerk id.
func (s *UserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the mirror row. Deleting an id that is already gone is a
// no-op, which keeps reconciliation runs idempotent.
func (s *UserStore) DeleteUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.User{}).Error
}

// LastSignIn returns the mirrored last sign-in timestamp, nil when the user
// is unknown or has never signed in.
func (s *UserStore) LastSignIn(ctx context.Context, userID string) (*time.Time, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.LastSignIn, nil
}

// CreateRecording inserts the metadata row for an uploaded media object.
func (s *UserStore) CreateRecording(ctx context.Context, rec *models.Recording) error {
	return s.db.WithContext(ctx).Create(rec).Error
}
