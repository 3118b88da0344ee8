// pkg/models/user.go
package models

import (
	"time"
)

// User mirrors a Clerk user record locally. UserID is the Clerk user id and
// the correlation key for reconciliation; profile fields are denormalized,
// last write wins.
type User struct {
	UserID          string     `json:"user_id" gorm:"primaryKey;type:varchar(64)"`
	Email           string     `json:"email" gorm:"type:varchar(255);index"`
	Username        string     `json:"username" gorm:"type:varchar(100);index"`
	FirstName       *string    `json:"first_name,omitempty" gorm:"type:varchar(100)"`
	LastName        *string    `json:"last_name,omitempty" gorm:"type:varchar(100)"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty" gorm:"type:varchar(500)"`
	LastSignIn      *time.Time `json:"last_sign_in,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
