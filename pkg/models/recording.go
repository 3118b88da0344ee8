// pkg/models/recording.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recording is the metadata row written for every media upload. The bytes
// themselves live in S3; FileURL points at the stored object.
type Recording struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string         `json:"user_id" gorm:"type:varchar(64);index"`
	FileURL   string         `json:"file_url" gorm:"type:varchar(1000)"`
	FileType  string         `json:"file_type" gorm:"type:varchar(16)"` // audio | video
	Note      *string        `json:"note,omitempty" gorm:"type:text"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName specifies the table name for Recording
func (Recording) TableName() string {
	return "recordings"
}
