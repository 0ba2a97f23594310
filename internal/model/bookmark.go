package model

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a saved-job relation between a job seeker and a job.
// One row per (user, job), created and deleted by a single toggle operation.
type Bookmark struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_job" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`

	JobID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_job;index" json:"job_id"`
	Job   Job       `gorm:"foreignKey:JobID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
