package model

import (
	"time"

	"github.com/google/uuid"
)

// Resume stores an uploaded resume file, one per job seeker.
type Resume struct {
	ID        int       `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	FileName  string    `gorm:"type:text" json:"file_name"`
	Content   []byte    `json:"-"`
	Extension string    `json:"extension"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
