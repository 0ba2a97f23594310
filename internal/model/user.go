// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleJobSeeker is the role of a user that browses and applies to jobs
	RoleJobSeeker = "job_seeker"
	// RoleEmployer is the role of a user that posts and manages jobs
	RoleEmployer = "employer"
)

// User is gorm model for an account, either job seeker or employer
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email    *string   `gorm:"type:text;uniqueIndex" json:"email"`
	Name     string    `gorm:"type:text" json:"name"`
	Password string    `gorm:"type:text" json:"-"`
	Role     string    `gorm:"type:text;not null" json:"role"`
	Image    string    `gorm:"type:text" json:"image"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
