package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// ApplicationStatusPending indicates that the application is awaiting the employer's review
	ApplicationStatusPending = "PENDING"
	// ApplicationStatusApproved indicates that the employer shortlisted the application
	ApplicationStatusApproved = "APPROVED"
	// ApplicationStatusOffered indicates that the employer extended an offer
	ApplicationStatusOffered = "OFFERED"
	// ApplicationStatusRejected indicates that the application has been rejected
	ApplicationStatusRejected = "REJECTED"
)

// Application represents a job application record. A job seeker may hold at
// most one application per job, enforced by the composite unique index.
type Application struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Status string `gorm:"type:text" json:"status"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_job" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`

	JobID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_job;index" json:"job_id"`
	Job   Job       `gorm:"foreignKey:JobID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
