package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// JobStatusOpen marks a job that is accepting applications
	JobStatusOpen = "OPEN"
	// JobStatusClosed marks a job closed by its employer
	JobStatusClosed = "CLOSED"
)

// Job type values
var (
	JobTypeFullTime   = "FULL_TIME"
	JobTypePartTime   = "PART_TIME"
	JobTypeInternship = "INTERNSHIP"
)

// Job mode values
var (
	JobModeOnsite = "ONSITE"
	JobModeRemote = "REMOTE"
	JobModeHybrid = "HYBRID"
)

// Currency values accepted for salary
var (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// EditableJobInfo is the part of a job that an employer can edit
type EditableJobInfo struct {
	Role          string         `gorm:"type:text" json:"role"`
	CompanyName   string         `gorm:"type:text" json:"company_name"`
	Salary        int64          `json:"salary"`
	Currency      string         `gorm:"type:text" json:"currency"`
	JobType       string         `gorm:"type:text" json:"job_type"`
	JobMode       string         `gorm:"type:text" json:"job_mode"`
	ExperienceMin int            `json:"experience_min"`
	ExperienceMax int            `json:"experience_max"`
	Location      string         `gorm:"type:text" json:"location"`
	Description   string         `gorm:"type:text" json:"description"`
	Skills        pq.StringArray `gorm:"type:text[]" json:"skills"`
	Openings      int            `gorm:"check:openings >= 0" json:"openings"`
}

// Job is gorm model for store job posting data in DB.
// A job accepts applications only while JobStatus is OPEN, Openings is
// positive and the row is not soft-deleted.
type Job struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EmployerID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"employer_id"`
	Employer   User      `gorm:"foreignKey:EmployerID;references:ID" json:"-"`
	EditableJobInfo
	JobStatus  string    `gorm:"type:text;default:'OPEN'" json:"job_status"`
	IsDeleted  bool      `gorm:"default:false" json:"is_deleted"`
	IsFeatured bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Bookmarks    []Bookmark    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// JobResponse is a job annotated with the requesting job seeker's
// relationship to it.
type JobResponse struct {
	ID                uuid.UUID  `json:"id"`
	EmployerID        uuid.UUID  `json:"employer_id"`
	JobStatus         string     `json:"job_status"`
	IsFeatured        bool       `json:"is_featured"`
	CreatedAt         time.Time  `json:"created_at"`
	IsBookmarked      bool       `json:"is_bookmarked"`
	IsApplied         bool       `json:"is_applied"`
	ApplicationStatus string     `json:"application_status"`
	AppliedOn         *time.Time `json:"applied_on"`
	EditableJobInfo
}

// ToJobResponse converts a Job plus the caller's bookmark/application state
// into a JobResponse.
func (j *Job) ToJobResponse(isBookmarked bool, app *Application) (JobResponse, error) {
	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return resp, err
	}

	resp.IsBookmarked = isBookmarked
	resp.ApplicationStatus = ApplicationStatusPending
	if app != nil {
		resp.IsApplied = true
		resp.ApplicationStatus = app.Status
		appliedOn := app.CreatedAt
		resp.AppliedOn = &appliedOn
	}

	return resp, nil
}
