package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditableProfileInfo is the part of a job seeker profile that the owner can edit
type EditableProfileInfo struct {
	Headline   string         `gorm:"type:text" json:"headline"`
	Experience *int           `json:"experience"`
	Skills     pq.StringArray `gorm:"type:text[]" json:"skills"`
}

// JobSeekerProfile holds the profile attributes of a job seeker, one row per user
type JobSeekerProfile struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	EditableProfileInfo

	Projects []Project    `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"projects"`
	Socials  []SocialLink `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"socials"`
}

// Project is a portfolio entry on a job seeker profile
type Project struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID uint   `gorm:"not null;index" json:"-"`
	Name      string `gorm:"type:text;not null" json:"name"`
	Link      string `gorm:"type:text;not null" json:"link"`
}

// SocialLink is a social media link on a job seeker profile
type SocialLink struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID uint   `gorm:"not null;index" json:"-"`
	Platform  string `gorm:"type:text;not null" json:"platform"`
	URL       string `gorm:"type:text;not null" json:"url"`
}
