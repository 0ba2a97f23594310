// Command-line tool to load demo users and job postings into the database.
package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/utilities"
)

const demoPassword = "DemoPass123!"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	db, err := database.GetMainDB(logger)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		log.Fatalf("Failed to inspect users table: %v", err)
	}
	if userCount > 0 {
		fmt.Println("Database already has users, nothing to seed.")
		return
	}

	hashed, err := utilities.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	seeker := model.User{
		ID:       uuid.New(),
		Username: "demo_seeker",
		Email:    stringPtr("demo.seeker@example.com"),
		Name:     "Demo Seeker",
		Role:     model.RoleJobSeeker,
		Password: hashed,
	}
	employer := model.User{
		ID:       uuid.New(),
		Username: "demo_employer",
		Email:    stringPtr("demo.employer@example.com"),
		Name:     "Demo Employer",
		Role:     model.RoleEmployer,
		Password: hashed,
	}
	if err := db.Create(&[]model.User{seeker, employer}).Error; err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	jobs := []model.Job{
		{
			EmployerID: employer.ID,
			JobStatus:  model.JobStatusOpen,
			IsFeatured: true,
			EditableJobInfo: model.EditableJobInfo{
				Role:          "Backend Engineer",
				CompanyName:   "Careerly Demo Co",
				Salary:        120000,
				Currency:      model.CurrencyUSD,
				JobType:       model.JobTypeFullTime,
				JobMode:       model.JobModeRemote,
				ExperienceMin: 2,
				ExperienceMax: 5,
				Location:      "Remote",
				Description:   "<p>Build and operate Go services.</p>",
				Skills:        pq.StringArray{"go", "postgres", "redis"},
				Openings:      3,
			},
		},
		{
			EmployerID: employer.ID,
			JobStatus:  model.JobStatusOpen,
			EditableJobInfo: model.EditableJobInfo{
				Role:          "Data Engineering Intern",
				CompanyName:   "Careerly Demo Co",
				Salary:        400000,
				Currency:      model.CurrencyINR,
				JobType:       model.JobTypeInternship,
				JobMode:       model.JobModeOnsite,
				ExperienceMin: 0,
				ExperienceMax: 1,
				Location:      "Pune",
				Description:   "<p>Assist the pipeline team.</p>",
				Skills:        pq.StringArray{"python", "sql"},
				Openings:      2,
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		log.Fatalf("Failed to seed jobs: %v", err)
	}

	fmt.Printf("Seeded %d users and %d jobs. Demo password: %s\n", 2, len(jobs), demoPassword)
}

func stringPtr(s string) *string {
	return &s
}
