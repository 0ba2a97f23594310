package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & jobs
var (
	TestJobSeeker1 m.User
	TestJobSeeker2 m.User
	TestEmployer1  m.User
	TestEmployer2  m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded jobs
	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config, zap.NewNop())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed sample job seekers, employers and jobs
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample job seeker and employer records (2 each) if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount > 0 {
		return loadTestData(db)
	}

	emails := []*string{ptr("seeker1@example.com"), ptr("seeker2@example.com"), ptr("hiring1@example.com"), ptr("hiring2@example.com")}
	userSpecs := []struct {
		username string
		email    *string
		name     string
		role     string
	}{
		{"job_seeker_1", emails[0], "Alice Seeker", m.RoleJobSeeker},
		{"job_seeker_2", emails[1], "Bob Seeker", m.RoleJobSeeker},
		{"employer_1", emails[2], "TechNova Hiring", m.RoleEmployer},
		{"employer_2", emails[3], "DataForge Hiring", m.RoleEmployer},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    s.email,
			Name:     s.name,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "job_seeker_1":
			TestJobSeeker1 = u
		case "job_seeker_2":
			TestJobSeeker2 = u
		case "employer_1":
			TestEmployer1 = u
		case "employer_2":
			TestEmployer2 = u
		}
	}

	// Seed jobs (only if none exist yet)
	var jobCount int64
	if err := db.Model(&m.Job{}).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount == 0 {
		jobs := []m.Job{
			{
				EmployerID: TestEmployer1.ID,
				JobStatus:  m.JobStatusOpen,
				EditableJobInfo: m.EditableJobInfo{
					Role:          "Backend Engineer",
					CompanyName:   "TechNova",
					Salary:        90000,
					Currency:      m.CurrencyUSD,
					JobType:       m.JobTypeFullTime,
					JobMode:       m.JobModeHybrid,
					ExperienceMin: 1,
					ExperienceMax: 3,
					Location:      "Bengaluru",
					Description:   "<p>Work on Go microservices and database layers.</p>",
					Skills:        pq.StringArray{"go", "postgres", "api"},
					Openings:      5,
				},
			},
			{
				EmployerID: TestEmployer1.ID,
				JobStatus:  m.JobStatusOpen,
				IsFeatured: true,
				EditableJobInfo: m.EditableJobInfo{
					Role:          "Frontend Developer",
					CompanyName:   "TechNova",
					Salary:        70000,
					Currency:      m.CurrencyUSD,
					JobType:       m.JobTypePartTime,
					JobMode:       m.JobModeRemote,
					ExperienceMin: 0,
					ExperienceMax: 2,
					Location:      "Remote",
					Description:   "<p>Assist building component library in React.</p>",
					Skills:        pq.StringArray{"react", "typescript", "ui"},
					Openings:      2,
				},
			},
			{
				EmployerID: TestEmployer2.ID,
				JobStatus:  m.JobStatusOpen,
				EditableJobInfo: m.EditableJobInfo{
					Role:          "Data Analyst",
					CompanyName:   "DataForge",
					Salary:        800000,
					Currency:      m.CurrencyINR,
					JobType:       m.JobTypeInternship,
					JobMode:       m.JobModeOnsite,
					ExperienceMin: 0,
					ExperienceMax: 1,
					Location:      "Pune",
					Description:   "<p>Support data cleansing and dashboard creation.</p>",
					Skills:        pq.StringArray{"sql", "python", "analytics"},
					Openings:      3,
				},
			},
		}

		if err := db.Create(&jobs).Error; err != nil {
			return err
		}
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"job_seeker_1", "job_seeker_2", "employer_1", "employer_2",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "job_seeker_1":
			TestJobSeeker1 = u
		case "job_seeker_2":
			TestJobSeeker2 = u
		case "employer_1":
			TestEmployer1 = u
		case "employer_2":
			TestEmployer2 = u
		}
	}

	// Load first three jobs deterministically
	var jobs []m.Job
	if err := db.Order("created_at ASC").Limit(3).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
