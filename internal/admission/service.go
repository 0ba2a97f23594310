// Package admission implements the job application admission flow: validating
// a job seeker's request to apply, decrementing the job's remaining openings
// and creating the application atomically, and the employer-side status
// transition workflow that shares the Application entity.
package admission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksb-dev-1/careerly-new/internal/apperror"
	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/notify"
)

// Applicant identifies the authenticated job seeker submitting an application.
type Applicant struct {
	ID    uuid.UUID
	Email string
}

// Service holds the admission flow's dependencies.
type Service struct {
	db  *database.DBinstanceStruct
	log *zap.Logger
}

// NewService creates an admission Service on the given database.
func NewService(db *database.DBinstanceStruct, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// SubmitApplication records applicant's application against the job, keeping
// the openings counter and the one-application-per-job invariant consistent
// under concurrent requests.
//
// The openings check and decrement are a single conditional update: for a job
// with N openings left, at most N concurrent submissions succeed. The
// decrement and the application insert run in one transaction, so a duplicate
// racing past the pre-check is rolled back together with the decrement.
//
// On success the returned effects carry the confirmation mail and the cache
// tags the caller must dispatch after this function returns.
func (s *Service) SubmitApplication(ctx context.Context, applicant Applicant, rawJobID string) (*model.Application, []Effect, error) {
	if applicant.ID == uuid.Nil {
		return nil, nil, apperror.New(apperror.KindUnauthenticated, "user must be signed in")
	}
	if applicant.Email == "" {
		return nil, nil, apperror.New(apperror.KindInvalidRequest, "user email is required")
	}

	jobID, err := uuid.Parse(rawJobID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidRequest, "invalid job ID")
	}

	// Fast-fail duplicate check. The unique index is the authority; this
	// read only turns the common case into a cheap error before any write.
	var existing model.Application
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", applicant.ID, jobID).
		First(&existing).Error
	if err == nil {
		return nil, nil, apperror.New(apperror.KindDuplicateApplication, "you have already applied to this job")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperror.Wrap(apperror.KindInternal, "failed to check existing application", err)
	}

	var (
		application model.Application
		job         model.Job
	)

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Job{}).
			Where("id = ? AND job_status = ? AND openings > 0 AND is_deleted = false", jobID, model.JobStatusOpen).
			UpdateColumn("openings", gorm.Expr("openings - 1"))
		if res.Error != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to reserve opening", res.Error)
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing job from one that stopped accepting.
			var existing model.Job
			if err := tx.Select("id").Where("id = ? AND is_deleted = false", jobID).First(&existing).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.New(apperror.KindNotFound, "job not found")
				}
				return apperror.Wrap(apperror.KindInternal, "failed to retrieve job", err)
			}
			return apperror.New(apperror.KindNotAcceptingApplications, "job is no longer accepting applications")
		}

		if err := tx.Where("id = ?", jobID).First(&job).Error; err != nil {
			return apperror.Wrap(apperror.KindInternal, "failed to retrieve job", err)
		}

		application = model.Application{
			UserID: applicant.ID,
			JobID:  jobID,
			Status: model.ApplicationStatusPending,
		}
		if err := tx.Create(&application).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					// Lost the race against our own duplicate; the rollback
					// restores the opening.
					return apperror.New(apperror.KindDuplicateApplication, "you have already applied to this job")
				case "23503":
					return apperror.New(apperror.KindInvalidRequest, fmt.Sprintf("invalid job reference: %s", pgErr.Detail))
				}
			}
			return apperror.Wrap(apperror.KindInternal, "failed to create application", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	s.log.Info("application admitted",
		zap.String("job_id", jobID.String()),
		zap.String("user_id", applicant.ID.String()))

	effects := []Effect{
		NotifyEffect{
			Kind: notify.KindApplyConfirmation,
			To:   applicant.Email,
			Data: notify.TemplateData{CompanyName: job.CompanyName, Role: job.Role},
		},
		InvalidateEffect{Tags: []string{
			cache.TagJobs(applicant.ID.String()),
			cache.TagBookmarks(applicant.ID.String()),
			cache.TagApplications(applicant.ID.String()),
			cache.TagJobDetails(jobID.String(), applicant.ID.String()),
			cache.TagPostedJobs(job.EmployerID.String()),
			cache.TagPostedJobDetails(jobID.String(), job.EmployerID.String()),
		}},
	}

	return &application, effects, nil
}
