package admission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksb-dev-1/careerly-new/internal/apperror"
	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/notify"
)

// transitions lists the forward-only application status machine. OFFERED and
// REJECTED are terminal.
var transitions = map[string][]string{
	model.ApplicationStatusPending:  {model.ApplicationStatusApproved, model.ApplicationStatusRejected},
	model.ApplicationStatusApproved: {model.ApplicationStatusOffered, model.ApplicationStatusRejected},
	model.ApplicationStatusOffered:  {},
	model.ApplicationStatusRejected: {},
}

// CanTransition reports whether moving an application from one status to
// another is allowed.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// knownStatus reports whether s is a defined application status.
func knownStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// ChangeStatus applies an employer decision to an application. Only the
// employer owning the job may decide, and only the listed forward transitions
// are valid. The returned effects carry the applicant's decision mail and the
// stale cache tags.
func (s *Service) ChangeStatus(ctx context.Context, employerID uuid.UUID, applicationID uint, next string) (*model.Application, []Effect, error) {
	if employerID == uuid.Nil {
		return nil, nil, apperror.New(apperror.KindUnauthenticated, "user must be signed in")
	}
	if !knownStatus(next) {
		return nil, nil, apperror.New(apperror.KindInvalidRequest,
			fmt.Sprintf("unknown application status %q", next))
	}

	var application model.Application
	err := s.db.WithContext(ctx).
		Preload("Job").
		Preload("User").
		Where("id = ?", applicationID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.New(apperror.KindNotFound, "application not found")
		}
		return nil, nil, apperror.Wrap(apperror.KindInternal, "failed to retrieve application", err)
	}

	if application.Job.EmployerID != employerID {
		return nil, nil, apperror.New(apperror.KindForbidden, "application belongs to another employer's job")
	}

	if !CanTransition(application.Status, next) {
		return nil, nil, apperror.New(apperror.KindInvalidRequest,
			fmt.Sprintf("cannot move application from %s to %s", application.Status, next))
	}

	// Conditional on the status read above, so two concurrent decisions
	// cannot both apply.
	res := s.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ? AND status = ?", applicationID, application.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, nil, apperror.Wrap(apperror.KindInternal, "failed to update application status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil, apperror.New(apperror.KindInvalidRequest, "application status changed concurrently")
	}
	application.Status = next

	s.log.Info("application status changed",
		zap.Uint("application_id", applicationID),
		zap.String("status", next))

	applicantID := application.UserID.String()
	jobID := application.JobID.String()

	effects := []Effect{
		InvalidateEffect{Tags: []string{
			cache.TagJobs(applicantID),
			cache.TagApplications(applicantID),
			cache.TagJobDetails(jobID, applicantID),
			cache.TagPostedJobs(employerID.String()),
			cache.TagPostedJobDetails(jobID, employerID.String()),
		}},
	}
	if application.User.Email != nil {
		effects = append([]Effect{NotifyEffect{
			Kind: notify.KindEmployerAction,
			To:   *application.User.Email,
			Data: notify.TemplateData{
				UserName:    application.User.Name,
				CompanyName: application.Job.CompanyName,
				Role:        application.Job.Role,
				Action:      next,
			},
		}}, effects...)
	}

	return &application, effects, nil
}
