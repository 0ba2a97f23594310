// Package application provides HTTP handlers for job application operations.
package application

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ksb-dev-1/careerly-new/internal/admission"
	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB         *database.DBinstanceStruct
	Admission  *admission.Service
	Dispatcher *admission.Dispatcher
	Cache      cache.Store
}

// NewApplicationController creates a new instance of ApplicationController
// with the provided database connection and admission service.
func NewApplicationController(db *database.DBinstanceStruct, svc *admission.Service, dispatcher *admission.Dispatcher, store cache.Store) *ApplicationController {
	return &ApplicationController{
		DB:         db,
		Admission:  svc,
		Dispatcher: dispatcher,
		Cache:      store,
	}
}

// ApplicationHandler handles the creation of a new job application by a job seeker.
// @Summary Apply to a job
// @Description Only job seekers can access this endpoint. At most one application per job.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the job to apply to"
// @Success 201 {object} model.Application "Successfully applied to the job"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or job ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as job seeker"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied, or job no longer accepting applications"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/apply [post]
func (ac *ApplicationController) ApplicationHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicant := admission.Applicant{ID: user.ID}
	if user.Email != nil {
		applicant.Email = *user.Email
	}

	app, effects, err := ac.Admission.SubmitApplication(c.Request.Context(), applicant, c.Param("id"))
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	if ac.Dispatcher != nil {
		ac.Dispatcher.Run(c.Request.Context(), effects)
	}

	c.JSON(http.StatusCreated, app)
}

// DecisionHandler applies an employer's decision to an application.
// @Summary Change application status
// @Description Only the employer owning the job may decide. PENDING can move to APPROVED or REJECTED, APPROVED to OFFERED or REJECTED.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param decision body decisionInfo true "Next status"
// @Success 200 {object} model.Application "Application with updated status"
// @Failure 400 {object} utilities.ErrorResponse "Invalid application ID, unknown status or illegal transition"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another employer's job"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) DecisionHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application ID"})
		return
	}

	var info decisionInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Status must be provided"})
		return
	}

	app, effects, err := ac.Admission.ChangeStatus(c.Request.Context(), user.ID, uint(applicationID), info.Status)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	if ac.Dispatcher != nil {
		ac.Dispatcher.Run(c.Request.Context(), effects)
	}

	c.JSON(http.StatusOK, app)
}

type decisionInfo struct {
	Status string `json:"status" binding:"required"`
}

// GetApplications lists the requesting job seeker's applications, newest first.
// @Summary List my applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobResponse "Jobs the job seeker applied to, annotated with application state"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [get]
func (ac *ApplicationController) GetApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cacheKey := fmt.Sprintf("applications:%s", user.ID)
	if utilities.ServeCached(c, ac.Cache, cacheKey) {
		return
	}

	var applications []model.Application
	if err := ac.DB.WithContext(c.Request.Context()).
		Preload("Job").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	responses := []model.JobResponse{}
	for i := range applications {
		app := applications[i]

		var bookmarked int64
		if err := ac.DB.WithContext(c.Request.Context()).
			Model(&model.Bookmark{}).
			Where("user_id = ? AND job_id = ?", user.ID, app.JobID).
			Count(&bookmarked).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
			})
			return
		}

		resp, err := app.Job.ToJobResponse(bookmarked > 0, &app)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to process application: %s", err.Error()),
			})
			return
		}
		responses = append(responses, resp)
	}

	utilities.WriteCachedJSON(c, ac.Cache, cacheKey, responses,
		cache.TagApplications(user.ID.String()))
}
