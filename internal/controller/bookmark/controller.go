// Package bookmark provides HTTP handlers for saved-job operations.
package bookmark

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/utilities"
)

// BookmarkController handles bookmark related endpoints
type BookmarkController struct {
	DB    *database.DBinstanceStruct
	Cache cache.Store
}

// NewBookmarkController creates a new instance of BookmarkController
func NewBookmarkController(db *database.DBinstanceStruct, store cache.Store) *BookmarkController {
	return &BookmarkController{
		DB:    db,
		Cache: store,
	}
}

// ToggleBookmark adds the job to the caller's bookmarks, or removes it if it
// is already bookmarked.
// @Summary Toggle a job bookmark
// @Description Adds the bookmark when absent, removes it when present
// @Tags Bookmark
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the job to bookmark"
// @Success 200 {object} utilities.MessageResponse "Either 'added' or 'removed'"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/bookmark [post]
func (bc *BookmarkController) ToggleBookmark(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job ID"})
		return
	}

	var message string
	existing := model.Bookmark{}
	err = bc.DB.WithContext(c.Request.Context()).
		Where("user_id = ? AND job_id = ?", user.ID, jobID).
		First(&existing).Error

	switch {
	case err == nil:
		if err := bc.DB.WithContext(c.Request.Context()).Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to remove bookmark: %s", err.Error()),
			})
			return
		}
		message = "removed"

	case errors.Is(err, gorm.ErrRecordNotFound):
		bookmark := model.Bookmark{UserID: user.ID, JobID: jobID}
		if err := bc.DB.Create(&bookmark).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23503":
					c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
					return
				case "23505":
					// Concurrent toggle already added it; treat as added.
				default:
					c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
						Error: fmt.Sprintf("Failed to add bookmark: %s", err.Error()),
					})
					return
				}
			} else {
				c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
					Error: fmt.Sprintf("Failed to add bookmark: %s", err.Error()),
				})
				return
			}
		}
		message = "added"

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to check bookmark: %s", err.Error()),
		})
		return
	}

	if bc.Cache != nil {
		_ = bc.Cache.MarkStale(c.Request.Context(),
			cache.TagJobsPublic,
			cache.TagJobs(user.ID.String()),
			cache.TagBookmarks(user.ID.String()),
			cache.TagApplications(user.ID.String()),
			cache.TagJobDetails(jobID.String(), user.ID.String()))
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: message})
}

// GetBookmarks lists the caller's bookmarked jobs, newest bookmark first.
// @Summary List my bookmarks
// @Tags Bookmark
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobResponse "Bookmarked jobs annotated with application state"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /bookmarks [get]
func (bc *BookmarkController) GetBookmarks(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cacheKey := fmt.Sprintf("bookmarks:%s", user.ID)
	if utilities.ServeCached(c, bc.Cache, cacheKey) {
		return
	}

	var bookmarks []model.Bookmark
	if err := bc.DB.WithContext(c.Request.Context()).
		Preload("Job").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&bookmarks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve bookmarks: %s", err.Error()),
		})
		return
	}

	responses := []model.JobResponse{}
	for i := range bookmarks {
		job := bookmarks[i].Job
		if job.IsDeleted {
			continue
		}

		var app model.Application
		appErr := bc.DB.WithContext(c.Request.Context()).
			Where("user_id = ? AND job_id = ?", user.ID, job.ID).
			First(&app).Error

		var resp model.JobResponse
		var convErr error
		if appErr == nil {
			resp, convErr = job.ToJobResponse(true, &app)
		} else if errors.Is(appErr, gorm.ErrRecordNotFound) {
			resp, convErr = job.ToJobResponse(true, nil)
		} else {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve application state: %s", appErr.Error()),
			})
			return
		}
		if convErr != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to process bookmark: %s", convErr.Error()),
			})
			return
		}
		responses = append(responses, resp)
	}

	utilities.WriteCachedJSON(c, bc.Cache, cacheKey, responses,
		cache.TagBookmarks(user.ID.String()))
}
