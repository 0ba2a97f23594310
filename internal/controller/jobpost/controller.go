// Package jobpost provides HTTP handlers for job posting operations.
package jobpost

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/utilities"
)

// DefaultPageLimit is the page size used when the limit query is absent.
const DefaultPageLimit = 6

// JobPostController handles job posting related endpoints
type JobPostController struct {
	DB    *database.DBinstanceStruct
	Cache cache.Store
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(db *database.DBinstanceStruct, store cache.Store) *JobPostController {
	return &JobPostController{
		DB:    db,
		Cache: store,
	}
}

// validateJobInfo checks the employer-editable fields against the accepted
// bounds. Returns a human-readable reason when a field is out of range.
func validateJobInfo(info *model.EditableJobInfo) error {
	switch {
	case info.Role == "":
		return errors.New("role is required")
	case info.CompanyName == "":
		return errors.New("company name is required")
	case info.Location == "":
		return errors.New("location is required")
	case info.Description == "":
		return errors.New("description is required")
	case info.Openings < 1 || info.Openings > 100:
		return errors.New("openings must be between 1 and 100")
	case info.Salary < 1_000 || info.Salary > 10_000_000:
		return errors.New("salary must be between 1000 and 10000000")
	case info.ExperienceMin < 0 || info.ExperienceMax > 50:
		return errors.New("experience must be between 0 and 50 years")
	case info.ExperienceMin >= info.ExperienceMax:
		return errors.New("minimum experience must be less than maximum experience")
	case len(info.Skills) == 0 || len(info.Skills) > 20:
		return errors.New("between 1 and 20 skills are required")
	}

	if !contains([]string{model.CurrencyINR, model.CurrencyUSD, model.CurrencyEUR}, info.Currency) {
		return errors.New("currency must be one of INR, USD, EUR")
	}
	if !contains([]string{model.JobTypeFullTime, model.JobTypePartTime, model.JobTypeInternship}, info.JobType) {
		return errors.New("job type must be one of FULL_TIME, PART_TIME, INTERNSHIP")
	}
	if !contains([]string{model.JobModeOnsite, model.JobModeRemote, model.JobModeHybrid}, info.JobMode) {
		return errors.New("job mode must be one of ONSITE, REMOTE, HYBRID")
	}

	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// CreateJobPostHandler handles the creation of a new job posting by an employer.
// @Summary Create job posting based on given json structure
// @Description Only employers have access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 201 {object} model.Job "Successfully created job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobPostController) CreateJobPostHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// construct job from request
	job := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := validateJobInfo(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job.EmployerID = user.ID
	job.JobStatus = model.JobStatusOpen
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	jc.markStale(c, cache.TagJobsPublic, cache.TagPostedJobs(user.ID.String()))

	c.JSON(http.StatusCreated, job)
}

// GetPosts fetches open job postings that match query from the database
// and returns a page of them as a JSON response.
// @Summary Get open job postings based on query
// @Description Every query is optional. Featured postings come first, then newest first.
// @Tags Jobpost
// @Produce json
// @Param Authorization header string false "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search role and company name with substring matching and case insensitive"
// @Param job_type query string false "FULL_TIME, PART_TIME or INTERNSHIP, exact match"
// @Param job_mode query string false "ONSITE, REMOTE or HYBRID, exact match"
// @Param experience query integer false "Postings whose experience range covers this many years"
// @Param page query integer false "Page number, starting at 1"
// @Param limit query integer false "Page size, default 6"
// @Success 200 {object} map[string]interface{} "Page of job postings with total count"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	// Annotation state is per-user; anonymous callers share one cache slot.
	user, _ := utilities.ExtractUser(c)

	rawSearch := c.Query("search")
	rawJobType := c.Query("job_type")
	rawJobMode := c.Query("job_mode")
	rawExperience := c.Query("experience")

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}

	cacheKey := fmt.Sprintf("jobs:%s:%s", user.ID, c.Request.URL.RawQuery)
	if utilities.ServeCached(c, jc.Cache, cacheKey) {
		return
	}

	result := jc.DB.WithContext(c.Request.Context()).
		Model(&model.Job{}).
		Where("is_deleted = false AND job_status = ?", model.JobStatusOpen)

	if rawSearch != "" {
		result = result.Where("role ILIKE ? OR company_name ILIKE ?", "%"+rawSearch+"%", "%"+rawSearch+"%")
	}

	if rawJobType != "" {
		result = result.Where("job_type = ?", rawJobType)
	}

	if rawJobMode != "" {
		result = result.Where("job_mode = ?", rawJobMode)
	}

	if rawExperience != "" {
		if years, err := strconv.Atoi(rawExperience); err == nil {
			result = result.Where("experience_min <= ? AND experience_max >= ?", years, years)
		}
	}

	var total int64
	if err := result.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to count job postings: ", err.Error()),
		})
		return
	}

	var rawPosts []model.Job
	if err := result.
		Order("is_featured DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rawPosts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	posts := []model.JobResponse{}
	for i := range rawPosts {
		resp, err := jc.annotateForUser(c, &rawPosts[i], user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprint("Failed to process job posting: ", err.Error()),
			})
			return
		}
		posts = append(posts, resp)
	}

	payload := gin.H{
		"jobs":  posts,
		"total": total,
		"page":  page,
		"limit": limit,
	}

	tags := []string{cache.TagJobsPublic}
	if user.ID != uuid.Nil {
		tags = append(tags, cache.TagJobs(user.ID.String()))
	}
	utilities.WriteCachedJSON(c, jc.Cache, cacheKey, payload, tags...)
}

// annotateForUser resolves the caller's bookmark and application state for a
// job. Anonymous callers get the zero annotation.
func (jc *JobPostController) annotateForUser(c *gin.Context, job *model.Job, user model.User) (model.JobResponse, error) {
	if user.ID == uuid.Nil {
		return job.ToJobResponse(false, nil)
	}

	var bookmarked int64
	if err := jc.DB.WithContext(c.Request.Context()).Model(&model.Bookmark{}).
		Where("user_id = ? AND job_id = ?", user.ID, job.ID).
		Count(&bookmarked).Error; err != nil {
		return model.JobResponse{}, err
	}

	var app model.Application
	err := jc.DB.WithContext(c.Request.Context()).
		Where("user_id = ? AND job_id = ?", user.ID, job.ID).
		First(&app).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.JobResponse{}, err
		}
		return job.ToJobResponse(bookmarked > 0, nil)
	}
	return job.ToJobResponse(bookmarked > 0, &app)
}

// jobDetailResponse is a job annotated for the caller plus their uploaded
// resume metadata, so the client can prefill an application form.
type jobDetailResponse struct {
	model.JobResponse
	Resume *model.Resume `json:"resume"`
}

// GetPostByID fetches an open job posting by its ID from the database
// and returns it as a JSON response.
// @Summary Get job posting by ID
// @Description Retrieve a specific job posting using its unique ID
// @Tags Jobpost
// @Produce json
// @Param Authorization header string false "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired job posting"
// @Success 200 {object} jobDetailResponse "Return the job posting with the specified ID"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	id := c.Param("id")
	user, _ := utilities.ExtractUser(c)

	cacheKey := fmt.Sprintf("job-details:%s:%s", id, user.ID)
	if utilities.ServeCached(c, jc.Cache, cacheKey) {
		return
	}

	job := model.Job{}
	if err := jc.DB.WithContext(c.Request.Context()).
		Where("id = ? AND job_status = ? AND is_deleted = false", id, model.JobStatusOpen).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	resp, err := jc.annotateForUser(c, &job, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to process job posting: ", err.Error()),
		})
		return
	}

	detail := jobDetailResponse{JobResponse: resp}
	if user.ID != uuid.Nil && user.Role == model.RoleJobSeeker {
		var resume model.Resume
		err := jc.DB.WithContext(c.Request.Context()).
			Omit("content").
			Where("user_id = ?", user.ID).
			First(&resume).Error
		switch {
		case err == nil:
			detail.Resume = &resume
		case !errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve resume: %s", err.Error()),
			})
			return
		}
	}

	utilities.WriteCachedJSON(c, jc.Cache, cacheKey, detail,
		cache.TagJobDetails(id, user.ID.String()))
}

// GetPostedJobs lists the requesting employer's own postings, newest first.
// @Summary List my job postings
// @Description Only employers have access to this endpoint. Deleted postings are excluded.
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "The employer's job postings"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/posted [get]
func (jc *JobPostController) GetPostedJobs(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cacheKey := fmt.Sprintf("posted-jobs:%s", user.ID)
	if utilities.ServeCached(c, jc.Cache, cacheKey) {
		return
	}

	var jobs []model.Job
	if err := jc.DB.WithContext(c.Request.Context()).
		Preload("Applications").
		Where("employer_id = ? AND is_deleted = false", user.ID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job postings: %s", err.Error()),
		})
		return
	}

	utilities.WriteCachedJSON(c, jc.Cache, cacheKey, jobs,
		cache.TagPostedJobs(user.ID.String()))
}

// GetPostedJobApplications lists the applications received on one of the
// employer's postings, with each applicant preloaded.
// @Summary List applications on my job posting
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the job posting"
// @Success 200 {array} model.Application "Applications on the posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Posting owned by another employer"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications [get]
func (jc *JobPostController) GetPostedJobApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job, ok := jc.ownedJob(c, id, user)
	if !ok {
		return
	}

	var applications []model.Application
	if err := jc.DB.WithContext(c.Request.Context()).
		Preload("User").
		Where("job_id = ?", job.ID).
		Order("created_at ASC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// ownedJob loads a posting and enforces that the caller owns it. Writes the
// error response itself when the posting is missing or foreign.
func (jc *JobPostController) ownedJob(c *gin.Context, id string, user model.User) (model.Job, bool) {
	job := model.Job{}
	if err := jc.DB.WithContext(c.Request.Context()).
		Where("id = ? AND is_deleted = false", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return job, false
	}

	if job.EmployerID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage this job posting",
		})
		return job, false
	}

	return job, true
}

// EditJobPost allows an employer to update a job posting they own.
// @Summary Edit job posting based on given json structure
// @Description Only the employer that owns the posting has access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired job posting"
// @Param Job body model.EditableJobInfo true "Input job information"
// @Success 200 {object} model.Job "Successfully updated job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [patch]
func (jc *JobPostController) EditJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job, ok := jc.ownedJob(c, id, user)
	if !ok {
		return
	}

	// Bind incoming JSON separately to avoid overwriting ownership fields
	updated := model.EditableJobInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	merged := job.EditableJobInfo
	utilities.MergeNonEmpty(&merged, &updated)
	if err := validateJobInfo(&merged); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job.EditableJobInfo = merged
	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job posting: %s", err.Error()),
		})
		return
	}

	jc.markStale(c,
		cache.TagJobsPublic,
		cache.TagPostedJobs(user.ID.String()),
		cache.TagPostedJobDetails(id, user.ID.String()))

	c.JSON(http.StatusOK, job)
}

// CloseJobPost marks a posting as no longer accepting applications. Existing
// applications keep their status.
// @Summary Close job posting
// @Description Only the employer that owns the posting has access to this endpoint
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired job posting"
// @Success 200 {object} model.Job "Successfully closed job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to close"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/close [patch]
func (jc *JobPostController) CloseJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job, ok := jc.ownedJob(c, id, user)
	if !ok {
		return
	}

	if err := jc.DB.Model(&job).Update("job_status", model.JobStatusClosed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to close job posting: %s", err.Error()),
		})
		return
	}

	jc.markStale(c,
		cache.TagJobsPublic,
		cache.TagPostedJobs(user.ID.String()),
		cache.TagPostedJobDetails(id, user.ID.String()))

	c.JSON(http.StatusOK, job)
}

// DeleteJobPost soft-deletes a posting the employer owns. The row stays for
// existing applications but drops out of every listing.
// @Summary Delete given job posting ID
// @Description Only the employer that owns the posting has access to this endpoint
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully deleted job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this posting"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobPostController) DeleteJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job, ok := jc.ownedJob(c, id, user)
	if !ok {
		return
	}

	if err := jc.DB.Model(&job).Update("is_deleted", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job posting: %s", err.Error()),
		})
		return
	}

	jc.markStale(c,
		cache.TagJobsPublic,
		cache.TagPostedJobs(user.ID.String()),
		cache.TagPostedJobDetails(id, user.ID.String()))

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job posting deleted"})
}

// markStale is a best-effort invalidation; a cache outage never fails the
// mutation that already committed.
func (jc *JobPostController) markStale(c *gin.Context, tags ...string) {
	if jc.Cache == nil {
		return
	}
	_ = jc.Cache.MarkStale(c.Request.Context(), tags...)
}
