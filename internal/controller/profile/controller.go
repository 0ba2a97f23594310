// Package profile provides HTTP handlers for job seeker profile and resume
// operations.
package profile

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/utilities"
)

// MaxResumeBytes is the largest accepted resume file size.
const MaxResumeBytes = 5 * 1024 * 1024

var allowedResumeExtensions = []string{".pdf", ".doc", ".docx"}

// ProfileController handles job seeker profile related endpoints
type ProfileController struct {
	DB *database.DBinstanceStruct
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(db *database.DBinstanceStruct) *ProfileController {
	return &ProfileController{
		DB: db,
	}
}

type editProfile struct {
	model.EditableProfileInfo
	Projects []model.Project    `json:"projects"`
	Socials  []model.SocialLink `json:"socials"`
}

// GetMyProfile retrieves the caller's profile from the database and returns
// it as a JSON response. A profile row is created lazily on first access.
// @Summary Retrieve job seeker profile from database
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.JobSeekerProfile "Successfully retrieved profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile [get]
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.JobSeekerProfile{}
	err = pc.DB.WithContext(c.Request.Context()).
		Preload("Projects").
		Preload("Socials").
		Where("user_id = ?", user.ID).
		First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
			})
			return
		}
		profile = model.JobSeekerProfile{UserID: user.ID}
		if err := pc.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create profile: %s", err.Error()),
			})
			return
		}
	}

	c.JSON(http.StatusOK, profile)
}

// EditMyProfile handles editing the caller's profile information: scalar
// fields merge field-by-field while project and social lists are replaced
// wholesale when present.
// @Summary Edit job seeker profile
// @Description Sensitive fields like id and user can't be overwritten
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body editProfile true "Profile info to be written"
// @Success 200 {object} model.JobSeekerProfile "Successfully overwritten"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile [patch]
func (pc *ProfileController) EditMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.JobSeekerProfile{}
	err = pc.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
			})
			return
		}
		profile = model.JobSeekerProfile{UserID: user.ID}
		if err := pc.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create profile: %s", err.Error()),
			})
			return
		}
	}

	edited := editProfile{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&profile.EditableProfileInfo, &edited.EditableProfileInfo)

	txErr := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		if edited.Projects != nil {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&model.Project{}).Error; err != nil {
				return err
			}
			for i := range edited.Projects {
				edited.Projects[i].ID = 0
				edited.Projects[i].ProfileID = profile.ID
			}
			if len(edited.Projects) > 0 {
				if err := tx.Create(&edited.Projects).Error; err != nil {
					return err
				}
			}
		}
		if edited.Socials != nil {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&model.SocialLink{}).Error; err != nil {
				return err
			}
			for i := range edited.Socials {
				edited.Socials[i].ID = 0
				edited.Socials[i].ProfileID = profile.ID
			}
			if len(edited.Socials) > 0 {
				if err := tx.Create(&edited.Socials).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", txErr.Error()),
		})
		return
	}

	// Reload to return the saved state including child rows
	if err := pc.DB.Preload("Projects").Preload("Socials").
		Where("id = ?", profile.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

type resumeUpload struct {
	FileName string `json:"file_name" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// UploadResume stores the caller's resume, replacing any previous one. The
// content is base64 inside the JSON body.
// @Summary Upload resume
// @Description Accepts pdf, doc and docx up to 5MB. Content is base64 encoded.
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume body resumeUpload true "File name and base64 content"
// @Success 200 {object} model.Resume "Stored resume metadata"
// @Failure 400 {object} utilities.ErrorResponse "Bad file name, encoding or type"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 413 {object} utilities.ErrorResponse "File larger than 5MB"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/resume [post]
func (pc *ProfileController) UploadResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var upload resumeUpload
	if err := c.ShouldBindJSON(&upload); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "File name and content must be provided",
		})
		return
	}

	extension := ""
	if idx := strings.LastIndex(upload.FileName, "."); idx >= 0 {
		extension = strings.ToLower(upload.FileName[idx:])
	}
	if !extensionAllowed(extension) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Only pdf, doc and docx files are accepted",
		})
		return
	}

	content, err := base64.StdEncoding.DecodeString(upload.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Content is not valid base64",
		})
		return
	}
	if len(content) > MaxResumeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: "File exceeds the 5MB limit",
		})
		return
	}

	resume := model.Resume{}
	err = pc.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		First(&resume).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resume: %s", err.Error()),
		})
		return
	}

	resume.UserID = user.ID
	resume.FileName = upload.FileName
	resume.Content = content
	resume.Extension = extension
	resume.Size = int64(len(content))

	if err := pc.DB.Save(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resume)
}

func extensionAllowed(extension string) bool {
	for _, allowed := range allowedResumeExtensions {
		if extension == allowed {
			return true
		}
	}
	return false
}

// GetMyResume returns the caller's stored resume file.
// @Summary Download my resume
// @Tags Profile
// @Produce application/octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {file} binary "Resume file content"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "No resume uploaded"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/resume [get]
func (pc *ProfileController) GetMyResume(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resume := model.Resume{}
	if err := pc.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No resume uploaded"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resume: %s", err.Error()),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resume.FileName))
	c.Data(http.StatusOK, "application/octet-stream", resume.Content)
}
