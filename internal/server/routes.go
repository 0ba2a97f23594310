package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/ksb-dev-1/careerly-new/internal/auth"
	"github.com/ksb-dev-1/careerly-new/internal/controller/application"
	"github.com/ksb-dev-1/careerly-new/internal/controller/bookmark"
	"github.com/ksb-dev-1/careerly-new/internal/controller/jobpost"
	"github.com/ksb-dev-1/careerly-new/internal/controller/profile"
	"github.com/ksb-dev-1/careerly-new/internal/middleware"
	"github.com/ksb-dev-1/careerly-new/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound MyServer instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	jobCtrl := jobpost.NewJobPostController(s.DB, s.Cache)
	appCtrl := application.NewApplicationController(s.DB, s.Admission, s.Dispatcher, s.Cache)
	bookmarkCtrl := bookmark.NewBookmarkController(s.DB, s.Cache)
	profileCtrl := profile.NewProfileController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		// Public browse endpoints; annotation kicks in when a token is present
		v1.GET("/jobs", jobCtrl.GetPosts)

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			needAuth.GET("/jobs/:id", jobCtrl.GetPostByID)

			needEmployer := needAuth.Group("")
			{
				needEmployer.Use(middleware.CheckRole(model.RoleEmployer))
				needEmployer.POST("/jobs", jobCtrl.CreateJobPostHandler)
				needEmployer.GET("/posted-jobs", jobCtrl.GetPostedJobs)
				needEmployer.GET("/jobs/:id/applications", jobCtrl.GetPostedJobApplications)
				needEmployer.PATCH("/jobs/:id", jobCtrl.EditJobPost)
				needEmployer.PATCH("/jobs/:id/close", jobCtrl.CloseJobPost)
				needEmployer.DELETE("/jobs/:id", jobCtrl.DeleteJobPost)
				needEmployer.PATCH("/applications/:id/status", appCtrl.DecisionHandler)
			}

			needSeeker := needAuth.Group("")
			{
				needSeeker.Use(middleware.CheckRole(model.RoleJobSeeker))
				needSeeker.POST("/jobs/:id/apply", appCtrl.ApplicationHandler)
				needSeeker.GET("/applications", appCtrl.GetApplications)
				needSeeker.POST("/jobs/:id/bookmark", bookmarkCtrl.ToggleBookmark)
				needSeeker.GET("/bookmarks", bookmarkCtrl.GetBookmarks)

				profileRoute := needSeeker.Group("/profile")
				{
					profileRoute.GET("", profileCtrl.GetMyProfile)
					profileRoute.PATCH("", profileCtrl.EditMyProfile)
					profileRoute.POST("resume", middleware.SizeLimit(10<<20), profileCtrl.UploadResume)
					profileRoute.GET("resume", profileCtrl.GetMyResume)
				}
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
