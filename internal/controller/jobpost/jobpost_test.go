package jobpost

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/ksb-dev-1/careerly-new/internal/auth"
	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/cache/memory"
	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/middleware"
	"github.com/ksb-dev-1/careerly-new/internal/model"
	"github.com/ksb-dev-1/careerly-new/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func newTestEngine() (*gin.Engine, cache.Store) {
	store := memory.New(cache.DefaultOptions())
	jc := NewJobPostController(testDB, store)

	r := gin.New()
	r.GET("/jobs", jc.GetPosts)
	r.GET("/jobs/posted", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleEmployer), jc.GetPostedJobs)
	r.GET("/jobs/:id", middleware.RequireAuth(testDB), jc.GetPostByID)
	r.POST("/jobs", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleEmployer), jc.CreateJobPostHandler)
	r.PATCH("/jobs/:id", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleEmployer), jc.EditJobPost)
	r.PATCH("/jobs/:id/close", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleEmployer), jc.CloseJobPost)
	r.DELETE("/jobs/:id", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleEmployer), jc.DeleteJobPost)
	return r, store
}

func validJobBody() gin.H {
	return gin.H{
		"role":           "Site Reliability Engineer",
		"company_name":   "TechNova",
		"salary":         120000,
		"currency":       model.CurrencyUSD,
		"job_type":       model.JobTypeFullTime,
		"job_mode":       model.JobModeHybrid,
		"experience_min": 2,
		"experience_max": 6,
		"location":       "Bengaluru",
		"description":    "<p>Keep production healthy.</p>",
		"skills":         []string{"go", "terraform"},
		"openings":       4,
	}
}

func TestCreateJobPost_Success(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()
	rec, resp := testutil.MakeJSONRequest(validJobBody(), employerToken, r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Site Reliability Engineer", resp["role"])
	assert.Equal(t, model.JobStatusOpen, resp["job_status"])
	assert.Equal(t, database.TestEmployer1.ID.String(), resp["employer_id"])
}

func TestCreateJobPost_Validation(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()

	cases := []struct {
		name    string
		mutate  func(gin.H)
		message string
	}{
		{"zero openings", func(b gin.H) { b["openings"] = 0 }, "openings must be between 1 and 100"},
		{"too many openings", func(b gin.H) { b["openings"] = 101 }, "openings must be between 1 and 100"},
		{"salary too low", func(b gin.H) { b["salary"] = 500 }, "salary must be between"},
		{"experience inverted", func(b gin.H) { b["experience_min"] = 5; b["experience_max"] = 3 }, "minimum experience must be less"},
		{"bad currency", func(b gin.H) { b["currency"] = "GBP" }, "currency must be one of"},
		{"bad job type", func(b gin.H) { b["job_type"] = "CONTRACT" }, "job type must be one of"},
		{"bad job mode", func(b gin.H) { b["job_mode"] = "NOMADIC" }, "job mode must be one of"},
		{"missing role", func(b gin.H) { b["role"] = "" }, "role is required"},
		{"unknown field", func(b gin.H) { b["surprise"] = true }, "Invalid request body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validJobBody()
			tc.mutate(body)
			rec, resp := testutil.MakeJSONRequest(body, employerToken, r, "/jobs", http.MethodPost)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, resp["error"], tc.message)
		})
	}
}

func TestGetPosts_PaginationAndFilters(t *testing.T) {
	r, _ := newTestEngine()

	req, _ := http.NewRequest(http.MethodGet, "/jobs?limit=2&page=1", nil)
	rec := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"limit":2`)

	// job_type filter excludes everything else
	req2, _ := http.NewRequest(http.MethodGet, "/jobs?job_type="+model.JobTypeInternship, nil)
	rec2 := testutil.ServeRequest(r, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "Data Analyst")
	assert.NotContains(t, rec2.Body.String(), "Backend Engineer")

	// search matches role substring case insensitively
	req3, _ := http.NewRequest(http.MethodGet, "/jobs?search=backend", nil)
	rec3 := testutil.ServeRequest(r, req3)
	assert.Equal(t, http.StatusOK, rec3.Code)
	assert.Contains(t, rec3.Body.String(), "Backend Engineer")
}

func TestGetPosts_FeaturedFirst(t *testing.T) {
	r, _ := newTestEngine()

	req, _ := http.NewRequest(http.MethodGet, "/jobs?limit=1", nil)
	rec := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	// TestJob2 is the only seeded featured posting
	assert.Contains(t, rec.Body.String(), "Frontend Developer")
}

func TestGetPostByID(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()

	req, _ := http.NewRequest(http.MethodGet, "/jobs/"+database.TestJob1.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+seekerToken)
	rec := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Backend Engineer")
	// seeker without an uploaded resume still gets the field
	assert.Contains(t, rec.Body.String(), `"resume":null`)

	req2, _ := http.NewRequest(http.MethodGet, "/jobs/"+database.TestJobSeeker1.ID.String(), nil)
	req2.Header.Set("Authorization", "Bearer "+seekerToken)
	rec2 := testutil.ServeRequest(r, req2)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestGetPostByID_ClosedJobHidden(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()
	rec, resp := testutil.MakeJSONRequest(validJobBody(), employerToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	jobID := resp["id"].(string)

	rec3, _ := testutil.MakeJSONRequest(nil, employerToken, r, "/jobs/"+jobID+"/close", http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec3.Code)

	// closed postings disappear from the seeker detail endpoint
	req2, _ := http.NewRequest(http.MethodGet, "/jobs/"+jobID, nil)
	req2.Header.Set("Authorization", "Bearer "+seekerToken)
	rec4 := testutil.ServeRequest(r, req2)
	assert.Equal(t, http.StatusNotFound, rec4.Code)
}

func TestGetPostByID_IncludesCallerResume(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	resume := model.Resume{
		UserID:    database.TestJobSeeker2.ID,
		FileName:  "seeker2-cv.pdf",
		Content:   []byte("%PDF-1.4 stub"),
		Extension: ".pdf",
		Size:      13,
	}
	assert.NoError(t, testDB.Create(&resume).Error)
	defer testDB.Delete(&resume)

	r, _ := newTestEngine()
	req, _ := http.NewRequest(http.MethodGet, "/jobs/"+database.TestJob1.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+seekerToken)
	rec := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"file_name":"seeker2-cv.pdf"`)
	// file bytes never leave through the detail endpoint
	assert.NotContains(t, rec.Body.String(), "PDF-1.4")
}

func TestEditJobPost_OwnershipAndMerge(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	otherToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()
	rec, resp := testutil.MakeJSONRequest(validJobBody(), employerToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	jobID := resp["id"].(string)

	// owner edits one field, the rest survives the merge
	rec2, resp2 := testutil.MakeJSONRequest(gin.H{"openings": 9}, employerToken, r, "/jobs/"+jobID, http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())
	assert.Equal(t, float64(9), resp2["openings"])
	assert.Equal(t, "Site Reliability Engineer", resp2["role"])

	// another employer cannot edit
	rec3, _ := testutil.MakeJSONRequest(gin.H{"openings": 1}, otherToken, r, "/jobs/"+jobID, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec3.Code)
}

func TestCloseAndDeleteJobPost(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()
	rec, resp := testutil.MakeJSONRequest(validJobBody(), employerToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	jobID := resp["id"].(string)

	rec2, resp2 := testutil.MakeJSONRequest(nil, employerToken, r, "/jobs/"+jobID+"/close", http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())
	assert.Equal(t, model.JobStatusClosed, resp2["job_status"])

	rec3, _ := testutil.MakeJSONRequest(nil, employerToken, r, "/jobs/"+jobID, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec3.Code)

	// deleted posting is gone from the detail endpoint
	req, _ := http.NewRequest(http.MethodGet, "/jobs/"+jobID, nil)
	req.Header.Set("Authorization", "Bearer "+employerToken)
	rec4 := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusNotFound, rec4.Code)
}

func TestGetPostedJobs_CachedUntilMutation(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, store := newTestEngine()

	req, _ := http.NewRequest(http.MethodGet, "/jobs/posted", nil)
	req.Header.Set("Authorization", "Bearer "+employerToken)
	rec := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	key := fmt.Sprintf("posted-jobs:%s", database.TestEmployer2.ID)
	_, err = store.Get(context.Background(), key)
	assert.NoError(t, err)

	// creating a posting invalidates the employer's list
	rec2, _ := testutil.MakeJSONRequest(validJobBody(), employerToken, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec2.Code)

	_, err = store.Get(context.Background(), key)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
