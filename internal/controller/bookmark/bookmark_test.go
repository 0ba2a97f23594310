package bookmark

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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
	bc := NewBookmarkController(testDB, store)

	r := gin.New()
	r.POST("/jobs/:id/bookmark", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleJobSeeker), bc.ToggleBookmark)
	r.GET("/bookmarks", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleJobSeeker), bc.GetBookmarks)
	return r, store
}

func TestToggleBookmark_AddThenRemove(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()
	endpoint := "/jobs/" + database.TestJob1.ID.String() + "/bookmark"

	rec, resp := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "added", resp["message"])

	var count int64
	testDB.Model(&model.Bookmark{}).
		Where("user_id = ? AND job_id = ?", database.TestJobSeeker1.ID, database.TestJob1.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	rec2, resp2 := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "removed", resp2["message"])

	testDB.Model(&model.Bookmark{}).
		Where("user_id = ? AND job_id = ?", database.TestJobSeeker1.ID, database.TestJob1.ID).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleBookmark_UnknownJob(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, _ := newTestEngine()

	rec, _ := testutil.MakeJSONRequest(nil, seekerToken, r, "/jobs/"+uuid.NewString()+"/bookmark", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec2, resp2 := testutil.MakeJSONRequest(nil, seekerToken, r, "/jobs/not-a-uuid/bookmark", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
	assert.Contains(t, resp2["error"], "Invalid job ID")
}

func TestToggleBookmark_StalesApplicationAndPublicCaches(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, store := newTestEngine()
	ctx := context.Background()
	uid := database.TestJobSeeker1.ID.String()
	otherUID := database.TestJobSeeker2.ID.String()
	ttl := cache.DefaultOptions().DefaultTTL

	appsKey := fmt.Sprintf("applications:%s", uid)
	publicKey := fmt.Sprintf("jobs:%s:", uuid.Nil)
	otherAppsKey := fmt.Sprintf("applications:%s", otherUID)
	assert.NoError(t, store.Set(ctx, appsKey, "[]", ttl, cache.TagApplications(uid)))
	assert.NoError(t, store.Set(ctx, publicKey, "{}", ttl, cache.TagJobsPublic))
	assert.NoError(t, store.Set(ctx, otherAppsKey, "[]", ttl, cache.TagApplications(otherUID)))

	endpoint := "/jobs/" + database.TestJob3.ID.String() + "/bookmark"
	rec, resp := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "added", resp["message"])

	_, cacheErr := store.Get(ctx, appsKey)
	assert.ErrorIs(t, cacheErr, cache.ErrNotFound)
	_, cacheErr = store.Get(ctx, publicKey)
	assert.ErrorIs(t, cacheErr, cache.ErrNotFound)

	// another seeker's cached lists are untouched
	val, cacheErr := store.Get(ctx, otherAppsKey)
	assert.NoError(t, cacheErr)
	assert.Equal(t, "[]", val)

	// undo so other tests see a clean bookmark table
	rec2, resp2 := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "removed", resp2["message"])
}

func TestGetBookmarks_ListAndInvalidation(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobSeeker2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r, store := newTestEngine()
	endpoint := "/jobs/" + database.TestJob2.ID.String() + "/bookmark"

	rec, _ := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, _ := http.NewRequest(http.MethodGet, "/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+seekerToken)
	rec2 := testutil.ServeRequest(r, req)
	assert.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())
	assert.Contains(t, rec2.Body.String(), database.TestJob2.ID.String())
	assert.Contains(t, rec2.Body.String(), `"is_bookmarked":true`)

	key := fmt.Sprintf("bookmarks:%s", database.TestJobSeeker2.ID)
	_, cacheErr := store.Get(context.Background(), key)
	assert.NoError(t, cacheErr)

	// toggling again drops the cached list
	rec3, resp3 := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusOK, rec3.Code)
	assert.Equal(t, "removed", resp3["message"])

	_, cacheErr = store.Get(context.Background(), key)
	assert.ErrorIs(t, cacheErr, cache.ErrNotFound)
}
