package utilities

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksb-dev-1/careerly-new/internal/cache"
)

// ServeCached writes the cached response body for key when present and
// reports whether it did. A nil store or a cache miss simply returns false.
func ServeCached(c *gin.Context, store cache.Store, key string) bool {
	if store == nil {
		return false
	}
	cached, err := store.Get(c.Request.Context(), key)
	if err != nil {
		return false
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
	return true
}

// WriteCachedJSON responds with payload as JSON and records the rendered body
// in the cache under key and tags. Cache write failures are ignored; the
// response is already correct without them.
func WriteCachedJSON(c *gin.Context, store cache.Store, key string, payload interface{}, tags ...string) {
	if store != nil {
		if body, err := json.Marshal(payload); err == nil {
			_ = store.Set(c.Request.Context(), key, string(body), cache.DefaultOptions().DefaultTTL, tags...)
		}
	}
	c.JSON(http.StatusOK, payload)
}
