// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/ksb-dev-1/careerly-new/internal/admission"
	"github.com/ksb-dev-1/careerly-new/internal/cache"
	"github.com/ksb-dev-1/careerly-new/internal/cache/memory"
	"github.com/ksb-dev-1/careerly-new/internal/cache/redis"
	"github.com/ksb-dev-1/careerly-new/internal/database"
	"github.com/ksb-dev-1/careerly-new/internal/notify"
)

// MyServer holds the shared dependencies behind every route handler.
type MyServer struct {
	DB         *database.DBinstanceStruct
	Cache      cache.Store
	Admission  *admission.Service
	Dispatcher *admission.Dispatcher
	Log        *zap.Logger
}

// NewServer constructs the HTTP server with every dependency wired: postgres,
// the response cache (redis when REDIS_ADDR is set, in-process otherwise),
// the admission service and the post-commit effect dispatcher.
func NewServer() (*http.Server, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.GetMainDB(logger)
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	opts := cache.DefaultOptions()
	opts.RedisAddr = os.Getenv("REDIS_ADDR")
	opts.RedisPassword = os.Getenv("REDIS_PASSWORD")

	var store cache.Store
	if opts.RedisAddr != "" {
		store = redis.New(opts)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process cache")
		store = memory.New(opts)
	}

	svc := admission.NewService(db, logger)
	dispatcher := admission.NewDispatcher(notify.NewMailer(), store, logger)

	s := &MyServer{
		DB:         db,
		Cache:      store,
		Admission:  svc,
		Dispatcher: dispatcher,
		Log:        logger,
	}

	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
