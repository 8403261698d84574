package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/config"
	"github.com/gistify/core/internal/database"
	"github.com/gistify/core/internal/middleware"
	"github.com/gistify/core/internal/modules/storage"
	"github.com/gistify/core/internal/modules/summarize"
	"github.com/gistify/core/internal/modules/task"
	pkgcron "github.com/gistify/core/internal/pkg/cron"
	jwtpkg "github.com/gistify/core/internal/pkg/jwt"
	pkgredis "github.com/gistify/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg        *config.AppConfig
	router     *gin.Engine
	db         *gorm.DB
	store      *storage.Client
	summarizer *summarize.Client
	tasks      *task.Service
	logger     *zap.Logger
	cancel     context.CancelFunc
	sched      *pkgcron.Scheduler
	startedAt  time.Time
}

// New initializes the application: config → DB → object store → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	store, err := storage.New(ctx, cfg.S3)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("object store: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	// Identity is resolved once up front so rate limiting can distinguish
	// authenticated traffic; route groups still enforce auth themselves.
	router.Use(middleware.OptionalAuth(db))
	if rc != nil {
		router.Use(middleware.RateLimit(rc.Raw()))
		router.Use(middleware.Idempotence(rc.Raw()))
	}

	summarizer := summarize.NewClient(cfg.Summarizer, logger)
	tasks := task.NewService(db, logger)

	sched := pkgcron.New()
	registerCronJobs(sched, tasks, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:        cfg,
		router:     router,
		db:         db,
		store:      store,
		summarizer: summarizer,
		tasks:      tasks,
		logger:     logger,
		cancel:     cancel,
		sched:      sched,
		startedAt:  time.Now(),
	}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
