package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/middleware"
	"github.com/gistify/core/internal/modules/auth"
	"github.com/gistify/core/internal/modules/gist"
	"github.com/gistify/core/internal/modules/storage"
	"github.com/gistify/core/internal/modules/task"
	"github.com/gistify/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "gistify-core",
		"version": "1.0.0",
	}

	r.GET("/", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })

	// Raw file routes live at the root, matching the public upload paths.
	root := r.Group("")
	storage.NewHandler(db, a.store, a.logger).RegisterRoutes(root, authMW)

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptime := time.Since(a.startedAt)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptime.Milliseconds(),
			"humanize":  humanizeDuration(uptime),
		})
	})

	auth.NewHandler(db, a.cfg.TokenTTL, a.logger).RegisterRoutes(api)

	gistSvc := gist.NewService(db, a.store, a.summarizer, a.tasks, a.logger)
	gist.NewHandler(gistSvc, a.logger).RegisterRoutes(api, authMW)

	task.NewHandler(a.tasks).RegisterRoutes(api, authMW)
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
