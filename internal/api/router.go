package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"brasero-forecast/internal/api/handlers"
	"brasero-forecast/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Options configures the router.
type Options struct {
	PresetDir string
	StaticDir string
	// Origins overrides CORS_ALLOWED_ORIGINS when set.
	Origins []string
}

// NewRouter wires middleware and routes.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	if len(opts.Origins) > 0 {
		router.Use(middleware.CORSWithOrigins(opts.Origins))
	} else {
		router.Use(middleware.CORS())
	}
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	presetHandler := handlers.NewPresetHandler(opts.PresetDir)
	projectionHandler := handlers.NewProjectionHandler(presetHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/projection", projectionHandler.Project)
		api.POST("/projection/scenarios", projectionHandler.CompareScenarios)
		api.POST("/projection/sensitivity", projectionHandler.Sensitivity)
		api.POST("/projection/wear", projectionHandler.Wear)
		api.POST("/projection/actuals", projectionHandler.Actuals)
		api.POST("/projection/report", projectionHandler.Report)

		api.GET("/scenarios", handlers.ListScenarios)
		api.GET("/presets", presetHandler.ListPresets)
	}

	if opts.StaticDir != "" {
		serveStatic(router, opts.StaticDir)
	}
	return router
}

// serveStatic serves a built dashboard front-end with SPA fallback.
func serveStatic(router *gin.Engine, dir string) {
	if _, err := os.Stat(dir); err != nil {
		log.Printf("Static directory %s not found, skipping static file serving", dir)
		return
	}
	router.Static("/assets", dir+"/assets")
	router.StaticFile("/favicon.ico", dir+"/favicon.ico")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(dir + "/index.html")
	})
	log.Printf("Serving static files from %s", dir)
}
