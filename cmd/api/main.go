package main

import (
	"fmt"
	"log"
	"os"

	"brasero-forecast/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if wd, err := os.Getwd(); err == nil {
		log.Printf("Working directory: %s", wd)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}

	router := api.NewRouter(api.Options{
		PresetDir: os.Getenv("PRESET_DIR"),
		StaticDir: staticDir,
	})

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
