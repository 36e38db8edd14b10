package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"brasero-forecast/internal/api/models"
	"brasero-forecast/internal/config"

	"github.com/gin-gonic/gin"
)

// ErrPresetNotFound is returned when a named preset file does not exist.
var ErrPresetNotFound = errors.New("preset not found")

// PresetHandler serves assumption presets stored as YAML files
type PresetHandler struct {
	presetDir string
}

// NewPresetHandler creates a preset handler. An empty dir falls back to
// PRESET_DIR, then ./examples/presets.
func NewPresetHandler(dir string) *PresetHandler {
	if dir == "" {
		dir = os.Getenv("PRESET_DIR")
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err == nil {
			dir = filepath.Join(wd, "examples", "presets")
		} else {
			dir = "./examples/presets"
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	log.Printf("PresetHandler: Using preset directory: %s", dir)
	return &PresetHandler{presetDir: dir}
}

// PresetDir returns the preset directory path
func (h *PresetHandler) PresetDir() string {
	return h.presetDir
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []models.PresetInfo{}

	entries, err := os.ReadDir(h.presetDir)
	if err != nil {
		log.Printf("PresetHandler: Failed to read preset directory %s: %v", h.presetDir, err)
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		info, err := h.presetInfo(id)
		if err != nil {
			log.Printf("PresetHandler: Skipping preset %s: %v", entry.Name(), err)
			continue
		}
		presets = append(presets, *info)
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// Load returns a preset decoded onto the built-in defaults.
func (h *PresetHandler) Load(id string) (config.AssumptionsConfig, error) {
	if id == "" || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return config.AssumptionsConfig{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
	}
	path := filepath.Join(h.presetDir, id+".yaml")
	loaded, err := config.LoadAssumptionsFile(path, config.Defaults())
	if err != nil {
		if os.IsNotExist(err) {
			return config.AssumptionsConfig{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
		}
		return config.AssumptionsConfig{}, err
	}
	return loaded, nil
}

func (h *PresetHandler) presetInfo(id string) (*models.PresetInfo, error) {
	a, err := h.Load(id)
	if err != nil {
		return nil, err
	}
	set, err := a.ToModel()
	if err != nil {
		return nil, err
	}
	name := a.Name
	if name == "" {
		name = id
	}
	return &models.PresetInfo{
		ID:           id,
		Name:         name,
		File:         filepath.Join(h.presetDir, id+".yaml"),
		BraseroDays:  set.Brasero.AnnualRentalDays,
		ChiffresDays: set.Chiffres.AnnualRentalDays,
	}, nil
}
