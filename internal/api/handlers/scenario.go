package handlers

import (
	"net/http"

	"brasero-forecast/internal/api/models"
	"brasero-forecast/internal/projection"

	"github.com/gin-gonic/gin"
)

var scenarioDescriptions = map[string]string{
	"pessimistic": "10% fewer rental days and lower tariffs; fuel 10% dearer.",
	"median":      "Assumptions as entered.",
	"optimistic":  "10% more rental days and higher tariffs; fuel 10% cheaper.",
}

// ListScenarios handles GET /api/v1/scenarios
func ListScenarios(c *gin.Context) {
	presets := projection.Presets()
	out := make([]models.ScenarioInfo, 0, len(presets))
	for _, s := range presets {
		out = append(out, models.ScenarioInfo{
			ScenarioFactors: toScenarioFactors(s),
			Description:     scenarioDescriptions[s.Name],
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out})
}
