package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"brasero-forecast/internal/analysis"
	"brasero-forecast/internal/api/models"
	"brasero-forecast/internal/config"
	"brasero-forecast/internal/data"
	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"
	"brasero-forecast/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// DefaultPreset selects the built-in assumptions as merge base.
const DefaultPreset = "default"

// maxUploadBytes bounds the actual-revenue upload.
const maxUploadBytes = 5 << 20

// ProjectionHandler handles projection requests. Every request builds its
// own AssumptionSet; nothing is shared between requests.
type ProjectionHandler struct {
	engine  *projection.Engine
	presets *PresetHandler
	now     func() time.Time
}

// NewProjectionHandler creates a new projection handler
func NewProjectionHandler(presets *PresetHandler) *ProjectionHandler {
	return &ProjectionHandler{
		engine:  projection.New(),
		presets: presets,
		now:     time.Now,
	}
}

// Project handles POST /api/v1/projection
func (h *ProjectionHandler) Project(c *gin.Context) {
	var req models.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	resp, ok := h.runProjection(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompareScenarios handles POST /api/v1/projection/scenarios
func (h *ProjectionHandler) CompareScenarios(c *gin.Context) {
	var req models.ScenarioCompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	a, ok := h.resolve(c, req.Preset, req.Assumptions)
	if !ok {
		return
	}
	start, ok := h.startMonth(c, req.StartMonth)
	if !ok {
		return
	}

	scenarios := make([]projection.Scenario, 0, len(req.Variations))
	for _, v := range req.Variations {
		scenarios = append(scenarios, fromScenarioFactors(v))
	}
	results := h.engine.CompareScenarios(a, scenarios, start)

	c.JSON(http.StatusOK, models.ScenarioCompareResponse{
		StartMonth: start,
		Comparison: toScenarioResults(results),
	})
}

// Sensitivity handles POST /api/v1/projection/sensitivity
func (h *ProjectionHandler) Sensitivity(c *gin.Context) {
	var req models.SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	a, ok := h.resolve(c, req.Preset, req.Assumptions)
	if !ok {
		return
	}
	step := req.Step
	if step == 0 {
		step = analysis.DefaultStep
	}

	c.JSON(http.StatusOK, models.SensitivityResponse{
		Step:    step,
		Impacts: toDriverImpacts(analysis.RankBySwing(h.engine, a, step)),
	})
}

// Wear handles POST /api/v1/projection/wear
func (h *ProjectionHandler) Wear(c *gin.Context) {
	var req models.WearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	a, ok := h.resolve(c, req.Preset, req.Assumptions)
	if !ok {
		return
	}
	asOf, purchased, err := h.wearDates(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATE", err)
		return
	}

	c.JSON(http.StatusOK, models.WearResponse{
		AsOf: asOf,
		Wear: toWear(h.engine.ComputeWear(a, purchased, asOf)),
	})
}

// Actuals handles POST /api/v1/projection/actuals (multipart: assumptions + file)
func (h *ProjectionHandler) Actuals(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	// The "assumptions" field carries a projection request body; "request"
	// is accepted as an alias. Without either, the default preset is used.
	var req models.ProjectionRequest
	raw := c.PostForm("assumptions")
	if raw == "" {
		raw = c.PostForm("request")
	}
	if raw != "" {
		if err := binding.JSON.BindBody([]byte(raw), &req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
			return
		}
	} else {
		req.Preset = DefaultPreset
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", fmt.Errorf("file field is required: %w", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", err)
		return
	}
	defer f.Close()

	actuals, err := data.ParseActualRevenueCSV(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ACTUALS", err)
		return
	}

	a, ok := h.resolve(c, req.Preset, req.Assumptions)
	if !ok {
		return
	}
	a, ok = h.applyScenario(c, a, req.Scenario)
	if !ok {
		return
	}
	start, ok := h.startMonth(c, req.StartMonth)
	if !ok {
		return
	}

	ind, cf := h.engine.Project(a, start)
	rows := projection.CompareActuals(cf, actuals)
	actual, forecast := projection.ActualTotals(rows)
	log.Printf("ProjectionHandler: Compared %d uploaded months, %d overlap the schedule", len(actuals), len(rows))

	c.JSON(http.StatusOK, models.ActualsResponse{
		ID:              uuid.NewString(),
		MonthlyForecast: ind.MonthlyRevenue(),
		TotalActual:     actual,
		TotalForecast:   forecast,
		Comparison:      toActualComparison(rows),
	})
}

// Report handles POST /api/v1/projection/report
func (h *ProjectionHandler) Report(c *gin.Context) {
	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	a, ok := h.resolve(c, req.Preset, req.Assumptions)
	if !ok {
		return
	}
	a, ok = h.applyScenario(c, a, req.Scenario)
	if !ok {
		return
	}
	start, ok := h.startMonth(c, req.StartMonth)
	if !ok {
		return
	}

	ind, cf := h.engine.Project(a, start)
	in := report.Input{
		GeneratedAt: h.now(),
		Assumptions: a,
		Indicators:  ind,
		CashFlow:    cf,
	}
	if req.IncludeScenarios {
		in.Scenarios = h.engine.CompareScenarios(a, nil, start)
	}
	if req.Wear != nil {
		asOf, purchased, err := h.wearDates(*req.Wear)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_DATE", err)
			return
		}
		in.Wear = h.engine.ComputeWear(a, purchased, asOf)
	}

	pdf, err := report.GeneratePDF(in)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "REPORT_ERROR", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="prevision.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Helper methods

func (h *ProjectionHandler) runProjection(c *gin.Context, req models.ProjectionRequest) (models.ProjectionResponse, bool) {
	a, ok := h.resolve(c, req.Preset, req.Assumptions)
	if !ok {
		return models.ProjectionResponse{}, false
	}
	a, ok = h.applyScenario(c, a, req.Scenario)
	if !ok {
		return models.ProjectionResponse{}, false
	}
	start, ok := h.startMonth(c, req.StartMonth)
	if !ok {
		return models.ProjectionResponse{}, false
	}

	ind, cf := h.engine.Project(a, start)
	return models.ProjectionResponse{
		ID:             uuid.NewString(),
		Status:         "completed",
		Scenario:       req.Scenario,
		Assumptions:    config.FromModel(a),
		Indicators:     toIndicators(ind),
		MonthlyRevenue: ind.MonthlyRevenue(),
		CashFlow:       toCashFlow(cf),
	}, true
}

// resolve decodes the request assumptions onto their preset and validates them.
func (h *ProjectionHandler) resolve(c *gin.Context, preset string, raw []byte) (model.AssumptionSet, bool) {
	var base config.AssumptionsConfig
	switch preset {
	case "":
	case DefaultPreset:
		base = config.Defaults()
	default:
		loaded, err := h.presets.Load(preset)
		if err != nil {
			if errors.Is(err, ErrPresetNotFound) {
				respondError(c, http.StatusNotFound, "PRESET_NOT_FOUND", err)
			} else {
				log.Printf("ProjectionHandler: Failed to load preset %s: %v", preset, err)
				respondError(c, http.StatusInternalServerError, "PRESET_LOAD_ERROR", err)
			}
			return model.AssumptionSet{}, false
		}
		base = loaded
	}

	merged, err := config.OverlayAssumptionsJSON(base, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return model.AssumptionSet{}, false
	}

	a, err := merged.ToModel()
	if err != nil {
		var ia *model.InvalidAssumptionError
		if errors.As(err, &ia) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_ASSUMPTION",
					Message: err.Error(),
					Details: map[string]interface{}{
						"field":  ia.Field,
						"reason": ia.Reason,
					},
				},
			})
			return model.AssumptionSet{}, false
		}
		respondError(c, http.StatusBadRequest, "INVALID_ASSUMPTION", err)
		return model.AssumptionSet{}, false
	}
	return a, true
}

func (h *ProjectionHandler) applyScenario(c *gin.Context, a model.AssumptionSet, name string) (model.AssumptionSet, bool) {
	if name == "" {
		return a, true
	}
	s, ok := projection.PresetByName(name)
	if !ok {
		respondError(c, http.StatusBadRequest, "UNKNOWN_SCENARIO", fmt.Errorf("unknown scenario %q", name))
		return a, false
	}
	return s.Apply(a), true
}

func (h *ProjectionHandler) startMonth(c *gin.Context, s string) (time.Time, bool) {
	start, err := config.ParseMonth(s)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_START_MONTH", err)
		return time.Time{}, false
	}
	if start.IsZero() {
		start = projection.CurrentMonth(h.now())
	}
	return start, true
}

func (h *ProjectionHandler) wearDates(req models.WearRequest) (time.Time, projection.PurchaseDates, error) {
	c := config.Config{Wear: config.WearConfig{
		BraseroPurchased:  req.BraseroPurchased,
		ChiffresPurchased: req.ChiffresPurchased,
	}}
	purchased, err := c.PurchaseDates()
	if err != nil {
		return time.Time{}, purchased, err
	}
	asOf := h.now()
	if req.AsOf != "" {
		asOf, err = time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			return time.Time{}, purchased, fmt.Errorf("as_of: invalid date %q (want YYYY-MM-DD)", req.AsOf)
		}
	}
	return asOf, purchased, nil
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
