package models

import "github.com/goccy/go-json"

// ProjectionRequest represents the request body for a projection.
// Assumptions (config.AssumptionsConfig shape) are decoded onto Preset when
// one is named ("default" selects the built-in assumptions): keys left out
// keep the preset value, keys sent win, zero included. Without a preset
// they must be complete.
type ProjectionRequest struct {
	Preset      string          `json:"preset,omitempty"`
	Assumptions json.RawMessage `json:"assumptions,omitempty"`
	StartMonth  string          `json:"start_month,omitempty"` // YYYY-MM, default: current month
	Scenario    string          `json:"scenario,omitempty"`    // pessimistic, median, optimistic
}

// ScenarioCompareRequest compares scenarios over one base assumption set.
// Without variations, the three presets are compared.
type ScenarioCompareRequest struct {
	Preset      string            `json:"preset,omitempty"`
	Assumptions json.RawMessage   `json:"assumptions,omitempty"`
	StartMonth  string            `json:"start_month,omitempty"`
	Variations  []ScenarioFactors `json:"variations,omitempty" binding:"omitempty,dive"`
}

// ScenarioFactors defines a custom scenario.
type ScenarioFactors struct {
	Name        string  `json:"name" binding:"required"`
	DayFactor   float64 `json:"day_factor" binding:"gte=0"`
	RateFactor  float64 `json:"rate_factor" binding:"gte=0"`
	PriceFactor float64 `json:"price_factor" binding:"gte=0"`
	FuelFactor  float64 `json:"fuel_factor" binding:"gte=0"`
}

// SensitivityRequest asks for driver impacts at a relative step (default 0.10).
type SensitivityRequest struct {
	Preset      string          `json:"preset,omitempty"`
	Assumptions json.RawMessage `json:"assumptions,omitempty"`
	Step        float64         `json:"step,omitempty" binding:"gte=0,lt=1"`
}

// WearRequest asks for equipment wear at AsOf (YYYY-MM-DD, default: today).
type WearRequest struct {
	Preset            string          `json:"preset,omitempty"`
	Assumptions       json.RawMessage `json:"assumptions,omitempty"`
	AsOf              string          `json:"as_of,omitempty"`
	BraseroPurchased  string          `json:"brasero_purchased,omitempty"`
	ChiffresPurchased string          `json:"chiffres_purchased,omitempty"`
}

// ReportRequest renders a PDF report of a projection.
type ReportRequest struct {
	ProjectionRequest
	IncludeScenarios bool         `json:"include_scenarios,omitempty"`
	Wear             *WearRequest `json:"wear,omitempty"`
}
