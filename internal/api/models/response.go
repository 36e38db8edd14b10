package models

import (
	"time"

	"brasero-forecast/internal/config"
)

// ProjectionResponse represents the response from a projection run
type ProjectionResponse struct {
	ID             string                   `json:"id"`
	Status         string                   `json:"status"`
	Scenario       string                   `json:"scenario,omitempty"`
	Assumptions    config.AssumptionsConfig `json:"assumptions"`
	Indicators     Indicators               `json:"indicators"`
	MonthlyRevenue float64                  `json:"monthly_revenue"`
	CashFlow       []MonthlyFlow            `json:"cash_flow"`
}

// LineIndicators contains per-line figures
type LineIndicators struct {
	Line               string   `json:"line"`
	PackDays           PackDays `json:"pack_days"`
	Revenue            float64  `json:"revenue"`
	Amortization       float64  `json:"amortization"`
	ResultBeforeLevies float64  `json:"result_before_levies"`
	ROIPct             float64  `json:"roi_pct"`
	DeliveryTrips      float64  `json:"delivery_trips"`
}

type PackDays struct {
	Pack1 float64 `json:"pack1"`
	Pack2 float64 `json:"pack2"`
	Pack3 float64 `json:"pack3"`
}

// Levies contains the mandatory charges
type Levies struct {
	SocialContribution float64 `json:"social_contribution"`
	FlatTax            float64 `json:"flat_tax"`
	TrainingLevy       float64 `json:"training_levy"`
	Total              float64 `json:"total"`
}

// Indicators contains the annual figures of a projection
type Indicators struct {
	Brasero  LineIndicators `json:"brasero"`
	Chiffres LineIndicators `json:"chiffres"`

	TotalRevenue       float64 `json:"total_revenue"`
	TotalAmortization  float64 `json:"total_amortization"`
	TotalRentalDays    float64 `json:"total_rental_days"`
	ResultBeforeLevies float64 `json:"result_before_levies"`

	Levies         Levies  `json:"levies"`
	NetAfterLevies float64 `json:"net_after_levies"`

	DeliveryTrips         float64 `json:"delivery_trips"`
	FuelLitres            float64 `json:"fuel_litres"`
	FuelCost              float64 `json:"fuel_cost"`
	AnnualMaintenance     float64 `json:"annual_maintenance"`
	OperationalCosts      float64 `json:"operational_costs"`
	ResultAfterOperations float64 `json:"result_after_operations"`

	ROITotalPct          float64 `json:"roi_total_pct"`
	NetMarginPct         float64 `json:"net_margin_pct"`
	OperationalMarginPct float64 `json:"operational_margin_pct"`
	LevyRatioPct         float64 `json:"levy_ratio_pct"`
	ThresholdRatioPct    float64 `json:"threshold_ratio_pct"`
	ThresholdExceeded    bool    `json:"threshold_exceeded"`

	RevenuePerDay float64 `json:"revenue_per_day"`
	// BreakEvenDays is null when revenue per day is 0
	BreakEvenDays *float64 `json:"break_even_days"`
}

// MonthlyFlow represents one month of the cash-flow schedule
type MonthlyFlow struct {
	Position     int       `json:"position"`
	Month        time.Time `json:"month"`
	Label        string    `json:"label"`
	Revenue      float64   `json:"revenue"`
	Depreciation float64   `json:"depreciation"`
	Maintenance  float64   `json:"maintenance"`
	LevyCharge   float64   `json:"levy_charge"`
	Net          float64   `json:"net"`
	Cumulative   float64   `json:"cumulative"`
}

// ScenarioCompareResponse represents the response from a comparison
type ScenarioCompareResponse struct {
	StartMonth time.Time        `json:"start_month"`
	Comparison []ScenarioResult `json:"comparison"`
}

// ScenarioResult contains results for one scenario
type ScenarioResult struct {
	Scenario     ScenarioFactors `json:"scenario"`
	Indicators   Indicators      `json:"indicators"`
	FinalBalance float64         `json:"final_balance"`
}

// SensitivityResponse ranks drivers by impact on the result after operations
type SensitivityResponse struct {
	Step    float64        `json:"step"`
	Impacts []DriverImpact `json:"impacts"`
}

type DriverImpact struct {
	Rank   int     `json:"rank"`
	Driver string  `json:"driver"`
	Base   float64 `json:"base"`
	Down   float64 `json:"down"`
	Up     float64 `json:"up"`
	Swing  float64 `json:"swing"`
}

// WearResponse lists wear per equipment line
type WearResponse struct {
	AsOf time.Time    `json:"as_of"`
	Wear []WearStatus `json:"wear"`
}

type WearStatus struct {
	Line                 string    `json:"line"`
	PurchasedAt          time.Time `json:"purchased_at"`
	ReplacementDate      time.Time `json:"replacement_date"`
	ElapsedYears         float64   `json:"elapsed_years"`
	CumulativeRentalDays float64   `json:"cumulative_rental_days"`
	WearRatio            float64   `json:"wear_ratio"`
	BookValue            float64   `json:"book_value"`
	FullyDepreciated     bool      `json:"fully_depreciated"`
}

// ActualsResponse compares uploaded revenue against the forecast
type ActualsResponse struct {
	ID              string             `json:"id"`
	MonthlyForecast float64            `json:"monthly_forecast"`
	TotalActual     float64            `json:"total_actual"`
	TotalForecast   float64            `json:"total_forecast"`
	Comparison      []ActualComparison `json:"comparison"`
}

type ActualComparison struct {
	Month       time.Time `json:"month"`
	Label       string    `json:"label"`
	Actual      float64   `json:"actual"`
	Forecast    float64   `json:"forecast"`
	Variance    float64   `json:"variance"`
	VariancePct float64   `json:"variance_pct"`
}

// ScenarioInfo describes a scenario preset
type ScenarioInfo struct {
	ScenarioFactors
	Description string `json:"description"`
}

// PresetInfo represents an assumption preset file
type PresetInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	File         string  `json:"file"`
	BraseroDays  float64 `json:"brasero_days"`
	ChiffresDays float64 `json:"chiffres_days"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
