package projection

import (
	"math"
	"strings"
	"time"

	"brasero-forecast/internal/model"
)

// Scenario scales activity, prices and fuel relative to a base AssumptionSet.
// FuelFactor moves inversely to the activity factors in the presets.
type Scenario struct {
	Name        string
	DayFactor   float64 // Brasero rental days
	RateFactor  float64 // Chiffres rental days, capped at 365
	PriceFactor float64 // every tariff
	FuelFactor  float64 // fuel price
}

var (
	Pessimistic = Scenario{Name: "pessimistic", DayFactor: 0.9, RateFactor: 0.9, PriceFactor: 0.9, FuelFactor: 1.1}
	Median      = Scenario{Name: "median", DayFactor: 1.0, RateFactor: 1.0, PriceFactor: 1.0, FuelFactor: 1.0}
	Optimistic  = Scenario{Name: "optimistic", DayFactor: 1.1, RateFactor: 1.1, PriceFactor: 1.1, FuelFactor: 0.9}
)

// Presets returns the named scenarios from least to most favourable.
func Presets() []Scenario {
	return []Scenario{Pessimistic, Median, Optimistic}
}

// PresetByName looks up a preset, case-insensitively.
func PresetByName(name string) (Scenario, bool) {
	for _, s := range Presets() {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Scenario{}, false
}

// Apply derives a new AssumptionSet; the base is left untouched.
func (s Scenario) Apply(a model.AssumptionSet) model.AssumptionSet {
	return ApplyScenario(a, s.DayFactor, s.RateFactor, s.PriceFactor, s.FuelFactor)
}

// ApplyScenario scales Brasero days by dayFactor, Chiffres days by rateFactor
// (never above 365), all tariffs by priceFactor and the fuel price by fuelFactor.
func ApplyScenario(a model.AssumptionSet, dayFactor, rateFactor, priceFactor, fuelFactor float64) model.AssumptionSet {
	out := a

	out.Brasero.AnnualRentalDays = a.Brasero.AnnualRentalDays * dayFactor
	out.Brasero.Tariffs = a.Brasero.Tariffs.Scale(priceFactor)

	days := math.Min(a.Chiffres.AnnualRentalDays*rateFactor, model.DaysPerYear)
	out.Chiffres.AnnualRentalDays = days
	out.Chiffres.OccupancyRate = days / model.DaysPerYear
	out.Chiffres.Tariffs = a.Chiffres.Tariffs.Scale(priceFactor)

	out.Operations.FuelPricePerLitre = a.Operations.FuelPricePerLitre * fuelFactor
	return out
}

// ScenarioResult is one column of a scenario comparison.
type ScenarioResult struct {
	Scenario    Scenario
	Assumptions model.AssumptionSet
	Indicators  Indicators
	CashFlow    CashFlowSchedule
}

// CompareScenarios projects each scenario over the same base and start month.
// With no scenarios given, the presets are used.
func (e *Engine) CompareScenarios(base model.AssumptionSet, scenarios []Scenario, start time.Time) []ScenarioResult {
	if len(scenarios) == 0 {
		scenarios = Presets()
	}
	out := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		a := s.Apply(base)
		ind, cf := e.Project(a, start)
		out = append(out, ScenarioResult{
			Scenario:    s,
			Assumptions: a,
			Indicators:  ind,
			CashFlow:    cf,
		})
	}
	return out
}
