package analysis

import (
	"math"

	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"
)

// Driver names an assumption the sensitivity analysis perturbs.
// Keep these values stable; they are returned by the API.
type Driver string

const (
	DriverBraseroDays     Driver = "brasero_days"
	DriverChiffresDays    Driver = "chiffres_days"
	DriverBraseroTariffs  Driver = "brasero_tariffs"
	DriverChiffresTariffs Driver = "chiffres_tariffs"
	DriverFuelPrice       Driver = "fuel_price"
	DriverAvgDistance     Driver = "avg_distance"
	DriverMaintenance     Driver = "maintenance"
	DriverSocialRate      Driver = "social_rate"
)

// DefaultStep is the relative perturbation applied in each direction.
const DefaultStep = 0.10

// Impact is the effect of moving one driver down and up by the step
// on the result after operations.
type Impact struct {
	Driver Driver
	Base   float64
	Down   float64
	Up     float64
	// Swing is |Up - Down|.
	Swing float64
}

type perturbation func(a model.AssumptionSet, f float64) model.AssumptionSet

var drivers = []struct {
	name  Driver
	apply perturbation
}{
	{DriverBraseroDays, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		return projection.ApplyScenario(a, f, 1, 1, 1)
	}},
	{DriverChiffresDays, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		return projection.ApplyScenario(a, 1, f, 1, 1)
	}},
	{DriverBraseroTariffs, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		a.Brasero.Tariffs = a.Brasero.Tariffs.Scale(f)
		return a
	}},
	{DriverChiffresTariffs, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		a.Chiffres.Tariffs = a.Chiffres.Tariffs.Scale(f)
		return a
	}},
	{DriverFuelPrice, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		return projection.ApplyScenario(a, 1, 1, 1, f)
	}},
	{DriverAvgDistance, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		a.Operations.AvgDistanceKm *= f
		return a
	}},
	{DriverMaintenance, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		a.Operations.BraseroMonthlyMaintenance *= f
		a.Operations.ChiffresMonthlyMaintenance *= f
		return a
	}},
	{DriverSocialRate, func(a model.AssumptionSet, f float64) model.AssumptionSet {
		a.Levies.SocialContribution = math.Min(a.Levies.SocialContribution*f, 1)
		return a
	}},
}

// Drivers lists every driver in evaluation order.
func Drivers() []Driver {
	out := make([]Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, d.name)
	}
	return out
}

// Sensitivity measures each driver's impact on the result after operations.
// A non-positive step falls back to DefaultStep.
func Sensitivity(e *projection.Engine, a model.AssumptionSet, step float64) []Impact {
	if step <= 0 {
		step = DefaultStep
	}
	base := e.ComputeIndicators(a).ResultAfterOperations

	out := make([]Impact, 0, len(drivers))
	for _, d := range drivers {
		down := e.ComputeIndicators(d.apply(a, 1-step)).ResultAfterOperations
		up := e.ComputeIndicators(d.apply(a, 1+step)).ResultAfterOperations
		out = append(out, Impact{
			Driver: d.name,
			Base:   base,
			Down:   down,
			Up:     up,
			Swing:  math.Abs(up - down),
		})
	}
	return out
}
