package projection

import (
	"math"

	"brasero-forecast/internal/model"
)

// Engine computes projections. It holds no state; every call is independent.
type Engine struct{}

func New() *Engine { return &Engine{} }

// ComputeIndicators maps an AssumptionSet to its annual indicators.
// Ratios over a zero denominator are 0; only break-even days becomes NaN.
func (e *Engine) ComputeIndicators(a model.AssumptionSet) Indicators {
	br := lineIndicators(model.LineBrasero, a.Brasero)
	ch := lineIndicators(model.LineChiffres, a.Chiffres)

	ind := Indicators{
		Brasero:  br,
		Chiffres: ch,

		TotalRevenue:      br.Revenue + ch.Revenue,
		TotalAmortization: br.Amortization + ch.Amortization,
		TotalRentalDays:   a.TotalRentalDays(),

		ResultBeforeLevies: br.ResultBeforeLevies + ch.ResultBeforeLevies,
	}

	r := a.Levies
	ind.Levies = LevyBreakdown{
		SocialContribution: ind.TotalRevenue * r.SocialContribution,
		FlatTax:            ind.TotalRevenue * r.FlatTax,
		TrainingLevy:       ind.TotalRevenue * r.TrainingLevy,
	}
	ind.Levies.Total = ind.Levies.SocialContribution + ind.Levies.FlatTax + ind.Levies.TrainingLevy
	ind.NetAfterLevies = ind.TotalRevenue - ind.Levies.Total

	o := a.Operations
	ind.DeliveryTrips = br.DeliveryTrips + ch.DeliveryTrips
	ind.FuelLitres = o.AvgDistanceKm * ind.DeliveryTrips * (model.FuelLitresPer100Km / 100)
	ind.FuelCost = ind.FuelLitres * o.FuelPricePerLitre
	ind.AnnualMaintenance = o.MonthlyMaintenance() * 12
	ind.OperationalCosts = ind.FuelCost + ind.AnnualMaintenance
	ind.ResultAfterOperations = ind.NetAfterLevies - ind.OperationalCosts

	totalCost := a.TotalUnitCost()
	ind.ROITotalPct = pct(ind.TotalRevenue, totalCost)
	ind.NetMarginPct = pct(ind.NetAfterLevies, ind.TotalRevenue)
	ind.OperationalMarginPct = pct(ind.ResultAfterOperations, ind.TotalRevenue)
	ind.LevyRatioPct = pct(ind.Levies.Total, ind.TotalRevenue)
	ind.ThresholdRatioPct = pct(ind.TotalRevenue, r.Threshold)
	ind.ThresholdExceeded = r.Threshold > 0 && ind.TotalRevenue > r.Threshold

	if ind.TotalRentalDays != 0 {
		ind.RevenuePerDay = ind.TotalRevenue / ind.TotalRentalDays
	}
	if ind.RevenuePerDay != 0 {
		ind.BreakEvenDays = totalCost / ind.RevenuePerDay
	} else {
		ind.BreakEvenDays = math.NaN()
	}
	return ind
}

func lineIndicators(l model.Line, e model.EquipmentLine) LineIndicators {
	days := PackDays{
		Pack1: e.AnnualRentalDays * e.Mix.Pack1,
		Pack2: e.AnnualRentalDays * e.Mix.Pack2,
		Pack3: e.AnnualRentalDays * e.Mix.Pack3,
	}
	revenue := days.Pack1*e.Tariffs.Pack1 + days.Pack2*e.Tariffs.Pack2 + days.Pack3*e.Tariffs.Pack3
	amort := e.UnitCost / e.LifetimeYears

	return LineIndicators{
		Line:               l,
		PackDays:           days,
		Revenue:            revenue,
		Amortization:       amort,
		ResultBeforeLevies: revenue - amort,
		ROIPct:             pct(revenue, e.UnitCost),
		DeliveryTrips:      e.AnnualRentalDays * e.Mix.DeliveredShare(),
	}
}

// pct returns num/den*100, or 0 when den is 0.
func pct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
