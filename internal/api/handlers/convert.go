package handlers

import (
	"brasero-forecast/internal/analysis"
	"brasero-forecast/internal/api/models"
	"brasero-forecast/internal/projection"
)

func toIndicators(ind projection.Indicators) models.Indicators {
	out := models.Indicators{
		Brasero:            toLineIndicators(ind.Brasero),
		Chiffres:           toLineIndicators(ind.Chiffres),
		TotalRevenue:       ind.TotalRevenue,
		TotalAmortization:  ind.TotalAmortization,
		TotalRentalDays:    ind.TotalRentalDays,
		ResultBeforeLevies: ind.ResultBeforeLevies,
		Levies: models.Levies{
			SocialContribution: ind.Levies.SocialContribution,
			FlatTax:            ind.Levies.FlatTax,
			TrainingLevy:       ind.Levies.TrainingLevy,
			Total:              ind.Levies.Total,
		},
		NetAfterLevies:        ind.NetAfterLevies,
		DeliveryTrips:         ind.DeliveryTrips,
		FuelLitres:            ind.FuelLitres,
		FuelCost:              ind.FuelCost,
		AnnualMaintenance:     ind.AnnualMaintenance,
		OperationalCosts:      ind.OperationalCosts,
		ResultAfterOperations: ind.ResultAfterOperations,
		ROITotalPct:           ind.ROITotalPct,
		NetMarginPct:          ind.NetMarginPct,
		OperationalMarginPct:  ind.OperationalMarginPct,
		LevyRatioPct:          ind.LevyRatioPct,
		ThresholdRatioPct:     ind.ThresholdRatioPct,
		ThresholdExceeded:     ind.ThresholdExceeded,
		RevenuePerDay:         ind.RevenuePerDay,
	}
	// JSON has no NaN; an undefined break-even is sent as null.
	if ind.BreakEvenDefined() {
		v := ind.BreakEvenDays
		out.BreakEvenDays = &v
	}
	return out
}

func toLineIndicators(li projection.LineIndicators) models.LineIndicators {
	return models.LineIndicators{
		Line: string(li.Line),
		PackDays: models.PackDays{
			Pack1: li.PackDays.Pack1,
			Pack2: li.PackDays.Pack2,
			Pack3: li.PackDays.Pack3,
		},
		Revenue:            li.Revenue,
		Amortization:       li.Amortization,
		ResultBeforeLevies: li.ResultBeforeLevies,
		ROIPct:             li.ROIPct,
		DeliveryTrips:      li.DeliveryTrips,
	}
}

func toCashFlow(s projection.CashFlowSchedule) []models.MonthlyFlow {
	out := make([]models.MonthlyFlow, len(s.Months))
	for i, m := range s.Months {
		out[i] = models.MonthlyFlow{
			Position:     m.Position,
			Month:        m.Month,
			Label:        m.Label,
			Revenue:      m.Revenue,
			Depreciation: m.Depreciation,
			Maintenance:  m.Maintenance,
			LevyCharge:   m.LevyCharge,
			Net:          m.Net,
			Cumulative:   m.Cumulative,
		}
	}
	return out
}

func toScenarioFactors(s projection.Scenario) models.ScenarioFactors {
	return models.ScenarioFactors{
		Name:        s.Name,
		DayFactor:   s.DayFactor,
		RateFactor:  s.RateFactor,
		PriceFactor: s.PriceFactor,
		FuelFactor:  s.FuelFactor,
	}
}

func fromScenarioFactors(f models.ScenarioFactors) projection.Scenario {
	return projection.Scenario{
		Name:        f.Name,
		DayFactor:   f.DayFactor,
		RateFactor:  f.RateFactor,
		PriceFactor: f.PriceFactor,
		FuelFactor:  f.FuelFactor,
	}
}

func toScenarioResults(results []projection.ScenarioResult) []models.ScenarioResult {
	out := make([]models.ScenarioResult, len(results))
	for i, r := range results {
		out[i] = models.ScenarioResult{
			Scenario:     toScenarioFactors(r.Scenario),
			Indicators:   toIndicators(r.Indicators),
			FinalBalance: r.CashFlow.FinalBalance(),
		}
	}
	return out
}

func toDriverImpacts(ranked []analysis.RankedImpact) []models.DriverImpact {
	out := make([]models.DriverImpact, len(ranked))
	for i, r := range ranked {
		out[i] = models.DriverImpact{
			Rank:   r.Rank,
			Driver: string(r.Driver),
			Base:   r.Base,
			Down:   r.Down,
			Up:     r.Up,
			Swing:  r.Swing,
		}
	}
	return out
}

func toWear(wear []projection.WearStatus) []models.WearStatus {
	out := make([]models.WearStatus, len(wear))
	for i, w := range wear {
		out[i] = models.WearStatus{
			Line:                 string(w.Line),
			PurchasedAt:          w.PurchasedAt,
			ReplacementDate:      w.ReplacementDate,
			ElapsedYears:         w.ElapsedYears,
			CumulativeRentalDays: w.CumulativeRentalDays,
			WearRatio:            w.WearRatio,
			BookValue:            w.BookValue,
			FullyDepreciated:     w.FullyDepreciated,
		}
	}
	return out
}

func toActualComparison(rows []projection.ActualComparison) []models.ActualComparison {
	out := make([]models.ActualComparison, len(rows))
	for i, r := range rows {
		out[i] = models.ActualComparison{
			Month:       r.Month,
			Label:       r.Label,
			Actual:      r.Actual,
			Forecast:    r.Forecast,
			Variance:    r.Variance,
			VariancePct: r.VariancePct,
		}
	}
	return out
}
