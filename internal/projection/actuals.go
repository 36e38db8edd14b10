package projection

import (
	"time"

	"brasero-forecast/internal/model"
)

// ActualComparison sets one month of observed revenue against the forecast.
type ActualComparison struct {
	Month    time.Time
	Label    string
	Actual   float64
	Forecast float64
	Variance float64
	// VariancePct is Variance / Forecast * 100, 0 when Forecast is 0.
	VariancePct float64
}

// CompareActuals matches actual monthly revenue against the schedule's
// monthly revenue. Only months present in both are returned, in schedule order.
func CompareActuals(s CashFlowSchedule, actuals []model.MonthlyRevenue) []ActualComparison {
	byMonth := make(map[time.Time]float64, len(actuals))
	for _, a := range actuals {
		byMonth[model.MonthStart(a.Month)] += a.Revenue
	}

	out := make([]ActualComparison, 0, len(s.Months))
	for _, m := range s.Months {
		actual, ok := byMonth[model.MonthStart(m.Month)]
		if !ok {
			continue
		}
		variance := actual - m.Revenue
		out = append(out, ActualComparison{
			Month:       m.Month,
			Label:       m.Label,
			Actual:      actual,
			Forecast:    m.Revenue,
			Variance:    variance,
			VariancePct: pct(variance, m.Revenue),
		})
	}
	return out
}

// ActualTotals sums a comparison.
func ActualTotals(rows []ActualComparison) (actual, forecast float64) {
	for _, r := range rows {
		actual += r.Actual
		forecast += r.Forecast
	}
	return actual, forecast
}
