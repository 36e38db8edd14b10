package projection

import (
	"time"

	"brasero-forecast/internal/model"
)

// ScheduleMonths is the length of every cash-flow schedule.
const ScheduleMonths = 12

// LevyQuarterInterval places the quarterly levy payment on every third
// position of the schedule.
const LevyQuarterInterval = 3

// MonthLabelLayout formats MonthlyFlow.Label.
const MonthLabelLayout = "2006-01"

// MonthlyFlow is one row of the cash-flow schedule.
type MonthlyFlow struct {
	// Position is 1-based within the schedule.
	Position int
	Month    time.Time
	Label    string

	Revenue      float64
	Depreciation float64
	Maintenance  float64
	LevyCharge   float64

	Net        float64
	Cumulative float64
}

// CashFlowSchedule is a 12-month projection starting at StartMonth.
type CashFlowSchedule struct {
	StartMonth time.Time
	Months     []MonthlyFlow
}

// FinalBalance is the cumulative amount at the end of the schedule.
func (s CashFlowSchedule) FinalBalance() float64 {
	if len(s.Months) == 0 {
		return 0
	}
	return s.Months[len(s.Months)-1].Cumulative
}

// CurrentMonth returns the first day of now's month.
func CurrentMonth(now time.Time) time.Time {
	return model.MonthStart(now)
}

// ComputeCashFlow builds the monthly schedule from start (normalized to the
// first of its month). A zero start means the current month.
func (e *Engine) ComputeCashFlow(a model.AssumptionSet, ind Indicators, start time.Time) CashFlowSchedule {
	if start.IsZero() {
		start = CurrentMonth(time.Now())
	}
	start = model.MonthStart(start)

	revenue := ind.TotalRevenue / 12
	depreciation := ind.TotalAmortization / 12
	maintenance := a.Operations.MonthlyMaintenance()
	quarterly := ind.Levies.Total / 4

	months := make([]MonthlyFlow, 0, ScheduleMonths)
	cum := 0.0
	for i := 0; i < ScheduleMonths; i++ {
		month := start.AddDate(0, i, 0)
		pos := i + 1

		levy := 0.0
		if pos%LevyQuarterInterval == 0 {
			levy = quarterly
		}
		net := revenue - (depreciation + maintenance + levy)
		cum += net

		months = append(months, MonthlyFlow{
			Position:     pos,
			Month:        month,
			Label:        month.Format(MonthLabelLayout),
			Revenue:      revenue,
			Depreciation: depreciation,
			Maintenance:  maintenance,
			LevyCharge:   levy,
			Net:          net,
			Cumulative:   cum,
		})
	}

	return CashFlowSchedule{StartMonth: start, Months: months}
}

// Project runs ComputeIndicators then ComputeCashFlow.
func (e *Engine) Project(a model.AssumptionSet, start time.Time) (Indicators, CashFlowSchedule) {
	ind := e.ComputeIndicators(a)
	return ind, e.ComputeCashFlow(a, ind, start)
}
