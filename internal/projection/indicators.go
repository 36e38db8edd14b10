package projection

import (
	"math"

	"brasero-forecast/internal/model"
)

// PackDays is a line's annual rental days split by pack.
type PackDays struct {
	Pack1 float64
	Pack2 float64
	Pack3 float64
}

func (d PackDays) Total() float64 { return d.Pack1 + d.Pack2 + d.Pack3 }

// LineIndicators are the per-line figures of a projection.
type LineIndicators struct {
	Line model.Line

	PackDays PackDays

	Revenue      float64
	Amortization float64

	// ResultBeforeLevies is Revenue - Amortization.
	ResultBeforeLevies float64

	// ROIPct is Revenue / UnitCost * 100, 0 when UnitCost is 0.
	ROIPct float64

	DeliveryTrips float64
}

// LevyBreakdown holds the mandatory charges computed on total revenue.
type LevyBreakdown struct {
	SocialContribution float64
	FlatTax            float64
	TrainingLevy       float64
	Total              float64
}

// Indicators is the full set of annual figures derived from an AssumptionSet.
//
// Two profit views coexist and are intentionally not reconciled:
// ResultBeforeLevies subtracts amortization, NetAfterLevies subtracts only
// the levies from revenue.
type Indicators struct {
	Brasero  LineIndicators
	Chiffres LineIndicators

	TotalRevenue      float64
	TotalAmortization float64
	TotalRentalDays   float64

	ResultBeforeLevies float64

	Levies         LevyBreakdown
	NetAfterLevies float64

	DeliveryTrips     float64
	FuelLitres        float64
	FuelCost          float64
	AnnualMaintenance float64
	OperationalCosts  float64

	ResultAfterOperations float64

	ROITotalPct          float64
	NetMarginPct         float64
	OperationalMarginPct float64
	LevyRatioPct         float64
	ThresholdRatioPct    float64
	ThresholdExceeded    bool

	RevenuePerDay float64

	// BreakEvenDays is NaN when RevenuePerDay is 0; see BreakEvenDefined.
	BreakEvenDays float64
}

// Line returns the per-line indicators of l.
func (i Indicators) Line(l model.Line) LineIndicators {
	if l == model.LineChiffres {
		return i.Chiffres
	}
	return i.Brasero
}

// BreakEvenDefined reports whether BreakEvenDays holds a number.
func (i Indicators) BreakEvenDefined() bool {
	return !math.IsNaN(i.BreakEvenDays)
}

// MonthlyRevenue is the flat monthly projection used against actuals.
func (i Indicators) MonthlyRevenue() float64 {
	return i.TotalRevenue / 12
}
