package projection

import (
	"math"
	"time"

	"brasero-forecast/internal/model"
)

const hoursPerYear = 365.25 * 24

// maxReplacementYears keeps replacement dates inside time.Time's range for
// assumption sets that skipped validation.
const maxReplacementYears = 10000

// WearStatus tracks how far a line has progressed through its useful life.
type WearStatus struct {
	Line model.Line

	PurchasedAt     time.Time
	AsOf            time.Time
	ReplacementDate time.Time

	ElapsedYears         float64
	CumulativeRentalDays float64

	// WearRatio is ElapsedYears / LifetimeYears, clamped to [0, 1].
	WearRatio        float64
	BookValue        float64
	FullyDepreciated bool
}

// PurchaseDates records when each line was bought.
type PurchaseDates struct {
	Brasero  time.Time
	Chiffres time.Time
}

func (p PurchaseDates) For(l model.Line) time.Time {
	if l == model.LineChiffres {
		return p.Chiffres
	}
	return p.Brasero
}

// ComputeWear evaluates each line's wear at asOf. Lines with a zero purchase
// date are treated as bought at asOf.
func (e *Engine) ComputeWear(a model.AssumptionSet, purchased PurchaseDates, asOf time.Time) []WearStatus {
	out := make([]WearStatus, 0, len(model.Lines()))
	for _, l := range model.Lines() {
		out = append(out, lineWear(l, a.Line(l), purchased.For(l), asOf))
	}
	return out
}

func lineWear(l model.Line, eq model.EquipmentLine, purchased, asOf time.Time) WearStatus {
	if purchased.IsZero() {
		purchased = asOf
	}
	elapsed := asOf.Sub(purchased).Hours() / hoursPerYear
	if elapsed < 0 {
		elapsed = 0
	}

	ratio := 0.0
	if eq.LifetimeYears > 0 {
		ratio = elapsed / eq.LifetimeYears
	}
	if ratio > 1 {
		ratio = 1
	}

	amort := 0.0
	if eq.LifetimeYears > 0 {
		amort = eq.UnitCost / eq.LifetimeYears
	}
	book := eq.UnitCost - amort*elapsed
	if book < 0 {
		book = 0
	}

	return WearStatus{
		Line:                 l,
		PurchasedAt:          purchased,
		AsOf:                 asOf,
		ReplacementDate:      addYears(purchased, eq.LifetimeYears),
		ElapsedYears:         elapsed,
		CumulativeRentalDays: eq.AnnualRentalDays * elapsed,
		WearRatio:            ratio,
		BookValue:            book,
		FullyDepreciated:     ratio >= 1,
	}
}

// addYears adds whole calendar years, then the fractional remainder as a
// duration, so long lifetimes never overflow time.Duration.
func addYears(t time.Time, years float64) time.Time {
	if years <= 0 || math.IsNaN(years) {
		return t
	}
	years = math.Min(years, maxReplacementYears)
	whole := math.Floor(years)
	frac := years - whole
	return t.AddDate(int(whole), 0, 0).Add(time.Duration(frac * hoursPerYear * float64(time.Hour)))
}
