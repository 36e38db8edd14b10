package model

import "math"

// DaysPerYear is the calendar-year ceiling used for occupancy-derived rental days.
const DaysPerYear = 365.0

// MaxLifetimeYears bounds the amortization period.
const MaxLifetimeYears = 100.0

// FuelLitresPer100Km is the fixed consumption of the delivery vehicle.
const FuelLitresPer100Km = 8.0

// PackMix splits a line's rental days across the three service packs.
// Fractions are 0..1 and are expected to sum to 1.
type PackMix struct {
	Pack1 float64
	Pack2 float64
	Pack3 float64
}

func (m PackMix) Sum() float64 { return m.Pack1 + m.Pack2 + m.Pack3 }

// DeliveredShare is the fraction of rentals that imply a delivery trip (packs 2 and 3).
func (m PackMix) DeliveredShare() float64 { return m.Pack2 + m.Pack3 }

// Tariffs are daily prices (currency/day), one per pack.
type Tariffs struct {
	Pack1 float64
	Pack2 float64
	Pack3 float64
}

// Scale returns the tariffs multiplied by f.
func (t Tariffs) Scale(f float64) Tariffs {
	return Tariffs{Pack1: t.Pack1 * f, Pack2: t.Pack2 * f, Pack3: t.Pack3 * f}
}

// EquipmentLine defines the economics of one rental line.
// Units:
// - UnitCost: currency
// - LifetimeYears: years of straight-line amortization
// - AnnualRentalDays: rented days per year
// - OccupancyRate: fraction 0..1 of the calendar year (Chiffres only, 0 otherwise)
type EquipmentLine struct {
	UnitCost         float64
	LifetimeYears    float64
	AnnualRentalDays float64
	OccupancyRate    float64
	Mix              PackMix
	Tariffs          Tariffs
}

// DaysFromOccupancy converts an occupancy rate into annual rental days.
func DaysFromOccupancy(rate float64) float64 {
	return rate * DaysPerYear
}

// NewOccupancyLine builds a line whose rental days derive from an occupancy rate.
func NewOccupancyLine(unitCost, lifetimeYears, occupancy float64, mix PackMix, tariffs Tariffs) EquipmentLine {
	return EquipmentLine{
		UnitCost:         unitCost,
		LifetimeYears:    lifetimeYears,
		AnnualRentalDays: DaysFromOccupancy(occupancy),
		OccupancyRate:    occupancy,
		Mix:              mix,
		Tariffs:          tariffs,
	}
}

// LevyRates are mandatory percentage-of-revenue charges (fractions 0..1)
// plus the micro-enterprise revenue threshold (currency).
type LevyRates struct {
	SocialContribution float64
	FlatTax            float64
	TrainingLevy       float64
	Threshold          float64
}

func (r LevyRates) TotalRate() float64 {
	return r.SocialContribution + r.FlatTax + r.TrainingLevy
}

// OperationalCosts covers delivery fuel and monthly maintenance per line.
type OperationalCosts struct {
	AvgDistanceKm              float64
	FuelPricePerLitre          float64
	BraseroMonthlyMaintenance  float64
	ChiffresMonthlyMaintenance float64
}

// MonthlyMaintenance is the combined monthly maintenance of both lines.
func (o OperationalCosts) MonthlyMaintenance() float64 {
	return o.BraseroMonthlyMaintenance + o.ChiffresMonthlyMaintenance
}

// AssumptionSet is the immutable snapshot of business assumptions the
// projection engine consumes. Build one per computation.
type AssumptionSet struct {
	Brasero    EquipmentLine
	Chiffres   EquipmentLine
	Levies     LevyRates
	Operations OperationalCosts
}

// NewAssumptionSet validates a and returns it. Invalid ranges yield an
// *InvalidAssumptionError.
func NewAssumptionSet(a AssumptionSet) (AssumptionSet, error) {
	if err := a.Validate(); err != nil {
		return AssumptionSet{}, err
	}
	return a, nil
}

// Line returns the equipment line identified by l.
func (a AssumptionSet) Line(l Line) EquipmentLine {
	if l == LineChiffres {
		return a.Chiffres
	}
	return a.Brasero
}

// MonthlyMaintenance returns the monthly maintenance input of line l.
func (a AssumptionSet) MonthlyMaintenance(l Line) float64 {
	if l == LineChiffres {
		return a.Operations.ChiffresMonthlyMaintenance
	}
	return a.Operations.BraseroMonthlyMaintenance
}

func (a AssumptionSet) TotalUnitCost() float64 {
	return a.Brasero.UnitCost + a.Chiffres.UnitCost
}

func (a AssumptionSet) TotalRentalDays() float64 {
	return a.Brasero.AnnualRentalDays + a.Chiffres.AnnualRentalDays
}

const mixTolerance = 1e-6

// daysTolerance absorbs float error between Chiffres days and occupancy.
const daysTolerance = 1e-6

func (a AssumptionSet) Validate() error {
	for _, l := range Lines() {
		if err := validateLine(l, a.Line(l)); err != nil {
			return err
		}
		if a.MonthlyMaintenance(l) < 0 {
			return invalid(string(l)+".monthly_maintenance", "must be >= 0")
		}
	}
	if a.Chiffres.AnnualRentalDays > DaysPerYear {
		return invalid("chiffres.annual_rental_days", "must be <= 365")
	}
	if math.Abs(a.Chiffres.AnnualRentalDays-DaysFromOccupancy(a.Chiffres.OccupancyRate)) > daysTolerance {
		return invalid("chiffres.annual_rental_days", "must equal occupancy_rate x 365")
	}

	r := a.Levies
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"levies.social_contribution", r.SocialContribution},
		{"levies.flat_tax", r.FlatTax},
		{"levies.training_levy", r.TrainingLevy},
	} {
		if !inUnit(f.v) {
			return invalid(f.name, "must be in [0, 1]")
		}
	}
	if r.Threshold <= 0 {
		return invalid("levies.threshold", "must be > 0")
	}

	o := a.Operations
	if o.AvgDistanceKm < 0 || math.IsNaN(o.AvgDistanceKm) {
		return invalid("operations.avg_distance_km", "must be >= 0")
	}
	if o.FuelPricePerLitre <= 0 {
		return invalid("operations.fuel_price_per_litre", "must be > 0")
	}
	return nil
}

func validateLine(l Line, e EquipmentLine) error {
	prefix := string(l) + "."
	if e.UnitCost < 0 || math.IsNaN(e.UnitCost) {
		return invalid(prefix+"unit_cost", "must be >= 0")
	}
	if !(e.LifetimeYears > 0) || e.LifetimeYears > MaxLifetimeYears {
		return invalid(prefix+"lifetime_years", "must be > 0 and <= 100")
	}
	if e.AnnualRentalDays < 0 || math.IsNaN(e.AnnualRentalDays) {
		return invalid(prefix+"annual_rental_days", "must be >= 0")
	}
	if !inUnit(e.OccupancyRate) {
		return invalid(prefix+"occupancy_rate", "must be in [0, 1]")
	}
	for i, f := range []float64{e.Mix.Pack1, e.Mix.Pack2, e.Mix.Pack3} {
		if !inUnit(f) {
			return invalid(prefix+packField("packs", i), "must be in [0, 1]")
		}
	}
	if math.Abs(e.Mix.Sum()-1) > mixTolerance {
		return invalid(prefix+"packs", "fractions must sum to 1")
	}
	for i, t := range []float64{e.Tariffs.Pack1, e.Tariffs.Pack2, e.Tariffs.Pack3} {
		if t < 0 || math.IsNaN(t) {
			return invalid(prefix+packField("tariffs", i), "must be >= 0")
		}
	}
	return nil
}

func packField(group string, i int) string {
	return group + "." + string(Packs()[i])
}

func inUnit(x float64) bool {
	return x >= 0 && x <= 1
}
