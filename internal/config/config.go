package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load assumptions from a separate YAML (e.g. examples/presets/*.yaml).
	// Inline Assumptions override the file, which overrides the built-in defaults.
	AssumptionsFile string            `yaml:"assumptions_file"`
	Assumptions     AssumptionsConfig `yaml:"assumptions"`
	Cashflow        CashflowConfig    `yaml:"cashflow"`
	Wear            WearConfig        `yaml:"wear"`
}

// AssumptionsConfig mirrors model.AssumptionSet. Percent-typed fields are
// fractions (0.212 for 21.2%).
type AssumptionsConfig struct {
	Name       string           `yaml:"name" json:"name,omitempty"`
	Brasero    LineConfig       `yaml:"brasero" json:"brasero"`
	Chiffres   LineConfig       `yaml:"chiffres" json:"chiffres"`
	Levies     LevyConfig       `yaml:"levies" json:"levies"`
	Operations OperationsConfig `yaml:"operations" json:"operations"`
}

type LineConfig struct {
	UnitCost           float64       `yaml:"unit_cost" json:"unit_cost"`
	LifetimeYears      float64       `yaml:"lifetime_years" json:"lifetime_years"`
	AnnualRentalDays   float64       `yaml:"annual_rental_days" json:"annual_rental_days"`
	OccupancyRate      float64       `yaml:"occupancy_rate" json:"occupancy_rate"`
	Packs              PackMixConfig `yaml:"packs" json:"packs"`
	Tariffs            TripleConfig  `yaml:"tariffs" json:"tariffs"`
	MonthlyMaintenance float64       `yaml:"monthly_maintenance" json:"monthly_maintenance"`
}

// TripleConfig holds one value per pack.
type TripleConfig struct {
	Pack1 float64 `yaml:"pack1" json:"pack1"`
	Pack2 float64 `yaml:"pack2" json:"pack2"`
	Pack3 float64 `yaml:"pack3" json:"pack3"`
}

type LevyConfig struct {
	SocialContribution float64 `yaml:"social_contribution" json:"social_contribution"`
	FlatTax            float64 `yaml:"flat_tax" json:"flat_tax"`
	TrainingLevy       float64 `yaml:"training_levy" json:"training_levy"`
	Threshold          float64 `yaml:"threshold" json:"threshold"`
}

type OperationsConfig struct {
	AvgDistanceKm     float64 `yaml:"avg_distance_km" json:"avg_distance_km"`
	FuelPricePerLitre float64 `yaml:"fuel_price_per_litre" json:"fuel_price_per_litre"`
}

type CashflowConfig struct {
	// StartMonth is "YYYY-MM"; empty means the current month.
	StartMonth string `yaml:"start_month"`
}

type WearConfig struct {
	BraseroPurchased  string `yaml:"brasero_purchased"`  // YYYY-MM-DD
	ChiffresPurchased string `yaml:"chiffres_purchased"` // YYYY-MM-DD
}

// Load reads, merges and validates a config.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		AssumptionsFile string `yaml:"assumptions_file"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := Defaults()
	if head.AssumptionsFile != "" {
		file := head.AssumptionsFile
		if !filepath.IsAbs(file) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), file)
			if _, err := os.Stat(cand); err == nil {
				file = cand
			}
		}
		loaded, err := LoadAssumptionsFile(file, base)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	// Inline assumptions decode onto the base: absent keys keep it,
	// explicit values (zero included) replace it.
	c := Config{Assumptions: base}
	if err := overlayYAML(raw, &c, path); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Assumptions.ToModel(); err != nil {
		return fmt.Errorf("assumptions invalid: %w", err)
	}
	if _, err := c.StartMonth(); err != nil {
		return err
	}
	if _, err := c.PurchaseDates(); err != nil {
		return err
	}
	return nil
}

// StartMonth parses cashflow.start_month; zero time when unset.
func (c *Config) StartMonth() (time.Time, error) {
	return ParseMonth(c.Cashflow.StartMonth)
}

// PurchaseDates parses the wear section.
func (c *Config) PurchaseDates() (projection.PurchaseDates, error) {
	var p projection.PurchaseDates
	var err error
	if p.Brasero, err = parseDate("wear.brasero_purchased", c.Wear.BraseroPurchased); err != nil {
		return p, err
	}
	if p.Chiffres, err = parseDate("wear.chiffres_purchased", c.Wear.ChiffresPurchased); err != nil {
		return p, err
	}
	return p, nil
}

// ParseMonth parses "YYYY-MM" (or a full "YYYY-MM-DD"); empty yields zero time.
func ParseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.MonthStart(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date %q (want YYYY-MM-DD)", field, s)
	}
	return t, nil
}

// ToModel converts to a validated model.AssumptionSet. For Chiffres, rental
// days derive from the occupancy rate when 0; a non-zero value must agree
// with occupancy_rate x 365.
func (a AssumptionsConfig) ToModel() (model.AssumptionSet, error) {
	chiffres := a.Chiffres.toLine()
	if a.Chiffres.AnnualRentalDays == 0 {
		chiffres.AnnualRentalDays = model.DaysFromOccupancy(a.Chiffres.OccupancyRate)
	}
	return model.NewAssumptionSet(model.AssumptionSet{
		Brasero:  a.Brasero.toLine(),
		Chiffres: chiffres,
		Levies: model.LevyRates{
			SocialContribution: a.Levies.SocialContribution,
			FlatTax:            a.Levies.FlatTax,
			TrainingLevy:       a.Levies.TrainingLevy,
			Threshold:          a.Levies.Threshold,
		},
		Operations: model.OperationalCosts{
			AvgDistanceKm:              a.Operations.AvgDistanceKm,
			FuelPricePerLitre:          a.Operations.FuelPricePerLitre,
			BraseroMonthlyMaintenance:  a.Brasero.MonthlyMaintenance,
			ChiffresMonthlyMaintenance: a.Chiffres.MonthlyMaintenance,
		},
	})
}

func (l LineConfig) toLine() model.EquipmentLine {
	return model.EquipmentLine{
		UnitCost:         l.UnitCost,
		LifetimeYears:    l.LifetimeYears,
		AnnualRentalDays: l.AnnualRentalDays,
		OccupancyRate:    l.OccupancyRate,
		Mix:              model.PackMix{Pack1: l.Packs.Pack1, Pack2: l.Packs.Pack2, Pack3: l.Packs.Pack3},
		Tariffs:          model.Tariffs{Pack1: l.Tariffs.Pack1, Pack2: l.Tariffs.Pack2, Pack3: l.Tariffs.Pack3},
	}
}

// FromModel converts an AssumptionSet back to its config shape.
func FromModel(a model.AssumptionSet) AssumptionsConfig {
	line := func(e model.EquipmentLine, maint float64) LineConfig {
		return LineConfig{
			UnitCost:           e.UnitCost,
			LifetimeYears:      e.LifetimeYears,
			AnnualRentalDays:   e.AnnualRentalDays,
			OccupancyRate:      e.OccupancyRate,
			Packs:              PackMixConfig{Pack1: e.Mix.Pack1, Pack2: e.Mix.Pack2, Pack3: e.Mix.Pack3},
			Tariffs:            TripleConfig{Pack1: e.Tariffs.Pack1, Pack2: e.Tariffs.Pack2, Pack3: e.Tariffs.Pack3},
			MonthlyMaintenance: maint,
		}
	}
	return AssumptionsConfig{
		Brasero:  line(a.Brasero, a.Operations.BraseroMonthlyMaintenance),
		Chiffres: line(a.Chiffres, a.Operations.ChiffresMonthlyMaintenance),
		Levies: LevyConfig{
			SocialContribution: a.Levies.SocialContribution,
			FlatTax:            a.Levies.FlatTax,
			TrainingLevy:       a.Levies.TrainingLevy,
			Threshold:          a.Levies.Threshold,
		},
		Operations: OperationsConfig{
			AvgDistanceKm:     a.Operations.AvgDistanceKm,
			FuelPricePerLitre: a.Operations.FuelPricePerLitre,
		},
	}
}

// Defaults returns the built-in assumptions in config shape. Chiffres days
// are left at 0 so they derive from whatever occupancy rate ends up applied.
func Defaults() AssumptionsConfig {
	a := FromModel(model.DefaultAssumptions())
	a.Chiffres.AnnualRentalDays = 0
	return a
}

type assumptionsFileWrapper struct {
	Assumptions AssumptionsConfig `yaml:"assumptions"`
}

// LoadAssumptionsFile reads a preset file with a top-level `assumptions:` key
// and decodes it onto base.
func LoadAssumptionsFile(path string, base AssumptionsConfig) (AssumptionsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AssumptionsConfig{}, err
	}
	w := assumptionsFileWrapper{Assumptions: base}
	if err := overlayYAML(raw, &w, path); err != nil {
		return AssumptionsConfig{}, err
	}
	return w.Assumptions, nil
}
