package model

// DefaultAssumptions returns the dashboard's starting assumptions.
func DefaultAssumptions() AssumptionSet {
	return AssumptionSet{
		Brasero: EquipmentLine{
			UnitCost:         1500,
			LifetimeYears:    5,
			AnnualRentalDays: 100,
			Mix:              PackMix{Pack1: 0.4, Pack2: 0.4, Pack3: 0.2},
			Tariffs:          Tariffs{Pack1: 150, Pack2: 300, Pack3: 400},
		},
		Chiffres: NewOccupancyLine(1075, 5, 0.5,
			PackMix{Pack1: 0.6, Pack2: 0.3, Pack3: 0.1},
			Tariffs{Pack1: 50, Pack2: 100, Pack3: 140},
		),
		Levies: LevyRates{
			SocialContribution: 0.212,
			FlatTax:            0.017,
			TrainingLevy:       0.003,
			Threshold:          77700,
		},
		Operations: OperationalCosts{
			AvgDistanceKm:              30,
			FuelPricePerLitre:          1.85,
			BraseroMonthlyMaintenance:  20,
			ChiffresMonthlyMaintenance: 15,
		},
	}
}
