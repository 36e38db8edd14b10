package main

import (
	"flag"
	"fmt"

	"brasero-forecast/internal/config"
	"brasero-forecast/internal/data"
	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"
)

// Demo:
// - Start from the built-in default assumptions (or a YAML config)
// - Project one year and print the first months of the schedule
// - Optionally save the assumptions as JSON for reuse with `cli --json`
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	start := flag.String("start", "2026-01", "First schedule month (YYYY-MM)")
	n := flag.Int("n", 6, "Number of schedule months to print")
	saveJSON := flag.String("save-json", "", "Optional path to write the assumptions as JSON (e.g. results/assumptions.json)")
	flag.Parse()

	assumptions := config.Defaults()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		assumptions = cfg.Assumptions
	}

	set, err := assumptions.ToModel()
	if err != nil {
		panic(err)
	}
	startMonth, err := config.ParseMonth(*start)
	if err != nil {
		panic(err)
	}

	engine := projection.New()
	ind, cf := engine.Project(set, startMonth)

	for _, l := range model.Lines() {
		li := ind.Line(l)
		fmt.Printf("%-18s days=%6.1f  revenue=%9.2f  amortization=%8.2f  roi=%6.1f%%\n",
			l.Label(), li.PackDays.Total(), li.Revenue, li.Amortization, li.ROIPct)
	}
	fmt.Printf("Total revenue=%.2f  levies=%.2f  after operations=%.2f\n\n",
		ind.TotalRevenue, ind.Levies.Total, ind.ResultAfterOperations)

	for i := 0; i < min(*n, len(cf.Months)); i++ {
		m := cf.Months[i]
		fmt.Printf("%s revenue=%8.2f  depreciation=%7.2f  maintenance=%6.2f  levy=%8.2f  net=%9.2f  cum=%10.2f\n",
			m.Label, m.Revenue, m.Depreciation, m.Maintenance, m.LevyCharge, m.Net, m.Cumulative)
	}

	if *saveJSON != "" {
		if err := data.SaveAssumptionsJSON(assumptions, *saveJSON); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote assumptions JSON: %s\n", *saveJSON)
	}

	fmt.Printf("\nDone. Balance after %d months=%.2f\n", len(cf.Months), cf.FinalBalance())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
