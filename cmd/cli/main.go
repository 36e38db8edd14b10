package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"brasero-forecast/internal/analysis"
	"brasero-forecast/internal/config"
	"brasero-forecast/internal/data"
	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"
	"brasero-forecast/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "project":
		cmdProject(os.Args[2:])
	case "scenarios":
		cmdScenarios(os.Args[2:])
	case "sensitivity":
		cmdSensitivity(os.Args[2:])
	case "actuals":
		cmdActuals(os.Args[2:])
	case "report":
		cmdReport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli project --config examples/config.yaml [--start 2026-01] [--out results/cashflow.csv]")
	fmt.Println("  cli scenarios --config examples/config.yaml")
	fmt.Println("  cli sensitivity --config examples/config.yaml [--step 0.1]")
	fmt.Println("  cli actuals --config examples/config.yaml --file revenue.csv")
	fmt.Println("  cli report --config examples/config.yaml --out results/forecast.pdf")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --config the built-in default assumptions are used")
	fmt.Println("  - --json loads assumptions saved as JSON instead of the config's assumptions")
}

// setup holds what every subcommand needs.
type setup struct {
	cfg    *config.Config
	set    model.AssumptionSet
	start  time.Time
	engine *projection.Engine
}

func commonFlags(fs *flag.FlagSet) (cfgPath, jsonPath, start *string) {
	cfgPath = fs.String("config", "", "Path to YAML config")
	jsonPath = fs.String("json", "", "Optional: assumptions JSON file (overrides config assumptions)")
	start = fs.String("start", "", "Optional: first schedule month YYYY-MM (default: config or current month)")
	return
}

func load(cfgPath, jsonPath, start string) setup {
	cfg := &config.Config{Assumptions: config.Defaults()}
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fail(err)
		}
	}
	if jsonPath != "" {
		a, err := data.LoadAssumptionsJSON(jsonPath, config.Defaults())
		if err != nil {
			fail(err)
		}
		cfg.Assumptions = a
	}
	if start != "" {
		cfg.Cashflow.StartMonth = start
	}

	set, err := cfg.Assumptions.ToModel()
	if err != nil {
		fail(err)
	}
	startMonth, err := cfg.StartMonth()
	if err != nil {
		fail(err)
	}
	if startMonth.IsZero() {
		startMonth = projection.CurrentMonth(time.Now())
	}
	return setup{cfg: cfg, set: set, start: startMonth, engine: projection.New()}
}

func cmdProject(args []string) {
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	cfgPath, jsonPath, start := commonFlags(fs)
	outPath := fs.String("out", "", "Optional: write the cash-flow schedule as CSV")
	_ = fs.Parse(args)

	s := load(*cfgPath, *jsonPath, *start)
	ind, cf := s.engine.Project(s.set, s.start)

	printIndicators(ind)
	fmt.Println("")
	printCashFlow(cf)

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fail(err)
		}
		if err := projection.WriteCashFlowCSV(*outPath, cf); err != nil {
			fail(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(cf.Months), *outPath)
	}
}

func cmdScenarios(args []string) {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	cfgPath, jsonPath, start := commonFlags(fs)
	_ = fs.Parse(args)

	s := load(*cfgPath, *jsonPath, *start)
	results := s.engine.CompareScenarios(s.set, nil, s.start)

	fmt.Printf("%-12s %-12s %-12s %-12s %-12s %-10s\n", "scenario", "revenue", "levies", "after_ops", "balance_12m", "margin%")
	for _, r := range results {
		fmt.Printf("%-12s %-12.2f %-12.2f %-12.2f %-12.2f %-10.1f\n",
			r.Scenario.Name,
			r.Indicators.TotalRevenue,
			r.Indicators.Levies.Total,
			r.Indicators.ResultAfterOperations,
			r.CashFlow.FinalBalance(),
			r.Indicators.OperationalMarginPct,
		)
	}
}

func cmdSensitivity(args []string) {
	fs := flag.NewFlagSet("sensitivity", flag.ExitOnError)
	cfgPath, jsonPath, start := commonFlags(fs)
	step := fs.Float64("step", analysis.DefaultStep, "Relative perturbation applied in each direction")
	_ = fs.Parse(args)

	s := load(*cfgPath, *jsonPath, *start)
	ranked := analysis.RankBySwing(s.engine, s.set, *step)

	fmt.Printf("%-4s %-18s %-12s %-12s %-12s %-12s\n", "rank", "driver", "base", "down", "up", "swing")
	for _, r := range ranked {
		fmt.Printf("%-4d %-18s %-12.2f %-12.2f %-12.2f %-12.2f\n",
			r.Rank, r.Driver, r.Base, r.Down, r.Up, r.Swing)
	}
}

func cmdActuals(args []string) {
	fs := flag.NewFlagSet("actuals", flag.ExitOnError)
	cfgPath, jsonPath, start := commonFlags(fs)
	file := fs.String("file", "", "Path to actual revenue CSV (date + revenue columns)")
	_ = fs.Parse(args)

	if *file == "" {
		fmt.Println("--file is required")
		os.Exit(2)
	}

	actuals, err := data.LoadActualRevenueCSV(*file)
	if err != nil {
		fail(err)
	}

	s := load(*cfgPath, *jsonPath, *start)
	if *start == "" && s.cfg.Cashflow.StartMonth == "" {
		// Align the schedule on the first observed month.
		s.start = actuals[0].Month
	}
	_, cf := s.engine.Project(s.set, s.start)
	rows := projection.CompareActuals(cf, actuals)
	if len(rows) == 0 {
		fmt.Printf("No overlap between %s and the schedule starting %s\n", *file, s.start.Format(projection.MonthLabelLayout))
		return
	}

	fmt.Printf("%-8s %-12s %-12s %-12s %-10s\n", "month", "actual", "forecast", "variance", "var%")
	for _, r := range rows {
		fmt.Printf("%-8s %-12.2f %-12.2f %-12.2f %-10.1f\n", r.Label, r.Actual, r.Forecast, r.Variance, r.VariancePct)
	}
	actual, forecast := projection.ActualTotals(rows)
	fmt.Printf("%-8s %-12.2f %-12.2f %-12.2f\n", "total", actual, forecast, actual-forecast)
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cfgPath, jsonPath, start := commonFlags(fs)
	outPath := fs.String("out", "results/forecast.pdf", "Output PDF path")
	asOf := fs.String("as-of", "", "Optional: wear reference date YYYY-MM-DD (default: today)")
	_ = fs.Parse(args)

	s := load(*cfgPath, *jsonPath, *start)
	ind, cf := s.engine.Project(s.set, s.start)

	in := report.Input{
		Title:       reportTitle(s.cfg),
		GeneratedAt: time.Now(),
		Assumptions: s.set,
		Indicators:  ind,
		CashFlow:    cf,
		Scenarios:   s.engine.CompareScenarios(s.set, nil, s.start),
	}

	purchased, err := s.cfg.PurchaseDates()
	if err != nil {
		fail(err)
	}
	if !purchased.Brasero.IsZero() || !purchased.Chiffres.IsZero() {
		ref := time.Now()
		if *asOf != "" {
			if ref, err = time.Parse("2006-01-02", *asOf); err != nil {
				fail(fmt.Errorf("invalid --as-of %q (want YYYY-MM-DD)", *asOf))
			}
		}
		in.Wear = s.engine.ComputeWear(s.set, purchased, ref)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fail(err)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		fail(err)
	}
	if err := report.WritePDF(f, in); err != nil {
		f.Close()
		fail(err)
	}
	if err := f.Close(); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote report to %s\n", *outPath)
}

func reportTitle(cfg *config.Config) string {
	if cfg.Assumptions.Name != "" {
		return "Prévisionnel - " + cfg.Assumptions.Name
	}
	return "Prévisionnel"
}

func printIndicators(ind projection.Indicators) {
	fmt.Printf("%-10s %-10s %-12s %-12s %-12s %-8s\n", "line", "days", "revenue", "amortization", "before_lev", "roi%")
	for _, l := range model.Lines() {
		li := ind.Line(l)
		fmt.Printf("%-10s %-10.1f %-12.2f %-12.2f %-12.2f %-8.1f\n",
			l, li.PackDays.Total(), li.Revenue, li.Amortization, li.ResultBeforeLevies, li.ROIPct)
	}
	fmt.Printf("%-10s %-10.1f %-12.2f %-12.2f %-12.2f %-8.1f\n",
		"total", ind.TotalRentalDays, ind.TotalRevenue, ind.TotalAmortization, ind.ResultBeforeLevies, ind.ROITotalPct)

	fmt.Println("")
	fmt.Printf("Levies=%.2f (social=%.2f flat=%.2f training=%.2f, %.1f%% of revenue)\n",
		ind.Levies.Total, ind.Levies.SocialContribution, ind.Levies.FlatTax, ind.Levies.TrainingLevy, ind.LevyRatioPct)
	fmt.Printf("Net after levies=%.2f (margin %.1f%%)\n", ind.NetAfterLevies, ind.NetMarginPct)
	fmt.Printf("Operations: trips=%.0f fuel=%.1fL/%.2f maintenance=%.2f total=%.2f\n",
		ind.DeliveryTrips, ind.FuelLitres, ind.FuelCost, ind.AnnualMaintenance, ind.OperationalCosts)
	fmt.Printf("Result after operations=%.2f (margin %.1f%%)\n", ind.ResultAfterOperations, ind.OperationalMarginPct)
	if ind.BreakEvenDefined() {
		fmt.Printf("Break-even=%.1f days (revenue/day %.2f)\n", ind.BreakEvenDays, ind.RevenuePerDay)
	} else {
		fmt.Println("Break-even=n/a (no rental days)")
	}
	warn := ""
	if ind.ThresholdExceeded {
		warn = " EXCEEDED"
	}
	fmt.Printf("Revenue threshold usage=%.1f%%%s\n", ind.ThresholdRatioPct, warn)
}

func printCashFlow(cf projection.CashFlowSchedule) {
	fmt.Printf("%-4s %-8s %-10s %-12s %-12s %-10s %-10s %-12s\n", "pos", "month", "revenue", "depreciation", "maintenance", "levy", "net", "cumulative")
	for _, m := range cf.Months {
		fmt.Printf("%-4d %-8s %-10.2f %-12.2f %-12.2f %-10.2f %-10.2f %-12.2f\n",
			m.Position, m.Label, m.Revenue, m.Depreciation, m.Maintenance, m.LevyCharge, m.Net, m.Cumulative)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
