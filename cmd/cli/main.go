package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"solar-estimator/internal/analysis"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"
	"solar-estimator/internal/model"
	"solar-estimator/internal/report"
	"solar-estimator/internal/simulation"

	"github.com/spf13/pflag"
)

const (
	exitOK       = 0
	exitInput    = 1
	exitProvider = 2
)

func main() {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitInput
	}

	switch args[0] {
	case "simulate":
		return cmdSimulate(ctx, args[1:], stdout, stderr)
	case "rank":
		return cmdRank(ctx, args[1:], stdout, stderr)
	case "clear-cache":
		return cmdClearCache(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitInput
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, `  cli simulate --place "Fortaleza, CE" --consumption 350 --min-connection 50 [--finance --rate 12 --months 24]`)
	fmt.Fprintln(w, `  cli rank --place "Fortaleza, CE" --place "Curitiba, PR" --consumption 350`)
	fmt.Fprintln(w, "  cli clear-cache")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "notes:")
	fmt.Fprintln(w, "  - percent flags (--rate, --inflation, --degradation) take percentages: 8 means 8%/year")
	fmt.Fprintln(w, "  - --climate reads a cached climate JSON instead of calling the online services")
	fmt.Fprintln(w, "  - exit codes: 0 ok, 1 input error, 2 climate provider error or place not found")
}

// scenarioFlags are shared by simulate and rank.
type scenarioFlags struct {
	consumption   float64
	minConnection float64
	paramsFile    string
	tariff        float64
	inflationPct  float64
	degradePct    float64
	refreshCache  bool
}

func (s *scenarioFlags) register(fs *pflag.FlagSet) {
	fs.Float64VarP(&s.consumption, "consumption", "c", 0, "Average monthly consumption in kWh (required)")
	fs.Float64VarP(&s.minConnection, "min-connection", "m", model.MinConnectionSinglePhase,
		"Minimum billed consumption by connection type: 30, 50 or 100 kWh")
	fs.StringVar(&s.paramsFile, "params", "", "Cost parameters YAML (default: $SOLAR_PARAMS_FILE or built-in)")
	fs.Float64Var(&s.tariff, "tariff", 0, "Override tariff (R$/kWh)")
	fs.Float64Var(&s.inflationPct, "inflation", 0, "Override annual tariff inflation (%)")
	fs.Float64Var(&s.degradePct, "degradation", 0, "Override annual module degradation (%)")
	fs.BoolVar(&s.refreshCache, "refresh-cache", false, "Ignore cached climate and fetch again")
}

// params loads the cost parameters and applies the flags the user set.
func (s *scenarioFlags) params(fs *pflag.FlagSet, rt config.Runtime) (model.CostParameters, error) {
	if !fs.Changed("consumption") {
		return model.CostParameters{}, fmt.Errorf("--consumption is required")
	}
	if s.consumption < 0 {
		return model.CostParameters{}, fmt.Errorf("--consumption must be >= 0")
	}
	if err := model.ValidateMinConnection(s.minConnection); err != nil {
		return model.CostParameters{}, err
	}

	path := s.paramsFile
	if path == "" {
		path = rt.ParamsFile
	}
	base, err := config.LoadParams(path)
	if err != nil {
		return model.CostParameters{}, err
	}

	var ov config.Overrides
	if fs.Changed("tariff") {
		ov.TariffPerKWh = &s.tariff
	}
	if fs.Changed("inflation") {
		v := s.inflationPct / 100
		ov.InflationRate = &v
	}
	if fs.Changed("degradation") {
		v := s.degradePct / 100
		ov.DegradationRate = &v
	}
	return ov.Apply(base)
}

func pipeline(rt config.Runtime, refresh bool) climate.Provider {
	return climate.NewPipeline(climate.PipelineConfig{
		NominatimURL:       rt.NominatimURL,
		NominatimUserAgent: rt.NominatimUserAgent,
		NASAPowerURL:       rt.NASAPowerURL,
		HTTPTimeout:        rt.HTTPTimeout,
		Retry:              climate.DefaultRetry,
		RateLimit:          climate.DefaultRateLimit,
		CacheDir:           rt.CacheDir,
		CacheTTL:           rt.CacheTTL,
		RefreshCache:       refresh,
	})
}

func cmdSimulate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("simulate", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var sf scenarioFlags
	sf.register(fs)
	place := fs.StringP("place", "p", "", `City and state, e.g. "Fortaleza, CE"`)
	climatePath := fs.String("climate", "", "Climate JSON file (skips the online lookup)")
	finance := fs.Bool("finance", false, "Finance the system in installments")
	ratePct := fs.Float64("rate", 0, "Financing annual interest rate (%)")
	months := fs.Int("months", 0, "Financing term (months)")
	pdfPath := fs.String("pdf", "", "Write the PDF dashboard to this path")
	xlsxPath := fs.String("xlsx", "", "Write the XLSX workbook to this path")
	csvPath := fs.String("csv", "", "Write the monthly ledger CSV to this path")
	technical := fs.Bool("technical", false, "Print the technical sheet")

	if err := fs.Parse(args); err != nil {
		return exitInput
	}
	if *place == "" && *climatePath == "" {
		fmt.Fprintln(stderr, "--place or --climate is required")
		return exitInput
	}
	if *finance && (*months < 0 || *ratePct < 0) {
		fmt.Fprintln(stderr, "--rate and --months must be >= 0")
		return exitInput
	}

	rt, err := config.ResolveRuntime()
	if err != nil {
		fmt.Fprintf(stderr, "environment: %v\n", err)
		return exitInput
	}
	params, err := sf.params(fs, rt)
	if err != nil {
		fmt.Fprintf(stderr, "parameters: %v\n", err)
		return exitInput
	}

	var clim *model.Climate
	if *climatePath != "" {
		clim, err = climate.LoadClimateJSON(*climatePath)
		if err != nil {
			fmt.Fprintf(stderr, "climate file: %v\n", err)
			return exitInput
		}
		if *place != "" {
			clim.Place = *place
		}
	} else {
		fmt.Fprintf(stdout, "Fetching climate for %s...\n", *place)
		clim, err = pipeline(rt, sf.refreshCache).FetchClimate(ctx, *place)
		if err != nil {
			return providerExit(stderr, *place, err)
		}
	}

	var terms *model.FinancingTerms
	if *finance {
		terms = &model.FinancingTerms{AnnualRatePct: *ratePct, Months: *months}
	}

	res, err := simulation.New().Run(simulation.Inputs{
		ConsumptionKWh:   sf.consumption,
		MinConnectionKWh: sf.minConnection,
		Irradiance:       clim.Irradiance,
		Temperature:      clim.Temperature,
		Financing:        terms,
		Params:           params,
	})
	if err != nil {
		fmt.Fprintf(stderr, "simulation: %v\n", err)
		return exitInput
	}

	summary := analysis.Summarize(res)
	label := clim.Place
	if label == "" {
		label = filepath.Base(*climatePath)
	}
	if err := report.Summary(stdout, label, res, summary); err != nil {
		fmt.Fprintf(stderr, "write summary: %v\n", err)
		return exitInput
	}
	if *technical {
		if err := report.TechnicalText(stdout, res.Technical); err != nil {
			fmt.Fprintf(stderr, "write technical sheet: %v\n", err)
			return exitInput
		}
	}

	if *csvPath != "" {
		if err := ensureDir(*csvPath); err != nil {
			fmt.Fprintf(stderr, "csv: %v\n", err)
			return exitInput
		}
		if err := simulation.WriteLedgerCSV(*csvPath, res.Ledger); err != nil {
			fmt.Fprintf(stderr, "csv: %v\n", err)
			return exitInput
		}
		fmt.Fprintf(stdout, "Wrote %d rows to %s\n", len(res.Ledger), *csvPath)
	}
	if *pdfPath != "" {
		if err := writeReport(*pdfPath, func() ([]byte, error) { return report.DashboardPDF(label, res, summary) }); err != nil {
			fmt.Fprintf(stderr, "pdf: %v\n", err)
			return exitInput
		}
		fmt.Fprintf(stdout, "Wrote dashboard to %s\n", *pdfPath)
	}
	if *xlsxPath != "" {
		if err := writeReport(*xlsxPath, func() ([]byte, error) { return report.WorkbookXLSX(label, res, summary) }); err != nil {
			fmt.Fprintf(stderr, "xlsx: %v\n", err)
			return exitInput
		}
		fmt.Fprintf(stdout, "Wrote workbook to %s\n", *xlsxPath)
	}
	return exitOK
}

func cmdRank(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("rank", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var sf scenarioFlags
	sf.register(fs)
	places := fs.StringArrayP("place", "p", nil, "Place to rank (repeatable)")
	placesFile := fs.String("places-file", "", "Rank every place in a places JSON file")

	if err := fs.Parse(args); err != nil {
		return exitInput
	}

	rt, err := config.ResolveRuntime()
	if err != nil {
		fmt.Fprintf(stderr, "environment: %v\n", err)
		return exitInput
	}
	names := append([]string(nil), *places...)
	if *placesFile != "" {
		list, err := climate.LoadPlaces(*placesFile)
		if err != nil {
			fmt.Fprintf(stderr, "places file: %v\n", err)
			return exitInput
		}
		names = append(names, list.Names()...)
	}
	if len(names) == 0 {
		fmt.Fprintln(stderr, "at least one --place (or --places-file) is required")
		return exitInput
	}

	params, err := sf.params(fs, rt)
	if err != nil {
		fmt.Fprintf(stderr, "parameters: %v\n", err)
		return exitInput
	}

	provider := pipeline(rt, sf.refreshCache)
	engine := simulation.New()
	results := make(map[string]*simulation.Result, len(names))
	failed := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		clim, err := provider.FetchClimate(ctx, name)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return providerExit(stderr, name, err)
			}
			fmt.Fprintf(stderr, "skipping %s: %v\n", name, err)
			failed++
			continue
		}
		res, err := engine.Run(simulation.Inputs{
			ConsumptionKWh:   sf.consumption,
			MinConnectionKWh: sf.minConnection,
			Irradiance:       clim.Irradiance,
			Temperature:      clim.Temperature,
			Params:           params,
		})
		if err != nil {
			fmt.Fprintf(stderr, "skipping %s: %v\n", name, err)
			failed++
			continue
		}
		results[name] = res
	}

	ranked := analysis.RankPlaces(results)
	fmt.Fprintf(stdout, "%-4s %-28s %-8s %-8s %-14s %-16s %-8s\n", "rank", "place", "irr", "modules", "capex", "savings(25y)", "payback")
	for i, r := range ranked {
		payback := "never"
		if r.PaybackMonth >= 0 {
			payback = fmt.Sprintf("%.1fy", r.PaybackYears())
		}
		fmt.Fprintf(stdout, "%-4d %-28s %-8.2f %-8d %-14s %-16s %-8s\n",
			i+1,
			r.Place,
			r.Result.Sizing.MeanIrradiance,
			r.Result.Sizing.ModuleCount,
			report.Money(r.Result.Capex),
			report.Money(r.LifetimeSavings),
			payback,
		)
	}

	if len(ranked) == 0 && failed > 0 {
		return exitProvider
	}
	return exitOK
}

func cmdClearCache(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("clear-cache", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", "", "Cache directory (default: $SOLAR_CACHE_DIR or .cache)")
	if err := fs.Parse(args); err != nil {
		return exitInput
	}

	cacheDir := *dir
	if cacheDir == "" {
		rt, err := config.ResolveRuntime()
		if err != nil {
			fmt.Fprintf(stderr, "environment: %v\n", err)
			return exitInput
		}
		cacheDir = rt.CacheDir
	}

	n, err := climate.NewFileCache(nil, cacheDir, 0).Clear()
	if err != nil {
		fmt.Fprintf(stderr, "clear cache: %v\n", err)
		return exitInput
	}
	fmt.Fprintf(stdout, "Removed %d cached climate files from %s\n", n, cacheDir)
	return exitOK
}

func providerExit(stderr io.Writer, place string, err error) int {
	if errors.Is(err, climate.ErrNotFound) {
		fmt.Fprintf(stderr, "place not found: %s\n", place)
	} else {
		fmt.Fprintf(stderr, "climate lookup for %s failed: %v\n", place, err)
	}
	return exitProvider
}

func writeReport(path string, render func() ([]byte, error)) error {
	body, err := render()
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
