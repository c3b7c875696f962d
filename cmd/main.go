package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"carnot-adex/pkg/analysis"
	"carnot-adex/pkg/config"
	"carnot-adex/pkg/cycle"
	"carnot-adex/pkg/exergy"
	"carnot-adex/pkg/util"
)

var (
	cycleName  = flag.String("cycle", "hp", "cycle to analyze: hp or orc")
	configPath = flag.String("config", "", "YAML configuration file")
	runSuite   = flag.Bool("suite", false, "run the full decomposition suite")
	parallel   = flag.Bool("parallel", false, "solve suite configurations concurrently")
	outDir     = flag.String("out", "", "directory for CSV dumps")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	if *cycleName != "hp" && *cycleName != "orc" {
		log.Fatalf("Error: unknown cycle %q (want hp or orc)", *cycleName)
	}

	if *runSuite {
		if err := suiteMain(cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}
	if err := singleMain(cfg); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func buildSuite(cfg *config.Config, unavoidable bool) (*analysis.Suite, error) {
	var s *analysis.Suite
	var err error
	if *cycleName == "hp" {
		params := cfg.HeatPump
		if unavoidable {
			params = cfg.HeatPumpUnavoidable
		}
		s, err = analysis.NewHeatPumpSuite(params)
	} else {
		params := cfg.Rankine
		if unavoidable {
			params = cfg.RankineUnavoidable
		}
		s, err = analysis.NewRankineSuite(params)
	}
	if err != nil {
		return nil, err
	}
	if hp, ok := s.Cycle.(*cycle.HeatPump); ok {
		hp.Newton = cfg.Solver
	}
	if orc, ok := s.Cycle.(*cycle.Rankine); ok {
		orc.Newton = cfg.Solver
	}
	s.Pinch = cfg.Pinch
	s.Parallel = *parallel
	return s, nil
}

func singleMain(cfg *config.Config) error {
	s, err := buildSuite(cfg, false)
	if err != nil {
		return err
	}

	sol, err := s.Cycle.Solve(cycle.RunSpec{TargetPinch: s.Pinch})
	if err != nil {
		return err
	}
	bal, err := s.Post(sol.Streams, s.Ambient)
	if err != nil {
		return err
	}

	fmt.Printf("%s design point: %s (%d search steps)\n\n",
		s.Cycle.Name(), util.FormatPressure(sol.Pressure), sol.SearchSteps)
	printStreams(sol.Streams)
	printBalance(s.Cycle.Components(), bal)

	if *outDir != "" {
		path := filepath.Join(*outDir, *cycleName+"_streams.csv")
		if err := writeStreamsFile(path, sol.Streams); err != nil {
			return err
		}
		fmt.Printf("\nStream table written to %s\n", path)
	}
	return nil
}

func suiteMain(cfg *config.Config) error {
	ctx := context.Background()

	base, err := buildSuite(cfg, false)
	if err != nil {
		return err
	}
	baseRes, err := base.Run(ctx)
	if err != nil {
		return err
	}

	unavoid, err := buildSuite(cfg, true)
	if err != nil {
		return err
	}
	unavoidRes, err := unavoid.Run(ctx)
	if err != nil {
		return err
	}

	led, err := baseRes.Ledger()
	if err != nil {
		return err
	}
	avoidable, err := analysis.Avoidable(baseRes, unavoidRes)
	if err != nil {
		return err
	}

	fmt.Printf("%s decomposition (%d runs per parameter set)\n\n", base.Cycle.Name(), len(baseRes.Runs))
	fmt.Printf("%-6s %12s %12s %12s %12s\n", "comp", "ED", "ED_EN", "ED_EX", "ED_MEXO")
	for _, k := range baseRes.Components {
		e := led[k]
		fmt.Printf("%-6s %s %s %s %s\n", k,
			util.FormatPower(e.ED), util.FormatPower(e.EN),
			util.FormatPower(e.EX), util.FormatPower(e.Mexo))
	}

	fmt.Printf("\n%-6s %12s %12s %12s %12s %12s\n", "comp", "ED", "ED_UN", "ED_AV", "ED_EN_AV", "ED_EX_AV")
	for _, k := range baseRes.Components {
		a := avoidable[k]
		fmt.Printf("%-6s %s %s %s %s %s\n", k,
			util.FormatPower(a.ED), util.FormatPower(a.EDUn), util.FormatPower(a.EDAv),
			util.FormatPower(a.EDEnAv), util.FormatPower(a.EDExAv))
	}

	if *outDir != "" {
		ledgerPath := filepath.Join(*outDir, *cycleName+"_ledger.csv")
		f, err := os.Create(ledgerPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := analysis.WriteLedger(f, baseRes); err != nil {
			return err
		}
		streamsPath := filepath.Join(*outDir, *cycleName+"_streams.csv")
		if err := writeStreamsFile(streamsPath, baseRes.Runs[analysis.RealLabel].Streams); err != nil {
			return err
		}
		fmt.Printf("\nCSV dumps written to %s\n", *outDir)
	}
	return nil
}

func printStreams(streams map[int]cycle.Stream) {
	fmt.Println("Stream Table:")
	fmt.Println("=============")
	fmt.Printf("%4s %-8s %9s %13s %12s %14s %12s\n",
		"node", "fluid", "m [kg/s]", "T", "p", "h", "s [J/kgK]")
	for _, id := range cycle.SortedIDs(streams) {
		s := streams[id]
		fmt.Printf("%4d %-8s %9.4f %s %s %s %12.3f\n",
			s.ID, s.Fluid, s.M,
			util.FormatTemperature(s.T), util.FormatPressure(s.P),
			util.FormatValueFactor(s.H, "J/kg"), s.S)
	}
}

func printBalance(components []string, bal *exergy.Balance) {
	fmt.Println("\nExergy Balance:")
	fmt.Println("===============")
	fmt.Printf("%-6s %14s %14s %8s\n", "comp", "ED", "EF", "eps")
	for _, k := range components {
		fmt.Printf("%-6s %s %s %s\n", k,
			util.FormatPower(bal.Destruction[k]),
			util.FormatPower(bal.Fuel[k]),
			util.FormatRatio(bal.Epsilon[k]))
	}
	fmt.Printf("\nnet power %s   heat in %s   heat out %s\n",
		util.FormatPower(bal.Power), util.FormatPower(bal.HeatIn), util.FormatPower(bal.HeatOut))
	fmt.Printf("figure of merit %.4f   energy closure %.3g W\n", bal.Merit, bal.Residual)
}

func writeStreamsFile(path string, streams map[int]cycle.Stream) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return cycle.WriteStreams(f, streams)
}
