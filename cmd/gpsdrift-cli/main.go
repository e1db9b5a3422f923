package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trailwatch/gpsdrift/internal/adapter"
	"github.com/trailwatch/gpsdrift/internal/drift"
	"github.com/trailwatch/gpsdrift/internal/models"
)

func main() {
	var (
		inputFile  = flag.String("i", "", "Input trajectory file (.json, .csv, or plain text)")
		outputFile = flag.String("o", "", "Output file for accepted fixes, JSON (default: <input>_filtered.json)")
		windowSize = flag.Int("window-size", 0, "Base-point window size (0 = use default)")
		multiplier = flag.Float64("drift-multiplier", 0, "Drift distance multiplier (0 = use default)")
		statsJSON  = flag.Bool("stats-json", false, "Output statistics as JSON")
		dryRun     = flag.Bool("dry-run", false, "Show statistics without writing output file")
		version    = flag.Bool("version", false, "Show version information")
	)

	flag.Usage = func() {
		fmt.Printf("gpsdrift-cli - filter GPS drift out of a trajectory\n\n")
		fmt.Printf("usage: gpsdrift-cli -i /path/to/trajectory.json\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  gpsdrift-cli -i track.json\n")
		fmt.Printf("  gpsdrift-cli -i track.csv -o filtered.json --dry-run\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Println("gpsdrift-cli v1.0.0 - streaming GPS drift filter")
		os.Exit(0)
	}

	if *inputFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *outputFile == "" {
		ext := filepath.Ext(*inputFile)
		base := strings.TrimSuffix(*inputFile, ext)
		*outputFile = base + "_filtered.json"
	}

	fmt.Printf("reading trajectory: %s\n", *inputFile)
	fixes, err := loadFixes(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input file: %v\n", err)
		os.Exit(1)
	}

	if len(fixes) == 0 {
		fmt.Println("no fixes found in input file")
		os.Exit(1)
	}
	fmt.Printf("loaded %d fixes\n", len(fixes))

	cfg := drift.DefaultConfig()
	if *windowSize > 0 {
		cfg.WindowSize = *windowSize
	}
	if *multiplier > 0 {
		cfg.DriftMultiplier = *multiplier
	}

	detector := drift.NewDetector(cfg)
	result := detector.ProcessTrajectory(fixes)

	if *statsJSON {
		out, err := json.MarshalIndent(result.Statistics, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error marshaling stats: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	} else {
		printStats(result)
	}

	if *dryRun {
		fmt.Println("dry run completed, no output file written")
		return
	}

	data, err := json.MarshalIndent(result.AcceptedFixes, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling accepted fixes: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d accepted fixes to %s\n", len(result.AcceptedFixes), *outputFile)
}

func loadFixes(path string) ([]models.Fix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		extended, err := adapter.LoadFromCSV(strings.NewReader(string(raw)))
		if err != nil {
			return nil, err
		}
		fixes := make([]models.Fix, len(extended))
		for i, e := range extended {
			fixes[i] = e.ToFix()
		}
		return fixes, nil
	case ".json":
		return adapter.LoadFromJSON(raw)
	default:
		return adapter.ParseFromString(string(raw)), nil
	}
}

func printStats(result drift.Result) {
	s := result.Statistics
	fmt.Printf("\ndrift filtering statistics\n")
	fmt.Printf("---------------------------------------------\n")
	fmt.Printf("points:      %d -> %d (%d rejected, %.1f%% filtering rate)\n",
		result.OriginalPoints, len(result.AcceptedFixes), len(result.RejectedFixes), s.FilteringRate*100)
	fmt.Printf("rebuilds:    %d\n", s.RebuildCount)
	fmt.Printf("base point:  present=%v radius=%.1fm age=%dms expired=%v\n",
		s.HasBasePoint, s.BaseRadius, s.BaseAgeMs, s.BaseExpired)
	fmt.Printf("markers:     %d\n", len(result.Markers))
	fmt.Printf("processing time: %dms\n", s.ProcessingTimeMs)
	fmt.Printf("---------------------------------------------\n")
}
