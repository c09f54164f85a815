package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/ovniasbl/compta-import/internal/config"
	"github.com/ovniasbl/compta-import/internal/importer"
	"github.com/ovniasbl/compta-import/internal/logger"
	"github.com/ovniasbl/compta-import/internal/writer"
)

const version = "1.0.0"

func main() {
	inputFlag := flag.String("input", "", "Directory of HTML/PDF ledger exports (overrides config)")
	outputFlag := flag.String("output", "", "Output SQL file path (overrides config)")
	configFlag := flag.String("config", "", "Path to TOML config file")
	yearFlag := flag.Int("year", 0, "Default year for dates without one (0 = detect per file)")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Import comptabilité O.V.N.I ASBL

Reads a directory of spreadsheet exports (per-artist ledgers, per-project
ledgers, per-year summaries), normalizes them into transactions and
writes an idempotent SQL seed script. The script is reviewed by hand and
applied separately (see cmd/apply).

Usage:
  compta-import [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Import with config defaults
  compta-import

  # Explicit paths
  compta-import -input ./exports -output ./out/import.sql

  # Force a year for undated DD/MM cells
  compta-import -input ./exports -year 2024
`)
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("compta-import v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("config: %v\n", err)
	}
	if *inputFlag != "" {
		cfg.Import.InputDir = *inputFlag
	}
	if *outputFlag != "" {
		cfg.Import.OutputFile = *outputFlag
	}
	if *yearFlag != 0 {
		cfg.Import.DefaultYear = *yearFlag
	}

	log := logger.New(*verboseFlag)
	imp := importer.New(importer.Options{
		DefaultYear: cfg.Import.DefaultYear,
		Log:         log,
	})

	fmt.Printf("Import: %s\n", cfg.Import.InputDir)
	res, err := imp.Run(context.Background(), cfg.Import.InputDir)
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	w := &writer.SQLWriter{}
	if err := w.WriteToFile(cfg.Import.OutputFile, res); err != nil {
		fatalf("Error: %v\n", err)
	}

	printSummary(res, cfg.Import.OutputFile)
}

func printSummary(res *importer.Result, outPath string) {
	fmt.Printf("\nFichiers traités:  %d\n", res.Files)
	fmt.Printf("Fichiers ignorés:  %d\n", res.Skipped)
	fmt.Printf("Fichiers inconnus: %d\n", res.Unmapped)
	fmt.Printf("Lignes écartées:   %d\n", res.DroppedRows)
	fmt.Printf("Transactions:      %d\n", len(res.Transactions))

	if len(res.Artists) > 0 {
		fmt.Println("\nPar artiste:")
		for _, name := range sortedNames(res.Artists) {
			t := res.Artists[name]
			fmt.Printf("  %-12s crédit %10s  débit %10s  solde %10s\n",
				name, t.Credit.StringFixed(2), t.Debit.StringFixed(2), t.Solde().StringFixed(2))
		}
	}
	if len(res.Projects) > 0 {
		fmt.Println("\nPar projet:")
		for _, code := range sortedNames(res.Projects) {
			t := res.Projects[code]
			fmt.Printf("  %-12s crédit %10s  débit %10s  solde %10s\n",
				code, t.Credit.StringFixed(2), t.Debit.StringFixed(2), t.Solde().StringFixed(2))
		}
	}
	if len(res.YearSummaries) > 0 {
		fmt.Println("\nBilans annuels (lignes comptées, non importées):")
		years := make([]int, 0, len(res.YearSummaries))
		for y := range res.YearSummaries {
			years = append(years, y)
		}
		sort.Ints(years)
		for _, y := range years {
			fmt.Printf("  %d: %d lignes\n", y, res.YearSummaries[y])
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Printf("\n%d avertissement(s), voir le log.\n", len(res.Warnings))
	}
	fmt.Printf("\nScript SQL: %s\n", outPath)
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
