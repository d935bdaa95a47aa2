/*main computes Mie cross-interaction parameters for a library of coarse
grained beads described by a config file. Example usage:

	./main -ExampleConfig > beads.config
	./main -Config beads.config
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kmbarrett/beadmix"
	"github.com/kmbarrett/beadmix/io"
)

var (
	configFlag = flag.String(
		"Config", "", "Location of the run config file.",
	)
	exampleFlag = flag.Bool(
		"ExampleConfig", false,
		"Print an example config file to stdout and exit.",
	)
)

func main() {
	flag.Parse()

	if *exampleFlag {
		fmt.Print(io.ExampleConfigFile)
		return
	}
	if *configFlag == "" {
		log.Fatal("No config file given. Use the -Config flag, or " +
			"-ExampleConfig to see the expected layout.")
	}

	lib, run, err := io.ReadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Error reading config file: %s", err.Error())
	}

	opts := beadmix.DefaultOptions()
	opts.ShapeFactorScale = run.ShapeFactorScale
	opts.Distance = run.DomainOptions()
	opts.Logger = log.New(os.Stderr, "", log.LstdFlags)

	var (
		cross     beadmix.CrossInteractions
		summaries []beadmix.PairSummary
	)
	switch run.Method {
	case "fit":
		cross, summaries, err = beadmix.FitLibrary(lib, run.Temperature, opts)
	case "analytical":
		cross, summaries, err = beadmix.AnalyticalLibrary(
			lib, run.Temperature, opts,
		)
	default:
		log.Fatalf("Unrecognized method '%s'. The only accepted methods "+
			"are 'fit' and 'analytical'.", run.Method)
	}
	if err != nil {
		log.Fatalf("Error computing cross interactions: %s", err.Error())
	}

	printSummaries(os.Stdout, run.Temperature, summaries)

	if run.SummaryFile != "" {
		f, err := os.Create(run.SummaryFile)
		if err != nil {
			log.Fatalf("Error creating summary file: %s", err.Error())
		}
		printSummaries(f, run.Temperature, summaries)
		f.Close()
	}

	if run.CrossFile != "" {
		if err := writeCrossFile(run.CrossFile, cross); err != nil {
			log.Fatalf("Error writing cross file: %s", err.Error())
		}
	}
}

func printSummaries(f *os.File, temperature float64, ss []beadmix.PairSummary) {
	fmt.Fprintf(f, "# Cross interactions at T = %g K\n", temperature)
	fmt.Fprintf(f, "#%11s %12s %10s %8s %10s %8s %8s %8s\n",
		"Bead A", "Bead B", "Eps_SAFT", "k_SAFT", "Epsilon", "k",
		"LamR", "LamA")
	for _, s := range ss {
		fmt.Fprintf(f, "%12s %12s %10.3f %8.4f %10.3f %8.4f %8.3f %8.3f\n",
			s.BeadA, s.BeadB, s.EpsilonSAFT, s.KijSAFT,
			s.Epsilon, s.Kij, s.LambdaR, s.LambdaA)
	}
}

func writeCrossFile(fname string, cross beadmix.CrossInteractions) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	return enc.Encode(cross)
}
