package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/itempool/edstan/edstan"
)

// Command line front end for the edstan library. Usage:
//   edstan models
//   edstan check -data responses.csv
//   edstan data -data responses.csv -out data.json
//   edstan fit -model rasch -bin ./stan/bin -data responses.csv -out fit.zst
//   edstan show -fit fit.zst -persons

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "models":
		models()
	case "check":
		check()
	case "data":
		buildData()
	case "fit":
		fit()
	case "show":
		show()
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "edstan commands: models | check | data | fit | show\n")
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "edstan: %v\n", err)
	os.Exit(1)
}

func models() {
	lib := edstan.Default()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tPROGRAM\tDISCRIMINATION\tSTEPS")
	for _, f := range lib.Families() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Name, f.Label, f.StanFile, f.Discrimination, f.Steps)
	}
	_ = tw.Flush()
}

// responseFlags registers the flags shared by every command that reads a
// wide response table.
func responseFlags(fs *flag.FlagSet) (data *string, header, ids *bool) {
	data = fs.String("data", "", "wide response CSV")
	header = fs.Bool("header", true, "first row names the items")
	ids = fs.Bool("ids", false, "first column holds person IDs")
	return
}

func readResponses(path string, header, ids bool) *edstan.ResponseMatrix {
	if path == "" {
		die(fmt.Errorf("-data is required"))
	}
	f, err := os.Open(path)
	if err != nil {
		die(err)
	}
	defer f.Close()
	rm, err := edstan.ReadResponseCSV(f, header, ids)
	if err != nil {
		die(err)
	}
	return rm
}

func check() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	data, header, ids := responseFlags(fs)
	_ = fs.Parse(os.Args[2:])

	rm := readResponses(*data, *header, *ids)
	ds, err := edstan.DataFromWide(rm)
	if err != nil {
		die(err)
	}

	fmt.Printf("items: %d  persons: %d  observations: %d of %d\n", ds.I, ds.J, ds.N, ds.I*ds.J)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tMAX SCORE")
	for i, label := range ds.ItemLabels {
		fmt.Fprintf(tw, "%s\t%d\n", label, ds.MaxScores[i])
	}
	_ = tw.Flush()
	for _, w := range ds.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if alpha, err := edstan.CronbachAlpha(rm); err == nil {
		fmt.Printf("cronbach's alpha: %.3f\n", alpha)
	}
}

func buildData() {
	fs := flag.NewFlagSet("data", flag.ExitOnError)
	data, header, ids := responseFlags(fs)
	covariates := fs.String("covariates", "", "person covariate CSV (with header)")
	formula := fs.String("formula", "", "latent regression formula, e.g. \"~ age + anchor\"")
	out := fs.String("out", "", "write Stan JSON here instead of stdout")
	_ = fs.Parse(os.Args[2:])

	rm := readResponses(*data, *header, *ids)
	opts := []edstan.DataOption{edstan.WithLogger(edstan.NewTextLogger(slog.LevelWarn))}
	if *covariates != "" {
		cf, err := os.Open(*covariates)
		if err != nil {
			die(err)
		}
		table, err := edstan.ReadCovariateCSV(cf, true)
		cf.Close()
		if err != nil {
			die(err)
		}
		opts = append(opts, edstan.WithFormula(table, *formula))
	}
	ds, err := edstan.DataFromWide(rm, opts...)
	if err != nil {
		die(err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			die(err)
		}
		defer f.Close()
		w = f
	}
	if err := edstan.WriteStanJSON(w, ds.StanData()); err != nil {
		die(err)
	}
}

func fit() {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	data, header, ids := responseFlags(fs)
	model := fs.String("model", "rasch", "model family name")
	bin := fs.String("bin", ".", "directory holding compiled Stan model binaries")
	chains := fs.Int("chains", 4, "number of MCMC chains")
	iter := fs.Int("iter", 1000, "post-warmup draws per chain")
	warmup := fs.Int("warmup", 1000, "warmup iterations per chain")
	seed := fs.Int64("seed", 0, "RNG seed (0 picks one)")
	out := fs.String("out", "", "persist the fit archive here")
	keep := fs.Bool("keep", false, "keep the sampler scratch directory")
	persons := fs.Bool("persons", false, "print the person table too")
	verbose := fs.Bool("v", false, "verbose progress")
	_ = fs.Parse(os.Args[2:])

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := edstan.NewTextLogger(level)

	rm := readResponses(*data, *header, *ids)
	ds, err := edstan.DataFromWide(rm, edstan.WithLogger(log))
	if err != nil {
		die(err)
	}

	sopts := []edstan.CmdStanOption{edstan.WithStanLogger(log)}
	if *keep {
		sopts = append(sopts, edstan.WithKeepRuns())
	}
	m, err := edstan.Default().Model(*model, edstan.NewCmdStan(*bin, sopts...))
	if err != nil {
		die(err)
	}
	result, err := m.Fit(context.Background(), ds,
		edstan.WithChains(*chains),
		edstan.WithIter(*iter),
		edstan.WithWarmup(*warmup),
		edstan.WithSeed(*seed),
	)
	if err != nil {
		die(err)
	}

	printSummaries(result, *persons)

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			die(err)
		}
		defer f.Close()
		if err := edstan.WriteFit(f, result); err != nil {
			die(err)
		}
		log.Info("fit written", "path", *out)
	}
}

func show() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	path := fs.String("fit", "", "fit archive written by fit -out")
	persons := fs.Bool("persons", false, "print the person table too")
	_ = fs.Parse(os.Args[2:])

	if *path == "" {
		die(fmt.Errorf("-fit is required"))
	}
	f, err := os.Open(*path)
	if err != nil {
		die(err)
	}
	defer f.Close()
	result, err := edstan.ReadFit(f)
	if err != nil {
		die(err)
	}
	printSummaries(result, *persons)
}

func printSummaries(f *edstan.Fit, persons bool) {
	items, err := f.ItemSummary()
	if err != nil {
		die(err)
	}
	if err := items.Render(os.Stdout); err != nil {
		die(err)
	}
	if !persons {
		return
	}
	fmt.Println()
	table, err := f.PersonSummary()
	if err != nil {
		die(err)
	}
	if err := table.Render(os.Stdout); err != nil {
		die(err)
	}
}
