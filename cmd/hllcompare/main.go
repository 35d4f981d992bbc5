// Command hllcompare measures the accuracy of the HyperLogLog and LogLog
// estimators on generated, duplicate-heavy data sets.
//
//	hllcompare -elements 100000 -trials 100 -precision 10
//	hllcompare -mode sweep -config compare.yaml -out sweep.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/lytics/loglog/internal/compare"
	"github.com/pkg/errors"
)

func main() {
	logger := log.New(os.Stderr, "hllcompare: ", log.LstdFlags)

	var (
		configPath = flag.String("config", "", "YAML config file (flags override it)")
		mode       = flag.String("mode", "compare", "'compare' (HyperLogLog vs LogLog) or 'sweep' (error curve)")
		outPath    = flag.String("out", "", "write per-trial or per-point results as CSV to this file")
		progress   = flag.Bool("progress", true, "show a progress bar on stderr")

		elements  = flag.Int("elements", 0, "true cardinality of each data set")
		trials    = flag.Int("trials", 0, "number of data sets")
		precision = flag.Uint("precision", 0, "sketch precision, 4 to 16")
		hash      = flag.String("hash", "", "hash strategy: xxhash, murmur3, murmur3-32, siphash, sha1, sha256, blake2b")
		workers   = flag.Int("workers", 0, "parallel trials, 0 for one per CPU")
		seed      = flag.Int64("seed", 0, "random seed")
		sweepMax  = flag.Int("sweep-max", 0, "sweep: largest cardinality")
		sweepStep = flag.Int("sweep-step", 0, "sweep: step between cardinalities")
	)
	flag.Parse()

	cfg := compare.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = compare.LoadConfig(*configPath); err != nil {
			logger.Fatal(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "elements":
			cfg.Elements = *elements
		case "trials":
			cfg.Trials = *trials
		case "precision":
			cfg.Precision = *precision
			cfg.Sweep.Precision = *precision
		case "hash":
			cfg.Hash = *hash
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "sweep-max":
			cfg.Sweep.Max = *sweepMax
		case "sweep-step":
			cfg.Sweep.Step = *sweepStep
		}
	})

	runner, err := compare.NewRunner(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	if *progress {
		runner.Progress = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, runner, *mode, *outPath); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, runner *compare.Runner, mode, outPath string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrapf(err, "failed to create output file '%s'", outPath)
		}
		defer f.Close()
		out = f
	}

	switch mode {
	case "compare":
		res, err := runner.Compare(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, res.Summary())
		if outPath == "" {
			return nil
		}
		return compare.WriteCSV(out, res)
	case "sweep":
		points, err := runner.Sweep(ctx)
		if err != nil {
			return err
		}
		return compare.WriteSweepCSV(out, points)
	}
	return errors.Errorf("unknown mode %q", mode)
}
