package compare

import (
	"context"
	"io"
	"log"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lytics/loglog"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// Stats summarizes one estimator over all trials.
type Stats struct {
	Variant   loglog.Variant
	Estimates []float64
	MAPE      float64
}

// Result is the outcome of Runner.Compare.
type Result struct {
	RunID       string
	Config      Config
	HyperLogLog Stats
	LogLog      Stats
	// Bound is the theoretical HyperLogLog error 1.04/sqrt(2^p).
	Bound   float64
	Elapsed time.Duration
}

// SweepPoint is one sample of the error curve.
type SweepPoint struct {
	Cardinality int
	Estimate    float64
	Error       float64
}

// Runner executes comparison experiments. Each trial gets its own sketches,
// so trials run in parallel without sharing state.
type Runner struct {
	cfg    Config
	hasher loglog.Hasher
	logger *log.Logger
	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
}

// NewRunner validates cfg. A nil logger discards log output.
func NewRunner(cfg Config, logger *log.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	hasher, err := loglog.LookupHasher(cfg.Hash)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{cfg: cfg, hasher: hasher, logger: logger}, nil
}

func (r *Runner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Runner) bar(total int, desc string) *progressbar.ProgressBar {
	w := r.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
	)
}

// Compare estimates Trials generated data sets with both HyperLogLog and
// LogLog and reports the mean absolute percentage error of each.
func (r *Runner) Compare(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	r.logger.Printf("run %s: %d trials of %d elements, p=%d, hash=%s, workers=%d",
		runID, r.cfg.Trials, r.cfg.Elements, r.cfg.Precision, r.hasher.Name(), r.workers())

	hll := make([]float64, r.cfg.Trials)
	ll := make([]float64, r.cfg.Trials)
	bar := r.bar(r.cfg.Trials, "trials")

	err := r.parallel(ctx, r.cfg.Trials, func(trial int) error {
		h, l, err := r.trial(trial)
		if err != nil {
			return err
		}
		hll[trial], ll[trial] = h, l
		bar.Add(1)
		return nil
	})
	bar.Finish()
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       runID,
		Config:      r.cfg,
		HyperLogLog: Stats{Variant: loglog.HyperLogLog, Estimates: hll},
		LogLog:      Stats{Variant: loglog.LogLog, Estimates: ll},
		Bound:       loglog.StandardError(r.cfg.Precision),
	}
	truth := float64(r.cfg.Elements)
	if res.HyperLogLog.MAPE, err = MeanAbsolutePercentageError(hll, truth); err != nil {
		return nil, err
	}
	if res.LogLog.MAPE, err = MeanAbsolutePercentageError(ll, truth); err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	r.logger.Printf("run %s: hyperloglog mape=%.5f loglog mape=%.5f bound=%.5f in %s",
		runID, res.HyperLogLog.MAPE, res.LogLog.MAPE, res.Bound, res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// trial builds one data set and estimates it with both variants.
func (r *Runner) trial(trial int) (hll, ll float64, err error) {
	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(trial)))
	set := CreateSet(rng, r.cfg.Elements, r.cfg.MaxRepeats)

	h, err := loglog.NewWithConfig(loglog.Config{Precision: r.cfg.Precision, Hasher: r.hasher})
	if err != nil {
		return 0, 0, err
	}
	l, err := loglog.NewWithConfig(loglog.Config{Precision: r.cfg.Precision, Variant: loglog.LogLog, Hasher: r.hasher})
	if err != nil {
		return 0, 0, err
	}
	for _, v := range set {
		loglog.InsertNumber(h, v)
		loglog.InsertNumber(l, v)
	}
	return h.Estimate(), l.Estimate(), nil
}

// AbsoluteError estimates numValues random values at precision p and returns
// |numValues - estimate| / numValues. Zero values are divided by one instead.
func AbsoluteError(rng *rand.Rand, numValues int, p uint, hasher loglog.Hasher) (estimate, relErr float64, err error) {
	s, err := loglog.NewWithConfig(loglog.Config{Precision: p, Hasher: hasher})
	if err != nil {
		return 0, 0, err
	}
	for i := 0; i < numValues; i++ {
		loglog.InsertNumber(s, rng.Float64())
	}
	estimate = s.Estimate()
	return estimate, math.Abs(float64(numValues)-estimate) / float64(max(numValues, 1)), nil
}

// Sweep samples the HyperLogLog error curve for cardinalities 1, 1+Step, ...
// below Sweep.Max.
func (r *Runner) Sweep(ctx context.Context) ([]SweepPoint, error) {
	sc := r.cfg.Sweep
	var sizes []int
	for n := 1; n < sc.Max; n += sc.Step {
		sizes = append(sizes, n)
	}
	r.logger.Printf("sweep: %d points up to %d, p=%d, hash=%s", len(sizes), sc.Max, sc.Precision, r.hasher.Name())

	points := make([]SweepPoint, len(sizes))
	bar := r.bar(len(sizes), "sweep")
	err := r.parallel(ctx, len(sizes), func(i int) error {
		rng := rand.New(rand.NewSource(r.cfg.Seed + int64(i)))
		est, relErr, err := AbsoluteError(rng, sizes[i], sc.Precision, r.hasher)
		if err != nil {
			return err
		}
		points[i] = SweepPoint{Cardinality: sizes[i], Estimate: est, Error: relErr}
		bar.Add(1)
		return nil
	})
	bar.Finish()
	if err != nil {
		return nil, err
	}
	return points, nil
}

// parallel runs fn(0..n-1) on the configured number of workers and returns the
// first error, or ctx.Err() if ctx ends first.
func (r *Runner) parallel(ctx context.Context, n int, fn func(i int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	workers := min(r.workers(), n)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := fn(i); err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
				}
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
