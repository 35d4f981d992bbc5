package compare

import (
	"os"

	"github.com/lytics/loglog"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Config drives a comparison run. It can be loaded from YAML or JSON.
type Config struct {
	// Elements is the true cardinality of each generated data set.
	Elements int `json:"elements"`
	// Trials is how many data sets are generated and estimated.
	Trials int `json:"trials"`
	// MaxRepeats bounds how many extra copies of each unique value a data set
	// holds; each value gets between 1 and MaxRepeats.
	MaxRepeats int `json:"maxRepeats"`
	// Precision of both sketches.
	Precision uint `json:"precision"`
	// Hash names the hash strategy, see loglog.LookupHasher.
	Hash string `json:"hash"`
	// Workers run trials in parallel. Zero means one per CPU.
	Workers int `json:"workers"`
	// Seed makes runs reproducible. Trial i uses Seed+i.
	Seed int64 `json:"seed"`
	// Sweep configures the error-curve mode.
	Sweep SweepConfig `json:"sweep"`
}

// SweepConfig describes the error curve: one HyperLogLog estimate for every
// cardinality 1, 1+Step, ... below Max.
type SweepConfig struct {
	Max       int  `json:"max"`
	Step      int  `json:"step"`
	Precision uint `json:"precision"`
}

// DefaultConfig mirrors the classic experiment: 100000 elements, values
// duplicated 1 to 10 times, precision 10.
func DefaultConfig() Config {
	return Config{
		Elements:   100000,
		Trials:     100,
		MaxRepeats: 10,
		Precision:  10,
		Hash:       "xxhash",
		Seed:       1,
		Sweep: SweepConfig{
			Max:       100000,
			Step:      1000,
			Precision: 10,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Elements <= 0:
		return errors.Errorf("elements must be positive, got %d", c.Elements)
	case c.Trials <= 0:
		return errors.Errorf("trials must be positive, got %d", c.Trials)
	case c.MaxRepeats < 1:
		return errors.Errorf("maxRepeats must be at least 1, got %d", c.MaxRepeats)
	case c.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	case c.Sweep.Max < 1 || c.Sweep.Step < 1:
		return errors.Errorf("sweep max and step must be positive, got %d/%d", c.Sweep.Max, c.Sweep.Step)
	}
	if _, err := loglog.LookupHasher(c.Hash); err != nil {
		return err
	}
	for _, p := range []uint{c.Precision, c.Sweep.Precision} {
		if p < loglog.MinPrecision || p > loglog.MaxPrecision {
			return errors.Wrapf(loglog.ErrInvalidPrecision, "precision %d", p)
		}
	}
	return nil
}
