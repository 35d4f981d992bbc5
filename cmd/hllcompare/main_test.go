package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/lytics/loglog/internal/compare"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T) *compare.Runner {
	cfg := compare.DefaultConfig()
	cfg.Elements = 1000
	cfg.Trials = 2
	cfg.Sweep = compare.SweepConfig{Max: 200, Step: 100, Precision: 8}
	r, err := compare.NewRunner(cfg, nil)
	require.NoError(t, err)
	return r
}

func TestRunSweepCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sweep.csv")
	require.NoError(t, run(context.Background(), testRunner(t), "sweep", out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestRunErrors(t *testing.T) {
	r := testRunner(t)

	err := run(context.Background(), r, "histogram", "")
	require.EqualError(t, err, `unknown mode "histogram"`)

	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")
	err = run(context.Background(), r, "compare", missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "failed to create output file")
}
