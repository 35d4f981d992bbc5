package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one row per trial with the estimates of both variants.
func WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"run_id", "trial", "precision", "hash", "true_count", "hyperloglog", "loglog"})
	truth := strconv.Itoa(res.Config.Elements)
	p := strconv.FormatUint(uint64(res.Config.Precision), 10)
	for i := range res.HyperLogLog.Estimates {
		cw.Write([]string{
			res.RunID,
			strconv.Itoa(i),
			p,
			res.Config.Hash,
			truth,
			fmt.Sprintf("%.2f", res.HyperLogLog.Estimates[i]),
			fmt.Sprintf("%.2f", res.LogLog.Estimates[i]),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteSweepCSV writes the error curve.
func WriteSweepCSV(w io.Writer, points []SweepPoint) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"true_count", "estimate", "error"})
	for _, pt := range points {
		cw.Write([]string{
			strconv.Itoa(pt.Cardinality),
			fmt.Sprintf("%.2f", pt.Estimate),
			fmt.Sprintf("%.6f", pt.Error),
		})
	}
	cw.Flush()
	return cw.Error()
}

// Summary is a one-line human readable description of a result.
func (r *Result) Summary() string {
	return fmt.Sprintf("run %s: h_err=%.5f l_err=%.5f (bound %.5f, %d trials of %d elements)",
		r.RunID, r.HyperLogLog.MAPE, r.LogLog.MAPE, r.Bound, r.Config.Trials, r.Config.Elements)
}
