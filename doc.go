// Package loglog estimates the number of distinct elements in a stream using the LogLog family
// of probabilistic sketches. A sketch uses a fixed amount of memory (about 0.75 * 2^p bytes for
// precision p) and costs O(1) per inserted element, in exchange for an approximate answer.
//
// Two estimators are provided. HyperLogLog, the default, follows "HyperLogLog: the analysis of a
// near-optimal cardinality estimation algorithm" by Flajolet, Fusy, Gandouet and Meunier, including
// its small-range (linear counting) and large-range corrections. Its expected relative error is
// 1.04/sqrt(2^p). LogLog follows "Loglog Counting of Large Cardinalities" by Durand and Flajolet and
// is kept as a lower-accuracy baseline.
//
// Values are hashed through their canonical byte form (see AppendCanonical) with a configurable
// Hasher. The large-range correction is computed for the hasher's actual output width, so a 32-bit
// hasher corrects at 2^32 and a 64-bit one at 2^64.
//
// Sketches with the same Config can be merged. Merging is associative, commutative and idempotent,
// which is how to ingest in parallel: give every goroutine its own sketch and merge them at the end
// (Sharded does exactly that for a channel of values).
//
// The papers are available at
// http://algo.inria.fr/flajolet/Publications/FlFuGaMe07.pdf and
// http://algo.inria.fr/flajolet/Publications/DuFl03-LNCS.pdf
package loglog
