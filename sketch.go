package loglog

import (
	"iter"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

const (
	// MinPrecision and MaxPrecision bound the precision of a sketch. A sketch
	// with precision p has 2^p registers and uses about 0.75 * 2^p bytes.
	MinPrecision = 4
	MaxPrecision = 16
)

// Config describes a sketch. Sketches can only be merged when their configs
// agree.
type Config struct {
	// Precision is log2 of the number of registers, in [4,16].
	Precision uint
	// Variant selects the rank convention and estimator. The zero value is
	// HyperLogLog.
	Variant Variant
	// Hasher maps canonical bytes to hashes. Nil means DefaultHasher.
	Hasher Hasher
}

func (c Config) validate() (Config, error) {
	if c.Precision < MinPrecision || c.Precision > MaxPrecision {
		return c, errors.Wrapf(ErrInvalidPrecision, "precision %d not in [%d,%d]",
			c.Precision, MinPrecision, MaxPrecision)
	}
	if c.Variant != HyperLogLog && c.Variant != LogLog {
		return c, errors.Errorf("loglog: unknown variant %s", c.Variant)
	}
	if c.Hasher == nil {
		c.Hasher = DefaultHasher
	}
	if w := c.Hasher.Width(); w != 32 && w != 64 {
		return c, errors.Errorf("loglog: hash width %d for %s, want 32 or 64", w, c.Hasher.Name())
	}
	return c, nil
}

// Sketch estimates the number of distinct values inserted into it.
//
// A Sketch is not safe for concurrent use. To ingest in parallel, give each
// goroutine its own sketch and Merge the results (see Sharded).
type Sketch struct {
	cfg       Config
	regs      registers
	p         uint
	m         uint64
	width     uint
	widthMask uint64
	buf       []byte // scratch space for canonical encodings
}

// New returns an empty HyperLogLog sketch with precision p and the default
// hash strategy.
func New(p uint) (*Sketch, error) {
	return NewWithConfig(Config{Precision: p})
}

// NewWithConfig returns an empty sketch for cfg.
func NewWithConfig(cfg Config) (*Sketch, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return newSketch(cfg), nil
}

func newSketch(cfg Config) *Sketch {
	s := &Sketch{
		cfg:   cfg,
		p:     cfg.Precision,
		m:     1 << cfg.Precision,
		width: cfg.Hasher.Width(),
	}
	s.widthMask = onesFromTo(0, s.width-1)
	s.regs = newRegisters(s.m)
	return s
}

// FromRegisters builds a sketch whose registers hold regs. The slice must have
// 2^Precision entries, each no larger than the largest rank the config can
// produce.
func FromRegisters(cfg Config, regs []uint8) (*Sketch, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	s := newSketch(cfg)
	if uint64(len(regs)) != s.m {
		return nil, errors.Wrapf(ErrInvalidRegisters, "got %d registers, want %d", len(regs), s.m)
	}
	limit := maxRank(s.width, s.p, cfg.Variant)
	for i, r := range regs {
		if r > limit {
			return nil, errors.Wrapf(ErrInvalidRegisters, "register %d holds %d, limit is %d", i, r, limit)
		}
		s.regs.set(uint64(i), r)
	}
	return s, nil
}

// Config returns the configuration the sketch was built with.
func (s *Sketch) Config() Config { return s.cfg }

// Precision returns the precision p; the sketch has 2^p registers.
func (s *Sketch) Precision() uint { return s.p }

// Variant returns the rank convention and estimator in use.
func (s *Sketch) Variant() Variant { return s.cfg.Variant }

// Hasher returns the hash strategy in use.
func (s *Sketch) Hasher() Hasher { return s.cfg.Hasher }

// InsertHash records a value by its hash. Bits above the hasher's width are
// ignored. Use this when values are already hashed with the sketch's Hasher.
func (s *Sketch) InsertHash(x uint64) {
	bucket, w := split(x&s.widthMask, s.p)
	s.regs.setMax(bucket, rank(w, s.width, s.p, s.cfg.Variant))
}

// InsertBytes records a value by its canonical bytes.
func (s *Sketch) InsertBytes(b []byte) {
	s.InsertHash(s.cfg.Hasher.Sum64(b))
}

// InsertString records a string value.
func (s *Sketch) InsertString(str string) {
	s.buf = append(s.buf[:0], str...)
	s.InsertBytes(s.buf)
}

// Insert records v by its canonical form (see AppendCanonical). The error
// wraps ErrHashFailure when v has no canonical form; the sketch is unchanged
// in that case.
func (s *Sketch) Insert(v any) error {
	b, err := AppendCanonical(s.buf[:0], v)
	if err != nil {
		return err
	}
	s.buf = b
	s.InsertBytes(b)
	return nil
}

// InsertNumber records an integer or float with the same canonical form
// Insert uses, without boxing it in an interface.
func InsertNumber[T constraints.Integer | constraints.Float](s *Sketch, v T) {
	s.buf = appendNumber(s.buf[:0], v)
	s.InsertBytes(s.buf)
}

// InsertSeq records every value the sequence yields.
func (s *Sketch) InsertSeq(seq iter.Seq[[]byte]) {
	for b := range seq {
		s.InsertBytes(b)
	}
}

// Registers returns a copy of the register array.
func (s *Sketch) Registers() []uint8 {
	out := make([]uint8, s.m)
	for i := range out {
		out[i] = s.regs.get(uint64(i))
	}
	return out
}

// Clone returns an independent copy of the sketch.
func (s *Sketch) Clone() *Sketch {
	c := *s
	c.regs = s.regs.clone()
	c.buf = nil
	return &c
}

// Reset empties the sketch, returning every register to zero.
func (s *Sketch) Reset() {
	s.regs.clear()
}

// Equal reports whether two sketches share a config and hold the same
// registers.
func (s *Sketch) Equal(other *Sketch) bool {
	if s.compatible(other) != nil {
		return false
	}
	for i := uint64(0); i < s.m; i++ {
		if s.regs.get(i) != other.regs.get(i) {
			return false
		}
	}
	return true
}

func (s *Sketch) compatible(other *Sketch) error {
	if s.p != other.p {
		return errors.Wrapf(ErrPrecisionMismatch, "p=%d/%d", s.p, other.p)
	}
	if s.cfg.Variant != other.cfg.Variant {
		return errors.Wrapf(ErrConfigMismatch, "variant %s/%s", s.cfg.Variant, other.cfg.Variant)
	}
	if !sameHasher(s.cfg.Hasher, other.cfg.Hasher) {
		return errors.Wrapf(ErrConfigMismatch, "hasher %s/%s", s.cfg.Hasher.Name(), other.cfg.Hasher.Name())
	}
	return nil
}

// Combine merges other into s. Afterwards s estimates the cardinality of the
// union of both inputs. other is not modified.
//
// The sketches must share precision, variant and hash strategy.
func (s *Sketch) Combine(other *Sketch) error {
	if s == nil || other == nil {
		return errors.Wrap(ErrNoSketches, "nil sketch")
	}
	if err := s.compatible(other); err != nil {
		return err
	}
	s.regs.maxWith(other.regs, s.m)
	return nil
}

// Merge returns a new sketch holding the union of the inputs; the inputs are
// not modified. Merge is associative, commutative and idempotent, so shards
// of a stream can be summarized independently and merged in any order.
func Merge(sketches ...*Sketch) (*Sketch, error) {
	if len(sketches) == 0 {
		return nil, ErrNoSketches
	}
	for i, s := range sketches {
		if s == nil {
			return nil, errors.Wrapf(ErrNoSketches, "sketch %d is nil", i)
		}
	}
	out := sketches[0].Clone()
	for _, other := range sketches[1:] {
		if err := out.Combine(other); err != nil {
			return nil, err
		}
	}
	return out, nil
}
