package loglog

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/pkg/errors"
	"github.com/twmb/murmur3"
	"golang.org/x/crypto/blake2b"
)

// Hasher maps the canonical bytes of a value to a uniformly distributed
// integer. Only the low Width() bits of the result may be set.
//
// Implementations must be pure: the same input yields the same output on
// every call and in every process.
type Hasher interface {
	Sum64(b []byte) uint64
	// Width is the number of hash bits consumed by a sketch, 32 or 64.
	Width() uint
	Name() string
}

// The built-in hash strategies. XXHash is the default; the cryptographic ones
// are slower and exist for comparison and for inputs chosen by an adversary.
var (
	XXHash     Hasher = xxHasher{}
	Murmur3    Hasher = murmur3Hasher{}
	Murmur3x32 Hasher = murmur3x32Hasher{}
	SHA1       Hasher = sha1Hasher{}
	SHA256     Hasher = sha256Hasher{}
	Blake2b    Hasher = blake2bHasher{}
)

// DefaultHasher is used when a Config leaves Hasher nil.
var DefaultHasher = XXHash

type xxHasher struct{}

func (xxHasher) Sum64(b []byte) uint64 { return xxhash.Sum64(b) }
func (xxHasher) Width() uint           { return 64 }
func (xxHasher) Name() string          { return "xxhash" }

type murmur3Hasher struct{}

func (murmur3Hasher) Sum64(b []byte) uint64 { return murmur3.Sum64(b) }
func (murmur3Hasher) Width() uint           { return 64 }
func (murmur3Hasher) Name() string          { return "murmur3" }

type murmur3x32Hasher struct{}

func (murmur3x32Hasher) Sum64(b []byte) uint64 { return uint64(murmur3.Sum32(b)) }
func (murmur3x32Hasher) Width() uint           { return 32 }
func (murmur3x32Hasher) Name() string          { return "murmur3-32" }

// SHA-1 keeps the low 64 bits of the digest read as a big-endian integer, so
// buckets and ranks match those taken from the full 160-bit value.
type sha1Hasher struct{}

func (sha1Hasher) Sum64(b []byte) uint64 {
	sum := sha1.Sum(b)
	return binary.BigEndian.Uint64(sum[sha1.Size-8:])
}
func (sha1Hasher) Width() uint  { return 64 }
func (sha1Hasher) Name() string { return "sha1" }

// SHA-256 and BLAKE2b keep the first 8 bytes, big-endian.
type sha256Hasher struct{}

func (sha256Hasher) Sum64(b []byte) uint64 {
	sum := sha256.Sum256(b)
	return binary.BigEndian.Uint64(sum[:8])
}
func (sha256Hasher) Width() uint  { return 64 }
func (sha256Hasher) Name() string { return "sha256" }

type blake2bHasher struct{}

func (blake2bHasher) Sum64(b []byte) uint64 {
	sum := blake2b.Sum256(b)
	return binary.BigEndian.Uint64(sum[:8])
}
func (blake2bHasher) Width() uint  { return 64 }
func (blake2bHasher) Name() string { return "blake2b" }

// SipHasher is a keyed hash strategy. Sketches that are merged must share
// the same key.
type SipHasher struct {
	k0, k1 uint64
}

// NewSipHash returns a SipHash-2-4 strategy keyed with k0 and k1.
func NewSipHash(k0, k1 uint64) *SipHasher {
	return &SipHasher{k0: k0, k1: k1}
}

func (s *SipHasher) Sum64(b []byte) uint64 { return siphash.Hash(s.k0, s.k1, b) }
func (s *SipHasher) Width() uint           { return 64 }
func (s *SipHasher) Name() string          { return "siphash" }

// LookupHasher resolves one of the built-in strategies by name. SipHash is
// returned with a zero key.
func LookupHasher(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "xxhash":
		return XXHash, nil
	case "murmur3":
		return Murmur3, nil
	case "murmur3-32":
		return Murmur3x32, nil
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "blake2b":
		return Blake2b, nil
	case "siphash":
		return NewSipHash(0, 0), nil
	}
	return nil, errors.Errorf("loglog: unknown hash strategy %q", name)
}

// sameHasher reports whether two strategies produce identical hashes. Names
// alone are not trusted: a user type may reuse a built-in name.
func sameHasher(a, b Hasher) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || a.Name() != b.Name() || a.Width() != b.Width() {
		return false
	}
	if sa, ok := a.(*SipHasher); ok {
		return *sa == *b.(*SipHasher)
	}
	return true
}
