package loglog

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// canonicalNaN is the single bit pattern every NaN is folded to.
const canonicalNaN = 0x7ff8000000000001

// AppendCanonical appends the canonical byte form of v to dst. The canonical
// form is what a sketch hashes, so two values with equal canonical bytes are
// counted as one element.
//
//   - []byte and string: their bytes.
//   - integers: 8 bytes, big-endian, of the value as a uint64. Negative values
//     are written as their two's complement after a leading 0xff byte, so -1
//     and math.MaxUint64 stay distinct.
//   - floats: 8 bytes, big-endian IEEE-754 bits of the float64 value, with -0
//     folded to +0 and every NaN folded to one pattern.
//   - bool: one byte, 0 or 1.
//   - encoding.BinaryMarshaler, encoding.TextMarshaler and fmt.Stringer, in
//     that order of preference.
//
// Any other type yields an error wrapping ErrHashFailure.
func AppendCanonical(dst []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return append(dst, x...), nil
	case string:
		return append(dst, x...), nil
	case int:
		return appendNumber(dst, x), nil
	case int8:
		return appendNumber(dst, x), nil
	case int16:
		return appendNumber(dst, x), nil
	case int32:
		return appendNumber(dst, x), nil
	case int64:
		return appendNumber(dst, x), nil
	case uint:
		return appendNumber(dst, x), nil
	case uint8:
		return appendNumber(dst, x), nil
	case uint16:
		return appendNumber(dst, x), nil
	case uint32:
		return appendNumber(dst, x), nil
	case uint64:
		return appendNumber(dst, x), nil
	case uintptr:
		return appendNumber(dst, x), nil
	case float32:
		return appendNumber(dst, x), nil
	case float64:
		return appendNumber(dst, x), nil
	case bool:
		if x {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case encoding.BinaryMarshaler:
		b, err := x.MarshalBinary()
		if err != nil {
			return dst, errors.Wrapf(ErrHashFailure, "marshal %T: %v", v, err)
		}
		return append(dst, b...), nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return dst, errors.Wrapf(ErrHashFailure, "marshal %T: %v", v, err)
		}
		return append(dst, b...), nil
	case fmt.Stringer:
		return append(dst, x.String()...), nil
	}
	return dst, errors.Wrapf(ErrHashFailure, "no canonical form for %T", v)
}

// negativeMark precedes the two's complement bytes of a negative integer.
const negativeMark = 0xff

// appendNumber writes integers as the 8 bytes of their value and floats through
// appendFloat, so 3, int8(3) and uint16(3) share a form.
func appendNumber[T constraints.Integer | constraints.Float](dst []byte, v T) []byte {
	if T(1)/2 != 0 {
		return appendFloat(dst, float64(v))
	}
	if v < 0 {
		dst = append(dst, negativeMark)
		return binary.BigEndian.AppendUint64(dst, uint64(int64(v)))
	}
	return binary.BigEndian.AppendUint64(dst, uint64(v))
}

func appendFloat(dst []byte, f float64) []byte {
	var bits uint64
	switch {
	case math.IsNaN(f):
		bits = canonicalNaN
	case f == 0:
		bits = 0
	default:
		bits = math.Float64bits(f)
	}
	return binary.BigEndian.AppendUint64(dst, bits)
}
