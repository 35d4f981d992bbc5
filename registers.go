package loglog

// maxRegisterValue is the largest rank a 6-bit register can hold. The largest
// rank any configuration produces is 64-minPrecision+1 = 61.
const maxRegisterValue = 1<<6 - 1

// registers is a dense array of 6-bit registers. Four registers share three
// bytes.
type registers []byte

func newRegisters(numRegisters uint64) registers {
	numBytes := (numRegisters*3)/4 + 1 // +1 to round up
	return make([]byte, numBytes)
}

// get assumes that registerIdx is within range. It may panic if not.
func (r registers) get(registerIdx uint64) uint8 {
	byteIdx, startBit, numInSecondByte := bitPosn(registerIdx)

	result := (r[byteIdx] >> startBit) & maxRegisterValue
	if numInSecondByte == 0 {
		return result
	}
	result <<= numInSecondByte
	lowOrderMask := uint8(onesFromTo(0, numInSecondByte-1))
	result |= r[byteIdx+1] & lowOrderMask
	return result
}

func (r registers) set(registerIdx uint64, val uint8) {
	byteIdx, startBit, numInSecondByte := bitPosn(registerIdx)

	b1 := r[byteIdx]
	b1 = b1 &^ uint8(onesFromTo(startBit, startBit+6-1)) // Clear bits holding this register.
	b1 |= (val >> numInSecondByte) << startBit
	r[byteIdx] = b1

	if numInSecondByte == 0 {
		return
	}

	lowOrderMask := uint8(onesFromTo(0, numInSecondByte-1))
	b2 := r[byteIdx+1] &^ lowOrderMask // Clear bits holding this register.
	b2 |= val & lowOrderMask
	r[byteIdx+1] = b2
}

// setMax raises a register to val. It reports whether the register changed;
// a register is never lowered.
func (r registers) setMax(registerIdx uint64, val uint8) bool {
	if val <= r.get(registerIdx) {
		return false
	}
	r.set(registerIdx, val)
	return true
}

// maxWith folds other into r as a pointwise maximum over the first n registers.
func (r registers) maxWith(other registers, n uint64) {
	for i := uint64(0); i < n; i++ {
		r.setMax(i, other.get(i))
	}
}

func (r registers) clone() registers {
	c := make(registers, len(r))
	copy(c, r)
	return c
}

func (r registers) clear() {
	for i := range r {
		r[i] = 0
	}
}

// Given a register number, returns the bit position where it can be found in the byte slice.
func bitPosn(registerIdx uint64) (byteIdx uint64, startBit, numInSecondByte uint) {
	bitIdx := registerIdx * 6

	byteIdx = bitIdx / 8
	startBit = uint(bitIdx % 8)
	numInFirstByte := min(6, 8-startBit)
	numInSecondByte = 6 - numInFirstByte

	return
}
