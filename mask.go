package bmpio

import "math/bits"

// maskShift returns the bit offset of the lowest set bit of mask and the
// mask shifted down to zero base — the maximum value the masked field can
// hold (0x1F for a 5-bit field, 0xFF for a byte-aligned one). A zero mask
// yields (0, 0). The pair works in both directions:
//
//	extract:  (word & mask) >> offset
//	pack:     (value << offset) & mask
//
// Masks are not required to be byte-aligned.
func maskShift(mask uint32) (offset uint, max uint32) {
	if mask == 0 {
		return 0, 0
	}
	offset = uint(bits.TrailingZeros32(mask))
	return offset, mask >> offset
}

// scaleChannel rescales v linearly from [0, fromMax] to [0, toMax],
// rounding to nearest. v is returned unchanged when fromMax == toMax or
// fromMax == 0 (an absent channel must not divide by zero). Rounding makes
// a 1-bit field scale to exactly 0x00 or 0xFF.
func scaleChannel(v uint8, fromMax, toMax uint32) uint8 {
	if fromMax == toMax || fromMax == 0 {
		return v
	}
	return uint8((uint32(v)*toMax + fromMax/2) / fromMax)
}
