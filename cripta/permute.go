package cripta

import (
	"fmt"
	"strings"
)

// Bits holds one bit per element, most significant bit first.
type Bits []uint8

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit == 0 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

// Bytes packs the bits into bytes, MSB first. A trailing partial byte is
// padded with zero bits on the right.
func (b Bits) Bytes() []uint8 {
	result := make([]uint8, (len(b)+7)/8)
	for i, bit := range b {
		result[i/8] |= (bit & 1) << (7 - uint(i%8))
	}
	return result
}

func BitsFromBytes(data []uint8) Bits {
	result := make(Bits, 0, len(data)*8)
	for _, byteVal := range data {
		for shift := 7; shift >= 0; shift-- {
			result = append(result, (byteVal>>uint(shift))&1)
		}
	}
	return result
}

// Permute builds output[i] = value[rule[i]]. Rules are 0-based; raw 1-based
// tables are converted once by NewTableSet.
func Permute(value Bits, rule []int) (Bits, error) {
	result := make(Bits, len(rule))
	for i, sourcePos := range rule {
		if sourcePos < 0 || sourcePos >= len(value) {
			return nil, fmt.Errorf("position %d out of bounds for %d-bit input", sourcePos, len(value))
		}
		result[i] = value[sourcePos]
	}
	return result, nil
}

func XorBits(left, right Bits) (Bits, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: cannot xor %d bits with %d bits", ErrInvalidBlockLength, len(left), len(right))
	}
	result := make(Bits, len(left))
	for i := range left {
		result[i] = left[i] ^ right[i]
	}
	return result, nil
}

func ConcatBits(parts ...Bits) Bits {
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	result := make(Bits, 0, size)
	for _, part := range parts {
		result = append(result, part...)
	}
	return result
}

// RotateLeft returns a circular left rotation: bit (i + shifts) mod n of the
// input becomes bit i of the output.
func RotateLeft(value Bits, shifts int) Bits {
	n := len(value)
	result := make(Bits, n)
	if n == 0 {
		return result
	}
	for i := range result {
		result[i] = value[(i+shifts)%n]
	}
	return result
}

// HammingDistance counts differing positions over the common prefix, plus
// the length difference.
func HammingDistance(left, right Bits) int {
	minSize, maxSize := len(left), len(right)
	if minSize > maxSize {
		minSize, maxSize = maxSize, minSize
	}
	distance := maxSize - minSize
	for i := 0; i < minSize; i++ {
		if left[i] != right[i] {
			distance++
		}
	}
	return distance
}
