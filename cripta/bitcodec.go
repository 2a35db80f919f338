package cripta

import (
	"fmt"
	"unicode/utf8"
)

const (
	BitsPerChar   = 8
	CharsPerBlock = 8
	BlockBits     = BitsPerChar * CharsPerBlock

	maxCharOrdinal   = 0xFF
	maxParityOrdinal = 0x7F
)

// CharToBits expands the character's ordinal to 8 bits, MSB first.
func CharToBits(c rune) (Bits, error) {
	if c < 0 || c > maxCharOrdinal {
		return nil, fmt.Errorf("%w: %U does not fit in %d bits", ErrInvalidCharacter, c, BitsPerChar)
	}
	result := make(Bits, BitsPerChar)
	for i := 0; i < BitsPerChar; i++ {
		result[i] = uint8(c>>uint(BitsPerChar-1-i)) & 1
	}
	return result, nil
}

// CharToParityBits encodes the character in 7 bits followed by a parity bit
// chosen so that the byte always has an odd number of ones.
func CharToParityBits(c rune) (Bits, error) {
	if c < 0 || c > maxParityOrdinal {
		return nil, fmt.Errorf("%w: %U does not fit in 7 bits", ErrInvalidCharacter, c)
	}
	result := make(Bits, BitsPerChar)
	ones := 0
	for i := 0; i < BitsPerChar-1; i++ {
		result[i] = uint8(c>>uint(BitsPerChar-2-i)) & 1
		ones += int(result[i])
	}
	if ones%2 == 0 {
		result[BitsPerChar-1] = 1
	}
	return result, nil
}

func BitsToChar(byteBits Bits) (rune, error) {
	if len(byteBits) != BitsPerChar {
		return 0, fmt.Errorf("%w: got %d bits", ErrInvalidByte, len(byteBits))
	}
	var c rune
	for i, bit := range byteBits {
		if bit > 1 {
			return 0, fmt.Errorf("%w: value %d at position %d is not a bit", ErrInvalidByte, bit, i)
		}
		c = c<<1 | rune(bit)
	}
	return c, nil
}

func StringToBlock(s string) (Bits, error) {
	if n := utf8.RuneCountInString(s); n != CharsPerBlock {
		return nil, fmt.Errorf("%w: block must be %d characters, got %d", ErrInvalidBlockLength, CharsPerBlock, n)
	}
	block := make(Bits, 0, BlockBits)
	for _, c := range s {
		charBits, err := CharToBits(c)
		if err != nil {
			return nil, err
		}
		block = append(block, charBits...)
	}
	return block, nil
}

func BlockToString(block Bits) (string, error) {
	if len(block) != BlockBits {
		return "", fmt.Errorf("%w: block must be %d bits, got %d", ErrInvalidBlockLength, BlockBits, len(block))
	}
	chars := make([]rune, 0, CharsPerBlock)
	for i := 0; i < BlockBits; i += BitsPerChar {
		c, err := BitsToChar(block[i : i+BitsPerChar])
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	return string(chars), nil
}
