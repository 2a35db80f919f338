package cripta

import (
	"fmt"
	"strings"
)

const padChar = '\x00'

// Chunk splits the message into 64-bit blocks. The trailing partial group is
// right-padded with NUL characters; an exact multiple of 8 adds no block.
func Chunk(message string) ([]Bits, error) {
	chars := []rune(message)
	blocks := make([]Bits, 0, (len(chars)+CharsPerBlock-1)/CharsPerBlock)

	for start := 0; start < len(chars); start += CharsPerBlock {
		group := make([]rune, CharsPerBlock)
		for i := range group {
			group[i] = padChar
		}
		copy(group, chars[start:min(start+CharsPerBlock, len(chars))])

		block, err := StringToBlock(string(group))
		if err != nil {
			return nil, fmt.Errorf("failed to convert block %d: %w", len(blocks), err)
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

func Merge(blocks []Bits) (string, error) {
	var sb strings.Builder
	for i, block := range blocks {
		s, err := BlockToString(block)
		if err != nil {
			return "", fmt.Errorf("failed to convert block %d: %w", i, err)
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// TrimPadding drops the trailing NUL characters added by Chunk. A message
// that itself ended in NUL characters loses them too.
func TrimPadding(s string) string {
	return strings.TrimRight(s, string(padChar))
}
