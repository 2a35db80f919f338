package cripta

import "fmt"

const (
	HalfBlockBits = BlockBits / 2
	sBoxInputBits = 6
	sBoxOutBits   = 4
	sBoxColumns   = 16
)

// DESRoundFunction is the F-box: expansion, subkey mixing, S-box
// substitution and the P permutation.
type DESRoundFunction struct {
	tables      *TableSet
	keySchedule *DESKeySchedule
}

func NewDESRoundFunction(tables *TableSet, keySchedule *DESKeySchedule) (*DESRoundFunction, error) {
	if tables == nil {
		return nil, fmt.Errorf("%w: table set cannot be nil", ErrMalformedTable)
	}
	if keySchedule == nil {
		return nil, fmt.Errorf("key schedule cannot be nil")
	}
	return &DESRoundFunction{
		tables:      tables,
		keySchedule: keySchedule,
	}, nil
}

func (drf *DESRoundFunction) Apply(round int, halfBlock Bits) (Bits, error) {
	if len(halfBlock) != HalfBlockBits {
		return nil, fmt.Errorf("%w: F-box input must be %d bits, got %d", ErrInvalidBlockLength, HalfBlockBits, len(halfBlock))
	}
	if round < 0 || round >= Rounds {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRound, round)
	}

	expanded, err := Permute(halfBlock, drf.tables.expansion)
	if err != nil {
		return nil, fmt.Errorf("expansion failed: %w", err)
	}

	mixed, err := XorBits(expanded, drf.keySchedule.roundKeys[round])
	if err != nil {
		return nil, fmt.Errorf("subkey mixing failed in round %d: %w", round, err)
	}

	substituted := make(Bits, 0, HalfBlockBits)
	for s := 0; s < sBoxCount; s++ {
		substituted = append(substituted, drf.substitute(s, mixed[s*sBoxInputBits:(s+1)*sBoxInputBits])...)
	}

	result, err := Permute(substituted, drf.tables.roundPerm)
	if err != nil {
		return nil, fmt.Errorf("P permutation failed: %w", err)
	}

	return result, nil
}

// substitute looks up one 6-bit group: the outer bits select the row, the
// inner four the column.
func (drf *DESRoundFunction) substitute(box int, group Bits) Bits {
	row := int(group[0])<<1 | int(group[5])
	col := int(group[1])<<3 | int(group[2])<<2 | int(group[3])<<1 | int(group[4])
	value := drf.tables.sBoxes[box][row*sBoxColumns+col]

	out := make(Bits, sBoxOutBits)
	for i := range out {
		out[i] = (value >> uint(sBoxOutBits-1-i)) & 1
	}
	return out
}
