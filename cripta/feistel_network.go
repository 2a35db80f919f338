package cripta

import (
	"fmt"
)

type RoundOrder int

const (
	Forward RoundOrder = iota
	Reverse
)

func (ro RoundOrder) String() string {
	if ro == Reverse {
		return "reverse"
	}
	return "forward"
}

// FeistelNetwork runs IP, the 16 rounds and FP over a single 64-bit block.
// It keeps no per-call state, so one instance serves concurrent callers.
type FeistelNetwork struct {
	tables        *TableSet
	roundFunction IRoundFunction
	roundsCount   int

	// standardSwap emits R16||L16 before FP, as FIPS 46 does. Without it the
	// halves are emitted as L16||R16 and Reverse runs the inverted round.
	standardSwap bool
}

func NewFeistelNetwork(
	tables *TableSet,
	roundFunctionImpl IRoundFunction,
	standardSwap bool,
) (*FeistelNetwork, error) {

	if tables == nil {
		return nil, fmt.Errorf("%w: table set cannot be nil", ErrMalformedTable)
	}
	if roundFunctionImpl == nil {
		return nil, fmt.Errorf("round function implementation cannot be nil")
	}

	return &FeistelNetwork{
		tables:        tables,
		roundFunction: roundFunctionImpl,
		roundsCount:   Rounds,
		standardSwap:  standardSwap,
	}, nil
}

func (fn *FeistelNetwork) GetRoundsCount() int {
	return fn.roundsCount
}

func (fn *FeistelNetwork) splitBlock(block Bits) (Bits, Bits) {
	halfSize := len(block) / 2
	left := append(Bits(nil), block[:halfSize]...)
	right := append(Bits(nil), block[halfSize:]...)
	return left, right
}

func (fn *FeistelNetwork) roundSequence(order RoundOrder) []int {
	rounds := make([]int, fn.roundsCount)
	for i := range rounds {
		if order == Reverse {
			rounds[i] = fn.roundsCount - 1 - i
		} else {
			rounds[i] = i
		}
	}
	return rounds
}

// Transform encrypts the block with Forward order and decrypts it with
// Reverse order.
func (fn *FeistelNetwork) Transform(block Bits, order RoundOrder) (Bits, error) {
	if len(block) != BlockBits {
		return nil, fmt.Errorf("%w: block must be %d bits, got %d", ErrInvalidBlockLength, BlockBits, len(block))
	}

	permuted, err := Permute(block, fn.tables.initialPerm)
	if err != nil {
		return nil, fmt.Errorf("IP permutation failed: %w", err)
	}

	left, right := fn.splitBlock(permuted)

	if order == Forward || fn.standardSwap {
		left, right, err = fn.forwardRounds(left, right, order)
	} else {
		left, right, err = fn.inverseRounds(left, right)
	}
	if err != nil {
		return nil, err
	}

	var joined Bits
	if fn.standardSwap {
		joined = ConcatBits(right, left)
	} else {
		joined = ConcatBits(left, right)
	}

	result, err := Permute(joined, fn.tables.finalPerm)
	if err != nil {
		return nil, fmt.Errorf("FP permutation failed: %w", err)
	}

	return result, nil
}

func (fn *FeistelNetwork) forwardRounds(left, right Bits, order RoundOrder) (Bits, Bits, error) {
	for _, round := range fn.roundSequence(order) {
		functionOutput, err := fn.roundFunction.Apply(round, right)
		if err != nil {
			return nil, nil, fmt.Errorf("round function error in round %d: %w", round, err)
		}

		newRight, err := XorBits(left, functionOutput)
		if err != nil {
			return nil, nil, fmt.Errorf("xor operation failed in round %d: %w", round, err)
		}

		left, right = right, newRight
	}
	return left, right, nil
}

// inverseRounds undoes forwardRounds when no final swap was applied:
// L, R = R ^ F(r, L), L for r = 15..0.
func (fn *FeistelNetwork) inverseRounds(left, right Bits) (Bits, Bits, error) {
	for _, round := range fn.roundSequence(Reverse) {
		functionOutput, err := fn.roundFunction.Apply(round, left)
		if err != nil {
			return nil, nil, fmt.Errorf("round function error in round %d: %w", round, err)
		}

		newLeft, err := XorBits(right, functionOutput)
		if err != nil {
			return nil, nil, fmt.Errorf("xor operation failed in round %d: %w", round, err)
		}

		left, right = newLeft, left
	}
	return left, right, nil
}
