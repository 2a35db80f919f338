package cripta

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const (
	Rounds      = 16
	sBoxCount   = 8
	sBoxEntries = 64
	halfKeyBits = 28
)

// Row positions in the table provider's fixed order.
const (
	rowIP = iota
	rowFP
	rowExpansion
	rowRoundPerm
	rowSBox1
)

const (
	rowKeyPerm = rowSBox1 + sBoxCount + iota
	rowRotations
	rowKeyCompress
	tableRowCount
)

type tableShape struct {
	name        string
	width       int
	minValue    int
	maxValue    int
	permutation bool
}

var tableShapes = [tableRowCount]tableShape{
	rowIP:          {"IP", BlockBits, 1, BlockBits, true},
	rowFP:          {"FP", BlockBits, 1, BlockBits, true},
	rowExpansion:   {"E", 48, 1, 32, true},
	rowRoundPerm:   {"P", 32, 1, 32, true},
	rowSBox1:       {"S1", sBoxEntries, 0, 15, false},
	rowSBox1 + 1:   {"S2", sBoxEntries, 0, 15, false},
	rowSBox1 + 2:   {"S3", sBoxEntries, 0, 15, false},
	rowSBox1 + 3:   {"S4", sBoxEntries, 0, 15, false},
	rowSBox1 + 4:   {"S5", sBoxEntries, 0, 15, false},
	rowSBox1 + 5:   {"S6", sBoxEntries, 0, 15, false},
	rowSBox1 + 6:   {"S7", sBoxEntries, 0, 15, false},
	rowSBox1 + 7:   {"S8", sBoxEntries, 0, 15, false},
	rowKeyPerm:     {"PC1", 2 * halfKeyBits, 1, BlockBits, true},
	rowRotations:   {"rotations", Rounds, 0, halfKeyBits, false},
	rowKeyCompress: {"PC2", 48, 1, 2 * halfKeyBits, true},
}

func (ts tableShape) check(row []int) error {
	if len(row) != ts.width {
		return fmt.Errorf("%w: %s must have %d entries, got %d", ErrMalformedTable, ts.name, ts.width, len(row))
	}
	for i, v := range row {
		if v < ts.minValue || v > ts.maxValue {
			return fmt.Errorf("%w: %s entry %d is %d, want [%d, %d]",
				ErrMalformedTable, ts.name, i, v, ts.minValue, ts.maxValue)
		}
	}
	return nil
}

// TableSet is the validated, read-only set of DES tables. Permutation tables
// are held 0-based.
type TableSet struct {
	initialPerm []int
	finalPerm   []int
	expansion   []int
	roundPerm   []int
	sBoxes      [sBoxCount][sBoxEntries]uint8
	keyPerm     []int
	rotations   []int
	keyCompress []int
}

// NewTableSet validates the rows (IP, FP, E, P, S1..S8, PC1, rotations, PC2)
// and reports every violation at once.
func NewTableSet(rows [][]int) (*TableSet, error) {
	if len(rows) != tableRowCount {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedTable, tableRowCount, len(rows))
	}

	var result *multierror.Error
	for i, shape := range tableShapes {
		if err := shape.check(rows[i]); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	ts := &TableSet{
		initialPerm: zeroBased(rows[rowIP]),
		finalPerm:   zeroBased(rows[rowFP]),
		expansion:   zeroBased(rows[rowExpansion]),
		roundPerm:   zeroBased(rows[rowRoundPerm]),
		keyPerm:     zeroBased(rows[rowKeyPerm]),
		rotations:   append([]int(nil), rows[rowRotations]...),
		keyCompress: zeroBased(rows[rowKeyCompress]),
	}
	for s := 0; s < sBoxCount; s++ {
		for j, v := range rows[rowSBox1+s] {
			ts.sBoxes[s][j] = uint8(v)
		}
	}

	return ts, nil
}

func zeroBased(row []int) []int {
	result := make([]int, len(row))
	for i, v := range row {
		result[i] = v - 1
	}
	return result
}

// FinalInvertsInitial reports whether FP undoes IP for every bit position.
func (ts *TableSet) FinalInvertsInitial() bool {
	for i, src := range ts.finalPerm {
		if ts.initialPerm[src] != i {
			return false
		}
	}
	return true
}

func (ts *TableSet) Rotations() []int {
	return append([]int(nil), ts.rotations...)
}

// CumulativeRotations turns per-round shift counts (1, 1, 2, 2, ...) into
// the total shift of each round relative to the base key.
func CumulativeRotations(perRound []int) []int {
	result := make([]int, len(perRound))
	total := 0
	for i, shifts := range perRound {
		total += shifts
		result[i] = total
	}
	return result
}
