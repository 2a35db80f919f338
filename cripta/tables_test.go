package cripta

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTables(t testing.TB) *TableSet {
	t.Helper()
	ts, err := DefaultTableSet()
	require.NoError(t, err)
	return ts
}

func defaultRows(t testing.TB) [][]int {
	t.Helper()
	rows, err := DefaultTableRows()
	require.NoError(t, err)
	return rows
}

func TestDefaultTableRowsShape(t *testing.T) {
	rows := defaultRows(t)
	require.Len(t, rows, tableRowCount)

	widths := make([]int, len(rows))
	for i, row := range rows {
		widths[i] = len(row)
	}
	assert.Equal(t, []int{64, 64, 48, 32, 64, 64, 64, 64, 64, 64, 64, 64, 56, 16, 48}, widths)
}

func TestNewTableSetStoresZeroBasedTables(t *testing.T) {
	ts := defaultTables(t)

	assert.Equal(t, 57, ts.initialPerm[0])
	assert.Equal(t, 39, ts.finalPerm[0])
	assert.Equal(t, []int{31, 0, 1, 2, 3, 4}, ts.expansion[:6])
	assert.Equal(t, uint8(14), ts.sBoxes[0][0])
	assert.Equal(t, uint8(11), ts.sBoxes[7][63])
}

func TestFinalPermutationInvertsInitial(t *testing.T) {
	ts := defaultTables(t)
	require.True(t, ts.FinalInvertsInitial())

	rng := rand.New(rand.NewSource(46))
	for i := 0; i < 32; i++ {
		block := make(Bits, BlockBits)
		for j := range block {
			block[j] = uint8(rng.Intn(2))
		}

		permuted, err := Permute(block, ts.initialPerm)
		require.NoError(t, err)
		restored, err := Permute(permuted, ts.finalPerm)
		require.NoError(t, err)

		assert.Equal(t, block, restored)
	}
}

func TestFinalInvertsInitialDetectsBrokenPair(t *testing.T) {
	rows := defaultRows(t)
	rows[rowFP][0], rows[rowFP][1] = rows[rowFP][1], rows[rowFP][0]

	ts, err := NewTableSet(rows)
	require.NoError(t, err)
	assert.False(t, ts.FinalInvertsInitial())
}

func TestNewTableSetRowCount(t *testing.T) {
	rows := defaultRows(t)

	_, err := NewTableSet(rows[:tableRowCount-1])
	require.ErrorIs(t, err, ErrMalformedTable)

	_, err = NewTableSet(append(rows, []int{1}))
	require.ErrorIs(t, err, ErrMalformedTable)
}

func TestNewTableSetReportsEveryViolation(t *testing.T) {
	rows := defaultRows(t)
	rows[rowExpansion] = rows[rowExpansion][:47]
	rows[rowSBox1+2][5] = 16
	rows[rowKeyCompress][0] = 57
	rows[rowRotations][3] = -1

	_, err := NewTableSet(rows)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedTable)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)

	msg := err.Error()
	for _, name := range []string{"E must have 48 entries", "S3 entry 5", "PC2 entry 0", "rotations entry 3"} {
		assert.Contains(t, msg, name)
	}
}

func TestNewTableSetDoesNotAliasInput(t *testing.T) {
	rows := defaultRows(t)
	ts, err := NewTableSet(rows)
	require.NoError(t, err)

	rows[rowRotations][0] = 5
	rows[rowIP][0] = 1
	assert.Equal(t, 1, ts.Rotations()[0])
	assert.Equal(t, 57, ts.initialPerm[0])
}

func TestCumulativeRotations(t *testing.T) {
	perRound := []int{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}
	assert.Equal(t, defaultTables(t).Rotations(), CumulativeRotations(perRound))
}

func TestParseTableRows(t *testing.T) {
	input := `
# comment line
1 2 3   # trailing comment

	4	5
6
`
	rows, err := ParseTableRows(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5}, {6}}, rows)
}

func TestParseTableRowsRejectsNonIntegers(t *testing.T) {
	_, err := ParseTableRows(strings.NewReader("1 2 3\n4 x 6\n"))
	require.ErrorIs(t, err, ErrMalformedTable)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadTableSet(t *testing.T) {
	ts, err := LoadTableSet("")
	require.NoError(t, err)
	assert.True(t, ts.FinalInvertsInitial())

	dir := t.TempDir()
	good := filepath.Join(dir, "des.tbl")
	require.NoError(t, os.WriteFile(good, defaultTableFile, 0o600))
	ts, err = LoadTableSet(good)
	require.NoError(t, err)
	assert.Equal(t, defaultTables(t), ts)

	bad := filepath.Join(dir, "short.tbl")
	require.NoError(t, os.WriteFile(bad, []byte("1 2 3\n"), 0o600))
	_, err = LoadTableSet(bad)
	require.ErrorIs(t, err, ErrMalformedTable)

	_, err = LoadTableSet(filepath.Join(dir, "missing.tbl"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
