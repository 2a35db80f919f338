package cripta

import (
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fipsKey is the key of the worked FIPS 46 example, 13 34 57 79 9B BC DF F1.
func fipsKey(t testing.TB) string {
	t.Helper()
	return hexToKeyString(t, "133457799BBCDFF1")
}

func hexToKeyString(t testing.TB, s string) string {
	t.Helper()
	data, err := hex.DecodeString(s)
	require.NoError(t, err)
	chars := make([]rune, len(data))
	for i, b := range data {
		chars[i] = rune(b)
	}
	return string(chars)
}

func TestKeyScheduleMatchesWorkedExample(t *testing.T) {
	dks, err := NewDESKeySchedule(fipsKey(t), defaultTables(t), KeyEncodingRaw)
	require.NoError(t, err)

	assert.Equal(t, "11110000110011001010101011110101010101100110011110001111", dks.BaseKey().String())

	expected := map[int]string{
		0:  "000110110000001011101111111111000111000001110010",
		1:  "011110011010111011011001110110111100100111100101",
		15: "110010110011110110001011000011100001011111110101",
	}
	for round, want := range expected {
		got, err := dks.SubKey(round)
		require.NoError(t, err)
		assert.Equal(t, want, got.String(), "round %d", round)
	}
}

func TestSubKeyIsDeterministic(t *testing.T) {
	dks, err := NewDESKeySchedule("abcdefgh", defaultTables(t), KeyEncodingRaw)
	require.NoError(t, err)

	for round := 0; round < Rounds; round++ {
		first, err := dks.SubKey(round)
		require.NoError(t, err)
		second, err := dks.SubKey(round)
		require.NoError(t, err)

		assert.Len(t, first, 48)
		assert.Equal(t, first, second)
	}
}

func TestSubKeyReturnsCopy(t *testing.T) {
	dks, err := NewDESKeySchedule("abcdefgh", defaultTables(t), KeyEncodingRaw)
	require.NoError(t, err)

	first, err := dks.SubKey(3)
	require.NoError(t, err)
	first[0] ^= 1

	second, err := dks.SubKey(3)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSubKeyConcurrentReads(t *testing.T) {
	dks, err := NewDESKeySchedule("abcdefgh", defaultTables(t), KeyEncodingRaw)
	require.NoError(t, err)

	want := make([]Bits, Rounds)
	for round := range want {
		want[round], err = dks.SubKey(round)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	got := make([]Bits, Rounds)
	for round := Rounds - 1; round >= 0; round-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[round], _ = dks.SubKey(round)
		}()
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestSubKeyRejectsBadRound(t *testing.T) {
	dks, err := NewDESKeySchedule("abcdefgh", defaultTables(t), KeyEncodingRaw)
	require.NoError(t, err)

	for _, round := range []int{-1, Rounds, 100} {
		_, err := dks.SubKey(round)
		assert.ErrorIs(t, err, ErrInvalidRound)
	}
}

func TestNewKeyScheduleValidation(t *testing.T) {
	ts := defaultTables(t)

	_, err := NewDESKeySchedule("short", ts, KeyEncodingRaw)
	require.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = NewDESKeySchedule("abcdefgh", nil, KeyEncodingRaw)
	require.ErrorIs(t, err, ErrMalformedTable)

	_, err = NewDESKeySchedule("abcdefg€", ts, KeyEncodingRaw)
	require.ErrorIs(t, err, ErrInvalidCharacter)

	_, err = NewDESKeySchedule("abcdefgé", ts, KeyEncodingOddParity)
	require.ErrorIs(t, err, ErrInvalidCharacter)

	_, err = NewDESKeySchedule("abcdefgh", ts, KeyEncoding(7))
	require.Error(t, err)
}

func TestKeyEncodingsDiffer(t *testing.T) {
	ts := defaultTables(t)

	raw, err := NewDESKeySchedule("abcdefgh", ts, KeyEncodingRaw)
	require.NoError(t, err)
	parity, err := NewDESKeySchedule("abcdefgh", ts, KeyEncodingOddParity)
	require.NoError(t, err)

	assert.NotEqual(t, raw.BaseKey(), parity.BaseKey())
}

func TestKeyPermutationDropsParityPositions(t *testing.T) {
	ts := defaultTables(t)

	// 'h' and 'i' differ only in the lowest bit of the byte.
	a, err := NewDESKeySchedule("abcdefgh", ts, KeyEncodingRaw)
	require.NoError(t, err)
	b, err := NewDESKeySchedule("abcdefgi", ts, KeyEncodingRaw)
	require.NoError(t, err)

	assert.Equal(t, a.BaseKey(), b.BaseKey())
}

func TestGenerateRoundKeys(t *testing.T) {
	ts := defaultTables(t)
	dks, err := NewDESKeySchedule(fipsKey(t), ts, KeyEncodingRaw)
	require.NoError(t, err)

	master, err := hex.DecodeString("133457799BBCDFF1")
	require.NoError(t, err)

	roundKeys, err := dks.GenerateRoundKeys(master)
	require.NoError(t, err)
	require.Len(t, roundKeys, Rounds)

	for round, packed := range roundKeys {
		subKey, err := dks.SubKey(round)
		require.NoError(t, err)
		assert.Len(t, packed, 6)
		assert.Equal(t, subKey.Bytes(), packed)
	}

	_, err = dks.GenerateRoundKeys(master[:7])
	require.ErrorIs(t, err, ErrInvalidKeyLength)
}
