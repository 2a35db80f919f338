package cripta

import (
	"fmt"
	"unicode/utf8"
)

type KeyEncoding int

const (
	// KeyEncodingRaw uses all 8 bits of each key character; PC1 drops the
	// parity positions.
	KeyEncodingRaw KeyEncoding = iota
	// KeyEncodingOddParity packs 7 bits per character and appends an odd
	// parity bit. Only ASCII keys are accepted.
	KeyEncodingOddParity
)

func (ke KeyEncoding) String() string {
	switch ke {
	case KeyEncodingRaw:
		return "raw"
	case KeyEncodingOddParity:
		return "odd-parity"
	default:
		return fmt.Sprintf("KeyEncoding(%d)", int(ke))
	}
}

type DESKeySchedule struct {
	tables    *TableSet
	baseKey   Bits
	roundKeys []Bits
}

func NewDESKeySchedule(key string, tables *TableSet, encoding KeyEncoding) (*DESKeySchedule, error) {
	if tables == nil {
		return nil, fmt.Errorf("%w: table set cannot be nil", ErrMalformedTable)
	}

	keyBits, err := encodeKey(key, encoding)
	if err != nil {
		return nil, err
	}

	return newKeySchedule(keyBits, tables)
}

func encodeKey(key string, encoding KeyEncoding) (Bits, error) {
	if n := utf8.RuneCountInString(key); n != CharsPerBlock {
		return nil, fmt.Errorf("%w: got %d characters", ErrInvalidKeyLength, n)
	}

	switch encoding {
	case KeyEncodingRaw:
		return StringToBlock(key)
	case KeyEncodingOddParity:
		keyBits := make(Bits, 0, BlockBits)
		for _, c := range key {
			charBits, err := CharToParityBits(c)
			if err != nil {
				return nil, fmt.Errorf("invalid key character: %w", err)
			}
			keyBits = append(keyBits, charBits...)
		}
		return keyBits, nil
	default:
		return nil, fmt.Errorf("unsupported key encoding %s", encoding)
	}
}

func newKeySchedule(keyBits Bits, tables *TableSet) (*DESKeySchedule, error) {
	baseKey, err := Permute(keyBits, tables.keyPerm)
	if err != nil {
		return nil, fmt.Errorf("PC1 permutation failed: %w", err)
	}

	dks := &DESKeySchedule{
		tables:    tables,
		baseKey:   baseKey,
		roundKeys: make([]Bits, Rounds),
	}

	for round := 0; round < Rounds; round++ {
		dks.roundKeys[round], err = dks.deriveSubKey(round)
		if err != nil {
			return nil, err
		}
	}

	return dks, nil
}

// deriveSubKey rotates both 28-bit halves of the base key by the round's
// rotation count and compresses them through PC2.
func (dks *DESKeySchedule) deriveSubKey(round int) (Bits, error) {
	shifts := dks.tables.rotations[round]

	c := RotateLeft(dks.baseKey[:halfKeyBits], shifts)
	d := RotateLeft(dks.baseKey[halfKeyBits:], shifts)

	roundKey, err := Permute(ConcatBits(c, d), dks.tables.keyCompress)
	if err != nil {
		return nil, fmt.Errorf("PC2 permutation failed in round %d: %w", round, err)
	}

	return roundKey, nil
}

// SubKey returns a copy of the 48-bit key for round 0..15.
func (dks *DESKeySchedule) SubKey(round int) (Bits, error) {
	if round < 0 || round >= Rounds {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRound, round)
	}
	return append(Bits(nil), dks.roundKeys[round]...), nil
}

func (dks *DESKeySchedule) BaseKey() Bits {
	return append(Bits(nil), dks.baseKey...)
}

// GenerateRoundKeys derives the 16 packed 6-byte subkeys for an 8-byte key
// using this schedule's tables.
func (dks *DESKeySchedule) GenerateRoundKeys(masterKey []uint8) ([][]uint8, error) {
	if len(masterKey) != CharsPerBlock {
		return nil, fmt.Errorf("%w: DES key must be 8 bytes (64 bits)", ErrInvalidKeyLength)
	}

	schedule, err := newKeySchedule(BitsFromBytes(masterKey), dks.tables)
	if err != nil {
		return nil, err
	}

	roundKeys := make([][]uint8, 0, Rounds)
	for _, roundKey := range schedule.roundKeys {
		roundKeys = append(roundKeys, roundKey.Bytes())
	}

	return roundKeys, nil
}
