package cripta

import "errors"

var (
	// Input shape errors
	ErrInvalidKeyLength   = errors.New("DES key must be exactly 8 characters")
	ErrInvalidBlockLength = errors.New("invalid block length")
	ErrInvalidByte        = errors.New("byte must be exactly 8 bits")
	ErrInvalidCharacter   = errors.New("character ordinal out of range")

	// Schedule and table errors
	ErrInvalidRound   = errors.New("round index out of range")
	ErrMalformedTable = errors.New("malformed table")
)
