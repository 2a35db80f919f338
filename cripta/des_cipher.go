// Package cripta implements the DES block cipher over text messages.
//
// Messages are processed in independent 64-bit blocks (electronic codebook
// style): equal plaintext blocks give equal ciphertext blocks under one key.
// There is no chaining mode and no authentication.
package cripta

import (
	"fmt"
	"runtime"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

type cipherOptions struct {
	logger       hclog.Logger
	parallelism  int
	keyEncoding  KeyEncoding
	standardSwap bool
}

type Option func(*cipherOptions)

func WithLogger(logger hclog.Logger) Option {
	return func(o *cipherOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParallelism transforms up to n blocks of one message concurrently.
// n <= 0 uses one worker per CPU.
func WithParallelism(n int) Option {
	return func(o *cipherOptions) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		o.parallelism = n
	}
}

func WithKeyEncoding(encoding KeyEncoding) Option {
	return func(o *cipherOptions) {
		o.keyEncoding = encoding
	}
}

// WithStandardSwap makes block output bit-compatible with FIPS 46 DES.
func WithStandardSwap() Option {
	return func(o *cipherOptions) {
		o.standardSwap = true
	}
}

type DESCipher struct {
	keySchedule *DESKeySchedule
	feistel     *FeistelNetwork
	logger      hclog.Logger
	parallelism int
}

func NewDESCipher(key string, tables *TableSet, opts ...Option) (*DESCipher, error) {
	if n := utf8.RuneCountInString(key); n != CharsPerBlock {
		return nil, fmt.Errorf("%w: got %d characters", ErrInvalidKeyLength, n)
	}
	if tables == nil {
		return nil, fmt.Errorf("%w: table set cannot be nil", ErrMalformedTable)
	}

	options := cipherOptions{
		logger:      hclog.NewNullLogger(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(&options)
	}

	keySchedule, err := NewDESKeySchedule(key, tables, options.keyEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key schedule: %w", err)
	}

	roundFunction, err := NewDESRoundFunction(tables, keySchedule)
	if err != nil {
		return nil, err
	}

	feistel, err := NewFeistelNetwork(tables, roundFunction, options.standardSwap)
	if err != nil {
		return nil, err
	}

	options.logger.Debug("derived key schedule",
		"rounds", feistel.GetRoundsCount(),
		"key_encoding", options.keyEncoding.String(),
		"standard_swap", options.standardSwap,
		"parallelism", options.parallelism)

	return &DESCipher{
		keySchedule: keySchedule,
		feistel:     feistel,
		logger:      options.logger,
		parallelism: options.parallelism,
	}, nil
}

// SubKey returns the 48-bit subkey of the given round.
func (des *DESCipher) SubKey(round int) (Bits, error) {
	return des.keySchedule.SubKey(round)
}

// Encrypt returns ciphertext whose length is the message length rounded up
// to a multiple of 8 characters.
func (des *DESCipher) Encrypt(message string) (string, error) {
	return des.process(message, Forward)
}

// Decrypt returns the padded plaintext; trailing NUL padding is kept.
func (des *DESCipher) Decrypt(message string) (string, error) {
	return des.process(message, Reverse)
}

func (des *DESCipher) process(message string, order RoundOrder) (string, error) {
	blocks, err := Chunk(message)
	if err != nil {
		return "", fmt.Errorf("failed to chunk message: %w", err)
	}

	transformed, err := des.TransformBlocks(blocks, order)
	if err != nil {
		return "", err
	}

	des.logger.Trace("transformed message", "order", order.String(), "blocks", len(blocks))

	return Merge(transformed)
}

// TransformBlocks runs every block through the network. Blocks are
// independent, so with parallelism > 1 they are spread over an errgroup;
// output order always matches input order.
func (des *DESCipher) TransformBlocks(blocks []Bits, order RoundOrder) ([]Bits, error) {
	result := make([]Bits, len(blocks))

	if des.parallelism <= 1 || len(blocks) < 2 {
		for i, block := range blocks {
			transformed, err := des.feistel.Transform(block, order)
			if err != nil {
				return nil, fmt.Errorf("%s transform failed for block %d: %w", order, i, err)
			}
			result[i] = transformed
		}
		return result, nil
	}

	var g errgroup.Group
	g.SetLimit(des.parallelism)
	for i, block := range blocks {
		g.Go(func() error {
			transformed, err := des.feistel.Transform(block, order)
			if err != nil {
				return fmt.Errorf("%s transform failed for block %d: %w", order, i, err)
			}
			result[i] = transformed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

func (des *DESCipher) EncryptBlock(plainBlock []uint8) ([]uint8, error) {
	return des.transformBytes(plainBlock, Forward)
}

func (des *DESCipher) DecryptBlock(cipherBlock []uint8) ([]uint8, error) {
	return des.transformBytes(cipherBlock, Reverse)
}

func (des *DESCipher) transformBytes(block []uint8, order RoundOrder) ([]uint8, error) {
	if len(block) != CharsPerBlock {
		return nil, fmt.Errorf("%w: DES block must be 8 bytes (64 bits), got %d", ErrInvalidBlockLength, len(block))
	}

	transformed, err := des.feistel.Transform(BitsFromBytes(block), order)
	if err != nil {
		return nil, err
	}

	return transformed.Bytes(), nil
}
