package cripta

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru"
)

// CipherCache keeps an ARC cache of ciphers keyed by secret so repeated
// jobs under one key reuse the derived schedule.
type CipherCache struct {
	tables *TableSet
	opts   []Option
	cache  *lru.ARCCache
	log    hclog.Logger
}

func NewCipherCache(tables *TableSet, size int, logger hclog.Logger, opts ...Option) (*CipherCache, error) {
	if tables == nil {
		return nil, fmt.Errorf("%w: table set cannot be nil", ErrMalformedTable)
	}
	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CipherCache{
		tables: tables,
		opts:   opts,
		cache:  cache,
		log:    logger,
	}, nil
}

// Get returns the cipher for key, building it on a miss.
func (c *CipherCache) Get(key string) (*DESCipher, error) {
	if val, ok := c.cache.Get(key); ok {
		return val.(*DESCipher), nil
	}

	cipher, err := NewDESCipher(key, c.tables, c.opts...)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, cipher)
	c.log.Debug("cached new cipher", "entries", c.cache.Len())

	return cipher, nil
}

func (c *CipherCache) Len() int {
	return c.cache.Len()
}
