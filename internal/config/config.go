package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"

	DefaultCacheSize = 16
)

// Job is one batch entry. Encrypt jobs take plaintext, decrypt jobs take
// hex-encoded ciphertext.
type Job struct {
	Name    string `toml:"name"`
	Op      string `toml:"op"`
	Key     string `toml:"key"`
	Message string `toml:"message"`
	Trim    bool   `toml:"trim"`
}

type Config struct {
	LogLevel     string `toml:"log_level"`
	Tables       string `toml:"tables"`
	Workers      int    `toml:"workers"`
	CacheSize    int    `toml:"cache_size"`
	StandardSwap bool   `toml:"standard_swap"`
	Jobs         []Job  `toml:"job"`
}

func Default() *Config {
	return &Config{
		Workers:   1,
		CacheSize: DefaultCacheSize,
	}
}

// Load decodes a TOML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var result *multierror.Error

	if c.CacheSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	for i, job := range c.Jobs {
		switch job.Op {
		case OpEncrypt, OpDecrypt:
		default:
			result = multierror.Append(result, fmt.Errorf("job %d (%s): unknown op %q", i, job.Name, job.Op))
		}
	}

	return result.ErrorOrNil()
}
