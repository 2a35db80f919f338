package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	levelEnv = "DESENGINE_LOG_LEVEL"
	jsonEnv  = "DESENGINE_JSON_LOG"
)

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(jsonEnv) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ResolveLevel picks the explicit level if set, then the environment, then
// "warn".
func ResolveLevel(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if level := os.Getenv(levelEnv); level != "" {
		return level
	}
	return "warn"
}
