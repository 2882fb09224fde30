package config

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap/zapcore"
)

// Custody modes
const (
	CustodySim  = "sim"
	CustodyHTTP = "http"
)

// CustodyConfig represents the [custody] section
// Selects the custody contract and bank the dispatcher talks to
type CustodyConfig struct {
	Mode     string        `toml:"mode" mapstructure:"mode"`
	URL      string        `toml:"url" mapstructure:"url"`
	RetryMax int           `toml:"retry_max" mapstructure:"retry_max"`
	Timeout  time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level   string `toml:"level" mapstructure:"level"`
	File    string `toml:"file" mapstructure:"file"`
	Console bool   `toml:"console" mapstructure:"console"`
}

// Validate performs validation on the custody configuration
func (c *CustodyConfig) Validate() error {
	switch c.Mode {
	case CustodySim:
		return nil
	case CustodyHTTP:
		u, err := url.Parse(c.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("custody url must be an absolute URL, got %q", c.URL)
		}
		if c.RetryMax < 0 {
			return fmt.Errorf("retry_max must be non-negative, got %d", c.RetryMax)
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
		}
		return nil
	default:
		return fmt.Errorf("invalid custody mode: %q (valid options: sim, http)", c.Mode)
	}
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("invalid log level: %q", l.Level)
	}
	return nil
}
