package evdispatchcfg

import (
	"fmt"
	"os"
	"time"

	"github.com/loopkit/evdispatch/reactor"
	"gopkg.in/yaml.v3"
)

// Config is the top-level ambient configuration document.
//
//	poll_ceiling: 500ms
//	log:
//	  level: info
//	  output: stderr
//	rate_limit:
//	  setup_failure:
//	    window: 1s
//	    limit: 5
type Config struct {
	PollCeiling time.Duration         `yaml:"poll_ceiling"`
	Log         LogConfig             `yaml:"log"`
	RateLimit   map[string]RateWindow `yaml:"rate_limit"`
}

// LogConfig selects the reactor.Logger level and destination.
type LogConfig struct {
	Level  string `yaml:"level"`  // error, warn, info, debug; "" disables logging
	Output string `yaml:"output"` // "stderr", "stdout", or a file path; default stderr
}

// RateWindow is one sliding-window rate, e.g. "5 per second".
type RateWindow struct {
	Window time.Duration `yaml:"window"`
	Limit  int           `yaml:"limit"`
}

// Load reads and parses path into a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evdispatchcfg: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("evdispatchcfg: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ReactorOptions translates the config into reactor.Option values suitable
// for reactor.New. It and its helpers below are the only code in
// evdispatchcfg that touches reactor.
func (c *Config) ReactorOptions() ([]reactor.Option, error) {
	var opts []reactor.Option

	if c.PollCeiling > 0 {
		opts = append(opts, reactor.WithMaxPollTimeout(c.PollCeiling))
	}

	if logger, ok, err := c.Log.buildLogger(); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, reactor.WithLogger(logger))
	}

	if len(c.RateLimit) > 0 {
		rates := make(map[time.Duration]int, len(c.RateLimit))
		for name, w := range c.RateLimit {
			if w.Window <= 0 || w.Limit <= 0 {
				return nil, fmt.Errorf("evdispatchcfg: rate_limit[%q]: window and limit must be positive", name)
			}
			rates[w.Window] = w.Limit
		}
		opts = append(opts, reactor.WithRateLimiter(reactor.NewRateLimiter(rates)))
	}

	return opts, nil
}

func (c *LogConfig) buildLogger() (reactor.Logger, bool, error) {
	if c.Level == "" {
		return nil, false, nil
	}

	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, false, err
	}

	w, err := c.writer()
	if err != nil {
		return nil, false, err
	}

	return reactor.NewJSONLogger(w, level), true, nil
}

func (c *LogConfig) writer() (*os.File, error) {
	switch c.Output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		f, err := os.OpenFile(c.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("evdispatchcfg: open log output %s: %w", c.Output, err)
		}
		return f, nil
	}
}

func parseLevel(s string) (reactor.Level, error) {
	switch s {
	case "error":
		return reactor.LevelError, nil
	case "warn", "warning":
		return reactor.LevelWarn, nil
	case "info":
		return reactor.LevelInfo, nil
	case "debug":
		return reactor.LevelDebug, nil
	default:
		return 0, fmt.Errorf("evdispatchcfg: unknown log level %q", s)
	}
}
