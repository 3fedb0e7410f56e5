package reactor

import "time"

// loopOptions holds the resolved configuration for a new Loop, built via
// the usual functional-options pattern (Option/optionFunc/resolveOptions).
type loopOptions struct {
	logger         Logger
	maxPollTimeout time.Duration
	limiter        RateLimiter
}

// Option configures a Loop instance.
type Option interface {
	applyLoop(*loopOptions)
}

type optionFunc func(*loopOptions)

func (f optionFunc) applyLoop(o *loopOptions) { f(o) }

// WithLogger injects a structured logger. The default is a no-op logger.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *loopOptions) { o.logger = l })
}

// WithMaxPollTimeout caps how long a single poll syscall may block even
// when no timer is pending, which also bounds how long one RunOnce call
// waits. Default is 1 second.
func WithMaxPollTimeout(d time.Duration) Option {
	return optionFunc(func(o *loopOptions) { o.maxPollTimeout = d })
}

// WithRateLimiter installs a RateLimiter used to suppress repeated
// setup-failure log lines for the same category (operation plus error text).
func WithRateLimiter(l RateLimiter) Option {
	return optionFunc(func(o *loopOptions) { o.limiter = l })
}

func resolveOptions(opts []Option) *loopOptions {
	cfg := &loopOptions{
		logger:         NopLogger{},
		maxPollTimeout: time.Second,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyLoop(cfg)
	}
	return cfg
}
