// Package evdispatchcfg loads the ambient knobs a deployed evdispatch
// process needs (poll ceiling, log level, rate-limiter windows) from a YAML
// document. It is deliberately separate from reactor/evdispatch: the core
// dispatcher never reads files or environment variables.
package evdispatchcfg
