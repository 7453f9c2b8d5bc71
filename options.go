package stereo

import (
	"github.com/rs/zerolog"
)

// Option configures a Container.
type Option interface {
	apply(*containerOptions)
}

type containerOptions struct {
	catalog      *Catalog
	logger       zerolog.Logger
	strict       bool
	initializers bool
}

type optionFunc func(*containerOptions)

func (f optionFunc) apply(opts *containerOptions) {
	f(opts)
}

func defaultOptions() *containerOptions {
	return &containerOptions{
		logger:       zerolog.Nop(),
		initializers: true,
	}
}

// WithCatalog scans cat instead of the default catalog.
func WithCatalog(cat *Catalog) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.catalog = cat
	})
}

// WithLogger sets the logger the container reports progress and per-entry
// failures to. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.logger = logger
	})
}

// WithStrict makes construction fail with a single WiringError naming every
// namespace, type, field and initializer that failed. By default the container
// is lenient: every failure is isolated and only recorded in Diagnostics.
func WithStrict(strict bool) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.strict = strict
	})
}

// WithInitializers controls whether Initialize is called on beans implementing
// Initializer after wiring. Enabled by default.
func WithInitializers(enabled bool) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.initializers = enabled
	})
}
