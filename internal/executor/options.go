package executor

import (
	"time"

	"github.com/jensneuse/abstractlogger"
)

// Options configures an Executor.
//
// Defaults:
// - Runtime:        SchemaRuntime (schema resolvers, type resolvers and coercion)
// - Logger:         abstractlogger.NoopLogger
// - MaxConcurrency: 1 (fields and list items complete sequentially)
// - Timeout:        none (used only if the incoming context has no deadline)
//
// All options are safe to leave zero-valued to use defaults.

type Options struct {
	Runtime Runtime
	Logger  abstractlogger.Logger

	MaxConcurrency int
	Timeout        time.Duration
}

// Option mutates Options
//
// Use WithX helpers below.

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Runtime:        SchemaRuntime{},
		Logger:         abstractlogger.NoopLogger,
		MaxConcurrency: 1,
	}
}

func WithRuntime(rt Runtime) Option            { return func(o *Options) { o.Runtime = rt } }
func WithLogger(l abstractlogger.Logger) Option { return func(o *Options) { o.Logger = l } }
func WithTimeout(d time.Duration) Option        { return func(o *Options) { o.Timeout = d } }

// WithMaxConcurrency bounds how many sibling fields or list items complete at
// once. Values below 2 keep completion sequential.
func WithMaxConcurrency(n int) Option { return func(o *Options) { o.MaxConcurrency = n } }
