package runner

import (
	"github.com/rs/zerolog"

	"github.com/vulntor/typedjob/pkg/event"
	"github.com/vulntor/typedjob/pkg/logging"
)

const (
	defaultConcurrency = 4
	defaultQueueSize   = 100
)

type options struct {
	concurrency int
	queueSize   int
	logger      *zerolog.Logger
	bus         *event.Bus
}

// Option configures a Runner.
type Option func(*options)

// WithConcurrency sets the number of worker goroutines.
// Values <= 0 fall back to 4.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithQueueSize sets the capacity of the submission queue and of the
// results channel. Values <= 0 fall back to 100.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithLogger sets the logger used as is. The default is the global logger
// scoped to component "runner".
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithEventBus publishes submitted/started/finished events to bus.
func WithEventBus(bus *event.Bus) Option {
	return func(o *options) { o.bus = bus }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = defaultConcurrency
	}
	if o.queueSize <= 0 {
		o.queueSize = defaultQueueSize
	}
	if o.logger == nil {
		l := logging.NewLogger("runner")
		o.logger = &l
	}
	return o
}
