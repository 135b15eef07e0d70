package matmul

import (
	"log/slog"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/workerpool"
)

// observedPool is the view of a call's worker pool that hooks get.
type observedPool interface {
	Size() int
	States() []workerpool.WorkerState
	Stats() []workerpool.WorkerStats
}

type options struct {
	workers int
	logger  *slog.Logger

	// onPool is called right after the pool starts.
	onPool func(p observedPool)

	// trimCols shortens every column of b handed to the workers.
	trimCols int
}

// Option configures a Multiply call.
type Option func(*options)

// WithWorkers sets the pool size P. Values <= 0 select par.DefaultWorkers.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger for the call and its workers. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{workers: par.DefaultWorkers}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = par.DefaultWorkers
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
