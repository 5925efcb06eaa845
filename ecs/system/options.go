package system

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

type options struct {
	logger *log.Logger
	rng    *rand.Rand
}

// Option configures a system at construction.
type Option func(*options)

// WithLogger routes a system's diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRand makes random choices reproducible.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
