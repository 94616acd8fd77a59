// Package store holds the application state: todo lists, their loading
// flags and the transient toast notifications.
//
// State only changes through the action methods. Observers learn about
// changes through the hook installed with OnChange (or Root.Subscribe).
package store

import (
	"time"

	"github.com/charmbracelet/log"
)

// DefaultToastLifetime is how long a toast stays before it removes itself.
const DefaultToastLifetime = 3 * time.Second

type options struct {
	logger   *log.Logger
	lifetime time.Duration
	onChange func()
	now      func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithLogger sets the logger failed actions are reported to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithToastLifetime overrides DefaultToastLifetime. Non-positive values are ignored.
func WithToastLifetime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lifetime = d
		}
	}
}

// OnChange installs a hook called after every state mutation.
// It runs without any store lock held.
func OnChange(fn func()) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:   log.Default(),
		lifetime: DefaultToastLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) changed() {
	if o.onChange != nil {
		o.onChange()
	}
}
