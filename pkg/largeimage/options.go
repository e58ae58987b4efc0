package largeimage

import (
	"largeimage/pkg/blockstore"
	"largeimage/pkg/unitstore"
)

// Option configures a LargeImage.
type Option func(*options)

type options struct {
	budget    int64
	budgetSet bool
	hint      int
	blocks    blockstore.Store
	metrics   unitstore.Metrics
	color     bool
	prefix    string
}

func defaultOptions() options {
	return options{hint: 1}
}

// WithBudget sets the bytes one resident unit may occupy. The default is
// sizing.DefaultBudget(); an explicit budget must be positive.
func WithBudget(bytes int64) Option {
	return func(o *options) {
		o.budget = bytes
		o.budgetSet = true
	}
}

// WithSizingHint divides the budget by hint before sizing units, giving
// smaller units for access patterns that jump around. hint must be >= 1.
func WithSizingHint(hint int) Option {
	return func(o *options) {
		o.hint = hint
	}
}

// WithStore persists evicted units in s. The image does not close s.
// Without it each image pages through a private in-memory store.
func WithStore(s blockstore.Store) Option {
	return func(o *options) {
		o.blocks = s
	}
}

// WithMetrics reports paging activity to m.
func WithMetrics(m unitstore.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithColor marks the bands as color channels.
func WithColor(color bool) Option {
	return func(o *options) {
		o.color = color
	}
}

// WithKeyPrefix names the image inside its block store. The default is a
// random UUID; two open images must never share a prefix.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}
