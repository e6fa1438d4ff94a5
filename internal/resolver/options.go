package resolver

import (
	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
	"github.com/specialistvlad/tmplresolve/internal/rules"
)

// Option configures a single Resolve call.
type Option func(*options)

type options struct {
	collector *diagnostics.Collector
	index     *rules.Index
}

// WithCollector switches the call to audit mode: resolver errors are added
// to c and the walk continues.
func WithCollector(c *diagnostics.Collector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// WithIndex supplies a prebuilt rule index, typically shared by every file
// of one run. Without it the index is compiled from the model on first use.
func WithIndex(ix *rules.Index) Option {
	return func(o *options) {
		o.index = ix
	}
}
