// Package rewriter binds resolved import specifiers to local identifiers
// that replace the global references in a template.
package rewriter

import (
	"strconv"

	"github.com/specialistvlad/tmplresolve/internal/naming"
)

// Import is one module the rewritten template depends on.
type Import struct {
	Specifier  string `json:"specifier"`
	Identifier string `json:"identifier"`
}

// Binder hands out one identifier per distinct specifier for a single
// template file.
type Binder struct {
	bySpecifier map[string]string
	taken       map[string]bool
	imports     []Import
}

// NewBinder returns a Binder that never hands out any of reserved.
func NewBinder(reserved ...string) *Binder {
	b := &Binder{
		bySpecifier: make(map[string]string),
		taken:       make(map[string]bool, len(reserved)),
	}
	for _, r := range reserved {
		b.taken[r] = true
	}
	return b
}

// Bind returns the identifier bound to specifier, allocating one derived
// from hint on first use. Repeated calls with the same specifier return the
// same identifier.
func (b *Binder) Bind(specifier, hint string) string {
	if id, ok := b.bySpecifier[specifier]; ok {
		return id
	}
	base := naming.Camelize(hint) + "_"
	id := base
	for i := 0; b.taken[id]; i++ {
		id = base + strconv.Itoa(i)
	}
	b.taken[id] = true
	b.bySpecifier[specifier] = id
	b.imports = append(b.imports, Import{Specifier: specifier, Identifier: id})
	return id
}

// Imports returns the bound imports in the order they were first bound.
func (b *Binder) Imports() []Import {
	return append([]Import(nil), b.imports...)
}

// Len reports the number of distinct specifiers bound.
func (b *Binder) Len() int {
	return len(b.imports)
}
