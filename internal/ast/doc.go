// Package ast defines the tree a template is parsed into, a depth-first
// walker with enter and exit hooks, and a printer that renders a tree back to
// source.
//
// The resolver mutates callee references and argument values of an existing
// tree in place; it never adds or removes statements.
package ast
