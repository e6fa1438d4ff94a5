// Package resolver rewrites the global component, helper and modifier
// references of a parsed template into locally bound identifiers.
//
// Resolve walks one template depth first. Each candidate reference is
// classified into a Resolution using the options and the compiled package
// rules; successful resolutions are bound to an import specifier by a
// rewriter.Binder and the reference is replaced in place. Failures either
// stop the walk (strict mode) or are recorded in a diagnostics.Collector
// (audit mode, selected with WithCollector).
//
// A single call is single-threaded. Independent calls, one per file, may run
// concurrently and share one rules.Index supplied with WithIndex.
package resolver
