// Package rules compiles the raw per-package rule declarations of a
// config.Model into the two lookup tables the resolver consults: rules keyed
// by canonical component name, and rules keyed by the absolute path of a
// template file.
//
// An Index is immutable once built and safe to share between goroutines.
package rules
