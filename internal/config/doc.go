// Package config defines the format-agnostic configuration model for the
// resolver: the static resolution toggles, the application root and the
// ordered list of active package rules, along with the Loader interface that
// concrete file formats implement.
//
// The `config.Model` is the single input the `rules` and `resolver` packages
// read. Concrete loaders for HCL and YAML/JSON rule files live in separate
// packages.
package config
