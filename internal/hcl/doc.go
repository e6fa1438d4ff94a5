// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for parsing rule files, translating their
// blocks into the format-agnostic config.Model, and writing suggested
// disambiguation rules back out as HCL.
package hcl
