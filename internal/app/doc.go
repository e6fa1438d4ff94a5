// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load rule files, compile
// the rule index once, resolve every template in parallel and write a JSON
// report. It is decoupled from any specific entrypoint like a CLI.
package app
