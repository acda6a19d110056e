// Package config holds small process-wide toggles consulted while
// pretty-printing and while running the test suite. It intentionally stays
// tiny: no environment variables, no flags, just package state flipped by
// the host (cmd/par, or a _test.go file) before use.
package config

// IsTestMode normalizes auto-generated names (match depths, fork results)
// in pretty-printed output so that golden-file tests are deterministic.
var IsTestMode = false

// DefaultModule is the module qualifier assumed for global names that omit
// one explicitly.
const DefaultModule = ""
