//go:build !debug

// Package debug provides zero-cost-in-release assertion helpers for the
// codec and transport invariants (iterator misuse, container init/complete
// sequencing). Build with -tags debug to turn them into real panics.
package debug

func Assert(_ bool, _ ...any)            {}
func Assertf(_ bool, _ string, _ ...any) {}
func AssertNoErr(_ error)                {}
func AssertFunc(_ func() bool, _ ...any) {}
