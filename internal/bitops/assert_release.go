//go:build !poolcheck

package bitops

// check is a no-op in release builds: contract
// violations are undefined behavior outside of -tags poolcheck.
func check(cond bool, msg string) {}
