// Package assert implements the engine's contract checks. They are a no-op
// unless enabled, mirroring an assert macro that is compiled out of release
// builds: callers must not rely on them for error handling.
package assert

var enabled bool

// SetEnabled turns contract checking on or off.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether contract checking is active.
func Enabled() bool {
	return enabled
}

// That panics with msg when checking is enabled and cond is false.
func That(cond bool, msg string) {
	if enabled && !cond {
		panic("midiwire: contract violation: " + msg)
	}
}
