package clilog

import "testing"

func TestNewDoesNotPanic(t *testing.T) {
	l := New("vng", true)
	l.Verbose("step %d", 1)
	l.Info("done in %dms", 12)
	l.Warn("bad arg %q, using default", "x")
	l.Error("%v", "boom")
}

func TestVerboseGating(t *testing.T) {
	// Verbose must not panic whether enabled or not; actual stderr content
	// is not captured here since the logger writes directly to os.Stderr.
	New("fractal-encode", false).Verbose("suppressed")
	New("fractal-encode", true).Verbose("shown")
}
