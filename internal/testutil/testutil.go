// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
//
// Typical usage:
//
//	func TestMyIntegration(t *testing.T) {
//	    testutil.RequireONNXRuntime(t)
//	    model := testutil.RequireModel(t)
//	    ...
//	}
package testutil

import (
	"os"
	"testing"
)

// Environment variables read by the helpers.
const (
	EnvORTLib       = "KOKOROTTS_ORT_LIB"
	EnvModel        = "KOKOROTTS_MODEL"
	EnvDictionary   = "KOKOROTTS_DICTIONARY"
	EnvVoicesDir    = "KOKOROTTS_VOICES_DIR"
	EnvORTLibLegacy = "ORT_LIBRARY_PATH"
)

// RequireONNXRuntime skips the test if no ONNX Runtime shared library can be
// located. It checks (in order): the KOKOROTTS_ORT_LIB env var, then
// ORT_LIBRARY_PATH, then common system library paths.
func RequireONNXRuntime(tb testing.TB) {
	tb.Helper()

	for _, env := range []string{EnvORTLib, EnvORTLibLegacy} {
		if p := os.Getenv(env); p != "" {
			// #nosec G703 -- Integration tests intentionally accept explicit env-provided local library paths.
			_, err := os.Stat(p)
			if err == nil {
				return // found
			}

			tb.Skipf("ONNX Runtime library not found at %s=%q", env, p)
			return
		}
	}
	// Fall back to common system locations.
	candidates := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
	}
	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return // found
		}
	}

	tb.Skip("ONNX Runtime shared library not found; set KOKOROTTS_ORT_LIB or ORT_LIBRARY_PATH")
}

// RequireModel returns the Kokoro ONNX model path from KOKOROTTS_MODEL, or
// skips the test. Model inference is also skipped in -short mode.
func RequireModel(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping model inference in short mode")
		return ""
	}
	return requireFileEnv(tb, EnvModel, "Kokoro ONNX model")
}

// RequireDictionary returns a CMU dictionary path from KOKOROTTS_DICTIONARY,
// or skips the test.
func RequireDictionary(tb testing.TB) string {
	tb.Helper()
	return requireFileEnv(tb, EnvDictionary, "pronouncing dictionary")
}

// RequireVoicesDir returns a voices directory from KOKOROTTS_VOICES_DIR, or
// skips the test.
func RequireVoicesDir(tb testing.TB) string {
	tb.Helper()
	return requireFileEnv(tb, EnvVoicesDir, "voices directory")
}

func requireFileEnv(tb testing.TB, env, what string) string {
	tb.Helper()
	p := os.Getenv(env)
	if p == "" {
		tb.Skipf("%s not available; set %s", what, env)
		return ""
	}
	if _, err := os.Stat(p); err != nil {
		tb.Skipf("%s not found at %s=%q", what, env, p)
		return ""
	}
	return p
}
