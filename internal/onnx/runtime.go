package onnx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	goruntime "runtime"
	"sync"

	"github.com/example/go-kokoro-tts/internal/config"
)

// Environment variables consulted for the library location, in order.
const (
	EnvLibrary     = "KOKOROTTS_ORT_LIB"
	EnvLibraryPath = "ORT_LIBRARY_PATH"
	EnvVersion     = "ORT_VERSION"
)

// ErrRuntimeNotFound means no source named an ONNX Runtime library.
var ErrRuntimeNotFound = errors.New("onnx runtime library not found")

// RuntimeInfo describes the located ONNX Runtime shared library.
type RuntimeInfo struct {
	LibraryPath string
	Version     string
	// Source names where the path came from: "config", an environment
	// variable, or "system".
	Source      string
	Initialized bool
}

var versionPattern = regexp.MustCompile(`([0-9]+\.[0-9]+\.[0-9]+)`)

var (
	bootstrapOnce sync.Once
	bootstrapInfo RuntimeInfo
	bootstrapErr  error
)

// Bootstrap locates the library once per process. Later calls return the
// first result regardless of cfg.
func Bootstrap(cfg config.RuntimeConfig) (RuntimeInfo, error) {
	bootstrapOnce.Do(func() {
		bootstrapInfo, bootstrapErr = DetectRuntime(cfg)
		if bootstrapErr == nil {
			bootstrapInfo.Initialized = true
		}
	})
	if bootstrapErr != nil {
		return RuntimeInfo{}, bootstrapErr
	}
	return bootstrapInfo, nil
}

// DetectRuntime resolves the library path and version. An explicitly named
// path must exist; system locations are only searched when nothing is named.
func DetectRuntime(cfg config.RuntimeConfig) (RuntimeInfo, error) {
	path, source := explicitLibrary(cfg)
	if path == "" {
		path, source = systemLibrary(), "system"
	}
	if path == "" {
		return RuntimeInfo{LibraryPath: "not found", Version: "unknown"}, ErrRuntimeNotFound
	}

	info := RuntimeInfo{LibraryPath: path, Source: source, Version: libraryVersion(cfg, path)}
	if _, err := os.Stat(path); err != nil {
		return info, fmt.Errorf("onnx runtime library from %s: %w", source, err)
	}
	return info, nil
}

func explicitLibrary(cfg config.RuntimeConfig) (path, source string) {
	if cfg.ORTLibraryPath != "" {
		return cfg.ORTLibraryPath, "config"
	}
	for _, env := range []string{EnvLibrary, EnvLibraryPath} {
		if v := os.Getenv(env); v != "" {
			return v, env
		}
	}
	return "", ""
}

func systemLibrary() string {
	for _, c := range systemCandidates(goruntime.GOOS) {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func systemCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"/opt/homebrew/lib/libonnxruntime.dylib", "/usr/local/lib/libonnxruntime.dylib"}
	case "windows":
		return []string{"C:/onnxruntime/lib/onnxruntime.dll"}
	default:
		return []string{"/usr/lib/libonnxruntime.so", "/usr/local/lib/libonnxruntime.so"}
	}
}

// libraryVersion prefers a configured version, then ORT_VERSION, then a
// semver embedded in the file name.
func libraryVersion(cfg config.RuntimeConfig, path string) string {
	if cfg.ORTVersion != "" {
		return cfg.ORTVersion
	}
	if v := os.Getenv(EnvVersion); v != "" {
		return v
	}
	if m := versionPattern.FindStringSubmatch(filepath.Base(path)); len(m) == 2 {
		return m[1]
	}
	return "unknown"
}
