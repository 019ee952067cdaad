package onnx

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/example/go-kokoro-tts/internal/config"
)

func resetBootstrap() {
	bootstrapOnce = sync.Once{}
	bootstrapInfo = RuntimeInfo{}
	bootstrapErr = nil
}

func fakeLibrary(t *testing.T, name string) string {
	t.Helper()
	lib := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(lib, []byte("elf"), 0o644); err != nil {
		t.Fatal(err)
	}
	return lib
}

func TestDetectRuntimeSources(t *testing.T) {
	versioned := fakeLibrary(t, "libonnxruntime.so.1.22.0")
	plain := fakeLibrary(t, "libonnxruntime.so")
	missing := filepath.Join(t.TempDir(), "gone.so")

	tests := []struct {
		name        string
		cfg         config.RuntimeConfig
		env         map[string]string
		wantPath    string
		wantSource  string
		wantVersion string
	}{
		{
			name:        "config wins over environment",
			cfg:         config.RuntimeConfig{ORTLibraryPath: versioned},
			env:         map[string]string{EnvLibrary: missing},
			wantPath:    versioned,
			wantSource:  "config",
			wantVersion: "1.22.0",
		},
		{
			name:        "project variable before generic",
			env:         map[string]string{EnvLibrary: plain, EnvLibraryPath: missing},
			wantPath:    plain,
			wantSource:  EnvLibrary,
			wantVersion: "unknown",
		},
		{
			name:        "generic variable",
			env:         map[string]string{EnvLibraryPath: versioned},
			wantPath:    versioned,
			wantSource:  EnvLibraryPath,
			wantVersion: "1.22.0",
		},
		{
			name:        "configured version overrides file name",
			cfg:         config.RuntimeConfig{ORTLibraryPath: versioned, ORTVersion: "1.20.1"},
			wantPath:    versioned,
			wantSource:  "config",
			wantVersion: "1.20.1",
		},
		{
			name:        "version from environment",
			cfg:         config.RuntimeConfig{ORTLibraryPath: plain},
			env:         map[string]string{EnvVersion: "1.19.2"},
			wantPath:    plain,
			wantSource:  "config",
			wantVersion: "1.19.2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{EnvLibrary, EnvLibraryPath, EnvVersion} {
				t.Setenv(k, tt.env[k])
			}

			info, err := DetectRuntime(tt.cfg)
			if err != nil {
				t.Fatalf("DetectRuntime: %v", err)
			}
			if info.LibraryPath != tt.wantPath || info.Source != tt.wantSource || info.Version != tt.wantVersion {
				t.Errorf("got (%s, %s, %s), want (%s, %s, %s)",
					info.LibraryPath, info.Source, info.Version, tt.wantPath, tt.wantSource, tt.wantVersion)
			}
		})
	}
}

func TestDetectRuntimeNamedPathMustExist(t *testing.T) {
	t.Setenv(EnvLibrary, "")
	t.Setenv(EnvLibraryPath, "")

	missing := filepath.Join(t.TempDir(), "nope.so")
	info, err := DetectRuntime(config.RuntimeConfig{ORTLibraryPath: missing})
	if err == nil {
		t.Fatal("expected error for missing library")
	}
	if errors.Is(err, ErrRuntimeNotFound) {
		t.Error("a named but missing path should report the stat failure")
	}
	if info.LibraryPath != missing {
		t.Errorf("LibraryPath = %q, want the named path", info.LibraryPath)
	}
}

func TestSystemCandidates(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows"} {
		if len(systemCandidates(goos)) == 0 {
			t.Errorf("%s: no candidates", goos)
		}
	}
}

func TestBootstrapKeepsFirstResult(t *testing.T) {
	resetBootstrap()
	t.Cleanup(resetBootstrap)

	first := fakeLibrary(t, "first.so")
	second := fakeLibrary(t, "second.so")

	a, err := Bootstrap(config.RuntimeConfig{Threads: 1, ORTLibraryPath: first})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bootstrap(config.RuntimeConfig{Threads: 1, ORTLibraryPath: second})
	if err != nil {
		t.Fatal(err)
	}
	if a.LibraryPath != first || b.LibraryPath != first {
		t.Errorf("paths = %q, %q; want both %q", a.LibraryPath, b.LibraryPath, first)
	}
	if !b.Initialized {
		t.Error("Initialized not set")
	}
}
