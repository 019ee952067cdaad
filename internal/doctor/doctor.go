// Package doctor provides environment preflight checks for kokorotts.
package doctor

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/example/go-kokoro-tts/internal/voice"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// MinORTMinor is the oldest supported ONNX Runtime 1.x release.
const MinORTMinor = 17

// RuntimeFunc returns the ONNX Runtime library path and version, or an error
// if no library can be found.
type RuntimeFunc func() (path, version string, err error)

// CountFunc loads a resource and returns how many entries it has.
type CountFunc func() (int, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Runtime locates the ONNX Runtime shared library.
	Runtime RuntimeFunc
	// SkipRuntime skips the ONNX Runtime check (phonemize-only use).
	SkipRuntime bool
	// ModelPath is the Kokoro ONNX model file.
	ModelPath string
	// Dictionary loads the pronouncing dictionary.
	Dictionary CountFunc
	// Vocabulary loads the phoneme vocabulary.
	Vocabulary CountFunc
	// VoicesDir is scanned for voice packs; Voice must be among them.
	VoicesDir string
	Voice     string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- ONNX Runtime -----------------------------------------------------
	switch {
	case cfg.SkipRuntime:
		fmt.Fprintf(w, "%s onnxruntime: skipped\n", PassMark)
	case cfg.Runtime == nil:
	default:
		path, ver, err := cfg.Runtime()
		if err != nil {
			res.fail(fmt.Sprintf("onnxruntime: %v", err))
			fmt.Fprintf(w, "%s onnxruntime: not found (%v)\n", FailMark, err)
		} else if verErr := checkORTVersion(ver); verErr != nil {
			res.fail(fmt.Sprintf("onnxruntime version: %v", verErr))
			fmt.Fprintf(w, "%s onnxruntime %s: %v\n", FailMark, ver, verErr)
		} else {
			if ver == "" {
				ver = "version unknown"
			}
			fmt.Fprintf(w, "%s onnxruntime: %s (%s)\n", PassMark, ver, path)
		}
	}

	// ---- model file -------------------------------------------------------
	if cfg.ModelPath != "" {
		checkFile(&res, w, "model", cfg.ModelPath)
	}

	// ---- linguistic resources --------------------------------------------
	checkCount(&res, w, "dictionary", "entries", cfg.Dictionary)
	checkCount(&res, w, "vocabulary", "symbols", cfg.Vocabulary)

	// ---- voices -----------------------------------------------------------
	if cfg.VoicesDir != "" {
		checkVoices(&res, w, cfg.VoicesDir, cfg.Voice)
	}

	return res
}

func checkFile(res *Result, w io.Writer, label, path string) {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		res.fail(fmt.Sprintf("%s %q: %v", label, path, err))
		fmt.Fprintf(w, "%s %s %s: not found\n", FailMark, label, path)
	case info.IsDir():
		res.fail(fmt.Sprintf("%s %q: is a directory", label, path))
		fmt.Fprintf(w, "%s %s %s: is a directory\n", FailMark, label, path)
	default:
		fmt.Fprintf(w, "%s %s: %s (%s)\n", PassMark, label, path, humanize.Bytes(uint64(info.Size())))
	}
}

func checkCount(res *Result, w io.Writer, label, unit string, fn CountFunc) {
	if fn == nil {
		return
	}
	n, err := fn()
	switch {
	case err != nil:
		res.fail(fmt.Sprintf("%s: %v", label, err))
		fmt.Fprintf(w, "%s %s: %v\n", FailMark, label, err)
	case n == 0:
		res.fail(fmt.Sprintf("%s: empty", label))
		fmt.Fprintf(w, "%s %s: empty\n", FailMark, label)
	default:
		fmt.Fprintf(w, "%s %s: %s %s\n", PassMark, label, humanize.Comma(int64(n)), unit)
	}
}

func checkVoices(res *Result, w io.Writer, dir, want string) {
	cat, err := voice.NewCatalog(dir)
	if err != nil {
		res.fail(fmt.Sprintf("voices: %v", err))
		fmt.Fprintf(w, "%s voices %s: %v\n", FailMark, dir, err)
		return
	}

	voices := cat.List()
	if len(voices) == 0 {
		res.fail(fmt.Sprintf("voices: no %s files in %s", voice.Ext, dir))
		fmt.Fprintf(w, "%s voices %s: none found\n", FailMark, dir)
		return
	}
	var total int64
	for _, v := range voices {
		total += v.Size
	}
	fmt.Fprintf(w, "%s voices: %d in %s (%s)\n", PassMark, len(voices), dir, humanize.Bytes(uint64(total)))

	if want == "" {
		return
	}
	path, err := cat.Resolve(want)
	if err != nil {
		res.fail(fmt.Sprintf("voice %q: %v", want, err))
		fmt.Fprintf(w, "%s voice %s: not found\n", FailMark, want)
		return
	}
	if _, err := voice.Load(path); err != nil {
		res.fail(fmt.Sprintf("voice %q: %v", want, err))
		fmt.Fprintf(w, "%s voice %s: %v\n", FailMark, want, err)
		return
	}
	fmt.Fprintf(w, "%s voice: %s\n", PassMark, want)
}

// checkORTVersion returns an error if ver is not a 1.x release at or above
// MinORTMinor. An empty version cannot be checked and passes.
func checkORTVersion(ver string) error {
	if ver == "" {
		return nil
	}
	major, minor, err := parseMajorMinor(ver)
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", ver, err)
	}
	if major != 1 {
		return fmt.Errorf("requires ONNX Runtime 1.x, got %d", major)
	}
	if minor < MinORTMinor {
		return fmt.Errorf("requires ONNX Runtime >=1.%d, got 1.%d", MinORTMinor, minor)
	}
	return nil
}

func parseMajorMinor(ver string) (major, minor int, err error) {
	parts := strings.SplitN(ver, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected version format %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major in %q: %w", ver, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor in %q: %w", ver, err)
	}
	return major, minor, nil
}
