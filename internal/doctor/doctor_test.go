package doctor_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-kokoro-tts/internal/doctor"
	"github.com/example/go-kokoro-tts/internal/voice"
)

func okRuntime() (string, string, error) { return "/usr/lib/libonnxruntime.so", "1.20.1", nil }

func count(n int) doctor.CountFunc { return func() (int, error) { return n, nil } }

// voicesDir writes one valid pack per id.
func voicesDir(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	buf := make([]byte, voice.StyleDim*4)
	for i := 0; i < voice.StyleDim; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(0.5))
	}
	for _, id := range ids {
		if err := os.WriteFile(filepath.Join(dir, id+voice.Ext), buf, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	cfg := doctor.Config{
		Runtime:    okRuntime,
		ModelPath:  "doctor_test.go",
		Dictionary: count(134373),
		Vocabulary: count(114),
		VoicesDir:  voicesDir(t, "af_bella", "am_adam"),
		Voice:      "af_bella",
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}

	body := out.String()
	for _, want := range []string{"onnxruntime: 1.20.1", "134,373 entries", "114 symbols", "voices: 2 in", "voice: af_bella", "model: doctor_test.go"} {
		if !strings.Contains(body, want) {
			t.Errorf("output missing %q:\n%s", want, body)
		}
	}
}

// ---------------------------------------------------------------------------
// ONNX Runtime
// ---------------------------------------------------------------------------

func TestRun_RuntimeMissingFails(t *testing.T) {
	cfg := doctor.Config{
		Runtime: func() (string, string, error) { return "", "", errLibraryNotFound },
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !result.Failed() {
		t.Fatal("expected failure when onnxruntime is not found")
	}
	if !hasFailureContaining(result.Failures(), "onnxruntime") {
		t.Errorf("expected failure mentioning onnxruntime, got: %v", result.Failures())
	}
}

func TestRun_RuntimeTooOldFails(t *testing.T) {
	cfg := doctor.Config{
		Runtime: func() (string, string, error) { return "/lib/libonnxruntime.so.1.14.0", "1.14.0", nil },
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "version") {
		t.Errorf("expected version failure, got: %v", result.Failures())
	}
}

func TestRun_RuntimeUnknownVersionPasses(t *testing.T) {
	cfg := doctor.Config{
		Runtime: func() (string, string, error) { return "/opt/ort/libonnxruntime.so", "", nil },
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Fatalf("unexpected failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "version unknown") {
		t.Errorf("output should say version unknown:\n%s", out.String())
	}
}

func TestRun_SkipRuntimeChecks(t *testing.T) {
	cfg := doctor.Config{
		SkipRuntime: true,
		Runtime:     func() (string, string, error) { return "", "", errLibraryNotFound },
	}

	var out strings.Builder

	result := doctor.Run(cfg, &out)
	if result.Failed() {
		t.Fatalf("expected no failures when runtime checks are skipped, got: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "onnxruntime: skipped") {
		t.Fatalf("expected skipped output, got:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// files and resources
// ---------------------------------------------------------------------------

func TestRun_ModelChecks(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantFail bool
	}{
		{"present", "doctor_test.go", false},
		{"missing", "/nonexistent/model.onnx", true},
		{"directory", t.TempDir(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			result := doctor.Run(doctor.Config{ModelPath: tt.path}, &out)
			if result.Failed() != tt.wantFail {
				t.Fatalf("Failed() = %v; want %v (%v)", result.Failed(), tt.wantFail, result.Failures())
			}
			if tt.wantFail && !hasFailureContaining(result.Failures(), "model") {
				t.Errorf("expected failure mentioning model, got: %v", result.Failures())
			}
		})
	}
}

func TestRun_ResourceFailures(t *testing.T) {
	cfg := doctor.Config{
		Dictionary: func() (int, error) { return 0, sentinelError("open cmudict.dict: no such file") },
		Vocabulary: count(0),
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "dictionary") {
		t.Errorf("expected dictionary failure, got: %v", result.Failures())
	}
	if !hasFailureContaining(result.Failures(), "vocabulary: empty") {
		t.Errorf("expected empty vocabulary failure, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// voices
// ---------------------------------------------------------------------------

func TestRun_VoiceChecks(t *testing.T) {
	tests := []struct {
		name    string
		dir     func(t *testing.T) string
		voice   string
		wantErr string
	}{
		{"missing dir", func(t *testing.T) string { return filepath.Join(t.TempDir(), "none") }, "", "voices"},
		{"empty dir", func(t *testing.T) string { return t.TempDir() }, "", "no .bin files"},
		{"unknown voice", func(t *testing.T) string { return voicesDir(t, "am_adam") }, "af_bella", "af_bella"},
		{"any voice", func(t *testing.T) string { return voicesDir(t, "am_adam") }, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			result := doctor.Run(doctor.Config{VoicesDir: tt.dir(t), Voice: tt.voice}, &out)
			if tt.wantErr == "" {
				if result.Failed() {
					t.Fatalf("unexpected failures: %v", result.Failures())
				}
				return
			}
			if !hasFailureContaining(result.Failures(), tt.wantErr) {
				t.Errorf("expected failure mentioning %q, got: %v", tt.wantErr, result.Failures())
			}
		})
	}
}

func TestRun_CorruptVoicePack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "af_bella.bin"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	result := doctor.Run(doctor.Config{VoicesDir: dir, Voice: "af_bella"}, &out)
	if !hasFailureContaining(result.Failures(), "style rows") {
		t.Errorf("expected pack failure, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// colour-coded output
// ---------------------------------------------------------------------------

func TestRun_OutputContainsPassAndFailMarkers(t *testing.T) {
	cfg := doctor.Config{
		Runtime:    func() (string, string, error) { return "", "", errLibraryNotFound },
		Vocabulary: count(10),
	}

	var out strings.Builder
	doctor.Run(cfg, &out)

	body := out.String()
	if !strings.Contains(body, doctor.PassMark) {
		t.Errorf("output missing pass marker %q:\n%s", doctor.PassMark, body)
	}

	if !strings.Contains(body, doctor.FailMark) {
		t.Errorf("output missing fail marker %q:\n%s", doctor.FailMark, body)
	}
}

func TestResult_AddFailure(t *testing.T) {
	var r doctor.Result
	r.AddFailure("custom")
	if !r.Failed() || r.Failures()[0] != "custom" {
		t.Errorf("Failures() = %v", r.Failures())
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

var errLibraryNotFound = sentinelError("library not found")

func hasFailureContaining(failures []string, substr string) bool {
	substr = strings.ToLower(substr)
	for _, f := range failures {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}

	return false
}
