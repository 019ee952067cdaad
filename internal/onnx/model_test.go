package onnx

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/testutil"
)

// fakeRunner records inputs and returns a fixed waveform.
type fakeRunner struct {
	got    map[string]*Tensor
	out    map[string]*Tensor
	err    error
	closed bool
}

func (f *fakeRunner) Run(_ context.Context, inputs map[string]*Tensor) (map[string]*Tensor, error) {
	f.got = inputs
	return f.out, f.err
}

func (f *fakeRunner) Close() { f.closed = true }

func waveformOutput(t *testing.T, samples ...float32) map[string]*Tensor {
	t.Helper()
	w, err := NewTensor(samples, []int64{int64(len(samples))})
	if err != nil {
		t.Fatal(err)
	}
	return map[string]*Tensor{OutputWaveform: w}
}

// ---------------------------------------------------------------------------
// Model.Synthesize
// ---------------------------------------------------------------------------

func TestModelSynthesize_Inputs(t *testing.T) {
	fr := &fakeRunner{out: waveformOutput(t, 0.1, -0.1)}
	m := NewModel(fr)

	style := make([]float32, 256)
	wave, err := m.Synthesize(context.Background(), []int64{0, 50, 83, 0}, style, 1.2)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !reflect.DeepEqual(wave, []float32{0.1, -0.1}) {
		t.Errorf("waveform = %v", wave)
	}

	checks := []struct {
		name  string
		shape []int64
	}{
		{InputIDs, []int64{1, 4}},
		{InputStyle, []int64{1, 256}},
		{InputSpeed, []int64{1}},
	}
	for _, c := range checks {
		in, ok := fr.got[c.name]
		if !ok {
			t.Fatalf("missing input %q", c.name)
		}
		if !reflect.DeepEqual(in.Shape(), c.shape) {
			t.Errorf("%s shape = %v, want %v", c.name, in.Shape(), c.shape)
		}
	}
	if got := fr.got[InputSpeed].Data().([]float32)[0]; got != 1.2 {
		t.Errorf("speed = %v, want 1.2", got)
	}
	if fr.got[InputIDs].DType() != DTypeInt64 {
		t.Errorf("input_ids dtype = %s", fr.got[InputIDs].DType())
	}

	m.Close()
	if !fr.closed {
		t.Error("Close did not release the runner")
	}
}

func TestModelSynthesize_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		runner *fakeRunner
		ids    []int64
	}{
		{"empty ids", &fakeRunner{}, nil},
		{"runner error", &fakeRunner{err: boom}, []int64{0, 1, 0}},
		{"missing waveform", &fakeRunner{out: map[string]*Tensor{}}, []int64{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.runner).Synthesize(context.Background(), tt.ids, make([]float32, 256), 1)
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestKokoroSession_MissingFile(t *testing.T) {
	if _, err := KokoroSession(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := KokoroSession(filepath.Join(t.TempDir(), "model.onnx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadModel_RejectsZeroThreads(t *testing.T) {
	if _, err := LoadModel("model.onnx", config.RuntimeConfig{}); err == nil {
		t.Fatal("expected error for zero threads")
	}
}

// ---------------------------------------------------------------------------
// Real ORT (set KOKOROTTS_ORT_LIB and KOKOROTTS_MODEL)
// ---------------------------------------------------------------------------

func TestLoadModel_Real(t *testing.T) {
	testutil.RequireONNXRuntime(t)
	modelPath := testutil.RequireModel(t)

	m, err := LoadModel(modelPath, config.RuntimeConfig{Threads: 1})
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	defer m.Close()

	wave, err := m.Synthesize(context.Background(), []int64{0, 50, 156, 43, 102, 0}, make([]float32, 256), 1)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(wave) == 0 {
		t.Fatal("empty waveform")
	}
}
