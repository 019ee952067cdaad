package onnx

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/go-kokoro-tts/internal/config"
)

// ErrEmptyInput is returned for an id sequence with no tokens.
var ErrEmptyInput = errors.New("input ids are empty")

// Model runs the Kokoro acoustic model: ids, a style vector and a speed
// scalar in, a mono 24 kHz waveform out. A loaded Model is safe for
// concurrent Synthesize calls.
type Model struct {
	runner GraphRunner
}

// LoadModel bootstraps ORT and opens the graph at path.
func LoadModel(path string, cfg config.RuntimeConfig) (*Model, error) {
	if cfg.Threads < 1 {
		return nil, fmt.Errorf("runtime threads must be >= 1")
	}

	info, err := Bootstrap(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap onnx runtime: %w", err)
	}

	meta, err := KokoroSession(path)
	if err != nil {
		return nil, err
	}

	runner, err := NewRunner(meta, RunnerConfig{
		LibraryPath:    info.LibraryPath,
		IntraOpThreads: cfg.Threads,
	})
	if err != nil {
		return nil, err
	}

	return NewModel(runner), nil
}

// NewModel wraps an existing graph runner.
func NewModel(runner GraphRunner) *Model {
	return &Model{runner: runner}
}

// Synthesize runs one inference pass.
func (m *Model) Synthesize(ctx context.Context, ids []int64, style []float32, speed float32) ([]float32, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyInput
	}

	idsT, err := NewTensor(ids, []int64{1, int64(len(ids))})
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}

	styleT, err := NewTensor(style, []int64{1, int64(len(style))})
	if err != nil {
		return nil, fmt.Errorf("style tensor: %w", err)
	}

	speedT, err := NewTensor([]float32{speed}, []int64{1})
	if err != nil {
		return nil, fmt.Errorf("speed tensor: %w", err)
	}

	out, err := m.runner.Run(ctx, map[string]*Tensor{
		InputIDs:   idsT,
		InputStyle: styleT,
		InputSpeed: speedT,
	})
	if err != nil {
		return nil, err
	}

	wave, ok := out[OutputWaveform]
	if !ok {
		return nil, fmt.Errorf("model output %q missing", OutputWaveform)
	}

	return wave.Float32()
}

// Close releases the graph.
func (m *Model) Close() {
	if m.runner != nil {
		m.runner.Close()
	}
}
