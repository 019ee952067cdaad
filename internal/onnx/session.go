package onnx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Node names of the Kokoro graph.
const (
	InputIDs       = "input_ids"
	InputStyle     = "style"
	InputSpeed     = "speed"
	OutputWaveform = "waveform"
)

// SampleRate of the waveform output.
const SampleRate = 24000

type NodeInfo struct {
	Name  string `json:"name"`
	DType string `json:"dtype"`
	Shape []any  `json:"shape"`
}

// Session describes one ONNX graph file and its expected signature.
type Session struct {
	Name string
	Path string

	Inputs  []NodeInfo
	Outputs []NodeInfo
}

// KokoroSession returns the signature of the Kokoro acoustic model at path.
// Dynamic dimensions are named strings.
func KokoroSession(path string) (Session, error) {
	if path == "" {
		return Session{}, errors.New("model path is required")
	}

	clean := filepath.Clean(path)
	if _, err := os.Stat(clean); err != nil {
		return Session{}, fmt.Errorf("model file: %w", err)
	}

	s := Session{
		Name: "kokoro",
		Path: clean,
		Inputs: []NodeInfo{
			{Name: InputIDs, DType: "int64", Shape: []any{1, "tokens"}},
			{Name: InputStyle, DType: "float32", Shape: []any{1, 256}},
			{Name: InputSpeed, DType: "float32", Shape: []any{1}},
		},
		Outputs: []NodeInfo{
			{Name: OutputWaveform, DType: "float32", Shape: []any{"samples"}},
		},
	}

	slog.Info(
		"loaded ONNX session",
		"name", s.Name,
		"path", s.Path,
		"inputs", nodeNames(s.Inputs),
		"outputs", nodeNames(s.Outputs),
	)

	return s, nil
}

func nodeNames(nodes []NodeInfo) string {
	if len(nodes) == 0 {
		return ""
	}

	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name)
	}

	return strings.Join(names, ",")
}
