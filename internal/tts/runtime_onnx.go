package tts

import (
	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/onnx"
)

// ONNXLoader returns a Loader that opens the Kokoro model at modelPath with
// ONNX Runtime.
func ONNXLoader(modelPath string, cfg config.RuntimeConfig) Loader {
	return func() (Runtime, error) {
		m, err := onnx.LoadModel(modelPath, cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
