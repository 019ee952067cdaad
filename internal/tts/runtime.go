package tts

import (
	"context"
)

// Runtime runs the acoustic model. onnx.Model is the production
// implementation.
type Runtime interface {
	Synthesize(ctx context.Context, ids []int64, style []float32, speed float32) ([]float32, error)
	Close()
}

// Loader opens a Runtime. It is called lazily on first synthesis and again
// after a voice change.
type Loader func() (Runtime, error)
