//go:build nocgo

package playback

import (
	"errors"
	"testing"
	"time"
)

func TestOtoSink_Nocgo(t *testing.T) {
	if _, err := NewOtoSink(24000, 0); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("NewOtoSink = %v, want ErrNoAudio", err)
	}

	w := NewWorker(func() (Sink, error) { return NewOtoSink(24000, 0) }, time.Millisecond)
	defer w.Close()
	r := NewRequest([]float32{1}, NewStopFlag())
	if err := w.Submit(r); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)
}
