package audio

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// Hook transforms a waveform. Hooks may modify samples in place.
type Hook func(samples []float32) []float32

// ApplyHooks runs hooks in order.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

// EdgeFades returns a hook that ramps the first and last ms milliseconds, so
// consecutive sentences join without clicks.
func EdgeFades(sampleRate int, ms float64) Hook {
	return func(samples []float32) []float32 {
		return FadeOut(FadeIn(samples, sampleRate, ms), sampleRate, ms)
	}
}

// PeakNormalize scales samples in place so the peak amplitude reaches 1.0.
// Silence is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	if len(samples) == 0 {
		return samples
	}

	scaled, err := signal.Normalize(widen(samples), 1.0)
	if err != nil {
		return samples
	}
	narrow(samples, scaled)

	return samples
}

// dcCutoffHz is the corner of the DC blocking filter.
const dcCutoffHz = 20.0

// DCBlock removes DC offset in place with a second-order Butterworth
// high-pass at dcCutoffHz.
func DCBlock(samples []float32, sampleRate int) []float32 {
	if sampleRate < 1 || len(samples) == 0 {
		return samples
	}

	section := biquad.NewSection(design.Highpass(dcCutoffHz, 1/math.Sqrt2, float64(sampleRate)))
	buf := widen(samples)
	section.ProcessBlock(buf)
	narrow(samples, buf)

	return samples
}

func widen(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}

	return out
}

func narrow(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}

func fadeLength(n, sampleRate int, ms float64) int {
	fade := int(ms / 1000.0 * float64(sampleRate))
	return min(max(fade, 0), n)
}

// FadeIn applies a linear fade-in ramp over the given duration in milliseconds.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	fade := fadeLength(len(samples), sampleRate, ms)
	for i := 0; i < fade; i++ {
		samples[i] *= float32(i) / float32(fade)
	}

	return samples
}

// FadeOut applies a linear fade-out ramp over the given duration in milliseconds.
// The last sample is zero.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := len(samples)
	fade := fadeLength(n, sampleRate, ms)
	for i := n - fade; i < n; i++ {
		samples[i] *= float32(n-1-i) / float32(fade)
	}

	return samples
}
