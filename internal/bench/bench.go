// Package bench measures synthesis speed as a real-time factor.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Synthesizer is the part of tts.Service that bench drives.
type Synthesizer interface {
	Synthesize(ctx context.Context, sentence string) ([]float32, error)
}

// RunResult holds the timing and audio length for one pass over the text.
type RunResult struct {
	Index         int
	Cold          bool // first run, includes model load
	Duration      time.Duration
	AudioDuration time.Duration
	RTF           float64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Mean    time.Duration
	MeanRTF float64
}

// Run synthesizes every sentence runs times and reports one result per pass.
func Run(ctx context.Context, s Synthesizer, sentences []string, runs, sampleRate int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be positive, got %d", runs)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	results := make([]RunResult, 0, runs)
	for i := range runs {
		start := time.Now()
		var samples int
		for _, sentence := range sentences {
			out, err := s.Synthesize(ctx, sentence)
			if err != nil {
				return results, fmt.Errorf("run %d: %w", i+1, err)
			}
			samples += len(out)
		}
		elapsed := time.Since(start)
		audioDur := time.Duration(int64(samples) * int64(time.Second) / int64(sampleRate))

		results = append(results, RunResult{
			Index:         i,
			Cold:          i == 0,
			Duration:      elapsed,
			AudioDuration: audioDur,
			RTF:           CalcRTF(elapsed, audioDur),
		})
	}
	return results, nil
}

// ComputeStats aggregates runs. The cold run is excluded when warm runs exist.
func ComputeStats(runs []RunResult) Stats {
	if len(runs) > 1 && runs[0].Cold {
		runs = runs[1:]
	}
	if len(runs) == 0 {
		return Stats{}
	}

	st := Stats{Min: runs[0].Duration, Max: runs[0].Duration}
	var sum time.Duration
	var rtf float64
	for _, r := range runs {
		st.Min = min(st.Min, r.Duration)
		st.Max = max(st.Max, r.Duration)
		sum += r.Duration
		rtf += r.RTF
	}
	st.Mean = sum / time.Duration(len(runs))
	st.MeanRTF = rtf / float64(len(runs))
	return st
}

// CalcRTF returns synthesis time over audio time, or 0 for empty audio.
func CalcRTF(synthDur, audioDur time.Duration) float64 {
	if audioDur <= 0 {
		return 0
	}
	return float64(synthDur) / float64(audioDur)
}

// CheckRTFThreshold returns an error if meanRTF > threshold.
// A threshold of 0 disables the gate.
func CheckRTFThreshold(meanRTF, threshold float64) error {
	if threshold <= 0 {
		return nil
	}
	if meanRTF > threshold {
		return fmt.Errorf("mean RTF %.3f exceeds threshold %.3f", meanRTF, threshold)
	}
	return nil
}

// FormatTable writes a human-readable table of results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %12s  %8s\n", "Run", "Cold", "MS", "Audio(ms)", "RTF")
	fmt.Fprintln(sb, strings.Repeat("-", 48))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10d  %12d  %8.3f\n",
			r.Index+1, cold, r.Duration.Milliseconds(), r.AudioDuration.Milliseconds(), r.RTF)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "min %dms  mean %dms  max %dms  mean RTF %.3f\n",
		stats.Min.Milliseconds(), stats.Mean.Milliseconds(), stats.Max.Milliseconds(), stats.MeanRTF)

	fmt.Fprint(w, sb.String())
}

type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	DurationMS int64   `json:"duration_ms"`
	AudioMS    int64   `json:"audio_ms"`
	RTF        float64 `json:"rtf"`
}

type jsonStats struct {
	MinMS   int64   `json:"min_ms"`
	MeanMS  int64   `json:"mean_ms"`
	MaxMS   int64   `json:"max_ms"`
	MeanRTF float64 `json:"mean_rtf"`
}

// FormatJSON writes a JSON report of results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) error {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:   stats.Min.Milliseconds(),
			MeanMS:  stats.Mean.Milliseconds(),
			MaxMS:   stats.Max.Milliseconds(),
			MeanRTF: stats.MeanRTF,
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			DurationMS: r.Duration.Milliseconds(),
			AudioMS:    r.AudioDuration.Milliseconds(),
			RTF:        r.RTF,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jr)
}
