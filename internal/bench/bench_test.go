package bench_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/go-kokoro-tts/internal/bench"
)

type stubSynth struct {
	samples int
	err     error
	calls   int
}

func (s *stubSynth) Synthesize(context.Context, string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return make([]float32, s.samples), nil
}

func TestRun(t *testing.T) {
	s := &stubSynth{samples: 24000}

	runs, err := bench.Run(context.Background(), s, []string{"One.", "Two."}, 3, 24000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("want 3 runs, got %d", len(runs))
	}
	if s.calls != 6 {
		t.Errorf("want 6 synth calls, got %d", s.calls)
	}
	if !runs[0].Cold || runs[1].Cold {
		t.Errorf("only the first run should be cold: %+v", runs)
	}
	for _, r := range runs {
		if r.AudioDuration != 2*time.Second {
			t.Errorf("run %d audio = %v, want 2s", r.Index, r.AudioDuration)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		synth *stubSynth
		runs  int
		rate  int
	}{
		{"zero runs", &stubSynth{}, 0, 24000},
		{"bad rate", &stubSynth{}, 1, 0},
		{"synth error", &stubSynth{err: errors.New("boom")}, 1, 24000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := bench.Run(context.Background(), tt.synth, []string{"x"}, tt.runs, tt.rate); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestComputeStats_ExcludesColdRun(t *testing.T) {
	runs := []bench.RunResult{
		{Index: 0, Cold: true, Duration: 900 * time.Millisecond, RTF: 0.9},
		{Index: 1, Duration: 100 * time.Millisecond, RTF: 0.1},
		{Index: 2, Duration: 200 * time.Millisecond, RTF: 0.2},
		{Index: 3, Duration: 300 * time.Millisecond, RTF: 0.3},
	}
	s := bench.ComputeStats(runs)

	if s.Min != 100*time.Millisecond || s.Max != 300*time.Millisecond || s.Mean != 200*time.Millisecond {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.MeanRTF < 0.199 || s.MeanRTF > 0.201 {
		t.Errorf("want mean RTF 0.2, got %.4f", s.MeanRTF)
	}
}

func TestComputeStats_SingleColdRun(t *testing.T) {
	s := bench.ComputeStats([]bench.RunResult{{Cold: true, Duration: 150 * time.Millisecond}})
	if s.Min != s.Max || s.Min != s.Mean {
		t.Errorf("single run: min/max/mean should all be equal, got %+v", s)
	}
	if (bench.ComputeStats(nil) != bench.Stats{}) {
		t.Error("empty input should give zero stats")
	}
}

func TestCalcRTF(t *testing.T) {
	if rtf := bench.CalcRTF(500*time.Millisecond, time.Second); rtf < 0.499 || rtf > 0.501 {
		t.Errorf("want RTF 0.5, got %.4f", rtf)
	}
	if rtf := bench.CalcRTF(time.Second, 0); rtf != 0 {
		t.Errorf("want 0 for empty audio, got %v", rtf)
	}
}

func TestCheckRTFThreshold(t *testing.T) {
	tests := []struct {
		name      string
		rtf, gate float64
		wantErr   bool
	}{
		{"disabled", 5, 0, false},
		{"under", 0.4, 0.5, false},
		{"over", 0.6, 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bench.CheckRTFThreshold(tt.rtf, tt.gate)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatTable(t *testing.T) {
	runs := []bench.RunResult{
		{Index: 0, Cold: true, Duration: 400 * time.Millisecond, AudioDuration: time.Second, RTF: 0.4},
		{Index: 1, Duration: 200 * time.Millisecond, AudioDuration: time.Second, RTF: 0.2},
	}
	var buf bytes.Buffer
	bench.FormatTable(runs, bench.ComputeStats(runs), &buf)

	out := buf.String()
	for _, want := range []string{"Run", "yes", "0.400", "mean RTF 0.200"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	runs := []bench.RunResult{{Index: 0, Cold: true, Duration: 250 * time.Millisecond, AudioDuration: time.Second, RTF: 0.25}}
	var buf bytes.Buffer
	if err := bench.FormatJSON(runs, bench.ComputeStats(runs), &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var got struct {
		Runs []struct {
			Cold       bool  `json:"cold"`
			DurationMS int64 `json:"duration_ms"`
			AudioMS    int64 `json:"audio_ms"`
		} `json:"runs"`
		Stats struct {
			MeanRTF float64 `json:"mean_rtf"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got.Runs) != 1 || !got.Runs[0].Cold || got.Runs[0].DurationMS != 250 || got.Runs[0].AudioMS != 1000 {
		t.Errorf("unexpected runs %+v", got.Runs)
	}
	if got.Stats.MeanRTF != 0.25 {
		t.Errorf("mean RTF = %v", got.Stats.MeanRTF)
	}
}
