package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/pipeline"
	"github.com/example/go-kokoro-tts/internal/text"
	"github.com/example/go-kokoro-tts/internal/tts"
	"github.com/example/go-kokoro-tts/internal/voice"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Synthesizer turns sentences into samples. *tts.Service implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, sentence string) ([]float32, error)
	Phonemes(text string) (string, []int64, error)
	Voice() string
	SetVoice(id string) error
	Loaded() bool
}

// VoiceLister returns the list of available voices.
type VoiceLister interface {
	List() []voice.Voice
}

// Speaker plays text on the local audio device. *pipeline.Controller
// implements it.
type Speaker interface {
	Speak(ctx context.Context, text string) *pipeline.Request
	Stop()
	Enabled() bool
	SetEnabled(on bool)
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	rateLimit      float64
	rateBurst      int
	speaker        Speaker
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   4096,
		workers:        2,
		requestTimeout: 60 * time.Second,
		rateBurst:      1,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /tts
// and POST /speak.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent synthesis calls.
// n <= 0 disables the limit.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request synthesis deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithRateLimit allows perSecond synthesis requests with the given burst.
// perSecond <= 0 disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.rateLimit = perSecond
		o.rateBurst = burst
	}
}

// WithSpeaker enables /speak, /stop and /enabled.
func WithSpeaker(s Speaker) Option {
	return func(o *options) { o.speaker = s }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	synth   Synthesizer
	voices  VoiceLister
	speaker Speaker
	opts    options
	sem     chan struct{} // semaphore for worker pool
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /voices, /voice,
// /phonemize and POST /tts, plus /speak, /stop and /enabled when a Speaker
// is configured.
func NewHandler(synth Synthesizer, voices VoiceLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		synth:   synth,
		voices:  voices,
		speaker: opts.speaker,
		opts:    opts,
		log:     opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}
	if opts.rateLimit > 0 {
		burst := max(opts.rateBurst, 1)
		h.limiter = rate.NewLimiter(rate.Limit(opts.rateLimit), burst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/voices", h.handleVoices)
	mux.HandleFunc("/voice", h.handleVoice)
	mux.HandleFunc("/phonemize", h.handlePhonemize)
	mux.HandleFunc("/tts", h.handleTTS)
	if h.speaker != nil {
		mux.HandleFunc("/speak", h.handleSpeak)
		mux.HandleFunc("/stop", h.handleStop)
		mux.HandleFunc("/enabled", h.handleEnabled)
	}
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"version":      buildVersion(),
		"voice":        h.synth.Voice(),
		"model_loaded": h.synth.Loaded(),
	})
}

func (h *handler) handleVoices(w http.ResponseWriter, _ *http.Request) {
	voices := h.voices.List()
	if voices == nil {
		voices = []voice.Voice{}
	}
	writeJSON(w, http.StatusOK, voices)
}

type voiceRequest struct {
	Voice string `json:"voice"`
}

func (h *handler) handleVoice(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, voiceRequest{Voice: h.synth.Voice()})
	case http.MethodPost, http.MethodPut:
		var req voiceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Voice == "" {
			writeError(w, http.StatusBadRequest, "voice field is required")
			return
		}
		if !h.switchVoice(w, r, req.Voice) {
			return
		}
		writeJSON(w, http.StatusOK, voiceRequest{Voice: h.synth.Voice()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// switchVoice selects id for later synthesis, writing a 400 on failure.
func (h *handler) switchVoice(w http.ResponseWriter, r *http.Request, id string) bool {
	prev := h.synth.Voice()
	if err := h.synth.SetVoice(id); err != nil {
		h.log.WarnContext(r.Context(), "voice rejected",
			slog.String("voice", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if cur := h.synth.Voice(); cur != prev {
		h.log.InfoContext(r.Context(), "voice changed",
			slog.String("from", prev),
			slog.String("voice", cur),
		)
	}
	return true
}

type phonemizeRequest struct {
	Text string `json:"text"`
}

type phonemizedSentence struct {
	Text     string  `json:"text"`
	Phonemes string  `json:"phonemes"`
	IDs      []int64 `json:"ids"`
}

func (h *handler) handlePhonemize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req phonemizeRequest
	if !decodeBody(w, r, &req) || !h.checkText(w, req.Text) {
		return
	}

	sentences, err := text.Prepare(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := make([]phonemizedSentence, 0, len(sentences))
	for _, s := range sentences {
		ph, ids, err := h.synth.Phonemes(s)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, phonemizedSentence{Text: s, Phonemes: ph, IDs: ids})
	}
	writeJSON(w, http.StatusOK, out)
}

type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	Chunk bool   `json:"chunk"`
}

func (h *handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ttsRequest
	if !decodeBody(w, r, &req) || !h.checkText(w, req.Text) || !h.allow(w) {
		return
	}

	if req.Voice != "" && req.Voice != h.synth.Voice() && !h.switchVoice(w, r, req.Voice) {
		return
	}

	sentences, err := text.Prepare(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Acquire a worker slot, honouring context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	if req.Chunk {
		h.streamTTS(ctx, w, r, req, sentences)
		return
	}

	start := time.Now()
	samples, err := h.synthesizeAll(ctx, sentences)
	durationMS := time.Since(start).Milliseconds()
	if err != nil {
		h.writeSynthError(w, r, req, durationMS, err)
		return
	}

	wav, err := audio.EncodeWAV(samples)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "synthesis complete",
		slog.String("voice", h.synth.Voice()),
		slog.Int("text_len", len(req.Text)),
		slog.Int("sentences", len(sentences)),
		slog.Int64("duration_ms", durationMS),
		slog.Int("wav_bytes", len(wav)),
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}

// synthesizeAll concatenates every sentence, skipping sentences that fail on
// their own. Context, load and shutdown errors abort.
func (h *handler) synthesizeAll(ctx context.Context, sentences []string) ([]float32, error) {
	var (
		out     []float32
		lastErr error
	)
	for _, s := range sentences {
		samples, err := h.synth.Synthesize(ctx, s)
		if err != nil {
			if fatalSynthError(ctx, err) {
				return nil, err
			}
			h.log.WarnContext(ctx, "skipping sentence", slog.Int("text_len", len(s)), slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		out = append(out, samples...)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func fatalSynthError(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, tts.ErrModelNotLoaded) ||
		errors.Is(err, tts.ErrClosed)
}

func (h *handler) streamTTS(ctx context.Context, w http.ResponseWriter, r *http.Request, req ttsRequest, sentences []string) {
	rc := http.NewResponseController(w)
	start := time.Now()
	started := false
	total := 0

	for _, s := range sentences {
		samples, err := h.synth.Synthesize(ctx, s)
		if err != nil {
			if !started {
				if fatalSynthError(ctx, err) {
					h.writeSynthError(w, r, req, time.Since(start).Milliseconds(), err)
					return
				}
			} else if fatalSynthError(ctx, err) {
				h.log.WarnContext(r.Context(), "stream aborted", slog.String("error", err.Error()))
				return
			}
			h.log.WarnContext(ctx, "skipping sentence", slog.Int("text_len", len(s)), slog.String("error", err.Error()))
			continue
		}

		if !started {
			w.Header().Set("Content-Type", "audio/wav")
			w.WriteHeader(http.StatusOK)
			if _, err := audio.WriteWAVHeaderStreaming(w); err != nil {
				return
			}
			started = true
		}
		if _, err := audio.WritePCM16Samples(w, samples); err != nil {
			h.log.WarnContext(r.Context(), "stream write failed", slog.String("error", err.Error()))
			return
		}
		_ = rc.Flush()
		total += len(samples)
	}

	if !started {
		writeError(w, http.StatusInternalServerError, "no audio produced")
		return
	}
	h.log.InfoContext(r.Context(), "stream complete",
		slog.String("voice", h.synth.Voice()),
		slog.Int("text_len", len(req.Text)),
		slog.Int("samples", total),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}

func (h *handler) writeSynthError(w http.ResponseWriter, r *http.Request, req ttsRequest, durationMS int64, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		h.log.WarnContext(r.Context(), "synthesis timed out",
			slog.String("voice", req.Voice),
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusGatewayTimeout, "synthesis timed out")
		return
	}
	h.log.ErrorContext(r.Context(), "synthesis failed",
		slog.String("voice", req.Voice),
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
		slog.String("error", err.Error()),
	)
	status := http.StatusInternalServerError
	if errors.Is(err, tts.ErrModelNotLoaded) || errors.Is(err, tts.ErrClosed) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, err.Error())
}

type speakRequest struct {
	Text string `json:"text"`
	Wait bool   `json:"wait"`
}

func (h *handler) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req speakRequest
	if !decodeBody(w, r, &req) || !h.checkText(w, req.Text) || !h.allow(w) {
		return
	}
	if !h.speaker.Enabled() {
		writeError(w, http.StatusConflict, "speech is disabled")
		return
	}

	// Playback outlives the HTTP request unless the caller waits for it.
	sr := h.speaker.Speak(context.Background(), req.Text)
	h.log.InfoContext(r.Context(), "speak started", slog.Int("text_len", len(req.Text)), slog.Bool("wait", req.Wait))

	if !req.Wait {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "speaking"})
		return
	}
	select {
	case <-sr.Done():
	case <-r.Context().Done():
		sr.Stop()
		sr.Wait()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  sr.State().String(),
		"played":  sr.Played(),
		"stopped": sr.Stopped(),
	})
}

func (h *handler) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.speaker.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *handler) handleEnabled(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost, http.MethodPut:
		var req enabledRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled field is required")
			return
		}
		h.speaker.SetEnabled(*req.Enabled)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.speaker.Enabled()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (h *handler) checkText(w http.ResponseWriter, s string) bool {
	if s == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return false
	}
	if len(s) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return false
	}
	return true
}

func (h *handler) allow(w http.ResponseWriter) bool {
	if h.limiter == nil || h.limiter.Allow() {
		return true
	}
	w.Header().Set("Retry-After", "1")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	synth           Synthesizer
	voices          VoiceLister
	speaker         Speaker
	shutdownTimeout time.Duration
}

func New(cfg config.Config, synth Synthesizer, voices VoiceLister) *Server {
	timeout := 30 * time.Second
	if cfg.Server.ShutdownTimeout > 0 {
		timeout = time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	}
	return &Server{
		cfg:             cfg,
		synth:           synth,
		voices:          voices,
		shutdownTimeout: timeout,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithSpeaker enables the local playback endpoints.
func (s *Server) WithSpeaker(sp Speaker) *Server {
	s.speaker = sp
	return s
}

func (s *Server) handlerOptions() []Option {
	opts := []Option{
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout) * time.Second),
		WithRateLimit(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst),
	}
	if s.speaker != nil {
		opts = append(opts, WithSpeaker(s.speaker))
	}
	return opts
}

func (s *Server) Start(ctx context.Context) error {
	if s.synth == nil || s.voices == nil {
		return errors.New("server requires a synthesizer and a voice lister")
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           NewHandler(s.synth, s.voices, s.handlerOptions()...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	slog.Info("http server listening", "addr", s.cfg.Server.ListenAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func CheckHealth(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
