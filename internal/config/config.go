package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths     PathsConfig   `mapstructure:"paths"`
	Runtime   RuntimeConfig `mapstructure:"runtime"`
	Server    ServerConfig  `mapstructure:"server"`
	TTS       TTSConfig     `mapstructure:"tts"`
	Cache     CacheConfig   `mapstructure:"cache"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
}

type PathsConfig struct {
	ModelPath      string `mapstructure:"model_path"`
	DictionaryPath string `mapstructure:"dictionary_path"`
	VocabularyPath string `mapstructure:"vocabulary_path"`
	VoicesDir      string `mapstructure:"voices_dir"`
}

type RuntimeConfig struct {
	Threads        int    `mapstructure:"threads"`
	ORTLibraryPath string `mapstructure:"ort_library_path"`
	ORTVersion     string `mapstructure:"ort_version"`
}

type ServerConfig struct {
	ListenAddr      string  `mapstructure:"listen_addr"`
	MaxTextBytes    int     `mapstructure:"max_text_bytes"`
	RequestTimeout  int     `mapstructure:"request_timeout"`
	ShutdownTimeout int     `mapstructure:"shutdown_timeout"`
	Workers         int     `mapstructure:"workers"`
	RateLimit       float64 `mapstructure:"rate_limit"`
	RateBurst       int     `mapstructure:"rate_burst"`
}

type TTSConfig struct {
	Voice      string  `mapstructure:"voice"`
	Speed      float64 `mapstructure:"speed"`
	PollMillis int     `mapstructure:"poll_ms"`
	Enabled    bool    `mapstructure:"enabled"`
}

// CacheConfig sizes the waveform cache. An empty Dir keeps it in memory only.
type CacheConfig struct {
	Entries   int    `mapstructure:"entries"`
	Dir       string `mapstructure:"dir"`
	DiskBytes int64  `mapstructure:"disk_bytes"`
	ZstdLevel int    `mapstructure:"zstd_level"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			ModelPath:      "onnx/model.onnx",
			DictionaryPath: "cmudict.dict",
			VocabularyPath: "tokenizer.json",
			VoicesDir:      "voices",
		},
		Runtime: RuntimeConfig{
			Threads: 4,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxTextBytes:    4096,
			RequestTimeout:  60,
			ShutdownTimeout: 30,
			Workers:         2,
			RateLimit:       0,
			RateBurst:       2,
		},
		TTS: TTSConfig{
			Voice:      "af_bella",
			Speed:      1.0,
			PollMillis: 5,
			Enabled:    true,
		},
		Cache: CacheConfig{
			Entries:   128,
			DiskBytes: 256 << 20,
			ZstdLevel: 3,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// flagKeys maps flag names to config keys. Several flags may share a key.
var flagKeys = []struct{ flag, key string }{
	{"paths-model-path", "paths.model_path"},
	{"paths-dictionary-path", "paths.dictionary_path"},
	{"paths-vocabulary-path", "paths.vocabulary_path"},
	{"paths-voices-dir", "paths.voices_dir"},
	{"runtime-threads", "runtime.threads"},
	{"runtime-ort-library-path", "runtime.ort_library_path"},
	{"ort-lib", "runtime.ort_library_path"},
	{"runtime-ort-version", "runtime.ort_version"},
	{"server-listen-addr", "server.listen_addr"},
	{"server-max-text-bytes", "server.max_text_bytes"},
	{"server-request-timeout", "server.request_timeout"},
	{"server-shutdown-timeout", "server.shutdown_timeout"},
	{"server-workers", "server.workers"},
	{"server-rate-limit", "server.rate_limit"},
	{"server-rate-burst", "server.rate_burst"},
	{"tts-voice", "tts.voice"},
	{"voice", "tts.voice"},
	{"tts-speed", "tts.speed"},
	{"speed", "tts.speed"},
	{"tts-poll-ms", "tts.poll_ms"},
	{"tts-enabled", "tts.enabled"},
	{"cache-entries", "cache.entries"},
	{"cache-dir", "cache.dir"},
	{"cache-disk-bytes", "cache.disk_bytes"},
	{"cache-zstd-level", "cache.zstd_level"},
	{"log-level", "log_level"},
	{"log-format", "log_format"},
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-model-path", defaults.Paths.ModelPath, "Path to the Kokoro ONNX model")
	fs.String("paths-dictionary-path", defaults.Paths.DictionaryPath, "Path to the CMU pronouncing dictionary (.dict, .gz or .zst)")
	fs.String("paths-vocabulary-path", defaults.Paths.VocabularyPath, "Path to tokenizer.json with the phoneme vocabulary")
	fs.String("paths-voices-dir", defaults.Paths.VoicesDir, "Directory of *.bin voice packs")
	fs.Int("runtime-threads", defaults.Runtime.Threads, "ONNX Runtime intra-op thread count")
	fs.String("runtime-ort-library-path", defaults.Runtime.ORTLibraryPath, "Path to ONNX Runtime shared library")
	fs.String("ort-lib", defaults.Runtime.ORTLibraryPath, "Path to ONNX Runtime shared library (alias for --runtime-ort-library-path)")
	fs.String("runtime-ort-version", defaults.Runtime.ORTVersion, "Expected ONNX Runtime version")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request synthesis timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("server-workers", defaults.Server.Workers, "Maximum concurrent synthesis requests")
	fs.Float64("server-rate-limit", defaults.Server.RateLimit, "Synthesis requests per second (0 disables limiting)")
	fs.Int("server-rate-burst", defaults.Server.RateBurst, "Synthesis request burst size")
	fs.String("tts-voice", defaults.TTS.Voice, "Voice id from the voices directory")
	fs.String("voice", defaults.TTS.Voice, "Voice id (alias for --tts-voice)")
	fs.Float64("tts-speed", defaults.TTS.Speed, "Speech speed multiplier")
	fs.Float64("speed", defaults.TTS.Speed, "Speech speed multiplier (alias for --tts-speed)")
	fs.Int("tts-poll-ms", defaults.TTS.PollMillis, "Stop flag poll interval while audio plays, in milliseconds")
	fs.Bool("tts-enabled", defaults.TTS.Enabled, "Speak requests are played (false makes speak a no-op)")
	fs.Int("cache-entries", defaults.Cache.Entries, "Waveforms kept in memory (0 disables the cache)")
	fs.String("cache-dir", defaults.Cache.Dir, "Directory for the compressed waveform cache (empty disables it)")
	fs.Int64("cache-disk-bytes", defaults.Cache.DiskBytes, "Maximum size of the disk cache in bytes")
	fs.Int("cache-zstd-level", defaults.Cache.ZstdLevel, "zstd level for the disk cache (1-22)")
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
	fs.String("log-format", defaults.LogFormat, "Log format: text|json")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("KOKOROTTS")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("runtime.ort_library_path", "KOKOROTTS_ORT_LIB", "ORT_LIBRARY_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind ort env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("kokorotts")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// bindFlags binds every registered flag to its key. When two flags share a
// key, the one set on the command line wins.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bound := make(map[string]bool)
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if bound[fk.key] && !f.Changed {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", fk.flag, err)
		}
		bound[fk.key] = true
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.model_path", c.Paths.ModelPath)
	v.SetDefault("paths.dictionary_path", c.Paths.DictionaryPath)
	v.SetDefault("paths.vocabulary_path", c.Paths.VocabularyPath)
	v.SetDefault("paths.voices_dir", c.Paths.VoicesDir)
	v.SetDefault("runtime.threads", c.Runtime.Threads)
	v.SetDefault("runtime.ort_library_path", c.Runtime.ORTLibraryPath)
	v.SetDefault("runtime.ort_version", c.Runtime.ORTVersion)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.rate_limit", c.Server.RateLimit)
	v.SetDefault("server.rate_burst", c.Server.RateBurst)
	v.SetDefault("tts.voice", c.TTS.Voice)
	v.SetDefault("tts.speed", c.TTS.Speed)
	v.SetDefault("tts.poll_ms", c.TTS.PollMillis)
	v.SetDefault("tts.enabled", c.TTS.Enabled)
	v.SetDefault("cache.entries", c.Cache.Entries)
	v.SetDefault("cache.dir", c.Cache.Dir)
	v.SetDefault("cache.disk_bytes", c.Cache.DiskBytes)
	v.SetDefault("cache.zstd_level", c.Cache.ZstdLevel)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_format", c.LogFormat)
}
