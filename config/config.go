package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

type Config struct {
	// Application paths
	LogDir  string `yaml:"log_dir"`
	TempDir string `yaml:"temp_dir"`
	Debug   bool   `yaml:"debug"`

	// Audio validation and conditioning
	Audio AudioConfig `yaml:"audio"`

	// Transcription backend chain
	Transcription TranscriptionConfig `yaml:"transcription"`

	// Summarization tiers
	Summarization SummarizationConfig `yaml:"summarization"`

	// Job store and worker pool
	Jobs JobsConfig `yaml:"jobs"`

	// Optional durable job history. Empty path disables it.
	HistoryDBPath string `yaml:"history_db_path"`
}

type AudioConfig struct {
	FFmpegPath       string        `yaml:"ffmpeg_path"`
	MinDuration      time.Duration `yaml:"min_duration"`
	MaxDuration      time.Duration `yaml:"max_duration"`
	ExtractTimeout   time.Duration `yaml:"extract_timeout"`
	SampleRate       int           `yaml:"sample_rate"`
	SilenceThreshold float64       `yaml:"silence_threshold"` // fraction of full scale
	SilenceFraction  float64       `yaml:"silence_fraction"`  // samples below threshold to flag
	AllowedFormats   []string      `yaml:"allowed_formats"`
}

type TranscriptionConfig struct {
	// Backends are tried in order; first non-empty transcript wins.
	Backends       []string      `yaml:"backends"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	WhisperModel   string        `yaml:"whisper_model"`
	PythonPath     string        `yaml:"python_path"`
	ScriptsPath    string        `yaml:"scripts_path"`
	SpeechEndpoint string        `yaml:"speech_endpoint"`
	SpeechTimeout  time.Duration `yaml:"speech_timeout"`
}

type SummarizationConfig struct {
	LLMEndpoint       string        `yaml:"llm_endpoint"`
	LLMModel          string        `yaml:"llm_model"`
	LLMTimeout        time.Duration `yaml:"llm_timeout"`
	LLMMaxTokens      int           `yaml:"llm_max_tokens"`
	LLMRequestsPerMin int           `yaml:"llm_requests_per_min"`
	LocalModel        string        `yaml:"local_model"`
	LocalModelTimeout time.Duration `yaml:"local_model_timeout"`
	ExtractiveTimeout time.Duration `yaml:"extractive_timeout"`

	// Length option to word-count band.
	Bands map[models.SummaryLength]models.WordBand `yaml:"bands"`
}

type JobsConfig struct {
	WorkerCount  int           `yaml:"worker_count"`
	QueueSize    int           `yaml:"queue_size"`
	RetainedJobs int           `yaml:"retained_jobs"`
	JobTimeout   time.Duration `yaml:"job_timeout"`
}

// Load builds configuration from an optional YAML file overridden by
// environment variables. Pass an empty path to use env/defaults only.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		LogDir:  "/var/log/svs",
		TempDir: os.TempDir(),

		Audio: AudioConfig{
			FFmpegPath:       "ffmpeg",
			MinDuration:      time.Second,
			MaxDuration:      4 * time.Hour,
			ExtractTimeout:   30 * time.Second,
			SampleRate:       16000,
			SilenceThreshold: 0.01,
			SilenceFraction:  0.90,
			AllowedFormats:   []string{"wav", "mp3", "ogg", "webm", "mp4", "m4a", "flac"},
		},

		Transcription: TranscriptionConfig{
			Backends:       []string{"whisper", "speechsvc"},
			BackendTimeout: 120 * time.Second,
			WhisperModel:   "base.en",
			PythonPath:     "python3",
			ScriptsPath:    "./scripts/py",
			SpeechEndpoint: "http://localhost:9090/transcribe",
			SpeechTimeout:  60 * time.Second,
		},

		Summarization: SummarizationConfig{
			LLMEndpoint:       "http://localhost:11434",
			LLMModel:          "llama3.2",
			LLMTimeout:        30 * time.Second,
			LLMMaxTokens:      512,
			LLMRequestsPerMin: 30,
			LocalModel:        "distilbart-cnn-12-6",
			LocalModelTimeout: 60 * time.Second,
			ExtractiveTimeout: 5 * time.Second,
			Bands: map[models.SummaryLength]models.WordBand{
				models.LengthShort:  {Min: 30, Max: 100},
				models.LengthMedium: {Min: 50, Max: 150},
				models.LengthLong:   {Min: 100, Max: 250},
			},
		},

		Jobs: JobsConfig{
			WorkerCount:  2,
			QueueSize:    16,
			RetainedJobs: 100,
			JobTimeout:   30 * time.Minute,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.LogDir = getEnv("SVS_LOG_DIR", cfg.LogDir)
	cfg.TempDir = getEnv("SVS_TEMP_DIR", cfg.TempDir)
	cfg.Debug = getEnvAsBool("SVS_DEBUG", cfg.Debug)
	cfg.HistoryDBPath = getEnv("SVS_HISTORY_DB", cfg.HistoryDBPath)

	cfg.Audio.FFmpegPath = getEnv("SVS_FFMPEG_PATH", cfg.Audio.FFmpegPath)
	cfg.Audio.MinDuration = getEnvAsDuration("SVS_AUDIO_MIN_DURATION", cfg.Audio.MinDuration)
	cfg.Audio.MaxDuration = getEnvAsDuration("SVS_AUDIO_MAX_DURATION", cfg.Audio.MaxDuration)
	cfg.Audio.ExtractTimeout = getEnvAsDuration("SVS_AUDIO_EXTRACT_TIMEOUT", cfg.Audio.ExtractTimeout)

	cfg.Transcription.Backends = getEnvAsStringSlice("SVS_TRANSCRIPTION_BACKENDS", cfg.Transcription.Backends)
	cfg.Transcription.BackendTimeout = getEnvAsDuration("SVS_BACKEND_TIMEOUT", cfg.Transcription.BackendTimeout)
	cfg.Transcription.WhisperModel = getEnv("SVS_WHISPER_MODEL", cfg.Transcription.WhisperModel)
	cfg.Transcription.PythonPath = getEnv("SVS_PYTHON_PATH", cfg.Transcription.PythonPath)
	cfg.Transcription.ScriptsPath = getEnv("SVS_SCRIPTS_PATH", cfg.Transcription.ScriptsPath)
	cfg.Transcription.SpeechEndpoint = getEnv("SVS_SPEECH_ENDPOINT", cfg.Transcription.SpeechEndpoint)

	cfg.Summarization.LLMEndpoint = getEnv("SVS_LLM_ENDPOINT", cfg.Summarization.LLMEndpoint)
	cfg.Summarization.LLMModel = getEnv("SVS_LLM_MODEL", cfg.Summarization.LLMModel)
	cfg.Summarization.LLMTimeout = getEnvAsDuration("SVS_LLM_TIMEOUT", cfg.Summarization.LLMTimeout)
	cfg.Summarization.LLMMaxTokens = getEnvAsInt("SVS_LLM_MAX_TOKENS", cfg.Summarization.LLMMaxTokens)

	cfg.Jobs.WorkerCount = getEnvAsInt("SVS_WORKER_COUNT", cfg.Jobs.WorkerCount)
	cfg.Jobs.QueueSize = getEnvAsInt("SVS_QUEUE_SIZE", cfg.Jobs.QueueSize)
	cfg.Jobs.RetainedJobs = getEnvAsInt("SVS_RETAINED_JOBS", cfg.Jobs.RetainedJobs)
}

func (c *Config) Validate() error {
	if c.Audio.MinDuration <= 0 || c.Audio.MaxDuration <= c.Audio.MinDuration {
		return fmt.Errorf("audio duration bounds must satisfy 0 < min < max")
	}
	if c.Audio.SilenceFraction <= 0 || c.Audio.SilenceFraction > 1 {
		return fmt.Errorf("silence fraction must be in (0, 1]")
	}
	if len(c.Transcription.Backends) == 0 {
		return fmt.Errorf("at least one transcription backend is required")
	}
	if c.Transcription.BackendTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if c.Jobs.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive")
	}
	if c.Jobs.RetainedJobs <= 0 {
		return fmt.Errorf("retained job count must be positive")
	}
	for _, length := range []models.SummaryLength{models.LengthShort, models.LengthMedium, models.LengthLong} {
		band, ok := c.Summarization.Bands[length]
		if !ok {
			return fmt.Errorf("missing word band for length %q", length)
		}
		if band.Min <= 0 || band.Max <= band.Min {
			return fmt.Errorf("word band for %q must satisfy 0 < min < max", length)
		}
	}
	return nil
}

// Band returns the word-count band for a length option.
func (c *Config) Band(length models.SummaryLength) models.WordBand {
	if band, ok := c.Summarization.Bands[length]; ok {
		return band
	}
	return c.Summarization.Bands[models.LengthMedium]
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
