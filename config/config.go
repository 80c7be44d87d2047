package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
)

const defaultRefinePrompt = "You clean up voice message transcripts. Fix punctuation and obvious " +
	"recognition mistakes, keep the original language and meaning, and never add content."

type Config struct {
	Port string

	WhatsAppToken   string
	VerifyToken     string
	PhoneNumberID   string
	AppSecret       string
	GraphAPIBaseURL string
	GraphAPIVersion string
	MarkAsRead      bool
	MaxAudioBytes   int64

	TranscriptionLanguage string

	TranscriptionProvider    string
	OpenAIKey                string
	OpenAIBaseURL            string
	OpenAITranscriptionModel string
	OpenAIRefineModel        string
	OpenAIRefinePrompt       string
	ElevenLabsAPIKey         string
	ElevenLabsBaseURL        string
	ElevenLabsModel          string

	ReplyPrefix          string
	EmptyTranscriptReply string
	FailureNotice        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DedupTTL      time.Duration

	HTTPTimeout    time.Duration
	ProcessTimeout time.Duration

	LogLevel  string
	LogFormat string
}

type envVar struct {
	name  string
	value string
}

// ConfigurationError lists every required variable that was missing at startup.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, ", "))
	}
	return "config: " + strings.Join(parts, "; ")
}

// Load reads the process environment (and a .env file when present) once.
// The returned value is treated as read-only for the lifetime of the process.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		VerifyToken:           getEnv("VERIFY_TOKEN", ""),
		PhoneNumberID:         getEnv("PHONE_NUMBER_ID", ""),
		AppSecret:             getEnv("WHATSAPP_APP_SECRET", ""),
		GraphAPIBaseURL:       strings.TrimRight(getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com"), "/"),
		GraphAPIVersion:       getEnv("GRAPH_API_VERSION", "v21.0"),
		MarkAsRead:            getEnvBool("MARK_AS_READ", false),
		MaxAudioBytes:         int64(getEnvInt("MAX_AUDIO_BYTES", 25*1024*1024)),
		TranscriptionLanguage: getEnv("TRANSCRIPTION_LANGUAGE", ""),

		TranscriptionProvider:    strings.ToLower(getEnv("TRANSCRIPTION_PROVIDER", ProviderOpenAI)),
		OpenAIKey:                getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", ""),
		OpenAITranscriptionModel: getEnv("OPENAI_TRANSCRIPTION_MODEL", "whisper-1"),
		OpenAIRefineModel:        getEnv("OPENAI_REFINE_MODEL", ""),
		OpenAIRefinePrompt:       getEnv("OPENAI_REFINE_PROMPT", defaultRefinePrompt),
		ElevenLabsAPIKey:         getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL:        strings.TrimRight(getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"), "/"),
		ElevenLabsModel:          getEnv("ELEVENLABS_MODEL", "scribe_v1"),

		ReplyPrefix:          os.Getenv("REPLY_PREFIX"),
		EmptyTranscriptReply: getEnv("EMPTY_TRANSCRIPT_REPLY", "(no speech detected)"),
		FailureNotice:        getEnv("FAILURE_NOTICE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DedupTTL:      getEnvDuration("DEDUP_TTL", 24*time.Hour),

		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		ProcessTimeout: getEnvDuration("PROCESS_TIMEOUT", 60*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every missing or inconsistent setting in a single error.
func (c *Config) Validate() error {
	cfgErr := &ConfigurationError{}

	required := []envVar{
		{"WHATSAPP_TOKEN", c.WhatsAppToken},
		{"VERIFY_TOKEN", c.VerifyToken},
		{"PHONE_NUMBER_ID", c.PhoneNumberID},
	}

	switch c.TranscriptionProvider {
	case ProviderOpenAI:
		required = append(required, envVar{"OPENAI_API_KEY", c.OpenAIKey})
	case ProviderElevenLabs:
		required = append(required, envVar{"ELEVENLABS_API_KEY", c.ElevenLabsAPIKey})
		if c.OpenAIRefineModel != "" {
			required = append(required, envVar{"OPENAI_API_KEY", c.OpenAIKey})
		}
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("TRANSCRIPTION_PROVIDER=%q", c.TranscriptionProvider))
	}

	for _, r := range required {
		if r.value == "" {
			cfgErr.Missing = append(cfgErr.Missing, r.name)
		}
	}

	if c.MaxAudioBytes <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, "MAX_AUDIO_BYTES must be positive")
	}

	if len(cfgErr.Missing) > 0 || len(cfgErr.Invalid) > 0 {
		return cfgErr
	}
	return nil
}

// DedupEnabled reports whether a Redis address was configured for deduplication.
func (c *Config) DedupEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
