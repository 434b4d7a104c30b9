package core

import (
	"fmt"
	"strconv"
	"time"
)

// Strategy selects how the email is produced from the report text.
type Strategy string

const (
	// StrategyFreeform asks the completion service to write the whole email.
	StrategyFreeform Strategy = "freeform"
	// StrategyHighlights fills a fixed template with two regex-scanned figures.
	StrategyHighlights Strategy = "highlights"
	// StrategyStructured asks for metrics as JSON and renders the HTML template.
	StrategyStructured Strategy = "structured"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategyFreeform, StrategyHighlights, StrategyStructured}

// ParseStrategy validates a strategy name. Empty input yields the fallback.
func ParseStrategy(value string, fallback Strategy) (Strategy, error) {
	if value == "" {
		return fallback, nil
	}
	for _, s := range Strategies {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", value)
}

// Config holds all configuration values
type Config struct {
	// Completion service
	OpenAIAPIKey  string // optional; operators may type a key into the form instead
	OpenAIBaseURL string
	Model         string
	AITimeout     time.Duration

	// Sampling parameters, fixed for every request
	Temperature    float32
	TopP           float32
	ResponseTokens int

	// Token budgets
	TokenizerModel           string
	MaxInputTokens           int // free-form prompt budget for report text
	ExtractionMaxInputTokens int // budget for the metrics-as-JSON request

	// Pipeline
	DefaultStrategy      Strategy
	StructuredCommentary bool
	AllowEmptyPages      bool
	ProfilePath          string

	// Server
	Host            string
	Port            int
	MaxUploadMemory int64
	ShutdownTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel string
	DevMode  bool
}

// HasAPIKey reports whether a completion credential was preconfigured.
func (c *Config) HasAPIKey() bool {
	return c.OpenAIAPIKey != ""
}

// Addr returns the listen address for the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig loads configuration from environment variables with defaults
// matching the gpt-4o deployment the tool was built for. Nothing is strictly
// required: the API key can be supplied per request.
func LoadConfig() (*Config, error) {
	openAIKey := GetEnvOrDefault("OPENAI_API_KEY", "")
	if openAIKey == "" {
		openAIKey = GetEnvOrDefault("OPENAI_KEY", "") // Legacy support
	}

	model := GetEnvOrDefault("OPENAI_MODEL", "gpt-4o")

	cfg := &Config{
		OpenAIAPIKey:  openAIKey,
		OpenAIBaseURL: GetEnvOrDefault("OPENAI_BASE_URL", ""),
		Model:         model,
		AITimeout:     ParseDurationEnv("AI_TIMEOUT", 120),

		Temperature:    ParseFloat32Env("TEMPERATURE", 0.7),
		TopP:           ParseFloat32Env("TOP_P", 1.0),
		ResponseTokens: ParseIntEnv("RESPONSE_TOKENS", 1500),

		TokenizerModel:           GetEnvOrDefault("TOKENIZER_MODEL", model),
		MaxInputTokens:           ParseIntEnv("MAX_INPUT_TOKENS", 126000),
		ExtractionMaxInputTokens: ParseIntEnv("EXTRACTION_MAX_INPUT_TOKENS", 6000),

		StructuredCommentary: ParseBoolEnv("STRUCTURED_COMMENTARY", false),
		AllowEmptyPages:      ParseBoolEnv("ALLOW_EMPTY_PAGES", false),
		ProfilePath:          GetEnvOrDefault("PROFILE_PATH", ""),

		Host:            GetEnvOrDefault("HOST", "localhost"),
		Port:            ParseIntEnv("PORT", 8501),
		MaxUploadMemory: ParseByteSizeEnv("MAX_UPLOAD_MEMORY", 32*BytesPerMB),
		ShutdownTimeout: ParseDurationEnv("SHUTDOWN_TIMEOUT", 30),

		LogFile:  GetEnvOrDefault("LOG_FILE", "reportmailer.log"),
		LogLevel: GetEnvOrDefault("LOG_LEVEL", ""),
		DevMode:  ParseBoolEnv("DEV_MODE", false),
	}

	strategy, err := ParseStrategy(GetEnvOrDefault("DEFAULT_STRATEGY", ""), StrategyFreeform)
	if err != nil {
		return nil, ErrInvalidValue("DEFAULT_STRATEGY", GetEnvOrDefault("DEFAULT_STRATEGY", ""), err.Error())
	}
	cfg.DefaultStrategy = strategy

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks ranges the completion API would otherwise reject mid-request.
func (c *Config) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidValue("TEMPERATURE", fmt.Sprintf("%.2f", c.Temperature), "must be between 0 and 2")
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return ErrInvalidValue("TOP_P", fmt.Sprintf("%.2f", c.TopP), "must be in (0, 1]")
	}
	if c.ResponseTokens <= 0 {
		return ErrInvalidValue("RESPONSE_TOKENS", strconv.Itoa(c.ResponseTokens), "must be positive")
	}
	if c.MaxInputTokens <= 0 {
		return ErrInvalidValue("MAX_INPUT_TOKENS", strconv.Itoa(c.MaxInputTokens), "must be positive")
	}
	if c.ExtractionMaxInputTokens <= 0 {
		return ErrInvalidValue("EXTRACTION_MAX_INPUT_TOKENS", strconv.Itoa(c.ExtractionMaxInputTokens), "must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidValue("PORT", strconv.Itoa(c.Port), "must be a valid TCP port")
	}
	if c.MaxUploadMemory <= 0 {
		return ErrInvalidValue("MAX_UPLOAD_MEMORY", strconv.FormatInt(c.MaxUploadMemory, 10), "must be positive")
	}
	if c.Model == "" {
		return ErrMissingConfig("OPENAI_MODEL")
	}
	return nil
}
