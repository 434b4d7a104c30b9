package core

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// clearConfigEnv blanks every variable LoadConfig reads so tests see defaults.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "AI_TIMEOUT",
		"TEMPERATURE", "TOP_P", "RESPONSE_TOKENS", "TOKENIZER_MODEL", "MAX_INPUT_TOKENS",
		"EXTRACTION_MAX_INPUT_TOKENS", "DEFAULT_STRATEGY", "STRUCTURED_COMMENTARY",
		"ALLOW_EMPTY_PAGES", "PROFILE_PATH", "HOST", "PORT", "MAX_UPLOAD_MEMORY",
		"SHUTDOWN_TIMEOUT", "LOG_FILE", "LOG_LEVEL", "DEV_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.TokenizerModel != cfg.Model {
		t.Errorf("TokenizerModel = %q, want it to follow Model", cfg.TokenizerModel)
	}
	if cfg.MaxInputTokens != 126000 {
		t.Errorf("MaxInputTokens = %d, want 126000", cfg.MaxInputTokens)
	}
	if cfg.ExtractionMaxInputTokens != 6000 {
		t.Errorf("ExtractionMaxInputTokens = %d, want 6000", cfg.ExtractionMaxInputTokens)
	}
	if cfg.ResponseTokens != 1500 {
		t.Errorf("ResponseTokens = %d, want 1500", cfg.ResponseTokens)
	}
	if cfg.Temperature != 0.7 || cfg.TopP != 1.0 {
		t.Errorf("sampling = (%v, %v), want (0.7, 1.0)", cfg.Temperature, cfg.TopP)
	}
	if cfg.DefaultStrategy != StrategyFreeform {
		t.Errorf("DefaultStrategy = %q, want %q", cfg.DefaultStrategy, StrategyFreeform)
	}
	if cfg.HasAPIKey() {
		t.Error("HasAPIKey() should be false without OPENAI_API_KEY")
	}
	if cfg.Addr() != "localhost:8501" {
		t.Errorf("Addr() = %q, want localhost:8501", cfg.Addr())
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OPENAI_KEY", "sk-legacy-key-value")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("DEFAULT_STRATEGY", "structured")
	t.Setenv("STRUCTURED_COMMENTARY", "yes")
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_UPLOAD_MEMORY", "64MB")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-legacy-key-value" {
		t.Error("legacy OPENAI_KEY should be honoured")
	}
	if cfg.TokenizerModel != "gpt-4o-mini" {
		t.Errorf("TokenizerModel = %q, want gpt-4o-mini", cfg.TokenizerModel)
	}
	if cfg.DefaultStrategy != StrategyStructured {
		t.Errorf("DefaultStrategy = %q", cfg.DefaultStrategy)
	}
	if !cfg.StructuredCommentary {
		t.Error("StructuredCommentary should be true")
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.MaxUploadMemory != 64*BytesPerMB {
		t.Errorf("MaxUploadMemory = %d, want %d", cfg.MaxUploadMemory, 64*BytesPerMB)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown strategy", key: "DEFAULT_STRATEGY", val: "poetry"},
		{name: "temperature out of range", key: "TEMPERATURE", val: "3"},
		{name: "top_p zero", key: "TOP_P", val: "0"},
		{name: "negative budget", key: "MAX_INPUT_TOKENS", val: "-1"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "zero upload limit", key: "MAX_UPLOAD_MEMORY", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("LoadConfig() with %s=%s should fail", tt.key, tt.val)
			}
			cfgErr, ok := IsConfigError(err)
			if !ok {
				t.Fatalf("error %v should be a ConfigError", err)
			}
			if !strings.Contains(cfgErr.Message, tt.key) {
				t.Errorf("message %q should name %s", cfgErr.Message, tt.key)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	got, err := ParseStrategy("", StrategyHighlights)
	if err != nil || got != StrategyHighlights {
		t.Errorf("ParseStrategy(\"\") = %q, %v; want fallback", got, err)
	}
	for _, s := range Strategies {
		if got, err := ParseStrategy(string(s), StrategyFreeform); err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseStrategy("Structured", StrategyFreeform); err == nil {
		t.Error("strategy names are case-sensitive")
	}
}

func TestStartupChecks(t *testing.T) {
	cfg := &Config{Model: "gpt-4o", DefaultStrategy: StrategyFreeform}

	checks := StartupChecks(cfg)
	var buf bytes.Buffer
	if !PrintStartupReport(&buf, checks) {
		t.Error("missing API key is a warning, startup should continue")
	}
	if !strings.Contains(buf.String(), "API key") {
		t.Errorf("report should mention the API key, got %q", buf.String())
	}

	cfg.ProfilePath = filepath.Join(t.TempDir(), "missing.yaml")
	if PrintStartupReport(&buf, StartupChecks(cfg)) {
		t.Error("a missing profile file should block startup")
	}
}
