package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_RETRIES", "OBJECT_STORE", "LLM_API_KEY", "DEEPSEEK_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "deepseek" {
		t.Fatalf("expected deepseek provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMModel != "deepseek-chat" {
		t.Fatalf("expected deepseek-chat model, got %q", cfg.LLMModel)
	}
	if cfg.LLMMaxRetries != 0 {
		t.Fatalf("expected single-attempt default, got %d retries", cfg.LLMMaxRetries)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local object store, got %q", cfg.ObjectStoreType)
	}
}

func TestLoadAPIKeyFallbackOrder(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	cfg := Load()
	if cfg.LLMAPIKey != "ds-key" {
		t.Fatalf("expected DEEPSEEK_API_KEY to win, got %q", cfg.LLMAPIKey)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("LLM_TIMEOUT_SECONDS", "soon")
	cfg := Load()
	if cfg.LLMTimeoutSeconds != 120 {
		t.Fatalf("expected default timeout 120, got %d", cfg.LLMTimeoutSeconds)
	}
}

func TestLoadModelRateLimit(t *testing.T) {
	t.Setenv("MODEL_RATE_LIMIT_RPS", "2.5")
	t.Setenv("MODEL_RATE_LIMIT_BURST", "")
	cfg := Load()
	if cfg.ModelRateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.ModelRateLimitRPS)
	}
	if cfg.ModelRateLimitBurst != 5 {
		t.Fatalf("expected default burst 5, got %d", cfg.ModelRateLimitBurst)
	}

	t.Setenv("MODEL_RATE_LIMIT_RPS", "-1")
	if got := Load().ModelRateLimitRPS; got != 0.5 {
		t.Fatalf("expected negative rps to fall back to 0.5, got %v", got)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GI_TEST_A=file\nGI_TEST_B=\"quoted\"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("GI_TEST_A", "process")
	t.Setenv("GI_TEST_B", "")
	_ = os.Unsetenv("GI_TEST_B")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("GI_TEST_A"); got != "process" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("GI_TEST_B"); got != "quoted" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
