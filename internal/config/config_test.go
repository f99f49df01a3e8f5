package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ========================================
// Helper Functions Tests
// ========================================

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_GET_ENV", "test_value")

	t.Run("existing env var", func(t *testing.T) {
		if got := getEnv("TEST_GET_ENV", "default"); got != "test_value" {
			t.Errorf("getEnv() = %q, want %q", got, "test_value")
		}
	})

	t.Run("missing env var", func(t *testing.T) {
		if got := getEnv("TEST_MISSING_VAR", "default_value"); got != "default_value" {
			t.Errorf("getEnv() = %q, want %q", got, "default_value")
		}
	})

	t.Run("empty env var", func(t *testing.T) {
		t.Setenv("TEST_EMPTY_VAR", "")
		if got := getEnv("TEST_EMPTY_VAR", "default"); got != "default" {
			t.Errorf("getEnv() = %q, want %q (empty should use default)", got, "default")
		}
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Run("valid integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		if got := getEnvInt("TEST_INT", 0); got != 42 {
			t.Errorf("getEnvInt() = %d, want 42", got)
		}
	})

	t.Run("invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_INVALID", "not-a-number")
		if got := getEnvInt("TEST_INT_INVALID", 99); got != 99 {
			t.Errorf("getEnvInt() = %d, want 99 (default)", got)
		}
	})
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "250ms")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != 250*time.Millisecond {
		t.Errorf("getEnvDuration() = %v, want 250ms", got)
	}

	t.Setenv("TEST_DURATION_BAD", "soon")
	if got := getEnvDuration("TEST_DURATION_BAD", time.Second); got != time.Second {
		t.Errorf("getEnvDuration() = %v, want 1s (default)", got)
	}
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", "a, b,,c ")

	got := getEnvSlice("TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("getEnvSlice() = %v, want %v", got, want)
	}
}

// ========================================
// Load Tests
// ========================================

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("APIFY_API_KEY", "apify_api_test")
	t.Setenv("SCRAPER_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.OpenAIModel != DefaultOpenAIModel {
		t.Errorf("OpenAIModel = %q, want %q", cfg.OpenAIModel, DefaultOpenAIModel)
	}
	if cfg.Scrape.Actor != DefaultApifyActor {
		t.Errorf("Actor = %q, want %q", cfg.Scrape.Actor, DefaultApifyActor)
	}
	if cfg.Scrape.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", cfg.Scrape.MaxResults)
	}
	if len(cfg.Scrape.CategoryURLs) != 2 {
		t.Errorf("CategoryURLs length = %d, want 2", len(cfg.Scrape.CategoryURLs))
	}
	if cfg.Poll.MaxAttempts != 10 {
		t.Errorf("MaxAttempts = %d, want 10", cfg.Poll.MaxAttempts)
	}
	if cfg.Poll.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Poll.Interval)
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("APIFY_API_KEY", "")
	t.Setenv("SCRAPER_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing API keys")
	}
	for _, field := range []string{"OpenAIAPIKey", "ApifyAPIKey"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error = %q, should mention %s", err, field)
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("POLL_MAX_ATTEMPTS", "3")
	t.Setenv("POLL_INTERVAL", "100ms")
	t.Setenv("APIFY_BASE_URL", "http://localhost:9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Poll.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Poll.MaxAttempts)
	}
	if cfg.Poll.Interval != 100*time.Millisecond {
		t.Errorf("Interval = %v, want 100ms", cfg.Poll.Interval)
	}
	if cfg.ApifyBaseURL != "http://localhost:9999" {
		t.Errorf("ApifyBaseURL = %q", cfg.ApifyBaseURL)
	}
}

func TestLoad_InvalidPollBudget(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_MAX_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero poll attempts")
	}
}

// ========================================
// YAML File Tests
// ========================================

func TestLoadFile_Missing(t *testing.T) {
	fc, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc != nil {
		t.Error("missing file should return nil config")
	}
}

func TestLoadFile_AppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	content := `
scrape:
  actor: someone~other-actor
  max_results: 25
  category_urls:
    - https://www.amazon.com/Best-Sellers-Kitchen/zgbs/kitchen
poll:
  max_attempts: 4
  interval: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	setRequiredEnv(t)
	t.Setenv("SCRAPER_CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scrape.Actor != "someone~other-actor" {
		t.Errorf("Actor = %q", cfg.Scrape.Actor)
	}
	if cfg.Scrape.MaxResults != 25 {
		t.Errorf("MaxResults = %d, want 25", cfg.Scrape.MaxResults)
	}
	if len(cfg.Scrape.CategoryURLs) != 1 {
		t.Errorf("CategoryURLs = %v, want 1 entry", cfg.Scrape.CategoryURLs)
	}
	if cfg.Poll.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", cfg.Poll.MaxAttempts)
	}
	if cfg.Poll.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", cfg.Poll.Interval)
	}
}

func TestLoadFile_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	if err := os.WriteFile(path, []byte("poll:\n  max_attempts: 4\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	setRequiredEnv(t)
	t.Setenv("SCRAPER_CONFIG_FILE", path)
	t.Setenv("POLL_MAX_ATTEMPTS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Poll.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7 (env wins)", cfg.Poll.MaxAttempts)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	if err := os.WriteFile(path, []byte("scrape: [unclosed"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate_BadCategoryURL(t *testing.T) {
	cfg := Defaults()
	cfg.OpenAIAPIKey = "k"
	cfg.ApifyAPIKey = "k"
	cfg.Scrape.CategoryURLs = []string{"not a url"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid category URL")
	}
}
