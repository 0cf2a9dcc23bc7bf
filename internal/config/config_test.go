package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if cfg.AutoSaveInterval != 30*time.Second {
		t.Fatalf("autosave interval = %s", cfg.AutoSaveInterval)
	}
	if !cfg.RAG.Enabled || cfg.RAG.TopK != 5 {
		t.Fatalf("rag = %+v", cfg.RAG)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("COMPLYX_API_URL", "https://api.example.com")
	t.Setenv("COMPLYX_TIMEOUT", "5s")
	t.Setenv("COMPLYX_AUTOSAVE_INTERVAL", "1m")
	t.Setenv("COMPLYX_RAG", "false")
	t.Setenv("COMPLYX_RAG_TOP_K", "10")
	t.Setenv("COMPLYX_RAG_MIN_SCORE", "0.7")

	cfg := FromEnv()
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.Timeout != 5*time.Second || cfg.AutoSaveInterval != time.Minute {
		t.Fatalf("durations = %s / %s", cfg.Timeout, cfg.AutoSaveInterval)
	}
	if cfg.RAG.Enabled || cfg.RAG.TopK != 10 || cfg.RAG.MinScore != 0.7 {
		t.Fatalf("rag = %+v", cfg.RAG)
	}
}

func TestFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("COMPLYX_TIMEOUT", "not-a-duration")
	t.Setenv("COMPLYX_RAG_TOP_K", "-3")

	cfg := FromEnv()
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if cfg.RAG.TopK != 5 {
		t.Fatalf("topK = %d", cfg.RAG.TopK)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing base URL should fail validation")
	}

	cfg.APIBaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("malformed base URL should fail validation")
	}

	cfg.APIBaseURL = "https://api.example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.AutoSaveInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero autosave interval should fail validation")
	}
}
