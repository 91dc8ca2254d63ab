package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"CACHE_TTL", "PORT", "LLM_BASE_URL", "LLM_MODEL", "GITHUB_API_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %s, want %s", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("PORT", "9000")
	t.Setenv("GITHUB_API_URL", "http://localhost:1234/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %s, want 90s", cfg.CacheTTL)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.GitHubAPIURL != "http://localhost:1234/api/" {
		t.Errorf("GitHubAPIURL = %q, want trailing slash", cfg.GitHubAPIURL)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	chdir(t, t.TempDir())
	for _, raw := range []string{"soon", "-1m", "0s"} {
		t.Setenv("CACHE_TTL", raw)
		if _, err := Load(); err == nil {
			t.Errorf("CACHE_TTL=%q: expected error", raw)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
