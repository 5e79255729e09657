package config

import (
	"os"
	"strings"
	"testing"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvSerperAPIKey, EnvAzureAPIKey, EnvAzureEndpoint} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestValidateCredentials_AllPresent(t *testing.T) {
	clearCredentialEnv(t)
	cfg := DefaultConfig()
	cfg.Search.Serper.APIKey = "serper-key"
	cfg.LLM.APIKey = "azure-key"
	cfg.LLM.Endpoint = "https://example.openai.azure.com"

	if err := cfg.ValidateCredentials(); err != nil {
		t.Fatalf("ValidateCredentials() error = %v", err)
	}

	// Serper key 应被写回环境变量
	if got := os.Getenv(EnvSerperAPIKey); got != "serper-key" {
		t.Errorf("env %s = %q, want %q", EnvSerperAPIKey, got, "serper-key")
	}
}

func TestValidateCredentials_Missing(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantVar string
	}{
		{"missing serper", func(c *Config) { c.Search.Serper.APIKey = "" }, EnvSerperAPIKey},
		{"missing azure key", func(c *Config) { c.LLM.APIKey = "" }, EnvAzureAPIKey},
		{"missing endpoint", func(c *Config) { c.LLM.Endpoint = "" }, EnvAzureEndpoint},
		{"missing all", func(c *Config) {
			c.Search.Serper.APIKey = ""
			c.LLM.APIKey = ""
			c.LLM.Endpoint = ""
		}, EnvSerperAPIKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearCredentialEnv(t)
			cfg := DefaultConfig()
			cfg.Search.Serper.APIKey = "s"
			cfg.LLM.APIKey = "a"
			cfg.LLM.Endpoint = "e"
			tc.mutate(cfg)

			err := cfg.ValidateCredentials()
			if err == nil {
				t.Fatal("ValidateCredentials() = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.wantVar) {
				t.Errorf("error %q does not mention %s", err.Error(), tc.wantVar)
			}
		})
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvSerperAPIKey, "env-serper")
	t.Setenv(EnvAzureAPIKey, "env-azure")
	t.Setenv(EnvAzureEndpoint, "https://env.openai.azure.com")
	t.Setenv("OUTPUT_DIR", "/tmp/reports")
	t.Setenv("SEARCH_PROVIDER", "tavily")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Search.Serper.APIKey != "env-serper" {
		t.Errorf("Serper.APIKey = %q", cfg.Search.Serper.APIKey)
	}
	if cfg.LLM.Endpoint != "https://env.openai.azure.com" {
		t.Errorf("LLM.Endpoint = %q", cfg.LLM.Endpoint)
	}
	if cfg.Output.Dir != "/tmp/reports" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if cfg.Search.Provider != "tavily" {
		t.Errorf("Search.Provider = %q", cfg.Search.Provider)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Model != "gpt-4.1" {
		t.Errorf("default model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIVersion != "2025-01-01-preview" {
		t.Errorf("default api version = %q", cfg.LLM.APIVersion)
	}
	if cfg.Output.Dir != "./data" {
		t.Errorf("default output dir = %q", cfg.Output.Dir)
	}
	if cfg.Search.Provider != "serper" {
		t.Errorf("default search provider = %q", cfg.Search.Provider)
	}
}
