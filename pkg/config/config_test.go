package config

import (
	"testing"
	"time"
)

// helper to build a minimal valid config that can be tweaked in tests.
func validBaseConfig() *Config {
	cfg := DefaultConfig()
	cfg.LiveKit.APIKey = "devkey"
	cfg.LiveKit.APISecret = "devsecret"
	cfg.LiveKit.URL = "wss://livekit.example.com"
	return cfg
}

func TestValidate_MissingSigningMaterialIsFatal(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "api key must not be empty",
			mutate: func(c *Config) {
				c.LiveKit.APIKey = ""
			},
		},
		{
			name: "api secret must not be empty",
			mutate: func(c *Config) {
				c.LiveKit.APISecret = ""
			},
		},
		{
			name: "url must not be empty",
			mutate: func(c *Config) {
				c.LiveKit.URL = ""
			},
		},
		{
			name: "token ttl must be > 0",
			mutate: func(c *Config) {
				c.LiveKit.TokenTTL = 0
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validBaseConfig()
			tc.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for case %q, got nil", tc.name)
			}
		})
	}
}

func TestValidate_DefaultsWithCredentialsAreValid(t *testing.T) {
	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults with credentials to be valid, got error: %v", err)
	}
	if cfg.LiveKit.TokenTTL != 2*time.Hour {
		t.Fatalf("expected default token ttl of 2h, got %v", cfg.LiveKit.TokenTTL)
	}
}

func TestValidate_RateLimitingDisabled_AllowsZeroValues(t *testing.T) {
	cfg := validBaseConfig()
	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 0
	cfg.RateLimiting.Burst = 0
	cfg.RateLimiting.MaxConcurrent = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to be valid when rate limiting disabled, got error: %v", err)
	}
}

func TestValidate_RateLimiting_InvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "rps must be > 0",
			mutate: func(c *Config) {
				c.RateLimiting.RequestsPerSecond = 0
			},
		},
		{
			name: "burst must be > 0",
			mutate: func(c *Config) {
				c.RateLimiting.Burst = 0
			},
		},
		{
			name: "max concurrent must be >= 0",
			mutate: func(c *Config) {
				c.RateLimiting.MaxConcurrent = -1
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.RateLimiting.Enabled = true
			cfg.RateLimiting.RequestsPerSecond = 10
			cfg.RateLimiting.Burst = 20
			cfg.RateLimiting.MaxConcurrent = 5
			tc.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for case %q, got nil", tc.name)
			}
		})
	}
}

func TestLoad_EnvOverridesProvideCredentials(t *testing.T) {
	t.Setenv("LIVEKIT_API_KEY", "envkey")
	t.Setenv("LIVEKIT_API_SECRET", "envsecret")
	t.Setenv("LIVEKIT_URL", "wss://env.livekit.example.com")
	t.Setenv("PORT", "4500")

	cfg, err := Load("this-file-does-not-exist.yaml")
	if err != nil {
		t.Fatalf("expected load to succeed with env credentials, got error: %v", err)
	}
	if cfg.LiveKit.APIKey != "envkey" {
		t.Fatalf("expected api key from env, got %q", cfg.LiveKit.APIKey)
	}
	if cfg.Server.Address != ":4500" {
		t.Fatalf("expected PORT override, got %q", cfg.Server.Address)
	}
}

func TestLoad_MissingCredentialsFails(t *testing.T) {
	t.Setenv("LIVEKIT_API_KEY", "")
	t.Setenv("LIVEKIT_API_SECRET", "")
	t.Setenv("LIVEKIT_URL", "")

	if _, err := Load("this-file-does-not-exist.yaml"); err == nil {
		t.Fatal("expected load to fail without signing credentials, got nil")
	}
}
