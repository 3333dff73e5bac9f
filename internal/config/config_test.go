package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Search: SearchConfig{Ranker: "remote"},
	}
}

func TestValidate_InvalidRanker(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Ranker = "serverless"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid ranker")
	}

	expected := `search.ranker must be "remote" or "local", got "serverless"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidRankers(t *testing.T) {
	for _, ranker := range []string{"remote", "local"} {
		t.Run("ranker="+ranker, func(t *testing.T) {
			cfg := validConfig()
			cfg.Search.Ranker = ranker
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for ranker %q: %v", ranker, err)
			}
		})
	}
}

func TestValidate_AlphaOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultAlpha = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for alpha out of range")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_UnknownVectorizerProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding = EmbeddingConfig{
		Providers: map[string]ProviderConfig{
			"openai": {APIKey: "test-key"},
		},
		Vectorizers: map[string]VectorizerConfig{
			"default": {Provider: "nebius", Model: "text-embedding-3-small"},
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider reference")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Search.Ranker != "remote" {
		t.Errorf("expected default ranker=remote, got %q", cfg.Search.Ranker)
	}
	if cfg.Search.DefaultAlpha != 0.5 {
		t.Errorf("expected DefaultAlpha=0.5, got %f", cfg.Search.DefaultAlpha)
	}
	if cfg.Search.DefaultTopK != 5 {
		t.Errorf("expected DefaultTopK=5, got %d", cfg.Search.DefaultTopK)
	}
	if cfg.Search.MaxTopK != 50 {
		t.Errorf("expected MaxTopK=50, got %d", cfg.Search.MaxTopK)
	}
	if cfg.Reembed.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Reembed.Workers)
	}
	if cfg.Reembed.IntervalMS != 200 {
		t.Errorf("expected IntervalMS=200, got %d", cfg.Reembed.IntervalMS)
	}
	if cfg.Storage.KeyPrefix != "pv:" {
		t.Errorf("expected KeyPrefix=pv:, got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PV_TEST_KEY", "secret")

	out := string(expandEnvVars([]byte("api_key: ${PV_TEST_KEY}\nurl: ${PV_MISSING:-http://fallback}")))
	if out != "api_key: secret\nurl: http://fallback" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
