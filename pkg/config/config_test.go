package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.CandidateCap != 500 {
		t.Errorf("candidate cap = %d, want 500", cfg.Search.CandidateCap)
	}
	if cfg.Search.ScoreThreshold != 0.65 {
		t.Errorf("score threshold = %v, want 0.65", cfg.Search.ScoreThreshold)
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("max results = %d, want 20", cfg.Search.MaxResults)
	}
	if cfg.Search.PrefixBonus != 0.09 {
		t.Errorf("prefix bonus = %v, want 0.09", cfg.Search.PrefixBonus)
	}
	if cfg.Search.MinQueryLen != 2 {
		t.Errorf("min query len = %d, want 2", cfg.Search.MinQueryLen)
	}
}

func TestOptionsConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.CandidateCap = 123
	cfg.Search.ScoreThreshold = 0.5

	opts := cfg.Options()
	if opts.CandidateCap != 123 || opts.ScoreThreshold != 0.5 {
		t.Errorf("Options() dropped values: %+v", opts)
	}
	if opts.MaxResults != cfg.Search.MaxResults || opts.PrefixBonus != cfg.Search.PrefixBonus {
		t.Errorf("Options() dropped values: %+v", opts)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[search]
candidate_cap = 200
score_threshold = 0.7

[server]
link_template = "https://example.org/#{oid}"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Search.CandidateCap != 200 {
		t.Errorf("candidate cap = %d, want 200", cfg.Search.CandidateCap)
	}
	if cfg.Search.ScoreThreshold != 0.7 {
		t.Errorf("score threshold = %v, want 0.7", cfg.Search.ScoreThreshold)
	}
	// untouched keys keep defaults
	if cfg.Search.MaxResults != 20 {
		t.Errorf("max results = %d, want default 20", cfg.Search.MaxResults)
	}
	if cfg.Server.LinkTemplate != "https://example.org/#{oid}" {
		t.Errorf("link template = %q", cfg.Server.LinkTemplate)
	}
}

// a type error in one key must not throw away the rest of the file
func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[search]
candidate_cap = 250
score_threshold = "not a number"

[cli]
default_limit = 5
show_links = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Search.CandidateCap != 250 {
		t.Errorf("candidate cap = %d, want recovered 250", cfg.Search.CandidateCap)
	}
	if cfg.Search.ScoreThreshold != 0.65 {
		t.Errorf("score threshold = %v, want default 0.65 after bad value", cfg.Search.ScoreThreshold)
	}
	if cfg.CLI.DefaultLimit != 5 {
		t.Errorf("cli default limit = %d, want recovered 5", cfg.CLI.DefaultLimit)
	}
	if !cfg.CLI.ShowLinks {
		t.Errorf("cli show_links = false, want recovered true")
	}
}

func TestInitConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if cfg.Search.CandidateCap != 500 {
		t.Errorf("candidate cap = %d, want default 500", cfg.Search.CandidateCap)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}

	// second init reads the file it just wrote
	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("second InitConfig failed: %v", err)
	}
	if again.Search.ScoreThreshold != cfg.Search.ScoreThreshold {
		t.Errorf("reloaded config differs: %+v vs %+v", again, cfg)
	}
}
