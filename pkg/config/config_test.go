package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Search.FuzzyThreshold != 0.6 {
		t.Errorf("FuzzyThreshold = %v, want 0.6", cfg.Search.FuzzyThreshold)
	}
	if cfg.Recent.MaxEntries != 20 {
		t.Errorf("MaxEntries = %d, want 20", cfg.Recent.MaxEntries)
	}
	if cfg.Catalog.IncludePrivateUse {
		t.Error("IncludePrivateUse should default to false")
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[search]\nfuzzy_threshold = 0.8\n\n[recent]\nmax_entries = 5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Search.FuzzyThreshold != 0.8 {
		t.Errorf("FuzzyThreshold = %v, want 0.8", cfg.Search.FuzzyThreshold)
	}
	if cfg.Recent.MaxEntries != 5 {
		t.Errorf("MaxEntries = %d, want 5", cfg.Recent.MaxEntries)
	}
	// Untouched sections keep defaults.
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("MaxLimit = %d, want default 64", cfg.Server.MaxLimit)
	}
}

func TestLoadConfigClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[search]\nfuzzy_threshold = 3.0\nmax_results = -1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Search.FuzzyThreshold != 0.6 {
		t.Errorf("FuzzyThreshold = %v, want clamped 0.6", cfg.Search.FuzzyThreshold)
	}
	if cfg.Search.MaxResults != 256 {
		t.Errorf("MaxResults = %d, want clamped 256", cfg.Search.MaxResults)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Search.FuzzyThreshold != 0.6 {
		t.Errorf("FuzzyThreshold = %v, want default", cfg.Search.FuzzyThreshold)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	// Second init reads the file it just wrote.
	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("second InitConfig: %v", err)
	}
	if *again != *cfg {
		t.Error("round-tripped config differs from defaults")
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	threshold := 0.8
	maxTerms := 4
	if err := cfg.Update(path, &threshold, nil, &maxTerms, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Search.FuzzyThreshold != 0.8 {
		t.Errorf("FuzzyThreshold = %v, want 0.8", loaded.Search.FuzzyThreshold)
	}
	if loaded.Search.MaxTerms != 4 {
		t.Errorf("MaxTerms = %d, want 4", loaded.Search.MaxTerms)
	}
	// Untouched fields keep their previous values.
	if loaded.Search.MaxResults != 256 {
		t.Errorf("MaxResults = %d, want 256", loaded.Search.MaxResults)
	}

	// Out-of-range updates are clamped before saving.
	bad := 5.0
	if err := cfg.Update(path, &bad, nil, nil, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	loaded, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Search.FuzzyThreshold != 0.6 {
		t.Errorf("FuzzyThreshold = %v, want clamped 0.6", loaded.Search.FuzzyThreshold)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Search.CaseSensitive = true
	cfg.Store.Path = "/tmp/glyphs.db"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !loaded.Search.CaseSensitive {
		t.Error("CaseSensitive not persisted")
	}
	if loaded.Store.Path != "/tmp/glyphs.db" {
		t.Errorf("Store.Path = %q", loaded.Store.Path)
	}
}
