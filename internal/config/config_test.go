package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Analytics.CommissionPerUnit != 1.0 {
		t.Errorf("CommissionPerUnit = %v, want 1.0", cfg.Analytics.CommissionPerUnit)
	}
	if cfg.Analytics.SessionTimezone != "America/New_York" {
		t.Errorf("SessionTimezone = %q", cfg.Analytics.SessionTimezone)
	}
	if cfg.Analytics.RecoveryThreshold != 70 {
		t.Errorf("RecoveryThreshold = %v, want 70", cfg.Analytics.RecoveryThreshold)
	}
	if len(cfg.Data.Candidates) == 0 {
		t.Error("default feed candidates missing")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[analytics]
commission_per_unit = 0.5
session_timezone = "UTC"

[data]
candidates = ["a.json", "b.json"]
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analytics.CommissionPerUnit != 0.5 {
		t.Errorf("CommissionPerUnit = %v, want 0.5", cfg.Analytics.CommissionPerUnit)
	}
	if len(cfg.Data.Candidates) != 2 || cfg.Data.Candidates[0] != "a.json" {
		t.Errorf("Candidates = %v", cfg.Data.Candidates)
	}
	if cfg.SessionLocation().String() != "UTC" {
		t.Errorf("SessionLocation = %v, want UTC", cfg.SessionLocation())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADELYTICS_DB_PATH", "/tmp/override.db")
	t.Setenv("TRADELYTICS_COMMISSION", "3.5")
	t.Setenv("TRADELYTICS_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.DBPath != "/tmp/override.db" {
		t.Errorf("DBPath = %q", cfg.Data.DBPath)
	}
	if cfg.Analytics.CommissionPerUnit != 3.5 {
		t.Errorf("CommissionPerUnit = %v, want 3.5", cfg.Analytics.CommissionPerUnit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	content := `
[analytics]
recovery_threshold = 150.0
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("out-of-range recovery_threshold should fail validation")
	}

	bad := &Config{Analytics: AnalyticsConfig{SessionTimezone: "Not/AZone"}}
	if err := bad.Validate(); err == nil {
		t.Error("invalid timezone should fail validation")
	}
}
