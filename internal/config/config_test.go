package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BILL_SCANNER_CONFIG", "")
	t.Setenv("ETL_LOOKBACK_DAYS", "")
	t.Setenv("NE_REQUEST_DELAY_MS", "")

	cfg := Load()

	if cfg.OpenStates.LookbackDays != 7 {
		t.Fatalf("unexpected lookback default: %d", cfg.OpenStates.LookbackDays)
	}
	if cfg.Scraper.DelayMillis != 600 {
		t.Fatalf("unexpected delay default: %d", cfg.Scraper.DelayMillis)
	}
	if cfg.OpenStates.Jurisdiction != "Nebraska" {
		t.Fatalf("unexpected jurisdiction: %s", cfg.OpenStates.Jurisdiction)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BILL_SCANNER_CONFIG", "")
	t.Setenv("OPENSTATES_API_KEY", "secret")
	t.Setenv("DATABASE_DSN", "postgres://etl@db:5432/bills")
	t.Setenv("ETL_LOOKBACK_DAYS", "14")
	t.Setenv("NE_REQUEST_DELAY_MS", "250")

	cfg := Load()

	if cfg.OpenStates.APIKey != "secret" {
		t.Fatalf("api key override missing: %s", cfg.OpenStates.APIKey)
	}
	if cfg.Database.DSN != "postgres://etl@db:5432/bills" {
		t.Fatalf("dsn override missing: %s", cfg.Database.DSN)
	}
	if cfg.OpenStates.LookbackDays != 14 {
		t.Fatalf("lookback override missing: %d", cfg.OpenStates.LookbackDays)
	}
	if cfg.Scraper.DelayMillis != 250 {
		t.Fatalf("delay override missing: %d", cfg.Scraper.DelayMillis)
	}
}

func TestLoadInvalidEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv("BILL_SCANNER_CONFIG", "")
	t.Setenv("ETL_LOOKBACK_DAYS", "soon")
	t.Setenv("NE_REQUEST_DELAY_MS", "-5")

	cfg := Load()

	if cfg.OpenStates.LookbackDays != 7 {
		t.Fatalf("invalid lookback must keep default, got %d", cfg.OpenStates.LookbackDays)
	}
	if cfg.Scraper.DelayMillis != 600 {
		t.Fatalf("invalid delay must keep default, got %d", cfg.Scraper.DelayMillis)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
openstates:
  lookbackDays: 3
scraper:
  delayMillis: 100
server:
  addr: ":9090"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BILL_SCANNER_CONFIG", path)
	t.Setenv("ETL_LOOKBACK_DAYS", "")
	t.Setenv("NE_REQUEST_DELAY_MS", "")

	cfg := Load()

	if cfg.OpenStates.LookbackDays != 3 {
		t.Fatalf("yaml lookback not applied: %d", cfg.OpenStates.LookbackDays)
	}
	if cfg.Scraper.DelayMillis != 100 {
		t.Fatalf("yaml delay not applied: %d", cfg.Scraper.DelayMillis)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("yaml addr not applied: %s", cfg.Server.Addr)
	}
	// Untouched sections keep defaults.
	if cfg.OpenStates.Jurisdiction != "Nebraska" {
		t.Fatalf("default jurisdiction lost: %s", cfg.OpenStates.Jurisdiction)
	}
}

func TestValidateSync(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.ValidateSync(); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	cfg.OpenStates.APIKey = "secret"
	if err := cfg.ValidateSync(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
