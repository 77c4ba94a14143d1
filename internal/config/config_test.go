package config

import (
	"testing"
	"time"

	"alpha-radar/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL", "API_KEY", "TELEGRAM_BOT_TOKEN",
		"BINANCE_BASE_URL", "SNAPSHOT_TIMEOUT_SECS", "KLINE_TIMEOUT_SECS",
		"TRAILING_WINDOW_DAYS", "BURST_THRESHOLD", "REFRESH_POLL_SECS",
		"SSH_PORT", "SSH_HOST_KEY_PATH", "CAMPAIGNS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.BinanceBaseURL != "https://api.binance.com" {
		t.Fatalf("expected default base url, got %s", cfg.BinanceBaseURL)
	}
	if cfg.SnapshotTimeoutSecs != 5 || cfg.KlineTimeoutSecs != 3 {
		t.Fatalf("unexpected timeouts: %d/%d", cfg.SnapshotTimeoutSecs, cfg.KlineTimeoutSecs)
	}
	if cfg.TrailingWindowDays != 7 || cfg.BurstThreshold != 3.8 || cfg.RefreshPollSecs != 60 {
		t.Fatalf("unexpected pipeline defaults: %+v", cfg)
	}
	if cfg.Registry.Len() != 4 {
		t.Fatalf("expected 4 default campaigns, got %d", cfg.Registry.Len())
	}
	entry, ok := cfg.Registry.Lookup("LISTAUSDT")
	if !ok || entry.Type != domain.CampaignMegadrop {
		t.Fatalf("unexpected default entry: %+v ok=%v", entry, ok)
	}
	if !entry.End.Equal(time.Date(2025, 12, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end date: %v", entry.End)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BINANCE_BASE_URL", "https://api.binance.us/")
	t.Setenv("SNAPSHOT_TIMEOUT_SECS", "3")
	t.Setenv("TRAILING_WINDOW_DAYS", "14")
	t.Setenv("BURST_THRESHOLD", "4.0")
	t.Setenv("CAMPAIGNS", "abcusdt:2026-03-01:launchpool, XYZUSDT:2026-09-15:megadrop")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BinanceBaseURL != "https://api.binance.us" {
		t.Fatalf("expected trimmed base url, got %s", cfg.BinanceBaseURL)
	}
	if cfg.SnapshotTimeoutSecs != 3 || cfg.TrailingWindowDays != 14 || cfg.BurstThreshold != 4.0 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Registry.Len() != 2 {
		t.Fatalf("expected 2 campaigns, got %d", cfg.Registry.Len())
	}
	if _, ok := cfg.Registry.Lookup("ABCUSDT"); !ok {
		t.Fatal("expected symbol to be upper-cased")
	}
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SNAPSHOT_TIMEOUT_SECS", "bad")
	t.Setenv("BURST_THRESHOLD", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotTimeoutSecs != 5 || cfg.BurstThreshold != 3.8 {
		t.Fatalf("invalid values should fall back to defaults: %+v", cfg)
	}
}

func TestLoadBadCampaignDateIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAMPAIGNS", "LISTAUSDT:30-12-2025:Megadrop")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed end date")
	}
}

func TestLoadBadCampaignShapeIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAMPAIGNS", "LISTAUSDT:2025-12-30")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed campaign entry")
	}
}

func TestParseCampaignType(t *testing.T) {
	if parseCampaignType(" Megadrop ") != domain.CampaignMegadrop {
		t.Fatal("expected megadrop")
	}
	if parseCampaignType("LAUNCHPOOL") != domain.CampaignLaunchpool {
		t.Fatal("expected launchpool")
	}
	if parseCampaignType("hodlathon") != domain.CampaignOther {
		t.Fatal("unknown types map to Other")
	}
}
