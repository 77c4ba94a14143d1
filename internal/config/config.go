package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"alpha-radar/internal/domain"
)

// defaultCampaigns is the built-in watch-list, overridable via CAMPAIGNS.
// Format: SYMBOL:YYYY-MM-DD:type, comma separated.
const defaultCampaigns = "LISTAUSDT:2025-12-30:Megadrop," +
	"BBUSDT:2025-06-20:Megadrop," +
	"REZUSDT:2025-05-15:Launchpool," +
	"NOTUSDT:2025-04-01:Launchpool"

type Config struct {
	DatabaseURL      string
	RedisURL         string
	APIKey           string
	TelegramBotToken string
	BinanceBaseURL   string

	SnapshotTimeoutSecs int
	KlineTimeoutSecs    int
	TrailingWindowDays  int
	BurstThreshold      float64
	RefreshPollSecs     int

	SSHPort        int
	SSHHostKeyPath string

	Registry *domain.Registry
}

// Load reads the environment. Bad numeric values fall back to defaults with
// a warning; a malformed campaign list is a hard error because the registry
// is immutable for the life of the process.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, kline store disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.BinanceBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BINANCE_BASE_URL")), "/")
	if cfg.BinanceBaseURL == "" {
		cfg.BinanceBaseURL = "https://api.binance.com"
	}

	cfg.SnapshotTimeoutSecs = 5
	if v := os.Getenv("SNAPSHOT_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SnapshotTimeoutSecs = n
		}
	}

	cfg.KlineTimeoutSecs = 3
	if v := os.Getenv("KLINE_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.KlineTimeoutSecs = n
		}
	}

	cfg.TrailingWindowDays = 7
	if v := os.Getenv("TRAILING_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrailingWindowDays = n
		}
	}

	cfg.BurstThreshold = 3.8
	if v := os.Getenv("BURST_THRESHOLD"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.BurstThreshold = n
		}
	}

	cfg.RefreshPollSecs = 60
	if v := os.Getenv("REFRESH_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshPollSecs = n
		}
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/alpha_radar_ed25519"
	}

	spec := strings.TrimSpace(os.Getenv("CAMPAIGNS"))
	if spec == "" {
		spec = defaultCampaigns
	}
	entries, err := parseCampaigns(spec)
	if err != nil {
		return nil, fmt.Errorf("parse CAMPAIGNS: %w", err)
	}
	cfg.Registry, err = domain.NewRegistry(entries)
	if err != nil {
		return nil, fmt.Errorf("build campaign registry: %w", err)
	}

	return cfg, nil
}

func parseCampaigns(spec string) ([]domain.CampaignEntry, error) {
	var entries []domain.CampaignEntry
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("campaign %q: want SYMBOL:YYYY-MM-DD:type", raw)
		}
		symbol := strings.ToUpper(strings.TrimSpace(parts[0]))
		end, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(parts[1]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("campaign %s: bad end date %q: %w", symbol, parts[1], err)
		}
		entries = append(entries, domain.CampaignEntry{
			Symbol: symbol,
			End:    end,
			Type:   parseCampaignType(parts[2]),
		})
	}
	return entries, nil
}

func parseCampaignType(raw string) domain.CampaignType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "megadrop":
		return domain.CampaignMegadrop
	case "launchpool":
		return domain.CampaignLaunchpool
	default:
		return domain.CampaignOther
	}
}
