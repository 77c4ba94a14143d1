package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"alpha-radar/internal/domain"
	"alpha-radar/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(refreshService *service.RefreshService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/board", func(c tele.Context) error {
		board := refreshService.Latest(context.Background())
		return c.Send(formatBoard(board))
	})

	b.Handle("/burst", func(c tele.Context) error {
		board := refreshService.Latest(context.Background())
		return c.Send(formatBursts(board))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatBoard(board domain.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Campaign board (%s)\n", strings.ToUpper(string(board.Mode)))
	for _, rec := range board.Records {
		fmt.Fprintf(&sb, "%s  $%.4f  vol %.1f%%  %s  %dd left",
			rec.Symbol, rec.Price, rec.VolatilityPct, ratioLabel(rec), rec.DaysRemaining)
		if rec.VolumeState == domain.VolumeBurst {
			sb.WriteString("  <<< BURST")
		}
		sb.WriteString("\n")
	}
	if len(board.Records) == 0 {
		sb.WriteString("no records\n")
	}
	return sb.String()
}

func formatBursts(board domain.Board) string {
	bursts := board.Bursts()
	if len(bursts) == 0 {
		return "No volume bursts right now."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Volume bursts (%s)\n", strings.ToUpper(string(board.Mode)))
	for _, rec := range bursts {
		fmt.Fprintf(&sb, "%s  ratio %.2fx  volume $%.0f\n", rec.Symbol, rec.VolumeRatio, rec.QuoteVolume)
	}
	return sb.String()
}

func ratioLabel(rec domain.IndicatorRecord) string {
	if !rec.HasRatio {
		return "ratio n/a"
	}
	return fmt.Sprintf("ratio %.2fx", rec.VolumeRatio)
}
