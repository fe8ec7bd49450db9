package reporter

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/telemetry"
)

// TelegramReporter pushes run summaries to a chat. Entirely optional: callers
// skip construction when no token is configured.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

// SendSummary reports one finished run, per-site counts included.
func (t *TelegramReporter) SendSummary(query scraper.Query, total int, perSite map[string]telemetry.SiteCounts) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 <b>Extraction finished</b>\n")
	fmt.Fprintf(&b, "Technology: %s | Experience: %s\n", query.Technology, query.Experience)
	fmt.Fprintf(&b, "Offers: <b>%d</b>\n", total)

	names := make([]string, 0, len(perSite))
	for name := range perSite {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		counts := perSite[name]
		if counts.Failed {
			fmt.Fprintf(&b, "• %s: ❌ failed\n", name)
			continue
		}
		fmt.Fprintf(&b, "• %s: %d offers (%d skipped, %d fallbacks)\n",
			name, counts.Emitted, counts.Skipped, counts.FieldFallbacks)
	}
	return t.SendMessage(b.String())
}

func (t *TelegramReporter) SendError(errReq error) error {
	return t.SendMessage(fmt.Sprintf("⚠️ <b>JobScout Error</b>:\n%v", errReq))
}
