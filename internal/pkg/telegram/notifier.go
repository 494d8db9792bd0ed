// Package telegram posts birthday run summaries to an admin chat.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxListed caps the failures listed in one message.
const maxListed = 20

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	return NewNotifierWithEndpoint(token, tgbotapi.APIEndpoint, chatID, &http.Client{})
}

// NewNotifierWithEndpoint talks to a non-default Bot API endpoint, e.g. a local server.
func NewNotifierWithEndpoint(token, endpoint string, chatID int64, client tgbotapi.HTTPClient) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// NotifySummary implements birthday.SummaryNotifier.
func (n *Notifier) NotifySummary(ctx context.Context, summary birthday.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatSummary(summary))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram summary: %w", err)
	}
	return nil
}

func FormatSummary(s birthday.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎂 Birthday greetings (%s)\n", s.Trigger)
	fmt.Fprintf(&b, "Sent: %d | Failed: %d | Skipped: %d\n", s.Sent, s.Failed, s.Skipped)
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	}

	listed := 0
	for _, r := range s.Results {
		if r.Success {
			continue
		}
		if listed == maxListed {
			b.WriteString("…\n")
			break
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", r.Name, r.EmployeeID, r.Reason)
		listed++
	}

	return strings.TrimRight(b.String(), "\n")
}
