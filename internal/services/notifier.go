package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"launcher-api/internal/config"
)

// Notifier delivers operational notices to the admins. Text is HTML; user supplied
// parts must be passed through validation.SanitizeText.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// NopNotifier drops every notice
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, string) {}

// TelegramNotifier sends notices to admin chats through a Telegram bot
type TelegramNotifier struct {
	bot      *telebot.Bot
	adminIDs []int64
	logger   *logrus.Logger
}

// NewTelegramNotifier creates a new Telegram notifier. The bot is not polled for updates.
func NewTelegramNotifier(token string, adminIDs []int64, logger *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{
		bot:      bot,
		adminIDs: adminIDs,
		logger:   logger,
	}, nil
}

// Notify sends text to every admin chat. Failures are logged and never returned.
func (n *TelegramNotifier) Notify(ctx context.Context, text string) {
	for _, id := range n.adminIDs {
		if ctx.Err() != nil {
			return
		}
		if _, err := n.bot.Send(telebot.ChatID(id), text, telebot.ModeHTML); err != nil {
			n.logger.Errorf("Failed to notify admin %d: %v", id, err)
		}
	}
}

// NewNotifier returns a Telegram notifier when a bot token is configured
func NewNotifier(cfg config.TelegramConfig, logger *logrus.Logger) Notifier {
	if cfg.Token == "" {
		logger.Debug("No TG_TOKEN configured, admin notifications disabled")
		return NopNotifier{}
	}

	n, err := NewTelegramNotifier(cfg.Token, cfg.AdminIDs, logger)
	if err != nil {
		logger.Errorf("Admin notifications disabled: %v", err)
		return NopNotifier{}
	}

	logger.Infof("Admin notifications enabled for %d chats", len(cfg.AdminIDs))
	return n
}
