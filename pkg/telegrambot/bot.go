// Package telegrambot runs an admin console for the hub over Telegram.
package telegrambot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"launcher-api/internal/config"
	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/services"
)

// Reply is the bot's answer to one command
type Reply struct {
	Text  string
	Photo []byte
}

type commandFunc func(ctx context.Context, args string) (Reply, error)

// Bot represents the Telegram admin bot
type Bot struct {
	bot             *telebot.Bot
	hub             *services.HubService
	qr              *services.QRService
	adminIDs        map[int64]bool
	commandHandlers map[string]commandFunc
	logger          *logrus.Logger
}

// NewBot creates a new Telegram admin bot
func NewBot(cfg config.TelegramConfig, hub *services.HubService, qr *services.QRService, logger *logrus.Logger) (*Bot, error) {
	settings := telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			logger.Errorf("Telegram bot error: %v", err)
			if c != nil {
				_ = c.Send("An error occurred. Please try again later.")
			}
		},
	}

	b, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	bot := newBot(hub, qr, cfg.AdminIDs, logger)
	bot.bot = b
	bot.setupMiddleware()

	return bot, nil
}

// newBot builds the command table without a Telegram connection
func newBot(hub *services.HubService, qr *services.QRService, adminIDs []int64, logger *logrus.Logger) *Bot {
	bot := &Bot{
		hub:      hub,
		qr:       qr,
		adminIDs: make(map[int64]bool, len(adminIDs)),
		logger:   logger,
	}
	for _, id := range adminIDs {
		bot.adminIDs[id] = true
	}

	bot.commandHandlers = map[string]commandFunc{
		"/start":     bot.handleHelp,
		"/help":      bot.handleHelp,
		"/stats":     bot.handleStats,
		"/users":     bot.handleUsers,
		"/payments":  bot.handlePayments,
		"/confirm":   bot.handleConfirm,
		"/receipt":   bot.handleReceipt,
		"/grant":     bot.handleGrant,
		"/revoke":    bot.handleRevoke,
		"/delete":    bot.handleDelete,
		"/broadcast": bot.handleBroadcast,
	}

	return bot
}

// Start starts polling and blocks until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting Telegram admin bot")

	go func() {
		<-ctx.Done()
		b.logger.Info("Stopping Telegram admin bot")
		b.bot.Stop()
	}()

	b.bot.Start()
	return nil
}

// setupMiddleware sets up the bot middleware
func (b *Bot) setupMiddleware() {
	b.bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			b.logger.Infof("Received message from %d: %s", c.Sender().ID, c.Text())
			return next(c)
		}
	})

	b.bot.Handle(telebot.OnText, b.handleUpdate)
}

// handleUpdate handles an update from Telegram
func (b *Bot) handleUpdate(c telebot.Context) error {
	reply := b.Execute(context.Background(), c.Sender().ID, c.Text())
	if reply.Photo != nil {
		return c.Send(&telebot.Photo{
			File:    telebot.FromReader(bytes.NewReader(reply.Photo)),
			Caption: reply.Text,
		})
	}
	return c.Send(reply.Text)
}

// Execute runs one command for a chat and renders the outcome
func (b *Bot) Execute(ctx context.Context, chatID int64, text string) Reply {
	if !b.adminIDs[chatID] {
		b.logger.Warnf("Rejected command from chat %d", chatID)
		return Reply{Text: "You don't have permission to use this bot."}
	}

	name, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	// Commands may carry the bot name in groups: /users@launcher_bot
	name, _, _ = strings.Cut(strings.ToLower(name), "@")

	handler, ok := b.commandHandlers[name]
	if !ok {
		return Reply{Text: "Unknown command. Send /help for the list."}
	}

	reply, err := handler(ctx, strings.TrimSpace(args))
	if err != nil {
		b.logger.Errorf("Command %s failed: %v", name, err)
		return Reply{Text: "Error: " + apperrors.MessageOf(err)}
	}
	return reply
}

func (b *Bot) handleHelp(context.Context, string) (Reply, error) {
	return Reply{Text: strings.Join([]string{
		"/stats - collection counts",
		"/users - list users",
		"/payments - list payments",
		"/confirm ID - confirm a cash payment",
		"/receipt ID - payment receipt QR",
		"/grant USER - grant premium",
		"/revoke USER - remove premium",
		"/delete USER - delete a user",
		"/broadcast TEXT - message every client",
	}, "\n")}, nil
}

func (b *Bot) handleStats(ctx context.Context, _ string) (Reply, error) {
	s := b.hub.Stats(ctx)
	return Reply{Text: fmt.Sprintf("Backend: %s\nUsers: %d\nMessages: %d\nPayments: %d\nBroadcasts: %d",
		s.Backend, s.Users, s.Messages, s.Payments, s.Broadcasts)}, nil
}

func (b *Bot) handleUsers(ctx context.Context, _ string) (Reply, error) {
	users := b.hub.ListUsers(ctx)
	if len(users) == 0 {
		return Reply{Text: "No users"}, nil
	}

	var sb strings.Builder
	for _, u := range users {
		fmt.Fprintf(&sb, "%s (%s)", u.Username, b.hub.TierOf(ctx, u.Username))
		if u.Email != "" {
			fmt.Fprintf(&sb, " %s", u.Email)
		}
		sb.WriteString("\n")
	}
	return Reply{Text: strings.TrimRight(sb.String(), "\n")}, nil
}

func (b *Bot) handlePayments(ctx context.Context, _ string) (Reply, error) {
	payments := b.hub.ListPayments(ctx)
	if len(payments) == 0 {
		return Reply{Text: "No payments"}, nil
	}

	var sb strings.Builder
	for _, p := range payments {
		fmt.Fprintf(&sb, "#%d %s $%.2f %s by %s\n", p.ID, p.Type, p.Amount, p.Status, p.Username)
	}
	return Reply{Text: strings.TrimRight(sb.String(), "\n")}, nil
}

func (b *Bot) handleConfirm(ctx context.Context, args string) (Reply, error) {
	id, err := parsePaymentID(args)
	if err != nil {
		return Reply{}, err
	}

	payment, err := b.hub.ConfirmPayment(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Payment #%d %s, %s is premium", payment.ID, payment.Status, payment.Username)}, nil
}

func (b *Bot) handleReceipt(ctx context.Context, args string) (Reply, error) {
	id, err := parsePaymentID(args)
	if err != nil {
		return Reply{}, err
	}

	payment, err := b.hub.GetPayment(ctx, id)
	if err != nil {
		return Reply{}, err
	}

	png, err := b.qr.PaymentReceipt(payment)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: services.ReceiptText(payment), Photo: png}, nil
}

func (b *Bot) handleGrant(ctx context.Context, args string) (Reply, error) {
	return b.setPremium(ctx, args, true)
}

func (b *Bot) handleRevoke(ctx context.Context, args string) (Reply, error) {
	return b.setPremium(ctx, args, false)
}

func (b *Bot) setPremium(ctx context.Context, username string, premium bool) (Reply, error) {
	if username == "" {
		return Reply{}, &apperrors.ValidationError{Field: "username", Message: "Username is required"}
	}
	if err := b.hub.SetPremium(ctx, username, premium); err != nil {
		return Reply{}, err
	}
	if premium {
		return Reply{Text: fmt.Sprintf("Premium granted to %s", username)}, nil
	}
	return Reply{Text: fmt.Sprintf("Premium removed from %s", username)}, nil
}

func (b *Bot) handleDelete(ctx context.Context, args string) (Reply, error) {
	if args == "" {
		return Reply{}, &apperrors.ValidationError{Field: "username", Message: "Username is required"}
	}
	removed, err := b.hub.DeleteUser(ctx, args)
	if err != nil {
		return Reply{}, err
	}
	if !removed {
		return Reply{Text: fmt.Sprintf("No user %s", args)}, nil
	}
	return Reply{Text: fmt.Sprintf("User %s deleted", args)}, nil
}

func (b *Bot) handleBroadcast(ctx context.Context, args string) (Reply, error) {
	broadcast, err := b.hub.Broadcast(ctx, args)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Broadcast #%d sent", broadcast.ID)}, nil
}

func parsePaymentID(args string) (int, error) {
	id, err := strconv.Atoi(args)
	if err != nil {
		return 0, &apperrors.ValidationError{Field: "paymentId", Message: "Payment ID must be a number"}
	}
	return id, nil
}
