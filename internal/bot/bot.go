// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/config"
	"amartaka-bot/internal/handler"
	"amartaka-bot/internal/notify"
	"amartaka-bot/internal/pkg/lock"
	"amartaka-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot      *tele.Bot
	cfg      *config.Config
	notifier *notify.Notifier

	// Handlers
	accountHandler *handler.AccountHandler
	ledgerHandler  *handler.LedgerHandler
	supportHandler *handler.SupportHandler
	adminHandler   *handler.AdminHandler
	textHandler    *handler.TextHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config        *config.Config
	LedgerService *service.LedgerService
	UserLock      *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: deps.Config.Bot.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Handler returned an error")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	botName := deps.Config.Bot.Name
	if teleBot.Me != nil && teleBot.Me.Username != "" {
		botName = teleBot.Me.Username
	}

	b := &Bot{
		bot:      teleBot,
		cfg:      deps.Config,
		notifier: notify.New(teleBot),
	}

	// Initialize handlers
	b.accountHandler = handler.NewAccountHandler(deps.LedgerService, botName)
	b.ledgerHandler = handler.NewLedgerHandler(deps.LedgerService, deps.UserLock)
	b.supportHandler = handler.NewSupportHandler(deps.LedgerService)
	b.adminHandler = handler.NewAdminHandler(deps.LedgerService, deps.UserLock, b.notifier)
	b.textHandler = handler.NewTextHandler(b.accountHandler, b.ledgerHandler, b.supportHandler)

	// Register middleware
	b.registerMiddleware()

	// Register handlers
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())

	// Only private chats are served
	b.bot.Use(PrivateChatMiddleware())

	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and text handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.accountHandler.HandleStart)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/ban", b.adminHandler.HandleBan)
	adminGroup.Handle("/unban", b.adminHandler.HandleUnban)
	adminGroup.Handle("/reply", b.adminHandler.HandleReply)

	// Menu buttons, requests and free-text support messages
	b.bot.Handle(tele.OnText, b.textHandler.HandleText)
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	log.Info().Str("bot", b.bot.Me.Username).Msg("Starting bot...")

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.bot.Start()
	}()

	select {
	case <-ctx.Done():
		b.Stop()
		<-done
	case <-done:
	}
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// Notifier returns the notifier that delivers admin replies through this bot.
func (b *Bot) Notifier() *notify.Notifier {
	return b.notifier
}
