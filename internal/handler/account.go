// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/menu"
	"amartaka-bot/internal/service"
)

// AccountHandler handles registration and account views.
type AccountHandler struct {
	ledgerService *service.LedgerService
	botName       string
}

// NewAccountHandler creates a new AccountHandler. botName is the bot's
// username, used for referral links.
func NewAccountHandler(ledgerService *service.LedgerService, botName string) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
		botName:       botName,
	}
}

// parseReferrer reads the referrer ID from a /start payload. Anything that
// is not a positive user ID is ignored.
func parseReferrer(payload string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// HandleStart handles the /start command.
// Registers the user, crediting the referrer from a /start <id> deep link.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	var referrerID int64
	if msg := c.Message(); msg != nil {
		referrerID = parseReferrer(msg.Payload)
	}

	user, _, err := h.ledgerService.EnsureUser(ctx, sender.ID, sender.Username, referrerID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to register user")
		return c.Reply(menu.MsgRetry)
	}

	if user.Banned {
		return c.Reply(menu.MsgAccountBanned)
	}
	return c.Reply(menu.MsgWelcome, menu.BuildMainMenu())
}

// HandleDashboard shows the user's balance and referral count.
func (h *AccountHandler) HandleDashboard(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, _, err := h.ledgerService.EnsureUser(ctx, sender.ID, sender.Username, 0)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load dashboard")
		return c.Reply(menu.MsgRetry)
	}
	return c.Reply(menu.FormatDashboard(user))
}

// HandleReferral shows the referral count and invite link.
func (h *AccountHandler) HandleReferral(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, _, err := h.ledgerService.EnsureUser(ctx, sender.ID, sender.Username, 0)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to load referrals")
		return c.Reply(menu.MsgRetry)
	}
	return c.Reply(menu.FormatReferral(user, h.botName))
}

// HandleAds answers the Ads button.
func (h *AccountHandler) HandleAds(c tele.Context) error {
	return c.Reply(menu.MsgNoAds)
}

// HandleBack returns to the main menu.
func (h *AccountHandler) HandleBack(c tele.Context) error {
	return c.Reply(menu.MsgMainMenu, menu.BuildMainMenu())
}
