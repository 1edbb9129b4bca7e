package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/menu"
	"amartaka-bot/internal/model"
	"amartaka-bot/internal/service"
)

// SupportHandler handles the support menu and free-text tickets.
type SupportHandler struct {
	ledgerService *service.LedgerService
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(ledgerService *service.LedgerService) *SupportHandler {
	return &SupportHandler{ledgerService: ledgerService}
}

// HandleSupportMenu shows the support category keyboard.
func (h *SupportHandler) HandleSupportMenu(c tele.Context) error {
	return c.Reply(menu.MsgChooseSupport, menu.BuildSupportMenu())
}

// HandleSupportCategory prompts for a message in the picked category.
func (h *SupportHandler) HandleSupportCategory(c tele.Context, category model.Category) error {
	return c.Reply(menu.SupportPrompts[category])
}

// HandleTicket files any other text as a support ticket.
func (h *SupportHandler) HandleTicket(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if _, _, err := h.ledgerService.EnsureUser(ctx, sender.ID, sender.Username, 0); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to ensure user")
		return c.Reply(menu.MsgRetry)
	}

	ticket, err := h.ledgerService.OpenTicket(ctx, sender.ID, c.Text())
	if errors.Is(err, ledger.ErrEmptyMessage) {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to open ticket")
		return c.Reply(menu.MsgRetry)
	}

	log.Info().
		Int64("user_id", sender.ID).
		Str("ticket_id", ticket.ID).
		Str("category", string(ticket.Category)).
		Msg("Support ticket opened")
	return c.Reply(menu.FormatTicketCreated(ticket))
}
