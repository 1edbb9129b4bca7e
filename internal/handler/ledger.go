package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/menu"
	"amartaka-bot/internal/pkg/lock"
	"amartaka-bot/internal/service"
)

// LedgerHandler handles deposit and withdraw requests.
type LedgerHandler struct {
	ledgerService *service.LedgerService
	userLock      *lock.UserLock
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService *service.LedgerService, userLock *lock.UserLock) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		userLock:      userLock,
	}
}

// rejectionMessage maps a ledger rejection to the reply the user sees.
// The second result is false for errors that are not rejections.
func rejectionMessage(err error, l *ledger.Ledger) (string, bool) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrMalformedRequest):
		return menu.MsgInvalidAmount, true
	case errors.Is(err, ledger.ErrBanned):
		return menu.MsgBanned, true
	case errors.Is(err, ledger.ErrWithdrawClosed):
		return menu.FormatWithdrawClosed(l.Window()), true
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return menu.MsgInsufficient, true
	case errors.Is(err, ledger.ErrWithdrawLimit):
		return menu.FormatWithdrawLimit(l.MaxWithdrawFraction()), true
	default:
		return menu.MsgRetry, false
	}
}

// HandleDepositPrompt explains the deposit request format.
func (h *LedgerHandler) HandleDepositPrompt(c tele.Context) error {
	return c.Reply(menu.MsgDepositPrompt)
}

// HandleDepositSubmit records an amount|method|trx deposit request.
func (h *LedgerHandler) HandleDepositSubmit(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if !h.userLock.TryLock(sender.ID) {
		return c.Reply(menu.MsgProcessing)
	}
	defer h.userLock.Unlock(sender.ID)

	if _, _, err := h.ledgerService.EnsureUser(ctx, sender.ID, sender.Username, 0); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to ensure user")
		return c.Reply(menu.MsgRetry)
	}

	if _, err := h.ledgerService.SubmitDeposit(ctx, sender.ID, c.Text()); err != nil {
		msg, rejected := rejectionMessage(err, h.ledgerService.Ledger())
		if !rejected {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Deposit request failed")
		}
		return c.Reply(msg)
	}
	return c.Reply(menu.MsgDepositSubmitted)
}

// HandleWithdrawPrompt explains the withdraw request format when the user
// may withdraw right now.
func (h *LedgerHandler) HandleWithdrawPrompt(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	err := h.ledgerService.CheckWithdrawPrompt(ctx, sender.ID)
	switch {
	case err == nil:
		return c.Reply(menu.MsgWithdrawPrompt)
	case errors.Is(err, ledger.ErrBanned):
		return c.Reply(menu.MsgBannedContact)
	}

	msg, rejected := rejectionMessage(err, h.ledgerService.Ledger())
	if !rejected {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Withdraw prompt failed")
	}
	return c.Reply(msg)
}

// HandleWithdrawSubmit debits the balance for an amount|number request.
func (h *LedgerHandler) HandleWithdrawSubmit(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if !h.userLock.TryLock(sender.ID) {
		return c.Reply(menu.MsgProcessing)
	}
	defer h.userLock.Unlock(sender.ID)

	if _, _, err := h.ledgerService.EnsureUser(ctx, sender.ID, sender.Username, 0); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to ensure user")
		return c.Reply(menu.MsgRetry)
	}

	withdraw, err := h.ledgerService.SubmitWithdraw(ctx, sender.ID, c.Text())
	if err != nil {
		msg, rejected := rejectionMessage(err, h.ledgerService.Ledger())
		if !rejected {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Withdraw request failed")
		}
		return c.Reply(msg)
	}
	return c.Reply(menu.FormatWithdrawSubmitted(withdraw.ID))
}
