package handler

import (
	tele "gopkg.in/telebot.v3"
)

// TextHandler dispatches plain text messages using Route.
type TextHandler struct {
	account *AccountHandler
	ledger  *LedgerHandler
	support *SupportHandler
}

// NewTextHandler creates a new TextHandler.
func NewTextHandler(account *AccountHandler, ledger *LedgerHandler, support *SupportHandler) *TextHandler {
	return &TextHandler{
		account: account,
		ledger:  ledger,
		support: support,
	}
}

// HandleText handles every text message that is not a command.
func (h *TextHandler) HandleText(c tele.Context) error {
	dest := Route(c.Text())

	switch dest.Action {
	case ActionDashboard:
		return h.account.HandleDashboard(c)
	case ActionDepositPrompt:
		return h.ledger.HandleDepositPrompt(c)
	case ActionDepositSubmit:
		return h.ledger.HandleDepositSubmit(c)
	case ActionWithdrawPrompt:
		return h.ledger.HandleWithdrawPrompt(c)
	case ActionWithdrawSubmit:
		return h.ledger.HandleWithdrawSubmit(c)
	case ActionSupportMenu:
		return h.support.HandleSupportMenu(c)
	case ActionSupportCategory:
		return h.support.HandleSupportCategory(c, dest.Category)
	case ActionReferral:
		return h.account.HandleReferral(c)
	case ActionAds:
		return h.account.HandleAds(c)
	case ActionBack:
		return h.account.HandleBack(c)
	case ActionTicket:
		return h.support.HandleTicket(c)
	}
	return nil
}
