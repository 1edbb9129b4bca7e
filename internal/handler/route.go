package handler

import (
	"strings"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/menu"
	"amartaka-bot/internal/model"
)

// Action is what the bot does with a plain text message.
type Action int

// Text actions, in routing order.
const (
	ActionIgnore Action = iota
	ActionDashboard
	ActionDepositPrompt
	ActionDepositSubmit
	ActionWithdrawPrompt
	ActionWithdrawSubmit
	ActionSupportMenu
	ActionSupportCategory
	ActionReferral
	ActionAds
	ActionBack
	ActionTicket
)

var actionNames = map[Action]string{
	ActionIgnore:          "ignore",
	ActionDashboard:       "dashboard",
	ActionDepositPrompt:   "deposit_prompt",
	ActionDepositSubmit:   "deposit_submit",
	ActionWithdrawPrompt:  "withdraw_prompt",
	ActionWithdrawSubmit:  "withdraw_submit",
	ActionSupportMenu:     "support_menu",
	ActionSupportCategory: "support_category",
	ActionReferral:        "referral",
	ActionAds:             "ads",
	ActionBack:            "back",
	ActionTicket:          "ticket",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Destination is the routing decision for one message. Category is set
// for ActionSupportCategory only.
type Destination struct {
	Action   Action
	Category model.Category
}

// supportPrefixes is checked in menu order.
var supportPrefixes = []model.Category{
	model.CategoryDeposit,
	model.CategoryWithdraw,
	model.CategoryUser,
	model.CategoryBan,
}

// Route decides how a text message is handled. The first matching rule
// wins: menu buttons compare case-insensitively, request shapes are
// recognized by their pipes, and any other non-blank text becomes a
// support ticket.
func Route(text string) Destination {
	switch {
	case strings.EqualFold(text, menu.BtnDashboard):
		return Destination{Action: ActionDashboard}
	case strings.EqualFold(text, menu.BtnDeposit):
		return Destination{Action: ActionDepositPrompt}
	case ledger.IsDepositRequest(text):
		return Destination{Action: ActionDepositSubmit}
	case strings.EqualFold(text, menu.BtnWithdraw):
		return Destination{Action: ActionWithdrawPrompt}
	case ledger.IsWithdrawRequest(text):
		return Destination{Action: ActionWithdrawSubmit}
	case strings.EqualFold(text, menu.BtnSupport):
		return Destination{Action: ActionSupportMenu}
	}

	lowered := strings.ToLower(text)
	for _, c := range supportPrefixes {
		if strings.HasPrefix(lowered, strings.ToLower(menu.SupportButtons[c])) {
			return Destination{Action: ActionSupportCategory, Category: c}
		}
	}

	switch trimmed := strings.TrimSpace(text); {
	case strings.EqualFold(text, menu.BtnReferral):
		return Destination{Action: ActionReferral}
	case strings.EqualFold(text, menu.BtnAds):
		return Destination{Action: ActionAds}
	case text == menu.BtnBack || strings.EqualFold(trimmed, "back"):
		return Destination{Action: ActionBack}
	case trimmed == "":
		return Destination{Action: ActionIgnore}
	}
	return Destination{Action: ActionTicket}
}
