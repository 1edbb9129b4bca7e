// Package menu provides the reply keyboards and user-facing texts of the bot.
package menu

import (
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/model"
)

// Main menu buttons.
const (
	BtnDashboard = "Dashboard"
	BtnAds       = "Ads"
	BtnDeposit   = "Deposit"
	BtnWithdraw  = "Withdraw"
	BtnSupport   = "Support"
	BtnReferral  = "Referral"
)

// Support menu buttons.
const (
	BtnDepositSupport  = "Deposit Support"
	BtnWithdrawSupport = "Withdraw Support"
	BtnUserSupport     = "User Support"
	BtnBanSupport      = "Ban Support"
	BtnBack            = "⬅ Back"
)

// SupportButtons maps each support category to its menu button.
var SupportButtons = map[model.Category]string{
	model.CategoryDeposit:  BtnDepositSupport,
	model.CategoryWithdraw: BtnWithdrawSupport,
	model.CategoryUser:     BtnUserSupport,
	model.CategoryBan:      BtnBanSupport,
}

// BuildMainMenu creates the persistent main menu:
// [Dashboard, Ads] [Deposit, Withdraw] [Support, Referral].
func BuildMainMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(BtnDashboard), markup.Text(BtnAds)),
		markup.Row(markup.Text(BtnDeposit), markup.Text(BtnWithdraw)),
		markup.Row(markup.Text(BtnSupport), markup.Text(BtnReferral)),
	)
	return markup
}

// BuildSupportMenu creates the support category picker with a back button.
func BuildSupportMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(BtnDepositSupport), markup.Text(BtnWithdrawSupport)),
		markup.Row(markup.Text(BtnUserSupport), markup.Text(BtnBanSupport)),
		markup.Row(markup.Text(BtnBack)),
	)
	return markup
}
