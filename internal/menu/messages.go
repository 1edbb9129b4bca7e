package menu

import (
	"fmt"

	"github.com/shopspring/decimal"

	"amartaka-bot/internal/model"
)

// Fixed replies.
const (
	MsgWelcome          = "Welcome to AmarTakaOfficialBot (simulated)."
	MsgAccountBanned    = "❌ Your account is BANNED. Please contact Support Center."
	MsgBannedContact    = "❌ BANNED. Contact support."
	MsgBanned           = "❌ BANNED."
	MsgDepositPrompt    = "To make simulated deposit, send: amount|method|trx (e.g. 100|bkash|TRX123)"
	MsgDepositSubmitted = "Deposit request submitted to Deposit Support (simulated)."
	MsgWithdrawPrompt   = "To withdraw send: amount|bkash_number (e.g. 50|017xxxxxxxx)"
	MsgInvalidAmount    = "Invalid amount"
	MsgInsufficient     = "Insufficient balance (simulated)."
	MsgChooseSupport    = "Choose support category:"
	MsgNoAds            = "No ads available right now (simulated)."
	MsgMainMenu         = "Main menu:"
	MsgProcessing       = "⏳ Your previous request is still being processed, please wait."
	MsgRetry            = "❌ Something went wrong, please try again later."
)

// SupportPrompts are sent when a support category is picked.
var SupportPrompts = map[model.Category]string{
	model.CategoryDeposit:  "Send your deposit support message. Example: I uploaded trx but pending...",
	model.CategoryWithdraw: "Send your withdraw support message. Example: My withdraw id XYZ...",
	model.CategoryUser:     "Send your message for general support.",
	model.CategoryBan:      "Send your message about ban. Admin will respond.",
}

// FormatWithdrawClosed tells the user when withdrawals are accepted.
func FormatWithdrawClosed(window fmt.Stringer) string {
	return fmt.Sprintf("Withdrawals open %s.", window)
}

// FormatDashboard renders the user's balance and referral count.
func FormatDashboard(u *model.User) string {
	return fmt.Sprintf("📊 Dashboard\nBalance: %s\nReferrals: %d", u.Balance.String(), u.Referrals)
}

// FormatWithdrawSubmitted confirms a withdraw request.
func FormatWithdrawSubmitted(id string) string {
	return fmt.Sprintf("Withdraw request submitted (simulated). ID: %s Status: pending.", id)
}

// FormatTicketCreated confirms a support ticket.
func FormatTicketCreated(t *model.Ticket) string {
	return fmt.Sprintf("Support message created and sent to %s Support. Ticket ID: %s", t.Category.Title(), t.ID)
}

// FormatReferral shows the referral count and the invite link. botName is
// the bot's username; without it only the count is shown.
func FormatReferral(u *model.User, botName string) string {
	msg := fmt.Sprintf("👥 Referrals: %d", u.Referrals)
	if botName != "" {
		msg += fmt.Sprintf("\nInvite link: https://t.me/%s?start=%d", botName, u.UserID)
	}
	return msg
}

// FormatWithdrawLimit rejects a withdraw above the per-request share of the
// balance, e.g. "Cannot withdraw more than 50% at once (simulated).".
func FormatWithdrawLimit(fraction decimal.Decimal) string {
	return fmt.Sprintf("Cannot withdraw more than %s%% at once (simulated).", fraction.Shift(2).String())
}
