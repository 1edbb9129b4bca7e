package menu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/model"
)

func buttonTexts(rows [][]tele.ReplyButton) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		var texts []string
		for _, b := range row {
			texts = append(texts, b.Text)
		}
		out = append(out, texts)
	}
	return out
}

func TestMainMenuLayout(t *testing.T) {
	m := BuildMainMenu()
	assert.True(t, m.ResizeKeyboard)
	assert.Equal(t, [][]string{
		{"Dashboard", "Ads"},
		{"Deposit", "Withdraw"},
		{"Support", "Referral"},
	}, buttonTexts(m.ReplyKeyboard))
}

func TestSupportMenuLayout(t *testing.T) {
	m := BuildSupportMenu()
	assert.Equal(t, [][]string{
		{"Deposit Support", "Withdraw Support"},
		{"User Support", "Ban Support"},
		{"⬅ Back"},
	}, buttonTexts(m.ReplyKeyboard))
}

func TestEveryCategoryHasButtonAndPrompt(t *testing.T) {
	for _, c := range model.Categories() {
		assert.NotEmpty(t, SupportButtons[c], c)
		assert.NotEmpty(t, SupportPrompts[c], c)
	}
}

func TestFormatters(t *testing.T) {
	u := &model.User{UserID: 42, Balance: decimal.RequireFromString("120.5"), Referrals: 3}

	assert.Equal(t, "📊 Dashboard\nBalance: 120.5\nReferrals: 3", FormatDashboard(u))
	assert.Equal(t, "Withdraw request submitted (simulated). ID: ab12cd34 Status: pending.",
		FormatWithdrawSubmitted("ab12cd34"))
	assert.Equal(t, "Withdrawals open 08:00 - 14:00.", FormatWithdrawClosed(ledger.DefaultWindow()))

	ticket := &model.Ticket{ID: "ab12cd34", Category: model.CategoryWithdraw}
	assert.Equal(t, "Support message created and sent to Withdraw Support. Ticket ID: ab12cd34",
		FormatTicketCreated(ticket))

	assert.Equal(t, "Cannot withdraw more than 50% at once (simulated).",
		FormatWithdrawLimit(ledger.DefaultMaxWithdrawFraction))

	assert.Equal(t, "👥 Referrals: 3", FormatReferral(u, ""))
	require.Contains(t, FormatReferral(u, "AmarTakaOfficialBot"), "https://t.me/AmarTakaOfficialBot?start=42")
}
