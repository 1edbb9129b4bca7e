package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amartaka-bot/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want model.Category
	}{
		{"My deposit is still pending", model.CategoryDeposit},
		{"DEPOSIT SUPPORT please", model.CategoryDeposit},
		{"deposit support 100|x", model.CategoryDeposit},
		{"deposit 100|x", model.CategoryUser},
		{"Withdraw id XYZ not received", model.CategoryWithdraw},
		{"withdraw support: 5|6", model.CategoryWithdraw},
		{"why am I banned?", model.CategoryBan},
		{"deposit stuck and I got banned", model.CategoryDeposit},
		{"withdraw blocked, ban?", model.CategoryWithdraw},
		{"withdraw 5|6 ban", model.CategoryBan},
		{"hello", model.CategoryUser},
		{"Ads", model.CategoryUser},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text), tt.text)
	}
}

func TestSupportRulesOrder(t *testing.T) {
	require.Len(t, SupportRules, 3)
	assert.Equal(t, model.CategoryDeposit, SupportRules[0].Category)
	assert.Equal(t, model.CategoryWithdraw, SupportRules[1].Category)
	assert.Equal(t, model.CategoryBan, SupportRules[2].Category)
}

func TestOpenTicket(t *testing.T) {
	l, _ := newTestLedger(openHours)
	doc := docWithUser(1, "0")

	ticket, err := l.OpenTicket(doc, 1, "  I was banned for no reason  ")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBan, ticket.Category)
	assert.Equal(t, model.StatusOpen, ticket.Status)
	assert.Equal(t, []model.ThreadMessage{{From: model.SenderUser, Text: "I was banned for no reason"}}, ticket.Thread)
	assert.Equal(t, openHours.UTC(), ticket.CreatedAt)
	assert.Len(t, doc.Tickets, 1)

	_, err = l.OpenTicket(doc, 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, doc.Tickets, 1)
}
