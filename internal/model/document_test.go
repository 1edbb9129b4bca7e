package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentHasAllCollections(t *testing.T) {
	d := NewDocument()
	assert.NotNil(t, d.Users)
	assert.NotNil(t, d.Tickets)
	assert.NotNil(t, d.Withdraws)
	assert.NotNil(t, d.Deposits)
	assert.Equal(t, Stats{}, d.Stats())
}

func TestTicketsByCategory(t *testing.T) {
	d := NewDocument()
	d.Tickets = append(d.Tickets,
		&Ticket{ID: "a", Category: CategoryBan},
		&Ticket{ID: "b", Category: CategoryUser},
		&Ticket{ID: "c", Category: CategoryBan},
	)

	bans := d.TicketsByCategory(CategoryBan)
	if assert.Len(t, bans, 2) {
		assert.Equal(t, "a", bans[0].ID)
		assert.Equal(t, "c", bans[1].ID)
	}
	assert.Empty(t, d.TicketsByCategory(CategoryDeposit))
	assert.Equal(t, "b", d.FindTicket("b").ID)
	assert.Nil(t, d.FindTicket("zz"))
}

func TestCategory(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("referral").Valid())
	assert.Equal(t, "Withdraw", CategoryWithdraw.Title())
	assert.Equal(t, "User", CategoryUser.Title())
}
