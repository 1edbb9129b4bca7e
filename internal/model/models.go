// Package model defines the records kept in the ledger document.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are stored as plain JSON numbers, matching the document layout
	// operators already edit by hand.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category classifies a ticket.
type Category string

// Ticket categories.
const (
	CategoryDeposit  Category = "deposit"
	CategoryWithdraw Category = "withdraw"
	CategoryUser     Category = "user"
	CategoryBan      Category = "ban"
)

// Categories returns every ticket category in menu order.
func Categories() []Category {
	return []Category{CategoryDeposit, CategoryWithdraw, CategoryUser, CategoryBan}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDeposit, CategoryWithdraw, CategoryUser, CategoryBan:
		return true
	}
	return false
}

// Title returns the category name as shown to users ("Deposit", "Ban", ...).
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return string(s[0]-'a'+'A') + s[1:]
}

// Status is the label written on tickets and transaction records.
// Statuses are written once at creation and never advanced by the bot.
type Status string

// Record statuses.
const (
	StatusPending Status = "pending"
	StatusOpen    Status = "open"
)

// SenderUser marks thread messages written by the chat user.
const SenderUser = "user"

// History lists the transaction record IDs created for a user.
type History struct {
	Withdraws []string `json:"withdraws"`
	Deposits  []string `json:"deposits"`
}

// User is a chat user's account.
type User struct {
	UserID     int64           `json:"user_id"`
	Username   string          `json:"username"`
	Balance    decimal.Decimal `json:"balance"`
	Banned     bool            `json:"banned"`
	Lang       string          `json:"lang"`
	Referrals  int             `json:"referrals"`
	ReferredBy int64           `json:"referred_by,omitempty"`
	History    History         `json:"history"`
}

// ThreadMessage is one entry of a ticket's conversation.
type ThreadMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// Ticket is a support or request record.
type Ticket struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Category  Category        `json:"category"`
	Status    Status          `json:"status"`
	Thread    []ThreadMessage `json:"thread"`
	CreatedAt time.Time       `json:"created_at"`
}

// Deposit is a simulated deposit request awaiting manual crediting.
type Deposit struct {
	ID     string          `json:"id"`
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Trx    string          `json:"trx"`
	Status Status          `json:"status"`
}

// Withdraw is a simulated withdraw request. The user's balance has already
// been debited when the record is created.
type Withdraw struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Number    string          `json:"number"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
