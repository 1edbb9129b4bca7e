package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"amartaka-bot/internal/model"
)

// IsWithdrawRequest reports whether text has the amount|number shape: exactly
// one pipe with a plain unsigned number (at most one dot) before it.
func IsWithdrawRequest(text string) bool {
	if strings.Count(text, "|") != 1 {
		return false
	}
	left, _, _ := strings.Cut(text, "|")
	return isPlainNumber(strings.TrimSpace(left))
}

func isPlainNumber(s string) bool {
	s = strings.Replace(s, ".", "", 1)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseWithdraw splits an amount|number request.
func ParseWithdraw(text string) (decimal.Decimal, string, error) {
	if !IsWithdrawRequest(text) {
		return decimal.Zero, "", ErrMalformedRequest
	}
	left, right, _ := strings.Cut(text, "|")
	amount, err := parseAmount(left)
	if err != nil {
		return decimal.Zero, "", err
	}
	if !amount.IsPositive() {
		return decimal.Zero, "", ErrInvalidAmount
	}
	return amount, strings.TrimSpace(right), nil
}

// CheckWithdrawPrompt reports whether the user may start a withdraw now.
func (l *Ledger) CheckWithdrawPrompt(u *model.User) error {
	if u != nil && u.Banned {
		return ErrBanned
	}
	if !l.window.Contains(l.clock.Now()) {
		return ErrWithdrawClosed
	}
	return nil
}

// SubmitWithdraw debits the user's balance and records a pending withdraw.
//
// Rules, checked in order: the user must not be banned, the clock must be
// inside the withdraw window, the balance must cover the amount, and the
// amount may not exceed the configured fraction of the current balance.
// The new balance is rounded to two decimal places.
func (l *Ledger) SubmitWithdraw(doc *model.Document, userID int64, text string) (*model.Withdraw, error) {
	amount, number, err := ParseWithdraw(text)
	if err != nil {
		return nil, err
	}
	u := doc.FindUser(userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	if err := l.CheckWithdrawPrompt(u); err != nil {
		return nil, err
	}
	if u.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}
	if amount.GreaterThan(u.Balance.Mul(l.maxFraction)) {
		return nil, ErrWithdrawLimit
	}

	u.Balance = u.Balance.Sub(amount).Round(2)

	id := l.nextID(doc)
	now := l.clock.Now().UTC()
	withdraw := &model.Withdraw{
		ID:        id,
		UserID:    userID,
		Amount:    amount,
		Number:    number,
		Status:    model.StatusPending,
		CreatedAt: now,
	}
	ticket := &model.Ticket{
		ID:       id,
		UserID:   userID,
		Category: model.CategoryWithdraw,
		Status:   model.StatusPending,
		Thread: []model.ThreadMessage{{
			From: model.SenderUser,
			Text: fmt.Sprintf("Withdraw request: %s to %s", amount, number),
		}},
		CreatedAt: now,
	}

	doc.Withdraws = append(doc.Withdraws, withdraw)
	doc.Tickets = append(doc.Tickets, ticket)
	u.History.Withdraws = append(u.History.Withdraws, id)
	return withdraw, nil
}
