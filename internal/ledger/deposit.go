package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"amartaka-bot/internal/model"
)

// IsDepositRequest reports whether text has the amount|method|reference shape.
func IsDepositRequest(text string) bool {
	return strings.Count(text, "|") >= 2
}

// parseAmount parses a non-negative decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// SubmitDeposit records a deposit request of the form amount|method|reference.
// The balance is not changed: deposits are credited manually by an operator.
// The reference keeps any further pipes verbatim.
func (l *Ledger) SubmitDeposit(doc *model.Document, userID int64, text string) (*model.Ticket, error) {
	parts := strings.Split(text, "|")
	if len(parts) < 3 {
		return nil, ErrMalformedRequest
	}
	amount, err := parseAmount(parts[0])
	if err != nil {
		return nil, err
	}
	if doc.FindUser(userID) == nil {
		return nil, ErrUserNotFound
	}
	method := parts[1]
	trx := strings.Join(parts[2:], "|")

	id := l.nextID(doc)
	ticket := &model.Ticket{
		ID:       id,
		UserID:   userID,
		Category: model.CategoryDeposit,
		Status:   model.StatusPending,
		Thread: []model.ThreadMessage{{
			From: model.SenderUser,
			Text: fmt.Sprintf("Deposit request: %s via %s trx:%s", amount, method, trx),
		}},
		CreatedAt: l.clock.Now().UTC(),
	}
	deposit := &model.Deposit{
		ID:     id,
		UserID: userID,
		Amount: amount,
		Method: method,
		Trx:    trx,
		Status: model.StatusPending,
	}

	doc.Tickets = append(doc.Tickets, ticket)
	doc.Deposits = append(doc.Deposits, deposit)
	u := doc.FindUser(userID)
	u.History.Deposits = append(u.History.Deposits, id)
	return ticket, nil
}
