package ledger

import (
	"strings"

	"amartaka-bot/internal/model"
)

// SupportRule maps a lower-cased message to a category when Match holds.
type SupportRule struct {
	Category model.Category
	Match    func(lowered string) bool
}

// SupportRules are evaluated in order; the first match wins. Messages that
// match none fall into the general user category.
var SupportRules = []SupportRule{
	{
		Category: model.CategoryDeposit,
		Match: func(s string) bool {
			return strings.Contains(s, "deposit support") ||
				(strings.Contains(s, "deposit") && !strings.Contains(s, "|"))
		},
	},
	{
		Category: model.CategoryWithdraw,
		Match: func(s string) bool {
			return strings.Contains(s, "withdraw support") ||
				(strings.Contains(s, "withdraw") && !strings.Contains(s, "|"))
		},
	},
	{
		Category: model.CategoryBan,
		Match: func(s string) bool {
			return strings.Contains(s, "ban")
		},
	},
}

// Classify picks the support category for a free-text message.
func Classify(text string) model.Category {
	lowered := strings.ToLower(text)
	for _, rule := range SupportRules {
		if rule.Match(lowered) {
			return rule.Category
		}
	}
	return model.CategoryUser
}

// OpenTicket files a free-text support message as an open ticket in the
// category chosen by Classify.
func (l *Ledger) OpenTicket(doc *model.Document, userID int64, text string) (*model.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if doc.FindUser(userID) == nil {
		return nil, ErrUserNotFound
	}

	ticket := &model.Ticket{
		ID:        l.nextID(doc),
		UserID:    userID,
		Category:  Classify(text),
		Status:    model.StatusOpen,
		Thread:    []model.ThreadMessage{{From: model.SenderUser, Text: text}},
		CreatedAt: l.clock.Now().UTC(),
	}
	doc.Tickets = append(doc.Tickets, ticket)
	return ticket, nil
}
