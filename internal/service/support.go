package service

import (
	"context"
	"errors"

	"amartaka-bot/internal/model"
)

// ErrTicketNotFound is returned when no ticket has the requested ID.
var ErrTicketNotFound = errors.New("ticket not found")

// OpenTicket files a free-text support message.
func (s *LedgerService) OpenTicket(ctx context.Context, userID int64, text string) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.Update(ctx, func(doc *model.Document) error {
		var err error
		ticket, err = s.ledger.OpenTicket(doc, userID, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// FindTicket looks up a ticket by ID.
func (s *LedgerService) FindTicket(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.View(ctx, func(doc *model.Document) error {
		ticket = doc.FindTicket(id)
		if ticket == nil {
			return ErrTicketNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
