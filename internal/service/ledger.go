package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/model"
)

// SubmitDeposit records an amount|method|reference deposit request.
func (s *LedgerService) SubmitDeposit(ctx context.Context, userID int64, text string) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.Update(ctx, func(doc *model.Document) error {
		var err error
		ticket, err = s.ledger.SubmitDeposit(doc, userID, text)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("ticket_id", ticket.ID).
		Msg("Deposit request submitted")
	return ticket, nil
}

// CheckWithdrawPrompt reports whether the user may start a withdraw now.
// Unknown users are only subject to the window.
func (s *LedgerService) CheckWithdrawPrompt(ctx context.Context, userID int64) error {
	return s.store.View(ctx, func(doc *model.Document) error {
		return s.ledger.CheckWithdrawPrompt(doc.FindUser(userID))
	})
}

// SubmitWithdraw debits the user's balance and records a pending withdraw.
func (s *LedgerService) SubmitWithdraw(ctx context.Context, userID int64, text string) (*model.Withdraw, error) {
	var withdraw *model.Withdraw
	err := s.store.Update(ctx, func(doc *model.Document) error {
		var err error
		withdraw, err = s.ledger.SubmitWithdraw(doc, userID, text)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("withdraw_id", withdraw.ID).
		Str("amount", withdraw.Amount.String()).
		Msg("Withdraw request submitted")
	return withdraw, nil
}

// WithdrawWindow returns the configured withdraw window.
func (s *LedgerService) WithdrawWindow() ledger.Window {
	return s.ledger.Window()
}
