// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/model"
	"amartaka-bot/internal/store"
)

// LedgerService runs ledger operations against a store. Every method is a
// single View or Update, so a rejected request never reaches storage.
type LedgerService struct {
	store  store.Store
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(s store.Store, l *ledger.Ledger) *LedgerService {
	return &LedgerService{store: s, ledger: l}
}

// Ledger returns the rules the service applies.
func (s *LedgerService) Ledger() *ledger.Ledger {
	return s.ledger
}

// EnsureUser ensures a user exists, creating one if necessary.
// Returns the user and whether it was newly created.
func (s *LedgerService) EnsureUser(ctx context.Context, userID int64, username string, referrerID int64) (*model.User, bool, error) {
	var (
		user    *model.User
		created bool
	)
	err := s.store.Update(ctx, func(doc *model.Document) error {
		user, created = s.ledger.EnsureUser(doc, userID, username, referrerID)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	if created {
		log.Info().
			Int64("user_id", userID).
			Str("username", username).
			Int64("referred_by", user.ReferredBy).
			Msg("New user registered")
	}
	return user, created, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *LedgerService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user *model.User
	err := s.store.View(ctx, func(doc *model.Document) error {
		user = doc.FindUser(userID)
		if user == nil {
			return ledger.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetBanned sets or clears a user's banned flag.
func (s *LedgerService) SetBanned(ctx context.Context, userID int64, banned bool) (*model.User, error) {
	var user *model.User
	err := s.store.Update(ctx, func(doc *model.Document) error {
		var err error
		user, err = s.ledger.SetBanned(doc, userID, banned)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Snapshot returns a private copy of the whole document.
func (s *LedgerService) Snapshot(ctx context.Context) (*model.Document, error) {
	return store.Snapshot(ctx, s.store)
}
