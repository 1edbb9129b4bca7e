// Package ledger holds the state transitions of the simulated ledger:
// user registration, deposit and withdraw requests, and support tickets.
//
// Every operation takes the current document, mutates it in place and
// returns the created record or a rejection error. Callers run operations
// inside a store update so that a rejected request is never persisted.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"amartaka-bot/internal/model"
	"amartaka-bot/internal/pkg/clock"
)

// DefaultMaxWithdrawFraction is the largest share of the current balance a
// single withdraw may take.
var DefaultMaxWithdrawFraction = decimal.NewFromFloat(0.5)

// Options configures a Ledger. Zero fields take defaults.
type Options struct {
	Clock               clock.Clock
	NewID               func() string
	Window              *Window
	MaxWithdrawFraction decimal.Decimal
}

// Ledger applies requests to a document.
type Ledger struct {
	clock       clock.Clock
	newID       func() string
	window      Window
	maxFraction decimal.Decimal
}

// New creates a Ledger.
func New(opts Options) *Ledger {
	l := &Ledger{
		clock:       opts.Clock,
		newID:       opts.NewID,
		maxFraction: opts.MaxWithdrawFraction,
	}
	if l.clock == nil {
		l.clock = clock.Real()
	}
	if l.newID == nil {
		l.newID = NewTicketID
	}
	if opts.Window != nil {
		l.window = *opts.Window
	} else {
		l.window = DefaultWindow()
	}
	if !l.maxFraction.IsPositive() {
		l.maxFraction = DefaultMaxWithdrawFraction
	}
	return l
}

// NewTicketID returns a short random token for tickets and records.
func NewTicketID() string {
	return uuid.NewString()[:8]
}

// Window returns the configured withdraw window.
func (l *Ledger) Window() Window {
	return l.window
}

// MaxWithdrawFraction returns the largest share of the balance a single
// withdraw may take.
func (l *Ledger) MaxWithdrawFraction() decimal.Decimal {
	return l.maxFraction
}

// nextID draws IDs until one is not already used by a ticket.
func (l *Ledger) nextID(doc *model.Document) string {
	id := l.newID()
	for i := 0; i < 8 && doc.FindTicket(id) != nil; i++ {
		id = l.newID()
	}
	return id
}

// EnsureUser returns the user's record, creating it with a zero balance on
// first contact. referrerID credits an existing user with a referral when
// the record is created; zero or the user's own ID is ignored.
func (l *Ledger) EnsureUser(doc *model.Document, userID int64, username string, referrerID int64) (*model.User, bool) {
	if u := doc.FindUser(userID); u != nil {
		if username != "" && u.Username != username {
			u.Username = username
		}
		return u, false
	}

	u := &model.User{
		UserID:   userID,
		Username: username,
		Balance:  decimal.Zero,
		Lang:     "en",
		History: model.History{
			Withdraws: []string{},
			Deposits:  []string{},
		},
	}
	if referrerID != 0 && referrerID != userID {
		if ref := doc.FindUser(referrerID); ref != nil {
			ref.Referrals++
			u.ReferredBy = referrerID
		}
	}
	doc.Users = append(doc.Users, u)
	return u, true
}

// SetBanned sets or clears the user's banned flag.
func (l *Ledger) SetBanned(doc *model.Document, userID int64, banned bool) (*model.User, error) {
	u := doc.FindUser(userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.Banned = banned
	return u, nil
}
