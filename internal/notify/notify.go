// Package notify delivers operator messages to chat users.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// ReplyPrefix heads every operator reply a user receives.
const ReplyPrefix = "Admin reply:\n"

// Sender is the subset of *tele.Bot used for delivery.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier sends admin replies. Delivery failures are logged and swallowed,
// so callers never fail because a user blocked the bot.
type Notifier struct {
	sender Sender
}

// New creates a Notifier. A nil sender drops every message.
func New(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// NotifyUser sends "Admin reply:\n<text>" to the user's private chat.
// Failures are logged at warn level and never returned.
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, text string) {
	if n == nil || n.sender == nil {
		log.Warn().Int64("user_id", userID).Msg("No sender configured, admin reply dropped")
		return
	}
	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Admin reply cancelled")
		return
	}

	if _, err := n.sender.Send(tele.ChatID(userID), ReplyPrefix+text); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to deliver admin reply")
		return
	}

	log.Info().Int64("user_id", userID).Msg("Admin reply delivered")
}
