package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/model"
	"amartaka-bot/internal/notify"
	"amartaka-bot/internal/pkg/lock"
	"amartaka-bot/internal/service"
)

// AdminHandler handles admin-related commands.
type AdminHandler struct {
	ledgerService *service.LedgerService
	userLock      *lock.UserLock
	notifier      *notify.Notifier
}

// NewAdminHandler creates a new AdminHandler. Ban changes take the target
// user's lock so they never interleave with that user's own submission.
func NewAdminHandler(ledgerService *service.LedgerService, userLock *lock.UserLock, notifier *notify.Notifier) *AdminHandler {
	return &AdminHandler{
		ledgerService: ledgerService,
		userLock:      userLock,
		notifier:      notifier,
	}
}

var (
	errUsageBan   = errors.New("❌ Usage: /ban <user_id>")
	errUsageUnban = errors.New("❌ Usage: /unban <user_id>")
	errUsageReply = errors.New("❌ Usage: /reply <user_id> <text>")
)

// parseTargetID parses the single <user_id> argument of /ban and /unban.
func parseTargetID(args []string, usage error) (int64, error) {
	if len(args) < 1 {
		return 0, usage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("❌ Invalid user ID, please enter a number")
	}
	return id, nil
}

// parseReplyArgs splits "<user_id> <text>"; the text keeps its line breaks.
func parseReplyArgs(payload string) (int64, string, error) {
	idStr, text, _ := strings.Cut(strings.TrimSpace(payload), " ")
	text = strings.TrimSpace(text)
	if idStr == "" || text == "" {
		return 0, "", errUsageReply
	}
	id, err := parseTargetID([]string{idStr}, errUsageReply)
	if err != nil {
		return 0, "", err
	}
	return id, text, nil
}

// HandleBan handles the /ban command.
// Format: /ban <user_id>
func (h *AdminHandler) HandleBan(c tele.Context) error {
	return h.setBanned(c, true)
}

// HandleUnban handles the /unban command.
// Format: /unban <user_id>
func (h *AdminHandler) HandleUnban(c tele.Context) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c tele.Context, banned bool) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	usage, operation := errUsageUnban, "unban"
	if banned {
		usage, operation = errUsageBan, "ban"
	}

	targetID, err := parseTargetID(c.Args(), usage)
	if err != nil {
		return c.Reply(err.Error())
	}

	var user *model.User
	err = h.userLock.WithLock(targetID, func() error {
		var setErr error
		user, setErr = h.ledgerService.SetBanned(ctx, targetID, banned)
		return setErr
	})
	if errors.Is(err, ledger.ErrUserNotFound) {
		return c.Reply("❌ User not found")
	}
	if err != nil {
		log.Error().Err(err).Int64("target_id", targetID).Msg("Failed to update ban flag")
		return c.Reply("❌ Operation failed, please try again later")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Str("operation", operation).
		Msg("Admin operation executed")

	state := "unbanned"
	if user.Banned {
		state = "banned"
	}
	return c.Reply(fmt.Sprintf("✅ User %d is now %s", targetID, state))
}

// HandleReply handles the /reply command.
// Format: /reply <user_id> <text>
func (h *AdminHandler) HandleReply(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || c.Message() == nil {
		return nil
	}

	targetID, text, err := parseReplyArgs(c.Message().Payload)
	if err != nil {
		return c.Reply(err.Error())
	}

	if _, err := h.ledgerService.GetUser(ctx, targetID); err != nil {
		return c.Reply("❌ User not found")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Str("operation", "reply").
		Msg("Admin operation executed")

	h.notifier.NotifyUser(ctx, targetID, text)
	return c.Reply("✅ Reply sent")
}
