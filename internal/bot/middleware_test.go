package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
	"pgregory.net/rapid"

	"amartaka-bot/internal/config"
	"amartaka-bot/internal/menu"
)

// fakeContext implements the parts of tele.Context the middleware touches.
type fakeContext struct {
	tele.Context
	chat    *tele.Chat
	sender  *tele.User
	text    string
	replies []interface{}
}

func (f *fakeContext) Chat() *tele.Chat { return f.chat }
func (f *fakeContext) Sender() *tele.User { return f.sender }
func (f *fakeContext) Text() string { return f.text }

func (f *fakeContext) Reply(what interface{}, _ ...interface{}) error {
	f.replies = append(f.replies, what)
	return nil
}

func privateContext(userID int64) *fakeContext {
	return &fakeContext{
		chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		sender: &tele.User{ID: userID, Username: "alice"},
		text:   "Dashboard",
	}
}

// run applies mw to a handler that records whether it was reached.
func run(mw tele.MiddlewareFunc, c tele.Context) (bool, error) {
	called := false
	err := mw(func(tele.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestPrivateChatMiddleware(t *testing.T) {
	mw := PrivateChatMiddleware()

	called, err := run(mw, privateContext(42))
	require.NoError(t, err)
	assert.True(t, called)

	for _, chatType := range []tele.ChatType{tele.ChatGroup, tele.ChatSuperGroup, tele.ChatChannel} {
		c := privateContext(42)
		c.chat = &tele.Chat{ID: -100, Type: chatType}
		called, err := run(mw, c)
		require.NoError(t, err)
		assert.False(t, called, chatType)
		assert.Empty(t, c.replies)
	}

	c := privateContext(42)
	c.sender = nil
	called, _ = run(mw, c)
	assert.False(t, called)
}

func TestAdminMiddlewareProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		adminIDs := rapid.SliceOfN(rapid.Int64Range(1, 1000000000), 1, 10).Draw(t, "adminIDs")
		cfg := &config.Config{Admin: config.AdminConfig{IDs: adminIDs}}

		userID := rapid.OneOf(
			rapid.SampledFrom(adminIDs),
			rapid.Int64Range(1, 1000000000),
		).Draw(t, "userID")

		c := privateContext(userID)
		called, err := run(AdminMiddleware(cfg), c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if called != cfg.IsAdmin(userID) {
			t.Fatalf("userID=%d adminIDs=%v: handler reached=%v", userID, adminIDs, called)
		}
		if !called && len(c.replies) != 1 {
			t.Fatalf("non-admin should get exactly one reply, got %d", len(c.replies))
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	c := privateContext(42)
	err := RecoveryMiddleware()(func(tele.Context) error {
		panic("boom")
	})(c)

	require.NoError(t, err)
	assert.Equal(t, []interface{}{menu.MsgRetry}, c.replies)
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	called, err := run(LoggingMiddleware(), privateContext(42))
	require.NoError(t, err)
	assert.True(t, called)

	called, err = run(LoggingMiddleware(), &fakeContext{})
	require.NoError(t, err)
	assert.True(t, called)
}
