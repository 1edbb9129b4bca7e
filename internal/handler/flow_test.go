package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"amartaka-bot/internal/ledger"
	"amartaka-bot/internal/menu"
	"amartaka-bot/internal/model"
	"amartaka-bot/internal/notify"
	"amartaka-bot/internal/pkg/clock"
	"amartaka-bot/internal/pkg/lock"
	"amartaka-bot/internal/service"
	"amartaka-bot/internal/store"
)

// fakeContext implements the parts of tele.Context the handlers use.
type fakeContext struct {
	tele.Context
	sender  *tele.User
	message *tele.Message
	replies []interface{}
	markups []interface{}
}

func newContext(userID int64, text string) *fakeContext {
	sender := &tele.User{ID: userID, Username: fmt.Sprintf("user%d", userID)}
	return &fakeContext{
		sender:  sender,
		message: &tele.Message{Sender: sender, Text: text},
	}
}

func newCommand(userID int64, command, payload string) *fakeContext {
	c := newContext(userID, strings.TrimSpace(command+" "+payload))
	c.message.Payload = payload
	return c
}

func (f *fakeContext) Sender() *tele.User { return f.sender }
func (f *fakeContext) Message() *tele.Message { return f.message }
func (f *fakeContext) Text() string { return f.message.Text }
func (f *fakeContext) Args() []string { return strings.Fields(f.message.Payload) }

func (f *fakeContext) Reply(what interface{}, opts ...interface{}) error {
	f.replies = append(f.replies, what)
	f.markups = append(f.markups, opts...)
	return nil
}

func (f *fakeContext) lastReply() string {
	if len(f.replies) == 0 {
		return ""
	}
	s, _ := f.replies[len(f.replies)-1].(string)
	return s
}

type recordingSender struct {
	err  error
	sent []string
}

func (r *recordingSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.sent = append(r.sent, to.Recipient()+":"+fmt.Sprint(what))
	return &tele.Message{}, nil
}

type fixture struct {
	svc     *service.LedgerService
	store   store.Store
	clock   *clock.FakeClock
	text    *TextHandler
	account *AccountHandler
	admin   *AdminHandler
	sender  *recordingSender
	locks   *lock.UserLock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fc := clock.Fake(time.Date(2024, 5, 6, 10, 30, 0, 0, time.Local))
	seq := 0
	l := ledger.New(ledger.Options{
		Clock: fc,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id%06d", seq)
		},
	})
	s := store.NewMemory()
	svc := service.NewLedgerService(s, l)
	locks := lock.NewUserLock()
	sender := &recordingSender{}

	account := NewAccountHandler(svc, "AmarTakaOfficialBot")
	return &fixture{
		svc:     svc,
		store:   s,
		clock:   fc,
		account: account,
		text:    NewTextHandler(account, NewLedgerHandler(svc, locks), NewSupportHandler(svc)),
		admin:   NewAdminHandler(svc, locks, notify.New(sender)),
		sender:  sender,
		locks:   locks,
	}
}

func (f *fixture) say(t *testing.T, userID int64, text string) string {
	t.Helper()
	c := newContext(userID, text)
	require.NoError(t, f.text.HandleText(c))
	return c.lastReply()
}

func (f *fixture) setBalance(t *testing.T, userID int64, balance string) {
	t.Helper()
	require.NoError(t, f.store.Update(context.Background(), func(doc *model.Document) error {
		doc.FindUser(userID).Balance = decimal.RequireFromString(balance)
		return nil
	}))
}

func TestStartRegistersAndShowsMenu(t *testing.T) {
	f := newFixture(t)

	c := newCommand(42, "/start", "")
	require.NoError(t, f.account.HandleStart(c))
	assert.Equal(t, menu.MsgWelcome, c.lastReply())
	require.Len(t, c.markups, 1)
	assert.IsType(t, &tele.ReplyMarkup{}, c.markups[0])

	_, err := f.svc.GetUser(context.Background(), 42)
	assert.NoError(t, err)
}

func TestStartWithReferral(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(1, "/start", "")))
	require.NoError(t, f.account.HandleStart(newCommand(2, "/start", "1")))

	assert.Equal(t, "📊 Dashboard\nBalance: 0\nReferrals: 1", f.say(t, 1, "Dashboard"))
	assert.Contains(t, f.say(t, 1, "Referral"), "start=1")
}

func TestStartBannedUser(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(42, "/start", "")))
	_, err := f.svc.SetBanned(context.Background(), 42, true)
	require.NoError(t, err)

	c := newCommand(42, "/start", "")
	require.NoError(t, f.account.HandleStart(c))
	assert.Equal(t, menu.MsgAccountBanned, c.lastReply())
	assert.Empty(t, c.markups)
}

func TestDepositFlow(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, menu.MsgDepositPrompt, f.say(t, 42, "Deposit"))
	assert.Equal(t, menu.MsgDepositSubmitted, f.say(t, 42, "100|bkash|TRX123"))
	assert.Equal(t, menu.MsgInvalidAmount, f.say(t, 42, "abc|bkash|x"))

	doc, err := f.svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Deposits, 1)
	assert.Equal(t, "TRX123", doc.Deposits[0].Trx)
}

func TestWithdrawFlow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(42, "/start", "")))
	f.setBalance(t, 42, "100")

	assert.Equal(t, menu.MsgWithdrawPrompt, f.say(t, 42, "Withdraw"))
	assert.Equal(t, "Withdraw request submitted (simulated). ID: id000001 Status: pending.", f.say(t, 42, "50|017xxxxxxxx"))
	assert.Equal(t, "Cannot withdraw more than 50% at once (simulated).", f.say(t, 42, "40|017"))
	assert.Equal(t, menu.MsgInsufficient, f.say(t, 42, "60|017"))

	f.clock.Set(time.Date(2024, 5, 6, 14, 0, 1, 0, time.Local))
	assert.Equal(t, "Withdrawals open 08:00 - 14:00.", f.say(t, 42, "Withdraw"))
	assert.Equal(t, "Withdrawals open 08:00 - 14:00.", f.say(t, 42, "1|017"))
}

func TestWithdrawBannedMessages(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(42, "/start", "")))
	f.setBalance(t, 42, "100")
	_, err := f.svc.SetBanned(context.Background(), 42, true)
	require.NoError(t, err)

	assert.Equal(t, menu.MsgBannedContact, f.say(t, 42, "Withdraw"))
	assert.Equal(t, menu.MsgBanned, f.say(t, 42, "10|017"))
}

func TestSubmissionWhileLockedIsRejected(t *testing.T) {
	f := newFixture(t)
	f.locks.Lock(42)
	defer f.locks.Unlock(42)

	assert.Equal(t, menu.MsgProcessing, f.say(t, 42, "100|bkash|TRX"))
	assert.Equal(t, menu.MsgProcessing, f.say(t, 42, "10|017"))
}

func TestSupportFlow(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, menu.MsgChooseSupport, f.say(t, 42, "Support"))
	assert.Equal(t, menu.SupportPrompts[model.CategoryBan], f.say(t, 42, "Ban Support"))
	assert.Equal(t, "Support message created and sent to Withdraw Support. Ticket ID: id000001",
		f.say(t, 42, "where is my withdraw"))
	assert.Equal(t, menu.MsgNoAds, f.say(t, 42, "Ads"))
	assert.Equal(t, menu.MsgMainMenu, f.say(t, 42, "⬅ Back"))
	assert.Empty(t, f.say(t, 42, "   "))

	doc, err := f.svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Tickets, 1)
}

func TestAdminBanAndReply(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(42, "/start", "")))

	c := newCommand(1, "/ban", "42")
	require.NoError(t, f.admin.HandleBan(c))
	assert.Equal(t, "✅ User 42 is now banned", c.lastReply())

	c = newCommand(1, "/unban", "42")
	require.NoError(t, f.admin.HandleUnban(c))
	assert.Equal(t, "✅ User 42 is now unbanned", c.lastReply())

	c = newCommand(1, "/ban", "")
	require.NoError(t, f.admin.HandleBan(c))
	assert.Equal(t, errUsageBan.Error(), c.lastReply())

	c = newCommand(1, "/ban", "77")
	require.NoError(t, f.admin.HandleBan(c))
	assert.Equal(t, "❌ User not found", c.lastReply())

	c = newCommand(1, "/reply", "42 your deposit was confirmed")
	require.NoError(t, f.admin.HandleReply(c))
	assert.Equal(t, "✅ Reply sent", c.lastReply())
	assert.Equal(t, []string{"42:Admin reply:\nyour deposit was confirmed"}, f.sender.sent)
}

func TestAdminReplyConfirmsWhenDeliveryFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(42, "/start", "")))

	ok := newCommand(1, "/reply", "42 hello")
	require.NoError(t, f.admin.HandleReply(ok))

	f.sender.err = errors.New("telegram: Forbidden: bot was blocked by the user (403)")
	failed := newCommand(1, "/reply", "42 hello")
	require.NoError(t, f.admin.HandleReply(failed))

	assert.Equal(t, ok.lastReply(), failed.lastReply())
	assert.Equal(t, "✅ Reply sent", failed.lastReply())
	assert.Len(t, f.sender.sent, 1)
}

func TestAdminBanWaitsForUserSubmission(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.account.HandleStart(newCommand(42, "/start", "")))

	require.True(t, f.locks.TryLock(42))
	done := make(chan string)
	go func() {
		c := newCommand(1, "/ban", "42")
		_ = f.admin.HandleBan(c)
		done <- c.lastReply()
	}()

	select {
	case <-done:
		t.Fatal("ban applied while the user's submission held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	f.locks.Unlock(42)
	select {
	case r := <-done:
		assert.Equal(t, "✅ User 42 is now banned", r)
	case <-time.After(2 * time.Second):
		t.Fatal("ban did not complete after the lock was released")
	}
	assert.True(t, f.locks.TryLock(42))
	f.locks.Unlock(42)
}
