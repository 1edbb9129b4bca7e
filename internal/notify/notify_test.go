package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	to   string
	what interface{}
}

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sent{to: to.Recipient(), what: what})
	return &tele.Message{}, nil
}

func TestNotifyUser(t *testing.T) {
	f := &fakeSender{}
	n := New(f)

	n.NotifyUser(context.Background(), 42, "your deposit is confirmed")
	require.Len(t, f.sent, 1)
	assert.Equal(t, "42", f.sent[0].to)
	assert.Equal(t, "Admin reply:\nyour deposit is confirmed", f.sent[0].what)
}

func TestNotifyUserSwallowsFailure(t *testing.T) {
	f := &fakeSender{err: errors.New("bot was blocked by the user")}
	assert.NotPanics(t, func() { New(f).NotifyUser(context.Background(), 42, "hi") })
	assert.Empty(t, f.sent)
}

func TestNotifyUserWithoutSender(t *testing.T) {
	assert.NotPanics(t, func() { New(nil).NotifyUser(context.Background(), 42, "hi") })

	var n *Notifier
	assert.NotPanics(t, func() { n.NotifyUser(context.Background(), 42, "hi") })
}

func TestNotifyUserCancelled(t *testing.T) {
	f := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	New(f).NotifyUser(ctx, 42, "hi")
	assert.Empty(t, f.sent)
}
