package handler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"fortnite-stats-bot/internal/pkg/lock"
	"fortnite-stats-bot/internal/service"
)

// fakeContext implements the parts of tele.Context the handler uses.
type fakeContext struct {
	tele.Context
	update    tele.Update
	sender    *tele.User
	text      string
	sent      []sentMessage
	responded bool
}

type sentMessage struct {
	what interface{}
	opts []interface{}
}

func (f *fakeContext) Update() tele.Update      { return f.update }
func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Text() string             { return f.text }
func (f *fakeContext) Callback() *tele.Callback { return f.update.Callback }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, sentMessage{what: what, opts: opts})
	return nil
}

func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responded = true
	return nil
}

func textContext(updateID int, userID int64, text string) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: updateID},
		sender: &tele.User{ID: userID},
		text:   text,
	}
}

// fakeConversation records the events it receives.
type fakeConversation struct {
	events []service.Event
	reply  service.Reply
	err    error
}

func (f *fakeConversation) Welcome() service.Reply { return service.Reply{Text: "welcome"} }
func (f *fakeConversation) Credits() service.Reply { return service.Reply{Text: "credits"} }

func (f *fakeConversation) record(_ context.Context, ev service.Event) (service.Reply, error) {
	f.events = append(f.events, ev)
	return f.reply, f.err
}

func (f *fakeConversation) BeginSearch(ctx context.Context, ev service.Event) (service.Reply, error) {
	return f.record(ctx, ev)
}
func (f *fakeConversation) HandleText(ctx context.Context, ev service.Event) (service.Reply, error) {
	return f.record(ctx, ev)
}
func (f *fakeConversation) Replay(ctx context.Context, ev service.Event) (service.Reply, error) {
	return f.record(ctx, ev)
}
func (f *fakeConversation) ListSaved(ctx context.Context, ev service.Event) (service.Reply, error) {
	return f.record(ctx, ev)
}
func (f *fakeConversation) HandleAction(ctx context.Context, ev service.Event) (service.Reply, error) {
	return f.record(ctx, ev)
}

func markupOf(t *testing.T, msg sentMessage) *tele.ReplyMarkup {
	t.Helper()
	for _, opt := range msg.opts {
		if m, ok := opt.(*tele.ReplyMarkup); ok {
			return m
		}
	}
	return nil
}

func TestSearchHandler_TextBecomesEvent(t *testing.T) {
	conv := &fakeConversation{reply: service.Reply{Text: "*Which platform?*", Choices: [][]string{{"🔲 Epic"}}}}
	h := NewSearchHandler(conv, lock.NewUserLock(), time.Second)
	c := textContext(77, 5, "PlayerOne")

	require.NoError(t, h.HandleText(c))

	require.Len(t, conv.events, 1)
	assert.Equal(t, service.Event{UserID: 5, UpdateID: 77, Text: "PlayerOne"}, conv.events[0])
	require.Len(t, c.sent, 1)
	assert.Equal(t, "*Which platform?*", c.sent[0].what)
	assert.Contains(t, c.sent[0].opts, tele.ModeMarkdown)
	m := markupOf(t, c.sent[0])
	require.NotNil(t, m)
	assert.True(t, m.OneTimeKeyboard)
}

func TestSearchHandler_EmptyReplySendsNothing(t *testing.T) {
	h := NewSearchHandler(&fakeConversation{}, lock.NewUserLock(), time.Second)
	c := textContext(1, 5, "hello")

	require.NoError(t, h.HandleText(c))
	assert.Empty(t, c.sent)
}

func TestSearchHandler_NoSenderIgnored(t *testing.T) {
	conv := &fakeConversation{reply: service.Reply{Text: "x"}}
	h := NewSearchHandler(conv, lock.NewUserLock(), time.Second)
	c := &fakeContext{update: tele.Update{ID: 1}}

	require.NoError(t, h.HandleSearch(c))
	assert.Empty(t, conv.events)
	assert.Empty(t, c.sent)
}

func TestSearchHandler_ErrorBecomesFailureText(t *testing.T) {
	conv := &fakeConversation{err: fmt.Errorf("%w: %q", service.ErrUnknownAction, "boom")}
	h := NewSearchHandler(conv, lock.NewUserLock(), time.Second)
	c := textContext(3, 5, "")
	c.update.Callback = &tele.Callback{Data: "\fboom"}

	require.NoError(t, h.HandleCallback(c))

	require.Len(t, c.sent, 1)
	assert.Equal(t, service.FailureText, c.sent[0].what)
	assert.True(t, c.responded)
	assert.Equal(t, "boom", conv.events[0].Data)
}

func TestSearchHandler_CallbackWithoutPayloadIgnored(t *testing.T) {
	conv := &fakeConversation{}
	h := NewSearchHandler(conv, lock.NewUserLock(), time.Second)

	require.NoError(t, h.HandleCallback(textContext(1, 5, "")))
	assert.Empty(t, conv.events)
}

func TestSearchHandler_LockTimeout(t *testing.T) {
	conv := &fakeConversation{reply: service.Reply{Text: "x"}}
	ul := lock.NewUserLock()
	require.True(t, ul.TryLock(5))
	defer ul.Unlock(5)

	h := NewSearchHandler(conv, ul, 20*time.Millisecond)
	c := textContext(1, 5, "PlayerOne")

	require.NoError(t, h.HandleText(c))
	assert.Empty(t, conv.events)
	require.Len(t, c.sent, 1)
	assert.Equal(t, service.FailureText, c.sent[0].what)
}

func TestSearchHandler_StaticCommands(t *testing.T) {
	h := NewSearchHandler(&fakeConversation{}, lock.NewUserLock(), time.Second)

	c := textContext(1, 5, "/start")
	require.NoError(t, h.HandleStart(c))
	assert.Equal(t, "welcome", c.sent[0].what)

	c = textContext(2, 5, "/credits")
	require.NoError(t, h.HandleCredits(c))
	assert.Equal(t, "credits", c.sent[0].what)
}

func TestCallbackToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"\fsave", "save"},
		{"\fdelete_2", "delete_2"},
		{"\fdelete|delete_3", "delete_3"},
		{"save", "save"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CallbackToken(tt.in))
	}
}

func TestMarkup(t *testing.T) {
	t.Run("action", func(t *testing.T) {
		m := Markup(service.Reply{Text: "x", Action: &service.Action{Label: "💾 Save", Token: "save"}, RemoveKeyboard: true})
		require.NotNil(t, m)
		require.Len(t, m.InlineKeyboard, 1)
		require.Len(t, m.InlineKeyboard[0], 1)
		assert.Equal(t, "💾 Save", m.InlineKeyboard[0][0].Text)
		assert.Equal(t, "save", m.InlineKeyboard[0][0].Unique)
	})

	t.Run("choices", func(t *testing.T) {
		m := Markup(service.Reply{Text: "x", Choices: [][]string{{"a"}, {"b", "c"}}})
		require.NotNil(t, m)
		assert.True(t, m.OneTimeKeyboard)
		assert.True(t, m.ResizeKeyboard)
		require.Len(t, m.ReplyKeyboard, 2)
		assert.Equal(t, "a", m.ReplyKeyboard[0][0].Text)
		assert.Equal(t, "c", m.ReplyKeyboard[1][1].Text)
	})

	t.Run("remove", func(t *testing.T) {
		m := Markup(service.Reply{Text: "x", RemoveKeyboard: true})
		require.NotNil(t, m)
		assert.True(t, m.RemoveKeyboard)
	})

	t.Run("plain", func(t *testing.T) {
		assert.Nil(t, Markup(service.Reply{Text: "x"}))
	})
}
