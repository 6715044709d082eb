package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
	"pgregory.net/rapid"
)

type fakeContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	sent   []interface{}
}

func (f *fakeContext) Update() tele.Update      { return f.update }
func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Chat() *tele.Chat         { return nil }
func (f *fakeContext) Text() string             { return "" }
func (f *fakeContext) Callback() *tele.Callback { return f.update.Callback }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

type fakeRouter struct {
	endpoints []interface{}
}

func (r *fakeRouter) Handle(endpoint interface{}, _ tele.HandlerFunc, _ ...tele.MiddlewareFunc) {
	r.endpoints = append(r.endpoints, endpoint)
}

func TestRecoveryMiddleware_RepliesOnPanic(t *testing.T) {
	c := &fakeContext{sender: &tele.User{ID: 9}}
	h := RecoveryMiddleware()(func(tele.Context) error {
		panic("boom")
	})

	require.NoError(t, h(c))
	assert.Equal(t, []interface{}{PanicText}, c.sent)
}

func TestRecoveryMiddleware_PassesThrough(t *testing.T) {
	want := errors.New("handler failed")
	c := &fakeContext{}
	h := RecoveryMiddleware()(func(tele.Context) error { return want })

	assert.ErrorIs(t, h(c), want)
	assert.Empty(t, c.sent)
}

// TestLoggingMiddlewareCallsNextProperty: logging never swallows the update
// or changes the handler result, with or without a sender.
func TestLoggingMiddlewareCallsNextProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := &fakeContext{update: tele.Update{ID: rapid.Int().Draw(t, "update")}}
		if rapid.Bool().Draw(t, "hasSender") {
			c.sender = &tele.User{ID: rapid.Int64().Draw(t, "user"), Username: rapid.String().Draw(t, "name")}
		}
		if rapid.Bool().Draw(t, "hasCallback") {
			c.update.Callback = &tele.Callback{Data: rapid.String().Draw(t, "data")}
		}
		fail := rapid.Bool().Draw(t, "fail")

		calls := 0
		h := LoggingMiddleware()(func(tele.Context) error {
			calls++
			if fail {
				return errors.New("x")
			}
			return nil
		})

		err := h(c)
		if calls != 1 {
			t.Fatalf("next called %d times", calls)
		}
		if (err != nil) != fail {
			t.Fatalf("err = %v, fail = %v", err, fail)
		}
	})
}

func TestRegister(t *testing.T) {
	r := &fakeRouter{}
	Register(r, nil)

	assert.ElementsMatch(t, []interface{}{
		"/start", "/credits", "/search", "/replay", "/list", tele.OnText, tele.OnCallback,
	}, r.endpoints)
}
