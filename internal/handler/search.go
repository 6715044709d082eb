// Package handler adapts Telegram updates to the search dialogue.
package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"fortnite-stats-bot/internal/pkg/lock"
	"fortnite-stats-bot/internal/service"
)

// Conversation is the dialogue the handler drives.
type Conversation interface {
	Welcome() service.Reply
	Credits() service.Reply
	BeginSearch(ctx context.Context, ev service.Event) (service.Reply, error)
	HandleText(ctx context.Context, ev service.Event) (service.Reply, error)
	Replay(ctx context.Context, ev service.Event) (service.Reply, error)
	ListSaved(ctx context.Context, ev service.Event) (service.Reply, error)
	HandleAction(ctx context.Context, ev service.Event) (service.Reply, error)
}

// SearchHandler handles commands, text replies and button presses.
type SearchHandler struct {
	conv     Conversation
	userLock *lock.UserLock
	timeout  time.Duration
}

// NewSearchHandler creates a new SearchHandler.
// timeout bounds both the wait for the user's lock and the work done for one update.
func NewSearchHandler(conv Conversation, userLock *lock.UserLock, timeout time.Duration) *SearchHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchHandler{conv: conv, userLock: userLock, timeout: timeout}
}

// HandleStart handles the /start command.
func (h *SearchHandler) HandleStart(c tele.Context) error {
	return send(c, h.conv.Welcome())
}

// HandleCredits handles the /credits command.
func (h *SearchHandler) HandleCredits(c tele.Context) error {
	return send(c, h.conv.Credits())
}

// HandleSearch handles the /search command.
func (h *SearchHandler) HandleSearch(c tele.Context) error {
	return h.dispatch(c, h.conv.BeginSearch)
}

// HandleReplay handles the /replay command.
func (h *SearchHandler) HandleReplay(c tele.Context) error {
	return h.dispatch(c, h.conv.Replay)
}

// HandleList handles the /list command.
func (h *SearchHandler) HandleList(c tele.Context) error {
	return h.dispatch(c, h.conv.ListSaved)
}

// HandleText handles free-text replies.
func (h *SearchHandler) HandleText(c tele.Context) error {
	return h.dispatch(c, h.conv.HandleText)
}

// HandleCallback handles inline button presses.
func (h *SearchHandler) HandleCallback(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	err := h.dispatch(c, h.conv.HandleAction)
	_ = c.Respond()
	return err
}

type step func(ctx context.Context, ev service.Event) (service.Reply, error)

// dispatch runs fn for the sender while holding the sender's lock.
func (h *SearchHandler) dispatch(c tele.Context, fn step) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ev := eventFrom(c)
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var reply service.Reply
	err := h.userLock.WithLock(ctx, sender.ID, func(ctx context.Context) error {
		var err error
		reply, err = fn(ctx, ev)
		return err
	})
	if err != nil {
		logEvent := log.Error()
		if errors.Is(err, service.ErrUnknownAction) {
			logEvent = log.Warn()
		}
		logEvent.
			Err(err).
			Int64("user_id", sender.ID).
			Int("update_id", ev.UpdateID).
			Msg("Failed to handle update")
		return send(c, service.Reply{Text: service.FailureText, RemoveKeyboard: true})
	}

	return send(c, reply)
}

// eventFrom extracts the transport-neutral event from an update.
func eventFrom(c tele.Context) service.Event {
	ev := service.Event{UpdateID: c.Update().ID, Text: c.Text()}
	if sender := c.Sender(); sender != nil {
		ev.UserID = sender.ID
	}
	if cb := c.Callback(); cb != nil {
		ev.Data = CallbackToken(cb.Data)
	}
	return ev
}

// CallbackToken strips telebot's "\f<unique>|" framing from callback data.
func CallbackToken(data string) string {
	data = strings.TrimPrefix(data, "\f")
	if i := strings.LastIndex(data, "|"); i >= 0 {
		data = data[i+1:]
	}
	return data
}

func send(c tele.Context, r service.Reply) error {
	if r.Empty() {
		return nil
	}
	opts := []interface{}{tele.ModeMarkdown}
	if m := Markup(r); m != nil {
		opts = append(opts, m)
	}
	return c.Send(r.Text, opts...)
}
