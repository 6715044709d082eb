package handler

import (
	tele "gopkg.in/telebot.v3"

	"fortnite-stats-bot/internal/service"
)

// Markup converts a reply directive into telebot markup.
// An inline action wins over keyboard removal; one-time keyboards collapse on their own.
func Markup(r service.Reply) *tele.ReplyMarkup {
	switch {
	case r.Action != nil:
		m := &tele.ReplyMarkup{}
		m.Inline(m.Row(m.Data(r.Action.Label, r.Action.Token)))
		return m

	case len(r.Choices) > 0:
		m := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
		rows := make([]tele.Row, 0, len(r.Choices))
		for _, labels := range r.Choices {
			buttons := make([]tele.Btn, 0, len(labels))
			for _, label := range labels {
				buttons = append(buttons, m.Text(label))
			}
			rows = append(rows, m.Row(buttons...))
		}
		m.Reply(rows...)
		return m

	case r.RemoveKeyboard:
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	return nil
}
