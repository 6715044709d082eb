package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/model"
	"fortnite-stats-bot/internal/repository"
	"fortnite-stats-bot/internal/stats"
)

// ListSaved shows the user's saved searches and waits for a selection.
func (s *ConversationService) ListSaved(ctx context.Context, ev Event) (Reply, error) {
	st := s.sessions.get(ev.UserID)
	if st.duplicate(ev) {
		return st.lastReply, nil
	}

	list, err := s.store.List(ctx, ev.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", ev.UserID).Msg("Failed to list saved searches")
		return st.respond(failureReply()), nil
	}
	if len(list) == 0 {
		return st.respond(Reply{Text: EmptyListText, RemoveKeyboard: true}), nil
	}

	st.session = &Session{
		ID:      uuid.NewString(),
		State:   StateAwaitingSelection,
		Listing: list,
	}

	var b strings.Builder
	b.WriteString(PromptSelection)
	b.WriteString("\n")
	choices := make([][]string, 0, len(list))
	for i, q := range list {
		label := s.listLabel(i+1, q)
		choices = append(choices, []string{label})
		b.WriteString("\n")
		b.WriteString(stats.EscapeMarkdown(label))
	}

	log.Debug().
		Int64("user_id", ev.UserID).
		Str("session_id", st.session.ID).
		Int("entries", len(list)).
		Msg("Saved searches listed")

	return st.respond(Reply{Text: b.String(), Choices: choices}), nil
}

func (s *ConversationService) listLabel(position int, q model.Query) string {
	return fmt.Sprintf("%d. %s", position, s.vocab.Describe(q))
}

// selectSaved resolves a reply to a listed entry and runs its lookup.
// It accepts the exact listed label or a bare position number.
func (s *ConversationService) selectSaved(ctx context.Context, userID int64, st *userState, text string) Reply {
	sess := st.session
	position := 0
	for i, q := range sess.Listing {
		if text == s.listLabel(i+1, q) {
			position = i + 1
			break
		}
	}
	if position == 0 {
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(sess.Listing) {
			position = n
		}
	}
	if position == 0 {
		log.Info().
			Int64("user_id", userID).
			Str("session_id", sess.ID).
			Msg("Unknown saved search selected")
		sess.State = StateFailed
		return Reply{Text: NotFoundListText, RemoveKeyboard: true}
	}

	q := sess.Listing[position-1]
	report, err := s.reporter.Format(ctx, q)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("session_id", sess.ID).Msg("Saved search lookup failed")
		choices := make([][]string, 0, len(sess.Listing))
		for i, item := range sess.Listing {
			choices = append(choices, []string{s.listLabel(i+1, item)})
		}
		return Reply{Text: FailureText, Choices: choices}
	}

	s.remember(st, q, report)
	st.selected = &selection{position: position, query: q}
	_ = s.advance(userID, sess, StateCompleted, Reply{})

	return Reply{
		Text:           report.Text,
		Action:         &Action{Label: RemoveLabel, Token: ActionDeletePrefix + strconv.Itoa(position)},
		RemoveKeyboard: true,
	}
}

// HandleAction executes an inline button token.
func (s *ConversationService) HandleAction(ctx context.Context, ev Event) (Reply, error) {
	st := s.sessions.get(ev.UserID)
	if st.duplicate(ev) {
		return st.lastReply, nil
	}

	switch {
	case ev.Data == ActionSave:
		return st.respond(s.saveLast(ctx, ev.UserID, st)), nil
	case strings.HasPrefix(ev.Data, ActionDeletePrefix):
		position, err := strconv.Atoi(strings.TrimPrefix(ev.Data, ActionDeletePrefix))
		if err != nil {
			return st.respond(Reply{Text: NotFoundListText}), nil
		}
		return st.respond(s.removeSelected(ctx, ev.UserID, st, position)), nil
	}

	return Reply{}, fmt.Errorf("%w: %q", ErrUnknownAction, ev.Data)
}

func (s *ConversationService) saveLast(ctx context.Context, userID int64, st *userState) Reply {
	if st.memory.LastQuery == nil || !st.memory.LastFound {
		return Reply{Text: NothingToSave}
	}

	saved, err := s.store.Save(ctx, userID, *st.memory.LastQuery)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to save search")
		return failureReply()
	}
	if !saved {
		return Reply{Text: AlreadySavedText}
	}

	log.Info().Int64("user_id", userID).Msg("Search saved")
	return Reply{Text: SavedText}
}

// removeSelected deletes the entry at position if it is still the selected query.
func (s *ConversationService) removeSelected(ctx context.Context, userID int64, st *userState, position int) Reply {
	sel := st.selected
	if sel == nil || sel.position != position {
		return Reply{Text: NotFoundListText}
	}

	list, err := s.store.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list saved searches")
		return failureReply()
	}
	index := position - 1
	if index < 0 || index >= len(list) || !list[index].Equal(sel.query) {
		return Reply{Text: NotFoundListText}
	}

	if _, err := s.store.RemoveAt(ctx, userID, index); err != nil {
		if errors.Is(err, repository.ErrOutOfRange) {
			return Reply{Text: NotFoundListText}
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to remove search")
		return failureReply()
	}

	st.selected = nil
	log.Info().Int64("user_id", userID).Int("position", position).Msg("Search removed")
	return Reply{Text: RemovedText}
}
