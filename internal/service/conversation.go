// Package service implements the search dialogue and saved-search flows.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/model"
	"fortnite-stats-bot/internal/repository"
	"fortnite-stats-bot/internal/stats"
)

// Reporter renders a stats report for a complete query.
type Reporter interface {
	Format(ctx context.Context, q model.Query) (stats.Report, error)
}

// Vocabulary translates keyboard labels and builds the selection keyboards.
type Vocabulary interface {
	AccountType(label string) (model.AccountType, bool)
	TimeWindow(label string) (model.TimeWindow, bool)
	MatchType(label string) (model.MatchType, bool)
	PlatformKeyboard() [][]string
	TimeWindowKeyboard() [][]string
	MatchTypeKeyboard() [][]string
	Describe(q model.Query) string
}

// ConversationService drives the search dialogue for every user.
// Calls for one user must be serialized by the caller.
type ConversationService struct {
	vocab    Vocabulary
	reporter Reporter
	store    repository.Store
	sessions *sessionTable
}

// NewConversationService creates a new ConversationService instance.
func NewConversationService(vocab Vocabulary, reporter Reporter, store repository.Store) *ConversationService {
	return &ConversationService{
		vocab:    vocab,
		reporter: reporter,
		store:    store,
		sessions: newSessionTable(),
	}
}

// Welcome returns the /start greeting.
func (s *ConversationService) Welcome() Reply {
	return Reply{Text: WelcomeText}
}

// Credits returns the /credits text.
func (s *ConversationService) Credits() Reply {
	return Reply{Text: CreditsText}
}

// Session returns a copy of the user's current dialogue.
func (s *ConversationService) Session(userID int64) (Session, bool) {
	st, ok := s.sessions.lookup(userID)
	if !ok || st.session == nil {
		return Session{}, false
	}
	return *st.session, true
}

// State returns the user's dialogue state, StateIdle when none exists.
func (s *ConversationService) State(userID int64) State {
	if sess, ok := s.Session(userID); ok {
		return sess.State
	}
	return StateIdle
}

// Memory returns a copy of what the service remembers about the user's last search.
func (s *ConversationService) Memory(userID int64) Memory {
	st, ok := s.sessions.lookup(userID)
	if !ok {
		return Memory{}
	}
	return st.memory
}

// duplicate reports whether ev was already processed and records it otherwise.
func (st *userState) duplicate(ev Event) bool {
	if ev.UpdateID == 0 {
		return false
	}
	if ev.UpdateID <= st.lastUpdateID {
		return true
	}
	st.lastUpdateID = ev.UpdateID
	return false
}

// respond remembers r as the current prompt.
func (st *userState) respond(r Reply) Reply {
	st.lastReply = r
	return r
}

// BeginSearch starts a fresh dialogue, abandoning any previous one.
func (s *ConversationService) BeginSearch(ctx context.Context, ev Event) (Reply, error) {
	st := s.sessions.get(ev.UserID)
	if st.duplicate(ev) {
		return st.lastReply, nil
	}

	st.session = &Session{ID: uuid.NewString(), State: StateAwaitingUsername}

	log.Debug().
		Int64("user_id", ev.UserID).
		Str("session_id", st.session.ID).
		Msg("Search dialogue started")

	return st.respond(Reply{Text: PromptUsername, RemoveKeyboard: true}), nil
}

// HandleText routes a free-text reply according to the current state.
// Text outside an active dialogue yields an empty reply.
func (s *ConversationService) HandleText(ctx context.Context, ev Event) (Reply, error) {
	st := s.sessions.get(ev.UserID)
	if st.duplicate(ev) {
		return st.lastReply, nil
	}
	sess := st.session
	if sess == nil || sess.State.Terminal() {
		return Reply{}, nil
	}

	text := strings.TrimSpace(ev.Text)

	switch sess.State {
	case StateAwaitingUsername:
		if text == "" {
			return st.respond(s.fail(ev.UserID, sess, "empty username")), nil
		}
		sess.Partial.Username = text
		return st.respond(s.advance(ev.UserID, sess, StateAwaitingAccountType,
			Reply{Text: PromptPlatform, Choices: s.vocab.PlatformKeyboard()})), nil

	case StateAwaitingAccountType:
		account, ok := s.vocab.AccountType(text)
		if !ok {
			return st.respond(s.fail(ev.UserID, sess, "unknown platform")), nil
		}
		sess.Partial.AccountType = account
		return st.respond(s.advance(ev.UserID, sess, StateAwaitingTimeWindow,
			Reply{Text: PromptTimeWindow, Choices: s.vocab.TimeWindowKeyboard()})), nil

	case StateAwaitingTimeWindow:
		window, ok := s.vocab.TimeWindow(text)
		if !ok {
			return st.respond(s.fail(ev.UserID, sess, "unknown time window")), nil
		}
		sess.Partial.TimeWindow = window
		return st.respond(s.advance(ev.UserID, sess, StateAwaitingMatchType,
			Reply{Text: PromptMatchType, Choices: s.vocab.MatchTypeKeyboard()})), nil

	case StateAwaitingMatchType:
		match, ok := s.vocab.MatchType(text)
		if !ok {
			return st.respond(s.fail(ev.UserID, sess, "unknown match type")), nil
		}
		return st.respond(s.complete(ctx, ev.UserID, st, match)), nil

	case StateAwaitingSelection:
		return st.respond(s.selectSaved(ctx, ev.UserID, st, text)), nil
	}

	return Reply{}, nil
}

func (s *ConversationService) advance(userID int64, sess *Session, next State, r Reply) Reply {
	log.Debug().
		Int64("user_id", userID).
		Str("session_id", sess.ID).
		Str("from", sess.State.String()).
		Str("to", next.String()).
		Msg("Dialogue advanced")
	sess.State = next
	return r
}

// fail ends the dialogue, leaving the partial query as it was.
func (s *ConversationService) fail(userID int64, sess *Session, reason string) Reply {
	log.Info().
		Int64("user_id", userID).
		Str("session_id", sess.ID).
		Str("state", sess.State.String()).
		Str("reason", reason).
		Msg("Dialogue failed")
	sess.State = StateFailed
	return failureReply()
}

// complete runs the lookup for the finished query.
// A transport error keeps the dialogue at the match-type step.
func (s *ConversationService) complete(ctx context.Context, userID int64, st *userState, match model.MatchType) Reply {
	sess := st.session
	q := sess.Partial
	q.MatchType = match

	report, err := s.reporter.Format(ctx, q)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", userID).
			Str("session_id", sess.ID).
			Msg("Stats lookup failed")
		return Reply{Text: RetryText, Choices: s.vocab.MatchTypeKeyboard()}
	}

	sess.Partial = q
	s.remember(st, q, report)
	_ = s.advance(userID, sess, StateCompleted, Reply{})

	return Reply{
		Text:           report.Text,
		Action:         s.saveOffer(ctx, userID, q, report),
		RemoveKeyboard: true,
	}
}

func (s *ConversationService) remember(st *userState, q model.Query, report stats.Report) {
	st.memory = Memory{LastQuery: &q, LastResult: report.Text, LastFound: report.Found}
}

// saveOffer returns the save button when the report has data and q is not stored yet.
func (s *ConversationService) saveOffer(ctx context.Context, userID int64, q model.Query, report stats.Report) *Action {
	if !report.Found {
		return nil
	}
	stored, err := s.store.Contains(ctx, userID, q)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to check saved searches")
		return nil
	}
	if stored {
		return nil
	}
	return &Action{Label: SaveLabel, Token: ActionSave}
}

// Replay reruns the user's last completed query without touching the dialogue.
func (s *ConversationService) Replay(ctx context.Context, ev Event) (Reply, error) {
	st := s.sessions.get(ev.UserID)
	if st.duplicate(ev) {
		return st.lastReply, nil
	}
	if st.memory.LastQuery == nil {
		return st.respond(Reply{Text: NoReplayText}), nil
	}

	q := *st.memory.LastQuery
	report, err := s.reporter.Format(ctx, q)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("Replay lookup failed")
		return st.respond(failureReply()), nil
	}
	s.remember(st, q, report)

	return st.respond(Reply{Text: report.Text, Action: s.saveOffer(ctx, ev.UserID, q, report)}), nil
}
