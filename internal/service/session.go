package service

import (
	"sync"

	"fortnite-stats-bot/internal/model"
)

// State is a step of the search dialogue.
type State int

// Dialogue states. Completed and Failed end a dialogue; the next /search starts a new one.
const (
	StateIdle State = iota
	StateAwaitingUsername
	StateAwaitingAccountType
	StateAwaitingTimeWindow
	StateAwaitingMatchType
	StateCompleted
	StateFailed
	StateAwaitingSelection
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateAwaitingUsername:    "awaiting_username",
	StateAwaitingAccountType: "awaiting_account_type",
	StateAwaitingTimeWindow:  "awaiting_time_window",
	StateAwaitingMatchType:   "awaiting_match_type",
	StateCompleted:           "completed",
	StateFailed:              "failed",
	StateAwaitingSelection:   "awaiting_selection",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the dialogue is over.
func (s State) Terminal() bool {
	return s == StateIdle || s == StateCompleted || s == StateFailed
}

// Session is one dialogue instance.
type Session struct {
	ID      string
	State   State
	Partial model.Query
	// Listing is the saved list as shown when the selection prompt was sent.
	Listing []model.Query
}

// Memory outlives dialogues so that replay and save work after completion.
type Memory struct {
	LastQuery  *model.Query
	LastResult string
	LastFound  bool
}

// selection is the entry a remove button refers to.
type selection struct {
	position int
	query    model.Query
}

// userState is everything the service keeps for one user.
// It is only touched by the goroutine holding that user's lock.
type userState struct {
	session      *Session
	memory       Memory
	selected     *selection
	lastUpdateID int
	lastReply    Reply
}

// sessionTable is the per-user state arena.
type sessionTable struct {
	mu    sync.RWMutex
	users map[int64]*userState
}

func newSessionTable() *sessionTable {
	return &sessionTable{users: make(map[int64]*userState)}
}

// get returns the user's state, creating it on first use.
func (t *sessionTable) get(userID int64) *userState {
	t.mu.RLock()
	st, ok := t.users[userID]
	t.mu.RUnlock()
	if ok {
		return st
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok = t.users[userID]; !ok {
		st = &userState{}
		t.users[userID] = st
	}
	return st
}

func (t *sessionTable) lookup(userID int64) (*userState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.users[userID]
	return st, ok
}
