// Package model defines the data models for the stats bot.
package model

import (
	"strings"
	"time"
)

// AccountType is the platform a player account lives on.
type AccountType string

// TimeWindow selects lifetime or current-season stats.
type TimeWindow string

// MatchType selects which stats bucket is rendered.
type MatchType string

// Account types accepted by the stats API.
const (
	AccountEpic AccountType = "epic"
	AccountPSN  AccountType = "psn"
	AccountXbox AccountType = "xbl"
)

// Time windows accepted by the stats API.
const (
	WindowLifetime TimeWindow = "lifetime"
	WindowSeason   TimeWindow = "season"
)

// Match types present in the stats payload.
const (
	MatchOverall MatchType = "overall"
	MatchSolo    MatchType = "solo"
	MatchDuo     MatchType = "duo"
	MatchTrio    MatchType = "trio"
	MatchSquad   MatchType = "squad"
	MatchLTM     MatchType = "ltm"
)

// AccountTypes returns every account type in display order.
func AccountTypes() []AccountType {
	return []AccountType{AccountEpic, AccountPSN, AccountXbox}
}

// TimeWindows returns every time window in display order.
func TimeWindows() []TimeWindow {
	return []TimeWindow{WindowLifetime, WindowSeason}
}

// MatchTypes returns every match type in display order.
func MatchTypes() []MatchType {
	return []MatchType{MatchOverall, MatchSolo, MatchDuo, MatchTrio, MatchSquad, MatchLTM}
}

// Valid reports whether a is a known account type.
func (a AccountType) Valid() bool {
	switch a {
	case AccountEpic, AccountPSN, AccountXbox:
		return true
	}
	return false
}

// Valid reports whether w is a known time window.
func (w TimeWindow) Valid() bool {
	return w == WindowLifetime || w == WindowSeason
}

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	switch m {
	case MatchOverall, MatchSolo, MatchDuo, MatchTrio, MatchSquad, MatchLTM:
		return true
	}
	return false
}

// Query identifies one stats lookup.
type Query struct {
	Username    string      `json:"username"`
	AccountType AccountType `json:"account_type"`
	TimeWindow  TimeWindow  `json:"time_window"`
	MatchType   MatchType   `json:"match_type"`
}

// UsernameKey returns the case-folded username used for matching.
func (q Query) UsernameKey() string {
	return UsernameKey(q.Username)
}

// UsernameKey folds a username into its matching form.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Valid reports whether every field holds a value eligible for lookup.
func (q Query) Valid() bool {
	return q.UsernameKey() != "" &&
		q.AccountType.Valid() &&
		q.TimeWindow.Valid() &&
		q.MatchType.Valid()
}

// Equal compares two queries field by field, ignoring username case.
func (q Query) Equal(other Query) bool {
	return q.UsernameKey() == other.UsernameKey() &&
		q.AccountType == other.AccountType &&
		q.TimeWindow == other.TimeWindow &&
		q.MatchType == other.MatchType
}

// SavedSearch is a persisted query row.
type SavedSearch struct {
	ID          int64       `db:"id"`
	UserID      int64       `db:"user_id"`
	Username    string      `db:"username"`
	UsernameKey string      `db:"username_key"`
	AccountType AccountType `db:"account_type"`
	TimeWindow  TimeWindow  `db:"time_window"`
	MatchType   MatchType   `db:"match_type"`
	CreatedAt   time.Time   `db:"created_at"`
}

// Query converts the row back into a lookup query.
func (s SavedSearch) Query() Query {
	return Query{
		Username:    s.Username,
		AccountType: s.AccountType,
		TimeWindow:  s.TimeWindow,
		MatchType:   s.MatchType,
	}
}
