// Package vocab translates between keyboard labels and canonical query tokens.
package vocab

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/model"
)

// Undefined is returned for labels or tokens that have no table entry.
const Undefined = "Undefined"

// UnavailableIcon replaces the season icon when it cannot be fetched.
const UnavailableIcon = "❌"

// SeasonSource supplies the icon shown next to the season choice.
type SeasonSource interface {
	SeasonIcon(ctx context.Context) (string, error)
}

type entry struct {
	label string
	token string
}

var fixedEntries = []entry{
	{"🔲 Epic", string(model.AccountEpic)},
	{"🟦 PSN", string(model.AccountPSN)},
	{"🟩 Xbox", string(model.AccountXbox)},
	{"🍃 Lifetime", string(model.WindowLifetime)},
	{"🔢 Everything", string(model.MatchOverall)},
	{"1️⃣ Solo", string(model.MatchSolo)},
	{"2️⃣ Duo", string(model.MatchDuo)},
	{"3️⃣ Trio", string(model.MatchTrio)},
	{"4️⃣ Squad", string(model.MatchSquad)},
	{"🔐 Limited modes", string(model.MatchLTM)},
}

// table is immutable once built; refreshes swap in a new one.
type table struct {
	toToken     map[string]string
	toLabel     map[string]string
	seasonLabel string
	seasonOK    bool
}

func buildTable(icon string, seasonOK bool) *table {
	t := &table{
		toToken:     make(map[string]string, len(fixedEntries)+1),
		toLabel:     make(map[string]string, len(fixedEntries)+1),
		seasonLabel: SeasonLabel(icon),
		seasonOK:    seasonOK,
	}
	for _, e := range fixedEntries {
		t.toToken[e.label] = e.token
		t.toLabel[e.token] = e.label
	}
	if seasonOK {
		t.toToken[t.seasonLabel] = string(model.WindowSeason)
		t.toLabel[string(model.WindowSeason)] = t.seasonLabel
	}
	return t
}

// SeasonLabel formats the season choice for an icon.
func SeasonLabel(icon string) string {
	return icon + " Season"
}

// Translator maps labels to tokens and back. Safe for concurrent use.
type Translator struct {
	source  SeasonSource
	current atomic.Pointer[table]
}

// New builds a translator and performs the initial season fetch.
// A nil source leaves the season choice unavailable.
func New(ctx context.Context, source SeasonSource) *Translator {
	tr := &Translator{source: source}
	tr.current.Store(buildTable(UnavailableIcon, false))
	tr.Refresh(ctx)
	return tr
}

// Refresh rebuilds the table with a freshly fetched season icon.
// On failure the season entry is dropped rather than kept stale.
func (t *Translator) Refresh(ctx context.Context) {
	if t.source == nil {
		return
	}
	icon, err := t.source.SeasonIcon(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Season icon unavailable, season choice disabled")
		t.current.Store(buildTable(UnavailableIcon, false))
		return
	}
	t.current.Store(buildTable(icon, true))
	log.Debug().Str("label", SeasonLabel(icon)).Msg("Season label refreshed")
}

// RunRefresher refreshes the table every interval until ctx is done.
func (t *Translator) RunRefresher(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || t.source == nil {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Refresh(ctx)
		}
	}
}

// ToCanonical returns the token for a label.
func (t *Translator) ToCanonical(label string) (string, bool) {
	token, ok := t.current.Load().toToken[label]
	if !ok {
		return Undefined, false
	}
	return token, true
}

// ToLabel returns the label for a token.
func (t *Translator) ToLabel(token string) (string, bool) {
	label, ok := t.current.Load().toLabel[token]
	if !ok {
		return Undefined, false
	}
	return label, true
}

// SeasonAvailable reports whether the season choice can be selected.
func (t *Translator) SeasonAvailable() bool {
	return t.current.Load().seasonOK
}

// AccountType translates a platform label.
func (t *Translator) AccountType(label string) (model.AccountType, bool) {
	token, ok := t.ToCanonical(label)
	if !ok || !model.AccountType(token).Valid() {
		return "", false
	}
	return model.AccountType(token), true
}

// TimeWindow translates a time-window label.
func (t *Translator) TimeWindow(label string) (model.TimeWindow, bool) {
	token, ok := t.ToCanonical(label)
	if !ok || !model.TimeWindow(token).Valid() {
		return "", false
	}
	return model.TimeWindow(token), true
}

// MatchType translates a match-type label.
func (t *Translator) MatchType(label string) (model.MatchType, bool) {
	token, ok := t.ToCanonical(label)
	if !ok || !model.MatchType(token).Valid() {
		return "", false
	}
	return model.MatchType(token), true
}

// Describe renders a query with labels, falling back to raw tokens.
func (t *Translator) Describe(q model.Query) string {
	return q.Username + " · " +
		t.labelOr(string(q.AccountType)) + " · " +
		t.labelOr(string(q.TimeWindow)) + " · " +
		t.labelOr(string(q.MatchType))
}

func (t *Translator) labelOr(token string) string {
	if label, ok := t.ToLabel(token); ok {
		return label
	}
	return token
}
