// Package stats turns a stats lookup into a Markdown report.
package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"fortnite-stats-bot/internal/fortnite"
	"fortnite-stats-bot/internal/model"
)

// NoDataText is rendered when the player exists but has no games of the requested type.
const NoDataText = "*No data found for this game type!*"

// Lookuper performs one stats request.
type Lookuper interface {
	Lookup(ctx context.Context, q model.Query) (*fortnite.PlayerStats, error)
}

// Report is the rendered result of one lookup.
// Found is true only when the player exists and the match-type bucket has data.
type Report struct {
	Text  string
	Found bool
}

// Formatter renders stats reports.
type Formatter struct {
	client Lookuper
}

// NewFormatter creates a formatter backed by client.
func NewFormatter(client Lookuper) *Formatter {
	return &Formatter{client: client}
}

// Format looks the query up exactly once and renders the result.
// Transport failures are returned as errors wrapping fortnite.ErrTransport.
func (f *Formatter) Format(ctx context.Context, q model.Query) (Report, error) {
	name := DisplayName(q.Username)

	data, err := f.client.Lookup(ctx, q)
	if errors.Is(err, fortnite.ErrNotFound) {
		return Report{Text: NotFoundText(name, q.AccountType)}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("lookup stats: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 *Username*: %s\n", name)
	fmt.Fprintf(&b, "⭐️ *Battle pass*: %d\n\n", data.BattlePass.Level)
	fmt.Fprintf(&b, "⚔️  *%s* ⚔️\n\n", matchTitle(q.MatchType))

	ms := data.ForMatch(q.MatchType)
	if ms == nil {
		log.Debug().Str("match_type", string(q.MatchType)).Msg("No stats for match type")
		b.WriteString(NoDataText)
		return Report{Text: b.String()}, nil
	}

	writeMatchStats(&b, q.MatchType, ms)
	return Report{Text: b.String(), Found: true}, nil
}

// NotFoundText is the reply for an unknown player.
func NotFoundText(displayName string, account model.AccountType) string {
	return fmt.Sprintf("User *%s* not found on *%s* platform! 🤷🏼‍♂️🔍",
		displayName, strings.ToUpper(string(account)))
}

type placement struct {
	icon  string
	title string
	value func(*fortnite.MatchStats) int64
}

var (
	wins  = func(s *fortnite.MatchStats) int64 { return s.Wins }
	top3  = func(s *fortnite.MatchStats) int64 { return s.Top3 }
	top5  = func(s *fortnite.MatchStats) int64 { return s.Top5 }
	top6  = func(s *fortnite.MatchStats) int64 { return s.Top6 }
	top10 = func(s *fortnite.MatchStats) int64 { return s.Top10 }
	top12 = func(s *fortnite.MatchStats) int64 { return s.Top12 }
	top25 = func(s *fortnite.MatchStats) int64 { return s.Top25 }
)

var placements = map[model.MatchType][]placement{
	model.MatchOverall: {
		{"👑", "Wins", wins},
		{"🥇", "Top 3", top3},
		{"🥈", "Top 5", top5},
		{"🥉", "Top 6", top6},
		{"🎖", "Top 10", top10},
		{"🎖", "Top 12", top12},
		{"🎖", "Top 25", top25},
	},
	model.MatchSolo: {
		{"🥇", "Wins", wins},
		{"🥈", "Top 10", top10},
		{"🥉", "Top 25", top25},
	},
	model.MatchDuo: {
		{"🥇", "Wins", wins},
		{"🥈", "Top 5", top5},
		{"🥉", "Top 12", top12},
	},
	model.MatchTrio: {
		{"🥇", "Wins", wins},
		{"🥈", "Top 3", top3},
		{"🥉", "Top 6", top6},
	},
	model.MatchSquad: {
		{"🥇", "Wins", wins},
		{"🥈", "Top 3", top3},
		{"🥉", "Top 6", top6},
	},
	model.MatchLTM: {
		{"🥇", "Wins", wins},
	},
}

var matchTitles = map[model.MatchType]string{
	model.MatchOverall: "Overall",
	model.MatchSolo:    "Solo",
	model.MatchDuo:     "Duo",
	model.MatchTrio:    "Trio",
	model.MatchSquad:   "Squad",
	model.MatchLTM:     "LTM",
}

func matchTitle(m model.MatchType) string {
	if t, ok := matchTitles[m]; ok {
		return t
	}
	return string(m)
}

func writeMatchStats(b *strings.Builder, m model.MatchType, s *fortnite.MatchStats) {
	fmt.Fprintf(b, "📈 *Score*: %d\n", s.Score)
	for _, p := range placements[m] {
		fmt.Fprintf(b, "%s *%s*: %d\n", p.icon, p.title, p.value(s))
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "🏆 *Win rate*: %s%%\n", formatFloat(s.WinRate))
	fmt.Fprintf(b, "▶️  *Matches*: %d\n\n", s.Matches)

	fmt.Fprintf(b, "💪🏻 *Kills*: %d\n", s.Kills)
	fmt.Fprintf(b, "💀 *Deaths*: %d\n", s.Deaths)
	fmt.Fprintf(b, "🧑‍🚀 *K/D ratio*: %s\n\n", formatFloat(s.KD))

	fmt.Fprintf(b, "🕒 *Time played*: %s", FormatMinutes(s.MinutesPlayed))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMinutes renders a duration as total hours and minutes, e.g. 1500 -> "25:00".
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// DisplayName escapes Markdown control characters and upper-cases the first letter.
func DisplayName(username string) string {
	username = strings.TrimSpace(username)
	r, size := utf8.DecodeRuneInString(username)
	if r != utf8.RuneError {
		username = string(unicode.ToUpper(r)) + username[size:]
	}
	return EscapeMarkdown(username)
}

// EscapeMarkdown escapes the characters Telegram's legacy Markdown treats as markup.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
