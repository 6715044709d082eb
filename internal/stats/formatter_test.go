package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortnite-stats-bot/internal/fortnite"
	"fortnite-stats-bot/internal/model"
)

type fakeLookuper struct {
	data  *fortnite.PlayerStats
	err   error
	calls int
	last  model.Query
}

func (f *fakeLookuper) Lookup(_ context.Context, q model.Query) (*fortnite.PlayerStats, error) {
	f.calls++
	f.last = q
	return f.data, f.err
}

func soloStats() *fortnite.PlayerStats {
	return &fortnite.PlayerStats{
		BattlePass: fortnite.BattlePass{Level: 87},
		Stats: fortnite.StatsGroup{All: &fortnite.InputStats{
			Solo: &fortnite.MatchStats{
				Score: 400, Wins: 5, Top10: 20, Top25: 41,
				Kills: 90, Deaths: 60, KD: 1.5,
				Matches: 65, WinRate: 7.69, MinutesPlayed: 1500,
			},
		}},
	}
}

func query(name string, m model.MatchType) model.Query {
	return model.Query{
		Username:    name,
		AccountType: model.AccountEpic,
		TimeWindow:  model.WindowLifetime,
		MatchType:   m,
	}
}

func TestFormatter_Format_Solo(t *testing.T) {
	fake := &fakeLookuper{data: soloStats()}
	report, err := NewFormatter(fake).Format(context.Background(), query("PlayerOne", model.MatchSolo))
	require.NoError(t, err)

	assert.True(t, report.Found)
	assert.Equal(t, 1, fake.calls)

	want := "👤 *Username*: PlayerOne\n" +
		"⭐️ *Battle pass*: 87\n\n" +
		"⚔️  *Solo* ⚔️\n\n" +
		"📈 *Score*: 400\n" +
		"🥇 *Wins*: 5\n" +
		"🥈 *Top 10*: 20\n" +
		"🥉 *Top 25*: 41\n\n" +
		"🏆 *Win rate*: 7.69%\n" +
		"▶️  *Matches*: 65\n\n" +
		"💪🏻 *Kills*: 90\n" +
		"💀 *Deaths*: 60\n" +
		"🧑‍🚀 *K/D ratio*: 1.5\n\n" +
		"🕒 *Time played*: 25:00"
	assert.Equal(t, want, report.Text)
}

func TestFormatter_Format_NotFound(t *testing.T) {
	fake := &fakeLookuper{err: fortnite.ErrNotFound}
	q := query("ghost_user", model.MatchSolo)
	q.AccountType = model.AccountXbox

	report, err := NewFormatter(fake).Format(context.Background(), q)
	require.NoError(t, err)

	assert.False(t, report.Found)
	assert.Equal(t, `User *Ghost\_user* not found on *XBL* platform! 🤷🏼‍♂️🔍`, report.Text)
}

func TestFormatter_Format_NoMatchData(t *testing.T) {
	fake := &fakeLookuper{data: soloStats()}
	report, err := NewFormatter(fake).Format(context.Background(), query("PlayerOne", model.MatchDuo))
	require.NoError(t, err)

	assert.False(t, report.Found)
	assert.True(t, strings.HasSuffix(report.Text, NoDataText))
	assert.Contains(t, report.Text, "⚔️  *Duo* ⚔️")
}

func TestFormatter_Format_TransportError(t *testing.T) {
	fake := &fakeLookuper{err: fmt.Errorf("%w: timeout", fortnite.ErrTransport)}
	_, err := NewFormatter(fake).Format(context.Background(), query("PlayerOne", model.MatchSolo))

	require.Error(t, err)
	assert.True(t, errors.Is(err, fortnite.ErrTransport))
	assert.Equal(t, 1, fake.calls)
}

func TestFormatter_Format_PlacementRows(t *testing.T) {
	all := &fortnite.MatchStats{Wins: 1, Top3: 3, Top5: 5, Top6: 6, Top10: 10, Top12: 12, Top25: 25}
	data := &fortnite.PlayerStats{Stats: fortnite.StatsGroup{All: &fortnite.InputStats{
		Overall: all, Solo: all, Duo: all, Trio: all, Squad: all, LTM: all,
	}}}

	tests := []struct {
		match model.MatchType
		rows  []string
		not   []string
	}{
		{model.MatchOverall, []string{"👑 *Wins*: 1", "*Top 3*: 3", "*Top 5*: 5", "*Top 6*: 6", "*Top 10*: 10", "*Top 12*: 12", "*Top 25*: 25"}, nil},
		{model.MatchSolo, []string{"*Wins*: 1", "*Top 10*: 10", "*Top 25*: 25"}, []string{"*Top 3*", "*Top 5*"}},
		{model.MatchDuo, []string{"*Wins*: 1", "*Top 5*: 5", "*Top 12*: 12"}, []string{"*Top 3*", "*Top 25*"}},
		{model.MatchTrio, []string{"*Wins*: 1", "*Top 3*: 3", "*Top 6*: 6"}, []string{"*Top 10*"}},
		{model.MatchSquad, []string{"*Wins*: 1", "*Top 3*: 3", "*Top 6*: 6"}, []string{"*Top 12*"}},
		{model.MatchLTM, []string{"🥇 *Wins*: 1"}, []string{"*Top "}},
	}

	for _, tt := range tests {
		t.Run(string(tt.match), func(t *testing.T) {
			report, err := NewFormatter(&fakeLookuper{data: data}).Format(context.Background(), query("a", tt.match))
			require.NoError(t, err)
			assert.True(t, report.Found)
			for _, row := range tt.rows {
				assert.Contains(t, report.Text, row)
			}
			for _, row := range tt.not {
				assert.NotContains(t, report.Text, row)
			}
			assert.Contains(t, report.Text, "📈 *Score*")
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{1500, "25:00"},
		{6001, "100:01"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.in))
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"playerone", "Playerone"},
		{"PlayerOne", "PlayerOne"},
		{"  ninja  ", "Ninja"},
		{"dark_knight", `Dark\_knight`},
		{"*star*", `\*star\*`},
		{"[clan]`x`", "\\[clan]\\`x\\`"},
		{"ärger", "Ärger"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.in), tt.in)
	}
}
