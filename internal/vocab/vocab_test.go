package vocab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortnite-stats-bot/internal/model"
)

type stubSeason struct {
	icon string
	err  error
}

func (s *stubSeason) SeasonIcon(context.Context) (string, error) {
	return s.icon, s.err
}

func TestTranslator_RoundTrip(t *testing.T) {
	tr := New(context.Background(), &stubSeason{icon: "🌋"})

	for _, e := range fixedEntries {
		token, ok := tr.ToCanonical(e.label)
		require.True(t, ok, e.label)
		assert.Equal(t, e.token, token)

		label, ok := tr.ToLabel(e.token)
		require.True(t, ok, e.token)
		assert.Equal(t, e.label, label)
	}

	token, ok := tr.ToCanonical("🌋 Season")
	require.True(t, ok)
	assert.Equal(t, "season", token)
	assert.True(t, tr.SeasonAvailable())
}

func TestTranslator_UnknownInput(t *testing.T) {
	tr := New(context.Background(), &stubSeason{icon: "🌋"})

	token, ok := tr.ToCanonical("Epic")
	assert.False(t, ok)
	assert.Equal(t, Undefined, token)

	label, ok := tr.ToLabel("switch")
	assert.False(t, ok)
	assert.Equal(t, Undefined, label)
}

func TestTranslator_SeasonUnavailable(t *testing.T) {
	tr := New(context.Background(), &stubSeason{err: errors.New("boom")})

	assert.False(t, tr.SeasonAvailable())
	_, ok := tr.ToCanonical(SeasonLabel(UnavailableIcon))
	assert.False(t, ok, "sentinel label must match nothing")
	_, ok = tr.TimeWindow(SeasonLabel(UnavailableIcon))
	assert.False(t, ok)
	assert.Equal(t, [][]string{{"🍃 Lifetime"}}, tr.TimeWindowKeyboard())
}

func TestTranslator_NilSource(t *testing.T) {
	tr := New(context.Background(), nil)
	assert.False(t, tr.SeasonAvailable())
	_, ok := tr.AccountType("🔲 Epic")
	assert.True(t, ok)
}

func TestTranslator_RefreshSwapsSeason(t *testing.T) {
	src := &stubSeason{icon: "🌋"}
	tr := New(context.Background(), src)
	require.True(t, tr.SeasonAvailable())

	src.icon = "❄️"
	tr.Refresh(context.Background())

	_, ok := tr.ToCanonical("🌋 Season")
	assert.False(t, ok)
	w, ok := tr.TimeWindow("❄️ Season")
	assert.True(t, ok)
	assert.Equal(t, model.WindowSeason, w)

	src.err = errors.New("down")
	tr.Refresh(context.Background())
	assert.False(t, tr.SeasonAvailable())
}

func TestTranslator_TypedLookupsRejectOtherDimensions(t *testing.T) {
	tr := New(context.Background(), &stubSeason{icon: "🌋"})

	_, ok := tr.AccountType("1️⃣ Solo")
	assert.False(t, ok)
	_, ok = tr.TimeWindow("🔲 Epic")
	assert.False(t, ok)
	_, ok = tr.MatchType("🍃 Lifetime")
	assert.False(t, ok)

	m, ok := tr.MatchType("🔐 Limited modes")
	assert.True(t, ok)
	assert.Equal(t, model.MatchLTM, m)
}

func TestTranslator_KeyboardLabelsAreTranslatable(t *testing.T) {
	tr := New(context.Background(), &stubSeason{icon: "🌋"})

	for _, kb := range [][][]string{tr.PlatformKeyboard(), tr.TimeWindowKeyboard(), tr.MatchTypeKeyboard()} {
		for _, row := range kb {
			for _, label := range row {
				_, ok := tr.ToCanonical(label)
				assert.True(t, ok, "label %q has no table entry", label)
			}
		}
	}
	assert.Len(t, tr.TimeWindowKeyboard(), 2)
}

func TestTranslator_Describe(t *testing.T) {
	tr := New(context.Background(), &stubSeason{icon: "🌋"})
	q := model.Query{Username: "PlayerOne", AccountType: model.AccountPSN, TimeWindow: model.WindowSeason, MatchType: model.MatchDuo}
	assert.Equal(t, "PlayerOne · 🟦 PSN · 🌋 Season · 2️⃣ Duo", tr.Describe(q))
}
