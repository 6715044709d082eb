package vocab

import "fortnite-stats-bot/internal/model"

// PlatformKeyboard returns the rows offered for the platform step.
func (t *Translator) PlatformKeyboard() [][]string {
	return [][]string{
		{t.mustLabel(string(model.AccountEpic))},
		{t.mustLabel(string(model.AccountPSN))},
		{t.mustLabel(string(model.AccountXbox))},
	}
}

// TimeWindowKeyboard returns the rows offered for the time-window step.
// The season row is left out while the season label is unavailable.
func (t *Translator) TimeWindowKeyboard() [][]string {
	rows := [][]string{{t.mustLabel(string(model.WindowLifetime))}}
	if label, ok := t.ToLabel(string(model.WindowSeason)); ok {
		rows = append(rows, []string{label})
	}
	return rows
}

// MatchTypeKeyboard returns the rows offered for the match-type step.
func (t *Translator) MatchTypeKeyboard() [][]string {
	return [][]string{
		{t.mustLabel(string(model.MatchOverall))},
		{t.mustLabel(string(model.MatchSolo)), t.mustLabel(string(model.MatchDuo))},
		{t.mustLabel(string(model.MatchTrio)), t.mustLabel(string(model.MatchSquad))},
		{t.mustLabel(string(model.MatchLTM))},
	}
}

// mustLabel is only used for fixed entries, which are always present.
func (t *Translator) mustLabel(token string) string {
	label, _ := t.ToLabel(token)
	return label
}
