package fortnite

// statsResponse is the envelope returned by the stats endpoint.
// Status mirrors the HTTP status; Data is only set when Status is 200.
type statsResponse struct {
	Status int          `json:"status"`
	Error  string       `json:"error,omitempty"`
	Data   *PlayerStats `json:"data,omitempty"`
}

// PlayerStats is the successful lookup payload.
type PlayerStats struct {
	Account    Account    `json:"account"`
	BattlePass BattlePass `json:"battlePass"`
	Stats      StatsGroup `json:"stats"`
}

// Account identifies the player returned by the API.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BattlePass holds the player's current battle-pass progress.
type BattlePass struct {
	Level    int `json:"level"`
	Progress int `json:"progress"`
}

// StatsGroup groups stats by input device; only "all" is rendered.
type StatsGroup struct {
	All *InputStats `json:"all"`
}

// InputStats holds per-match-type buckets. A nil bucket means no games played.
type InputStats struct {
	Overall *MatchStats `json:"overall"`
	Solo    *MatchStats `json:"solo"`
	Duo     *MatchStats `json:"duo"`
	Trio    *MatchStats `json:"trio"`
	Squad   *MatchStats `json:"squad"`
	LTM     *MatchStats `json:"ltm"`
}

// MatchStats is one stats bucket.
type MatchStats struct {
	Score         int64   `json:"score"`
	Wins          int64   `json:"wins"`
	Top3          int64   `json:"top3"`
	Top5          int64   `json:"top5"`
	Top6          int64   `json:"top6"`
	Top10         int64   `json:"top10"`
	Top12         int64   `json:"top12"`
	Top25         int64   `json:"top25"`
	Kills         int64   `json:"kills"`
	Deaths        int64   `json:"deaths"`
	KD            float64 `json:"kd"`
	Matches       int64   `json:"matches"`
	WinRate       float64 `json:"winRate"`
	MinutesPlayed int64   `json:"minutesPlayed"`
}

type seasonResponse struct {
	TimeWindow string `json:"time_window"`
}
