package domain

// LeaderboardTarget is the metric a music leaderboard is ranked by.
type LeaderboardTarget string

const (
	LeaderboardScore         LeaderboardTarget = "score"
	LeaderboardPoints        LeaderboardTarget = "pt"
	LeaderboardPointsPerHour LeaderboardTarget = "pt_per_hour"
)

// LeaderboardDiffPriority breaks ties between difficulties of the same
// music: higher wins on a descending board.
var LeaderboardDiffPriority = map[string]int{
	"master": 6,
	"append": 5,
	"expert": 4,
	"hard":   3,
	"normal": 2,
	"easy":   1,
}

// LeaderboardOptions parameterizes one leaderboard computation. Skills and
// power describe a fixed reference deck applied to every song.
type LeaderboardOptions struct {
	LiveType LiveType          `json:"live_type" validate:"required,oneof=solo auto multi"`
	Target   LeaderboardTarget `json:"target" validate:"required,oneof=score pt pt_per_hour"`

	// The five member score-up rates of the reference deck, leader first.
	Skills        []float64      `json:"skills" validate:"required,len=5"`
	SkillStrategy ChooseStrategy `json:"skill_strategy" validate:"omitempty,oneof=max min average"`
	Power         int            `json:"power" validate:"required,min=1"`

	DeckBonus float64 `json:"deck_bonus" validate:"min=0"`

	// Seconds between two plays, added to the song length for the per-hour
	// rates.
	PlayIntervalSec float64 `json:"play_interval_sec" validate:"min=0"`

	// Keep only the best-ranked difficulty of each music.
	KeepOneDiffPerMusic bool `json:"keep_one_diff_per_music"`

	Ascend bool `json:"ascend"`
	Limit  int  `json:"limit" validate:"min=0,max=500"`
}

// MusicLeaderboardRequest is the transport envelope of one leaderboard call.
type MusicLeaderboardRequest struct {
	Region             Region `json:"region" validate:"required,oneof=jp en tw kr cn"`
	MusicmetasPath     string `json:"musicmetas_path" validate:"required"`
	MusicmetasUpdateTs int64  `json:"musicmetas_update_ts"`

	Options LeaderboardOptions `json:"options"`
}

// MusicLeaderboardRow is one ranked (music, difficulty) entry.
type MusicLeaderboardRow struct {
	Rank       int     `json:"rank"`
	MusicID    uint    `json:"music_id"`
	Difficulty string  `json:"difficulty"`
	MusicTime  float64 `json:"music_time"`

	LiveScore     float64 `json:"live_score"`
	EventPoints   int64   `json:"pt"`
	PointsPerHour float64 `json:"pt_per_hour"`
	PlaysPerHour  float64 `json:"plays_per_hour"`
}

// MusicLeaderboardResponse mirrors the recommend envelope shape.
type MusicLeaderboardResponse struct {
	Status    string                `json:"status"`
	Rows      []MusicLeaderboardRow `json:"rows,omitempty"`
	Exception string                `json:"exception,omitempty"`
}
