package domain

// OmakaseMusicID is the synthetic music id whose meta row is the arithmetic
// mean over master/expert/hard of all released songs. The store computes the
// row when the upstream file lacks it.
const OmakaseMusicID = 10000

// OmakaseMusicDiffs are the difficulties averaged into the omakase row.
var OmakaseMusicDiffs = []string{"master", "expert", "hard"}

// MusicMeta is one row of the music-meta file: everything the scoring kernel
// needs to know about one (music, difficulty) pair.
type MusicMeta struct {
	MusicID    uint   `json:"music_id"`
	Difficulty string `json:"difficulty"`

	MusicTime float64 `json:"music_time"`
	EventRate float64 `json:"event_rate"`

	BaseScore     float64 `json:"base_score"`
	BaseScoreAuto float64 `json:"base_score_auto"`

	// Per-skill-slot score contributions. Slots 0..4 are the five members in
	// activation order, slot 5 is the leader's encore activation.
	SkillScoreSolo  []float64 `json:"skill_score_solo"`
	SkillScoreAuto  []float64 `json:"skill_score_auto"`
	SkillScoreMulti []float64 `json:"skill_score_multi"`

	FeverScore   float64 `json:"fever_score"`
	FeverEndTime float64 `json:"fever_end_time"`
	TapCount     int     `json:"tap_count"`
}
