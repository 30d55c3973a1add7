package recommend

import (
	"fmt"
	"math"
	"sort"

	"sekaiDeckRecommend/domain"
)

// Multi lives add a per-member active bonus to the raw score and a small
// constant bias to the score rate.
const (
	leaderboardMultiRateBias     = 0.01875
	leaderboardMemberActiveBonus = 0.015
)

// MusicLeaderboard ranks every (music, difficulty) row by the score or
// event-point output of one fixed reference deck. With KeepOneDiffPerMusic
// only the best-ranked difficulty of each music stays on the board.
func (s *Service) MusicLeaderboard(req *domain.MusicLeaderboardRequest) (*domain.MusicLeaderboardResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidOption)
	}
	opts := req.Options
	if opts.SkillStrategy == "" {
		opts.SkillStrategy = domain.ChooseAverage
	}

	mm, err := s.musicmeta.Get(req.Region, req.MusicmetasPath, req.MusicmetasUpdateTs)
	if err != nil {
		return nil, err
	}

	skills := orderedSkills(opts.Skills, opts.SkillStrategy)

	rows := make([]domain.MusicLeaderboardRow, 0, mm.Len())
	for _, meta := range mm.Rows() {
		if meta.MusicID == domain.OmakaseMusicID {
			continue
		}
		rows = append(rows, leaderboardRow(meta, &opts, skills))
	}

	sortLeaderboard(rows, opts.Target, opts.Ascend)
	if opts.KeepOneDiffPerMusic {
		rows = bestDiffPerMusic(rows)
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return &domain.MusicLeaderboardResponse{Status: "success", Rows: rows}, nil
}

// orderedSkills resolves the five member rates to the values paired with the
// strongest slots: max pairs the best skills with the biggest slots, min the
// weakest, average flattens them.
func orderedSkills(skills []float64, strategy domain.ChooseStrategy) [5]float64 {
	var out [5]float64
	copy(out[:], skills)
	switch strategy {
	case domain.ChooseMax:
		sort.Sort(sort.Reverse(sort.Float64Slice(out[:])))
	case domain.ChooseMin:
		sort.Float64s(out[:])
	default: // average
		mean := (out[0] + out[1] + out[2] + out[3] + out[4]) / 5
		for i := range out {
			out[i] = mean
		}
	}
	return out
}

func leaderboardRow(meta *domain.MusicMeta, opts *domain.LeaderboardOptions, skills [5]float64) domain.MusicLeaderboardRow {
	var weights []float64
	base := meta.BaseScore
	switch opts.LiveType {
	case domain.LiveMulti:
		weights = meta.SkillScoreMulti
	case domain.LiveAuto:
		weights = meta.SkillScoreAuto
		base = meta.BaseScoreAuto
	default:
		weights = meta.SkillScoreSolo
	}

	// Member slots sorted by weight descending, paired with the resolved
	// skill order; the encore slot always replays the leader.
	var slots [5]float64
	for j := 0; j < 5; j++ {
		slots[j] = weightAt(weights, j)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(slots[:])))

	term := 0.0
	for j := 0; j < 5; j++ {
		term += slots[j] * skills[j] / 100
	}
	term += weightAt(weights, 5) * opts.Skills[0] / 100

	rate := base + term
	active := 0.0
	if opts.LiveType == domain.LiveMulti {
		rate += meta.FeverScore*0.5 + leaderboardMultiRateBias
		active = 5 * leaderboardMemberActiveBonus * float64(opts.Power)
	}
	score := math.Floor(rate*float64(opts.Power)*4 + active)

	var bracket float64
	if opts.LiveType == domain.LiveMulti {
		extra := math.Floor(score * 4 / 340000)
		if extra > 13 {
			extra = 13
		}
		bracket = 110 + math.Floor(score/17000) + extra
	} else {
		bracket = 100 + math.Floor(score/20000)
	}
	pts := int64(bracket * meta.EventRate / 100 * (1 + opts.DeckBonus/100))

	playTime := meta.MusicTime + opts.PlayIntervalSec
	perHour := 0.0
	if playTime > 0 {
		perHour = 3600 / playTime
	}

	return domain.MusicLeaderboardRow{
		MusicID:       meta.MusicID,
		Difficulty:    meta.Difficulty,
		MusicTime:     meta.MusicTime,
		LiveScore:     score,
		EventPoints:   pts,
		PointsPerHour: float64(pts) * perHour,
		PlaysPerHour:  perHour,
	}
}

// sortLeaderboard orders by the target metric, breaking ties by difficulty
// priority and then music id so ranks stay deterministic.
func sortLeaderboard(rows []domain.MusicLeaderboardRow, target domain.LeaderboardTarget, ascend bool) {
	key := func(r *domain.MusicLeaderboardRow) float64 {
		switch target {
		case domain.LeaderboardPoints:
			return float64(r.EventPoints)
		case domain.LeaderboardPointsPerHour:
			return r.PointsPerHour
		default:
			return r.LiveScore
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := key(&rows[i]), key(&rows[j])
		if a != b {
			if ascend {
				return a < b
			}
			return a > b
		}
		pa := domain.LeaderboardDiffPriority[rows[i].Difficulty]
		pb := domain.LeaderboardDiffPriority[rows[j].Difficulty]
		if pa != pb {
			return pa > pb
		}
		return rows[i].MusicID < rows[j].MusicID
	})
}

// bestDiffPerMusic keeps the first (best-ranked) difficulty of each music.
// Rows must already be sorted.
func bestDiffPerMusic(rows []domain.MusicLeaderboardRow) []domain.MusicLeaderboardRow {
	seen := make(map[uint]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if seen[r.MusicID] {
			continue
		}
		seen[r.MusicID] = true
		out = append(out, r)
	}
	return out
}
