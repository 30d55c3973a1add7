package recommend

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sekaiDeckRecommend/domain"
)

func TestRecommendFixedFiveTargetPower(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveMulti,
		Target:        domain.TargetPower,
		MusicID:       2,
		MusicDiff:     "master",
		FixedCards:    []uint{101, 102, 103, 104, 105},
		Rarity4Config: maxedRarity4(),
		Limit:         1,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("status = %s", resp.Status)
	}
	if len(resp.Result.Decks) != 1 {
		t.Fatalf("decks = %d, want 1", len(resp.Result.Decks))
	}

	deck := resp.Result.Decks[0]
	// Five maxed cards at 980 base each, all light_sound: +15% unit bonus.
	if deck.TotalPower != 5635 {
		t.Errorf("total power = %d, want 5635", deck.TotalPower)
	}
	if deck.Score != 100 {
		t.Errorf("score = %d, want 100", deck.Score)
	}
	if len(deck.Cards) != 5 {
		t.Fatalf("cards = %d, want 5", len(deck.Cards))
	}
	for _, c := range deck.Cards {
		if c.Level != 4 || c.MasterRank != 5 || c.SkillLevel != 4 {
			t.Errorf("card %d not maxed: level=%d mr=%d skill=%d", c.CardID, c.Level, c.MasterRank, c.SkillLevel)
		}
		if c.Episode1Read == nil || !*c.Episode1Read {
			t.Errorf("card %d episode1_read not set", c.CardID)
		}
	}
}

func TestRecommendTargetSkillExactSum(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveMulti,
		Target:        domain.TargetSkill,
		MusicID:       2,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgDFS,
		Limit:         1,
		TimeoutMs:     5000,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(resp.Result.Decks) != 1 {
		t.Fatalf("decks = %d, want 1", len(resp.Result.Decks))
	}
	// Best five of 140,130,120,110,100,150 plus the default teammate
	// score-up of 200.
	if got := resp.Result.Decks[0].MultiLiveScoreUp; got != 850 {
		t.Errorf("multi_live_score_up = %v, want 850", got)
	}
}

func TestRecommendBonusTargets(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:        domain.LiveMulti,
		Target:          domain.TargetBonus,
		EventID:         1,
		MusicID:         2,
		MusicDiff:       "master",
		Rarity4Config:   maxedRarity4(),
		Algorithm:       domain.AlgDFS,
		TargetBonusList: []float64{250, 225},
		Limit:           1,
		TimeoutMs:       5000,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	decks := resp.Result.Decks
	if len(decks) != 2 {
		t.Fatalf("decks = %d, want 2 (one per bonus target)", len(decks))
	}
	if decks[0].EventBonusRate != 250 {
		t.Errorf("deck 0 bonus = %v, want 250", decks[0].EventBonusRate)
	}
	if decks[1].EventBonusRate != 225 {
		t.Errorf("deck 1 bonus = %v, want 225", decks[1].EventBonusRate)
	}
	// Bonus targeting lists per-card contributions descending.
	cards := decks[1].Cards
	for i := 1; i < len(cards); i++ {
		if cards[i].EventBonusRate > cards[i-1].EventBonusRate {
			t.Errorf("cards not ordered by bonus: %v then %v", cards[i-1].EventBonusRate, cards[i].EventBonusRate)
		}
	}
}

func TestRecommendChallengeLive(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:                 domain.LiveChallenge,
		Target:                   domain.TargetScore,
		ChallengeLiveCharacterID: 6,
		MusicID:                  1,
		MusicDiff:                "master",
		Rarity4Config:            maxedRarity4(),
		Algorithm:                domain.AlgDFS,
		Limit:                    1,
		TimeoutMs:                5000,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(resp.Result.Decks) != 1 {
		t.Fatalf("decks = %d, want 1", len(resp.Result.Decks))
	}
	found := false
	seen := make(map[uint]bool)
	for _, c := range resp.Result.Decks[0].Cards {
		if seen[c.CharacterID] {
			t.Errorf("duplicate character %d", c.CharacterID)
		}
		seen[c.CharacterID] = true
		if c.CharacterID == 6 {
			found = true
		}
	}
	if !found {
		t.Error("challenge character missing from deck")
	}
}

func TestNormalizeOptionsChallengeSkillOrderDefault(t *testing.T) {
	challenge := domain.RecommendOptions{
		LiveType: domain.LiveChallenge, Target: domain.TargetScore,
		ChallengeLiveCharacterID: 6, MusicID: 1, MusicDiff: "master",
	}
	if err := normalizeOptions(&challenge); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if challenge.SkillOrderChooseStrategy != domain.ChooseMax {
		t.Errorf("challenge skill order default = %q, want max", challenge.SkillOrderChooseStrategy)
	}

	solo := domain.RecommendOptions{
		LiveType: domain.LiveSolo, Target: domain.TargetScore, MusicID: 1, MusicDiff: "master",
	}
	if err := normalizeOptions(&solo); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if solo.SkillOrderChooseStrategy != domain.ChooseAverage {
		t.Errorf("solo skill order default = %q, want average", solo.SkillOrderChooseStrategy)
	}

	pinned := domain.RecommendOptions{
		LiveType: domain.LiveChallenge, Target: domain.TargetScore,
		ChallengeLiveCharacterID: 6, MusicID: 1, MusicDiff: "master",
		SkillOrderChooseStrategy: domain.ChooseMin,
	}
	if err := normalizeOptions(&pinned); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if pinned.SkillOrderChooseStrategy != domain.ChooseMin {
		t.Errorf("explicit skill order overridden to %q", pinned.SkillOrderChooseStrategy)
	}
}

func TestNormalizeOptionsMultiLiveTeammateDefaults(t *testing.T) {
	multi := domain.RecommendOptions{
		LiveType: domain.LiveMulti, Target: domain.TargetScore, MusicID: 1, MusicDiff: "master",
	}
	if err := normalizeOptions(&multi); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if multi.MultiLiveTeammatePower != 250000 {
		t.Errorf("teammate power default = %d, want 250000", multi.MultiLiveTeammatePower)
	}
	if multi.MultiLiveTeammateScoreUp != 200 {
		t.Errorf("teammate score-up default = %v, want 200", multi.MultiLiveTeammateScoreUp)
	}

	explicit := domain.RecommendOptions{
		LiveType: domain.LiveMulti, Target: domain.TargetScore, MusicID: 1, MusicDiff: "master",
		MultiLiveTeammatePower: 180000, MultiLiveTeammateScoreUp: 90,
	}
	if err := normalizeOptions(&explicit); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if explicit.MultiLiveTeammatePower != 180000 || explicit.MultiLiveTeammateScoreUp != 90 {
		t.Errorf("explicit teammates overridden to (%d, %v)",
			explicit.MultiLiveTeammatePower, explicit.MultiLiveTeammateScoreUp)
	}

	solo := domain.RecommendOptions{
		LiveType: domain.LiveSolo, Target: domain.TargetScore, MusicID: 1, MusicDiff: "master",
	}
	if err := normalizeOptions(&solo); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if solo.MultiLiveTeammatePower != 0 || solo.MultiLiveTeammateScoreUp != 0 {
		t.Errorf("solo got teammate stats (%d, %v)", solo.MultiLiveTeammatePower, solo.MultiLiveTeammateScoreUp)
	}
}

func TestRecommendOmakaseMusic(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveSolo,
		Target:        domain.TargetScore,
		MusicID:       domain.OmakaseMusicID,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgDFS,
		Limit:         1,
		TimeoutMs:     5000,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(resp.Result.Decks) != 1 {
		t.Fatalf("decks = %d, want 1", len(resp.Result.Decks))
	}
	if resp.Result.Decks[0].LiveScore <= 0 {
		t.Error("omakase live score not positive")
	}
}

func TestRecommendZeroTimeout(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveMulti,
		Target:        domain.TargetScore,
		MusicID:       2,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgDFS,
		Limit:         1,
		TimeoutMs:     0,
	})

	_, err := svc.Recommend(req)
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestRecommendZeroLimit(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveMulti,
		Target:        domain.TargetScore,
		MusicID:       2,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Limit:         0,
		TimeoutMs:     5000,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.Status != "success" || len(resp.Result.Decks) != 0 {
		t.Fatalf("want empty success, got status=%s decks=%d", resp.Status, len(resp.Result.Decks))
	}
}

func TestRecommendEmptyPool(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveMulti,
		Target:        domain.TargetScore,
		MusicID:       2,
		MusicDiff:     "master",
		Rarity4Config: &domain.CardConfig{Disable: true},
		Limit:         5,
		TimeoutMs:     5000,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.Status != "success" || len(resp.Result.Decks) != 0 {
		t.Fatalf("want empty success, got status=%s decks=%d", resp.Status, len(resp.Result.Decks))
	}
}

func TestRecommendSeedDeterminism(t *testing.T) {
	run := func() []domain.RecommendedDeck {
		svc := newTestService(t)
		req := baseRequest(t, domain.RecommendOptions{
			LiveType:      domain.LiveSolo,
			Target:        domain.TargetScore,
			MusicID:       1,
			MusicDiff:     "master",
			Rarity4Config: maxedRarity4(),
			Algorithm:     domain.AlgSA,
			Limit:         3,
			TimeoutMs:     5000,
			Seed:          7,
		})
		resp, err := svc.Recommend(req)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		return resp.Result.Decks
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("run sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Score != b[i].Score || a[i].TotalPower != b[i].TotalPower {
			t.Errorf("deck %d differs: (%d,%d) vs (%d,%d)",
				i, a[i].Score, a[i].TotalPower, b[i].Score, b[i].TotalPower)
		}
		for j := range a[i].Cards {
			if a[i].Cards[j].CardID != b[i].Cards[j].CardID {
				t.Errorf("deck %d card %d differs: %d vs %d",
					i, j, a[i].Cards[j].CardID, b[i].Cards[j].CardID)
			}
		}
	}
}

func TestRecommendOrderingInvariants(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveSolo,
		Target:        domain.TargetScore,
		MusicID:       1,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgAll,
		Limit:         6,
		TimeoutMs:     5000,
		Seed:          1,
	})

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	decks := resp.Result.Decks
	if len(decks) == 0 || len(decks) > 6 {
		t.Fatalf("decks = %d, want 1..6", len(decks))
	}
	for i, d := range decks {
		seen := make(map[uint]bool)
		for _, c := range d.Cards {
			if seen[c.CharacterID] {
				t.Errorf("deck %d: duplicate character %d", i, c.CharacterID)
			}
			seen[c.CharacterID] = true
		}
		if i > 0 && d.Score > decks[i-1].Score {
			t.Errorf("decks not sorted by score: %d then %d", decks[i-1].Score, d.Score)
		}
		if len(d.Algorithms) == 0 {
			t.Errorf("deck %d has no algorithm tags", i)
		}
	}
}

func TestRecommendMalformedCardLevelTable(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveMulti,
		Target:        domain.TargetScore,
		MusicID:       2,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgDFS,
		Limit:         1,
		TimeoutMs:     5000,
	})

	// Card 101 ships without a level table.
	broken := strings.Replace(fixtureCards, "[100,200,300,400]", "[]", 1)
	if err := os.WriteFile(filepath.Join(req.MasterdataPath, "cards.json"), []byte(broken), 0o644); err != nil {
		t.Fatalf("write cards: %v", err)
	}

	_, err := svc.Recommend(req)
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestRecommendTimingBreakdown(t *testing.T) {
	svc := newTestService(t)
	req := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveSolo,
		Target:        domain.TargetScore,
		MusicID:       1,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgDFS,
		Limit:         1,
		TimeoutMs:     5000,
	})
	req.CreateTs = time.Now().Unix() - 3

	resp, err := svc.Recommend(req)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.WaitTime < 3 || resp.WaitTime >= 5 {
		t.Errorf("wait_time = %v, want queue age of roughly 3s", resp.WaitTime)
	}
	if resp.CostTime < 0 || resp.CostTime > 5 {
		t.Errorf("cost_time = %v out of range", resp.CostTime)
	}

	// Without a queue stamp the wait is the fractional handling overhead.
	fresh := baseRequest(t, domain.RecommendOptions{
		LiveType:      domain.LiveSolo,
		Target:        domain.TargetScore,
		MusicID:       1,
		MusicDiff:     "master",
		Rarity4Config: maxedRarity4(),
		Algorithm:     domain.AlgDFS,
		Limit:         1,
		TimeoutMs:     5000,
	})
	fresh.CreateTs = 0

	resp, err = svc.Recommend(fresh)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.WaitTime <= 0 || resp.WaitTime >= 1 {
		t.Errorf("wait_time = %v, want sub-second handling overhead", resp.WaitTime)
	}
}

func TestRecommendOptionValidation(t *testing.T) {
	cases := []struct {
		name string
		opts domain.RecommendOptions
	}{
		{"skill with solo", domain.RecommendOptions{
			LiveType: domain.LiveSolo, Target: domain.TargetSkill, MusicID: 1, MusicDiff: "master"}},
		{"bonus without targets", domain.RecommendOptions{
			LiveType: domain.LiveMulti, Target: domain.TargetBonus, MusicID: 1, MusicDiff: "master"}},
		{"challenge without character", domain.RecommendOptions{
			LiveType: domain.LiveChallenge, Target: domain.TargetScore, MusicID: 1, MusicDiff: "master"}},
		{"bonus limit too large", domain.RecommendOptions{
			LiveType: domain.LiveMulti, Target: domain.TargetBonus, MusicID: 1, MusicDiff: "master",
			TargetBonusList: []float64{100}, Limit: 9}},
		{"fixed and excluded overlap", domain.RecommendOptions{
			LiveType: domain.LiveMulti, Target: domain.TargetScore, MusicID: 1, MusicDiff: "master",
			FixedCards: []uint{101}, ExcludedCards: []uint{101}, Limit: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.Recommend(baseRequest(t, tc.opts))
			if !errors.Is(err, domain.ErrInvalidOption) {
				t.Fatalf("err = %v, want ErrInvalidOption", err)
			}
		})
	}
}
