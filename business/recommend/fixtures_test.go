package recommend

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
	"sekaiDeckRecommend/internal/repository/musicmeta"
	"sekaiDeckRecommend/internal/repository/playerdata"
	"sekaiDeckRecommend/pkg/config"
)

// Fixture world: characters 1..5 are light_sound, character 6 is idol.
// Cards 101..106 belong to characters 1..6, all rarity_4, skill ids 1..6.
// Max skill score-ups are 140,130,120,110,100,150 in card order. At full
// config (level 4, master rank 5, episodes, trained) each card's base power
// is 400+500+10+20+50 = 980.

const fixtureCards = `[
 {"id":101,"character_id":1,"unit":"light_sound","attr":"cool","rarity":"rarity_4","skill_id":1,"has_after_training":true,"release_at":1,"power_by_level":[100,200,300,400],"episode1_power_bonus":10,"episode2_power_bonus":20,"special_training_power_bonus":50},
 {"id":102,"character_id":2,"unit":"light_sound","attr":"happy","rarity":"rarity_4","skill_id":2,"has_after_training":true,"release_at":2,"power_by_level":[100,200,300,400],"episode1_power_bonus":10,"episode2_power_bonus":20,"special_training_power_bonus":50},
 {"id":103,"character_id":3,"unit":"light_sound","attr":"pure","rarity":"rarity_4","skill_id":3,"has_after_training":true,"release_at":3,"power_by_level":[100,200,300,400],"episode1_power_bonus":10,"episode2_power_bonus":20,"special_training_power_bonus":50},
 {"id":104,"character_id":4,"unit":"light_sound","attr":"cute","rarity":"rarity_4","skill_id":4,"has_after_training":true,"release_at":4,"power_by_level":[100,200,300,400],"episode1_power_bonus":10,"episode2_power_bonus":20,"special_training_power_bonus":50},
 {"id":105,"character_id":5,"unit":"light_sound","attr":"mysterious","rarity":"rarity_4","skill_id":5,"has_after_training":true,"release_at":5,"power_by_level":[100,200,300,400],"episode1_power_bonus":10,"episode2_power_bonus":20,"special_training_power_bonus":50},
 {"id":106,"character_id":6,"unit":"idol","attr":"cool","rarity":"rarity_4","skill_id":6,"has_after_training":true,"release_at":6,"power_by_level":[100,200,300,400],"episode1_power_bonus":10,"episode2_power_bonus":20,"special_training_power_bonus":50}
]`

const fixtureSkills = `[
 {"id":1,"condition":"any","effects":[{"level":1,"score_up_rate":80},{"level":4,"score_up_rate":140}]},
 {"id":2,"condition":"any","effects":[{"level":1,"score_up_rate":75},{"level":4,"score_up_rate":130}]},
 {"id":3,"condition":"any","effects":[{"level":1,"score_up_rate":70},{"level":4,"score_up_rate":120}]},
 {"id":4,"condition":"any","effects":[{"level":1,"score_up_rate":65},{"level":4,"score_up_rate":110}]},
 {"id":5,"condition":"any","effects":[{"level":1,"score_up_rate":60},{"level":4,"score_up_rate":100}]},
 {"id":6,"condition":"any","effects":[{"level":1,"score_up_rate":85},{"level":4,"score_up_rate":150}]}
]`

const fixtureRarities = `[
 {"rarity":"rarity_4","max_level":4,"max_skill_level":4,"master_rank_power_bonus":[0,100,200,300,400,500],"canvas_power_bonus":50},
 {"rarity":"rarity_2","max_level":2,"max_skill_level":2,"master_rank_power_bonus":[0,10,20,30,40,50],"canvas_power_bonus":10},
 {"rarity":"rarity_1","max_level":2,"max_skill_level":2,"master_rank_power_bonus":[0,5,10,15,20,25],"canvas_power_bonus":5}
]`

const fixtureCharacters = `[
 {"id":1,"unit":"light_sound"},{"id":2,"unit":"light_sound"},{"id":3,"unit":"light_sound"},
 {"id":4,"unit":"light_sound"},{"id":5,"unit":"light_sound"},{"id":6,"unit":"idol"}
]`

const fixtureEvents = `[{"id":1,"type":"marathon","unit":"light_sound","start_at":0,"end_at":0}]`

const fixtureEventDeckBonuses = `[{"event_id":1,"unit":"light_sound","bonus_rate":25}]`

const fixtureEventRarityBonuses = `[
 {"rarity":"rarity_4","master_rank":0,"bonus_rate":10},
 {"rarity":"rarity_4","master_rank":5,"bonus_rate":25}
]`

// Music 1 carries real slot weights; music 2 is nearly score-free so event
// points stay in the lowest bracket.
const fixtureMusicmetas = `[
 {"music_id":1,"difficulty":"master","music_time":120,"event_rate":100,"base_score":2.0,"base_score_auto":1.5,"skill_score_solo":[0.1,0.08,0.06,0.05,0.04,0.15],"skill_score_auto":[0.05,0.04,0.03,0.02,0.01,0.08],"skill_score_multi":[0.05,0.04,0.03,0.02,0.01,0.06],"fever_score":0.5,"fever_end_time":60,"tap_count":500},
 {"music_id":2,"difficulty":"master","music_time":90,"event_rate":100,"base_score":0.02,"base_score_auto":0.02,"skill_score_solo":[0,0,0,0,0,0],"skill_score_auto":[0,0,0,0,0,0],"skill_score_multi":[0,0,0,0,0,0],"fever_score":0,"fever_end_time":0,"tap_count":100}
]`

const fixtureUserdata = `{"userCards":[
 {"cardId":101,"level":1,"masterRank":0,"skillLevel":1,"specialTrainingStatus":"none","defaultImage":"original"},
 {"cardId":102,"level":1,"masterRank":0,"skillLevel":1,"specialTrainingStatus":"none","defaultImage":"original"},
 {"cardId":103,"level":1,"masterRank":0,"skillLevel":1,"specialTrainingStatus":"none","defaultImage":"original"},
 {"cardId":104,"level":1,"masterRank":0,"skillLevel":1,"specialTrainingStatus":"none","defaultImage":"original"},
 {"cardId":105,"level":1,"masterRank":0,"skillLevel":1,"specialTrainingStatus":"none","defaultImage":"original"},
 {"cardId":106,"level":1,"masterRank":0,"skillLevel":1,"specialTrainingStatus":"none","defaultImage":"original"}
]}`

func writeFixtureMasterdata(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tables := map[string]string{
		"cards":                 fixtureCards,
		"skills":                fixtureSkills,
		"cardRarities":          fixtureRarities,
		"gameCharacters":        fixtureCharacters,
		"events":                fixtureEvents,
		"eventDeckBonuses":      fixtureEventDeckBonuses,
		"eventRarityBonusRates": fixtureEventRarityBonuses,
	}
	for name, body := range tables {
		if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func writeFixtureMusicmetas(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "musicmetas.json")
	if err := os.WriteFile(path, []byte(fixtureMusicmetas), 0o644); err != nil {
		t.Fatalf("write musicmetas: %v", err)
	}
	return path
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	snaps, err := playerdata.NewCache(8)
	if err != nil {
		t.Fatalf("snapshot cache: %v", err)
	}
	return NewService(
		masterdata.NewManager(),
		musicmeta.NewManager(time.Hour),
		snaps,
		validator.New(),
		config.RecommendConfig{MaxTimeoutMs: 60000, SnapshotCacheSize: 8},
	)
}

// maxedRarity4 turns every rarity_4 card to its ceiling.
func maxedRarity4() *domain.CardConfig {
	return &domain.CardConfig{LevelMax: true, EpisodeRead: true, MasterMax: true, SkillMax: true}
}

func baseRequest(t *testing.T, opts domain.RecommendOptions) *domain.RecommendRequest {
	t.Helper()
	return &domain.RecommendRequest{
		CreateTs:           time.Now().Unix(),
		Region:             domain.RegionJP,
		MasterdataPath:     writeFixtureMasterdata(t),
		MasterdataUpdateTs: 1,
		MusicmetasPath:     writeFixtureMusicmetas(t),
		MusicmetasUpdateTs: 1,
		Userdata:           []byte(fixtureUserdata),
		Options:            opts,
	}
}

// loadFixtureWorld resolves the store, meta row and snapshot the way the
// facade would, for tests that drive the engine internals directly.
func loadFixtureWorld(t *testing.T, opts *domain.RecommendOptions) (*masterdata.Store, *domain.MusicMeta, *domain.PlayerSnapshot) {
	t.Helper()
	md, err := masterdata.NewManager().Get(domain.RegionJP, writeFixtureMasterdata(t), 1)
	if err != nil {
		t.Fatalf("load masterdata: %v", err)
	}
	mm, err := musicmeta.NewManager(time.Hour).Get(domain.RegionJP, writeFixtureMusicmetas(t), 1)
	if err != nil {
		t.Fatalf("load musicmetas: %v", err)
	}
	meta := mm.Row(opts.MusicID, opts.MusicDiff)
	if meta == nil {
		t.Fatalf("no meta row for music %d %s", opts.MusicID, opts.MusicDiff)
	}
	snaps, err := playerdata.NewCache(4)
	if err != nil {
		t.Fatalf("snapshot cache: %v", err)
	}
	snap, err := snaps.Snapshot("", []byte(fixtureUserdata), md)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return md, meta, snap
}
