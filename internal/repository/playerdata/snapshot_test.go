package playerdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
)

const snapshotBody = `{
 "userCards":[
  {"cardId":101,"level":30,"masterRank":2,"skillLevel":3,"episode1Read":true,"specialTrainingStatus":"done","defaultImage":"special_training"},
  {"cardId":102,"level":1}
 ],
 "userCanvasBonuses":[{"cardId":101}],
 "userAreaItems":[
  {"areaItemId":1,"level":2},
  {"areaItemId":2,"level":1},
  {"areaItemId":3,"level":1},
  {"areaItemId":9,"level":9}
 ],
 "userCharacters":[{"characterId":1,"characterRank":40}],
 "userMysekaiGates":[{"mysekaiGateId":1,"level":3}],
 "userMysekaiFixtureBonuses":[
  {"characterId":1,"powerBonusRate":1.0},
  {"characterId":1,"powerBonusRate":0.5}
 ]
}`

func testStore(t *testing.T) *masterdata.Store {
	t.Helper()
	dir := t.TempDir()
	tables := map[string]string{
		"cards":          `[{"id":101,"character_id":1,"unit":"light_sound","attr":"cool","rarity":"rarity_4","skill_id":1,"power_by_level":[100]}]`,
		"skills":         `[{"id":1,"effects":[{"level":1,"score_up_rate":40}]}]`,
		"cardRarities":   `[{"rarity":"rarity_4","max_level":60,"max_skill_level":4,"master_rank_power_bonus":[0,100,200,300,400,500]}]`,
		"gameCharacters": `[{"id":1,"unit":"light_sound"}]`,
		"characterRanks": `[{"character_id":1,"rank":40,"power_bonus_rate":4.0}]`,
		"areaItemLevels": `[
		 {"area_item_id":1,"level":2,"target_character_id":1,"power_bonus_rate":2.0},
		 {"area_item_id":2,"level":1,"target_unit":"light_sound","power_bonus_rate":1.0},
		 {"area_item_id":3,"level":1,"target_attr":"cool","power_bonus_rate":0.5}
		]`,
		"mysekaiGates":      `[{"id":1,"unit":"light_sound"}]`,
		"mysekaiGateLevels": `[{"gate_id":1,"level":3,"power_bonus_rate":3.0}]`,
	}
	for name, body := range tables {
		if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	md, err := masterdata.NewManager().Get(domain.RegionJP, dir, 1)
	if err != nil {
		t.Fatalf("load masterdata: %v", err)
	}
	return md
}

func TestParse(t *testing.T) {
	raw, err := Parse([]byte(snapshotBody))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if raw.Hash == "" {
		t.Error("empty hash")
	}
	if len(raw.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(raw.Cards))
	}

	c := raw.Cards[0]
	if c.CardID != 101 || c.Level != 30 || c.MasterRank != 2 || c.SkillLevel != 3 {
		t.Errorf("card 101 = %+v", c)
	}
	if !c.Episode1Read || c.Episode2Read {
		t.Errorf("episodes = %v/%v, want true/false", c.Episode1Read, c.Episode2Read)
	}
	if c.AfterTrainingState != domain.TrainingDone || c.DefaultImage != domain.ImageSpecialTraining {
		t.Errorf("training state = %s image = %s", c.AfterTrainingState, c.DefaultImage)
	}
	if !c.CanvasBonus {
		t.Error("canvas bonus not folded onto card 101")
	}

	// Absent fields default.
	c2 := raw.Cards[1]
	if c2.AfterTrainingState != domain.TrainingNone || c2.DefaultImage != domain.ImageOriginal || c2.CanvasBonus {
		t.Errorf("card 102 defaults = %+v", c2)
	}
}

func TestParseMissingUserCards(t *testing.T) {
	if _, err := Parse([]byte(`{"userAreaItems":[]}`)); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
	if _, err := Parse([]byte(`{"userCards":{}}`)); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("non-array err = %v, want ErrDataUnavailable", err)
	}
}

func TestMaterializeFoldsBonuses(t *testing.T) {
	raw, err := Parse([]byte(snapshotBody))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	snap := Materialize(raw, testStore(t))

	// Character 1: area item 2.0 + rank 4.0 + fixtures 1.5.
	if got := snap.CharacterBonus[1]; got != 7.5 {
		t.Errorf("character bonus = %v, want 7.5", got)
	}
	// Unit: area item 1.0 + gate 3.0.
	if got := snap.UnitBonus[domain.UnitLightSound]; got != 4.0 {
		t.Errorf("unit bonus = %v, want 4.0", got)
	}
	if got := snap.AttrBonus[domain.AttrCool]; got != 0.5 {
		t.Errorf("attr bonus = %v, want 0.5", got)
	}
	// Area item 9 has no masterdata row and contributes nothing.
	if len(snap.UnitBonus) != 1 {
		t.Errorf("unit bonuses = %+v, want light_sound only", snap.UnitBonus)
	}
	if snap.CharacterRank[1] != 40 {
		t.Errorf("character rank = %d, want 40", snap.CharacterRank[1])
	}
}

func TestCacheResolution(t *testing.T) {
	cache, err := NewCache(4)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	md := testStore(t)

	hash, err := cache.Put([]byte(snapshotBody))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	byHash, err := cache.Snapshot(hash, nil, md)
	if err != nil {
		t.Fatalf("snapshot by hash: %v", err)
	}
	if byHash.Hash != hash {
		t.Errorf("hash = %s, want %s", byHash.Hash, hash)
	}

	// Same (hash, store) resolves to the cached materialization.
	again, err := cache.Snapshot(hash, nil, md)
	if err != nil || again != byHash {
		t.Errorf("second snapshot = %p (%v), want cached %p", again, err, byHash)
	}

	// Inline bytes work without a prior Put.
	fresh, err := NewCache(4)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	inline, err := fresh.Snapshot("", []byte(snapshotBody), md)
	if err != nil {
		t.Fatalf("snapshot inline: %v", err)
	}
	if inline.Hash != hash {
		t.Errorf("inline hash = %s, want %s", inline.Hash, hash)
	}

	if _, err := fresh.Snapshot("deadbeef", nil, md); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("unknown hash err = %v, want ErrDataUnavailable", err)
	}
	if _, err := fresh.Snapshot("", nil, md); !errors.Is(err, domain.ErrInvalidOption) {
		t.Errorf("empty request err = %v, want ErrInvalidOption", err)
	}
}
