package masterdata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"

	"sekaiDeckRecommend/domain"
)

// required tables; the loader fails when any of them is missing.
var requiredTables = []string{"cards", "skills", "cardRarities", "gameCharacters"}

// load reads every table of one region's masterdata directory into a Store.
func load(region domain.Region, dir string, version int64) (*Store, error) {
	s := &Store{
		Region:  region,
		Version: version,

		cards:      make(map[uint]*domain.Card),
		skills:     make(map[uint]*domain.Skill),
		rarities:   make(map[domain.CardRarity]*domain.CardRarityInfo),
		characters: make(map[uint]*domain.GameCharacter),

		events:             make(map[uint]*domain.Event),
		eventDeckBonuses:   make(map[uint][]domain.EventDeckBonus),
		eventRarityBonuses: make(map[rarityRank]float64),
		eventCards:         make(map[uint]map[uint]float64),
		wlChapters:         make(map[uint]map[uint]*domain.WorldBloomChapter),
		wlSupportBonuses:   make(map[domain.CardRarity]float64),
		wlDiffAttrBonuses:  make(map[int]float64),

		characterRankBonuses: make(map[uint]map[int]float64),
		areaItemLevels:       make(map[areaItemLevelKey]*domain.AreaItemLevel),
		mysekaiGates:         make(map[uint]*domain.MysekaiGate),
		mysekaiGateLevels:    make(map[gateLevelKey]float64),

		cardsByCharacter: make(map[uint][]*domain.Card),
	}

	for _, name := range requiredTables {
		if _, err := os.Stat(filepath.Join(dir, name+".json")); err != nil {
			return nil, fmt.Errorf("masterdata table %s for %s: %w", name, region, domain.ErrDataUnavailable)
		}
	}

	type tableLoader struct {
		name string
		fn   func(rows gjson.Result)
	}
	tables := []tableLoader{
		{"cards", s.loadCards},
		{"skills", s.loadSkills},
		{"cardRarities", s.loadRarities},
		{"gameCharacters", s.loadCharacters},
		{"events", s.loadEvents},
		{"eventDeckBonuses", s.loadEventDeckBonuses},
		{"eventRarityBonusRates", s.loadEventRarityBonuses},
		{"eventCards", s.loadEventCards},
		{"worldBlooms", s.loadWorldBlooms},
		{"worldBloomSupportDeckBonuses", s.loadWLSupportBonuses},
		{"worldBloomDifferentAttributeBonuses", s.loadWLDiffAttrBonuses},
		{"characterRanks", s.loadCharacterRanks},
		{"areaItemLevels", s.loadAreaItemLevels},
		{"mysekaiGates", s.loadMysekaiGates},
		{"mysekaiGateLevels", s.loadMysekaiGateLevels},
	}

	for _, t := range tables {
		data, err := os.ReadFile(filepath.Join(dir, t.name+".json"))
		if err != nil {
			if os.IsNotExist(err) {
				continue // optional table
			}
			return nil, fmt.Errorf("read masterdata table %s: %w", t.name, err)
		}
		parsed := gjson.ParseBytes(data)
		if !parsed.IsArray() {
			return nil, fmt.Errorf("masterdata table %s is not a JSON array: %w", t.name, domain.ErrDataUnavailable)
		}
		t.fn(parsed)
	}

	for cid := range s.cardsByCharacter {
		cards := s.cardsByCharacter[cid]
		sort.Slice(cards, func(i, j int) bool { return cards[i].ReleaseAt < cards[j].ReleaseAt })
	}

	return s, nil
}

func (s *Store) loadCards(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		c := &domain.Card{
			ID:                     uint(r.Get("id").Uint()),
			CharacterID:            uint(r.Get("character_id").Uint()),
			Unit:                   domain.Unit(r.Get("unit").String()),
			SupportUnit:            domain.UnitNone,
			Attr:                   domain.CardAttr(r.Get("attr").String()),
			Rarity:                 domain.CardRarity(r.Get("rarity").String()),
			SkillID:                uint(r.Get("skill_id").Uint()),
			SpecialTrainingSkillID: uint(r.Get("special_training_skill_id").Uint()),
			HasAfterTraining:       r.Get("has_after_training").Bool(),
			SupportsCanvas:         r.Get("supports_canvas").Bool(),
			ReleaseAt:              r.Get("release_at").Int(),

			Episode1PowerBonus:        int(r.Get("episode1_power_bonus").Int()),
			Episode2PowerBonus:        int(r.Get("episode2_power_bonus").Int()),
			SpecialTrainingPowerBonus: int(r.Get("special_training_power_bonus").Int()),
		}
		if su := r.Get("support_unit").String(); su != "" {
			c.SupportUnit = domain.Unit(su)
		}
		for _, p := range r.Get("power_by_level").Array() {
			c.PowerByLevel = append(c.PowerByLevel, int(p.Int()))
		}
		s.cards[c.ID] = c
		s.cardsByCharacter[c.CharacterID] = append(s.cardsByCharacter[c.CharacterID], c)
		return true
	})
}

func (s *Store) loadSkills(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		sk := &domain.Skill{
			ID:        uint(r.Get("id").Uint()),
			Condition: domain.SkillCondition(r.Get("condition").String()),
		}
		if sk.Condition == "" {
			sk.Condition = domain.SkillCondAny
		}
		for _, e := range r.Get("effects").Array() {
			sk.Effects = append(sk.Effects, domain.SkillEffect{
				Level:               int(e.Get("level").Int()),
				ScoreUpRate:         e.Get("score_up_rate").Float(),
				EnhancedScoreUpRate: e.Get("enhanced_score_up_rate").Float(),
				ReferenceCap:        e.Get("reference_cap").Float(),
			})
		}
		sort.Slice(sk.Effects, func(i, j int) bool { return sk.Effects[i].Level < sk.Effects[j].Level })
		s.skills[sk.ID] = sk
		return true
	})
}

func (s *Store) loadRarities(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		info := &domain.CardRarityInfo{
			Rarity:           domain.CardRarity(r.Get("rarity").String()),
			MaxLevel:         int(r.Get("max_level").Int()),
			MaxSkillLevel:    int(r.Get("max_skill_level").Int()),
			CanvasPowerBonus: int(r.Get("canvas_power_bonus").Int()),
		}
		for i, b := range r.Get("master_rank_power_bonus").Array() {
			if i < len(info.MasterRankPowerBonus) {
				info.MasterRankPowerBonus[i] = int(b.Int())
			}
		}
		s.rarities[info.Rarity] = info
		return true
	})
}

func (s *Store) loadCharacters(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		c := &domain.GameCharacter{
			ID:   uint(r.Get("id").Uint()),
			Unit: domain.Unit(r.Get("unit").String()),
		}
		s.characters[c.ID] = c
		return true
	})
}

func (s *Store) loadEvents(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		e := &domain.Event{
			ID:      uint(r.Get("id").Uint()),
			Type:    domain.EventType(r.Get("type").String()),
			Unit:    domain.Unit(r.Get("unit").String()),
			StartAt: r.Get("start_at").Int(),
			EndAt:   r.Get("end_at").Int(),
		}
		s.events[e.ID] = e
		return true
	})
}

func (s *Store) loadEventDeckBonuses(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		b := domain.EventDeckBonus{
			EventID:   uint(r.Get("event_id").Uint()),
			Unit:      domain.Unit(r.Get("unit").String()),
			Attr:      domain.CardAttr(r.Get("attr").String()),
			BonusRate: r.Get("bonus_rate").Float(),
		}
		s.eventDeckBonuses[b.EventID] = append(s.eventDeckBonuses[b.EventID], b)
		return true
	})
}

func (s *Store) loadEventRarityBonuses(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		key := rarityRank{
			rarity: domain.CardRarity(r.Get("rarity").String()),
			rank:   int(r.Get("master_rank").Int()),
		}
		s.eventRarityBonuses[key] = r.Get("bonus_rate").Float()
		return true
	})
}

func (s *Store) loadEventCards(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		eventID := uint(r.Get("event_id").Uint())
		if s.eventCards[eventID] == nil {
			s.eventCards[eventID] = make(map[uint]float64)
		}
		s.eventCards[eventID][uint(r.Get("card_id").Uint())] = r.Get("bonus_rate").Float()
		return true
	})
}

func (s *Store) loadWorldBlooms(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		ch := &domain.WorldBloomChapter{
			EventID:     uint(r.Get("event_id").Uint()),
			CharacterID: uint(r.Get("character_id").Uint()),
			ChapterNo:   int(r.Get("chapter_no").Int()),
			StartAt:     r.Get("start_at").Int(),
			EndAt:       r.Get("end_at").Int(),
		}
		if s.wlChapters[ch.EventID] == nil {
			s.wlChapters[ch.EventID] = make(map[uint]*domain.WorldBloomChapter)
		}
		s.wlChapters[ch.EventID][ch.CharacterID] = ch
		return true
	})
}

func (s *Store) loadWLSupportBonuses(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		s.wlSupportBonuses[domain.CardRarity(r.Get("rarity").String())] = r.Get("bonus_rate").Float()
		return true
	})
}

func (s *Store) loadWLDiffAttrBonuses(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		s.wlDiffAttrBonuses[int(r.Get("attr_count").Int())] = r.Get("bonus_rate").Float()
		return true
	})
}

func (s *Store) loadCharacterRanks(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		cid := uint(r.Get("character_id").Uint())
		if s.characterRankBonuses[cid] == nil {
			s.characterRankBonuses[cid] = make(map[int]float64)
		}
		s.characterRankBonuses[cid][int(r.Get("rank").Int())] = r.Get("power_bonus_rate").Float()
		return true
	})
}

func (s *Store) loadAreaItemLevels(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		l := &domain.AreaItemLevel{
			AreaItemID:        uint(r.Get("area_item_id").Uint()),
			Level:             int(r.Get("level").Int()),
			TargetUnit:        domain.Unit(r.Get("target_unit").String()),
			TargetAttr:        domain.CardAttr(r.Get("target_attr").String()),
			TargetCharacterID: uint(r.Get("target_character_id").Uint()),
			PowerBonusRate:    r.Get("power_bonus_rate").Float(),
		}
		s.areaItemLevels[areaItemLevelKey{l.AreaItemID, l.Level}] = l
		return true
	})
}

func (s *Store) loadMysekaiGates(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		g := &domain.MysekaiGate{
			ID:   uint(r.Get("id").Uint()),
			Unit: domain.Unit(r.Get("unit").String()),
		}
		s.mysekaiGates[g.ID] = g
		return true
	})
}

func (s *Store) loadMysekaiGateLevels(rows gjson.Result) {
	rows.ForEach(func(_, r gjson.Result) bool {
		key := gateLevelKey{uint(r.Get("gate_id").Uint()), int(r.Get("level").Int())}
		s.mysekaiGateLevels[key] = r.Get("power_bonus_rate").Float()
		return true
	})
}
