package masterdata

import (
	"sekaiDeckRecommend/domain"
)

// Store is one region's master data at one version. Read-only after load;
// requests capture the pointer once and never observe a partially loaded
// snapshot.
type Store struct {
	Region  domain.Region
	Version int64

	cards      map[uint]*domain.Card
	skills     map[uint]*domain.Skill
	rarities   map[domain.CardRarity]*domain.CardRarityInfo
	characters map[uint]*domain.GameCharacter

	events             map[uint]*domain.Event
	eventDeckBonuses   map[uint][]domain.EventDeckBonus
	eventRarityBonuses map[rarityRank]float64
	eventCards         map[uint]map[uint]float64
	wlChapters         map[uint]map[uint]*domain.WorldBloomChapter
	wlSupportBonuses   map[domain.CardRarity]float64
	wlDiffAttrBonuses  map[int]float64

	characterRankBonuses map[uint]map[int]float64
	areaItemLevels       map[areaItemLevelKey]*domain.AreaItemLevel
	mysekaiGates         map[uint]*domain.MysekaiGate
	mysekaiGateLevels    map[gateLevelKey]float64

	cardsByCharacter map[uint][]*domain.Card
}

type rarityRank struct {
	rarity domain.CardRarity
	rank   int
}

type areaItemLevelKey struct {
	itemID uint
	level  int
}

type gateLevelKey struct {
	gateID uint
	level  int
}

func (s *Store) CardByID(id uint) *domain.Card { return s.cards[id] }

func (s *Store) SkillByID(id uint) *domain.Skill { return s.skills[id] }

func (s *Store) RarityInfo(r domain.CardRarity) *domain.CardRarityInfo { return s.rarities[r] }

func (s *Store) CharacterByID(id uint) *domain.GameCharacter { return s.characters[id] }

func (s *Store) EventByID(id uint) *domain.Event { return s.events[id] }

// CardsForCharacter returns the character's cards in release order.
func (s *Store) CardsForCharacter(characterID uint) []*domain.Card {
	return s.cardsByCharacter[characterID]
}

// EventDeckBonuses returns the unit/attribute bonus rows of an event.
func (s *Store) EventDeckBonuses(eventID uint) []domain.EventDeckBonus {
	return s.eventDeckBonuses[eventID]
}

// EventRarityBonus returns the (rarity, master rank) event bonus, clamping
// the rank into the defined range.
func (s *Store) EventRarityBonus(r domain.CardRarity, masterRank int) float64 {
	if masterRank < 0 {
		masterRank = 0
	}
	for mr := masterRank; mr >= 0; mr-- {
		if v, ok := s.eventRarityBonuses[rarityRank{r, mr}]; ok {
			return v
		}
	}
	return 0
}

// EventCardBonus returns the featured-card bonus of the event, 0 when the
// card is not featured.
func (s *Store) EventCardBonus(eventID, cardID uint) float64 {
	return s.eventCards[eventID][cardID]
}

// WorldBloomChapter returns the chapter of the given character, or nil.
func (s *Store) WorldBloomChapter(eventID, characterID uint) *domain.WorldBloomChapter {
	return s.wlChapters[eventID][characterID]
}

// WorldBloomSupportBonus is the per-card support-deck contribution by rarity.
func (s *Store) WorldBloomSupportBonus(r domain.CardRarity) float64 {
	return s.wlSupportBonuses[r]
}

// WorldBloomDiffAttrBonus is the deck bonus for fielding attrCount distinct
// attributes during a world-bloom event.
func (s *Store) WorldBloomDiffAttrBonus(attrCount int) float64 {
	return s.wlDiffAttrBonuses[attrCount]
}

// CharacterRankBonus returns the additive power bonus of a character at the
// given rank, falling back to the highest defined rank below it.
func (s *Store) CharacterRankBonus(characterID uint, rank int) float64 {
	ranks := s.characterRankBonuses[characterID]
	if ranks == nil {
		return 0
	}
	best := 0.0
	bestRank := -1
	for r, v := range ranks {
		if r <= rank && r > bestRank {
			best, bestRank = v, r
		}
	}
	return best
}

// AreaItemLevel returns the row for (item, level), or nil.
func (s *Store) AreaItemLevel(itemID uint, level int) *domain.AreaItemLevel {
	return s.areaItemLevels[areaItemLevelKey{itemID, level}]
}

// MysekaiGateUnit returns the unit a gate boosts, UnitNone when unknown.
func (s *Store) MysekaiGateUnit(gateID uint) domain.Unit {
	if g := s.mysekaiGates[gateID]; g != nil {
		return g.Unit
	}
	return domain.UnitNone
}

// MysekaiGateBonus returns the power bonus of a gate at the given level.
func (s *Store) MysekaiGateBonus(gateID uint, level int) float64 {
	return s.mysekaiGateLevels[gateLevelKey{gateID, level}]
}
