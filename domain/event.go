package domain

type EventType string

const (
	EventMarathon   EventType = "marathon"
	EventCheerful   EventType = "cheerful_carnival"
	EventWorldBloom EventType = "world_bloom"
	EventOther      EventType = "other"
)

// Event is one row of the events master table.
type Event struct {
	ID      uint      `json:"id"`
	Type    EventType `json:"type"`
	Unit    Unit      `json:"unit"`
	StartAt int64     `json:"start_at"`
	EndAt   int64     `json:"end_at"`
}

// EventDeckBonus is one row of the eventDeckBonuses table. Unit and Attr act
// as match filters; an empty value is a wildcard. A row matching both unit
// and attribute carries the combined rate, so lookups take the single best
// matching row rather than summing.
type EventDeckBonus struct {
	EventID   uint     `json:"event_id"`
	Unit      Unit     `json:"unit"`
	Attr      CardAttr `json:"attr"`
	BonusRate float64  `json:"bonus_rate"`
}

// EventRarityBonusRate maps (rarity, master rank) to an additive event bonus.
type EventRarityBonusRate struct {
	Rarity     CardRarity `json:"rarity"`
	MasterRank int        `json:"master_rank"`
	BonusRate  float64    `json:"bonus_rate"`
}

// EventCard marks a card featured by an event, with its extra bonus.
type EventCard struct {
	EventID   uint    `json:"event_id"`
	CardID    uint    `json:"card_id"`
	BonusRate float64 `json:"bonus_rate"`
}

// WorldBloomChapter is a per-character sub-event of a world-bloom event.
type WorldBloomChapter struct {
	EventID     uint  `json:"event_id"`
	CharacterID uint  `json:"character_id"`
	ChapterNo   int   `json:"chapter_no"`
	StartAt     int64 `json:"start_at"`
	EndAt       int64 `json:"end_at"`
}

// WorldBloomSupportDeckBonus is the per-card support-deck contribution for
// world-bloom chapters, keyed by rarity.
type WorldBloomSupportDeckBonus struct {
	Rarity    CardRarity `json:"rarity"`
	BonusRate float64    `json:"bonus_rate"`
}

// WorldBloomDifferentAttrBonus rewards attribute variety inside the deck
// during world-bloom events: AttrCount distinct attributes yield BonusRate.
type WorldBloomDifferentAttrBonus struct {
	AttrCount int     `json:"attr_count"`
	BonusRate float64 `json:"bonus_rate"`
}
