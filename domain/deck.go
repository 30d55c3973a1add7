package domain

// RecommendedCard is one member of a returned deck, in its effective state.
type RecommendedCard struct {
	CardID       uint      `json:"card_id"`
	Level        int       `json:"level"`
	SkillLevel   int       `json:"skill_level"`
	MasterRank   int       `json:"master_rank"`
	DefaultImage CardImage `json:"default_image"`
	// nil when the card's rarity has no episodes.
	Episode1Read   *bool   `json:"episode1_read"`
	Episode2Read   *bool   `json:"episode2_read"`
	EventBonusRate float64 `json:"event_bonus_rate"`
	SkillScoreUp   float64 `json:"skill_score_up"`
	HasCanvasBonus bool    `json:"has_canvas_bonus"`

	CharacterID uint `json:"-"`
}

// RecommendedDeck is one team of five with its kernel metrics.
type RecommendedDeck struct {
	Cards []RecommendedCard `json:"cards"`

	LiveScore            float64 `json:"live_score"`
	Score                int64   `json:"score"`
	EventBonusRate       float64 `json:"event_bonus_rate"`
	SupportDeckBonusRate float64 `json:"support_deck_bonus_rate"`
	MultiLiveScoreUp     float64 `json:"multi_live_score_up"`
	TotalPower           int     `json:"total_power"`

	// Algorithms that produced this deck (algorithm=all may list several).
	Algorithms []Algorithm `json:"algs,omitempty"`
}

// RecommendResult is the payload of a successful recommend response.
type RecommendResult struct {
	Decks []RecommendedDeck `json:"decks"`
}
