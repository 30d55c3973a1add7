package domain

// CharacterRank maps a character's rank to its additive power bonus.
type CharacterRank struct {
	CharacterID    uint    `json:"character_id"`
	Rank           int     `json:"rank"`
	PowerBonusRate float64 `json:"power_bonus_rate"`
}

// AreaItemLevel is one level of one area item. Exactly one of the target
// fields is set; the bonus applies to every deck card matching it.
type AreaItemLevel struct {
	AreaItemID        uint     `json:"area_item_id"`
	Level             int      `json:"level"`
	TargetUnit        Unit     `json:"target_unit"`
	TargetAttr        CardAttr `json:"target_attr"`
	TargetCharacterID uint     `json:"target_character_id"`
	PowerBonusRate    float64  `json:"power_bonus_rate"`
}

// MysekaiGate boosts one unit's cards.
type MysekaiGate struct {
	ID   uint `json:"id"`
	Unit Unit `json:"unit"`
}

// MysekaiGateLevel is the per-level bonus of a mysekai gate.
type MysekaiGateLevel struct {
	GateID         uint    `json:"gate_id"`
	Level          int     `json:"level"`
	PowerBonusRate float64 `json:"power_bonus_rate"`
}
