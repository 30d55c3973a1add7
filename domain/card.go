package domain

// Unit is one of the game's bands, or piapro for virtual singers.
type Unit string

const (
	UnitLightSound    Unit = "light_sound"
	UnitIdol          Unit = "idol"
	UnitStreet        Unit = "street"
	UnitThemePark     Unit = "theme_park"
	UnitSchoolRefusal Unit = "school_refusal"
	UnitPiapro        Unit = "piapro"
	UnitNone          Unit = "none"
)

type CardAttr string

const (
	AttrCool       CardAttr = "cool"
	AttrHappy      CardAttr = "happy"
	AttrMysterious CardAttr = "mysterious"
	AttrCute       CardAttr = "cute"
	AttrPure       CardAttr = "pure"
)

type CardRarity string

const (
	Rarity1        CardRarity = "rarity_1"
	Rarity2        CardRarity = "rarity_2"
	Rarity3        CardRarity = "rarity_3"
	Rarity4        CardRarity = "rarity_4"
	RarityBirthday CardRarity = "rarity_birthday"
)

// Card is one row of the cards master table. Immutable after load.
type Card struct {
	ID          uint       `json:"id"`
	CharacterID uint       `json:"character_id"`
	Unit        Unit       `json:"unit"`
	SupportUnit Unit       `json:"support_unit"` // piapro cards only, UnitNone otherwise
	Attr        CardAttr   `json:"attr"`
	Rarity      CardRarity `json:"rarity"`
	SkillID     uint       `json:"skill_id"`
	// SpecialTrainingSkillID is set for bloom-fes cards whose trained form
	// carries a different skill. Zero for everything else.
	SpecialTrainingSkillID uint  `json:"special_training_skill_id"`
	HasAfterTraining       bool  `json:"has_after_training"`
	SupportsCanvas         bool  `json:"supports_canvas"`
	ReleaseAt              int64 `json:"release_at"`

	// PowerByLevel[l-1] is the base power at card level l.
	PowerByLevel []int `json:"power_by_level"`
	// Power bonuses for reading the card's two episodes.
	Episode1PowerBonus int `json:"episode1_power_bonus"`
	Episode2PowerBonus int `json:"episode2_power_bonus"`
	// Flat power added once special training is done.
	SpecialTrainingPowerBonus int `json:"special_training_power_bonus"`
}

// MaxLevel is the highest level this card can reach.
func (c *Card) MaxLevel() int { return len(c.PowerByLevel) }

// IsBloomFes reports whether the card has a second, trained skill form.
func (c *Card) IsBloomFes() bool { return c.SpecialTrainingSkillID != 0 }

// CardRarityInfo is one row of the cardRarities master table.
type CardRarityInfo struct {
	Rarity        CardRarity `json:"rarity"`
	MaxLevel      int        `json:"max_level"`
	MaxSkillLevel int        `json:"max_skill_level"`
	// MasterRankPowerBonus[r] is the flat power gained at master rank r (0..5).
	MasterRankPowerBonus [6]int `json:"master_rank_power_bonus"`
	// CanvasPowerBonus is the flat power gained when the card's mysekai
	// canvas is placed.
	CanvasPowerBonus int `json:"canvas_power_bonus"`
}

// GameCharacter is one row of the gameCharacters master table.
type GameCharacter struct {
	ID   uint `json:"id"`
	Unit Unit `json:"unit"`
}
