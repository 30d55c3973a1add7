package domain

type LiveType string

const (
	LiveSolo      LiveType = "solo"
	LiveAuto      LiveType = "auto"
	LiveMulti     LiveType = "multi"
	LiveChallenge LiveType = "challenge"
)

type Target string

const (
	TargetScore Target = "score"
	TargetPower Target = "power"
	TargetSkill Target = "skill"
	TargetBonus Target = "bonus"
)

type Algorithm string

const (
	AlgDFS Algorithm = "dfs"
	AlgSA  Algorithm = "sa"
	AlgGA  Algorithm = "ga"
	AlgAll Algorithm = "all"
)

// ChooseStrategy resolves a random factor (skill activation order, bloom-fes
// reference share) to one deterministic value.
type ChooseStrategy string

const (
	ChooseMax      ChooseStrategy = "max"
	ChooseMin      ChooseStrategy = "min"
	ChooseAverage  ChooseStrategy = "average"
	ChooseSpecific ChooseStrategy = "specific"
)

// CardConfig overrides owned-card state for one rarity tier.
type CardConfig struct {
	Disable     bool `json:"disable"`
	LevelMax    bool `json:"level_max"`
	EpisodeRead bool `json:"episode_read"`
	MasterMax   bool `json:"master_max"`
	SkillMax    bool `json:"skill_max"`
	Canvas      bool `json:"canvas"`
}

// SingleCardConfig overrides the rarity config for one card.
type SingleCardConfig struct {
	CardID uint `json:"card_id" validate:"required"`
	CardConfig
}

// SaOptions tunes the simulated-annealing strategy.
type SaOptions struct {
	RunNum           int     `json:"run_num"`
	MaxNoImproveIter int     `json:"max_no_improve_iter"`
	StartTemp        float64 `json:"start_temp"`
	CoolingRate      float64 `json:"cooling_rate"`
	IterPerTemp      int     `json:"iter_per_temp"`
}

// GaOptions tunes the genetic-algorithm strategy.
type GaOptions struct {
	PopulationSize int     `json:"population_size"`
	EliteCount     int     `json:"elite_count"`
	MutationRate   float64 `json:"mutation_rate"`
	MaxGenerations int     `json:"max_generations"`
}

// RecommendOptions is the flat option dict of one recommend request.
type RecommendOptions struct {
	LiveType LiveType `json:"live_type" validate:"required,oneof=solo auto multi challenge"`
	Target   Target   `json:"target" validate:"required,oneof=score power skill bonus"`

	// Real event context.
	EventID               uint `json:"event_id"`
	WorldBloomCharacterID uint `json:"world_bloom_character_id"`
	WorldBloomEventTurn   int  `json:"world_bloom_event_turn" validate:"omitempty,oneof=1 2"`

	// Synthetic event context (no event id): a simulated event matching the
	// given unit and attribute.
	EventType EventType `json:"event_type" validate:"omitempty,oneof=marathon cheerful_carnival world_bloom other"`
	EventUnit Unit      `json:"event_unit"`
	EventAttr CardAttr  `json:"event_attr"`

	ChallengeLiveCharacterID uint `json:"challenge_live_character_id"`

	MusicID   uint   `json:"music_id" validate:"required"`
	MusicDiff string `json:"music_diff" validate:"required,oneof=easy normal hard expert master append"`

	FixedCards      []uint `json:"fixed_cards" validate:"max=5,unique"`
	FixedCharacters []uint `json:"fixed_characters" validate:"max=5,unique"`
	ExcludedCards   []uint `json:"excluded_cards"`

	Rarity1Config        *CardConfig        `json:"rarity_1_config"`
	Rarity2Config        *CardConfig        `json:"rarity_2_config"`
	Rarity3Config        *CardConfig        `json:"rarity_3_config"`
	Rarity4Config        *CardConfig        `json:"rarity_4_config"`
	RarityBirthdayConfig *CardConfig        `json:"rarity_birthday_config"`
	SingleCardConfigs    []SingleCardConfig `json:"single_card_configs"`

	Algorithm Algorithm `json:"algorithm" validate:"omitempty,oneof=dfs sa ga all"`
	TimeoutMs int       `json:"timeout_ms" validate:"min=0"`
	Limit     int       `json:"limit" validate:"min=0,max=100"`

	KeepAfterTrainingState bool `json:"keep_after_training_state"`

	SkillReferenceChooseStrategy ChooseStrategy `json:"skill_reference_choose_strategy" validate:"omitempty,oneof=max min average"`
	SkillOrderChooseStrategy     ChooseStrategy `json:"skill_order_choose_strategy" validate:"omitempty,oneof=max min average specific"`
	SpecificSkillOrder           []int          `json:"specific_skill_order"`

	MultiLiveTeammatePower     int     `json:"multi_live_teammate_power" validate:"min=0"`
	MultiLiveTeammateScoreUp   float64 `json:"multi_live_teammate_score_up" validate:"min=0"`
	MultiLiveScoreUpLowerBound float64 `json:"multi_live_score_up_lower_bound" validate:"min=0"`

	TargetBonusList []float64 `json:"target_bonus_list"`

	BestSkillAsLeader bool `json:"best_skill_as_leader"`

	// Boost indexes the published live-bonus multiplier table (0..10).
	Boost int `json:"boost" validate:"min=0,max=10"`

	// Seed fixes the PRNG of the stochastic strategies; 0 draws from the
	// clock.
	Seed int64 `json:"seed"`

	SaOptions *SaOptions `json:"sa_options"`
	GaOptions *GaOptions `json:"ga_options"`
}

// DefaultCardConfig returns the engine defaults used when a rarity config is
// omitted: low rarities are assumed trivially maxable, high rarities are
// taken as owned.
func DefaultCardConfig(r CardRarity) CardConfig {
	switch r {
	case Rarity1, Rarity2:
		return CardConfig{LevelMax: true, EpisodeRead: true, MasterMax: true, SkillMax: true}
	default:
		return CardConfig{}
	}
}

// ConfigFor resolves the effective config for a card: single-card override
// first, then the rarity config, then the defaults.
func (o *RecommendOptions) ConfigFor(cardID uint, r CardRarity) CardConfig {
	for i := range o.SingleCardConfigs {
		if o.SingleCardConfigs[i].CardID == cardID {
			return o.SingleCardConfigs[i].CardConfig
		}
	}
	var cfg *CardConfig
	switch r {
	case Rarity1:
		cfg = o.Rarity1Config
	case Rarity2:
		cfg = o.Rarity2Config
	case Rarity3:
		cfg = o.Rarity3Config
	case Rarity4:
		cfg = o.Rarity4Config
	case RarityBirthday:
		cfg = o.RarityBirthdayConfig
	}
	if cfg != nil {
		return *cfg
	}
	return DefaultCardConfig(r)
}
