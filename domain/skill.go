package domain

// SkillCondition is the activation condition of a skill's score-up effect.
type SkillCondition string

const (
	// SkillCondAny activates unconditionally.
	SkillCondAny SkillCondition = "any"
	// SkillCondSameUnit pays the enhanced rate only when all five deck
	// members share the card's unit.
	SkillCondSameUnit SkillCondition = "same_unit"
	// SkillCondSameAttr pays the enhanced rate only when all five deck
	// members share the card's attribute.
	SkillCondSameAttr SkillCondition = "same_attr"
	// SkillCondReference adds a share of the other four members' score-ups
	// (bloom-fes skills). The share is resolved against a concrete deck in
	// the scoring kernel, never earlier.
	SkillCondReference SkillCondition = "reference"
)

// SkillEffect is one skill level's numbers.
type SkillEffect struct {
	Level       int     `json:"level"`
	ScoreUpRate float64 `json:"score_up_rate"`
	// EnhancedScoreUpRate replaces ScoreUpRate when a same_unit/same_attr
	// condition is met. Zero for unconditional skills.
	EnhancedScoreUpRate float64 `json:"enhanced_score_up_rate"`
	// ReferenceCap bounds the score-up borrowed from the other members for
	// reference skills.
	ReferenceCap float64 `json:"reference_cap"`
}

// Skill is one row of the skills master table.
type Skill struct {
	ID        uint           `json:"id"`
	Condition SkillCondition `json:"condition"`
	Effects   []SkillEffect  `json:"effects"`
}

// EffectAt returns the effect row for the given skill level, clamped to the
// highest defined level.
func (s *Skill) EffectAt(level int) SkillEffect {
	if len(s.Effects) == 0 {
		return SkillEffect{}
	}
	for _, e := range s.Effects {
		if e.Level == level {
			return e
		}
	}
	return s.Effects[len(s.Effects)-1]
}

// MaxLevel is the highest defined skill level.
func (s *Skill) MaxLevel() int {
	if len(s.Effects) == 0 {
		return 1
	}
	return s.Effects[len(s.Effects)-1].Level
}
