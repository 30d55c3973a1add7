package domain

// AfterTrainingState of an owned card.
type AfterTrainingState string

const (
	TrainingNone  AfterTrainingState = "none"
	TrainingDoing AfterTrainingState = "doing"
	TrainingDone  AfterTrainingState = "done"
)

// CardImage selects which art (and for bloom-fes cards which skill form) a
// card is played with.
type CardImage string

const (
	ImageOriginal        CardImage = "original"
	ImageSpecialTraining CardImage = "special_training"
)

// OwnedCard is one card of a player snapshot.
type OwnedCard struct {
	CardID             uint               `json:"card_id"`
	Level              int                `json:"level"`
	MasterRank         int                `json:"master_rank"`
	SkillLevel         int                `json:"skill_level"`
	Episode1Read       bool               `json:"episode1_read"`
	Episode2Read       bool               `json:"episode2_read"`
	AfterTrainingState AfterTrainingState `json:"after_training_state"`
	DefaultImage       CardImage          `json:"default_image"`
	CanvasBonus        bool               `json:"canvas_bonus"`
}

// PlayerSnapshot is the normalized, request-scoped view of one player. It is
// derived once per uploaded snapshot and never mutated afterwards; the
// per-character/unit/attribute tables pre-aggregate every out-of-deck power
// source (area items, character ranks, mysekai gates and fixtures).
type PlayerSnapshot struct {
	Hash  string
	Cards []OwnedCard

	// Additive power bonus percentages.
	CharacterBonus map[uint]float64
	UnitBonus      map[Unit]float64
	AttrBonus      map[CardAttr]float64

	CharacterRank map[uint]int
}

// OwnedByID returns the owned card with the given id, or nil.
func (s *PlayerSnapshot) OwnedByID(cardID uint) *OwnedCard {
	for i := range s.Cards {
		if s.Cards[i].CardID == cardID {
			return &s.Cards[i]
		}
	}
	return nil
}
