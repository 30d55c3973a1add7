package recommend

import (
	"fmt"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
)

// effectiveCard is one owned card after all config overrides and bonus
// tables have been applied. Everything the kernel reads per deck member is
// precomputed here so evaluation stays allocation-free.
type effectiveCard struct {
	card        *domain.Card
	cardID      uint
	characterID uint

	level      int
	masterRank int
	skillLevel int

	episode1Read bool
	episode2Read bool
	hasEpisodes  bool

	trained bool
	image   domain.CardImage
	canvas  bool

	power        int
	eventBonus   float64
	supportBonus float64

	skillCond     domain.SkillCondition
	skillBase     float64
	skillEnhanced float64
	skillRefCap   float64
}

// realizeCard applies the resolved config to one owned card for one image
// form and computes its power, skill and bonus numbers.
func realizeCard(md *masterdata.Store, snap *domain.PlayerSnapshot, evt *eventContext,
	card *domain.Card, owned *domain.OwnedCard, cfg domain.CardConfig, image domain.CardImage) (*effectiveCard, error) {

	rarity := md.RarityInfo(card.Rarity)
	if rarity == nil {
		return nil, fmt.Errorf("no rarity info for %s: %w", card.Rarity, domain.ErrDataUnavailable)
	}
	if card.MaxLevel() == 0 {
		return nil, fmt.Errorf("card %d has an empty level table: %w", card.ID, domain.ErrDataUnavailable)
	}

	ec := &effectiveCard{
		card:        card,
		cardID:      card.ID,
		characterID: card.CharacterID,
		level:       owned.Level,
		masterRank:  owned.MasterRank,
		skillLevel:  owned.SkillLevel,
		image:       image,
		hasEpisodes: card.Episode1PowerBonus > 0 || card.Episode2PowerBonus > 0,
	}

	if cfg.LevelMax {
		ec.level = card.MaxLevel()
	}
	if ec.level < 1 {
		ec.level = 1
	}
	if ec.level > card.MaxLevel() {
		ec.level = card.MaxLevel()
	}

	if cfg.MasterMax {
		ec.masterRank = 5
	}
	if ec.masterRank < 0 {
		ec.masterRank = 0
	}
	if ec.masterRank > 5 {
		ec.masterRank = 5
	}

	if cfg.SkillMax {
		ec.skillLevel = rarity.MaxSkillLevel
	}
	if ec.skillLevel < 1 {
		ec.skillLevel = 1
	}
	if ec.skillLevel > rarity.MaxSkillLevel {
		ec.skillLevel = rarity.MaxSkillLevel
	}

	ec.episode1Read = owned.Episode1Read || cfg.EpisodeRead
	ec.episode2Read = owned.Episode2Read || cfg.EpisodeRead
	ec.canvas = card.SupportsCanvas && (owned.CanvasBonus || cfg.Canvas)

	ec.trained = owned.AfterTrainingState == domain.TrainingDone
	if cfg.LevelMax && card.HasAfterTraining {
		ec.trained = true
	}
	if image == domain.ImageSpecialTraining && !ec.trained {
		return nil, fmt.Errorf("card %d trained image without special training: %w", card.ID, domain.ErrInvalidOption)
	}

	base := card.PowerByLevel[ec.level-1]
	base += rarity.MasterRankPowerBonus[ec.masterRank]
	if ec.episode1Read {
		base += card.Episode1PowerBonus
	}
	if ec.episode2Read {
		base += card.Episode2PowerBonus
	}
	if ec.trained {
		base += card.SpecialTrainingPowerBonus
	}
	if ec.canvas {
		base += rarity.CanvasPowerBonus
	}

	pct := snap.CharacterBonus[card.CharacterID] +
		snap.UnitBonus[card.Unit] +
		snap.AttrBonus[card.Attr]
	if card.SupportUnit != "" && card.SupportUnit != domain.UnitNone {
		pct += snap.UnitBonus[card.SupportUnit]
	}
	ec.power = base + int(float64(base)*pct/100)

	skillID := card.SkillID
	if image == domain.ImageSpecialTraining && card.IsBloomFes() {
		skillID = card.SpecialTrainingSkillID
	}
	skill := md.SkillByID(skillID)
	if skill == nil {
		return nil, fmt.Errorf("no skill %d for card %d: %w", skillID, card.ID, domain.ErrDataUnavailable)
	}
	effect := skill.EffectAt(ec.skillLevel)
	ec.skillCond = skill.Condition
	ec.skillBase = effect.ScoreUpRate
	ec.skillEnhanced = effect.EnhancedScoreUpRate
	ec.skillRefCap = effect.ReferenceCap
	if ec.skillEnhanced < ec.skillBase {
		ec.skillEnhanced = ec.skillBase
	}

	ec.eventBonus = evt.cardEventBonus(card, ec.masterRank)
	ec.supportBonus = evt.cardSupportBonus(card)

	return ec, nil
}

// realizeOwned expands one owned card into its effective forms. Bloom-fes
// cards whose training is done yield both image forms unless the request
// pins the owned default image.
func realizeOwned(md *masterdata.Store, snap *domain.PlayerSnapshot, evt *eventContext,
	opts *domain.RecommendOptions, owned *domain.OwnedCard) ([]*effectiveCard, error) {

	card := md.CardByID(owned.CardID)
	if card == nil {
		// Snapshot newer than masterdata; skip rather than fail the request.
		return nil, nil
	}

	cfg := opts.ConfigFor(card.ID, card.Rarity)
	if cfg.Disable {
		return nil, nil
	}

	images := make([]domain.CardImage, 0, 2)
	trained := owned.AfterTrainingState == domain.TrainingDone || (cfg.LevelMax && card.HasAfterTraining)
	switch {
	case opts.KeepAfterTrainingState:
		images = append(images, owned.DefaultImage)
	case card.IsBloomFes() && trained:
		images = append(images, domain.ImageOriginal, domain.ImageSpecialTraining)
	case trained:
		images = append(images, domain.ImageSpecialTraining)
	default:
		images = append(images, domain.ImageOriginal)
	}

	out := make([]*effectiveCard, 0, len(images))
	for _, img := range images {
		if img == domain.ImageSpecialTraining && !trained {
			img = domain.ImageOriginal
		}
		ec, err := realizeCard(md, snap, evt, card, owned, cfg, img)
		if err != nil {
			return nil, err
		}
		out = append(out, ec)
	}
	return out, nil
}
