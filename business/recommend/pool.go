package recommend

import (
	"fmt"
	"sort"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
)

// cardPool is the realized candidate set of one request, partitioned by
// character since decks need five distinct characters. Fixed cards and fixed
// characters are resolved up front; fixed cards occupy the first deck slots.
type cardPool struct {
	characters  []uint
	byCharacter map[uint][]*effectiveCard

	fixedCards      []*effectiveCard
	fixedCharacters []uint // required characters beyond the fixed cards

	// Per-character admissible bounds for pruning.
	maxPower map[uint]int
	maxSkill map[uint]float64
	maxBonus map[uint]float64

	maxSupport float64
}

// wlBonusSlack over-estimates the deck-dependent world-bloom extras (support
// deck and distinct-attribute bonuses) for pruning.
func (p *cardPool) wlBonusSlack(evt *eventContext) float64 {
	return 5*p.maxSupport + evt.md.WorldBloomDiffAttrBonus(5)
}

// buildPool realizes the snapshot against the request and groups the result.
func buildPool(md *masterdata.Store, snap *domain.PlayerSnapshot, evt *eventContext,
	opts *domain.RecommendOptions) (*cardPool, error) {

	excluded := make(map[uint]bool, len(opts.ExcludedCards))
	for _, id := range opts.ExcludedCards {
		excluded[id] = true
	}
	fixedSet := make(map[uint]bool, len(opts.FixedCards))
	for _, id := range opts.FixedCards {
		if excluded[id] {
			return nil, fmt.Errorf("card %d is both fixed and excluded: %w", id, domain.ErrInvalidOption)
		}
		fixedSet[id] = true
	}

	p := &cardPool{
		byCharacter: make(map[uint][]*effectiveCard),
		maxPower:    make(map[uint]int),
		maxSkill:    make(map[uint]float64),
		maxBonus:    make(map[uint]float64),
	}

	fixedByID := make(map[uint]*effectiveCard, len(opts.FixedCards))
	for i := range snap.Cards {
		owned := &snap.Cards[i]
		if excluded[owned.CardID] {
			continue
		}
		forms, err := realizeOwned(md, snap, evt, opts, owned)
		if err != nil {
			return nil, err
		}
		for _, ec := range forms {
			if fixedSet[ec.cardID] {
				// Fixed cards are pinned to one effective form; trained wins.
				if cur := fixedByID[ec.cardID]; cur == nil || ec.image == domain.ImageSpecialTraining {
					fixedByID[ec.cardID] = ec
				}
				continue
			}
			p.byCharacter[ec.characterID] = append(p.byCharacter[ec.characterID], ec)
		}
	}

	fixedChars := make(map[uint]bool, 5)
	for _, id := range opts.FixedCards {
		ec, ok := fixedByID[id]
		if !ok {
			card := md.CardByID(id)
			if card == nil {
				return nil, fmt.Errorf("fixed card %d not in masterdata: %w", id, domain.ErrDataUnavailable)
			}
			return nil, fmt.Errorf("fixed card %d is not usable (not owned or disabled): %w", id, domain.ErrInvalidOption)
		}
		if fixedChars[ec.characterID] {
			return nil, fmt.Errorf("fixed cards share character %d: %w", ec.characterID, domain.ErrInvalidOption)
		}
		fixedChars[ec.characterID] = true
		p.fixedCards = append(p.fixedCards, ec)
		if ec.supportBonus > p.maxSupport {
			p.maxSupport = ec.supportBonus
		}
	}

	requiredChars := append([]uint(nil), opts.FixedCharacters...)
	if opts.ChallengeLiveCharacterID != 0 {
		found := false
		for _, c := range requiredChars {
			if c == opts.ChallengeLiveCharacterID {
				found = true
			}
		}
		if !found {
			requiredChars = append(requiredChars, opts.ChallengeLiveCharacterID)
		}
	}
	for _, c := range requiredChars {
		if fixedChars[c] {
			continue
		}
		if len(p.byCharacter[c]) == 0 {
			return nil, fmt.Errorf("no usable cards for required character %d: %w", c, domain.ErrInvalidOption)
		}
		p.fixedCharacters = append(p.fixedCharacters, c)
	}
	if len(p.fixedCards)+len(p.fixedCharacters) > 5 {
		return nil, fmt.Errorf("fixed cards and characters exceed five slots: %w", domain.ErrInvalidOption)
	}

	// Characters already consumed by fixed cards leave the free pool.
	for c := range fixedChars {
		delete(p.byCharacter, c)
	}

	for c, cards := range p.byCharacter {
		p.characters = append(p.characters, c)
		for _, ec := range cards {
			if ec.power > p.maxPower[c] {
				p.maxPower[c] = ec.power
			}
			s := ec.skillEnhanced
			if ec.skillCond == domain.SkillCondReference {
				s = ec.skillBase + ec.skillRefCap
			}
			if s > p.maxSkill[c] {
				p.maxSkill[c] = s
			}
			if ec.eventBonus > p.maxBonus[c] {
				p.maxBonus[c] = ec.eventBonus
			}
			if ec.supportBonus > p.maxSupport {
				p.maxSupport = ec.supportBonus
			}
		}
	}
	sort.Slice(p.characters, func(i, j int) bool { return p.characters[i] < p.characters[j] })

	return p, nil
}

// freeSlots is the number of deck positions not pinned by fixed cards.
func (p *cardPool) freeSlots() int { return 5 - len(p.fixedCards) }

// viable reports whether any full deck of five distinct characters exists.
func (p *cardPool) viable() bool {
	return len(p.fixedCards)+len(p.characters) >= 5 && len(p.fixedCharacters) <= p.freeSlots()
}

// requiredCharSet returns the free-pool characters that must appear.
func (p *cardPool) requiredCharSet() map[uint]bool {
	set := make(map[uint]bool, len(p.fixedCharacters))
	for _, c := range p.fixedCharacters {
		set[c] = true
	}
	return set
}
