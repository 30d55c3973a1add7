package recommend

import (
	"fmt"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
)

// Synthetic events (unit+attr recommend mode) use the game's standard rates:
// matching both the unit and the attribute pays the combined rate, matching
// one pays the base rate.
const (
	syntheticSingleMatchBonus = 25.0
	syntheticDoubleMatchBonus = 50.0
)

// eventContext is the resolved bonus environment of one request. It is built
// once by the facade and read by realization and the scoring kernel.
type eventContext struct {
	active    bool
	eventID   uint
	eventType domain.EventType

	deckBonuses []domain.EventDeckBonus

	worldBloom    bool
	wlCharacterID uint

	md *masterdata.Store
}

// buildEventContext resolves the request's event: a real event id, a
// synthetic unit+attr event, a simulated world-bloom chapter, or none.
func buildEventContext(md *masterdata.Store, opts *domain.RecommendOptions) (*eventContext, error) {
	if opts.EventID != 0 {
		event := md.EventByID(opts.EventID)
		if event == nil {
			return nil, fmt.Errorf("event %d not in masterdata: %w", opts.EventID, domain.ErrDataUnavailable)
		}
		ctx := &eventContext{
			active:      true,
			eventID:     event.ID,
			eventType:   event.Type,
			deckBonuses: md.EventDeckBonuses(event.ID),
			md:          md,
		}
		if event.Type == domain.EventWorldBloom {
			if opts.WorldBloomCharacterID == 0 {
				return nil, fmt.Errorf("world-bloom event %d needs a chapter character: %w", event.ID, domain.ErrInvalidOption)
			}
			if md.WorldBloomChapter(event.ID, opts.WorldBloomCharacterID) == nil {
				return nil, fmt.Errorf("world-bloom chapter for character %d not in masterdata: %w",
					opts.WorldBloomCharacterID, domain.ErrDataUnavailable)
			}
			ctx.worldBloom = true
			ctx.wlCharacterID = opts.WorldBloomCharacterID
		}
		return ctx, nil
	}

	// Simulated world-bloom chapter: unit + turn + character, no event id.
	if opts.WorldBloomEventTurn != 0 {
		if opts.EventUnit == "" || opts.WorldBloomCharacterID == 0 {
			return nil, fmt.Errorf("simulated world-bloom needs event_unit and world_bloom_character_id: %w", domain.ErrInvalidOption)
		}
		return &eventContext{
			active:    true,
			eventType: domain.EventWorldBloom,
			deckBonuses: []domain.EventDeckBonus{
				{Unit: opts.EventUnit, BonusRate: syntheticSingleMatchBonus},
			},
			worldBloom:    true,
			wlCharacterID: opts.WorldBloomCharacterID,
			md:            md,
		}, nil
	}

	// Synthetic unit+attr event.
	if opts.EventUnit != "" || opts.EventAttr != "" {
		if opts.EventUnit == "" || opts.EventAttr == "" {
			return nil, fmt.Errorf("synthetic event needs both event_unit and event_attr: %w", domain.ErrInvalidOption)
		}
		eventType := opts.EventType
		if eventType == "" {
			eventType = domain.EventMarathon
		}
		return &eventContext{
			active:    true,
			eventType: eventType,
			deckBonuses: []domain.EventDeckBonus{
				{Unit: opts.EventUnit, Attr: opts.EventAttr, BonusRate: syntheticDoubleMatchBonus},
				{Unit: opts.EventUnit, BonusRate: syntheticSingleMatchBonus},
				{Attr: opts.EventAttr, BonusRate: syntheticSingleMatchBonus},
			},
			md: md,
		}, nil
	}

	return &eventContext{md: md}, nil
}

// deckBonusFor returns the best matching unit/attr bonus row for a card.
// Virtual-singer support units count as the card's unit.
func (e *eventContext) deckBonusFor(card *domain.Card) float64 {
	best := 0.0
	for i := range e.deckBonuses {
		row := &e.deckBonuses[i]
		if row.Unit != "" && row.Unit != card.Unit && row.Unit != card.SupportUnit {
			continue
		}
		if row.Attr != "" && row.Attr != card.Attr {
			continue
		}
		if row.BonusRate > best {
			best = row.BonusRate
		}
	}
	return best
}

// cardEventBonus is the card's total additive event bonus: unit/attr match,
// rarity × master rank, and the featured-card extra.
func (e *eventContext) cardEventBonus(card *domain.Card, masterRank int) float64 {
	if !e.active {
		return 0
	}
	bonus := e.deckBonusFor(card)
	bonus += e.md.EventRarityBonus(card.Rarity, masterRank)
	if e.eventID != 0 {
		bonus += e.md.EventCardBonus(e.eventID, card.ID)
	}
	return bonus
}

// cardSupportBonus is the card's contribution to the world-bloom support
// deck when it sits outside the active chapter.
func (e *eventContext) cardSupportBonus(card *domain.Card) float64 {
	if !e.worldBloom {
		return 0
	}
	return e.md.WorldBloomSupportBonus(card.Rarity)
}
