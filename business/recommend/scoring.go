package recommend

import (
	"math"

	"sekaiDeckRecommend/domain"
)

// boostMultiplier maps the natural-boost count (0..10) to the published
// event-point multiplier. Fixed by the game client, not master data.
var boostMultiplier = [11]int64{1, 5, 10, 15, 20, 25, 27, 29, 31, 33, 35}

// Deck bonus for a full-unit or full-attribute team, additive percent.
const unisonPowerBonusPct = 15

// Multi lives pay a flat 10% score bonus while the room is active.
const multiActiveBonus = 1.1

// trunc2 truncates to two decimals, matching the game's PT rounding.
func trunc2(x float64) float64 { return math.Floor(x*100) / 100 }

// deckEval is the kernel output for one deck, reused across invocations.
type deckEval struct {
	liveScore    float64
	points       int64
	eventBonus   float64
	supportBonus float64
	multiScoreUp float64
	totalPower   int
	leader       int
	skills       [5]float64
}

// scorer evaluates decks for one request. It owns scratch buffers so that
// evaluate performs no allocations; every search thread clones its own.
type scorer struct {
	liveType          domain.LiveType
	meta              *domain.MusicMeta
	evt               *eventContext
	boost             int64
	refStrategy       domain.ChooseStrategy
	orderStrategy     domain.ChooseStrategy
	specificOrder     [5]int
	teammatePower     int
	teammateScoreUp   float64
	bestSkillAsLeader bool

	resolved [5]float64
	assigned [5]float64
	slotRank [5]int
	skillBuf [5]float64
}

func newScorer(meta *domain.MusicMeta, evt *eventContext, opts *domain.RecommendOptions) *scorer {
	k := &scorer{
		liveType:          opts.LiveType,
		meta:              meta,
		evt:               evt,
		boost:             boostMultiplier[opts.Boost],
		refStrategy:       opts.SkillReferenceChooseStrategy,
		orderStrategy:     opts.SkillOrderChooseStrategy,
		teammatePower:     opts.MultiLiveTeammatePower,
		teammateScoreUp:   opts.MultiLiveTeammateScoreUp,
		bestSkillAsLeader: opts.BestSkillAsLeader,
	}
	for i := 0; i < 5 && i < len(opts.SpecificSkillOrder); i++ {
		k.specificOrder[i] = opts.SpecificSkillOrder[i]
	}
	return k
}

// clone gives a search thread its own scratch state.
func (k *scorer) clone() *scorer {
	c := *k
	return &c
}

func weightAt(ws []float64, i int) float64 {
	if i < 0 || i >= len(ws) {
		return 0
	}
	return ws[i]
}

// allShareUnit reports whether every deck member plays as the given unit,
// counting virtual-singer support units.
func allShareUnit(deck *[5]*effectiveCard, u domain.Unit) bool {
	for _, ec := range deck {
		if ec.card.Unit != u && ec.card.SupportUnit != u {
			return false
		}
	}
	return true
}

func allShareAttr(deck *[5]*effectiveCard, a domain.CardAttr) bool {
	for _, ec := range deck {
		if ec.card.Attr != a {
			return false
		}
	}
	return true
}

// evaluate scores one deck in place. Deck order is the caller's member
// order; slot assignment inside a live follows the order strategy.
func (k *scorer) evaluate(deck *[5]*effectiveCard, out *deckEval) {
	sameUnit := allShareUnit(deck, deck[0].card.Unit) ||
		(deck[0].card.SupportUnit != "" && deck[0].card.SupportUnit != domain.UnitNone &&
			allShareUnit(deck, deck[0].card.SupportUnit))
	sameAttr := allShareAttr(deck, deck[0].card.Attr)

	// Power with the full-unit / full-attribute deck bonuses.
	total := 0
	for _, ec := range deck {
		pct := 0
		if sameUnit {
			pct += unisonPowerBonusPct
		}
		if sameAttr {
			pct += unisonPowerBonusPct
		}
		total += ec.power + ec.power*pct/100
	}
	out.totalPower = total

	// First pass: conditional skills, references held at their base rate.
	for i, ec := range deck {
		switch ec.skillCond {
		case domain.SkillCondSameUnit:
			if allShareUnit(deck, ec.card.Unit) {
				k.resolved[i] = ec.skillEnhanced
			} else {
				k.resolved[i] = ec.skillBase
			}
		case domain.SkillCondSameAttr:
			if allShareAttr(deck, ec.card.Attr) {
				k.resolved[i] = ec.skillEnhanced
			} else {
				k.resolved[i] = ec.skillBase
			}
		default:
			k.resolved[i] = ec.skillBase
		}
	}

	// Second pass: reference skills borrow from the other four.
	for i, ec := range deck {
		if ec.skillCond != domain.SkillCondReference {
			continue
		}
		var borrowed float64
		switch k.refStrategy {
		case domain.ChooseMax:
			for j := 0; j < 5; j++ {
				if j != i && k.resolved[j] > borrowed {
					borrowed = k.resolved[j]
				}
			}
		case domain.ChooseMin:
			borrowed = math.MaxFloat64
			for j := 0; j < 5; j++ {
				if j != i && k.resolved[j] < borrowed {
					borrowed = k.resolved[j]
				}
			}
		default: // average
			for j := 0; j < 5; j++ {
				if j != i {
					borrowed += k.resolved[j]
				}
			}
			borrowed /= 4
		}
		if borrowed > ec.skillRefCap {
			borrowed = ec.skillRefCap
		}
		k.resolved[i] = ec.skillBase + borrowed
	}
	out.skills = k.resolved

	sumSkill := 0.0
	for _, s := range k.resolved {
		sumSkill += s
	}
	out.multiScoreUp = sumSkill
	if k.liveType == domain.LiveMulti && k.teammateScoreUp > 0 {
		out.multiScoreUp += k.teammateScoreUp
	}

	out.leader = 0
	if k.bestSkillAsLeader {
		for i := 1; i < 5; i++ {
			if k.resolved[i] > k.resolved[out.leader] {
				out.leader = i
			}
		}
	}

	// Event bonuses are deck-independent per card except the WL extras.
	bonus := 0.0
	for _, ec := range deck {
		bonus += ec.eventBonus
	}
	if k.evt.worldBloom {
		attrs := 0
		seen := [5]domain.CardAttr{}
		for _, ec := range deck {
			dup := false
			for j := 0; j < attrs; j++ {
				if seen[j] == ec.card.Attr {
					dup = true
					break
				}
			}
			if !dup {
				seen[attrs] = ec.card.Attr
				attrs++
			}
		}
		bonus += k.evt.md.WorldBloomDiffAttrBonus(attrs)

		support := 0.0
		for _, ec := range deck {
			if ec.characterID != k.evt.wlCharacterID {
				support += ec.supportBonus
			}
		}
		out.supportBonus = support
	} else {
		out.supportBonus = 0
	}
	out.eventBonus = bonus

	out.liveScore = k.liveScore(total)

	// Event points: score bracket, PT rate, boost multiplier.
	base := 100 + math.Floor(out.liveScore/20000)
	rate := trunc2(1 + (out.eventBonus+out.supportBonus)/100)
	pts := math.Floor(math.Floor(base*rate) * k.meta.EventRate / 100)
	out.points = int64(pts) * k.boost
}

// pointsCeiling over-estimates the event points reachable from optimistic
// power, skill-sum and bonus values. Used for branch pruning; it must never
// undershoot a reachable deck.
func (k *scorer) pointsCeiling(power int, skillSum, bonus float64) int64 {
	p := float64(power)
	if k.liveType == domain.LiveMulti && k.teammatePower > 0 {
		if tp := (p + 4*float64(k.teammatePower)) / 5; tp > p {
			p = tp
		}
	}
	var wSum float64
	var weights []float64
	switch k.liveType {
	case domain.LiveMulti:
		weights = k.meta.SkillScoreMulti
	case domain.LiveAuto:
		weights = k.meta.SkillScoreAuto
	default:
		weights = k.meta.SkillScoreSolo
	}
	for j := 0; j < 6; j++ {
		wSum += weightAt(weights, j)
	}
	base := k.meta.BaseScore
	if k.liveType == domain.LiveAuto {
		base = k.meta.BaseScoreAuto
	}
	if k.liveType == domain.LiveMulti && k.teammateScoreUp > 0 {
		skillSum += k.teammateScoreUp
	}
	ls := p * 4 * (base + wSum*skillSum/100 + k.meta.FeverScore) * multiActiveBonus

	pts := (100 + ls/20000) * (1 + bonus/100) * k.meta.EventRate / 100
	return int64(pts)*k.boost + 1
}

// liveScore computes the live-type specific score for the already-resolved
// member skills in k.resolved.
func (k *scorer) liveScore(totalPower int) float64 {
	switch k.liveType {
	case domain.LiveMulti:
		sAvg := k.resolved[0] + k.resolved[1] + k.resolved[2] + k.resolved[3] + k.resolved[4]
		sAvg = (sAvg + k.teammateScoreUp) / 5
		term := 0.0
		for j := 0; j < 6; j++ {
			term += weightAt(k.meta.SkillScoreMulti, j) * sAvg / 100
		}
		power := float64(totalPower)
		if k.teammatePower > 0 {
			power = (float64(totalPower) + 4*float64(k.teammatePower)) / 5
		}
		score := power * 4 * (k.meta.BaseScore + term + k.meta.FeverScore) * multiActiveBonus
		return math.Floor(score)

	case domain.LiveAuto:
		return k.orderedScore(totalPower, k.meta.BaseScoreAuto, k.meta.SkillScoreAuto)

	default: // solo, challenge
		return k.orderedScore(totalPower, k.meta.BaseScore, k.meta.SkillScoreSolo)
	}
}

// orderedScore assigns member skills to the five timed slots per the order
// strategy and adds the leader's encore slot.
func (k *scorer) orderedScore(totalPower int, base float64, weights []float64) float64 {
	leader := 0
	if k.bestSkillAsLeader {
		for i := 1; i < 5; i++ {
			if k.resolved[i] > k.resolved[leader] {
				leader = i
			}
		}
	}

	switch k.orderStrategy {
	case domain.ChooseSpecific:
		for j := 0; j < 5; j++ {
			k.assigned[j] = k.resolved[k.specificOrder[j]]
		}
	case domain.ChooseAverage:
		mean := (k.resolved[0] + k.resolved[1] + k.resolved[2] + k.resolved[3] + k.resolved[4]) / 5
		for j := 0; j < 5; j++ {
			k.assigned[j] = mean
		}
	default: // max, min
		// Slots sorted by weight descending; skills sorted to match.
		for j := 0; j < 5; j++ {
			k.slotRank[j] = j
			k.skillBuf[j] = k.resolved[j]
		}
		for a := 1; a < 5; a++ {
			for b := a; b > 0 && weightAt(weights, k.slotRank[b]) > weightAt(weights, k.slotRank[b-1]); b-- {
				k.slotRank[b], k.slotRank[b-1] = k.slotRank[b-1], k.slotRank[b]
			}
		}
		desc := k.orderStrategy != domain.ChooseMin
		for a := 1; a < 5; a++ {
			for b := a; b > 0 && (k.skillBuf[b] > k.skillBuf[b-1]) == desc && k.skillBuf[b] != k.skillBuf[b-1]; b-- {
				k.skillBuf[b], k.skillBuf[b-1] = k.skillBuf[b-1], k.skillBuf[b]
			}
		}
		for r := 0; r < 5; r++ {
			k.assigned[k.slotRank[r]] = k.skillBuf[r]
		}
	}

	term := 0.0
	for j := 0; j < 5; j++ {
		term += weightAt(weights, j) * k.assigned[j] / 100
	}
	term += weightAt(weights, 5) * k.resolved[leader] / 100

	return math.Floor(float64(totalPower) * 4 * (base + term))
}
