package recommend

import (
	"math"

	"sekaiDeckRecommend/domain"
)

// saStrategy runs independent Metropolis restarts with a geometric cooling
// schedule. Temperatures act on fitness deltas normalized by the starting
// deck, so one schedule serves every target scale.
type saStrategy struct{}

func (saStrategy) name() domain.Algorithm { return domain.AlgSA }

func (saStrategy) run(sc *searchContext) ([]*scoredDeck, error) {
	pool := sc.pool
	kernel := sc.kernel.clone()
	top := newTopSet(sc.limit, sc.obj)
	rng := sc.rng(0x5a)

	runNum := tuning.saRunNum
	startTemp := tuning.saStartTemp
	cooling := tuning.saCoolingRate
	iterPerTemp := tuning.saIterPerTemp
	maxNoImprove := tuning.saMaxNoImprove
	if o := sc.opts.SaOptions; o != nil {
		if o.RunNum > 0 {
			runNum = o.RunNum
		}
		if o.StartTemp > 0 {
			startTemp = o.StartTemp
		}
		if o.CoolingRate > 0 && o.CoolingRate < 1 {
			cooling = o.CoolingRate
		}
		if o.IterPerTemp > 0 {
			iterPerTemp = o.IterPerTemp
		}
		if o.MaxNoImproveIter > 0 {
			maxNoImprove = o.MaxNoImproveIter
		}
	}

	var deck [5]*effectiveCard
	var eval deckEval
	firstFree := len(pool.fixedCards)

	for run := 0; run < runNum && !sc.expired(); run++ {
		if !randomDeck(pool, rng, &deck) {
			break
		}
		kernel.evaluate(&deck, &eval)
		top.add(&deck, &eval, domain.AlgSA)
		if firstFree == 5 {
			// Fully pinned deck, nothing to anneal.
			return top.decks, nil
		}

		cur := sc.obj.fitness(&eval)
		best := cur
		// Normalizes deltas so temperature is dimensionless.
		scale := math.Abs(cur)
		if scale < 1 {
			scale = 1
		}

		temp := startTemp
		noImprove := 0
		steps := 0
		for temp > tuning.saMinTemp && noImprove < maxNoImprove {
			for it := 0; it < iterPerTemp; it++ {
				steps++
				if steps%tuning.deadlineCheckN == 0 && sc.expired() {
					return top.decks, nil
				}

				slot := firstFree + rng.Intn(5-firstFree)
				prev := mutateSlot(pool, rng, &deck, slot)
				if prev == nil {
					continue
				}
				kernel.evaluate(&deck, &eval)
				next := sc.obj.fitness(&eval)

				delta := (next - cur) / scale
				if delta >= 0 || rng.Float64() < math.Exp(delta/temp) {
					cur = next
					top.add(&deck, &eval, domain.AlgSA)
					if next > best {
						best = next
						noImprove = 0
						continue
					}
				} else {
					deck[slot] = prev
				}
				noImprove++
			}
			temp *= cooling
		}
	}

	return top.decks, nil
}
