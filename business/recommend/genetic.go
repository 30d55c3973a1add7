package recommend

import (
	"math/rand"

	"sekaiDeckRecommend/domain"
)

// gaStrategy evolves a population of valid decks with tournament selection,
// slot-wise crossover with distinctness repair, and single-slot mutation.
type gaStrategy struct{}

func (gaStrategy) name() domain.Algorithm { return domain.AlgGA }

type individual struct {
	deck    [5]*effectiveCard
	fitness float64
}

func (gaStrategy) run(sc *searchContext) ([]*scoredDeck, error) {
	pool := sc.pool
	kernel := sc.kernel.clone()
	top := newTopSet(sc.limit, sc.obj)
	rng := sc.rng(0x6a)

	popSize := tuning.gaPopulation
	elite := tuning.gaElite
	mutation := tuning.gaMutationRate
	generations := tuning.gaGenerations
	if o := sc.opts.GaOptions; o != nil {
		if o.PopulationSize > 1 {
			popSize = o.PopulationSize
		}
		if o.EliteCount > 0 {
			elite = o.EliteCount
		}
		if o.MutationRate > 0 && o.MutationRate <= 1 {
			mutation = o.MutationRate
		}
		if o.MaxGenerations > 0 {
			generations = o.MaxGenerations
		}
	}
	if elite >= popSize {
		elite = popSize / 2
	}

	firstFree := len(pool.fixedCards)
	requiredEnd := firstFree + len(pool.fixedCharacters)
	var eval deckEval

	score := func(ind *individual) {
		kernel.evaluate(&ind.deck, &eval)
		ind.fitness = sc.obj.fitness(&eval)
		top.add(&ind.deck, &eval, domain.AlgGA)
	}

	pop := make([]individual, 0, popSize)
	for i := 0; i < popSize && !sc.expired(); i++ {
		var ind individual
		if !randomDeck(pool, rng, &ind.deck) {
			break
		}
		score(&ind)
		pop = append(pop, ind)
	}
	if len(pop) == 0 || firstFree == 5 {
		return top.decks, nil
	}

	next := make([]individual, len(pop))
	steps := 0
	for gen := 0; gen < generations; gen++ {
		if sc.expired() {
			break
		}

		sortByFitness(pop)
		n := copy(next[:min(elite, len(pop))], pop)

		for ; n < len(pop); n++ {
			steps++
			if steps%tuning.deadlineCheckN == 0 && sc.expired() {
				return top.decks, nil
			}

			p1 := tournament(pop, rng)
			p2 := tournament(pop, rng)
			child, ok := crossover(pool, rng, p1, p2, firstFree, requiredEnd)
			if !ok {
				child = *p1
			}
			if rng.Float64() < mutation {
				mutateSlot(pool, rng, &child.deck, firstFree+rng.Intn(5-firstFree))
			}
			score(&child)
			next[n] = child
		}
		pop, next = next, pop
	}

	return top.decks, nil
}

func sortByFitness(pop []individual) {
	for a := 1; a < len(pop); a++ {
		for b := a; b > 0 && pop[b].fitness > pop[b-1].fitness; b-- {
			pop[b], pop[b-1] = pop[b-1], pop[b]
		}
	}
}

func tournament(pop []individual, rng *rand.Rand) *individual {
	best := &pop[rng.Intn(len(pop))]
	for i := 1; i < tuning.gaTournament; i++ {
		c := &pop[rng.Intn(len(pop))]
		if c.fitness > best.fitness {
			best = c
		}
	}
	return best
}

// crossover mixes the free slots of two parents and repairs character
// collisions with random replacements. Slots holding required characters
// swap only between parents, so the requirement survives recombination.
func crossover(pool *cardPool, rng *rand.Rand, p1, p2 *individual, firstFree, requiredEnd int) (individual, bool) {
	var child individual
	copy(child.deck[:firstFree], p1.deck[:firstFree])

	for i := firstFree; i < requiredEnd; i++ {
		child.deck[i] = p1.deck[i]
		if rng.Float64() < 0.5 {
			child.deck[i] = p2.deck[i]
		}
	}

	for i := requiredEnd; i < 5; i++ {
		pick := p1.deck[i]
		if rng.Float64() < 0.5 {
			pick = p2.deck[i]
		}
		if charUsed(&child.deck, i, pick.characterID) {
			alt := p1.deck[i]
			if alt == pick {
				alt = p2.deck[i]
			}
			pick = alt
		}
		if charUsed(&child.deck, i, pick.characterID) {
			if !repairSlot(pool, rng, &child.deck, i) {
				return child, false
			}
			continue
		}
		child.deck[i] = pick
	}
	return child, true
}

// repairSlot fills one slot with a random card of a character not yet in the
// deck.
func repairSlot(pool *cardPool, rng *rand.Rand, deck *[5]*effectiveCard, slot int) bool {
	deck[slot] = nil
	for try := 0; try < tuning.randomDeckTries; try++ {
		c := pool.characters[rng.Intn(len(pool.characters))]
		if charUsed(deck, 5, c) {
			continue
		}
		cards := pool.byCharacter[c]
		deck[slot] = cards[rng.Intn(len(cards))]
		return true
	}
	for _, c := range pool.characters {
		if charUsed(deck, 5, c) {
			continue
		}
		cards := pool.byCharacter[c]
		deck[slot] = cards[rng.Intn(len(cards))]
		return true
	}
	return false
}
