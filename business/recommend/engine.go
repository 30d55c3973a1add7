package recommend

import (
	"math/rand"
	"time"

	"sekaiDeckRecommend/domain"
)

// tuning collects the engine's default knobs in one place. Request options
// override the stochastic-strategy fields per call.
var tuning = struct {
	saRunNum        int
	saStartTemp     float64
	saCoolingRate   float64
	saIterPerTemp   int
	saMinTemp       float64
	saMaxNoImprove  int
	gaPopulation    int
	gaElite         int
	gaMutationRate  float64
	gaTournament    int
	gaGenerations   int
	deadlineCheckN  int
	randomDeckTries int
}{
	saRunNum:        3,
	saStartTemp:     1.0,
	saCoolingRate:   0.97,
	saIterPerTemp:   64,
	saMinTemp:       1e-4,
	saMaxNoImprove:  4000,
	gaPopulation:    64,
	gaElite:         8,
	gaMutationRate:  0.15,
	gaTournament:    3,
	gaGenerations:   400,
	deadlineCheckN:  1024,
	randomDeckTries: 64,
}

// searchContext is everything one strategy run needs. Strategies clone the
// kernel before use; nothing here is mutated by them.
type searchContext struct {
	pool     *cardPool
	obj      *objective
	kernel   *scorer
	limit    int
	deadline time.Time
	seed     int64
	opts     *domain.RecommendOptions
}

func (sc *searchContext) expired() bool {
	return !sc.deadline.IsZero() && time.Now().After(sc.deadline)
}

// rng returns the strategy's private PRNG. A fixed request seed makes the
// stochastic strategies reproducible; each strategy salts it so they do not
// walk the same trajectory under algorithm=all.
func (sc *searchContext) rng(salt int64) *rand.Rand {
	seed := sc.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed ^ salt))
}

// strategy is one search algorithm. Implementations return their best decks
// and never run past the context deadline by more than one check interval.
type strategy interface {
	name() domain.Algorithm
	run(sc *searchContext) ([]*scoredDeck, error)
}

// charUsed reports whether a character already occupies deck[0:n].
func charUsed(deck *[5]*effectiveCard, n int, char uint) bool {
	for i := 0; i < n; i++ {
		if deck[i] != nil && deck[i].characterID == char {
			return true
		}
	}
	return false
}

// randomDeck fills the free slots of a valid deck: fixed cards first, then a
// random card for each required character, then random distinct characters.
// Returns false when the pool cannot produce a full deck.
func randomDeck(pool *cardPool, rng *rand.Rand, deck *[5]*effectiveCard) bool {
	n := 0
	for _, ec := range pool.fixedCards {
		deck[n] = ec
		n++
	}
	for _, c := range pool.fixedCharacters {
		cards := pool.byCharacter[c]
		if len(cards) == 0 {
			return false
		}
		deck[n] = cards[rng.Intn(len(cards))]
		n++
	}
	for try := 0; n < 5 && try < tuning.randomDeckTries; try++ {
		c := pool.characters[rng.Intn(len(pool.characters))]
		if charUsed(deck, n, c) {
			continue
		}
		cards := pool.byCharacter[c]
		deck[n] = cards[rng.Intn(len(cards))]
		n++
	}
	if n < 5 {
		// Dense fallback for tiny pools: walk characters in order.
		for _, c := range pool.characters {
			if n == 5 {
				break
			}
			if charUsed(deck, n, c) {
				continue
			}
			cards := pool.byCharacter[c]
			deck[n] = cards[rng.Intn(len(cards))]
			n++
		}
	}
	return n == 5
}

// mutateSlot swaps one free slot for a random allowed card, keeping the
// required characters present. Returns the previous occupant, or nil when no
// valid move was found.
func mutateSlot(pool *cardPool, rng *rand.Rand, deck *[5]*effectiveCard, slot int) *effectiveCard {
	prev := deck[slot]
	required := false
	for _, c := range pool.fixedCharacters {
		if prev.characterID == c {
			required = true
			break
		}
	}

	for try := 0; try < tuning.randomDeckTries; try++ {
		var c uint
		if required {
			c = prev.characterID
		} else {
			c = pool.characters[rng.Intn(len(pool.characters))]
			if c != prev.characterID && charUsed(deck, 5, c) {
				continue
			}
		}
		cards := pool.byCharacter[c]
		next := cards[rng.Intn(len(cards))]
		if next == prev {
			continue
		}
		deck[slot] = next
		return prev
	}
	return nil
}
