package recommend

import (
	"math"

	"sekaiDeckRecommend/domain"
)

// scoredDeck is one evaluated deck together with the strategies that found
// it. Card order is the member order the kernel scored.
type scoredDeck struct {
	cards [5]*effectiveCard
	eval  deckEval
	algs  []domain.Algorithm
}

func (d *scoredDeck) cardIDSum() uint {
	var sum uint
	for _, ec := range d.cards {
		sum += ec.cardID
	}
	return sum
}

// deckIdentity de-duplicates decks across strategies.
type deckIdentity struct {
	score     int64
	power     int
	firstCard uint
}

func identityOf(d *scoredDeck) deckIdentity {
	return deckIdentity{score: d.eval.points, power: d.eval.totalPower, firstCard: d.cards[0].cardID}
}

// objective ranks decks for one request target.
type objective struct {
	target        domain.Target
	targets       []float64
	msuLowerBound float64
}

func newObjective(opts *domain.RecommendOptions) *objective {
	o := &objective{target: opts.Target, targets: opts.TargetBonusList}
	if opts.Target == domain.TargetSkill || opts.LiveType == domain.LiveMulti {
		o.msuLowerBound = opts.MultiLiveScoreUpLowerBound
	}
	return o
}

// bonusDistance is the distance to the nearest bonus target.
func (o *objective) bonusDistance(bonus float64) float64 {
	best := math.MaxFloat64
	for _, t := range o.targets {
		if d := math.Abs(bonus - t); d < best {
			best = d
		}
	}
	return best
}

// admits reports whether a deck may enter the result set at all.
func (o *objective) admits(eval *deckEval) bool {
	return o.msuLowerBound <= 0 || eval.multiScoreUp >= o.msuLowerBound
}

// better reports whether a ranks strictly before b.
func (o *objective) better(a, b *scoredDeck) bool {
	switch o.target {
	case domain.TargetPower:
		if a.eval.totalPower != b.eval.totalPower {
			return a.eval.totalPower > b.eval.totalPower
		}
	case domain.TargetSkill:
		if a.eval.multiScoreUp != b.eval.multiScoreUp {
			return a.eval.multiScoreUp > b.eval.multiScoreUp
		}
	case domain.TargetBonus:
		da, db := o.bonusDistance(a.eval.eventBonus), o.bonusDistance(b.eval.eventBonus)
		if da != db {
			return da < db
		}
		if a.eval.points != b.eval.points {
			return a.eval.points > b.eval.points
		}
	default: // score
		if a.eval.points != b.eval.points {
			return a.eval.points > b.eval.points
		}
		if a.eval.multiScoreUp != b.eval.multiScoreUp {
			return a.eval.multiScoreUp > b.eval.multiScoreUp
		}
	}
	if a.eval.totalPower != b.eval.totalPower {
		return a.eval.totalPower > b.eval.totalPower
	}
	return a.cardIDSum() < b.cardIDSum()
}

// fitness maps a deck to the scalar the stochastic strategies climb.
func (o *objective) fitness(eval *deckEval) float64 {
	switch o.target {
	case domain.TargetPower:
		return float64(eval.totalPower)
	case domain.TargetSkill:
		return eval.multiScoreUp
	case domain.TargetBonus:
		return -o.bonusDistance(eval.eventBonus)*1e9 + float64(eval.points)
	default:
		return float64(eval.points) + eval.multiScoreUp*1e-6
	}
}

// topSet keeps the best `limit` unique decks, sorted by the objective.
type topSet struct {
	limit int
	obj   *objective
	decks []*scoredDeck
	seen  map[deckIdentity]*scoredDeck
}

func newTopSet(limit int, obj *objective) *topSet {
	return &topSet{limit: limit, obj: obj, seen: make(map[deckIdentity]*scoredDeck)}
}

func (t *topSet) full() bool { return len(t.decks) >= t.limit }

// worst is the current k-th best, nil while the set is not full.
func (t *topSet) worst() *scoredDeck {
	if !t.full() {
		return nil
	}
	return t.decks[len(t.decks)-1]
}

// add copies the deck into the set if it qualifies. Returns true when the
// set changed (including an algorithm tag merge on a duplicate).
func (t *topSet) add(cards *[5]*effectiveCard, eval *deckEval, alg domain.Algorithm) bool {
	if t.limit <= 0 || !t.obj.admits(eval) {
		return false
	}

	cand := &scoredDeck{cards: *cards, eval: *eval}
	if alg != "" {
		cand.algs = []domain.Algorithm{alg}
	}

	id := identityOf(cand)
	if prev, ok := t.seen[id]; ok {
		merged := false
		for _, a := range cand.algs {
			found := false
			for _, pa := range prev.algs {
				if pa == a {
					found = true
					break
				}
			}
			if !found {
				prev.algs = append(prev.algs, a)
				merged = true
			}
		}
		return merged
	}

	if t.full() && !t.obj.better(cand, t.decks[len(t.decks)-1]) {
		return false
	}

	pos := len(t.decks)
	for pos > 0 && t.obj.better(cand, t.decks[pos-1]) {
		pos--
	}
	t.decks = append(t.decks, nil)
	copy(t.decks[pos+1:], t.decks[pos:])
	t.decks[pos] = cand
	t.seen[id] = cand

	if len(t.decks) > t.limit {
		drop := t.decks[len(t.decks)-1]
		delete(t.seen, identityOf(drop))
		t.decks = t.decks[:t.limit]
	}
	return true
}

// merge folds another deck list into the set, keeping tags of duplicates.
func (t *topSet) merge(decks []*scoredDeck) {
	for _, d := range decks {
		for _, alg := range d.algs {
			t.add(&d.cards, &d.eval, alg)
		}
		if len(d.algs) == 0 {
			t.add(&d.cards, &d.eval, "")
		}
	}
}
