package recommend

import (
	"sekaiDeckRecommend/domain"
)

// dfsStrategy enumerates every 5-card combination with distinct characters,
// pruned by admissible per-character upper bounds.
type dfsStrategy struct{}

func (dfsStrategy) name() domain.Algorithm { return domain.AlgDFS }

// suffixBound holds, for one suffix of the character order, the sum of the r
// largest per-character bounds (r = 0..5) for each prunable quantity.
type suffixBound struct {
	pow [6]int
	skl [6]float64
	bon [6]float64
}

// cardSkillBound is the largest score-up a realized card can contribute in
// any deck.
func cardSkillBound(ec *effectiveCard) float64 {
	if ec.skillCond == domain.SkillCondReference {
		return ec.skillBase + ec.skillRefCap
	}
	return ec.skillEnhanced
}

type dfsRun struct {
	sc     *searchContext
	kernel *scorer
	top    *topSet

	chars    []uint
	required map[uint]bool
	reqAfter []int
	bounds   []suffixBound

	minTarget, maxTarget float64
	bonusSlack           float64

	deck      [5]*effectiveCard
	filled    int
	partPower int
	partSkill float64
	partBonus float64

	nodes    int
	timedOut bool
	eval     deckEval
}

func (dfsStrategy) run(sc *searchContext) ([]*scoredDeck, error) {
	if sc.expired() {
		return nil, nil
	}
	pool := sc.pool
	r := &dfsRun{
		sc:       sc,
		kernel:   sc.kernel.clone(),
		top:      newTopSet(sc.limit, sc.obj),
		required: pool.requiredCharSet(),
	}

	r.chars = append(r.chars, pool.characters...)
	sortCharsByBound(r.chars, pool, sc.obj.target)

	r.reqAfter = make([]int, len(r.chars)+1)
	for i := len(r.chars) - 1; i >= 0; i-- {
		r.reqAfter[i] = r.reqAfter[i+1]
		if r.required[r.chars[i]] {
			r.reqAfter[i]++
		}
	}

	r.bounds = make([]suffixBound, len(r.chars)+1)
	var topPow top5Int
	var topSkl, topBon top5Float
	for i := len(r.chars) - 1; i >= 0; i-- {
		c := r.chars[i]
		topPow.insert(pool.maxPower[c])
		topSkl.insert(pool.maxSkill[c])
		topBon.insert(pool.maxBonus[c])
		r.bounds[i] = suffixBound{pow: topPow.prefixSums(), skl: topSkl.prefixSums(), bon: topBon.prefixSums()}
	}

	if sc.obj.target == domain.TargetBonus && len(sc.obj.targets) > 0 {
		r.minTarget, r.maxTarget = sc.obj.targets[0], sc.obj.targets[0]
		for _, t := range sc.obj.targets[1:] {
			if t < r.minTarget {
				r.minTarget = t
			}
			if t > r.maxTarget {
				r.maxTarget = t
			}
		}
	}
	if sc.kernel.evt.worldBloom {
		r.bonusSlack = pool.wlBonusSlack(sc.kernel.evt)
	}

	for _, ec := range pool.fixedCards {
		r.deck[r.filled] = ec
		r.filled++
		r.partPower += ec.power
		r.partSkill += cardSkillBound(ec)
		r.partBonus += ec.eventBonus
	}

	r.walk(0)
	return r.top.decks, nil
}

func (r *dfsRun) walk(i int) {
	if r.timedOut {
		return
	}
	if r.filled == 5 {
		r.nodes++
		if r.nodes%tuning.deadlineCheckN == 0 && r.sc.expired() {
			r.timedOut = true
			return
		}
		r.kernel.evaluate(&r.deck, &r.eval)
		r.top.add(&r.deck, &r.eval, domain.AlgDFS)
		return
	}

	slotsLeft := 5 - r.filled
	if len(r.chars)-i < slotsLeft || r.reqAfter[i] > slotsLeft {
		return
	}
	if !r.admissible(i, slotsLeft) {
		return
	}

	c := r.chars[i]
	for _, ec := range r.sc.pool.byCharacter[c] {
		if r.timedOut {
			return
		}
		r.deck[r.filled] = ec
		r.filled++
		r.partPower += ec.power
		r.partSkill += cardSkillBound(ec)
		r.partBonus += ec.eventBonus

		r.walk(i + 1)

		r.filled--
		r.deck[r.filled] = nil
		r.partPower -= ec.power
		r.partSkill -= cardSkillBound(ec)
		r.partBonus -= ec.eventBonus
	}

	if !r.required[c] {
		r.walk(i + 1)
	}
}

// admissible reports whether the partial deck can still beat the k-th best
// result. Every estimate deliberately overshoots; pruning never discards a
// reachable optimum.
func (r *dfsRun) admissible(i, slotsLeft int) bool {
	b := &r.bounds[i]

	if r.sc.obj.target == domain.TargetBonus && len(r.sc.obj.targets) > 0 {
		if r.partBonus > r.maxTarget {
			return false
		}
		if r.partBonus+b.bon[slotsLeft]+r.bonusSlack < r.minTarget {
			return false
		}
	}

	worst := r.top.worst()
	if worst == nil {
		return true
	}

	optPower := r.partPower + b.pow[slotsLeft]
	optPower += optPower * 2 * unisonPowerBonusPct / 100

	switch r.sc.obj.target {
	case domain.TargetPower:
		return optPower >= worst.eval.totalPower

	case domain.TargetSkill:
		opt := r.partSkill + b.skl[slotsLeft]
		if r.kernel.liveType == domain.LiveMulti && r.kernel.teammateScoreUp > 0 {
			opt += r.kernel.teammateScoreUp
		}
		return opt >= worst.eval.multiScoreUp

	case domain.TargetBonus:
		return true

	default: // score
		optSkill := r.partSkill + b.skl[slotsLeft]
		optBonus := r.partBonus + b.bon[slotsLeft] + r.bonusSlack
		return r.kernel.pointsCeiling(optPower, optSkill, optBonus) >= worst.eval.points
	}
}

func sortCharsByBound(chars []uint, pool *cardPool, target domain.Target) {
	key := func(c uint) float64 {
		switch target {
		case domain.TargetSkill:
			return pool.maxSkill[c]
		case domain.TargetBonus:
			return pool.maxBonus[c]
		default:
			return float64(pool.maxPower[c])
		}
	}
	// Insertion sort keeps the order stable for equal bounds.
	for a := 1; a < len(chars); a++ {
		for b := a; b > 0 && key(chars[b]) > key(chars[b-1]); b-- {
			chars[b], chars[b-1] = chars[b-1], chars[b]
		}
	}
}

// top5Int / top5Float keep the five largest values seen, largest first.
type top5Int struct {
	v [5]int
	n int
}

func (t *top5Int) insert(x int) {
	if t.n < 5 {
		t.v[t.n] = x
		t.n++
	} else if x > t.v[4] {
		t.v[4] = x
	} else {
		return
	}
	for i := t.n - 1; i > 0 && t.v[i] > t.v[i-1]; i-- {
		t.v[i], t.v[i-1] = t.v[i-1], t.v[i]
	}
}

func (t *top5Int) prefixSums() [6]int {
	var out [6]int
	for r := 1; r <= 5; r++ {
		out[r] = out[r-1]
		if r-1 < t.n {
			out[r] += t.v[r-1]
		}
	}
	return out
}

type top5Float struct {
	v [5]float64
	n int
}

func (t *top5Float) insert(x float64) {
	if t.n < 5 {
		t.v[t.n] = x
		t.n++
	} else if x > t.v[4] {
		t.v[4] = x
	} else {
		return
	}
	for i := t.n - 1; i > 0 && t.v[i] > t.v[i-1]; i-- {
		t.v[i], t.v[i-1] = t.v[i-1], t.v[i]
	}
}

func (t *top5Float) prefixSums() [6]float64 {
	var out [6]float64
	for r := 1; r <= 5; r++ {
		out[r] = out[r-1]
		if r-1 < t.n {
			out[r] += t.v[r-1]
		}
	}
	return out
}
