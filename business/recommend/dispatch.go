package recommend

import (
	"fmt"
	"sync"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/pkg/logger"
)

func strategiesFor(alg domain.Algorithm) []strategy {
	switch alg {
	case domain.AlgDFS:
		return []strategy{dfsStrategy{}}
	case domain.AlgSA:
		return []strategy{saStrategy{}}
	case domain.AlgGA:
		return []strategy{gaStrategy{}}
	default:
		return []strategy{dfsStrategy{}, saStrategy{}, gaStrategy{}}
	}
}

type strategyResult struct {
	alg   domain.Algorithm
	decks []*scoredDeck
	err   error
}

// dispatch fans the selected strategies out on their own goroutines, waits
// for all of them (each checks the shared deadline cooperatively), and merges
// their decks into one ranked, de-duplicated set. A failing strategy only
// contributes zero decks; the dispatch fails when every strategy fails.
func dispatch(sc *searchContext) ([]*scoredDeck, error) {
	strategies := strategiesFor(sc.opts.Algorithm)
	resultCh := make(chan strategyResult, len(strategies))

	var wg sync.WaitGroup
	for _, st := range strategies {
		wg.Add(1)
		go func(st strategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					resultCh <- strategyResult{alg: st.name(),
						err: fmt.Errorf("strategy %s panic: %v: %w", st.name(), r, domain.ErrInternal)}
				}
			}()
			decks, err := st.run(sc)
			resultCh <- strategyResult{alg: st.name(), decks: decks, err: err}
		}(st)
	}
	wg.Wait()
	close(resultCh)

	merged := newTopSet(sc.limit, sc.obj)
	failures := 0
	var lastErr error
	for res := range resultCh {
		if res.err != nil {
			failures++
			lastErr = res.err
			logger.Error("strategy failed", "alg", res.alg, "error", res.err)
			continue
		}
		strategyDecksTotal.WithLabelValues(string(res.alg)).Add(float64(len(res.decks)))
		merged.merge(res.decks)
	}

	if failures == len(strategies) {
		return nil, fmt.Errorf("all strategies failed: %w", lastErr)
	}
	return merged.decks, nil
}

// dispatchBonus runs the search once, then regroups the merged set so each
// bonus target receives up to limit decks, exact hits first. A deck serves
// at most one target.
func dispatchBonus(sc *searchContext) ([]*scoredDeck, error) {
	// The inner search keeps a wider set so every target has candidates.
	wide := *sc
	wide.limit = sc.limit * len(sc.opts.TargetBonusList) * 4
	decks, err := dispatch(&wide)
	if err != nil {
		return nil, err
	}

	used := make(map[deckIdentity]bool, len(decks))
	var out []*scoredDeck
	for _, target := range sc.opts.TargetBonusList {
		group := newTopSet(sc.limit, &objective{
			target:        domain.TargetBonus,
			targets:       []float64{target},
			msuLowerBound: sc.obj.msuLowerBound,
		})
		for _, d := range decks {
			if used[identityOf(d)] {
				continue
			}
			group.merge([]*scoredDeck{d})
		}
		for _, d := range group.decks {
			used[identityOf(d)] = true
			out = append(out, d)
		}
	}
	return out, nil
}
