package recommend

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
	"sekaiDeckRecommend/internal/repository/musicmeta"
	"sekaiDeckRecommend/internal/repository/playerdata"
	"sekaiDeckRecommend/pkg/config"
	"sekaiDeckRecommend/pkg/logger"
)

// Stand-in stats for the four multi-live teammates when the request leaves
// them unset.
const (
	defaultTeammatePower   = 250000
	defaultTeammateScoreUp = 200
)

// Service is the recommender facade: it validates a request, resolves the
// data stores, builds the candidate pool and dispatches the search.
type Service struct {
	masterdata *masterdata.Manager
	musicmeta  *musicmeta.Manager
	snapshots  *playerdata.Cache
	validate   *validator.Validate
	cfg        config.RecommendConfig
}

func NewService(md *masterdata.Manager, mm *musicmeta.Manager, snaps *playerdata.Cache,
	validate *validator.Validate, cfg config.RecommendConfig) *Service {
	return &Service{
		masterdata: md,
		musicmeta:  mm,
		snapshots:  snaps,
		validate:   validate,
		cfg:        cfg,
	}
}

// CacheUserdata parses and caches a player snapshot, returning its hash so
// later recommend calls can reference it without re-uploading.
func (s *Service) CacheUserdata(body []byte) (string, error) {
	return s.snapshots.Put(body)
}

// UpdateData loads (or reloads) the masterdata and music-meta stores for a
// region ahead of traffic.
func (s *Service) UpdateData(region domain.Region, mdPath string, mdVersion int64, mmPath string, mmTs int64) error {
	if _, err := s.masterdata.Get(region, mdPath, mdVersion); err != nil {
		return err
	}
	_, err := s.musicmeta.Get(region, mmPath, mmTs)
	return err
}

// Recommend runs one full request and shapes the transport response.
func (s *Service) Recommend(req *domain.RecommendRequest) (*domain.RecommendResponse, error) {
	start := time.Now()
	status := "error"
	defer func() {
		recommendDuration.Observe(time.Since(start).Seconds())
		recommendTotal.WithLabelValues(string(req.Options.LiveType), string(req.Options.Target), status).Inc()
	}()

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidOption)
	}
	opts := req.Options
	if err := normalizeOptions(&opts); err != nil {
		return nil, err
	}

	md, err := s.masterdata.Get(req.Region, req.MasterdataPath, req.MasterdataUpdateTs)
	if err != nil {
		return nil, err
	}
	mm, err := s.musicmeta.Get(req.Region, req.MusicmetasPath, req.MusicmetasUpdateTs)
	if err != nil {
		return nil, err
	}
	meta := mm.Row(opts.MusicID, opts.MusicDiff)
	if meta == nil {
		return nil, fmt.Errorf("no music meta for music %d diff %s: %w",
			opts.MusicID, opts.MusicDiff, domain.ErrDataUnavailable)
	}

	snap, err := s.snapshots.Snapshot(req.UserdataHash, req.Userdata, md)
	if err != nil {
		return nil, err
	}

	evt, err := buildEventContext(md, &opts)
	if err != nil {
		return nil, err
	}
	pool, err := buildPool(md, snap, evt, &opts)
	if err != nil {
		return nil, err
	}

	kernel := newScorer(meta, evt, &opts)
	obj := newObjective(&opts)

	resp := &domain.RecommendResponse{
		Status: "success",
		Alg:    opts.Algorithm,
		Result: &domain.RecommendResult{Decks: []domain.RecommendedDeck{}},
	}
	// Cost is the search time alone; wait is everything around it (data
	// loading, snapshot build, shaping) plus the queue age the caller stamped.
	var searchTime time.Duration
	finish := func() *domain.RecommendResponse {
		resp.CostTime = searchTime.Seconds()
		resp.WaitTime = (time.Since(start) - searchTime).Seconds()
		if req.CreateTs > 0 {
			if queued := start.Unix() - req.CreateTs; queued > 0 {
				resp.WaitTime += float64(queued)
			}
		}
		status = "success"
		return resp
	}

	if opts.Limit == 0 || !pool.viable() {
		return finish(), nil
	}

	// Five fixed cards pin the whole deck; evaluate it directly.
	if len(pool.fixedCards) == 5 {
		searchStart := time.Now()
		var deck [5]*effectiveCard
		copy(deck[:], pool.fixedCards)
		var eval deckEval
		kernel.evaluate(&deck, &eval)
		d := &scoredDeck{cards: deck, eval: eval}
		searchTime = time.Since(searchStart)
		resp.Result.Decks = append(resp.Result.Decks, shapeDeck(d, opts.Target))
		return finish(), nil
	}

	timeoutMs := opts.TimeoutMs
	if s.cfg.MaxTimeoutMs > 0 && timeoutMs > s.cfg.MaxTimeoutMs {
		timeoutMs = s.cfg.MaxTimeoutMs
	}
	deadline := start.Add(time.Duration(timeoutMs) * time.Millisecond)

	sc := &searchContext{
		pool:     pool,
		obj:      obj,
		kernel:   kernel,
		limit:    opts.Limit,
		deadline: deadline,
		seed:     opts.Seed,
		opts:     &opts,
	}

	searchStart := time.Now()
	var decks []*scoredDeck
	if opts.Target == domain.TargetBonus {
		decks, err = dispatchBonus(sc)
	} else {
		decks, err = dispatch(sc)
	}
	searchTime = time.Since(searchStart)
	if err != nil {
		return nil, err
	}

	if len(decks) == 0 && time.Now().After(deadline) {
		return nil, fmt.Errorf("no deck found within %dms: %w", timeoutMs, domain.ErrTimeout)
	}
	if len(decks) > 0 && time.Now().After(deadline) {
		resp.Warning = "deadline reached, results may be partial"
	}

	for _, d := range decks {
		resp.Result.Decks = append(resp.Result.Decks, shapeDeck(d, opts.Target))
	}

	logger.Debug("recommend completed",
		"region", req.Region, "target", opts.Target, "live_type", opts.LiveType,
		"decks", len(resp.Result.Decks), "cost", time.Since(start))
	return finish(), nil
}

// normalizeOptions applies cross-field rules and fills derived defaults.
func normalizeOptions(o *domain.RecommendOptions) error {
	if o.Target == domain.TargetSkill && o.LiveType != domain.LiveMulti {
		return fmt.Errorf("target skill requires live_type multi: %w", domain.ErrInvalidOption)
	}
	if o.LiveType == domain.LiveChallenge {
		if o.ChallengeLiveCharacterID == 0 {
			return fmt.Errorf("challenge live requires challenge_live_character_id: %w", domain.ErrInvalidOption)
		}
		if o.EventID != 0 {
			return fmt.Errorf("challenge live cannot target an event: %w", domain.ErrInvalidOption)
		}
	}
	if o.Target == domain.TargetBonus {
		if len(o.TargetBonusList) == 0 {
			return fmt.Errorf("target bonus requires target_bonus_list: %w", domain.ErrInvalidOption)
		}
		if o.Limit > 8*len(o.TargetBonusList) {
			return fmt.Errorf("limit %d exceeds 8 per bonus target: %w", o.Limit, domain.ErrInvalidOption)
		}
		for _, t := range o.TargetBonusList {
			if t < 0 {
				return fmt.Errorf("negative bonus target %v: %w", t, domain.ErrInvalidOption)
			}
		}
	}
	if o.SkillOrderChooseStrategy == domain.ChooseSpecific {
		if err := validateSkillOrder(o.SpecificSkillOrder); err != nil {
			return err
		}
	}

	if o.Algorithm == "" {
		o.Algorithm = domain.AlgAll
	}
	if o.SkillReferenceChooseStrategy == "" {
		// Challenge and no-event play want the best case; event play the
		// expected case.
		if o.LiveType == domain.LiveChallenge || (o.EventID == 0 && o.EventUnit == "") {
			o.SkillReferenceChooseStrategy = domain.ChooseMax
		} else {
			o.SkillReferenceChooseStrategy = domain.ChooseAverage
		}
	}
	if o.SkillOrderChooseStrategy == "" {
		// A challenge live is retried until the best activation order lands.
		if o.LiveType == domain.LiveChallenge {
			o.SkillOrderChooseStrategy = domain.ChooseMax
		} else {
			o.SkillOrderChooseStrategy = domain.ChooseAverage
		}
	}
	if o.LiveType == domain.LiveMulti {
		if o.MultiLiveTeammatePower == 0 {
			o.MultiLiveTeammatePower = defaultTeammatePower
		}
		if o.MultiLiveTeammateScoreUp == 0 {
			o.MultiLiveTeammateScoreUp = defaultTeammateScoreUp
		}
	}
	return nil
}

func validateSkillOrder(order []int) error {
	if len(order) != 5 {
		return fmt.Errorf("specific_skill_order needs five entries: %w", domain.ErrInvalidOption)
	}
	var seen [5]bool
	for _, v := range order {
		if v < 0 || v > 4 || seen[v] {
			return fmt.Errorf("specific_skill_order must be a permutation of 0..4: %w", domain.ErrInvalidOption)
		}
		seen[v] = true
	}
	return nil
}

// shapeDeck converts an internal deck to its transport form. Bonus targeting
// lists cards by descending contribution; everything else keeps kernel order.
func shapeDeck(d *scoredDeck, target domain.Target) domain.RecommendedDeck {
	idx := [5]int{0, 1, 2, 3, 4}
	if target == domain.TargetBonus {
		for a := 1; a < 5; a++ {
			for b := a; b > 0 && d.cards[idx[b]].eventBonus > d.cards[idx[b-1]].eventBonus; b-- {
				idx[b], idx[b-1] = idx[b-1], idx[b]
			}
		}
	}

	out := domain.RecommendedDeck{
		Cards:                make([]domain.RecommendedCard, 0, 5),
		LiveScore:            d.eval.liveScore,
		Score:                d.eval.points,
		EventBonusRate:       d.eval.eventBonus,
		SupportDeckBonusRate: d.eval.supportBonus,
		MultiLiveScoreUp:     d.eval.multiScoreUp,
		TotalPower:           d.eval.totalPower,
		Algorithms:           d.algs,
	}
	for _, i := range idx {
		ec := d.cards[i]
		rc := domain.RecommendedCard{
			CardID:         ec.cardID,
			Level:          ec.level,
			SkillLevel:     ec.skillLevel,
			MasterRank:     ec.masterRank,
			DefaultImage:   ec.image,
			EventBonusRate: ec.eventBonus,
			SkillScoreUp:   d.eval.skills[i],
			HasCanvasBonus: ec.canvas,
			CharacterID:    ec.characterID,
		}
		if ec.hasEpisodes {
			e1, e2 := ec.episode1Read, ec.episode2Read
			rc.Episode1Read, rc.Episode2Read = &e1, &e2
		}
		out.Cards = append(out.Cards, rc)
	}
	return out
}
