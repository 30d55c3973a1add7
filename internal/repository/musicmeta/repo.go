package musicmeta

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/pkg/logger"
)

type rowKey struct {
	musicID uint
	diff    string
}

// Store holds one region's music meta at one upstream timestamp.
type Store struct {
	Region   domain.Region
	UpdateTs int64
	LoadedAt time.Time

	rows map[rowKey]*domain.MusicMeta
}

// Row returns the meta for (music, difficulty), or nil.
func (s *Store) Row(musicID uint, diff string) *domain.MusicMeta {
	return s.rows[rowKey{musicID, diff}]
}

// Len is the number of rows including synthesized omakase rows.
func (s *Store) Len() int { return len(s.rows) }

// Rows returns every row in unspecified order.
func (s *Store) Rows() []*domain.MusicMeta {
	out := make([]*domain.MusicMeta, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out
}

// Manager caches one Store per region, reloading when the upstream timestamp
// advances or the refresh interval elapses. Loads are single-flighted.
type Manager struct {
	mu      sync.RWMutex
	stores  map[domain.Region]*Store
	group   singleflight.Group
	refresh time.Duration
}

func NewManager(refresh time.Duration) *Manager {
	return &Manager{stores: make(map[domain.Region]*Store), refresh: refresh}
}

func (m *Manager) Get(region domain.Region, path string, updateTs int64) (*Store, error) {
	m.mu.RLock()
	cur := m.stores[region]
	m.mu.RUnlock()

	if cur != nil && cur.UpdateTs >= updateTs && time.Since(cur.LoadedAt) < m.refresh {
		return cur, nil
	}

	key := fmt.Sprintf("%s:%d", region, updateTs)
	v, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.RLock()
		cached := m.stores[region]
		m.mu.RUnlock()
		if cached != nil && cached.UpdateTs >= updateTs && time.Since(cached.LoadedAt) < m.refresh {
			return cached, nil
		}

		s, err := load(region, path, updateTs)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.stores[region] = s
		m.mu.Unlock()

		logger.Info("musicmetas loaded", "region", region, "update_ts", updateTs, "rows", s.Len())
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func load(region domain.Region, path string, updateTs int64) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read musicmetas for %s: %w", region, domain.ErrDataUnavailable)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("musicmetas for %s is not a JSON array: %w", region, domain.ErrDataUnavailable)
	}

	s := &Store{
		Region:   region,
		UpdateTs: updateTs,
		LoadedAt: time.Now(),
		rows:     make(map[rowKey]*domain.MusicMeta),
	}

	parsed.ForEach(func(_, r gjson.Result) bool {
		meta := parseRow(r)
		s.rows[rowKey{meta.MusicID, meta.Difficulty}] = meta
		return true
	})

	synthesizeOmakase(s)
	return s, nil
}

func parseRow(r gjson.Result) *domain.MusicMeta {
	meta := &domain.MusicMeta{
		MusicID:       uint(r.Get("music_id").Uint()),
		Difficulty:    r.Get("difficulty").String(),
		MusicTime:     r.Get("music_time").Float(),
		EventRate:     r.Get("event_rate").Float(),
		BaseScore:     r.Get("base_score").Float(),
		BaseScoreAuto: r.Get("base_score_auto").Float(),
		FeverScore:    r.Get("fever_score").Float(),
		FeverEndTime:  r.Get("fever_end_time").Float(),
		TapCount:      int(r.Get("tap_count").Int()),
	}
	for _, v := range r.Get("skill_score_solo").Array() {
		meta.SkillScoreSolo = append(meta.SkillScoreSolo, v.Float())
	}
	for _, v := range r.Get("skill_score_auto").Array() {
		meta.SkillScoreAuto = append(meta.SkillScoreAuto, v.Float())
	}
	for _, v := range r.Get("skill_score_multi").Array() {
		meta.SkillScoreMulti = append(meta.SkillScoreMulti, v.Float())
	}
	return meta
}

// synthesizeOmakase registers the virtual music 10000: the arithmetic mean
// over every master/expert/hard row in the file, one identical row per
// averaged difficulty. Upstream rows win if the file already carries them.
func synthesizeOmakase(s *Store) {
	diffSet := make(map[string]bool, len(domain.OmakaseMusicDiffs))
	for _, d := range domain.OmakaseMusicDiffs {
		diffSet[d] = true
	}

	avg := &domain.MusicMeta{
		MusicID:         domain.OmakaseMusicID,
		SkillScoreSolo:  make([]float64, 6),
		SkillScoreAuto:  make([]float64, 6),
		SkillScoreMulti: make([]float64, 6),
	}
	n := 0
	for key, row := range s.rows {
		if key.musicID == domain.OmakaseMusicID || !diffSet[key.diff] {
			continue
		}
		n++
		avg.MusicTime += row.MusicTime
		avg.EventRate += row.EventRate
		avg.BaseScore += row.BaseScore
		avg.BaseScoreAuto += row.BaseScoreAuto
		avg.FeverScore += row.FeverScore
		avg.FeverEndTime += row.FeverEndTime
		avg.TapCount += row.TapCount
		for i := 0; i < 6; i++ {
			if i < len(row.SkillScoreSolo) {
				avg.SkillScoreSolo[i] += row.SkillScoreSolo[i]
			}
			if i < len(row.SkillScoreAuto) {
				avg.SkillScoreAuto[i] += row.SkillScoreAuto[i]
			}
			if i < len(row.SkillScoreMulti) {
				avg.SkillScoreMulti[i] += row.SkillScoreMulti[i]
			}
		}
	}
	if n == 0 {
		return
	}

	avg.MusicTime /= float64(n)
	avg.EventRate /= float64(n)
	avg.BaseScore /= float64(n)
	avg.BaseScoreAuto /= float64(n)
	avg.FeverScore /= float64(n)
	avg.FeverEndTime /= float64(n)
	avg.TapCount /= n
	for i := 0; i < 6; i++ {
		avg.SkillScoreSolo[i] /= float64(n)
		avg.SkillScoreAuto[i] /= float64(n)
		avg.SkillScoreMulti[i] /= float64(n)
	}

	for _, d := range domain.OmakaseMusicDiffs {
		key := rowKey{domain.OmakaseMusicID, d}
		if _, exists := s.rows[key]; exists {
			continue
		}
		row := *avg
		row.Difficulty = d
		s.rows[key] = &row
	}
}
