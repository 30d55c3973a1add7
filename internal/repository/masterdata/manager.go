package masterdata

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/pkg/logger"
)

// Manager caches one Store per region and reloads when the upstream version
// advances. Loads are single-flighted; readers capture the store pointer at
// request start and keep using it even if a newer version lands mid-request.
type Manager struct {
	mu     sync.RWMutex
	stores map[domain.Region]*Store
	group  singleflight.Group
}

func NewManager() *Manager {
	return &Manager{stores: make(map[domain.Region]*Store)}
}

// Get returns the store for (region, version), loading it from dir when the
// cached version differs. Version downgrades are rejected.
func (m *Manager) Get(region domain.Region, dir string, version int64) (*Store, error) {
	m.mu.RLock()
	cur := m.stores[region]
	m.mu.RUnlock()

	if cur != nil {
		if cur.Version == version {
			return cur, nil
		}
		if version < cur.Version {
			return nil, fmt.Errorf("masterdata version downgrade for %s (%d -> %d): %w",
				region, cur.Version, version, domain.ErrInvalidOption)
		}
	}

	key := fmt.Sprintf("%s:%d", region, version)
	v, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.RLock()
		cached := m.stores[region]
		m.mu.RUnlock()
		if cached != nil && cached.Version == version {
			return cached, nil
		}

		s, err := load(region, dir, version)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.stores[region] = s
		m.mu.Unlock()

		logger.Info("masterdata loaded",
			"region", region, "version", version,
			"cards", len(s.cards), "events", len(s.events))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Current returns the cached store for a region without loading, or nil.
func (m *Manager) Current(region domain.Region) *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stores[region]
}
