package playerdata

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
)

// Cache keeps parsed snapshots by content hash and materialized snapshots by
// (hash, masterdata version). Both sides are bounded LRUs; reads hand out
// immutable pointers.
type Cache struct {
	raw          *lru.Cache[string, *RawSnapshot]
	materialized *lru.Cache[string, *domain.PlayerSnapshot]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = 32
	}
	rawCache, err := lru.New[string, *RawSnapshot](size)
	if err != nil {
		return nil, err
	}
	matCache, err := lru.New[string, *domain.PlayerSnapshot](size)
	if err != nil {
		return nil, err
	}
	return &Cache{raw: rawCache, materialized: matCache}, nil
}

// Put parses and caches a snapshot upload, returning its hash.
func (c *Cache) Put(body []byte) (string, error) {
	snap, err := Parse(body)
	if err != nil {
		return "", err
	}
	c.raw.Add(snap.Hash, snap)
	return snap.Hash, nil
}

// Snapshot resolves a materialized snapshot for the request: by cached hash,
// or by parsing the inline body when one is supplied.
func (c *Cache) Snapshot(hash string, inline []byte, md *masterdata.Store) (*domain.PlayerSnapshot, error) {
	var raw *RawSnapshot
	switch {
	case len(inline) > 0:
		parsed, err := Parse(inline)
		if err != nil {
			return nil, err
		}
		c.raw.Add(parsed.Hash, parsed)
		raw = parsed
	case hash != "":
		cached, ok := c.raw.Get(hash)
		if !ok {
			return nil, fmt.Errorf("no cached snapshot for hash %s: %w", hash, domain.ErrDataUnavailable)
		}
		raw = cached
	default:
		return nil, fmt.Errorf("request carries neither userdata nor userdata_hash: %w", domain.ErrInvalidOption)
	}

	matKey := fmt.Sprintf("%s:%s:%d", raw.Hash, md.Region, md.Version)
	if snap, ok := c.materialized.Get(matKey); ok {
		return snap, nil
	}
	snap := Materialize(raw, md)
	c.materialized.Add(matKey, snap)
	return snap, nil
}
