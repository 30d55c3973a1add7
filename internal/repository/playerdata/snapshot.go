package playerdata

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/tidwall/gjson"

	"sekaiDeckRecommend/domain"
	"sekaiDeckRecommend/internal/repository/masterdata"
)

// RawSnapshot is a parsed player upload, independent of any masterdata
// version. Materialization against a concrete Store happens per request.
type RawSnapshot struct {
	Hash string

	Cards                 []domain.OwnedCard
	AreaItems             []userAreaItem
	CharacterRanks        map[uint]int
	MysekaiGates          []userGate
	MysekaiFixtureBonuses map[uint]float64
}

type userAreaItem struct {
	ID    uint
	Level int
}

type userGate struct {
	ID    uint
	Level int
}

// Parse decodes a raw snapshot JSON body. userCards is required; everything
// else defaults to empty.
func Parse(raw []byte) (*RawSnapshot, error) {
	parsed := gjson.ParseBytes(raw)
	cards := parsed.Get("userCards")
	if !cards.Exists() || !cards.IsArray() {
		return nil, fmt.Errorf("snapshot missing userCards: %w", domain.ErrDataUnavailable)
	}

	sum := md5.Sum(raw)
	s := &RawSnapshot{
		Hash:                  hex.EncodeToString(sum[:]),
		CharacterRanks:        make(map[uint]int),
		MysekaiFixtureBonuses: make(map[uint]float64),
	}

	canvas := make(map[uint]bool)
	parsed.Get("userCanvasBonuses").ForEach(func(_, r gjson.Result) bool {
		canvas[uint(r.Get("cardId").Uint())] = true
		return true
	})

	cards.ForEach(func(_, r gjson.Result) bool {
		oc := domain.OwnedCard{
			CardID:             uint(r.Get("cardId").Uint()),
			Level:              int(r.Get("level").Int()),
			MasterRank:         int(r.Get("masterRank").Int()),
			SkillLevel:         int(r.Get("skillLevel").Int()),
			Episode1Read:       r.Get("episode1Read").Bool(),
			Episode2Read:       r.Get("episode2Read").Bool(),
			AfterTrainingState: domain.TrainingNone,
			DefaultImage:       domain.ImageOriginal,
		}
		if st := r.Get("specialTrainingStatus").String(); st != "" {
			oc.AfterTrainingState = domain.AfterTrainingState(st)
		}
		if img := r.Get("defaultImage").String(); img != "" {
			oc.DefaultImage = domain.CardImage(img)
		}
		oc.CanvasBonus = canvas[oc.CardID]
		s.Cards = append(s.Cards, oc)
		return true
	})

	parsed.Get("userAreaItems").ForEach(func(_, r gjson.Result) bool {
		s.AreaItems = append(s.AreaItems, userAreaItem{
			ID:    uint(r.Get("areaItemId").Uint()),
			Level: int(r.Get("level").Int()),
		})
		return true
	})

	parsed.Get("userCharacters").ForEach(func(_, r gjson.Result) bool {
		s.CharacterRanks[uint(r.Get("characterId").Uint())] = int(r.Get("characterRank").Int())
		return true
	})

	parsed.Get("userMysekaiGates").ForEach(func(_, r gjson.Result) bool {
		s.MysekaiGates = append(s.MysekaiGates, userGate{
			ID:    uint(r.Get("mysekaiGateId").Uint()),
			Level: int(r.Get("level").Int()),
		})
		return true
	})

	parsed.Get("userMysekaiFixtureBonuses").ForEach(func(_, r gjson.Result) bool {
		cid := uint(r.Get("characterId").Uint())
		s.MysekaiFixtureBonuses[cid] += r.Get("powerBonusRate").Float()
		return true
	})

	return s, nil
}

// Materialize folds every out-of-deck power source into the per-character /
// per-unit / per-attribute tables the realizer reads.
func Materialize(raw *RawSnapshot, md *masterdata.Store) *domain.PlayerSnapshot {
	snap := &domain.PlayerSnapshot{
		Hash:           raw.Hash,
		Cards:          raw.Cards,
		CharacterBonus: make(map[uint]float64),
		UnitBonus:      make(map[domain.Unit]float64),
		AttrBonus:      make(map[domain.CardAttr]float64),
		CharacterRank:  raw.CharacterRanks,
	}

	for _, item := range raw.AreaItems {
		lvl := md.AreaItemLevel(item.ID, item.Level)
		if lvl == nil {
			continue
		}
		switch {
		case lvl.TargetCharacterID != 0:
			snap.CharacterBonus[lvl.TargetCharacterID] += lvl.PowerBonusRate
		case lvl.TargetUnit != "" && lvl.TargetUnit != domain.UnitNone:
			snap.UnitBonus[lvl.TargetUnit] += lvl.PowerBonusRate
		case lvl.TargetAttr != "":
			snap.AttrBonus[lvl.TargetAttr] += lvl.PowerBonusRate
		}
	}

	for cid, rank := range raw.CharacterRanks {
		snap.CharacterBonus[cid] += md.CharacterRankBonus(cid, rank)
	}

	for _, gate := range raw.MysekaiGates {
		unit := md.MysekaiGateUnit(gate.ID)
		if unit == domain.UnitNone {
			continue
		}
		snap.UnitBonus[unit] += md.MysekaiGateBonus(gate.ID, gate.Level)
	}

	for cid, rate := range raw.MysekaiFixtureBonuses {
		snap.CharacterBonus[cid] += rate
	}

	return snap
}
