package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/lantern/internal/config"
	"github.com/cory-johannsen/lantern/internal/game/grid"
	"github.com/cory-johannsen/lantern/internal/game/rng"
)

// Engine assigns a type and fully-populated parameters to every mined cell.
// It runs once at level start. The distribution config is read-only; the
// randomness source is injected so assignments are reproducible under a
// seeded source.
type Engine struct {
	cfg    config.EncounterConfig
	pool   Pool
	src    rng.Source
	logger *zap.Logger
}

// NewEngine creates an assignment Engine.
//
// Precondition: src and logger must be non-nil. An empty pool is valid; all
// parameters are then synthesized from cfg.
func NewEngine(cfg config.EncounterConfig, pool Pool, src rng.Source, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, pool: pool, src: src, logger: logger}
}

// AssignWeighted assigns every mine cell an encounter. Cells present in
// forced take the forced type; every other cell draws its type by weighted
// random selection over the distribution config. Forced entries at non-mine
// coordinates or with unrecognised types are ignored.
//
// Postcondition: the returned mapping covers every mine exactly once.
func (e *Engine) AssignWeighted(mines []grid.Point, forced map[grid.Point]Type) map[grid.Point]*Record {
	types := make(map[grid.Point]Type, len(mines))
	for _, p := range mines {
		if t, ok := forced[p]; ok && t.Valid() {
			types[p] = t
			continue
		}
		types[p] = e.drawType()
	}
	return e.buildRecords(mines, types)
}

// AssignExact assigns every mine cell an encounter so that per-type counts
// match targets exactly, after accounting for forced overrides. Free cells
// are shuffled first for unbiased spatial distribution. When the remaining
// targets exceed the free cell count the type list is shuffled and truncated
// (a Warn log, not a failure); free cells beyond the targets fall back to the
// weighted draw.
//
// Postcondition: the returned mapping covers every mine exactly once; when
// sum(targets) <= len(mines) and forced counts do not exceed targets, the
// per-type counts equal targets exactly.
func (e *Engine) AssignExact(mines []grid.Point, targets map[Type]int, forced map[grid.Point]Type) map[grid.Point]*Record {
	types := make(map[grid.Point]Type, len(mines))

	// Partition mines into forced and free.
	forcedCount := make(map[Type]int)
	free := make([]grid.Point, 0, len(mines))
	for _, p := range mines {
		if t, ok := forced[p]; ok && t.Valid() {
			types[p] = t
			forcedCount[t]++
			continue
		}
		free = append(free, p)
	}

	rng.Shuffle(free, e.src)

	// Remaining targets, floored at zero.
	var list []Type
	for _, t := range Types {
		remaining := targets[t] - forcedCount[t]
		for i := 0; i < remaining; i++ {
			list = append(list, t)
		}
	}

	if len(list) > len(free) {
		e.logger.Warn("encounter targets exceed free mine cells; truncating",
			zap.Int("targets", len(list)),
			zap.Int("free", len(free)),
		)
		rng.Shuffle(list, e.src)
		list = list[:len(free)]
	}

	for i, p := range free {
		if i < len(list) {
			types[p] = list[i]
			continue
		}
		types[p] = e.drawType()
	}

	return e.buildRecords(mines, types)
}

// drawType draws an encounter type by cumulative-bin weighted selection.
// A zero total weight deterministically falls back to combat.
func (e *Engine) drawType() Type {
	w := e.cfg.Weights
	idx := rng.WeightedIndex([]float64{w.Combat, w.Chest, w.Dialogue, w.Shrine}, e.src)
	if idx < 0 {
		return TypeCombat
	}
	return Types[idx]
}

// buildRecords populates parameters for every assigned cell: pool templates
// are drawn per type with DrawFromPool; cells left without a template get
// parameters synthesized from the distribution config.
func (e *Engine) buildRecords(mines []grid.Point, types map[grid.Point]Type) map[grid.Point]*Record {
	byType := make(map[Type][]grid.Point)
	for _, p := range mines {
		t := types[p]
		byType[t] = append(byType[t], p)
	}

	records := make(map[grid.Point]*Record, len(mines))

	combats := DrawFromPool(e.pool.Combats, len(byType[TypeCombat]), e.src)
	for i, p := range byType[TypeCombat] {
		params := e.synthesizeCombat()
		if combats[i] != nil {
			params = *combats[i]
		}
		records[p] = newRecord(p.X, p.Y, TypeCombat, params)
	}

	chests := DrawFromPool(e.pool.Chests, len(byType[TypeChest]), e.src)
	for i, p := range byType[TypeChest] {
		params := e.synthesizeChest()
		if chests[i] != nil {
			params = *chests[i]
		}
		records[p] = newRecord(p.X, p.Y, TypeChest, params)
	}

	dialogues := DrawFromPool(e.pool.Dialogues, len(byType[TypeDialogue]), e.src)
	for i, p := range byType[TypeDialogue] {
		params := e.synthesizeDialogue()
		if dialogues[i] != nil {
			params = *dialogues[i]
		}
		records[p] = newRecord(p.X, p.Y, TypeDialogue, params)
	}

	shrines := DrawFromPool(e.pool.Shrines, len(byType[TypeShrine]), e.src)
	for i, p := range byType[TypeShrine] {
		params := e.synthesizeShrine()
		if shrines[i] != nil {
			params = *shrines[i]
		}
		records[p] = newRecord(p.X, p.Y, TypeShrine, params)
	}

	e.logger.Debug("encounters assigned",
		zap.Int("mines", len(mines)),
		zap.Int("combat", len(byType[TypeCombat])),
		zap.Int("chest", len(byType[TypeChest])),
		zap.Int("dialogue", len(byType[TypeDialogue])),
		zap.Int("shrine", len(byType[TypeShrine])),
	)
	return records
}

func (e *Engine) synthesizeCombat() CombatParams {
	elite := e.src.Float64() < e.cfg.EliteChance
	params := CombatParams{
		Monster: "Pale Lurker",
		Force:   e.cfg.BaseForce,
		Elite:   elite,
	}
	if elite {
		params.Monster = "Elite Pale Lurker"
		params.Force = e.cfg.EliteForce
		params.Reward = Reward{Kind: RewardHpGain, Value: e.cfg.CombatReward}
	}
	return params
}

func (e *Engine) synthesizeChest() ChestParams {
	return ChestParams{
		Description: "A battered strongbox half-buried in rubble.",
		Trapped:     e.src.Float64() < e.cfg.TrapChance,
		TrapDamage:  e.cfg.TrapDamage,
		Reward:      Reward{Kind: RewardHpGain, Value: e.cfg.ChestReward},
	}
}

func (e *Engine) synthesizeDialogue() DialogueParams {
	return DialogueParams{
		Character: "A hooded stranger",
		Prompt:    "The stranger beckons you closer. Do you listen?",
		Choices: []DialogueChoice{
			{
				ID:    "walk-away",
				Label: "Walk away",
				Text:  "You leave the stranger muttering in the dark.",
			},
			{
				ID:      "listen",
				Label:   "Lean in and listen",
				HpDelta: -e.cfg.DialogueRisk,
				Reward:  Reward{Kind: RewardBuff, Value: e.cfg.DialogueReward},
				Text:    "The whispered secret costs you, but sharpens your blade.",
			},
		},
	}
}

func (e *Engine) synthesizeShrine() ShrineParams {
	return ShrineParams{
		Description: "A cold shrine demanding tribute in blood.",
		Cost:        e.cfg.SacrificeCost,
		Reward:      Reward{Kind: RewardVisionGain, Value: e.cfg.ShrineReward},
	}
}
