package encounter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lantern/internal/config"
	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/grid"
	"github.com/cory-johannsen/lantern/internal/game/rng"
)

func testEncounterConfig() config.EncounterConfig {
	return config.EncounterConfig{
		Weights: config.WeightsConfig{
			Combat:   4,
			Chest:    3,
			Dialogue: 2,
			Shrine:   1,
		},
		EliteChance:    0.2,
		TrapChance:     0.35,
		BaseForce:      6,
		EliteForce:     12,
		TrapDamage:     5,
		SacrificeCost:  10,
		CombatReward:   9,
		ChestReward:    8,
		ShrineReward:   2,
		DialogueRisk:   4,
		DialogueReward: 3,
	}
}

func minePoints(n, width int) []grid.Point {
	mines := make([]grid.Point, n)
	for i := range mines {
		mines[i] = grid.Point{X: i % width, Y: i / width}
	}
	return mines
}

func countTypes(records map[grid.Point]*encounter.Record) map[encounter.Type]int {
	counts := make(map[encounter.Type]int)
	for _, r := range records {
		counts[r.Type]++
	}
	return counts
}

func TestAssignWeighted_CoversEveryMineOnce(t *testing.T) {
	mines := minePoints(12, 5)
	e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(3), zap.NewNop())

	records := e.AssignWeighted(mines, nil)

	require.Len(t, records, len(mines))
	ids := make(map[string]bool)
	for _, p := range mines {
		r, ok := records[p]
		require.True(t, ok, "mine %v unassigned", p)
		assert.Equal(t, p.X, r.X)
		assert.Equal(t, p.Y, r.Y)
		assert.Equal(t, encounter.StateHidden, r.State)
		assert.True(t, r.Type.Valid())
		assert.NotEmpty(t, r.ID)
		assert.False(t, ids[r.ID], "duplicate record id")
		ids[r.ID] = true
	}
}

func TestAssignWeighted_RespectsForcedTypes(t *testing.T) {
	mines := minePoints(6, 3)
	forced := map[grid.Point]encounter.Type{
		{X: 0, Y: 0}: encounter.TypeShrine,
		{X: 2, Y: 1}: encounter.TypeDialogue,
	}
	e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(9), zap.NewNop())

	records := e.AssignWeighted(mines, forced)

	assert.Equal(t, encounter.TypeShrine, records[grid.Point{X: 0, Y: 0}].Type)
	assert.Equal(t, encounter.TypeDialogue, records[grid.Point{X: 2, Y: 1}].Type)
}

func TestAssignWeighted_ZeroWeightsDefaultToCombat(t *testing.T) {
	cfg := testEncounterConfig()
	cfg.Weights = config.WeightsConfig{}
	mines := minePoints(5, 5)
	e := encounter.NewEngine(cfg, encounter.Pool{}, rng.NewSeededSource(1), zap.NewNop())

	records := e.AssignWeighted(mines, nil)

	for _, r := range records {
		assert.Equal(t, encounter.TypeCombat, r.Type)
	}
}

func TestAssignWeighted_PoolTemplatesCopiedIntoParams(t *testing.T) {
	cfg := testEncounterConfig()
	cfg.Weights = config.WeightsConfig{Chest: 1} // chests only
	pool := encounter.Pool{
		Chests: []encounter.ChestParams{{
			Description: "The captain's strongbox.",
			Trapped:     true,
			TrapDamage:  7,
			Reward:      encounter.Reward{Kind: encounter.RewardHpGain, Value: 11},
		}},
	}
	mines := minePoints(1, 1)
	e := encounter.NewEngine(cfg, pool, rng.NewSeededSource(4), zap.NewNop())

	records := e.AssignWeighted(mines, nil)

	params, ok := records[grid.Point{X: 0, Y: 0}].Params.(encounter.ChestParams)
	require.True(t, ok)
	assert.Equal(t, "The captain's strongbox.", params.Description)
	assert.True(t, params.Trapped)
	assert.Equal(t, 7, params.TrapDamage)
	assert.Equal(t, 11, params.Reward.Value)
}

func TestAssignWeighted_EmptyPoolSynthesizesFromConfig(t *testing.T) {
	cfg := testEncounterConfig()
	cfg.Weights = config.WeightsConfig{Shrine: 1}
	mines := minePoints(3, 3)
	e := encounter.NewEngine(cfg, encounter.Pool{}, rng.NewSeededSource(4), zap.NewNop())

	records := e.AssignWeighted(mines, nil)

	for _, r := range records {
		params, ok := r.Params.(encounter.ShrineParams)
		require.True(t, ok)
		assert.Equal(t, cfg.SacrificeCost, params.Cost)
		assert.Equal(t, encounter.RewardVisionGain, params.Reward.Kind)
		assert.Equal(t, cfg.ShrineReward, params.Reward.Value)
		assert.NotEmpty(t, params.Description)
	}
}

func TestAssignWeighted_SynthesizedEliteUsesCombatReward(t *testing.T) {
	cfg := testEncounterConfig()
	cfg.Weights = config.WeightsConfig{Combat: 1}
	cfg.EliteChance = 1.0
	mines := minePoints(3, 3)
	e := encounter.NewEngine(cfg, encounter.Pool{}, rng.NewSeededSource(4), zap.NewNop())

	records := e.AssignWeighted(mines, nil)

	for _, r := range records {
		params, ok := r.Params.(encounter.CombatParams)
		require.True(t, ok)
		require.True(t, params.Elite)
		assert.Equal(t, cfg.EliteForce, params.Force)
		assert.Equal(t, encounter.RewardHpGain, params.Reward.Kind)
		assert.Equal(t, cfg.CombatReward, params.Reward.Value)
	}
}

func TestAssignExact_HitsTargetsExactly(t *testing.T) {
	mines := minePoints(10, 5)
	targets := map[encounter.Type]int{
		encounter.TypeCombat:   4,
		encounter.TypeChest:    3,
		encounter.TypeDialogue: 2,
		encounter.TypeShrine:   1,
	}
	e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(5), zap.NewNop())

	records := e.AssignExact(mines, targets, nil)

	require.Len(t, records, 10)
	counts := countTypes(records)
	assert.Equal(t, 4, counts[encounter.TypeCombat])
	assert.Equal(t, 3, counts[encounter.TypeChest])
	assert.Equal(t, 2, counts[encounter.TypeDialogue])
	assert.Equal(t, 1, counts[encounter.TypeShrine])
}

func TestAssignExact_ForcedCountsSubtractFromTargets(t *testing.T) {
	mines := minePoints(6, 3)
	forced := map[grid.Point]encounter.Type{
		{X: 0, Y: 0}: encounter.TypeChest,
		{X: 1, Y: 0}: encounter.TypeChest,
	}
	targets := map[encounter.Type]int{
		encounter.TypeChest:  3,
		encounter.TypeCombat: 3,
	}
	e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(6), zap.NewNop())

	records := e.AssignExact(mines, targets, forced)

	counts := countTypes(records)
	assert.Equal(t, 3, counts[encounter.TypeChest])
	assert.Equal(t, 3, counts[encounter.TypeCombat])
	assert.Equal(t, encounter.TypeChest, records[grid.Point{X: 0, Y: 0}].Type)
	assert.Equal(t, encounter.TypeChest, records[grid.Point{X: 1, Y: 0}].Type)
}

func TestAssignExact_ForcedOverflowFlooredAtZero(t *testing.T) {
	// More forced chests than the chest target: remaining target floors at
	// zero instead of going negative.
	mines := minePoints(4, 4)
	forced := map[grid.Point]encounter.Type{
		{X: 0, Y: 0}: encounter.TypeChest,
		{X: 1, Y: 0}: encounter.TypeChest,
		{X: 2, Y: 0}: encounter.TypeChest,
	}
	targets := map[encounter.Type]int{
		encounter.TypeChest:  1,
		encounter.TypeCombat: 1,
	}
	e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(8), zap.NewNop())

	records := e.AssignExact(mines, targets, forced)

	require.Len(t, records, 4)
	counts := countTypes(records)
	assert.Equal(t, 3, counts[encounter.TypeChest])
	assert.Equal(t, 1, counts[encounter.TypeCombat])
}

func TestAssignExact_TargetsExceedFreeCells_TruncatesWithWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	mines := minePoints(3, 3)
	targets := map[encounter.Type]int{
		encounter.TypeCombat: 4,
		encounter.TypeChest:  4,
	}
	e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(2), logger)

	records := e.AssignExact(mines, targets, nil)

	// Degrades, never fails: all mines still covered.
	require.Len(t, records, 3)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "truncating")
}

func TestAssignExact_LeftoverFreeCellsFilledByWeightedDraw(t *testing.T) {
	cfg := testEncounterConfig()
	cfg.Weights = config.WeightsConfig{Dialogue: 1}
	mines := minePoints(5, 5)
	targets := map[encounter.Type]int{encounter.TypeShrine: 2}
	e := encounter.NewEngine(cfg, encounter.Pool{}, rng.NewSeededSource(11), zap.NewNop())

	records := e.AssignExact(mines, targets, nil)

	counts := countTypes(records)
	assert.Equal(t, 2, counts[encounter.TypeShrine])
	assert.Equal(t, 3, counts[encounter.TypeDialogue])
}

func TestAssignExact_Property_AchievableTargetsMetExactly(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mineCount := rapid.IntRange(1, 30).Draw(rt, "mines")
		seed := rapid.Int64().Draw(rt, "seed")

		// Draw targets that never exceed the mine count in total.
		targets := make(map[encounter.Type]int)
		budget := mineCount
		for _, et := range encounter.Types {
			n := rapid.IntRange(0, budget).Draw(rt, "target_"+string(et))
			targets[et] = n
			budget -= n
		}

		mines := minePoints(mineCount, 6)
		e := encounter.NewEngine(testEncounterConfig(), encounter.Pool{}, rng.NewSeededSource(seed), zap.NewNop())
		records := e.AssignExact(mines, targets, nil)

		require.Len(rt, records, mineCount)
		counts := countTypes(records)
		for _, et := range encounter.Types {
			require.GreaterOrEqual(rt, counts[et], targets[et],
				"type %s below target", et)
		}
	})
}
