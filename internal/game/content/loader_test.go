package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lantern/internal/game/content"
	"github.com/cory-johannsen/lantern/internal/game/encounter"
)

const validPoolYAML = `
pool:
  combats:
    - monster: Rust Hound
      force: 6
      reward:
        kind: none
    - monster: Vault Keeper
      force: 14
      elite: true
      reward:
        kind: hp_gain
        value: 12
  chests:
    - description: An iron-banded chest.
      trapped: true
      trap_damage: 5
      reward:
        kind: hp_gain
        value: 8
  dialogues:
    - character: A lost cartographer
      prompt: Trade light for knowledge?
      choices:
        - id: trade
          label: Hand over your lantern oil
          hp_delta: -2
          reward:
            kind: vision_gain
            value: 1
          text: The map fragment glows faintly.
        - id: decline
          label: Keep walking
          text: The cartographer sighs.
  shrines:
    - description: A shrine of black glass.
      cost: 10
      reward:
        kind: buff
        value: 3
`

func TestLoadPoolFromBytes_Valid(t *testing.T) {
	pool, err := content.LoadPoolFromBytes([]byte(validPoolYAML))
	require.NoError(t, err)

	require.Len(t, pool.Combats, 2)
	assert.Equal(t, "Rust Hound", pool.Combats[0].Monster)
	assert.True(t, pool.Combats[0].Reward.None())
	assert.True(t, pool.Combats[1].Elite)
	assert.Equal(t, encounter.RewardHpGain, pool.Combats[1].Reward.Kind)

	require.Len(t, pool.Chests, 1)
	assert.True(t, pool.Chests[0].Trapped)
	assert.Equal(t, 5, pool.Chests[0].TrapDamage)

	require.Len(t, pool.Dialogues, 1)
	require.Len(t, pool.Dialogues[0].Choices, 2)
	assert.Equal(t, "trade", pool.Dialogues[0].Choices[0].ID)
	assert.Equal(t, -2, pool.Dialogues[0].Choices[0].HpDelta)

	require.Len(t, pool.Shrines, 1)
	assert.Equal(t, encounter.RewardBuff, pool.Shrines[0].Reward.Kind)
}

func TestLoadPoolFromBytes_EmptyFileYieldsEmptyPool(t *testing.T) {
	pool, err := content.LoadPoolFromBytes([]byte("pool: {}"))
	require.NoError(t, err)
	assert.Empty(t, pool.Combats)
	assert.Empty(t, pool.Chests)
	assert.Empty(t, pool.Dialogues)
	assert.Empty(t, pool.Shrines)
}

func TestLoadPoolFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"combat without monster",
			"pool:\n  combats:\n    - force: 5\n",
			"monster must not be empty",
		},
		{
			"combat with zero force",
			"pool:\n  combats:\n    - monster: X\n      force: 0\n",
			"force must be >= 1",
		},
		{
			"unknown reward kind",
			"pool:\n  shrines:\n    - description: S\n      cost: 1\n      reward:\n        kind: gold\n        value: 3\n",
			"reward kind",
		},
		{
			"reward without value",
			"pool:\n  chests:\n    - description: C\n      reward:\n        kind: hp_gain\n",
			"value for hp_gain must be >= 1",
		},
		{
			"dialogue with one choice",
			"pool:\n  dialogues:\n    - character: A\n      prompt: B\n      choices:\n        - id: only\n          label: L\n",
			"2 or 3 choices",
		},
		{
			"dialogue with duplicate choice ids",
			"pool:\n  dialogues:\n    - character: A\n      prompt: B\n      choices:\n        - id: same\n          label: L1\n        - id: same\n          label: L2\n",
			"duplicate id",
		},
		{
			"negative trap damage",
			"pool:\n  chests:\n    - description: C\n      trap_damage: -1\n",
			"trap_damage must be >= 0",
		},
		{
			"malformed yaml",
			"pool: [not a map",
			"parsing content YAML",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := content.LoadPoolFromBytes([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadPoolFromFile_MissingFile(t *testing.T) {
	_, err := content.LoadPoolFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadPoolFromDir_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`
pool:
  combats:
    - monster: Rust Hound
      force: 6
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(`
pool:
  shrines:
    - description: A mossy shrine.
      cost: 4
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	pool, err := content.LoadPoolFromDir(dir)
	require.NoError(t, err)
	assert.Len(t, pool.Combats, 1)
	assert.Len(t, pool.Shrines, 1)
}
