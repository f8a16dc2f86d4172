package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/grid"
	"github.com/cory-johannsen/lantern/internal/game/level"
)

const validLevelYAML = `
level:
  id: crypt-1
  name: The Sunken Crypt
  width: 8
  height: 6
  mines:
    - {x: 1, y: 1}
    - {x: 4, y: 2}
    - {x: 6, y: 5}
  lit:
    - {x: 0, y: 0}
    - {x: 1, y: 0}
  forced:
    - {x: 4, y: 2, type: shrine}
  targets:
    combat: 2
    shrine: 1
  script_dir: scripts/crypt-1
`

func TestLoadFromBytes_Valid(t *testing.T) {
	l, err := level.LoadFromBytes([]byte(validLevelYAML))
	require.NoError(t, err)

	assert.Equal(t, "crypt-1", l.ID)
	assert.Equal(t, "The Sunken Crypt", l.Name)
	assert.Equal(t, 8, l.Width)
	assert.Equal(t, 6, l.Height)
	assert.Len(t, l.Mines, 3)
	assert.Len(t, l.Lit, 2)
	assert.Equal(t, encounter.TypeShrine, l.Forced[grid.Point{X: 4, Y: 2}])
	assert.Equal(t, 2, l.Targets[encounter.TypeCombat])
	assert.Equal(t, "scripts/crypt-1", l.ScriptDir)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"missing id",
			"level:\n  width: 3\n  height: 3\n",
			"id must not be empty",
		},
		{
			"zero width",
			"level:\n  id: x\n  width: 0\n  height: 3\n",
			"dimensions must be positive",
		},
		{
			"mine out of bounds",
			"level:\n  id: x\n  width: 3\n  height: 3\n  mines:\n    - {x: 3, y: 0}\n",
			"out of bounds",
		},
		{
			"duplicate mine",
			"level:\n  id: x\n  width: 3\n  height: 3\n  mines:\n    - {x: 1, y: 1}\n    - {x: 1, y: 1}\n",
			"duplicate mine",
		},
		{
			"forced on non-mine",
			"level:\n  id: x\n  width: 3\n  height: 3\n  mines:\n    - {x: 1, y: 1}\n  forced:\n    - {x: 0, y: 0, type: chest}\n",
			"is not a mine",
		},
		{
			"forced with bad type",
			"level:\n  id: x\n  width: 3\n  height: 3\n  mines:\n    - {x: 1, y: 1}\n  forced:\n    - {x: 1, y: 1, type: boss}\n",
			"not recognised",
		},
		{
			"unknown target type",
			"level:\n  id: x\n  width: 3\n  height: 3\n  targets:\n    boss: 1\n",
			"not recognised",
		},
		{
			"negative target",
			"level:\n  id: x\n  width: 3\n  height: 3\n  targets:\n    chest: -1\n",
			"must be >= 0",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := level.LoadFromBytes([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBuildGrid(t *testing.T) {
	l, err := level.LoadFromBytes([]byte(validLevelYAML))
	require.NoError(t, err)

	g := l.BuildGrid()
	assert.Equal(t, 8, g.Width())
	assert.Equal(t, 6, g.Height())
	assert.Equal(t, 3, g.MineCount())

	c, ok := g.Get(1, 1)
	require.True(t, ok)
	assert.True(t, c.HasMine)
	assert.True(t, c.Active)

	c, _ = g.Get(0, 0)
	assert.True(t, c.Lit())
	c, _ = g.Get(5, 5)
	assert.False(t, c.Lit())
}
