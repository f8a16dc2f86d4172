package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/grid"
)

// yamlLevelFile is the top-level YAML structure for level files.
type yamlLevelFile struct {
	Level yamlLevel `yaml:"level"`
}

// yamlLevel is the YAML representation of a level.
type yamlLevel struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Width     int            `yaml:"width"`
	Height    int            `yaml:"height"`
	Mines     []yamlPoint    `yaml:"mines"`
	Lit       []yamlPoint    `yaml:"lit"`
	Forced    []yamlForced   `yaml:"forced"`
	Targets   map[string]int `yaml:"targets"`
	ScriptDir string         `yaml:"script_dir"`
}

type yamlPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type yamlForced struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Type string `yaml:"type"`
}

// LoadFromFile reads and validates a single level YAML file.
//
// Precondition: path must point to a valid YAML level file.
// Postcondition: Returns a validated Level or a non-nil error.
func LoadFromFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a level from YAML bytes.
func LoadFromBytes(data []byte) (*Level, error) {
	var file yamlLevelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing level YAML: %w", err)
	}

	y := file.Level
	l := &Level{
		ID:        y.ID,
		Name:      y.Name,
		Width:     y.Width,
		Height:    y.Height,
		ScriptDir: y.ScriptDir,
	}
	for _, p := range y.Mines {
		l.Mines = append(l.Mines, grid.Point{X: p.X, Y: p.Y})
	}
	for _, p := range y.Lit {
		l.Lit = append(l.Lit, grid.Point{X: p.X, Y: p.Y})
	}
	if len(y.Forced) > 0 {
		l.Forced = make(map[grid.Point]encounter.Type, len(y.Forced))
		for _, f := range y.Forced {
			l.Forced[grid.Point{X: f.X, Y: f.Y}] = encounter.Type(f.Type)
		}
	}
	if len(y.Targets) > 0 {
		l.Targets = make(map[encounter.Type]int, len(y.Targets))
		for t, n := range y.Targets {
			l.Targets[encounter.Type(t)] = n
		}
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}
