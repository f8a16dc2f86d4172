// Package content loads reusable encounter templates from YAML files into
// the assignment engine's content pool.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/lantern/internal/game/encounter"
)

// yamlPoolFile is the top-level YAML structure for content files.
type yamlPoolFile struct {
	Pool yamlPool `yaml:"pool"`
}

// yamlPool is the YAML representation of a content pool.
type yamlPool struct {
	Combats   []yamlCombat   `yaml:"combats"`
	Chests    []yamlChest    `yaml:"chests"`
	Dialogues []yamlDialogue `yaml:"dialogues"`
	Shrines   []yamlShrine   `yaml:"shrines"`
}

type yamlCombat struct {
	Monster string     `yaml:"monster"`
	Force   int        `yaml:"force"`
	Elite   bool       `yaml:"elite"`
	Reward  yamlReward `yaml:"reward"`
}

type yamlChest struct {
	Description string     `yaml:"description"`
	Trapped     bool       `yaml:"trapped"`
	TrapDamage  int        `yaml:"trap_damage"`
	Reward      yamlReward `yaml:"reward"`
}

type yamlDialogue struct {
	Character string       `yaml:"character"`
	Prompt    string       `yaml:"prompt"`
	Choices   []yamlChoice `yaml:"choices"`
}

type yamlChoice struct {
	ID      string     `yaml:"id"`
	Label   string     `yaml:"label"`
	HpDelta int        `yaml:"hp_delta"`
	Reward  yamlReward `yaml:"reward"`
	Text    string     `yaml:"text"`
}

type yamlShrine struct {
	Description string     `yaml:"description"`
	Cost        int        `yaml:"cost"`
	Reward      yamlReward `yaml:"reward"`
}

type yamlReward struct {
	Kind  string `yaml:"kind"`
	Value int    `yaml:"value"`
}

// LoadPoolFromFile reads and validates a single content YAML file.
//
// Precondition: path must point to a valid YAML content file.
// Postcondition: Returns a validated pool or a non-nil error.
func LoadPoolFromFile(path string) (encounter.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return encounter.Pool{}, fmt.Errorf("reading content file %s: %w", path, err)
	}
	pool, err := LoadPoolFromBytes(data)
	if err != nil {
		return encounter.Pool{}, fmt.Errorf("content file %s: %w", path, err)
	}
	return pool, nil
}

// LoadPoolFromDir loads and merges every *.yaml file in dir, in
// lexicographic order.
//
// Postcondition: Returns the merged pool; a directory with no YAML files
// yields an empty pool, which is valid (assignment synthesizes fallbacks).
func LoadPoolFromDir(dir string) (encounter.Pool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return encounter.Pool{}, fmt.Errorf("reading content dir %s: %w", dir, err)
	}

	var merged encounter.Pool
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		pool, err := LoadPoolFromFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return encounter.Pool{}, err
		}
		merged.Combats = append(merged.Combats, pool.Combats...)
		merged.Chests = append(merged.Chests, pool.Chests...)
		merged.Dialogues = append(merged.Dialogues, pool.Dialogues...)
		merged.Shrines = append(merged.Shrines, pool.Shrines...)
	}
	return merged, nil
}

// LoadPoolFromBytes parses and validates a pool from YAML bytes.
func LoadPoolFromBytes(data []byte) (encounter.Pool, error) {
	var file yamlPoolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return encounter.Pool{}, fmt.Errorf("parsing content YAML: %w", err)
	}

	var pool encounter.Pool

	for i, c := range file.Pool.Combats {
		if c.Monster == "" {
			return encounter.Pool{}, fmt.Errorf("combat[%d]: monster must not be empty", i)
		}
		if c.Force < 1 {
			return encounter.Pool{}, fmt.Errorf("combat[%d] %q: force must be >= 1, got %d", i, c.Monster, c.Force)
		}
		reward, err := convertReward(c.Reward)
		if err != nil {
			return encounter.Pool{}, fmt.Errorf("combat[%d] %q: %w", i, c.Monster, err)
		}
		pool.Combats = append(pool.Combats, encounter.CombatParams{
			Monster: c.Monster,
			Force:   c.Force,
			Elite:   c.Elite,
			Reward:  reward,
		})
	}

	for i, c := range file.Pool.Chests {
		if c.Description == "" {
			return encounter.Pool{}, fmt.Errorf("chest[%d]: description must not be empty", i)
		}
		if c.TrapDamage < 0 {
			return encounter.Pool{}, fmt.Errorf("chest[%d]: trap_damage must be >= 0, got %d", i, c.TrapDamage)
		}
		reward, err := convertReward(c.Reward)
		if err != nil {
			return encounter.Pool{}, fmt.Errorf("chest[%d]: %w", i, err)
		}
		pool.Chests = append(pool.Chests, encounter.ChestParams{
			Description: c.Description,
			Trapped:     c.Trapped,
			TrapDamage:  c.TrapDamage,
			Reward:      reward,
		})
	}

	for i, d := range file.Pool.Dialogues {
		params, err := convertDialogue(d)
		if err != nil {
			return encounter.Pool{}, fmt.Errorf("dialogue[%d]: %w", i, err)
		}
		pool.Dialogues = append(pool.Dialogues, params)
	}

	for i, s := range file.Pool.Shrines {
		if s.Description == "" {
			return encounter.Pool{}, fmt.Errorf("shrine[%d]: description must not be empty", i)
		}
		if s.Cost < 0 {
			return encounter.Pool{}, fmt.Errorf("shrine[%d]: cost must be >= 0, got %d", i, s.Cost)
		}
		reward, err := convertReward(s.Reward)
		if err != nil {
			return encounter.Pool{}, fmt.Errorf("shrine[%d]: %w", i, err)
		}
		pool.Shrines = append(pool.Shrines, encounter.ShrineParams{
			Description: s.Description,
			Cost:        s.Cost,
			Reward:      reward,
		})
	}

	return pool, nil
}

func convertDialogue(d yamlDialogue) (encounter.DialogueParams, error) {
	if d.Character == "" {
		return encounter.DialogueParams{}, fmt.Errorf("character must not be empty")
	}
	if d.Prompt == "" {
		return encounter.DialogueParams{}, fmt.Errorf("prompt must not be empty")
	}
	if len(d.Choices) < 2 || len(d.Choices) > 3 {
		return encounter.DialogueParams{}, fmt.Errorf("must have 2 or 3 choices, got %d", len(d.Choices))
	}

	params := encounter.DialogueParams{
		Character: d.Character,
		Prompt:    d.Prompt,
	}
	seen := make(map[string]bool, len(d.Choices))
	for i, c := range d.Choices {
		if c.ID == "" {
			return encounter.DialogueParams{}, fmt.Errorf("choice[%d]: id must not be empty", i)
		}
		if seen[c.ID] {
			return encounter.DialogueParams{}, fmt.Errorf("choice[%d]: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
		if c.Label == "" {
			return encounter.DialogueParams{}, fmt.Errorf("choice %q: label must not be empty", c.ID)
		}
		reward, err := convertReward(c.Reward)
		if err != nil {
			return encounter.DialogueParams{}, fmt.Errorf("choice %q: %w", c.ID, err)
		}
		params.Choices = append(params.Choices, encounter.DialogueChoice{
			ID:      c.ID,
			Label:   c.Label,
			HpDelta: c.HpDelta,
			Reward:  reward,
			Text:    c.Text,
		})
	}
	return params, nil
}

func convertReward(r yamlReward) (encounter.Reward, error) {
	switch r.Kind {
	case "", "none":
		return encounter.Reward{Kind: encounter.RewardNone}, nil
	case "hp_gain":
		return validatedReward(encounter.RewardHpGain, r.Value)
	case "vision_gain":
		return validatedReward(encounter.RewardVisionGain, r.Value)
	case "buff":
		return validatedReward(encounter.RewardBuff, r.Value)
	default:
		return encounter.Reward{}, fmt.Errorf("reward kind must be one of [none, hp_gain, vision_gain, buff], got %q", r.Kind)
	}
}

func validatedReward(kind encounter.RewardKind, value int) (encounter.Reward, error) {
	if value < 1 {
		return encounter.Reward{}, fmt.Errorf("reward value for %s must be >= 1, got %d", kind, value)
	}
	return encounter.Reward{Kind: kind, Value: value}, nil
}
