// Package run owns the per-level gameplay aggregates and drives the
// interaction loop: revealing cells, resolving encounters, applying rewards,
// and appending to the run log. Everything below it (grid, visibility,
// encounter, combat) is pure or near-pure; this is where the pieces meet.
package run

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lantern/internal/config"
	"github.com/cory-johannsen/lantern/internal/game/combat"
	"github.com/cory-johannsen/lantern/internal/game/encounter"
	"github.com/cory-johannsen/lantern/internal/game/grid"
	"github.com/cory-johannsen/lantern/internal/game/level"
	"github.com/cory-johannsen/lantern/internal/game/rng"
	"github.com/cory-johannsen/lantern/internal/game/runlog"
	"github.com/cory-johannsen/lantern/internal/game/visibility"
	"github.com/cory-johannsen/lantern/internal/scripting"
)

// Sentinel errors for interaction guards. These are expected conditions a
// caller can branch on, not failures.
var (
	ErrRunOver         = errors.New("run: the player is dead")
	ErrNoEncounter     = errors.New("run: no encounter at cell")
	ErrAlreadyResolved = errors.New("run: encounter already resolved")
	ErrNotCombat       = errors.New("run: encounter is not a combat")
	ErrCombatChoice    = errors.New("run: combat encounters resolve through ResolveCombat")
)

// Run is one play session on one level. It owns the grid, the visibility
// field, the assigned encounter records, and the player state (HP, combat
// force, the damage buff counter). Run is not safe for concurrent use.
type Run struct {
	id      string
	lvl     *level.Level
	grid    *grid.Grid
	vis     *visibility.Engine
	records map[grid.Point]*encounter.Record
	log     *runlog.Log
	scripts *scripting.Manager
	logger  *zap.Logger

	hp          int
	force       int
	buffCombats int
	dead        bool
}

// New builds a run for the given level: the grid is constructed from the
// level definition, the level script (if any) is loaded and its
// on_level_start hook fired so it can paint extra lights and forced types,
// encounters are assigned (exact-target mode when the level declares
// targets, weighted mode otherwise), and the initial visibility field is
// computed.
//
// Precondition: lvl validates, cfg validates, src and logger are non-nil.
// Postcondition: every mine cell has exactly one hidden encounter record.
func New(lvl *level.Level, pool encounter.Pool, cfg config.Config, src rng.Source, logger *zap.Logger) (*Run, error) {
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	g := lvl.BuildGrid()
	r := &Run{
		id:     uuid.NewString(),
		lvl:    lvl,
		grid:   g,
		vis:    visibility.NewEngine(cfg.Visibility.FalloffRadius, logger),
		log:    runlog.New(),
		logger: logger.With(zap.String("level", lvl.ID)),
		hp:     cfg.Player.StartingHP,
		force:  cfg.Player.Force,
	}

	// The script paints into this map before assignment runs; script-forced
	// types override the level YAML for the same cell.
	scriptForced := make(map[grid.Point]encounter.Type)
	r.scripts = scripting.NewManager(scripting.Callbacks{
		ForceType: func(x, y int, typeName string) error {
			t := encounter.Type(typeName)
			if !t.Valid() {
				return fmt.Errorf("unknown encounter type %q", typeName)
			}
			c, ok := g.Get(x, y)
			if !ok || !c.HasMine {
				return fmt.Errorf("cell (%d,%d) is not a mine cell", x, y)
			}
			scriptForced[grid.Point{X: x, Y: y}] = t
			return nil
		},
		SetLight: func(x, y int) {
			g.SetLight(x, y, 1.0)
		},
		Log: func(msg string) {
			r.logger.Info("level script", zap.String("message", msg))
		},
	}, r.logger)

	if lvl.ScriptDir != "" {
		if err := r.scripts.LoadLevel(lvl.ID, lvl.ScriptDir, 0); err != nil {
			// Script faults never abort a run.
			r.logger.Warn("level script rejected", zap.Error(err))
		}
	}
	r.scripts.NotifyLevelStart(lvl.ID)

	forced := make(map[grid.Point]encounter.Type, len(lvl.Forced)+len(scriptForced))
	for p, t := range lvl.Forced {
		forced[p] = t
	}
	for p, t := range scriptForced {
		forced[p] = t
	}

	eng := encounter.NewEngine(cfg.Encounters, pool, src, r.logger)
	if len(lvl.Targets) > 0 {
		r.records = eng.AssignExact(g.Mines(), lvl.Targets, forced)
	} else {
		r.records = eng.AssignWeighted(g.Mines(), forced)
	}

	r.vis.Recompute(g)
	r.logger.Info("run started",
		zap.String("run_id", r.id),
		zap.Int("mines", g.MineCount()),
		zap.Int("hp", r.hp))
	return r, nil
}

// ID returns the unique run identifier.
func (r *Run) ID() string { return r.id }

// HP returns the player's current hit points.
func (r *Run) HP() int { return r.hp }

// Force returns the player's combat force.
func (r *Run) Force() int { return r.force }

// BuffCombats returns how many upcoming combats take halved damage.
func (r *Run) BuffCombats() int { return r.buffCombats }

// Alive reports whether the player is still standing.
func (r *Run) Alive() bool { return !r.dead }

// Grid exposes the board for read access and reveal/flag interaction.
func (r *Run) Grid() *grid.Grid { return r.grid }

// Visibility exposes the brightness field.
func (r *Run) Visibility() *visibility.Engine { return r.vis }

// Events returns a copy of the run log so far.
func (r *Run) Events() []runlog.Event { return r.log.Events() }

// Pending returns the number of unresolved encounters.
func (r *Run) Pending() int {
	n := 0
	for _, rec := range r.records {
		if !rec.Resolved() {
			n++
		}
	}
	return n
}

// EncounterAt returns the record assigned to the cell, if any.
func (r *Run) EncounterAt(x, y int) (*encounter.Record, bool) {
	rec, ok := r.records[grid.Point{X: x, Y: y}]
	return rec, ok
}

// Reveal reveals the cell at (x, y) and returns the pending encounter there,
// if the cell is a mine cell with an unresolved record. Revealing a safe
// cell returns (nil, nil).
func (r *Run) Reveal(x, y int) (*encounter.Record, error) {
	if r.dead {
		return nil, ErrRunOver
	}
	r.grid.Reveal(x, y)
	rec, ok := r.records[grid.Point{X: x, Y: y}]
	if !ok || rec.Resolved() {
		return nil, nil
	}
	return rec, nil
}

// ToggleFlag flips the flag on an unrevealed cell. It returns the new flag
// value and whether the toggle applied.
func (r *Run) ToggleFlag(x, y int) (bool, bool) {
	return r.grid.ToggleFlag(x, y)
}

// EstimateCombat previews the damage the player would take fighting the
// encounter at (x, y), without the accident penalty or the buff discount.
func (r *Run) EstimateCombat(x, y int) (int, error) {
	rec, ok := r.records[grid.Point{X: x, Y: y}]
	if !ok {
		return 0, ErrNoEncounter
	}
	p, ok := rec.Params.(encounter.CombatParams)
	if !ok {
		return 0, ErrNotCombat
	}
	return combat.EstimateDamage(r.force, p.Force), nil
}

// ResolveCombat fights the combat encounter at (x, y). accident marks a
// fight triggered by stumbling onto the cell rather than engaging
// deliberately; it doubles the total damage taken. An active damage buff
// halves the total (integer division) and is consumed.
//
// Postcondition: on success the record is resolved, the cell is
// force-brightened, and an event is appended to the run log.
func (r *Run) ResolveCombat(x, y int, accident bool) (combat.Result, error) {
	rec, err := r.pendingRecord(x, y)
	if err != nil {
		return combat.Result{}, err
	}
	p, ok := rec.Params.(encounter.CombatParams)
	if !ok {
		return combat.Result{}, ErrNotCombat
	}

	res := combat.Resolve(r.force, p.Force, accident, r.hp)
	damage := res.TotalDamage
	if r.buffCombats > 0 {
		damage /= 2
		r.buffCombats--
	}
	r.hp -= damage
	res.TotalDamage = damage
	res.FinalHP = r.hp
	res.PlayerDied = r.hp <= 0

	outcome := fmt.Sprintf("defeated %s", p.Monster)
	if res.PlayerDied {
		r.dead = true
		outcome = fmt.Sprintf("slain by %s", p.Monster)
	} else if !p.Reward.None() {
		r.applyDelta(encounter.ApplyReward(p.Reward))
	}

	r.finishRecord(rec, runlog.Event{
		X: x, Y: y,
		Type:        rec.Type,
		EncounterID: rec.ID,
		Outcome:     outcome,
		HpDelta:     -damage,
		Reward:      p.Reward,
		PlayerDied:  res.PlayerDied,
	})
	return res, nil
}

// ResolveChoice resolves the chest, shrine, or dialogue encounter at (x, y)
// with the given choice. Declining choices (ignore, refuse) are true no-ops:
// the record stays pending and nothing is logged. An unknown dialogue choice
// returns the neutral outcome together with encounter.ErrNoSuchChoice.
func (r *Run) ResolveChoice(x, y int, choice encounter.Choice) (encounter.Resolution, error) {
	rec, err := r.pendingRecord(x, y)
	if err != nil {
		return encounter.Resolution{}, err
	}

	if _, isCombat := rec.Params.(encounter.CombatParams); isCombat {
		return encounter.Resolution{}, ErrCombatChoice
	}

	var (
		res     encounter.Resolution
		engaged bool
	)
	switch p := rec.Params.(type) {
	case encounter.ChestParams:
		res = encounter.ResolveChest(p, choice, r.hp)
		engaged = choice == encounter.ChoiceOpen
	case encounter.ShrineParams:
		res = encounter.ResolveShrine(p, choice, r.hp)
		engaged = choice == encounter.ChoiceSacrifice
	case encounter.DialogueParams:
		var derr error
		res, derr = encounter.ResolveDialogue(p, choice, r.hp)
		if derr != nil {
			r.logger.Warn("dialogue choice not found",
				zap.Int("x", x), zap.Int("y", y),
				zap.String("choice", string(choice)))
			return res, derr
		}
		engaged = true
	default:
		return encounter.Resolution{}, fmt.Errorf("run: unknown encounter params %T", rec.Params)
	}

	if !engaged {
		return res, nil
	}

	r.hp += res.HpDelta
	if res.PlayerDied {
		r.dead = true
	} else if !res.Reward.None() {
		r.applyDelta(encounter.ApplyReward(res.Reward))
	}

	r.finishRecord(rec, runlog.Event{
		X: x, Y: y,
		Type:        rec.Type,
		EncounterID: rec.ID,
		Outcome:     res.Text,
		HpDelta:     res.HpDelta,
		Reward:      res.Reward,
		PlayerDied:  res.PlayerDied,
	})
	return res, nil
}

// Close releases the run's script state.
func (r *Run) Close() {
	r.scripts.Close()
}

func (r *Run) pendingRecord(x, y int) (*encounter.Record, error) {
	if r.dead {
		return nil, ErrRunOver
	}
	rec, ok := r.records[grid.Point{X: x, Y: y}]
	if !ok {
		return nil, ErrNoEncounter
	}
	if rec.Resolved() {
		return nil, ErrAlreadyResolved
	}
	return rec, nil
}

// applyDelta folds a reward's state delta into the player and the
// visibility field.
func (r *Run) applyDelta(d encounter.StateDelta, desc string) {
	r.hp += d.HpDelta
	if d.VisionRadiusDelta != 0 {
		r.vis.SetFalloffRadius(r.vis.FalloffRadius() + float64(d.VisionRadiusDelta))
		r.vis.Recompute(r.grid)
	}
	if d.BuffCombats > 0 {
		r.buffCombats = d.BuffCombats
	}
	if desc != "" {
		r.logger.Debug("reward applied", zap.String("effect", desc))
	}
}

// finishRecord marks the record resolved, deactivates its cell, pins the
// cell bright, appends the event, and notifies the level script. Resolution
// is one-way; the cell keeps its mine flag but is no longer interactable.
func (r *Run) finishRecord(rec *encounter.Record, ev runlog.Event) {
	rec.Resolve()
	r.grid.SetActive(ev.X, ev.Y, false)
	r.vis.ForceBright(ev.X, ev.Y)
	r.log.Record(ev)
	r.scripts.NotifyResolved(r.lvl.ID, ev)
}
