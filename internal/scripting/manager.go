package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lantern/internal/game/runlog"
)

// Hook names recognized by level scripts. A script may define any subset of
// these as global functions; missing hooks are silently skipped.
const (
	HookLevelStart        = "on_level_start"
	HookEncounterResolved = "on_encounter_resolved"
)

// Callbacks are the level operations exposed to scripts via the `level`
// module. The run controller injects implementations bound to its own state.
type Callbacks struct {
	// ForceType pins the encounter type for the mine cell at (x, y). It is
	// honored by the next assignment pass. Returns an error if the cell is
	// not a mine cell or the type name is unknown.
	ForceType func(x, y int, typeName string) error
	// SetLight marks the cell at (x, y) as lit, making it a visibility
	// source on the next recompute.
	SetLight func(x, y int)
	// Log emits a script-authored message into the structured log.
	Log func(msg string)
}

// Manager owns one sandboxed Lua state per loaded level script and dispatches
// lifecycle hooks into them. Safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	states    map[string]*lua.LState
	callbacks Callbacks
	logger    *zap.Logger
}

// NewManager creates a script manager with the given injected callbacks.
// Precondition: logger is non-nil.
func NewManager(callbacks Callbacks, logger *zap.Logger) *Manager {
	return &Manager{
		states:    make(map[string]*lua.LState),
		callbacks: callbacks,
		logger:    logger,
	}
}

// LoadLevel loads <scriptDir>/<levelID>.lua into a fresh sandboxed state,
// replacing any previously loaded state for the same level. A missing script
// file is not an error; the level simply has no hooks.
//
// Precondition: levelID is non-empty.
// Postcondition: On success, hooks for levelID are callable via CallHook.
func (m *Manager) LoadLevel(levelID, scriptDir string, instLimit int) error {
	path := filepath.Join(scriptDir, levelID+".lua")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("no level script found", zap.String("level", levelID), zap.String("path", path))
			return nil
		}
		return fmt.Errorf("stat level script %s: %w", path, err)
	}

	L := NewSandboxedState(instLimit)
	RegisterModules(L, m.callbacks, m.logger.With(zap.String("level", levelID)))

	if err := L.DoFile(path); err != nil {
		L.Close()
		return fmt.Errorf("load level script %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.states[levelID]; ok {
		old.Close()
	}
	m.states[levelID] = L
	m.logger.Info("level script loaded", zap.String("level", levelID), zap.String("path", path))
	return nil
}

// CallHook invokes the named global function in the level's script with the
// given arguments. Missing levels and missing hooks are no-ops. Lua errors
// are logged at Warn and swallowed; a faulty script never aborts the run.
func (m *Manager) CallHook(levelID, hook string, args ...lua.LValue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[levelID]
	if !ok {
		return
	}
	m.invoke(L, levelID, hook, args...)
}

// invoke calls a hook on an already-locked state.
func (m *Manager) invoke(L *lua.LState, levelID, hook string, args ...lua.LValue) {
	fn := L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return
	}
	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
	if err != nil {
		m.logger.Warn("level script hook failed",
			zap.String("level", levelID),
			zap.String("hook", hook),
			zap.Error(err))
	}
}

// NotifyLevelStart fires the on_level_start hook for the level.
func (m *Manager) NotifyLevelStart(levelID string) {
	m.CallHook(levelID, HookLevelStart)
}

// NotifyResolved fires the on_encounter_resolved hook with a table describing
// the resolved encounter: x, y, type, outcome, hp_delta, player_died.
func (m *Manager) NotifyResolved(levelID string, ev runlog.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[levelID]
	if !ok {
		return
	}

	tbl := L.NewTable()
	L.SetField(tbl, "x", lua.LNumber(ev.X))
	L.SetField(tbl, "y", lua.LNumber(ev.Y))
	L.SetField(tbl, "type", lua.LString(ev.Type))
	L.SetField(tbl, "outcome", lua.LString(ev.Outcome))
	L.SetField(tbl, "hp_delta", lua.LNumber(ev.HpDelta))
	L.SetField(tbl, "player_died", lua.LBool(ev.PlayerDied))

	m.invoke(L, levelID, HookEncounterResolved, tbl)
}

// Close releases all loaded Lua states.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, L := range m.states {
		L.Close()
		delete(m.states, id)
	}
}
