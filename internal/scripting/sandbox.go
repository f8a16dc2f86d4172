// Package scripting provides a sandboxed GopherLua execution environment for
// level-authoring scripts. It has no dependency on gameplay packages beyond
// the run log event shape; all level interactions are injected via Manager
// callback fields.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit caps how many Lua opcodes a script execution may
// run when the caller passes no explicit limit. Level scripts are short
// hook bodies; anything that hits this limit is looping.
const DefaultInstructionLimit = 100_000

// unsafeGlobals are base-library entry points that would let a script escape
// the sandbox (filesystem access, arbitrary chunk loading, GC control).
var unsafeGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// opcodeBudget is a context.Context whose Done channel closes after it has
// been polled budget times. GopherLua polls Done() once per opcode when a
// context is attached, which turns the budget into an exact, deterministic
// instruction limit independent of wall-clock time.
type opcodeBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opcodeBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func withOpcodeBudget(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	b := &opcodeBudget{Context: base, cancel: cancel}
	b.left.Store(int64(limit))
	return b
}

// NewSandboxedState creates a GopherLua LState restricted for level scripts:
// only the base, table, string, and math libraries are opened, the unsafe
// base globals are stripped, and execution aborts after instLimit opcodes.
// Passing instLimit <= 0 selects DefaultInstructionLimit.
//
// Postcondition: Returns a non-nil LState ready for module registration and
// DoFile. The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) *lua.LState {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(withOpcodeBudget(instLimit))
	return L
}
