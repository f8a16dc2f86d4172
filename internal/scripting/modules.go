package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the `level` table into the Lua state, backed by
// the injected callbacks. Nil callbacks degrade to no-ops so scripts written
// against the full API still load in reduced environments (for example the
// loader used by validation tooling).
//
// Exposed functions:
//
//	level.force(x, y, type)  -- pin the encounter type for a mine cell
//	level.light(x, y)        -- mark a cell lit for the visibility engine
//	level.log(msg)           -- emit a structured log line
func RegisterModules(L *lua.LState, cb Callbacks, logger *zap.Logger) {
	tbl := L.NewTable()

	L.SetField(tbl, "force", L.NewFunction(func(L *lua.LState) int {
		x := int(L.CheckNumber(1))
		y := int(L.CheckNumber(2))
		typeName := L.CheckString(3)
		if cb.ForceType == nil {
			return 0
		}
		if err := cb.ForceType(x, y, typeName); err != nil {
			L.RaiseError("level.force: %s", err.Error())
		}
		return 0
	}))

	L.SetField(tbl, "light", L.NewFunction(func(L *lua.LState) int {
		x := int(L.CheckNumber(1))
		y := int(L.CheckNumber(2))
		if cb.SetLight != nil {
			cb.SetLight(x, y)
		}
		return 0
	}))

	L.SetField(tbl, "log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if cb.Log != nil {
			cb.Log(msg)
		} else {
			logger.Info("script log", zap.String("message", msg))
		}
		return 0
	}))

	L.SetGlobal("level", tbl)
}
