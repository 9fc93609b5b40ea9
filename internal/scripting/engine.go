// Package scripting evaluates balance formulas written in Lua. Every formula
// is optional: a missing function or a failing call falls back to the
// built-in curve.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/sporefront/colony/internal/effect"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only.
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback effect.Formulas
}

// NewEngine creates a Lua engine and loads scriptsDir/core, then
// scriptsDir/balance. Missing directories are skipped.
func NewEngine(scriptsDir string, fallback effect.Formulas, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if fallback == nil {
		fallback = effect.DefaultFormulas{}
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log.Named("lua"), fallback: fallback}
	for _, sub := range []string{"core", "balance"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global Lua function named name is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Overrides lists which formulas the loaded scripts define.
func (e *Engine) Overrides() []string {
	var out []string
	for _, name := range []string{fnIncome, fnAutoUpgrade, fnToxinDuration} {
		if e.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

const (
	fnIncome        = "calc_income"
	fnAutoUpgrade   = "calc_auto_upgrade_chance"
	fnToxinDuration = "calc_toxin_duration"
)

// Income calls calc_income(ctx) where ctx has round, base, living, dead and
// tile_count fields.
func (e *Engine) Income(in effect.IncomeInput) int {
	if !e.Has(fnIncome) {
		return e.fallback.Income(in)
	}
	t := e.vm.NewTable()
	t.RawSetString("round", lua.LNumber(in.Round))
	t.RawSetString("base", lua.LNumber(in.Base))
	t.RawSetString("living", lua.LNumber(in.Living))
	t.RawSetString("dead", lua.LNumber(in.Dead))
	t.RawSetString("tile_count", lua.LNumber(in.TileCount))

	n, ok := e.callNumber(fnIncome, t)
	if !ok {
		return e.fallback.Income(in)
	}
	return max(0, int(n))
}

// AutoUpgradeChance calls calc_auto_upgrade_chance(level, per_level),
// clamped to [0, 1].
func (e *Engine) AutoUpgradeChance(level int, perLevel float64) float64 {
	if !e.Has(fnAutoUpgrade) {
		return e.fallback.AutoUpgradeChance(level, perLevel)
	}
	n, ok := e.callNumber(fnAutoUpgrade, lua.LNumber(level), lua.LNumber(perLevel))
	if !ok {
		return e.fallback.AutoUpgradeChance(level, perLevel)
	}
	return min(1, max(0, float64(n)))
}

// ToxinDuration calls calc_toxin_duration(level, base). Results below one
// growth cycle are raised to one.
func (e *Engine) ToxinDuration(level, base int) int {
	if !e.Has(fnToxinDuration) {
		return e.fallback.ToxinDuration(level, base)
	}
	n, ok := e.callNumber(fnToxinDuration, lua.LNumber(level), lua.LNumber(base))
	if !ok {
		return e.fallback.ToxinDuration(level, base)
	}
	return max(1, int(n))
}

// callNumber calls a Lua function and returns its single numeric result.
// Errors are logged and reported as !ok.
func (e *Engine) callNumber(name string, args ...lua.LValue) (lua.LNumber, bool) {
	if err := e.vm.CallByParam(lua.P{
		Fn:      e.vm.GetGlobal(name),
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua function returned non-number", zap.String("func", name), zap.String("type", result.Type().String()))
		return 0, false
	}
	return n, true
}

func (e *Engine) Close() {
	e.vm.Close()
}
