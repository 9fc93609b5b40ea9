package effect

import (
	"errors"
	"slices"
	"sort"

	"github.com/sporefront/colony/internal/core/event"
	"github.com/sporefront/colony/internal/data"
	"github.com/sporefront/colony/internal/observer"
	"go.uber.org/zap"
)

var ErrAttached = errors.New("dispatcher already attached")

// Dispatcher calls rule modules at each hook point in a fixed order:
// category (growth, resilience, drift, offense, surge), then registration.
type Dispatcher struct {
	ctx      *Context
	modules  []Module
	attached bool
	log      *zap.Logger
}

func NewDispatcher(ctx *Context, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if ctx.Formulas == nil {
		ctx.Formulas = DefaultFormulas{}
	}
	if ctx.Observer == nil {
		ctx.Observer = observer.Nop{}
	}
	if ctx.Log == nil {
		ctx.Log = log
	}
	return &Dispatcher{
		ctx:     ctx,
		modules: make([]Module, 0, 16),
		log:     log.Named("effect"),
	}
}

func (d *Dispatcher) Context() *Context { return d.ctx }

// Register adds a module. Modules must be registered before Attach.
func (d *Dispatcher) Register(m ...Module) error {
	if d.attached {
		return ErrAttached
	}
	d.modules = append(d.modules, m...)
	return nil
}

// Modules returns the modules in dispatch order.
func (d *Dispatcher) Modules() []Module {
	out := slices.Clone(d.modules)
	sortModules(out)
	return out
}

func categoryRank(c data.Category) int {
	if i := slices.Index(data.Categories, c); i >= 0 {
		return i
	}
	return len(data.Categories)
}

func sortModules(ms []Module) {
	sort.SliceStable(ms, func(i, j int) bool {
		return categoryRank(ms[i].Category()) < categoryRank(ms[j].Category())
	})
}

// Attach fixes the order and subscribes to the board's bus. Hooks nobody
// implements are not subscribed.
func (d *Dispatcher) Attach() error {
	if d.attached {
		return ErrAttached
	}
	d.attached = true
	sortModules(d.modules)

	hook(d, MutationPhaseHook.OnMutationPhase)
	hook(d, PreGrowthHook.OnPreGrowth)
	hook(d, GrowthCycleHook.OnGrowthCycle)
	hook(d, PostGrowthHook.OnPostGrowth)
	hook(d, PostGrowthCompletedHook.OnPostGrowthCompleted)
	hook(d, DecayHook.OnDecay)
	hook(d, PostDecayHook.OnPostDecay)
	hook(d, CellDiedHook.OnCellDied)
	hook(d, CellInfestedHook.OnCellInfested)
	hook(d, CellReclaimedHook.OnCellReclaimed)

	names := make([]string, len(d.modules))
	for i, m := range d.modules {
		names[i] = m.Name()
	}
	d.log.Debug("effect modules attached", zap.Strings("order", names))
	return nil
}

func hook[H any, E any](d *Dispatcher, call func(H, *Context, E)) {
	var hooked []H
	for _, m := range d.modules {
		if h, ok := m.(H); ok {
			hooked = append(hooked, h)
		}
	}
	if len(hooked) == 0 {
		return
	}
	event.Subscribe(d.ctx.Board.Bus(), func(e E) {
		for _, h := range hooked {
			call(h, d.ctx, e)
		}
	})
}
