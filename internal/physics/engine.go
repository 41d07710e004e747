package physics

import "github.com/san-kum/spheresim/internal/body"

// Pass identifies one of the three passes of a tick, in execution order.
type Pass int

const (
	PassGravity Pass = iota
	PassIntegrate
	PassCollide
)

func (p Pass) String() string {
	switch p {
	case PassGravity:
		return "gravity"
	case PassIntegrate:
		return "integrate"
	case PassCollide:
		return "collide"
	default:
		return "unknown"
	}
}

// Hook observes the bodies after each pass. Hooks must not mutate them.
type Hook interface {
	AfterPass(pass Pass, bodies []body.Body)
}

// Input is what the host supplies once per tick.
type Input struct {
	Dt     float32 // elapsed seconds since the previous tick
	Toggle bool    // run-state toggle edge seen since the previous tick
}

type Report struct {
	State    RunState
	Ran      bool
	Contacts int
	Tick     uint64 // ticks that have run physics, including this one
}

// Engine runs the passes against a host-owned registry. It is not safe for
// concurrent use.
type Engine struct {
	reg    *body.Registry
	params Params
	ctrl   *Controller
	hooks  []Hook
	ticks  uint64
}

func NewEngine(reg *body.Registry, p Params) *Engine {
	return &Engine{
		reg:    reg,
		params: p,
		ctrl:   NewController(),
		hooks:  make([]Hook, 0),
	}
}

func (e *Engine) Registry() *body.Registry     { return e.reg }
func (e *Engine) Controller() *Controller      { return e.ctrl }
func (e *Engine) Params() Params               { return e.params }
func (e *Engine) SetParams(p Params)           { e.params = p }
func (e *Engine) SetGravityConstant(g float32) { e.params.GravityConstant = g }
func (e *Engine) AddHook(h Hook)               { e.hooks = append(e.hooks, h) }
func (e *Engine) TickCount() uint64            { return e.ticks }

// Tick consumes the toggle edge, then, if running, applies gravity,
// integration and collision resolution in that order.
func (e *Engine) Tick(in Input) Report {
	if in.Toggle {
		e.ctrl.Toggle()
	}

	rep := Report{State: e.ctrl.State(), Tick: e.ticks}
	if !e.ctrl.Running() {
		return rep
	}

	bodies := e.reg.Bodies()

	ApplyGravity(bodies, e.params, in.Dt)
	e.afterPass(PassGravity, bodies)

	Integrate(bodies, in.Dt)
	e.afterPass(PassIntegrate, bodies)

	rep.Contacts = ResolveCollisions(bodies)
	e.afterPass(PassCollide, bodies)

	e.ticks++
	rep.Ran = true
	rep.Tick = e.ticks
	return rep
}

func (e *Engine) afterPass(p Pass, bodies []body.Body) {
	for _, h := range e.hooks {
		h.AfterPass(p, bodies)
	}
}

// Step runs one unconditional tick over bodies. It is the engine without the
// run-state gate, for callers that manage pausing themselves.
func Step(bodies []body.Body, p Params, dt float32) int {
	ApplyGravity(bodies, p, dt)
	Integrate(bodies, dt)
	return ResolveCollisions(bodies)
}
