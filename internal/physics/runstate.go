package physics

type RunState int

const (
	Paused RunState = iota
	Running
)

func (s RunState) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Controller is the Paused/Running state machine. It starts Paused and has
// no terminal state.
type Controller struct {
	state RunState
}

func NewController() *Controller {
	return &Controller{state: Paused}
}

func (c *Controller) State() RunState { return c.state }
func (c *Controller) Running() bool   { return c.state == Running }

// Toggle flips the state unconditionally and returns the new state. Call it
// once per signal edge, not once per frame the signal is held.
func (c *Controller) Toggle() RunState {
	if c.state == Running {
		c.state = Paused
	} else {
		c.state = Running
	}
	return c.state
}

func (c *Controller) Set(s RunState) { c.state = s }

// EdgeTrigger turns a level signal (a key that is held down) into a single
// event per press.
type EdgeTrigger struct {
	prev bool
}

// Update reports true only on the transition from released to pressed.
func (e *EdgeTrigger) Update(pressed bool) bool {
	rising := pressed && !e.prev
	e.prev = pressed
	return rising
}
