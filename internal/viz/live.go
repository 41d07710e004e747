package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spheresim/internal/experiment"
	"github.com/san-kum/spheresim/internal/physics"
	"go.uber.org/zap"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameInterval   = time.Second / 60
	gravityStep     = 1.1
	axisLength      = 10
)

type TickMsg time.Time

// Model drives one experiment from wall-clock ticks and draws it.
type Model struct {
	exp      *experiment.Experiment
	log      *zap.Logger
	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   styles
	lastTick time.Time
	frameDt  float64

	// Set by a space key-press and consumed by the next tick.
	pendingToggle bool

	report        physics.Report
	elapsed       float64
	energyHistory []float64
	showHelp      bool
}

func NewModel(exp *experiment.Experiment, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		exp:           exp,
		log:           log,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		theme:         Themes[0],
		styles:        newStyles(Themes[0]),
		report:        physics.Report{State: exp.Engine().Controller().State()},
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Camera() *Camera                    { return m.camera }
func (m Model) Experiment() *experiment.Experiment { return m.exp }
func (m Model) Report() physics.Report             { return m.report }
func (m Model) Elapsed() float64                   { return m.elapsed }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the engine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		// The first tick only starts the clock.
		if !m.lastTick.IsZero() {
			m.step(now.Sub(m.lastTick).Seconds())
		}
		m.lastTick = now
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		// Two presses before the next tick cancel out.
		m.pendingToggle = !m.pendingToggle
	case "w":
		m.camera.Move(DefaultMoveStep, 0, 0)
	case "s":
		m.camera.Move(-DefaultMoveStep, 0, 0)
	case "a":
		m.camera.Move(0, -DefaultMoveStep, 0)
	case "d":
		m.camera.Move(0, DefaultMoveStep, 0)
	case "e":
		m.camera.Move(0, 0, DefaultMoveStep)
	case "c":
		m.camera.Move(0, 0, -DefaultMoveStep)
	case "left":
		m.camera.Look(-DefaultLookStep, 0)
	case "right":
		m.camera.Look(DefaultLookStep, 0)
	case "up":
		m.camera.Look(0, DefaultLookStep)
	case "down":
		m.camera.Look(0, -DefaultLookStep)
	case "+", "=":
		m.scaleGravity(gravityStep)
	case "-", "_":
		m.scaleGravity(1 / gravityStep)
	case "r":
		m.reset()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// step advances the engine by dt seconds of wall-clock time.
func (m *Model) step(dt float64) {
	m.frameDt = dt
	eng := m.exp.Engine()
	m.report = eng.Tick(physics.Input{Dt: float32(dt), Toggle: m.pendingToggle})
	m.pendingToggle = false
	if !m.report.Ran {
		return
	}

	m.elapsed += dt
	energy := physics.TotalEnergy(m.exp.Registry().Bodies(), eng.Params())
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) scaleGravity(factor float32) {
	eng := m.exp.Engine()
	g := eng.Params().GravityConstant * factor
	eng.SetGravityConstant(g)
	m.log.Debug("gravity constant changed", zap.Float32("g", g))
}

func (m *Model) reset() {
	if err := m.exp.Reset(); err != nil {
		m.log.Error("reset failed", zap.Error(err))
		return
	}
	m.pendingToggle = false
	m.elapsed = 0
	m.energyHistory = m.energyHistory[:0]
	m.report = physics.Report{State: m.exp.Engine().Controller().State()}
}

// draw projects every sphere and the world axes onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()

	origin := mgl32.Vec3{}
	ox, oy, _, ok := m.camera.Project(origin, w, h)
	if ok {
		for _, axis := range []mgl32.Vec3{{axisLength, 0, 0}, {0, axisLength, 0}, {0, 0, axisLength}} {
			if ax, ay, _, ok := m.camera.Project(axis, w, h); ok {
				m.canvas.DrawLine(ox, oy, ax, ay)
			}
		}
	}

	for _, b := range m.exp.Registry().Bodies() {
		x, y, depth, ok := m.camera.Project(b.Position, w, h)
		if !ok {
			continue
		}
		r := m.camera.ProjectRadius(b.Radius, depth, h)
		// Skip spheres far off screen; their outlines would cost a lot of dots.
		if x+r < 0 || x-r >= w || y+r < 0 || y-r >= h || r > 4*(w+h) {
			continue
		}
		m.canvas.DrawCircle(x, y, r)
	}
}

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	m.draw()
	st := m.styles
	eng := m.exp.Engine()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.exp.Scenario().Name)) + "\n")

	if eng.Controller().Running() {
		s.WriteString(st.running.Render("RUNNING") + "\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	fps := 0.0
	if m.frameDt > 0 {
		fps = 1 / m.frameDt
	}

	pos := m.camera.Position
	s.WriteString(st.row("Time", fmt.Sprintf("%.2fs", m.elapsed)))
	s.WriteString(st.row("Bodies", fmt.Sprintf("%d", m.exp.Registry().Len())))
	s.WriteString(st.row("Gravity", fmt.Sprintf("%.4g", eng.Params().GravityConstant)))
	s.WriteString(st.row("Contacts", fmt.Sprintf("%d", m.report.Contacts)))
	s.WriteString(st.row("Energy", fmt.Sprintf("%.3f", energy)))
	s.WriteString(st.row("FPS", fmt.Sprintf("%.0f", fps)))
	s.WriteString(st.row("Camera", fmt.Sprintf("%.0f %.0f %.0f", pos.X(), pos.Y(), pos.Z())))
	s.WriteString(st.row("Look", fmt.Sprintf("%.0f° %.0f°", mgl32.RadToDeg(m.camera.Yaw), mgl32.RadToDeg(m.camera.Pitch))))
	s.WriteString(st.help.Render(Separator(21) + "\nSP:Run/Pause R:Reset Q:Quit\nWASD/EC:Move ←↑↓→:Look\n+/-:Gravity T:Theme ?:Help"))

	canvasView := st.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  W/S      - Move forward/back        ║
║  A/D      - Move left/right          ║
║  E/C      - Move up/down             ║
║  Arrows   - Look around              ║
║  +/-      - Gravity x1.1 / ÷1.1      ║
║  R        - Reset scenario           ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts a full-screen program for m.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
