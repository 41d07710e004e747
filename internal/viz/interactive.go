package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/spheresim/internal/config"
	"github.com/san-kum/spheresim/internal/experiment"
	"go.uber.org/zap"
)

var presetInfo = map[string]string{
	"orbit":   "moon around a planet",
	"headon":  "elastic head-on hit",
	"binary":  "two stars in orbit",
	"cluster": "random swarm",
	"rain":    "spheres onto the ground",
}

// Picker lists the presets and hands the chosen one to a live Model.
type Picker struct {
	presets []string
	cursor  int
	live    *Model
	err     error
	log     *zap.Logger
	styles  styles
}

func NewPicker(log *zap.Logger) Picker {
	if log == nil {
		log = zap.NewNop()
	}
	return Picker{
		presets: config.ListPresets(),
		log:     log,
		styles:  newStyles(Themes[0]),
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	name := p.presets[p.cursor]
	exp, err := experiment.New(config.GetPreset(name), p.log)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.log.Info("starting live view", zap.String("preset", name))
	live := NewModel(exp, p.log)
	p.live = &live
	return p, live.Init()
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	st := p.styles
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("SPHERESIM") + "\n")
	b.WriteString("    " + st.dim.Render("sphere gravity and collisions") + "\n")
	b.WriteString("    " + st.dim.Render(Separator(29)) + "\n\n")

	for i, name := range p.presets {
		line := fmt.Sprintf("%-10s %s", name, presetInfo[name])
		if i == p.cursor {
			b.WriteString("    " + st.cursor.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("      " + st.dim.Render(line) + "\n")
		}
	}

	if p.err != nil {
		b.WriteString("\n    " + st.paused.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.help.Render("j/k navigate  enter start  q quit") + "\n")
	return b.String()
}
