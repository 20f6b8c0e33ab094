package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/physics"
)

const (
	canvasCols      = 24
	canvasRows      = 16
	frameInterval   = time.Second / 30
	historyCapacity = 300
	barWidth        = 20
	heightStep      = 1.25
)

var speeds = []float64{0.1, 0.25, 0.5, 1, 2, 4}

type TickMsg time.Time

// Model animates one fall. Time advances by a fixed frame step scaled by the
// playback speed, so the animation does not depend on tick jitter.
type Model struct {
	ff       *physics.FreeFall
	params   dynamo.Configurable
	t        float64
	speedIdx int
	running  bool
	landed   bool
	theme    Theme
	canvas   *Canvas
	ec       []float64
	ep       []float64
	em       []float64
}

func NewModel(sc dynamo.Scenario, th Theme) Model {
	ff := physics.FromScenario(sc)
	m := Model{
		ff:       ff,
		params:   ff,
		speedIdx: 3,
		running:  true,
		theme:    th,
		canvas:   NewCanvas(canvasCols, canvasRows),
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if !m.landed {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			if m.speedIdx < len(speeds)-1 {
				m.speedIdx++
			}
		case "-":
			if m.speedIdx > 0 {
				m.speedIdx--
			}
		case "up", "k":
			m.tune(heightStep)
		case "down", "j":
			m.tune(1 / heightStep)
		case "t":
			m.theme = nextTheme(m.theme)
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance(frameInterval.Seconds() * speeds[m.speedIdx])
		}
		return m, tick()
	}
	return m, nil
}

// advance moves the clock forward, clamping at impact.
func (m *Model) advance(dt float64) {
	m.t += dt
	if tMax := m.ff.ImpactTime(); m.t >= tMax {
		m.t = tMax
		m.landed = true
		m.running = false
	}
	m.record(m.ff.At(m.t))
}

func (m *Model) record(s dynamo.Sample) {
	m.ec = appendCapped(m.ec, s.Kinetic)
	m.ep = appendCapped(m.ep, s.Potential)
	m.em = appendCapped(m.em, s.Mechanical)
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) reset() {
	m.t = 0
	m.landed = false
	m.running = true
	m.ec, m.ep, m.em = m.ec[:0], m.ep[:0], m.em[:0]
	m.record(m.ff.At(0))
}

// tune scales the drop height and restarts the fall. Heights that would
// make an invalid scenario are ignored.
func (m *Model) tune(factor float64) {
	p := m.params.GetParams()
	h := p["height"] * factor
	if err := (dynamo.Scenario{Height: h, Mass: p["mass"]}).Validate(); err != nil {
		return
	}
	if err := m.params.SetParam("height", h); err != nil {
		return
	}
	m.reset()
}

func (m Model) Time() float64 { return m.t }
func (m Model) Height() float64 {
	return m.params.GetParams()["height"]
}
func (m Model) Landed() bool  { return m.landed }
func (m Model) Running() bool { return m.running }
func (m Model) Speed() float64 {
	return speeds[m.speedIdx]
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	ground := h - 1
	m.canvas.HLine(ground, 0, w-1)

	// Keep the body above the ground line.
	const radius = 2
	top, bottom := radius, ground-radius-1
	frac := m.ff.Position(m.t) / m.ff.Height
	y := bottom - int(frac*float64(bottom-top)+0.5)
	m.canvas.Disc(w/2, y, radius)
}

func (m Model) View() string {
	m.draw()
	r := lipgloss.DefaultRenderer()
	th := m.theme
	header := r.NewStyle().Bold(true).Foreground(th.Primary)
	label := r.NewStyle().Foreground(th.Muted).Width(10)
	value := r.NewStyle().Foreground(th.Text)

	s := m.ff.At(m.t)
	em0 := m.ff.MechanicalEnergy(0)

	status := "FALLING"
	switch {
	case m.landed:
		status = "LANDED"
	case !m.running:
		status = "PAUSED"
	}

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("FREE FALL  h=%g m  m=%g kg", m.ff.Height, m.ff.Mass)) + "\n")
	b.WriteString(fmt.Sprintf("%s  x%g\n\n", status, m.Speed()))
	b.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.3f / %.3f s", m.t, m.ff.ImpactTime())) + "\n")
	b.WriteString(label.Render("Height") + value.Render(fmt.Sprintf("%.3f m", s.Y)) + "\n")
	b.WriteString(label.Render("Velocity") + value.Render(fmt.Sprintf("%.3f m/s", s.V)) + "\n\n")

	bars := []struct {
		name  string
		v     float64
		color lipgloss.Color
	}{
		{"Ec", s.Kinetic, lipgloss.Color("#3b82f6")},
		{"Ep", s.Potential, lipgloss.Color("#ef4444")},
		{"Em", s.Mechanical, lipgloss.Color("#22c55e")},
	}
	for _, bar := range bars {
		frac := 0.0
		if em0 > 0 {
			frac = bar.v / em0
		}
		line := r.NewStyle().Foreground(bar.color).Render(ProgressBar(frac, barWidth))
		b.WriteString(label.Render(bar.name) + line + value.Render(fmt.Sprintf(" %9.2f J", bar.v)) + "\n")
	}

	if len(m.em) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.ec, m.ep, m.em},
			asciigraph.Height(6),
			asciigraph.Width(36),
			asciigraph.Precision(0),
			asciigraph.SeriesColors(th.Kinetic, th.Potential, th.Mechanical),
		)
		b.WriteString("\n" + chart + "\n")
	}

	b.WriteString(r.NewStyle().Foreground(th.Muted).Render("\nSP:Pause R:Drop +/-:Speed \u2191/\u2193:Height T:Theme Q:Quit"))

	canvasView := r.NewStyle().Padding(1, 2).Render(m.canvas.String())
	stats := r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(th.Muted).
		Padding(1, 2).
		Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats)
}

// RunLive blocks until the user quits the animation.
func RunLive(sc dynamo.Scenario, th Theme) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	_, err := tea.NewProgram(NewModel(sc, th), tea.WithAltScreen()).Run()
	return err
}
