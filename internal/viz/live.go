package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/pose"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	tickRate        = time.Second / 60
)

// tunable lists the gains adjusted with tab and up/down.
var tunable = []string{control.ParamKP, control.ParamKA, control.ParamKB}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps one goal-seeking run per tick and renders it.
type Model struct {
	sim     *dynamo.Simulator
	tracker *control.Tracker
	goal    pose.Pose
	name    string

	start   dynamo.State
	state   dynamo.State
	u       dynamo.Control
	t, dt   float64
	running bool
	reached bool

	canvas   *Canvas
	view     Viewport
	trailX   []float64
	trailY   []float64
	distHist []float64
	initDist float64

	initialParams map[string]float64
	selected      int
}

// NewModel prepares a live run of sim from start. tracker must be the
// simulator's controller with its goal set.
func NewModel(sim *dynamo.Simulator, tracker *control.Tracker, start dynamo.State, dt float64, name string) Model {
	goal := pose.Pose{}
	if g := tracker.Goal(); g != nil {
		goal = *g
	}
	tracker.SetPeriod(dt)

	canvas := NewCanvas(width, height)
	m := Model{
		sim:           sim,
		tracker:       tracker,
		goal:          goal,
		name:          name,
		start:         start.Clone(),
		dt:            dt,
		running:       true,
		canvas:        canvas,
		view:          FitViewport(canvas, []float64{start[0], goal.X}, []float64{start[1], goal.Y}),
		initialParams: tracker.GetParams(),
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.reset()
		case "f":
			gc := m.tracker.Controller()
			gc.SetForwardMovementOnly(!gc.ForwardMovementOnly)
		case "tab":
			m.selected = (m.selected + 1) % len(tunable)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running && !m.reached {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) adjustParam(factor float64) {
	key := tunable[m.selected]
	val := m.tracker.GetParams()[key]
	m.tracker.SetParam(key, val*factor)
}

// step advances the run by one dt. Once the goal is reached the model
// stops stepping until reset.
func (m *Model) step() {
	next, u, done := m.sim.Step(m.state, m.t, m.dt)
	if done {
		m.reached = true
		return
	}
	m.state, m.u = next, u
	m.t += m.dt
	m.record()
}

func (m *Model) record() {
	m.trailX = appendCapped(m.trailX, m.state[0])
	m.trailY = appendCapped(m.trailY, m.state[1])
	m.distHist = appendCapped(m.distHist, m.tracker.Distance(m.state))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// reset restores the start pose and the initial gains.
func (m *Model) reset() {
	m.t = 0
	m.state = m.start.Clone()
	m.u = make(dynamo.Control, m.sim.System().ControlDim())
	m.reached = false
	m.trailX = m.trailX[:0]
	m.trailY = m.trailY[:0]
	m.distHist = m.distHist[:0]
	m.sim.Reset()
	for k, v := range m.initialParams {
		m.tracker.SetParam(k, v)
	}
	m.initDist = m.tracker.Distance(m.state)
	m.record()
}

// State returns the current state and time.
func (m Model) State() (dynamo.State, float64) {
	return m.state, m.t
}

func (m Model) Reached() bool {
	return m.reached
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.DrawPath(m.view, m.trailX, m.trailY)
	m.canvas.DrawCross(m.view, m.goal.X, m.goal.Y, 2)
	m.canvas.DrawArrow(m.view, m.goal.X, m.goal.Y, m.goal.Theta, 6)
	m.canvas.DrawArrow(m.view, m.state[0], m.state[1], m.state[2], 8)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.reached:
		status = StatusReached.Render("AT GOAL")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	if len(m.distHist) > 1 {
		chart := asciigraph.Plot(m.distHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Distance"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	cur := pose.FromSlice(m.state)
	dist := m.tracker.Distance(m.state)
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Pose", fmt.Sprintf("%.2f, %.2f, %.0f°", cur.X, cur.Y, pose.Degrees(cur.Theta)))
	row("Goal", fmt.Sprintf("%.2f, %.2f, %.0f°", m.goal.X, m.goal.Y, pose.Degrees(m.goal.Theta)))
	row("Command", fmt.Sprintf("v=%.2f w=%.2f", m.u[0], m.u[1]))
	row("Distance", fmt.Sprintf("%.3f", dist))
	if m.initDist > 0 {
		row("Progress", ProgressBar(1-dist/m.initDist, 20))
	}

	gc := m.tracker.Controller()
	mode := "bidirectional"
	if gc.ForwardMovementOnly {
		mode = "forward only"
	}
	row("Mode", mode)

	s.WriteString("\nGAINS\n")
	params := m.tracker.GetParams()
	for i, k := range tunable {
		line := fmt.Sprintf("%-4s %7.3f", k, params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + MetricLabel.Render(line) + "\n")
		}
	}
	if m.tracker.Limited() {
		s.WriteString(MetricLabel.Render(fmt.Sprintf("limits v<=%.2f w<=%.2f", gc.MaxLinearSpeed, gc.MaxAngularSpeed)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nF:Forward-only ↑↓:Tune TAB:Gain"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

