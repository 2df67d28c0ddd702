package viz

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/experiment"
	"github.com/san-kum/algostep/internal/metrics"
	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

type (
	frameMsg struct {
		frame  engine.Frame
		values map[string]float64
		points []ml.Point
	}
	payloadMsg  struct{ payload any }
	startedMsg  struct{ h *engine.Handle }
	finishedMsg struct{ h *engine.Handle }
	errMsg      struct{ err error }
)

// bridge lets the scheduler goroutine reach the program once it exists.
type bridge struct {
	p *tea.Program
}

func (b *bridge) send(msg tea.Msg) {
	if b.p != nil {
		b.p.Send(msg)
	}
}

// Model hosts one algorithm run at a time. Runs are started from commands,
// never from Update, because stopping a run waits for its sink and the sink
// waits for Update.
type Model struct {
	exp  *experiment.Experiment
	vis  *experiment.Visualizer
	ctrl *control.Manual
	link *bridge

	kinds []string
	kind  string

	run      *engine.Handle
	frame    engine.Frame
	points   []ml.Point
	values   map[string]float64
	history  []float64
	payload  any
	finished bool
	err      error

	width, height int
	showHelp      bool
}

// NewModel prepares a session for kind. Tab cycles through the other
// algorithms of the same family.
func NewModel(exp *experiment.Experiment, vis *experiment.Visualizer, kind string, speed int) Model {
	fam, _ := exp.Registry().Family(kind)
	var kinds []string
	for _, k := range exp.Registry().List() {
		if f, _ := exp.Registry().Family(k); f == fam {
			kinds = append(kinds, k)
		}
	}
	return Model{
		exp:    exp,
		vis:    vis,
		ctrl:   control.NewManual(speed),
		link:   &bridge{},
		kinds:  kinds,
		kind:   kind,
		width:  width,
		height: height,
	}
}

func (m Model) Init() tea.Cmd { return m.start() }

// start generates fresh input and launches kind on it.
func (m Model) start() tea.Cmd {
	exp, vis, ctrl, link, kind := m.exp, m.vis, m.ctrl, m.link, m.kind
	return func() tea.Msg {
		in, err := exp.InputFor(kind)
		if err != nil {
			return errMsg{err}
		}
		fam, _ := exp.Registry().Family(kind)
		set := metrics.NewSet(metrics.ForAlgorithm(string(fam))...)
		sink := engine.SinkFunc(func(f engine.Frame) {
			set.Publish(f)
			link.send(frameMsg{frame: f, values: set.Values(), points: in.Points})
		})
		h, err := vis.Start(context.Background(), kind, in, experiment.Options{
			Sink:       sink,
			Controller: ctrl,
			OnComplete: func(p any) { link.send(payloadMsg{p}) },
		})
		if err != nil {
			return errMsg{err}
		}
		return startedMsg{h}
	}
}

func waitFor(h *engine.Handle) tea.Cmd {
	return func() tea.Msg {
		h.Wait()
		return finishedMsg{h}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case startedMsg:
		m.run = msg.h
		return m, waitFor(msg.h)
	case frameMsg:
		if m.frame.Run != msg.frame.Run {
			m.history = m.history[:0]
		}
		m.frame, m.values, m.points = msg.frame, msg.values, msg.points
		if v, ok := msg.values[headline(m.values)]; ok {
			m.history = append(m.history, v)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
	case payloadMsg:
		m.payload = msg.payload
	case finishedMsg:
		if msg.h == m.run {
			m.finished = true
		}
	case errMsg:
		m.err = msg.err
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.ctrl.Toggle()
	case "+", "=":
		m.ctrl.Faster()
	case "-", "_":
		m.ctrl.Slower()
	case "r":
		return m.restart(), m.start()
	case "tab":
		for i, k := range m.kinds {
			if k == m.kind {
				m.kind = m.kinds[(i+1)%len(m.kinds)]
				break
			}
		}
		return m.restart(), m.start()
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) restart() Model {
	m.run, m.finished, m.payload, m.err = nil, false, nil, nil
	m.history = nil
	return m
}

// headline picks the metric worth charting for the running family.
func headline(values map[string]float64) string {
	for _, name := range []string{"mse", "visited", "writes", "iterations"} {
		if _, ok := values[name]; ok {
			return name
		}
	}
	return "steps"
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("ERROR")
	case m.finished && m.run != nil:
		r := m.run.Reason()
		if r == engine.ReasonFailed || r == engine.ReasonInvalid {
			return StatusFailed.Render(strings.ToUpper(r.String()))
		}
		return StatusDone.Render(strings.ToUpper(r.String()))
	case m.ctrl.Paused():
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render(AnimatedSpinner(m.frame.Seq) + " RUNNING")
}

func (m Model) View() string {
	th := CurrentTheme
	cw, ch := max(m.width-50, 20), max(m.height-4, 8)
	canvasView := canvasStyle.Render(Render(m.frame.Snapshot, m.points, cw, ch, th))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.kind), th.Primary, th.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption(headline(m.values)))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.frame.Seq)) + "\n")
	if m.frame.Phase != "" {
		s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(m.frame.Phase) + "\n")
	}
	speed := m.ctrl.Speed()
	s.WriteString(labelStyle.Render("Speed") + ProgressBar(float64(speed)/control.MaxSpeed, 12) + valueStyle.Render(fmt.Sprintf(" %d", speed)) + "\n")
	if m.finished {
		s.WriteString(labelStyle.Render("Result") + valueStyle.Render(Summary(m.payload)) + "\n")
	}
	for _, name := range slices.Sorted(maps.Keys(m.values)) {
		s.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.4g", m.values[name])) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	} else if m.run != nil && m.run.Err() != nil {
		var serr *engine.StepError
		if errors.As(m.run.Err(), &serr) {
			s.WriteString("\n" + StatusFailed.Render(fmt.Sprintf("step %d: %v", serr.Step, serr.Wrapped)) + "\n")
		} else {
			s.WriteString("\n" + StatusFailed.Render(m.run.Err().Error()) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause +/-:Speed R:Restart\nTAB:Next T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume
  + / -    faster or slower
  R        restart on fresh input
  Tab      next algorithm in this family
  T        cycle themes
  Q        quit
`

// Summary shortens a completion payload to one line.
func Summary(payload any) string {
	switch p := payload.(type) {
	case nil:
		return "none"
	case []pathfind.Pos:
		return fmt.Sprintf("path of %d cells", len(p))
	case ml.KMeansResult:
		return fmt.Sprintf("%d iterations, converged=%t", p.Iterations, p.Converged)
	case ml.RegressionResult:
		return fmt.Sprintf("y = %.3fx + %.1f (r2 %.2f)", p.Line.Slope, p.Line.Intercept, p.R2)
	case ml.DBSCANResult:
		return fmt.Sprintf("%d clusters, %d noise", p.Clusters, p.Noise)
	}
	out := fmt.Sprintf("%v", payload)
	if len(out) > 30 {
		out = out[:27] + "..."
	}
	return out
}

// Run drives the model until the user quits, then stops any active run.
func Run(m Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, opts...)
	m.link.p = p
	_, err := p.Run()
	m.vis.Stop()
	return err
}
