// Package tui is the interactive demo: a braille canvas where one simulated
// element chases the pointer under the configured force model, with the live
// performance monitor alongside.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinetic/internal/capability"
	"github.com/san-kum/kinetic/internal/config"
	"github.com/san-kum/kinetic/internal/motion"
	"github.com/san-kum/kinetic/internal/perf"
)

const (
	canvasW = 60
	canvasH = 16

	// One canvas sub-pixel per simulated pixel keeps the mapping direct:
	// the world is canvasW*2 x canvasH*4 pixels, origin at the center.
	worldW = canvasW * 2
	worldH = canvasH * 4

	pointerStep = 6.0
	demoFPS     = 60
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/demoFPS, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type Model struct {
	cfg     *config.Config
	force   motion.ForceModel
	body    motion.Body
	pointer motion.Vec3
	tier    capability.Tier

	monitor *perf.Monitor

	presets []string
	preset  int

	paused  bool
	reduced bool

	trail      []motion.Vec3
	fpsHistory []float64
	lastFrame  time.Time
	fps        float64

	// Help panel slides in on a decorative spring, separate from the
	// engine's own integrator.
	helpSpring harmonica.Spring
	helpPos    float64
	helpVel    float64
	showHelp   bool

	canvas *Canvas
	width  int
	height int
}

func NewModel(cfg *config.Config) (*Model, error) {
	force, err := cfg.ToForceModel()
	if err != nil {
		return nil, err
	}

	monitor := perf.NewMonitor(perf.Options{
		UpdateInterval: time.Duration(cfg.Monitor.UpdateIntervalMs) * time.Millisecond,
		LowThreshold:   cfg.Monitor.LowThreshold,
		HighThreshold:  cfg.Monitor.HighThreshold,
		MaxLevel:       cfg.Monitor.MaxLevel,
		AutoOptimize:   cfg.Monitor.AutoOptimize,
	})
	monitor.Start()

	presets := config.ListPresets()
	sort.Strings(presets)

	return &Model{
		cfg:        cfg,
		force:      force,
		body:       motion.NewBody(),
		pointer:    motion.Vec3{X: 40, Y: 20},
		tier:       capability.Detect(),
		monitor:    monitor,
		presets:    presets,
		reduced:    cfg.ReducedMotion,
		trail:      make([]motion.Vec3, 0, 100),
		fpsHistory: make([]float64, 0, 60),
		helpSpring: harmonica.NewSpring(harmonica.FPS(demoFPS), 6.0, 0.8),
		canvas:     NewCanvas(canvasW, canvasH),
	}, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) step(now time.Time) {
	var dt float64
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame).Seconds()
	}
	m.lastFrame = now
	if dt <= 0 || dt > 0.1 {
		dt = 1.0 / demoFPS
	}
	m.fps = 1.0 / dt
	m.fpsHistory = append(m.fpsHistory, m.fps)
	if len(m.fpsHistory) > 60 {
		m.fpsHistory = m.fpsHistory[1:]
	}
	m.monitor.RecordFrame(now)

	target := 0.0
	if m.showHelp {
		target = 1.0
	}
	m.helpPos, m.helpVel = m.helpSpring.Update(m.helpPos, m.helpVel, target)

	if m.paused || m.reduced {
		return
	}

	m.body.Activate()
	if _, err := motion.Step(&m.body, m.force, m.pointer, dt); err != nil {
		m.body.Reset()
		return
	}

	m.trail = append(m.trail, m.body.Position)
	if len(m.trail) > 100 {
		m.trail = m.trail[1:]
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.monitor.Stop()
		return m, tea.Quit
	case "up", "k":
		m.pointer.Y -= pointerStep
	case "down", "j":
		m.pointer.Y += pointerStep
	case "left", "h":
		m.pointer.X -= pointerStep
	case "right", "l":
		m.pointer.X += pointerStep
	case "f":
		m.body.ApplyForce(motion.Vec3{X: 180, Y: -120})
	case "r":
		m.body.Reset()
		m.trail = m.trail[:0]
	case "p", " ":
		m.paused = !m.paused
	case "x":
		m.reduced = !m.reduced
		if m.reduced {
			m.body.Reset()
			m.trail = m.trail[:0]
		}
	case "tab":
		m.cyclePreset()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) cyclePreset() {
	m.preset = (m.preset + 1) % len(m.presets)
	cfg := config.GetPreset(m.presets[m.preset])
	if cfg == nil {
		return
	}
	if force, err := cfg.ToForceModel(); err == nil {
		m.cfg = cfg
		m.force = force
		m.body.Reset()
		m.trail = m.trail[:0]
	}
}

func (m *Model) View() string {
	m.canvas.Clear()

	for _, p := range m.trail {
		m.canvas.Set(worldX(p.X), worldY(p.Y))
	}
	drawCross(m.canvas, worldX(m.pointer.X), worldY(m.pointer.Y))
	drawDot(m.canvas, worldX(m.body.Position.X), worldY(m.body.Position.Y))

	left := canvasStyle.Render(m.canvas.String())
	right := m.statsPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	out := headerStyle.Render("kinetic · "+m.presets[m.preset]) + "\n" + body

	if len(m.fpsHistory) > 2 {
		graph := asciigraph.Plot(m.fpsHistory,
			asciigraph.Height(5),
			asciigraph.Width(canvasW),
			asciigraph.Caption("fps"))
		out += "\n" + graphStyle.Render(graph)
	}

	if m.helpPos > 0.01 {
		out += "\n" + m.helpPanel()
	}
	out += "\n" + helpStyle.Render("move: hjkl/arrows · f fling · tab preset · p pause · x reduced motion · ? help · q quit")
	return out
}

func (m *Model) statsPanel() string {
	s := m.monitor.Latest()
	level := m.monitor.Level()

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var sb strings.Builder
	sb.WriteString(row("model", m.force.Kind.String()))
	sb.WriteString(row("tier", m.tier.String()))
	sb.WriteString(row("position", fmt.Sprintf("%.1f, %.1f", m.body.Position.X, m.body.Position.Y)))
	sb.WriteString(row("velocity", fmt.Sprintf("%.1f", m.body.Velocity.Norm())))
	sb.WriteString(row("scale", fmt.Sprintf("%.3f", m.body.Scale)))
	sb.WriteString(row("rotation", fmt.Sprintf("%.1f°", m.body.Rotation)))
	sb.WriteString(row("active", fmt.Sprintf("%v", m.body.Active)))
	sb.WriteString(row("fps", fmt.Sprintf("%.0f", m.fps)))
	sb.WriteString(row("window fps", fmt.Sprintf("%.1f", s.FPS)))
	sb.WriteString(row("jank", fmt.Sprintf("%.0f/10", s.JankScore)))
	sb.WriteString(row("opt level", fmt.Sprintf("%d", level)))
	if m.paused {
		sb.WriteString(warnStyle.Render("paused") + "\n")
	}
	if m.reduced {
		sb.WriteString(warnStyle.Render("reduced motion") + "\n")
	}
	return sb.String()
}

func (m *Model) helpPanel() string {
	lines := []string{
		"the dot chases the cross under the active force model",
		"fling (f) applies an impulse; the body settles on its own",
	}
	for _, s := range m.monitor.Suggestions() {
		lines = append(lines, "· "+s)
	}
	// Reveal lines in proportion to the spring position.
	shown := int(m.helpPos * float64(len(lines)))
	if shown > len(lines) {
		shown = len(lines)
	}
	return helpStyle.Render(strings.Join(lines[:shown], "\n"))
}

func worldX(x float64) int { return int(x) + worldW/2 }
func worldY(y float64) int { return int(y) + worldH/2 }

func drawDot(c *Canvas, x, y int) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func drawCross(c *Canvas, x, y int) {
	for d := -2; d <= 2; d++ {
		c.Set(x+d, y)
		c.Set(x, y+d)
	}
}

// Run starts the demo and blocks until quit.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	defer m.monitor.Stop()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
