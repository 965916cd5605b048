// Package tui renders the simulation live in the terminal. It is a pure
// presentation layer: it drives the stepper through its public API and
// reads state back only through float snapshots.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/CDE90/pi-blocks-simulation/internal/rational"
	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

const (
	canvasWidth  = 76
	canvasHeight = 16
	// Horizontal extent of the simulated world in position units; block 1
	// starts at 600, so leave room for it to travel right after separation.
	worldWidth      = 1200.0
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives the simulation and draws it at a fixed frame rate; the
// simulation advances StepsPerFrame ticks between draws.
type Model struct {
	sim       *sim.Simulation
	canvas    [][]rune
	piHistory []float64
	showGraph bool
}

func NewModel(s *sim.Simulation) Model {
	canvas := make([][]rune, canvasHeight)
	for i := range canvas {
		canvas[i] = make([]rune, canvasWidth)
	}
	return Model{
		sim:       s,
		canvas:    canvas,
		piHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.sim.TogglePause()
		case "r":
			m.reset()
		case "1":
			m.tuneMass(0, false)
		case "2":
			m.tuneMass(0, true)
		case "3":
			m.tuneMass(1, false)
		case "4":
			m.tuneMass(1, true)
		case "+", "=":
			m.sim.AdjustSpeed(true)
		case "-", "_":
			m.sim.AdjustSpeed(false)
		case "]":
			m.sim.AdjustPrecision(true)
		case "[":
			m.sim.AdjustPrecision(false)
		case "g":
			m.showGraph = !m.showGraph
		}
	case TickMsg:
		if !m.sim.Paused() {
			for i := 0; i < m.sim.StepsPerFrame(); i++ {
				m.sim.Update()
			}
			if m.sim.TotalCollisions() > 0 {
				m.piHistory = append(m.piHistory, m.sim.PiApproximation())
				if len(m.piHistory) > historyCapacity {
					m.piHistory = m.piHistory[1:]
				}
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) reset() {
	b0, b1 := m.sim.Blocks()
	_ = m.sim.Reset(b0.Mass, b1.Mass, m.sim.Params().Velocity1)
	m.piHistory = m.piHistory[:0]
}

// tuneMass scales a block's mass by a decade and restarts the run. The
// adjustment stays in exact arithmetic; floats never reach the state.
func (m *Model) tuneMass(which int, increase bool) {
	if m.sim.Paused() {
		return
	}

	ten := rational.FromInt(10)
	one := rational.FromInt(1)

	b0, b1 := m.sim.Blocks()
	masses := []rational.Rational{b0.Mass, b1.Mass}

	if increase {
		masses[which] = masses[which].Mul(ten)
	} else {
		masses[which] = masses[which].Div(ten)
		if masses[which].Cmp(one) < 0 {
			masses[which] = one
		}
	}

	_ = m.sim.Reset(masses[0], masses[1], m.sim.Params().Velocity1)
	m.piHistory = m.piHistory[:0]
}

func (m Model) View() string {
	m.draw()

	var canvas strings.Builder
	for _, row := range m.canvas {
		canvas.WriteString(string(row))
		canvas.WriteString("\n")
	}

	left := canvasStyle.Render(canvas.String())
	if m.showGraph && len(m.piHistory) > 1 {
		graph := asciigraph.Plot(m.piHistory,
			asciigraph.Height(8),
			asciigraph.Width(canvasWidth-10),
			asciigraph.Caption("pi approximation"),
		)
		left = lipgloss.JoinVertical(lipgloss.Left, left, graphStyle.Render(graph))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, left, m.statsView())
	help := helpStyle.Render("space pause · r reset · 1/2/3/4 masses · +/- speed · [/] precision · g graph · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, view, help)
}

func (m Model) statsView() string {
	snap := m.sim.Snapshot()
	piErr := 100 * math.Abs(snap.Pi-math.Pi) / math.Pi

	status := "running"
	if m.sim.Paused() {
		status = pausedStyle.Render("PAUSED")
	}
	simplify := " "
	if m.sim.SimplifyCounter() == 0 {
		simplify = "*"
	}

	rows := []struct {
		label, value string
	}{
		{"collisions", humanize.Comma(int64(snap.TotalCollisions))},
		{"wall / block", fmt.Sprintf("%s / %s",
			humanize.Comma(int64(snap.WallCollisions)),
			humanize.Comma(int64(snap.BlockCollisions)))},
		{"mass ratio", fmt.Sprintf("%.1f", m.sim.MassRatio().Float64())},
		{"", ""},
		{"pi approx", fmt.Sprintf("%.8f", snap.Pi)},
		{"true pi", fmt.Sprintf("%.8f", math.Pi)},
		{"error", fmt.Sprintf("%.8f%%", piErr)},
		{"", ""},
		{"v0 / v1", fmt.Sprintf("%.3f / %.3f", snap.Velocity0, snap.Velocity1)},
		{"energy err", fmt.Sprintf("%.3e", snap.EnergyError)},
		{"momentum err", fmt.Sprintf("%.3e", snap.MomentumError)},
		{"", ""},
		{"status", status},
		{"steps/frame", humanize.Comma(int64(m.sim.StepsPerFrame()))},
		{"precision", humanize.Comma(m.sim.DenominatorCap()) + " " + simplify},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("pi by collisions"))
	b.WriteString("\n")
	for _, row := range rows {
		if row.label == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}

	return statsStyle.Render(b.String())
}

func (m Model) draw() {
	for y := range m.canvas {
		for x := range m.canvas[y] {
			m.canvas[y][x] = ' '
		}
	}

	groundY := canvasHeight - 2

	for x := 0; x < canvasWidth; x++ {
		m.canvas[groundY+1][x] = '─'
	}
	for y := 0; y <= groundY; y++ {
		m.canvas[y][0] = '│'
	}

	snap := m.sim.Snapshot()
	b0, b1 := m.sim.Blocks()

	m.drawBlock(snap.Position0, b0.Size.Float64(), groundY, '#')
	m.drawBlock(snap.Position1, b1.Size.Float64(), groundY, '@')
}

func (m Model) drawBlock(pos, size float64, groundY int, c rune) {
	cx := int(pos / worldWidth * canvasWidth)
	half := int(size / worldWidth * canvasWidth / 2)
	if half < 1 {
		half = 1
	}
	height := 2 * half

	for y := groundY; y > groundY-height && y >= 0; y-- {
		for x := cx - half; x <= cx+half; x++ {
			if x >= 1 && x < canvasWidth {
				m.canvas[y][x] = c
			}
		}
	}
}

// RunInteractive starts the live view with the given simulation.
func RunInteractive(s *sim.Simulation) error {
	p := tea.NewProgram(NewModel(s))
	_, err := p.Run()
	return err
}
