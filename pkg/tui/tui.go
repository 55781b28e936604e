// Package tui provides a terminal bank browser for emubank
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/keymap"
	"github.com/james-see/emubank/pkg/report"
)

// Phosphor color scheme
var (
	amber      = lipgloss.Color("#FFB000")
	paleAmber  = lipgloss.Color("#FFD27F")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(paleAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Padding(1, 2)
)

// BankTypes are the file extensions offered by the picker.
var BankTypes = []string{".e3", ".e3x", ".esi", ".eb", ".bnk"}

// State represents the current TUI state
type State int

const (
	StateFilePicker State = iota
	StateLoading
	StatePresets
	StateZones
	StateSamples
	StateError
)

// Model represents the TUI model
type Model struct {
	state      State
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string
	bank       *bank.Bank
	summary    *report.Summary
	cursor     int
	lines      []string // zone report of the selected preset
	scroll     int
	status     string
	err        error
	width      int
	height     int
	capacity   int
}

type bankLoadedMsg struct {
	path    string
	bank    *bank.Bank
	summary *report.Summary
	err     error
}

type actionDoneMsg struct {
	status string
	err    error
}

// New creates a new TUI model. A non-empty path is opened at start.
func New(path string, capacity int) Model {
	fp := filepicker.New()
	fp.AllowedTypes = BankTypes
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amber)

	if capacity <= 0 {
		capacity = bank.DefaultCapacity
	}
	m := Model{
		state:      StateFilePicker,
		filePicker: fp,
		spinner:    s,
		path:       path,
		capacity:   capacity,
		height:     24,
	}
	if path != "" {
		m.state = StateLoading
	}
	return m
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	if m.state == StateLoading {
		return tea.Batch(m.spinner.Tick, loadBank(m.path, m.capacity))
	}
	return tea.Batch(m.spinner.Tick, m.filePicker.Init())
}

func loadBank(path string, capacity int) tea.Cmd {
	return func() tea.Msg {
		b, err := bank.Open(path, bank.WithCapacity(capacity))
		if err != nil {
			return bankLoadedMsg{path: path, err: err}
		}
		s, err := report.Summarize(b)
		return bankLoadedMsg{path: path, bank: b, summary: s, err: err}
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				if m.bank != nil {
					m.state = StatePresets
					return m, nil
				}
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.path = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, loadBank(path, m.capacity))
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StatePresets:
			return m.updatePresets(msg)
		case StateZones:
			return m.updateZones(msg)
		case StateSamples, StateError:
			return m.updateBack(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case bankLoadedMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.state = StatePresets
		m.bank = msg.bank
		m.summary = msg.summary
		m.cursor = 0
		m.status = ""
		return m, nil

	case actionDoneMsg:
		m.state = StatePresets
		if msg.err != nil {
			m.status = errorStyle.Render("✗ " + msg.err.Error())
		} else {
			m.status = msg.status
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updatePresets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.summary.Presets)
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter":
		if n == 0 {
			return m, nil
		}
		zones, err := report.Zones(m.bank, m.cursor)
		if err != nil {
			m.status = errorStyle.Render("✗ " + err.Error())
			return m, nil
		}
		var sb strings.Builder
		if err := report.WriteZones(&sb, zones); err != nil {
			m.status = errorStyle.Render("✗ " + err.Error())
			return m, nil
		}
		m.lines = strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
		m.scroll = 0
		m.state = StateZones
	case "s":
		m.state = StateSamples
	case "o":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "x":
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, m.extractSamples())
	case "m":
		if n == 0 {
			return m, nil
		}
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, m.exportKeymap(m.cursor))
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateZones(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < len(m.lines)-1 {
			m.scroll++
		}
	case "esc", "enter":
		m.state = StatePresets
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateBack(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.err = nil
		if m.bank != nil {
			m.state = StatePresets
		} else {
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) outputBase() string {
	return strings.TrimSuffix(m.path, filepath.Ext(m.path))
}

func (m Model) extractSamples() tea.Cmd {
	b, dir := m.bank, m.outputBase()+"_samples"
	return func() tea.Msg {
		files, err := report.ExtractSamples(b, dir)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("✓ %d samples written to %s", len(files), dir)}
	}
}

func (m Model) exportKeymap(n int) tea.Cmd {
	b, out := m.bank, fmt.Sprintf("%s_preset%03d.mid", m.outputBase(), n)
	return func() tea.Msg {
		if err := keymap.NewExporter().WriteMIDIFile(b, n, out); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "✓ key map written to " + out}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StatePresets:
		s.WriteString(m.viewPresets())
	case StateZones:
		s.WriteString(m.viewZones())
	case StateSamples:
		s.WriteString(m.viewSamples())
	case StateError:
		s.WriteString(m.viewError())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help()))

	return s.String()
}

func (m Model) help() string {
	switch m.state {
	case StatePresets:
		return "↑/↓: navigate • enter: zones • s: samples • x: extract • m: key map • o: open • q: quit"
	case StateZones:
		return "↑/↓: scroll • esc: back • q: quit"
	case StateFilePicker:
		return "enter: open • esc: back • q: quit"
	default:
		return "esc: back • q: quit"
	}
}

func (m Model) viewFilePicker() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" SELECT BANK FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s %s...", m.spinner.View(), filepath.Base(m.path)))
	return boxStyle.Render(s.String())
}

func (m Model) header() string {
	h := m.summary
	return fmt.Sprintf("%s  %s  %d bytes  %d presets  %d samples",
		h.Format, h.Name, h.Size, len(h.Presets), len(h.Samples))
}

func (m Model) viewPresets() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" PRESETS "))
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(m.header()))
	s.WriteString("\n\n")

	if len(m.summary.Presets) == 0 {
		s.WriteString(menuStyle.Render("  (no presets)"))
		s.WriteString("\n")
	}
	for i, p := range m.summary.Presets {
		line := fmt.Sprintf("%3d %-16s %3d zones", p.Index, p.Name, p.NoteZones)
		if p.Link >= 0 {
			line += fmt.Sprintf("  → %d", p.Link)
		}
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(menuStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}
	for _, w := range m.summary.Warnings {
		s.WriteString(errorStyle.Render("! " + w))
		s.WriteString("\n")
	}
	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
	}
	return boxStyle.Render(s.String())
}

func (m Model) viewZones() string {
	var s strings.Builder
	p := m.summary.Presets[m.cursor]
	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(p.Name))))
	s.WriteString("\n\n")

	rows := max(m.height-14, 5)
	end := min(m.scroll+rows, len(m.lines))
	for _, l := range m.lines[m.scroll:end] {
		s.WriteString(l)
		s.WriteString("\n")
	}
	return boxStyle.Render(s.String())
}

func (m Model) viewSamples() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" SAMPLES "))
	s.WriteString("\n\n")
	if len(m.summary.Samples) == 0 {
		s.WriteString(menuStyle.Render("  (no samples)"))
	}
	for _, smp := range m.summary.Samples {
		ch := "mono"
		if smp.Channels == 2 {
			ch = "stereo"
		}
		s.WriteString(menuStyle.Render(fmt.Sprintf("%3d %-16s %6d Hz %-6s %8d frames",
			smp.Index, smp.Name, smp.SampleRate, ch, smp.Frames)))
		s.WriteString("\n")
	}
	return boxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" ERROR "))
	s.WriteString("\n\n")
	s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  ___ _ __ ___  _   _| |__   __ _ _ __ | | __
 / _ \ '_ ` + "`" + ` _ \| | | | '_ \ / _` + "`" + ` | '_ \| |/ /
|  __/ | | | | | |_| | |_) | (_| | | | |   <
 \___|_| |_| |_|\__,_|_.__/ \__,_|_| |_|_|\_\
`
	return lipgloss.NewStyle().Foreground(amber).Render(logo)
}

// Run starts the TUI application
func Run(path string, capacity int) error {
	p := tea.NewProgram(New(path, capacity), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
