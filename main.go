// csplens - a terminal lens for Content-Security-Policy headers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/csplens/internal/cli"
	"github.com/jeranaias/csplens/internal/csp"
	"github.com/jeranaias/csplens/internal/render"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdFilter:
		cli.HandleFilter(args)
	case cli.CmdREPL:
		cli.HandleREPL(args)
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdExplain:
		cli.HandleExplain(args)
	case cli.CmdScan:
		cli.HandleScan(args)
	case cli.CmdWatch:
		cli.HandleWatch(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion(args.JSON)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.HandleFilter(args)
	}
}

// runTUI starts the live preview interface.
func runTUI(args cli.Args) {
	if !cli.IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, "Error: the tui needs a terminal; pipe into plain csplens instead")
		os.Exit(1)
	}

	cfg := cli.LoadConfig(args)
	opts := cli.ResolveOptions(args, cfg)

	m := newTUIModel(opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running csplens: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// keyMap defines the TUI key bindings. ctrl+m is the terminal's enter, so
// the multiline toggle answers to both names.
type keyMap struct {
	ToggleMultiline key.Binding
	Browse          key.Binding
	Edit            key.Binding
	Help            key.Binding
	Quit            key.Binding
	ForceQuit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleMultiline: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("ctrl+m", "toggle multiline"),
		),
		Browse: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "browse the preview"),
		),
		Edit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "edit the policy"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// tuiModel is the root Bubble Tea model: one policy line under edit, with a
// live rendering of it in a scrollable preview.
type tuiModel struct {
	// Input and preview
	input    textinput.Model
	preview  viewport.Model
	renderer *render.Renderer

	// Derived state, recomputed on every edit
	policy csp.Policy

	// Modes
	multiline bool
	editing   bool
	showHelp  bool

	// Dimensions
	width  int
	height int
	ready  bool

	keys keyMap

	// Chrome styles bound to the resolved profile
	titleStyle lipgloss.Style
	dimStyle   lipgloss.Style
	safeStyle  lipgloss.Style
	alarmStyle lipgloss.Style

	profileName string
}

// newTUIModel builds the model from resolved options. The preview renders
// through the same renderer as the filter, so what the TUI shows is exactly
// what a pipe would receive.
func newTUIModel(opts cli.Options) tuiModel {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(opts.Profile)

	dimStyle := r.NewStyle().Foreground(lipgloss.Color("242"))

	input := textinput.New()
	input.Prompt = "csp> "
	input.PromptStyle = r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	input.Placeholder = "default-src 'self'; img-src https://cdn.example.com"
	input.PlaceholderStyle = dimStyle
	input.Focus()

	return tuiModel{
		input:       input,
		renderer:    render.New(opts.Theme),
		multiline:   opts.Multiline,
		editing:     true,
		keys:        defaultKeyMap(),
		titleStyle:  r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		dimStyle:    dimStyle,
		safeStyle:   r.NewStyle().Foreground(lipgloss.Color("2")),
		alarmStyle:  r.NewStyle().Foreground(lipgloss.Color("1")),
		profileName: cli.ProfileName(opts.Profile),
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Title, input, rule and status bar each take one line.
		previewHeight := msg.Height - 4
		if previewHeight < 1 {
			previewHeight = 1
		}

		if !m.ready {
			m.preview = viewport.New(msg.Width, previewHeight)
			m.ready = true
		} else {
			m.preview.Width = msg.Width
			m.preview.Height = previewHeight
		}
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input for both focus states.
func (m tuiModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c leaves from anywhere.
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.editing {
		switch {
		case key.Matches(msg, m.keys.Browse):
			m.input.Blur()
			m.editing = false
			return m, nil

		case key.Matches(msg, m.keys.ToggleMultiline):
			m.multiline = !m.multiline
			m.refreshPreview()
			return m, nil
		}

		// Everything else edits the policy line.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.refreshPreview()
		return m, cmd
	}

	// Browse mode: single-key commands plus viewport scrolling.
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.refreshPreview()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		m.showHelp = false
		m.input.Focus()
		m.editing = true
		m.refreshPreview()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ToggleMultiline):
		m.multiline = !m.multiline
		m.refreshPreview()
		return m, nil
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

// View renders the full screen.
func (m tuiModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.dimStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.preview.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// =============================================================================
// VIEW COMPOSITION
// =============================================================================

// refreshPreview re-renders the viewport content from the current input.
func (m *tuiModel) refreshPreview() {
	if !m.ready {
		return
	}

	if m.showHelp {
		m.preview.SetContent(m.helpContent())
		m.preview.GotoTop()
		return
	}

	m.policy = csp.ParseLine(m.input.Value())

	pane := "compact"
	if m.multiline {
		pane = "multiline"
	}

	var b strings.Builder
	b.WriteString(m.dimStyle.Render(pane))
	b.WriteString("\n\n")

	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(m.dimStyle.Render("type a policy above to see it rendered"))
	case len(m.policy) == 0:
		b.WriteString(m.dimStyle.Render("no complete directive yet: a directive needs a name and at least one value"))
	default:
		b.WriteString(m.renderer.Render(m.policy, m.multiline))
	}

	m.preview.SetContent(b.String())
}

// titleLine is the top bar: program name plus the active color profile.
func (m tuiModel) titleLine() string {
	left := m.titleStyle.Render("csplens")
	right := m.dimStyle.Render(m.profileName)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// statusLine is the bottom bar: classification counts, the active pane and
// the key hints for the current focus state.
func (m tuiModel) statusLine() string {
	counts := fmt.Sprintf("%s  %s  %d plain  %s",
		m.safeStyle.Render(fmt.Sprintf("%d safe", m.policy.Count(csp.Safe))),
		m.alarmStyle.Render(fmt.Sprintf("%d unsafe", m.policy.Count(csp.Unsafe))),
		m.policy.Count(csp.Plain),
		m.alarmStyle.Render(fmt.Sprintf("%d malformed", m.policy.Count(csp.Malformed))),
	)

	hints := "esc browse · ctrl+m multiline · ctrl+c quit"
	if !m.editing {
		hints = "i edit · ? help · q quit"
	}

	line := counts + m.dimStyle.Render("  │  "+hints)
	if lipgloss.Width(line) > m.width {
		return counts
	}
	return line
}

// helpContent is the browse-mode help page.
func (m tuiModel) helpContent() string {
	rows := []struct{ keys, desc string }{
		{"type", "edit the policy line; the preview follows every keystroke"},
		{"ctrl+m / enter", "toggle between compact and multiline rendering"},
		{"esc", "leave the input and browse the preview"},
		{"up/down, pgup/pgdn", "scroll the preview while browsing"},
		{"i", "return to editing"},
		{"?", "toggle this help"},
		{"q, ctrl+c", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.titleStyle.Render("keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-20s %s\n", row.keys, m.dimStyle.Render(row.desc)))
	}
	b.WriteString("\n")
	b.WriteString(m.dimStyle.Render("colors: green safe, red unsafe, black-on-red malformed, plain uncolored"))
	return b.String()
}
