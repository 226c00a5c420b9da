package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/coinsearch/internal/state"
)

const (
	appTitle    = "Coins Market Cap Ranks"
	emptyText   = "No results, try searching something else"
	placeholder = "Search coins"
)

// QueryPipeline is the part of the search pipeline the UI drives.
// *search.Pipeline satisfies it.
type QueryPipeline interface {
	SetQueryText(text string)
	Snapshot() state.Snapshot
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Pipeline  QueryPipeline
	Updates   <-chan state.Snapshot // the program quits when it closes
	ThemeName string
	SaveTheme func(name string) error // nil skips saving
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	pipeline  QueryPipeline
	updates   <-chan state.Snapshot
	saveTheme func(name string) error
	log       *zap.Logger

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	input    textinput.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot state.Snapshot
	rows     []row
	pending  bool

	// List state
	selectedRow int
	offset      int
}

// New creates a new Bubble Tea model seeded from the pipeline's current state.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	m := Model{
		pipeline:  opts.Pipeline,
		updates:   opts.Updates,
		saveTheme: opts.SaveTheme,
		log:       log.Named("ui"),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(themeName),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	m.input = textinput.New()
	m.input.Placeholder = placeholder
	m.input.Prompt = "> "
	m.input.Focus()

	if m.pipeline != nil {
		m.applySnapshot(m.pipeline.Snapshot())
		m.input.SetValue(m.snapshot.Query)
		m.pending = !m.snapshot.Settled()
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForSnapshot(m.updates),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width / 2
		m.input.Width = maxInt(msg.Width-8, 10)
		m.ready = true
		m.clampSelection()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForSnapshot(m.updates)

	case updatesClosedMsg:
		return m, tea.Quit

	case themeSaveErrMsg:
		m.log.Warn("save theme preference", zap.Error(msg.err))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey routes control keys to bindings and everything else to the
// search field.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.log.Debug("theme changed", zap.String("theme", m.theme.Name))
		return m, saveThemeCmd(m.saveTheme, m.theme.Name)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-m.listHeight())
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(m.listHeight())
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before && m.pipeline != nil {
		m.pipeline.SetQueryText(after)
		m.pending = true
	}
	return m, cmd
}

// applySnapshot records a pipeline snapshot. Every snapshot carries the
// current result list, so rows are rebuilt from it either way. The spinner
// stops only once the results belong to the text in the input.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if snap.Change == state.ChangeResults && snap.ResultsQuery == m.input.Value() {
		m.pending = false
	}
	m.rows = buildRows(snap.Results)
	m.clampSelection()
}

// applyTheme pushes theme colors into the bubbles components.
func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.input.Cursor.Style = styles.AccentText
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.MutedText
	m.help.Styles.ShortDesc = styles.FaintText
	m.help.Styles.ShortSeparator = styles.FaintText
}

// Messages

type snapshotMsg state.Snapshot

type updatesClosedMsg struct{}

type themeSaveErrMsg struct{ err error }

// Commands

// waitForSnapshot blocks on the subscription channel so snapshots are applied
// on the program loop.
func waitForSnapshot(updates <-chan state.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// saveThemeCmd writes the theme preference off the program loop.
func saveThemeCmd(save func(string) error, name string) tea.Cmd {
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		if err := save(name); err != nil {
			return themeSaveErrMsg{err: err}
		}
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the context
// is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
