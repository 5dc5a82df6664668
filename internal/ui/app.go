package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/intelwatch/internal/alert"
	"github.com/five82/intelwatch/internal/prefs"
	"github.com/five82/intelwatch/internal/settings"
	"github.com/five82/intelwatch/internal/state"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	// Cancel stops the rest of the program when the user quits.
	Cancel   context.CancelFunc
	Settings *settings.Store
	Activity *state.Store
	Player   *alert.Player
	Logger   *zap.Logger
	LogDir   string
	PollTick time.Duration

	Prefs     prefs.Prefs
	PrefsPath string

	// Status is shown in the footer until the first user action.
	Status    string
	StatusErr bool

	// OnChange runs after every successful list edit.
	OnChange func()
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	cancel    context.CancelFunc
	settings  *settings.Store
	activity  *state.Store
	player    *alert.Player
	logger    *zap.Logger
	logDir    string
	pollTick  time.Duration
	prefsPath string
	prefs     prefs.Prefs
	onChange  func()

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	// Data state
	lists    settings.Snapshot
	snapshot state.Snapshot

	// Editor state
	focus     settings.Category
	cursor    [3]int
	editing   bool
	editIndex int
	input     textinput.Model

	status    string
	statusErr bool

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 128

	m := Model{
		ctx:       ctx,
		cancel:    opts.Cancel,
		settings:  opts.Settings,
		activity:  opts.Activity,
		player:    opts.Player,
		logger:    logger,
		logDir:    opts.LogDir,
		pollTick:  pollTick,
		prefsPath: prefsPath,
		prefs:     opts.Prefs,
		onChange:  opts.OnChange,
		theme:     GetTheme(opts.Prefs.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     input,
		status:    opts.Status,
		statusErr: opts.StatusErr,
		focus:     settings.Channels,
	}
	m.reloadLists()
	if m.activity != nil {
		m.snapshot = m.activity.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.activity != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.activity))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = maxInt(m.columnWidth()-8, 8)
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleTick refreshes activity and stops the program once the context ends.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.ctx.Err() != nil {
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	if m.activity != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.activity))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// reloadLists copies the current lists out of the settings store and keeps
// every cursor in range.
func (m *Model) reloadLists() {
	if m.settings == nil {
		return
	}
	m.lists = m.settings.Snapshot()
	for _, c := range settings.Categories {
		m.cursor[c] = clamp(m.cursor[c], len(m.lists.Values(c)))
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
