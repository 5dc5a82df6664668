package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/intelwatch/internal/prefs"
	"github.com/five82/intelwatch/internal/settings"
)

// handleKey processes keyboard input outside the inline editor.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKey(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleMute):
		m.toggleMute()
		return m, nil

	case key.Matches(msg, m.keys.NextColumn):
		m.focus = settings.Categories[(int(m.focus)+1)%len(settings.Categories)]
		return m, nil

	case key.Matches(msg, m.keys.PrevColumn):
		n := len(settings.Categories)
		m.focus = settings.Categories[(int(m.focus)+n-1)%n]
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor[m.focus] = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.cursor[m.focus] = clamp(len(m.lists.Values(m.focus))-1, len(m.lists.Values(m.focus)))
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m.addEntry()

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit(m.cursor[m.focus])

	case key.Matches(msg, m.keys.Remove):
		m.removeEntry()
		return m, nil
	}

	return m, nil
}

// handleEditKey drives the inline text input while an entry is being edited.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		err := m.settings.Set(m.focus, m.editIndex, value)
		if errors.Is(err, settings.ErrInvalidTerm) {
			m.setError(err.Error())
			return m, nil
		}
		m.stopEdit()
		m.afterMutation("Saved", err)
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	n := len(m.lists.Values(m.focus))
	m.cursor[m.focus] = clamp(m.cursor[m.focus]+delta, n)
}

// addEntry appends the placeholder item to the focused list and opens it for
// editing.
func (m Model) addEntry() (tea.Model, tea.Cmd) {
	if m.settings == nil {
		return m, nil
	}
	idx, err := m.settings.Add(m.focus)
	m.afterMutation("Added", err)
	if idx < len(m.lists.Values(m.focus)) {
		m.cursor[m.focus] = idx
	}
	return m.startEdit(m.cursor[m.focus])
}

func (m Model) startEdit(i int) (tea.Model, tea.Cmd) {
	values := m.lists.Values(m.focus)
	if m.settings == nil || i < 0 || i >= len(values) {
		return m, nil
	}
	m.editing = true
	m.editIndex = i
	m.input.Placeholder = m.focus.NewItem()
	m.input.SetValue(values[i])
	m.input.CursorEnd()
	cmd := m.input.Focus()
	m.status = ""
	m.statusErr = false
	return m, cmd
}

func (m *Model) stopEdit() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) removeEntry() {
	values := m.lists.Values(m.focus)
	i := m.cursor[m.focus]
	if m.settings == nil || i >= len(values) {
		return
	}
	err := m.settings.Remove(m.focus, i)
	m.afterMutation(fmt.Sprintf("Removed %q", values[i]), err)
}

// afterMutation refreshes the lists after a store edit and reports the
// outcome. Store edits apply in memory even when writing the file fails.
func (m *Model) afterMutation(done string, err error) {
	m.reloadLists()
	switch {
	case errors.Is(err, settings.ErrOutOfRange), errors.Is(err, settings.ErrUnknownCategory):
		m.setError(err.Error())
		return
	case err != nil:
		m.logger.Warn("write settings failed", zap.String("path", m.settings.Path()), zap.Error(err))
		m.setError("Not saved: " + err.Error())
	default:
		m.status = done
		m.statusErr = false
	}
	if m.onChange != nil {
		m.onChange()
	}
}

func (m *Model) toggleMute() {
	if m.player == nil {
		return
	}
	muted := !m.player.Muted()
	m.player.SetMuted(muted)
	m.prefs.Muted = muted
	m.status = "Alerts on"
	if muted {
		m.status = "Alerts muted"
	}
	m.statusErr = false
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
		m.setError("Preferences not saved: " + err.Error())
	}
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}
