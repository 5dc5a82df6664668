package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/intelwatch/internal/settings"
)

// maxFooterAlerts caps the recent alerts listed under the editor.
const maxFooterAlerts = 5

// renderMain renders the header, the three list columns and the footer.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	body := m.renderColumns(bodyHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.Logo.Render("intelwatch")}
	if m.logDir != "" {
		parts = append(parts, styles.MutedText.Render(truncateMiddle(m.logDir, 48)))
	}

	switch {
	case !snap.Healthy() && snap.FileErrors == 0:
		parts = append(parts, styles.DangerText.Render("scan failed: "+snap.LastError.Error()))
	case snap.Cycles == 0:
		parts = append(parts, styles.FaintText.Render("waiting for first scan"))
	default:
		watching := fmt.Sprintf("%d file", len(snap.Files))
		if len(snap.Files) != 1 {
			watching += "s"
		}
		parts = append(parts, styles.SuccessText.Render("watching "+watching))
		if snap.FileErrors > 0 {
			parts = append(parts, styles.WarningText.Render(fmt.Sprintf("%d unreadable", snap.FileErrors)))
		}
		parts = append(parts, styles.FaintText.Render("last scan "+snap.LastCycle.Format("15:04:05")))
	}

	if m.player != nil && m.player.Muted() {
		parts = append(parts, styles.WarningText.Render("muted"))
	}
	if snap.TotalAlerts > 0 {
		parts = append(parts, styles.AccentText.Render(fmt.Sprintf("%d alerts", snap.TotalAlerts)))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) columnWidth() int {
	return maxInt(m.width/len(settings.Categories), 12)
}

// renderColumns lays out one bordered list per settings category.
func (m Model) renderColumns(height int) string {
	styles := m.theme.Styles()
	width := m.columnWidth()
	// border and padding
	innerWidth := maxInt(width-4, 4)
	rows := maxInt(height-3, 1)

	cols := make([]string, 0, len(settings.Categories))
	for _, c := range settings.Categories {
		style := styles.Column
		if c == m.focus {
			style = styles.Focused
		}
		content := m.renderList(c, innerWidth, rows)
		cols = append(cols, style.Width(width-2).Height(rows+1).Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderList renders the title line and as many entries as fit, scrolled so
// the cursor stays visible.
func (m Model) renderList(c settings.Category, width, rows int) string {
	styles := m.theme.Styles()
	values := m.lists.Values(c)

	titleStyle := styles.MutedText.Bold(true)
	if c == m.focus {
		titleStyle = styles.AccentText.Bold(true)
	}
	lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", c.Title(), len(values)))}

	if len(values) == 0 {
		lines = append(lines, styles.FaintText.Render("empty, press a to add"))
		return strings.Join(lines, "\n")
	}

	cursor := m.cursor[c]
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	end := min(start+rows, len(values))

	for i := start; i < end; i++ {
		switch {
		case c == m.focus && i == cursor && m.editing:
			lines = append(lines, m.input.View())
		case c == m.focus && i == cursor:
			lines = append(lines, styles.Selected.Render(padRight(truncate(values[i], width), width)))
		default:
			lines = append(lines, styles.Text.Render(truncate(values[i], width)))
		}
	}
	return strings.Join(lines, "\n")
}

// renderFooter lists the watched files, the newest alerts and either the
// status message or the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	width := maxInt(m.width-2, 10)
	var lines []string

	if len(m.snapshot.Files) == 0 {
		lines = append(lines, styles.FaintText.Render("no chat logs for the configured channels"))
	} else {
		names := make([]string, 0, len(m.snapshot.Files))
		for _, f := range m.snapshot.Files {
			names = append(names, f.Name)
		}
		lines = append(lines, styles.MutedText.Render(truncate("files: "+strings.Join(names, ", "), width)))
	}

	alerts := m.snapshot.Alerts
	for i := len(alerts) - 1; i >= 0 && len(alerts)-i <= maxFooterAlerts; i-- {
		a := alerts[i]
		prefix := fmt.Sprintf("%s %-9s %s ", a.At.Format("15:04:05"), a.Category, a.Term)
		line := styles.CategoryStyle(a.Category).Render(prefix) +
			styles.Text.Render(truncate(a.Channel+": "+a.Text, maxInt(width-len(prefix), 10)))
		lines = append(lines, line)
	}

	switch {
	case m.status != "" && m.statusErr:
		lines = append(lines, styles.DangerText.Render(truncate(m.status, width)))
	case m.status != "":
		lines = append(lines, styles.InfoText.Render(truncate(m.status, width)))
	default:
		lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return styles.Footer.Width(m.width).Render(strings.Join(lines, "\n"))
}
