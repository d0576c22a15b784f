package internal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ainotebook/internal/focuslog"
	"ainotebook/internal/pomodoro"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	noteItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	noteItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	selectionStyle = lipgloss.NewStyle().
			Reverse(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const cursorBlock = "█"

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// formatAge describes t by calendar days before now, in now's location.
func formatAge(t, now time.Time) string {
	t = t.In(now.Location())
	day := func(x time.Time) time.Time {
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, x.Location())
	}
	days := int(math.Round(day(now).Sub(day(t)).Hours() / 24))
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("2006-01-02")
}

func (m *Model) View() string {
	if m.ShowSessions {
		return m.sessionsView()
	}
	if m.Editing {
		return m.editorView()
	}
	return m.mainView()
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(82).Render("AI Notebook"))
	sb.WriteString("\n\n")

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.noteListView(),
		"  ",
		m.noteDetailView(),
	)
	sb.WriteString(boxes)
	sb.WriteString("\n")
	sb.WriteString(m.timerView())
	sb.WriteString("\n")
	sb.WriteString(m.footerView("Navigate: Up/Down | Search: / | New: n | Edit: e | Preview: p | Favorite: f | Delete: d | Timer: s/x | Log: l | Quit: q"))

	return sb.String()
}

func (m *Model) footerView(help string) string {
	if m.Err != nil {
		return errorStyle.Render("Error: " + m.Err.Error())
	}
	return helpStyle.Render(help)
}

func (m *Model) noteListView() string {
	var sb strings.Builder

	switch {
	case m.Searching:
		sb.WriteString(m.search.View())
	case m.Query != "":
		sb.WriteString(inputStyle.Render("/ " + m.Query))
	default:
		sb.WriteString("Notes")
	}
	sb.WriteString("\n\n")

	if len(m.Visible) == 0 {
		if m.Query != "" {
			sb.WriteString(inactiveStyle.Render("No matching notes."))
		} else {
			sb.WriteString(inactiveStyle.Render("No notes yet. Press 'n' to add one."))
		}
	}

	now := time.Now()
	for i, n := range m.Visible {
		star := " "
		if n.Favorite {
			star = "★"
		}
		line := fmt.Sprintf("%s %s", star, truncate(n.DisplayTitle(), 16))
		line = fmt.Sprintf("%-19s %s", line, formatAge(n.UpdatedAt, now))

		if i == m.SelectedIndex {
			sb.WriteString(noteItemSelectedStyle.Render(line))
		} else {
			sb.WriteString(noteItemStyle.Render(inactiveStyle.Render(line)))
		}
		sb.WriteString("\n")
	}

	return boxStyle.Width(32).Height(16).Render(sb.String())
}

func (m *Model) noteDetailView() string {
	n := m.SelectedNote()
	if n == nil {
		return boxStyle.Width(48).Height(16).Render("Select a note")
	}

	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render(n.DisplayTitle()))
	sb.WriteString("\n")
	sb.WriteString(logTimeStyle.Render("Updated " + n.UpdatedAt.Local().Format("Jan 02 15:04")))
	if len(n.Tags) > 0 {
		sb.WriteString("  ")
		sb.WriteString(renderTags(n.Tags))
	}
	sb.WriteString("\n\n")

	if m.Previewing {
		rendered, err := m.renderer.Render(n.Content)
		if err != nil {
			sb.WriteString(errorStyle.Render(err.Error()))
		} else {
			sb.WriteString(strings.TrimSpace(rendered))
		}
	} else {
		sb.WriteString(n.Preview(600))
	}

	return boxStyle.Width(48).Height(16).Render(sb.String())
}

func (m *Model) timerView() string {
	s := m.Timer

	timeStyle := timerDisplayStyle
	if s.Status == pomodoro.StatusRunning {
		timeStyle = timerRunningStyle
	}

	var info strings.Builder
	info.WriteString(logHeaderStyle.Render("Pomodoro"))
	info.WriteString("\n\n")
	info.WriteString(timeStyle.Render(s.FormattedTime()))
	info.WriteString("  ")
	info.WriteString(inactiveStyle.Render(s.Status.String()))
	info.WriteString("\n\n")
	info.WriteString(m.progress.ViewAs(s.ProgressPercent() / 100))
	info.WriteString("\n\n")
	info.WriteString(timerMessage(s))
	if m.Status != "" {
		info.WriteString("\n")
		info.WriteString(inputStyle.Render(m.Status))
	}

	clock := renderClock(s.MinuteHandAngle(), s.SecondHandAngle())
	return boxStyle.Width(82).Render(lipgloss.JoinHorizontal(lipgloss.Center,
		" "+clock+" ",
		"   ",
		info.String(),
	))
}

func timerMessage(s pomodoro.State) string {
	switch s.Status {
	case pomodoro.StatusExpired:
		return "Time's up! Take a break."
	case pomodoro.StatusRunning:
		return "Focusing..."
	case pomodoro.StatusPaused:
		return "Paused. Press s to resume."
	}
	return "Press s to start focusing."
}

func (m *Model) editorView() string {
	var sb strings.Builder
	heading := "Edit Note"
	if m.isNew {
		heading = "New Note"
	}
	sb.WriteString(titleStyle.Width(82).Render(heading))
	sb.WriteString("\n\n")

	sb.WriteString(fieldLabel("Title", m.InputFocus == focusTitle))
	title := m.Draft.Title
	if m.InputFocus == focusTitle {
		title = inputStyle.Render(title + cursorBlock)
	}
	sb.WriteString(title)
	sb.WriteString("\n\n")

	sb.WriteString(fieldLabel("Body", m.InputFocus == focusBody))
	sb.WriteString("\n")
	sb.WriteString(boxStyle.Width(80).Height(14).Render(m.bodyView()))
	sb.WriteString("\n")

	sb.WriteString(fieldLabel("Tags", m.InputFocus == focusTags))
	sb.WriteString(renderTags(m.Draft.Tags))
	tagValue := m.TagInput
	if m.InputFocus == focusTags {
		tagValue = inputStyle.Render(tagValue + cursorBlock)
	}
	sb.WriteString(" ")
	sb.WriteString(tagValue)
	sb.WriteString("\n\n")

	sb.WriteString(m.footerView("Tab: Switch | Ctrl+S: Save | Esc: Cancel | Shift+Arrows: Select | ^B bold ^E italic ^U underline ^K code ^L list ^N numbered"))
	return sb.String()
}

// bodyView renders the buffer with the selection highlighted and, when the
// body has focus and nothing is selected, a block cursor.
func (m *Model) bodyView() string {
	runes := []rune(m.body.Value())
	sel := m.body.Selection()

	before := string(runes[:sel.Start])
	selected := string(runes[sel.Start:sel.End])
	after := string(runes[sel.End:])

	if !sel.Empty() {
		return before + selectionStyle.Render(selected) + after
	}
	if m.InputFocus != focusBody {
		return before + after
	}
	return before + inputStyle.Render(cursorBlock) + after
}

func fieldLabel(name string, focused bool) string {
	if focused {
		return inputStyle.Render("→ " + name + ": ")
	}
	return inputInactiveStyle.Render("  " + name + ": ")
}

func renderTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = tagStyle.Render("[" + t + "]")
	}
	return strings.Join(parts, " ")
}

func (m *Model) sessionsView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(82).Render("Focus Sessions"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Focused today: %s\n\n", timerDisplayStyle.Render(formatDuration(m.FocusedToday))))

	if len(m.Sessions) == 0 {
		sb.WriteString(inactiveStyle.Render("No sessions recorded yet."))
	}

	titles := make(map[string]string, len(m.Notes))
	for _, n := range m.Notes {
		titles[n.ID] = n.DisplayTitle()
	}

	const pageSize = 15
	start := m.SessionScroll
	end := min(start+pageSize, len(m.Sessions))
	for _, s := range m.Sessions[start:end] {
		sb.WriteString(formatSessionEntry(s, titles[s.NoteID]))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Up/Down: Scroll | Esc: Back"))
	return boxStyle.Width(82).Render(sb.String())
}

func formatSessionEntry(s focuslog.Session, title string) string {
	mark := inactiveStyle.Render("✗")
	if s.Completed {
		mark = timerRunningStyle.Render("✓")
	}
	timeStr := logTimeStyle.Render(s.StoppedAt.Local().Format("Jan 02 15:04"))
	entry := fmt.Sprintf("  %s %s  %s", mark, timeStr, formatDuration(s.Focused))
	if title != "" {
		entry += " " + tagStyle.Render("["+title+"]")
	}
	return entry
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
