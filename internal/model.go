package internal

import (
	"fmt"
	"time"

	"ainotebook/internal/config"
	"ainotebook/internal/editor"
	"ainotebook/internal/focuslog"
	"ainotebook/internal/note"
	"ainotebook/internal/pomodoro"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

type timerMsg pomodoro.Event

type timerClosedMsg struct{}

const (
	focusTitle = iota
	focusBody
	focusTags
)

// Deps are the collaborators the TUI works against.
type Deps struct {
	Notes    *note.Repository
	Sessions *focuslog.Repository
	Timer    *pomodoro.Engine
	Logger   *zap.Logger
	Preview  config.PreviewConfig
}

type Model struct {
	Notes         []*note.Note
	Visible       []*note.Note
	SelectedIndex int
	Query         string
	Err           error
	Status        string

	Searching bool
	search    textinput.Model

	// Editor state
	Editing    bool
	Draft      *note.Note
	isNew      bool
	InputFocus int
	TagInput   string
	body       *editor.Buffer

	Previewing bool

	// Sessions viewer state
	ShowSessions  bool
	SessionScroll int
	Sessions      []focuslog.Session
	FocusedToday  time.Duration

	Timer       pomodoro.State
	engine      *pomodoro.Engine
	timerEvents <-chan pomodoro.Event
	tracker     focuslog.Tracker

	notes    *note.Repository
	sessions *focuslog.Repository
	logger   *zap.Logger
	renderer *glamour.TermRenderer
	progress progress.Model
	width    int
	height   int
}

func NewModel(deps Deps) (*Model, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := NewRenderer(deps.Preview)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	search := textinput.New()
	search.Placeholder = "search notes"
	search.Prompt = "/ "
	search.CharLimit = 256

	m := &Model{
		engine:      deps.Timer,
		timerEvents: deps.Timer.Subscribe(64),
		Timer:       deps.Timer.State(),
		notes:       deps.Notes,
		sessions:    deps.Sessions,
		logger:      logger,
		renderer:    renderer,
		search:      search,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}

	if err := m.reload(""); err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return waitForTimer(m.timerEvents)
}

func waitForTimer(ch <-chan pomodoro.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return timerClosedMsg{}
		}
		return timerMsg(ev)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerMsg:
		m.handleTimerEvent(pomodoro.Event(msg))
		return m, waitForTimer(m.timerEvents)
	case timerClosedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m *Model) SelectedNote() *note.Note {
	if m.SelectedIndex >= 0 && m.SelectedIndex < len(m.Visible) {
		return m.Visible[m.SelectedIndex]
	}
	return nil
}

// Close records any session still in progress and releases the timer.
func (m *Model) Close() {
	if s := m.tracker.Flush(m.engine.State(), time.Now()); s != nil {
		m.recordSession(s)
	}
	m.engine.Close()
}

func (m *Model) handleTimerEvent(ev pomodoro.Event) {
	m.Timer = ev.State

	noteID := ""
	if n := m.SelectedNote(); n != nil {
		noteID = n.ID
	}
	if s := m.tracker.Observe(ev, noteID); s != nil {
		m.recordSession(s)
	}

	switch ev.Type {
	case pomodoro.EventExpired:
		m.Status = "Time's up! Take a break."
	case pomodoro.EventStarted, pomodoro.EventStopped:
		m.Status = ""
	}
}

func (m *Model) recordSession(s *focuslog.Session) {
	if err := m.sessions.Create(s); err != nil {
		m.logger.Error("failed to record focus session", zap.Error(err))
		m.Err = err
		return
	}
	m.logger.Info("focus session recorded",
		zap.Int64("id", s.ID),
		zap.String("note", s.NoteID),
		zap.Duration("focused", s.Focused),
		zap.Bool("completed", s.Completed),
	)
}

// reload refreshes notes from the repository, keeping selectID selected
// when it is still visible.
func (m *Model) reload(selectID string) error {
	notes, err := m.notes.GetAll()
	if err != nil {
		return err
	}
	m.Notes = notes
	m.applyFilter(m.Query)

	if selectID != "" {
		for i, n := range m.Visible {
			if n.ID == selectID {
				m.SelectedIndex = i
				break
			}
		}
	}
	return nil
}

func (m *Model) applyFilter(query string) {
	m.Query = query
	m.Visible = note.Filter(m.Notes, query)
	if m.SelectedIndex >= len(m.Visible) {
		m.SelectedIndex = len(m.Visible) - 1
	}
	if m.SelectedIndex < 0 {
		m.SelectedIndex = 0
	}
}

func (m *Model) toggleTimer() {
	if m.engine.State().Status == pomodoro.StatusRunning {
		m.engine.Pause()
		return
	}
	if !m.engine.Start() && m.engine.State().Status == pomodoro.StatusExpired {
		m.Status = "Session finished. Press x to reset."
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowSessions {
		return m.handleSessionsInput(msg)
	}

	if m.Editing {
		return m.handleEditorInput(msg)
	}

	if m.Searching {
		return m.handleSearchInput(msg)
	}

	m.Err = nil
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.SelectedIndex > 0 {
			m.SelectedIndex--
		}
	case "down", "j":
		if m.SelectedIndex < len(m.Visible)-1 {
			m.SelectedIndex++
		}
	case "/":
		m.Searching = true
		m.search.SetValue(m.Query)
		return m, m.search.Focus()
	case "esc":
		m.applyFilter("")
	case "n":
		m.openEditor(nil)
	case "e", "enter":
		if n := m.SelectedNote(); n != nil {
			m.openEditor(n)
		}
	case "p":
		m.Previewing = !m.Previewing
	case "f":
		if n := m.SelectedNote(); n != nil {
			if err := m.notes.SetFavorite(n.ID, !n.Favorite); err != nil {
				m.Err = err
				break
			}
			m.Err = m.reload(n.ID)
		}
	case "d":
		if n := m.SelectedNote(); n != nil {
			if err := m.notes.Delete(n.ID); err != nil {
				m.Err = err
				break
			}
			m.logger.Info("note deleted", zap.String("id", n.ID))
			m.Err = m.reload("")
		}
	case "s", " ":
		m.toggleTimer()
	case "x":
		m.engine.Stop()
	case "l":
		m.openSessions()
	}
	return m, nil
}

func (m *Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.Searching = false
		m.applyFilter("")
		return m, nil
	case "enter":
		m.search.Blur()
		m.Searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter(m.search.Value())
	return m, cmd
}

func (m *Model) openSessions() {
	sessions, err := m.sessions.Recent(100)
	if err != nil {
		m.Err = err
		return
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	total, err := m.sessions.TotalFocused(today)
	if err != nil {
		m.Err = err
		return
	}
	m.Sessions = sessions
	m.FocusedToday = total
	m.SessionScroll = 0
	m.ShowSessions = true
}

func (m *Model) handleSessionsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "l":
		m.ShowSessions = false
		m.Sessions = nil
	case "up", "k":
		if m.SessionScroll > 0 {
			m.SessionScroll--
		}
	case "down", "j":
		if m.SessionScroll < len(m.Sessions)-1 {
			m.SessionScroll++
		}
	}
	return m, nil
}

// openEditor starts editing n, or a new note when n is nil.
func (m *Model) openEditor(n *note.Note) {
	if n == nil {
		m.Draft = note.NewNote("", "")
		m.isNew = true
		m.InputFocus = focusTitle
	} else {
		draft := *n
		draft.Tags = append([]string(nil), n.Tags...)
		m.Draft = &draft
		m.isNew = false
		m.InputFocus = focusBody
	}
	m.body = editor.NewBuffer(m.Draft.Content)
	m.TagInput = ""
	m.Editing = true
}

func (m *Model) closeEditor() {
	m.Editing = false
	m.Draft = nil
	m.body = nil
	m.TagInput = ""
}

func (m *Model) saveDraft() error {
	d := m.Draft
	d.Content = m.body.Value()
	if m.TagInput != "" {
		d.AddTag(m.TagInput)
		m.TagInput = ""
	}

	var err error
	if m.isNew {
		err = m.notes.Create(d)
	} else {
		err = m.notes.Update(d)
	}
	if err != nil {
		return err
	}
	m.logger.Info("note saved", zap.String("id", d.ID), zap.Bool("new", m.isNew))

	id := d.ID
	m.closeEditor()
	return m.reload(id)
}

func (m *Model) handleEditorInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeEditor()
		return m, nil
	case "ctrl+s":
		if err := m.saveDraft(); err != nil {
			m.Err = err
		}
		return m, nil
	case "tab":
		m.InputFocus = (m.InputFocus + 1) % 3
		return m, nil
	case "shift+tab":
		m.InputFocus = (m.InputFocus + 2) % 3
		return m, nil
	}

	switch m.InputFocus {
	case focusTitle:
		m.handleTitleInput(msg)
	case focusTags:
		m.handleTagInput(msg)
	default:
		m.handleBodyInput(msg)
	}
	return m, nil
}

func (m *Model) handleTitleInput(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter":
		m.InputFocus = focusBody
	case "backspace":
		if runes := []rune(m.Draft.Title); len(runes) > 0 {
			m.Draft.Title = string(runes[:len(runes)-1])
		}
	default:
		m.Draft.Title += typed(msg)
	}
}

func (m *Model) handleTagInput(msg tea.KeyMsg) {
	switch msg.String() {
	case "enter":
		m.Draft.AddTag(m.TagInput)
		m.TagInput = ""
	case "backspace":
		if runes := []rune(m.TagInput); len(runes) > 0 {
			m.TagInput = string(runes[:len(runes)-1])
		} else if len(m.Draft.Tags) > 0 {
			m.Draft.RemoveTag(m.Draft.Tags[len(m.Draft.Tags)-1])
		}
	default:
		m.TagInput += typed(msg)
	}
}

var formatKeys = map[string]editor.Style{
	"ctrl+b": editor.Bold,
	"ctrl+e": editor.Italic,
	"ctrl+u": editor.Underline,
	"ctrl+l": editor.Bullet,
	"ctrl+n": editor.Numbered,
	"ctrl+k": editor.Code,
}

func (m *Model) handleBodyInput(msg tea.KeyMsg) {
	key := msg.String()
	if style, ok := formatKeys[key]; ok {
		m.body.Apply(style)
		return
	}

	switch key {
	case "left":
		m.body.Left(false)
	case "right":
		m.body.Right(false)
	case "up":
		m.body.Up(false)
	case "down":
		m.body.Down(false)
	case "home":
		m.body.Home(false)
	case "end":
		m.body.End(false)
	case "shift+left":
		m.body.Left(true)
	case "shift+right":
		m.body.Right(true)
	case "shift+up":
		m.body.Up(true)
	case "shift+down":
		m.body.Down(true)
	case "shift+home":
		m.body.Home(true)
	case "shift+end":
		m.body.End(true)
	case "ctrl+a":
		m.body.SelectAll()
	case "backspace":
		m.body.Backspace()
	case "delete":
		m.body.Delete()
	case "enter":
		m.body.Insert("\n")
	default:
		if s := typed(msg); s != "" {
			m.body.Insert(s)
		}
	}
}

// typed returns the text a key press inserts, if any.
func typed(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	}
	return ""
}
