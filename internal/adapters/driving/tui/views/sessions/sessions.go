// Package sessions provides the session list view for the TUI.
package sessions

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// View lists sessions and switches between them.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService

	sessions []domain.SessionSummary
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool

	// confirmDelete holds the ID awaiting a second "d".
	confirmDelete string
}

// NewView creates a new sessions view.
func NewView(s *styles.Styles, sessionService driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		sessionService: sessionService,
	}
}

// Init initialises the view and loads sessions.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.confirmDelete = ""
	return v.loadSessions()
}

func (v *View) loadSessions() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionsLoaded{Err: fmt.Errorf("session service not available")}
		}
		list, err := v.sessionService.List(context.Background())
		return messages.SessionsLoaded{Sessions: list, Err: err}
	}
}

// Update handles messages for the sessions view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.sessions = msg.Sessions
		v.err = nil
		if v.selected >= len(v.sessions) {
			v.selected = max(len(v.sessions)-1, 0)
		}
		return v, nil

	case messages.SessionDeleted, messages.SessionCreated, messages.SessionSwitched:
		if err := resultErr(msg); err != nil {
			v.err = err
			return v, nil
		}
		return v, v.loadSessions()
	}

	return v, nil
}

func resultErr(msg tea.Msg) error {
	switch m := msg.(type) {
	case messages.SessionDeleted:
		return m.Err
	case messages.SessionCreated:
		return m.Err
	case messages.SessionSwitched:
		return m.Err
	}
	return nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	if keyStr != "d" {
		v.confirmDelete = ""
	}

	switch keyStr {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sessions)-1 {
			v.selected++
		}
	case "enter":
		if s, ok := v.current(); ok {
			return v, v.switchTo(s.ID)
		}
	case "n":
		return v, v.create()
	case "d", "delete":
		s, ok := v.current()
		if !ok {
			return v, nil
		}
		if v.confirmDelete != s.ID {
			v.confirmDelete = s.ID
			return v, nil
		}
		v.confirmDelete = ""
		return v, v.deleteSession(s.ID)
	case "r":
		v.loading = true
		return v, v.loadSessions()
	}

	return v, nil
}

func (v *View) current() (domain.SessionSummary, bool) {
	if v.selected < 0 || v.selected >= len(v.sessions) {
		return domain.SessionSummary{}, false
	}
	return v.sessions[v.selected], true
}

func (v *View) switchTo(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.sessionService.SwitchTo(context.Background(), id)
		return messages.SessionSwitched{ID: id, Err: err}
	}
}

func (v *View) create() tea.Cmd {
	return func() tea.Msg {
		s, err := v.sessionService.Create(context.Background())
		return messages.SessionCreated{Session: s, Err: err}
	}
}

func (v *View) deleteSession(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.sessionService.Delete(context.Background(), id)
		return messages.SessionDeleted{ID: id, Err: err}
	}
}

// View renders the sessions view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sessions"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sessions..."))
		b.WriteString("\n\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	case len(v.sessions) == 0:
		b.WriteString(v.styles.Muted.Render("No sessions yet. Press n to start one."))
		b.WriteString("\n\n")
	default:
		for i := range v.sessions {
			b.WriteString(v.renderSession(i, &v.sessions[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if v.confirmDelete != "" {
			b.WriteString(v.styles.Warning.Render("Press d again to delete this session."))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

// renderSession renders one line: > * title  docs  turns  updated.
func (v *View) renderSession(index int, s *domain.SessionSummary) string {
	cursor := "  "
	if index == v.selected {
		cursor = "> "
	}
	active := " "
	if s.Active {
		active = "*"
	}

	title := s.Title
	maxTitle := v.width - 50
	if maxTitle < 12 {
		maxTitle = 12
	}
	if r := []rune(title); len(r) > maxTitle {
		title = string(r[:maxTitle-3]) + "..."
	}

	detail := fmt.Sprintf("%2d docs  %2d turns  %s",
		s.DocumentCount, s.TurnCount, s.UpdatedAt.Format("2006-01-02 15:04"))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s %-*s %s", cursor, active, maxTitle, title, detail))
	}
	return v.styles.Normal.Render(cursor) +
		v.styles.Subtitle.Render(active+" ") +
		v.styles.Normal.Render(fmt.Sprintf("%-*s ", maxTitle, title)) +
		v.styles.Muted.Render(detail)
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] switch  [n] new  [d] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sessions returns the listed sessions.
func (v *View) Sessions() []domain.SessionSummary {
	return v.sessions
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
