// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// Item is one menu entry.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType

	// NeedsSession disables the entry while no session is active.
	NeedsSession bool

	// Quit exits the app instead of changing view.
	Quit bool
}

// sessionInfo is the header summary of the active session.
type sessionInfo struct {
	title     string
	documents int
	bySource  map[domain.Source]int
}

// View is the main menu.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool

	active *sessionInfo
	notice string
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Table", Hint: "review and edit extracted cells", View: messages.ViewTable, NeedsSession: true},
			{Label: "Chat", Hint: "ask the analyst, apply its patches", View: messages.ViewChat, NeedsSession: true},
			{Label: "Sessions", Hint: "create, switch or delete sessions", View: messages.ViewSessions},
			{Label: "Settings", Hint: "provider, model and storage", View: messages.ViewSettings},
			{Label: "Help", Hint: "key bindings", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SessionLoaded:
		v.notice = ""
		if msg.Err != nil || msg.Session == nil {
			v.active = nil
			return v, nil
		}
		v.active = summarise(msg.Session)
		return v, nil

	case tea.KeyMsg:
		v.notice = ""
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case "enter":
			return v, v.choose(v.items[v.selected])
		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

func (v *View) choose(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	if item.NeedsSession && v.active == nil {
		v.notice = item.Label + " needs an active session. Open Sessions to create one."
		return nil
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// summarise counts documents and cells per provenance.
func summarise(s *domain.Session) *sessionInfo {
	info := &sessionInfo{
		title:     s.Title,
		documents: len(s.Records),
		bySource:  make(map[domain.Source]int, 3),
	}
	for _, r := range s.Records {
		for _, c := range r.Cells() {
			info.bySource[c.Source]++
		}
	}
	return info
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("RoPA"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Record of Processing Activities"))
	b.WriteString("\n\n")
	b.WriteString(v.renderSession())
	b.WriteString("\n\n")

	for i, item := range v.items {
		disabled := item.NeedsSession && v.active == nil
		cursor := "  "
		label := v.styles.Normal.Render(item.Label)
		switch {
		case i == v.selected:
			cursor = "> "
			label = v.styles.Selected.Render(item.Label)
		case disabled:
			label = v.styles.Muted.Render(item.Label)
		}
		b.WriteString(cursor + label)
		if item.Hint != "" && v.width >= 60 {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

func (v *View) renderSession() string {
	if v.active == nil {
		return v.styles.Muted.Render("No active session")
	}
	line := v.styles.Subtitle.Render("Session: " + v.active.title)
	if v.active.documents == 0 {
		return line + "\n" + v.styles.Muted.Render("no documents analysed yet")
	}
	counts := fmt.Sprintf("%d document(s)  ", v.active.documents)
	return line + "\n" + v.styles.Muted.Render(counts) +
		v.styles.CellManual.Render(fmt.Sprintf("%d manual", v.active.bySource[domain.SourceManual])) + "  " +
		v.styles.CellAIChat.Render(fmt.Sprintf("%d chat", v.active.bySource[domain.SourceAIChat]))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Active returns the title of the active session, or empty.
func (v *View) Active() string {
	if v.active == nil {
		return ""
	}
	return v.active.title
}

// Notice returns the message shown after a blocked selection.
func (v *View) Notice() string {
	return v.notice
}
