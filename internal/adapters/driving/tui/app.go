package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/views/sessions"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/views/table"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	sessionsView *sessions.View
	tableView    *table.View
	chatView     *chat.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		sessionsView: sessions.NewView(s, ports.Sessions),
		tableView:    table.NewView(s, ports.Sessions),
		chatView:     chat.NewView(s, nil, ports.Chat, ports.Sessions),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ropa - Record of Processing Activities"),
		a.loadActive(),
	)
}

// loadActive refreshes the active session shown on the menu.
func (a *App) loadActive() tea.Cmd {
	return func() tea.Msg {
		s, err := a.ports.Sessions.Active(a.ctx)
		return messages.SessionLoaded{Session: s, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSessions:
			return a, a.sessionsView.Init()
		case messages.ViewTable:
			return a, a.tableView.Init()
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu:
			return a, a.loadActive()
		case messages.ViewHelp:
		}
		return a, nil

	case messages.SessionLoaded:
		// Every loader reports the active session; the menu header tracks it too.
		a.menuView, _ = a.menuView.Update(msg)
		switch a.currentView {
		case messages.ViewTable:
			a.tableView, cmd = a.tableView.Update(msg)
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewMenu, messages.ViewSessions, messages.ViewSettings, messages.ViewHelp:
		}
		return a, cmd

	case messages.SessionsLoaded, messages.SessionDeleted:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
		return a, tea.Batch(cmd, a.loadActive())

	case messages.SessionCreated:
		if msg.Err != nil {
			a.sessionsView, cmd = a.sessionsView.Update(msg)
			return a, cmd
		}
		a.currentView = messages.ViewTable
		return a, a.tableView.Init()

	case messages.SessionSwitched:
		if msg.Err != nil {
			a.sessionsView, cmd = a.sessionsView.Update(msg)
			return a, cmd
		}
		a.currentView = messages.ViewTable
		return a, a.tableView.Init()

	case messages.CellEdited:
		a.tableView, cmd = a.tableView.Update(msg)
		return a, cmd

	case messages.ChatAnswered:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewChat {
			a.chatView, cmd = a.chatView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSessions:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
	case messages.ViewTable:
		a.tableView, cmd = a.tableView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSessions:
		return a.sessionsView.View()
	case messages.ViewTable:
		return a.tableView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Table:
  h/j/k/l     Move between cells
  0 / $       First / last column
  e, enter    Edit cell (saved as a manual edit)
  c           Ask the AI about this table
  r           Reload

Chat:
  (type)      Enter a question
  enter       Send

Sessions:
  enter       Switch to session
  n           New session
  d d         Delete session

Cell colours: initial extraction, manual edit, AI chat rewrite.

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.sessionsView.SetDimensions(width, height)
	a.tableView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
