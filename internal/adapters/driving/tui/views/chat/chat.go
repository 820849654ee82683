// Package chat provides the chat view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// View shows the active session's transcript with an input line.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input      *input.TextInput
	statusbar  *status.Bar
	transcript viewport.Model

	chatService    driving.ChatService
	sessionService driving.SessionService
	ctx            context.Context

	session  *domain.Session
	pending  string
	outcomes []domain.PatchOutcome

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	sessionService driving.SessionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:         s,
		keymap:         km,
		input:          input.NewTextInput(s, "Ask", "e.g. isi masa retensi untuk semua dokumen dengan 5 tahun"),
		statusbar:      status.NewBar(s, km),
		transcript:     viewport.New(80, 12),
		chatService:    chatService,
		sessionService: sessionService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the input and loads the transcript.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.loadSession())
}

func (v *View) loadSession() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionLoaded{Err: errors.New("session service not available")}
		}
		s, err := v.sessionService.Active(v.ctx)
		return messages.SessionLoaded{Session: s, Err: err}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionLoaded:
		if msg.Err != nil {
			v.session = nil
			if !errors.Is(msg.Err, domain.ErrNoActiveSession) {
				v.err = msg.Err
			}
			v.refreshTranscript()
			return v, nil
		}
		v.session = msg.Session
		v.refreshTranscript()
		return v, nil

	case messages.ChatAnswered:
		return v, v.handleAnswer(msg)

	case messages.ErrorOccurred:
		v.pending = ""
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	case tea.KeyEnter:
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.pending != "" {
			return v, nil
		}
		v.pending = question
		v.outcomes = nil
		v.err = nil
		v.input.Reset()
		v.statusbar.SetState(status.StateWorking)
		v.statusbar.SetMessage("Thinking...")
		v.refreshTranscript()
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		result, err := v.chatService.Ask(v.ctx, "", question)
		return messages.ChatAnswered{Result: result, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.ChatAnswered) tea.Cmd {
	v.pending = ""
	if msg.Result != nil {
		v.outcomes = msg.Result.Outcomes
	}

	switch {
	case msg.Err != nil:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	default:
		applied := 0
		for _, o := range v.outcomes {
			if o.Status == domain.PatchApplied {
				applied++
			}
		}
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("%d cell(s) updated", applied))
	}

	// The transcript holds both turns even when the model call failed.
	return v.loadSession()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	title := "Chat"
	if v.session != nil {
		title += ": " + v.session.Title
	}
	sections = append(sections, v.styles.Title.Render(title), "")

	if v.session == nil && v.err == nil {
		sections = append(sections,
			v.styles.Muted.Render("No active session. Analyse documents before asking questions."), "")
	}

	sections = append(sections, v.transcript.View(), "")

	if len(v.outcomes) > 0 {
		lines := make([]string, 0, len(v.outcomes))
		for _, o := range v.outcomes {
			style := v.styles.CellAIChat
			if o.Status != domain.PatchApplied {
				style = v.styles.Muted
			}
			lines = append(lines, style.Render("  "+o.String()))
		}
		sections = append(sections, strings.Join(lines, "\n"), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshTranscript re-renders the turns into the viewport and scrolls to
// the newest one.
func (v *View) refreshTranscript() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	var lines []string
	if v.session != nil {
		for _, turn := range v.session.Transcript {
			lines = append(lines, v.renderTurn(turn))
		}
	}
	if v.pending != "" {
		lines = append(lines,
			v.styles.Normal.Render("you: "+v.pending),
			v.styles.Muted.Render("ai: ..."))
	}
	if len(lines) == 0 {
		return v.styles.Muted.Render("No messages yet.")
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderTurn(turn domain.ChatTurn) string {
	who := "you"
	style := v.styles.Normal
	if turn.Sender == domain.SenderAI {
		who = "ai"
		style = v.styles.Subtitle
		if turn.Failed {
			style = v.styles.Error
		}
	}
	text := fmt.Sprintf("[%s] %s: %s", turn.Timestamp.Format("15:04"), who, turn.Text)
	return style.Width(max(v.width-2, 20)).Render(text)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.transcript.Width = width
	v.transcript.Height = max(height-12, 4)
	v.refreshTranscript()
}

// Pending returns the question awaiting an answer.
func (v *View) Pending() string {
	return v.pending
}

// Outcomes returns the patch outcomes of the last answer.
func (v *View) Outcomes() []domain.PatchOutcome {
	return v.outcomes
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
